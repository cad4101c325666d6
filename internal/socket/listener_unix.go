//go:build !windows

package socket

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// Listen binds the Unix domain socket at endpoint's path, creating its
// parent directory with user-only permissions and unlinking any stale
// socket file left behind by a previous, uncleanly-terminated daemon.
func Listen(endpoint string) (net.Listener, error) {
	path := unixPath(endpoint)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}

	return net.Listen("unix", path)
}

// Dial connects to the Unix domain socket at endpoint's path.
func Dial(ctx context.Context, endpoint string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", unixPath(endpoint))
}

// Cleanup removes the socket file. A missing file is not an error.
func Cleanup(endpoint string) error {
	err := os.Remove(unixPath(endpoint))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func unixPath(endpoint string) string {
	if len(endpoint) >= 7 && endpoint[:7] == "unix://" {
		return endpoint[7:]
	}
	return endpoint
}
