// Package socket resolves and connects to the daemon's IPC endpoint: a Unix
// domain socket under XDG_RUNTIME_DIR (or /tmp as a fallback) on POSIX, a
// fixed named pipe on Windows.
package socket

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SocketName is the Unix socket filename inside the runtime directory.
const SocketName = "daemon.sock"

// PipeName is the fixed Windows named pipe path. A single local daemon
// binds it; first_pipe_instance prevents a second daemon from racing it.
const PipeName = `\\.\pipe\mcp-cli-daemon`

// DefaultEndpoint resolves the platform-appropriate IPC endpoint.
//
// On Windows this is always PipeName. On POSIX it prefers
// $XDG_RUNTIME_DIR/mcp-cli/daemon.sock, falling back to
// /tmp/mcp-cli-$UID/daemon.sock when XDG_RUNTIME_DIR is unset.
func DefaultEndpoint() string {
	if runtime.GOOS == "windows" {
		return PipeName
	}
	return "unix://" + DefaultUnixSocketPath()
}

// DefaultUnixSocketPath returns the filesystem path of the Unix socket,
// without the unix:// scheme prefix.
func DefaultUnixSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "mcp-cli", SocketName)
	}
	return filepath.Join(fmt.Sprintf("/tmp/mcp-cli-%d", os.Getuid()), SocketName)
}

// IsSocketAvailable reports whether the given endpoint has a live listener.
// On POSIX it only checks for the socket file's existence; callers that
// need a liveness guarantee should attempt to connect (see Dial).
func IsSocketAvailable(endpoint string) bool {
	if runtime.GOOS == "windows" {
		return isPipeAvailable(endpoint)
	}
	path := endpoint
	if len(path) >= len("unix://") && path[:7] == "unix://" {
		path = path[7:]
	}
	_, err := os.Stat(path)
	return err == nil
}
