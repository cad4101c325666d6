//go:build windows

package socket

import (
	"context"
	"time"
)

// isPipeAvailable checks if the named pipe is available by attempting to
// connect to it with a short timeout.
func isPipeAvailable(pipePath string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	conn, err := dialNamedPipe(ctx, pipePath)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
