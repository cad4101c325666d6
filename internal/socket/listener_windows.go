//go:build windows

package socket

import (
	"context"
	"net"

	winio "github.com/Microsoft/go-winio"
)

// pipeConfig restricts the daemon's named pipe to local, non-impersonating
// clients and ensures a second daemon cannot bind the same pipe name.
var pipeConfig = &winio.PipeConfig{
	SecurityDescriptor: "",
	MessageMode:        false,
	InputBufferSize:    4096,
	OutputBufferSize:   4096,
}

// Listen binds the named pipe. Each accepted connection must be followed by
// creating a fresh listener instance before the next Accept call so
// concurrent clients can connect; go-winio's PipeListener.Accept already
// does this internally.
func Listen(endpoint string) (net.Listener, error) {
	return winio.ListenPipe(pipePath(endpoint), pipeConfig)
}

// Dial connects to the named pipe.
func Dial(ctx context.Context, endpoint string) (net.Conn, error) {
	return dialNamedPipe(ctx, pipePath(endpoint))
}

// Cleanup is a no-op on Windows: the pipe is released when the listener closes.
func Cleanup(endpoint string) error {
	return nil
}

func dialNamedPipe(ctx context.Context, pipePath string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, pipePath)
}

func pipePath(endpoint string) string {
	if endpoint == "" {
		return PipeName
	}
	return endpoint
}
