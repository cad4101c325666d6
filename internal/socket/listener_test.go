//go:build !windows

package socket_test

import (
	"context"
	"net"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gtrak/mcp-cli/internal/socket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAndDial_RoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix listener test")
	}

	// Given: a socket path nested under a not-yet-created directory
	endpoint := "unix://" + filepath.Join(t.TempDir(), "nested", "daemon.sock")

	ln, err := socket.Listen(endpoint)
	require.NoError(t, err)
	defer ln.Close()
	defer func() { _ = socket.Cleanup(endpoint) }()

	accepted := make(chan struct{})
	go func() {
		conn, acceptErr := ln.Accept()
		require.NoError(t, acceptErr)
		conn.Close()
		close(accepted)
	}()

	// When: dialing the listener
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := socket.Dial(ctx, endpoint)

	// Then: the connection succeeds and the server observed the accept
	require.NoError(t, err)
	conn.Close()

	select {
	case <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("listener never accepted the connection")
	}
}

func TestListen_UnlinksStaleSocketFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix listener test")
	}

	dir := t.TempDir()
	endpoint := "unix://" + filepath.Join(dir, "daemon.sock")

	ln1, err := socket.Listen(endpoint)
	require.NoError(t, err)
	ln1.(*net.UnixListener).SetUnlinkOnClose(false)
	ln1.Close()

	// The closed listener leaves its socket file behind, as a daemon that
	// exited uncleanly would; Listen must remove it rather than failing
	// with "address already in use".
	ln2, err := socket.Listen(endpoint)
	require.NoError(t, err)
	ln2.Close()
	_ = socket.Cleanup(endpoint)
}

func TestIsSocketAvailable_ExistingListener(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix listener test")
	}

	endpoint := "unix://" + filepath.Join(t.TempDir(), "daemon.sock")
	ln, err := socket.Listen(endpoint)
	require.NoError(t, err)
	defer ln.Close()

	assert.True(t, socket.IsSocketAvailable(endpoint))
}
