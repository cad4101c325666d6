package socket_test

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gtrak/mcp-cli/internal/socket"

	"github.com/stretchr/testify/assert"
)

func TestDefaultEndpoint_UsesXDGRuntimeDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG_RUNTIME_DIR is POSIX-only")
	}

	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)

	endpoint := socket.DefaultEndpoint()

	assert.Equal(t, "unix://"+filepath.Join(dir, "mcp-cli", "daemon.sock"), endpoint)
}

func TestDefaultEndpoint_FallsBackToTmpWithUID(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("UID fallback is POSIX-only")
	}

	t.Setenv("XDG_RUNTIME_DIR", "")

	endpoint := socket.DefaultEndpoint()

	expected := fmt.Sprintf("unix:///tmp/mcp-cli-%d/daemon.sock", os.Getuid())
	assert.Equal(t, expected, endpoint)
}

func TestDefaultEndpoint_Windows(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("pipe naming is Windows-only")
	}

	assert.Equal(t, socket.PipeName, socket.DefaultEndpoint())
}

func TestIsSocketAvailable_MissingFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix socket stat check is POSIX-only")
	}

	assert.False(t, socket.IsSocketAvailable("unix:///nonexistent/path/daemon.sock"))
}
