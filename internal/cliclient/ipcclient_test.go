package cliclient_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gtrak/mcp-cli/internal/cliclient"
	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/daemon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testEndpoint(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix socket test")
	}
	return "unix://" + filepath.Join(t.TempDir(), "daemon.sock")
}

func startTestDaemon(t *testing.T, cfg *config.Config) string {
	t.Helper()
	endpoint := testEndpoint(t)

	state, err := daemon.NewState(cfg, time.Hour)
	require.NoError(t, err)

	core, err := daemon.NewCore(state, endpoint, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = core.Run(ctx) }()

	return endpoint
}

func TestIPCClient_Ping_AgainstRunningDaemon(t *testing.T) {
	endpoint := startTestDaemon(t, config.DefaultConfig())
	c := cliclient.NewIPCClient(endpoint)

	assert.NoError(t, c.Ping(context.Background()))
}

func TestIPCClient_ListServers_ReflectsDaemonConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Servers = []*config.ServerConfig{{Name: "a", Command: "echo", Enabled: true}}
	endpoint := startTestDaemon(t, cfg)
	c := cliclient.NewIPCClient(endpoint)

	names, err := c.ListServers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}

func TestIPCClient_ConfigFingerprint_MatchesDaemonFingerprint(t *testing.T) {
	cfg := config.DefaultConfig()
	endpoint := startTestDaemon(t, cfg)
	c := cliclient.NewIPCClient(endpoint)

	want, err := daemon.Fingerprint(cfg)
	require.NoError(t, err)

	got, err := c.ConfigFingerprint(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIPCClient_ListTools_UnknownServerReturnsError(t *testing.T) {
	endpoint := startTestDaemon(t, config.DefaultConfig())
	c := cliclient.NewIPCClient(endpoint)

	_, err := c.ListTools(context.Background(), "missing")

	require.Error(t, err)
}

func TestIPCClient_Shutdown_Acknowledged(t *testing.T) {
	endpoint := startTestDaemon(t, config.DefaultConfig())
	c := cliclient.NewIPCClient(endpoint)

	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestIPCClient_DialFailure_WhenNoDaemonListening(t *testing.T) {
	endpoint := testEndpoint(t)
	c := cliclient.NewIPCClient(endpoint)

	err := c.Ping(context.Background())

	require.Error(t, err)
}
