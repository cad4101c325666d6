package cliclient

import (
	"context"

	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/daemon"
	"github.com/gtrak/mcp-cli/internal/mcperr"
	"github.com/gtrak/mcp-cli/internal/mcpclient"
	"github.com/gtrak/mcp-cli/internal/pool"
)

// DirectClient implements ProtocolClient by building a fresh Pool over
// cfg's servers and talking to tool servers straight from the CLI
// process, with no daemon involved. Acceptable because a CLI invocation
// is short-lived: connections are built and torn down within one call.
type DirectClient struct {
	cfg  *config.Config
	pool *pool.Pool
}

// NewDirectClient builds a DirectClient over cfg.
func NewDirectClient(cfg *config.Config) *DirectClient {
	return &DirectClient{cfg: cfg, pool: pool.New(cfg.Servers)}
}

func (d *DirectClient) ListServers(ctx context.Context) ([]string, error) {
	return d.pool.ServerNames(d.cfg.Servers), nil
}

func (d *DirectClient) ListTools(ctx context.Context, server string) ([]mcpclient.ToolInfo, error) {
	return d.pool.ListTools(ctx, server)
}

func (d *DirectClient) ExecuteTool(ctx context.Context, server, tool string, args map[string]interface{}) (interface{}, error) {
	srv := d.serverConfig(server)
	if srv == nil {
		return nil, mcperr.ServerNotFound(server)
	}
	if allowed, pattern := srv.ToolAllowed(tool); !allowed {
		return nil, mcperr.Usage("tool %q on server %q is blocked by pattern %q", tool, server, pattern)
	}
	return d.pool.Execute(ctx, server, tool, args)
}

// Shutdown is a no-op in direct mode: there is no daemon process to stop.
func (d *DirectClient) Shutdown(ctx context.Context) error {
	return nil
}

func (d *DirectClient) ConfigFingerprint(ctx context.Context) (string, error) {
	return daemon.Fingerprint(d.cfg)
}

// Close releases every connection this client opened.
func (d *DirectClient) Close() error {
	d.pool.Clear()
	return nil
}

func (d *DirectClient) serverConfig(name string) *config.ServerConfig {
	for _, s := range d.cfg.Servers {
		if s.Name == name {
			return s
		}
	}
	return nil
}
