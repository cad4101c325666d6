// Package cliclient implements the two ProtocolClient bindings the CLI
// request path chooses between: a direct in-process client for
// no-daemon mode, and an IPC client that talks to a running daemon.
package cliclient

import (
	"context"

	"github.com/gtrak/mcp-cli/internal/mcpclient"
)

// ProtocolClient is the boundary the CLI request path programs against,
// satisfied identically by the direct and IPC implementations.
type ProtocolClient interface {
	ListServers(ctx context.Context) ([]string, error)
	ListTools(ctx context.Context, server string) ([]mcpclient.ToolInfo, error)
	ExecuteTool(ctx context.Context, server, tool string, args map[string]interface{}) (interface{}, error)
	Shutdown(ctx context.Context) error
	ConfigFingerprint(ctx context.Context) (string, error)
	Close() error
}
