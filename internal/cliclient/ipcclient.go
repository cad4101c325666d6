package cliclient

import (
	"context"
	"encoding/json"

	"github.com/gtrak/mcp-cli/internal/ipc"
	"github.com/gtrak/mcp-cli/internal/mcperr"
	"github.com/gtrak/mcp-cli/internal/mcpclient"
	"github.com/gtrak/mcp-cli/internal/socket"
)

// IPCClient implements ProtocolClient by dialing a running daemon over
// the local IPC endpoint, one fresh connection per request (per §4.5).
type IPCClient struct {
	endpoint string
}

// NewIPCClient returns a client that dials endpoint for every request.
func NewIPCClient(endpoint string) *IPCClient {
	return &IPCClient{endpoint: endpoint}
}

func (c *IPCClient) roundTrip(ctx context.Context, req *ipc.Request) (*ipc.Response, error) {
	conn, err := socket.Dial(ctx, c.endpoint)
	if err != nil {
		return nil, mcperr.IPC(err, "failed to connect to daemon at %s", c.endpoint)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := ipc.WriteRequest(conn, req); err != nil {
		return nil, mcperr.IPC(err, "failed to send request to daemon")
	}
	resp, err := ipc.ReadResponse(conn)
	if err != nil {
		return nil, mcperr.IPC(err, "failed to read daemon response")
	}
	if resp.Kind == ipc.ResponseError {
		return nil, mcperr.Connection("", nil, "daemon error: %s", resp.Message)
	}
	return resp, nil
}

func (c *IPCClient) ListServers(ctx context.Context) ([]string, error) {
	resp, err := c.roundTrip(ctx, &ipc.Request{Kind: ipc.RequestListServers})
	if err != nil {
		return nil, err
	}
	return resp.Servers, nil
}

func (c *IPCClient) ListTools(ctx context.Context, server string) ([]mcpclient.ToolInfo, error) {
	resp, err := c.roundTrip(ctx, &ipc.Request{Kind: ipc.RequestListTools, ServerName: server})
	if err != nil {
		return nil, err
	}

	tools := make([]mcpclient.ToolInfo, 0, len(resp.Tools))
	for _, t := range resp.Tools {
		info := mcpclient.ToolInfo{Name: t.Name, Description: t.Description}
		if len(t.InputSchema) > 0 {
			var schema map[string]interface{}
			if err := json.Unmarshal(t.InputSchema, &schema); err != nil {
				return nil, mcperr.Protocol(err, "invalid input schema for tool %s", t.Name)
			}
			info.InputSchema = schema
		}
		tools = append(tools, info)
	}
	return tools, nil
}

func (c *IPCClient) ExecuteTool(ctx context.Context, server, tool string, args map[string]interface{}) (interface{}, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, mcperr.Protocol(err, "failed to encode tool arguments")
	}

	resp, err := c.roundTrip(ctx, &ipc.Request{
		Kind: ipc.RequestExecuteTool, ServerName: server, ToolName: tool, Arguments: raw,
	})
	if err != nil {
		return nil, err
	}

	var result interface{}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &result); err != nil {
			return nil, mcperr.Protocol(err, "invalid tool result from daemon")
		}
	}
	return result, nil
}

func (c *IPCClient) Shutdown(ctx context.Context) error {
	resp, err := c.roundTrip(ctx, &ipc.Request{Kind: ipc.RequestShutdown})
	if err != nil {
		return err
	}
	if resp.Kind != ipc.ResponseShutdownAck {
		return mcperr.Protocol(nil, "unexpected response to shutdown: %s", resp.Kind)
	}
	return nil
}

func (c *IPCClient) ConfigFingerprint(ctx context.Context) (string, error) {
	resp, err := c.roundTrip(ctx, &ipc.Request{Kind: ipc.RequestGetConfigFingerprint})
	if err != nil {
		return "", err
	}
	return resp.Fingerprint, nil
}

// Ping issues a liveness probe against the daemon, used by the
// auto-spawn readiness poll.
func (c *IPCClient) Ping(ctx context.Context) error {
	resp, err := c.roundTrip(ctx, &ipc.Request{Kind: ipc.RequestPing})
	if err != nil {
		return err
	}
	if resp.Kind != ipc.ResponsePong {
		return mcperr.Protocol(nil, "unexpected response to ping: %s", resp.Kind)
	}
	return nil
}

// Close is a no-op: IPCClient dials a fresh connection per request and
// holds no persistent state between calls.
func (c *IPCClient) Close() error { return nil }
