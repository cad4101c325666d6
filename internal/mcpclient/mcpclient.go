// Package mcpclient opens one JSON-RPC channel to one tool server and
// layers the MCP initialize handshake, request bookkeeping, and
// tools/list / tools/call calls on top of it. It collapses what the rest
// of the system thinks of as two layers — a raw Transport and an MCP
// Client wrapping it — into one handle, because mark3labs/mcp-go's
// high-level client already owns request-id generation and response
// correlation; there is no raw JSON-RPC layer left to expose separately.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/mcperr"
	"github.com/gtrak/mcp-cli/internal/secureenv"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// protocolVersion is the fixed MCP protocol version this client speaks.
// The handshake does not negotiate a different one.
const protocolVersion = "2024-11-05"

// sendTimeout bounds a single stdio read/write exchange.
const sendTimeout = 30 * time.Second

// pingTimeout bounds a liveness probe.
const pingTimeout = 5 * time.Second

// ToolInfo is the result of mapping one tools/list entry.
type ToolInfo struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// Conn wraps one mark3labs/mcp-go client for one tool server. The
// initialize handshake runs once, at Connect; every later call reuses the
// same connection without re-handshaking.
type Conn struct {
	server string
	kind   string
	client *client.Client
}

// Kind returns "stdio" or "http".
func (c *Conn) Kind() string { return c.kind }

// Connect builds a transport for srv (stdio spawns the child process, http
// dials nothing up front) and performs the MCP initialize handshake.
func Connect(ctx context.Context, srv *config.ServerConfig) (*Conn, error) {
	kind := srv.TransportKind()

	var mcpClient *client.Client
	switch kind {
	case "stdio":
		c, err := newStdioClient(srv)
		if err != nil {
			return nil, mcperr.Connection(srv.Name, err, "failed to start stdio server %q", srv.Name)
		}
		mcpClient = c
	case "http", "streamable-http", "sse":
		c, err := newHTTPClient(srv)
		if err != nil {
			return nil, mcperr.Connection(srv.Name, err, "failed to create http client for %q", srv.Name)
		}
		mcpClient = c
	default:
		return nil, mcperr.Config("unknown transport kind %q for server %q", kind, srv.Name)
	}

	if err := mcpClient.Start(ctx); err != nil {
		return nil, mcperr.Connection(srv.Name, err, "failed to start transport for %q", srv.Name)
	}

	conn := &Conn{server: srv.Name, kind: kind, client: mcpClient}
	if err := conn.initialize(ctx); err != nil {
		_ = mcpClient.Close()
		return nil, err
	}
	return conn, nil
}

func (c *Conn) initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = protocolVersion
	req.Params.ClientInfo = mcp.Implementation{Name: "mcp-cli", Version: "0.1.0"}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	result, err := c.client.Initialize(ctx, req)
	if err != nil {
		return classifyInitError(c.server, err)
	}
	if result == nil {
		return mcperr.Protocol(nil, "server %q returned no initialize result", c.server)
	}
	// notifications/initialized is intentionally never awaited: the MCP
	// client library fires it and we proceed without blocking on it.
	return nil
}

// ListTools sends tools/list and maps the response into ToolInfo values.
func (c *Conn) ListTools(ctx context.Context) ([]ToolInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	result, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, classifyCallError(c.server, "", err)
	}

	tools := make([]ToolInfo, 0, len(result.Tools))
	for i := range result.Tools {
		t := &result.Tools[i]
		if t.Name == "" {
			return nil, mcperr.Protocol(nil, "server %q returned a tool with no name", c.server)
		}
		schema, err := schemaToMap(t.InputSchema)
		if err != nil {
			return nil, mcperr.Protocol(err, "server %q returned an unparseable input schema for tool %q", c.server, t.Name)
		}
		tools = append(tools, ToolInfo{Name: t.Name, Description: t.Description, InputSchema: schema})
	}
	return tools, nil
}

// CallTool sends tools/call for name with arguments and returns the
// result's content as a generic value tree.
func (c *Conn) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments

	result, err := c.client.CallTool(ctx, req)
	if err != nil {
		return nil, classifyCallError(c.server, name, err)
	}
	// A server that sets isError:true still frequently attaches explanatory
	// content (the error message, a partial result); only treat it as a hard
	// protocol failure when there's nothing to show for it.
	if len(result.Content) > 0 {
		return contentToValue(result.Content), nil
	}
	if result.IsError {
		return nil, mcperr.Protocol(nil, "tool %q on server %q returned an error result", name, c.server)
	}
	return contentToValue(result.Content), nil
}

// Ping probes liveness with a short bound, used by the connection pool's
// health check.
func (c *Conn) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.client.Ping(ctx); err != nil {
		return mcperr.Timeout(pingTimeout.Seconds())
	}
	return nil
}

// Close tears down the underlying transport. For stdio this kills the
// child process; implementations must not rely on the OS reaping it.
func (c *Conn) Close() error {
	return c.client.Close()
}

func newStdioClient(srv *config.ServerConfig) (*client.Client, error) {
	if srv.Command == "" {
		return nil, fmt.Errorf("no command specified for stdio server %q", srv.Name)
	}

	envBuilder := secureenv.NewChildEnvBuilder(secureenv.DefaultEnvConfig())
	envVars := envBuilder.BuildSecureEnvironment()
	for k, v := range srv.Env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", k, v))
	}

	stdioTransport := transport.NewStdio(srv.Command, envVars, srv.Args...)
	return client.NewClient(stdioTransport), nil
}

func newHTTPClient(srv *config.ServerConfig) (*client.Client, error) {
	if srv.URL == "" {
		return nil, fmt.Errorf("no URL specified for http server %q", srv.Name)
	}

	var httpTransport *transport.StreamableHTTP
	var err error
	if len(srv.Headers) > 0 {
		httpTransport, err = transport.NewStreamableHTTP(srv.URL, transport.WithHTTPHeaders(srv.Headers))
	} else {
		httpTransport, err = transport.NewStreamableHTTP(srv.URL, transport.WithHTTPTimeout(sendTimeout))
	}
	if err != nil {
		return nil, err
	}
	return client.NewClient(httpTransport), nil
}

// schemaToMap decodes a tool's input schema into a generic value tree. Both
// the "inputSchema" and the older "input_schema" wire keys are accepted by
// the underlying library's JSON decoding before this function ever runs.
func schemaToMap(schema interface{ MarshalJSON() ([]byte, error) }) (map[string]interface{}, error) {
	raw, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func contentToValue(content []mcp.Content) interface{} {
	items := make([]interface{}, 0, len(content))
	for _, c := range content {
		if tc, ok := c.(mcp.TextContent); ok {
			items = append(items, map[string]interface{}{"type": "text", "text": tc.Text})
			continue
		}
		items = append(items, c)
	}
	return map[string]interface{}{"content": items}
}

func classifyInitError(server string, err error) error {
	return mcperr.Connection(server, err, "initialize handshake with %q failed", server)
}

func classifyCallError(server, tool string, err error) error {
	if tool == "" {
		return mcperr.Connection(server, err, "request to %q failed", server)
	}
	return mcperr.Connection(server, err, "call to %q on %q failed", tool, server)
}
