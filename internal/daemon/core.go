package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/gtrak/mcp-cli/internal/ipc"
	"github.com/gtrak/mcp-cli/internal/mcperr"
	"github.com/gtrak/mcp-cli/internal/mcpclient"
	"github.com/gtrak/mcp-cli/internal/socket"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// requestTimeout bounds how long a single dispatched request may run.
const requestTimeout = 35 * time.Second

// shutdownPollInterval is the accept loop's tick for re-checking the
// shutdown flag between connections.
const shutdownPollInterval = 1 * time.Second

// Core glues the IPC endpoint, the daemon protocol, the connection pool,
// and the lifecycle together: it accepts connections and dispatches
// exactly one request/response exchange per connection.
type Core struct {
	state    *State
	listener net.Listener
	endpoint string
	logger   *zap.Logger
}

// NewCore binds endpoint and constructs a Core over state.
func NewCore(state *State, endpoint string, logger *zap.Logger) (*Core, error) {
	ln, err := socket.Listen(endpoint)
	if err != nil {
		return nil, mcperr.IPC(err, "failed to bind daemon endpoint %q", endpoint)
	}
	return &Core{state: state, listener: ln, endpoint: endpoint, logger: logger}, nil
}

// Run installs signal handling, starts the idle timer, and enters the
// accept loop. It returns when the lifecycle's shutdown flag is observed.
func (c *Core) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.state.Lifecycle.RunSignalHandler(runCtx)
	go c.state.Lifecycle.RunIdleTimer(runCtx)

	conns := make(chan net.Conn)
	acceptErrs := make(chan error, 1)
	go func() {
		for {
			conn, err := c.listener.Accept()
			if err != nil {
				acceptErrs <- err
				return
			}
			conns <- conn
		}
	}()

	ticker := time.NewTicker(shutdownPollInterval)
	defer ticker.Stop()

	for {
		select {
		case conn := <-conns:
			go c.handleConn(conn)
		case err := <-acceptErrs:
			return mcperr.IPC(err, "accept loop failed")
		case <-ticker.C:
			if c.state.Lifecycle.ShuttingDown() {
				return c.shutdown()
			}
		}
	}
}

func (c *Core) shutdown() error {
	c.state.Pool.Clear()
	_ = c.listener.Close()
	return socket.Cleanup(c.endpoint)
}

func (c *Core) handleConn(conn net.Conn) {
	defer conn.Close()

	c.state.Lifecycle.Touch()
	defer c.state.Lifecycle.Touch()

	req, err := ipc.ReadRequest(conn)
	if err != nil {
		c.logger.Debug("failed to read request", zap.Error(err))
		return
	}

	reqID := uuid.New().String()
	log := c.logger.With(zap.String("request_id", reqID), zap.String("kind", string(req.Kind)))

	start := time.Now()
	resp := c.dispatchRecovered(log, req)
	log.Debug("request handled",
		zap.String("server", req.ServerName),
		zap.String("tool", req.ToolName),
		zap.Duration("elapsed", time.Since(start)))
	if err := ipc.WriteResponse(conn, resp); err != nil {
		log.Debug("failed to write response", zap.Error(err))
	}
}

// dispatchRecovered runs dispatch and converts a panic in the handler or
// anything it calls (pool execution, tool decoding) into an Error response
// instead of letting it escape the goroutine and crash the daemon.
func (c *Core) dispatchRecovered(log *zap.Logger, req *ipc.Request) (resp *ipc.Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered panic in request handler", zap.Any("panic", r))
			resp = &ipc.Response{Kind: ipc.ResponseError, Code: ipc.ErrCodeInternal, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	log.Debug("dispatching request")
	return c.dispatch(ctx, req)
}

func (c *Core) dispatch(ctx context.Context, req *ipc.Request) *ipc.Response {
	switch req.Kind {
	case ipc.RequestPing:
		return &ipc.Response{Kind: ipc.ResponsePong}

	case ipc.RequestGetConfigFingerprint:
		return &ipc.Response{Kind: ipc.ResponseConfigFingerprint, Fingerprint: c.state.Fingerprint}

	case ipc.RequestListServers:
		names := c.state.Pool.ServerNames(c.state.Config.Servers)
		return &ipc.Response{Kind: ipc.ResponseServerList, Servers: names}

	case ipc.RequestListTools:
		tools, err := c.state.Pool.ListTools(ctx, req.ServerName)
		if err != nil {
			return errResponse(err)
		}
		return &ipc.Response{Kind: ipc.ResponseToolList, Tools: toWireTools(tools)}

	case ipc.RequestExecuteTool:
		var args map[string]interface{}
		if len(req.Arguments) > 0 {
			if err := json.Unmarshal(req.Arguments, &args); err != nil {
				return errResponse(mcperr.Protocol(err, "invalid tool arguments"))
			}
		}
		result, err := c.state.Pool.Execute(ctx, req.ServerName, req.ToolName, args)
		if err != nil {
			return errResponse(err)
		}
		raw, err := json.Marshal(result)
		if err != nil {
			return errResponse(mcperr.Protocol(err, "failed to encode tool result"))
		}
		return &ipc.Response{Kind: ipc.ResponseToolResult, Result: raw}

	case ipc.RequestShutdown:
		c.state.Lifecycle.RequestShutdown()
		return &ipc.Response{Kind: ipc.ResponseShutdownAck}

	default:
		return &ipc.Response{Kind: ipc.ResponseError, Code: ipc.ErrCodeBadRequest, Message: "unknown request kind"}
	}
}

func errResponse(err error) *ipc.Response {
	if me, ok := mcperr.As(err); ok {
		return &ipc.Response{Kind: ipc.ResponseError, Code: ipc.ErrCodePool, Message: me.Error()}
	}
	return &ipc.Response{Kind: ipc.ResponseError, Code: ipc.ErrCodePool, Message: err.Error()}
}

func toWireTools(tools []mcpclient.ToolInfo) []ipc.ToolInfo {
	out := make([]ipc.ToolInfo, 0, len(tools))
	for _, t := range tools {
		schema, _ := json.Marshal(t.InputSchema)
		out = append(out, ipc.ToolInfo{Name: t.Name, Description: t.Description, InputSchema: schema})
	}
	return out
}
