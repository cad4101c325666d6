// Package pool implements the connection pool: a map from server name to a
// cached MCP connection, with eviction-on-take health checking so that a
// connection is never handed to two callers at once.
package pool

import (
	"context"
	"sync"
	"time"

	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/mcperr"
	"github.com/gtrak/mcp-cli/internal/mcpclient"
)

// unhealthyThreshold is the consecutive health-check failure count at
// which a connection is dropped without a further ping attempt.
const unhealthyThreshold = 3

// healthCheckTimeout bounds the ping performed on take.
const healthCheckTimeout = 5 * time.Second

// entry is a PooledConnection: one MCP connection plus lifecycle metadata.
type entry struct {
	conn      *mcpclient.Conn
	createdAt time.Time
	lastUsed  time.Time
	failures  int
}

// Pool maps server name to a cached connection. Safe for concurrent use;
// the map lock is never held across an await — get() removes the entry
// under lock, then pings it outside the lock.
type Pool struct {
	mu      sync.Mutex
	entries map[string]*entry
	servers map[string]*config.ServerConfig
}

// New builds an empty pool over the given server configs, keyed by name.
func New(servers []*config.ServerConfig) *Pool {
	byName := make(map[string]*config.ServerConfig, len(servers))
	for _, s := range servers {
		byName[s.Name] = s
	}
	return &Pool{entries: make(map[string]*entry), servers: byName}
}

// take removes and returns the cached entry for name, if any, without
// holding the lock across any blocking call.
func (p *Pool) take(name string) *entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[name]
	if !ok {
		return nil
	}
	delete(p.entries, name)
	return e
}

func (p *Pool) put(name string, e *entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[name] = e
}

// get returns a connection for name: the cached one if it survives a
// health check, otherwise a freshly built one. The caller owns the
// returned connection exclusively until it calls Put or the connection is
// dropped.
func (p *Pool) get(ctx context.Context, name string) (*mcpclient.Conn, error) {
	if e := p.take(name); e != nil {
		if e.failures < unhealthyThreshold {
			pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			err := e.conn.Ping(pingCtx)
			cancel()
			if err == nil {
				e.failures = 0
				e.lastUsed = time.Now()
				return e.conn, nil
			}
		}
		_ = e.conn.Close()
	}

	srv, ok := p.servers[name]
	if !ok {
		return nil, mcperr.ServerNotFound(name)
	}

	conn, err := mcpclient.Connect(ctx, srv)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Put returns a connection to the pool for reuse by a later caller.
func (p *Pool) Put(name string, conn *mcpclient.Conn) {
	p.put(name, &entry{conn: conn, createdAt: time.Now(), lastUsed: time.Now()})
}

// ListTools obtains a connection for server, calls tools/list, and returns
// the connection to the pool.
func (p *Pool) ListTools(ctx context.Context, server string) ([]mcpclient.ToolInfo, error) {
	conn, err := p.get(ctx, server)
	if err != nil {
		return nil, err
	}
	tools, err := conn.ListTools(ctx)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.Put(server, conn)
	return tools, nil
}

// Execute obtains a connection for server, calls tools/call, and returns
// the connection to the pool.
func (p *Pool) Execute(ctx context.Context, server, tool string, args map[string]interface{}) (interface{}, error) {
	conn, err := p.get(ctx, server)
	if err != nil {
		return nil, err
	}
	result, err := conn.CallTool(ctx, tool, args)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.Put(server, conn)
	return result, nil
}

// Remove evicts and closes the cached connection for name, if any.
func (p *Pool) Remove(name string) {
	if e := p.take(name); e != nil {
		_ = e.conn.Close()
	}
}

// Clear evicts and closes every cached connection.
func (p *Pool) Clear() {
	p.mu.Lock()
	entries := p.entries
	p.entries = make(map[string]*entry)
	p.mu.Unlock()

	for _, e := range entries {
		_ = e.conn.Close()
	}
}

// ServerNames returns the configured server names in config order.
func (p *Pool) ServerNames(servers []*config.ServerConfig) []string {
	names := make([]string, 0, len(servers))
	for _, s := range servers {
		names = append(names, s.Name)
	}
	return names
}
