package daemon

import (
	"encoding/json"
	"time"

	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/hash"
	"github.com/gtrak/mcp-cli/internal/pool"
)

// State is the daemon's process-wide singleton: the loaded config, a
// fingerprint over its canonical serialization, the lifecycle, and the
// connection pool.
type State struct {
	Config      *config.Config
	Fingerprint string
	Lifecycle   *Lifecycle
	Pool        *pool.Pool
}

// NewState builds a State from cfg, computing its config fingerprint and
// constructing the pool and lifecycle. idleTTL overrides cfg.DaemonTTL when
// positive (used by the auto-spawn floor in §4.11); otherwise
// cfg.DaemonTTL seconds is used.
func NewState(cfg *config.Config, idleTTL time.Duration) (*State, error) {
	fp, err := Fingerprint(cfg)
	if err != nil {
		return nil, err
	}
	if idleTTL <= 0 {
		idleTTL = time.Duration(cfg.DaemonTTL) * time.Second
	}
	return &State{
		Config:      cfg,
		Fingerprint: fp,
		Lifecycle:   NewLifecycle(idleTTL),
		Pool:        pool.New(cfg.Servers),
	}, nil
}

// Fingerprint computes the SHA-256 hash over cfg's canonical JSON
// serialization.
func Fingerprint(cfg *config.Config) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return hash.BytesHash(data), nil
}
