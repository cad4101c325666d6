package main

import (
	"context"

	"github.com/gtrak/mcp-cli/internal/cliclient"
	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/mcperr"
	"github.com/gtrak/mcp-cli/internal/socket"
)

// daemonMode is the resolved connection mode, selected by the global
// --no-daemon/--auto-daemon/--require-daemon flags (auto-daemon is
// default).
type daemonMode int

const (
	modeAutoDaemon daemonMode = iota
	modeNoDaemon
	modeRequireDaemon
)

// resolveMode maps the three mutually-exclusive flags to a daemonMode,
// rejecting more than one being set.
func resolveMode(noDaemon, autoDaemon, requireDaemon bool) (daemonMode, error) {
	set := 0
	if noDaemon {
		set++
	}
	if autoDaemon {
		set++
	}
	if requireDaemon {
		set++
	}
	if set > 1 {
		return 0, usageErrorf("--no-daemon, --auto-daemon, and --require-daemon are mutually exclusive")
	}
	switch {
	case noDaemon:
		return modeNoDaemon, nil
	case requireDaemon:
		return modeRequireDaemon, nil
	default:
		return modeAutoDaemon, nil
	}
}

// newProtocolClient builds the ProtocolClient appropriate for mode,
// spawning a daemon in auto-daemon mode if none answers.
func newProtocolClient(ctx context.Context, cfg *config.Config, mode daemonMode) (cliclient.ProtocolClient, error) {
	if mode == modeNoDaemon {
		return cliclient.NewDirectClient(cfg), nil
	}

	endpoint := cfg.SocketPath
	if endpoint == "" {
		endpoint = socket.DefaultEndpoint()
	}

	ipcClient := cliclient.NewIPCClient(endpoint)
	if ipcClient.Ping(ctx) == nil {
		return ipcClient, nil
	}

	if mode == modeRequireDaemon {
		return nil, mcperr.IPC(nil, "no daemon answering at %s; start one with \"mcp daemon\" or pass --auto-daemon", endpoint)
	}

	if err := spawnDaemon(ctx, endpoint, cfg.DaemonTTL); err != nil {
		return nil, err
	}
	return cliclient.NewIPCClient(endpoint), nil
}
