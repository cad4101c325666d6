package main

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/gtrak/mcp-cli/internal/cliclient"
	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/mcperr"
)

// readinessBudget and the backoff schedule implement §4.11: linear-additive
// backoff starting at 500ms, +200ms per failed attempt, capped at 2s.
const (
	readinessBudget = 20
	readinessBase   = 500 * time.Millisecond
	readinessStep   = 200 * time.Millisecond
	readinessCap    = 2 * time.Second
)

// spawnDaemon re-execs the current binary with the daemon subcommand,
// fully detached, bound to endpoint, and waits for it to answer a
// Ping with Pong before returning.
func spawnDaemon(ctx context.Context, endpoint string, ttlSecs int) error {
	if ttlSecs < config.MinAutoSpawnTTL {
		ttlSecs = config.MinAutoSpawnTTL
	}

	self, err := os.Executable()
	if err != nil {
		return mcperr.IPC(err, "failed to resolve own executable path for daemon spawn")
	}

	cmd := exec.Command(self, "daemon", "--socket-path", endpoint, "--ttl", strconv.Itoa(ttlSecs))
	cmd.Stdin = nil
	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err == nil {
		cmd.Stdin = devnull
		cmd.Stdout = devnull
		cmd.Stderr = devnull
	}
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return mcperr.IPC(err, "failed to spawn daemon process")
	}
	// The daemon is meant to outlive this process; don't wait on it, and
	// don't leave behind a zombie once it exits on its own.
	go func() { _ = cmd.Wait() }()

	return waitForReady(ctx, endpoint)
}

// waitForReady polls endpoint with the §4.11 backoff schedule until a
// Ping round-trips successfully or the attempt budget is exhausted.
func waitForReady(ctx context.Context, endpoint string) error {
	client := cliclient.NewIPCClient(endpoint)
	delay := readinessBase

	var lastErr error
	for attempt := 1; attempt <= readinessBudget; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == readinessBudget {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return mcperr.IPC(ctx.Err(), "daemon readiness wait cancelled")
		}

		delay += readinessStep
		if delay > readinessCap {
			delay = readinessCap
		}
	}
	return mcperr.IPC(lastErr, "daemon did not become ready after %d attempts", readinessBudget)
}
