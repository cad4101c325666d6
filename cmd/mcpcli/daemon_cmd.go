package main

import (
	"context"
	"time"

	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/daemon"
	"github.com/gtrak/mcp-cli/internal/logs"
	"github.com/gtrak/mcp-cli/internal/models"
	"github.com/gtrak/mcp-cli/internal/socket"

	"github.com/spf13/cobra"
)

func newDaemonCmd() *cobra.Command {
	var ttl int
	var socketPath string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the long-lived daemon process that holds pooled connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if ttl > 0 {
				cfg.DaemonTTL = ttl
			}

			endpoint := socketPath
			if endpoint == "" {
				endpoint = cfg.SocketPath
			}
			if endpoint == "" {
				endpoint = socket.DefaultEndpoint()
			}

			logLevel, _ := cmd.Flags().GetString("log-level")
			logToFile, _ := cmd.Flags().GetBool("log-to-file")
			logDir, _ := cmd.Flags().GetString("log-dir")
			logger, err := logs.SetupCommandLogger(true, logLevel, logToFile, logDir)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			idleTTL := time.Duration(cfg.DaemonTTL) * time.Second
			if idleTTL < config.MinAutoSpawnTTL*time.Second {
				idleTTL = config.MinAutoSpawnTTL * time.Second
			}

			state, err := daemon.NewState(cfg, idleTTL)
			if err != nil {
				return err
			}

			core, err := daemon.NewCore(state, endpoint, logger)
			if err != nil {
				return err
			}

			return core.Run(context.Background())
		},
	}

	cmd.Flags().IntVar(&ttl, "ttl", 0, "idle TTL in seconds (overrides config and default)")
	cmd.Flags().StringVar(&socketPath, "socket-path", "", "IPC endpoint to bind (overrides config and platform default)")
	cmd.AddCommand(newFingerprintCmd())
	return cmd
}

// newFingerprintCmd reports the SHA-256 fingerprint of the active config,
// the same value the daemon protocol's GetConfigFingerprint exposes. It's
// a diagnostic for confirming a running daemon sees the config a client
// expects; hidden since it's not part of the normal CLI surface.
func newFingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "fingerprint",
		Short:  "Print the active config's fingerprint",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *appContext) (string, error) {
				fp, err := app.client.ConfigFingerprint(ctx)
				if err != nil {
					return "", err
				}
				return app.formatter.Fingerprint(models.FingerprintModel{Fingerprint: fp})
			})
		},
	}
	return cmd
}
