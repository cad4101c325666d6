package main

import (
	"context"
	"fmt"

	"github.com/gtrak/mcp-cli/internal/cliclient"
	"github.com/gtrak/mcp-cli/internal/cliui"
	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/mcperr"

	"github.com/spf13/cobra"
)

// appContext bundles the resolved config, protocol client, and formatter
// every subcommand needs. Built once per invocation in runWithApp.
type appContext struct {
	cfg       *config.Config
	client    cliclient.ProtocolClient
	formatter cliui.Formatter
}

// runWithApp loads config, resolves the daemon mode, builds the
// ProtocolClient and formatter, and invokes fn with them. It is the
// common prologue every subcommand's RunE delegates to.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, app *appContext) (string, error)) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mode, err := resolveModeFromFlags(cmd)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	client, err := newProtocolClient(ctx, cfg, mode)
	if err != nil {
		return err
	}
	defer client.Close()

	app := &appContext{cfg: cfg, client: client, formatter: cliui.New(jsonOutput)}

	out, err := fn(ctx, app)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func resolveModeFromFlags(cmd *cobra.Command) (daemonMode, error) {
	noDaemon, _ := cmd.Flags().GetBool("no-daemon")
	autoDaemon, _ := cmd.Flags().GetBool("auto-daemon")
	requireDaemon, _ := cmd.Flags().GetBool("require-daemon")
	return resolveMode(noDaemon, autoDaemon, requireDaemon)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, mcperr.Config("%v", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, mcperr.Config("%v", err)
	}
	return cfg, nil
}
