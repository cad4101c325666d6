package main

import (
	"context"

	"github.com/gtrak/mcp-cli/internal/cliclient"
	"github.com/gtrak/mcp-cli/internal/fanout"
	"github.com/gtrak/mcp-cli/internal/models"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured servers and their connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *appContext) (string, error) {
				model, err := runList(ctx, app.client, app.cfg.ConcurrencyLimit)
				if err != nil {
					return "", err
				}
				return app.formatter.List(model)
			})
		},
	}
}

// runList fans out ListTools across every configured server to report
// per-server status and tool counts, never aborting on a partial failure.
func runList(ctx context.Context, client cliclient.ProtocolClient, limit int) (models.ListServersModel, error) {
	names, err := client.ListServers(ctx)
	if err != nil {
		return models.ListServersModel{}, err
	}
	if len(names) == 0 {
		return models.ListServersModel{Message: "no servers configured"}, nil
	}

	successes, failures := fanout.ForEachServer(names, func(name string) (int, error) {
		tools, err := client.ListTools(ctx, name)
		if err != nil {
			return 0, err
		}
		return len(tools), nil
	}, limit)

	toolCounts := make(map[string]int, len(successes))
	for _, s := range successes {
		toolCounts[s.Name] = s.Result
	}
	failed := make(map[string]bool, len(failures))
	for _, name := range failures {
		failed[name] = true
	}

	model := models.ListServersModel{TotalServers: len(names)}
	for _, name := range names {
		if failed[name] {
			model.Servers = append(model.Servers, models.ServerStatus{Name: name, Status: "failed"})
			model.FailedServers++
			continue
		}
		model.Servers = append(model.Servers, models.ServerStatus{Name: name, Status: "connected", ToolCount: toolCounts[name]})
		model.ConnectedServers++
	}
	return model, nil
}
