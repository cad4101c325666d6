package main

import (
	"context"
	"path/filepath"

	"github.com/gtrak/mcp-cli/internal/cliclient"
	"github.com/gtrak/mcp-cli/internal/fanout"
	"github.com/gtrak/mcp-cli/internal/models"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <glob>",
		Short: "Search tool names across every configured server by glob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			return runWithApp(cmd, func(ctx context.Context, app *appContext) (string, error) {
				model, err := runSearch(ctx, app.client, pattern, app.cfg.ConcurrencyLimit)
				if err != nil {
					return "", err
				}
				return app.formatter.SearchResult(model)
			})
		},
	}
}

// runSearch fans out tools/list to every server and keeps the tools whose
// name matches pattern. A pattern matching nothing is still a success,
// with the server and tool names offered back as suggestions.
func runSearch(ctx context.Context, client cliclient.ProtocolClient, pattern string, limit int) (models.SearchResultModel, error) {
	names, err := client.ListServers(ctx)
	if err != nil {
		return models.SearchResultModel{}, err
	}

	type serverTools struct {
		tools []models.ToolSummary
		all   []string
	}

	successes, _ := fanout.ForEachServer(names, func(name string) (serverTools, error) {
		tools, err := client.ListTools(ctx, name)
		if err != nil {
			return serverTools{}, err
		}
		var matched serverTools
		for _, t := range tools {
			matched.all = append(matched.all, t.Name)
			if ok, _ := filepath.Match(pattern, t.Name); ok {
				matched.tools = append(matched.tools, models.ToolSummary{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
			}
		}
		return matched, nil
	}, limit)

	model := models.SearchResultModel{Pattern: pattern}
	var allNames []string
	for _, s := range successes {
		allNames = append(allNames, s.Result.all...)
		if len(s.Result.tools) == 0 {
			continue
		}
		model.Matches = append(model.Matches, models.SearchMatch{Server: s.Name, Tools: s.Result.tools})
		model.TotalMatches += len(s.Result.tools)
	}

	if model.TotalMatches == 0 {
		model.Suggestions = allNames
	}
	return model, nil
}
