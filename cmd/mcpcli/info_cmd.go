package main

import (
	"context"

	"github.com/gtrak/mcp-cli/internal/models"

	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <server>",
		Short: "Show a server's connectivity and tool list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			server := args[0]
			return runWithApp(cmd, func(ctx context.Context, app *appContext) (string, error) {
				tools, err := app.client.ListTools(ctx, server)
				if err != nil {
					return "", err
				}

				model := models.ServerInfoModel{Name: server, Status: "connected"}
				for _, t := range tools {
					model.Tools = append(model.Tools, models.ToolSummary{
						Name: t.Name, Description: t.Description, InputSchema: t.InputSchema,
					})
				}
				return app.formatter.ServerInfo(model)
			})
		},
	}
}
