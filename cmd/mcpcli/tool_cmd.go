package main

import (
	"context"

	"github.com/gtrak/mcp-cli/internal/jsonschema"
	"github.com/gtrak/mcp-cli/internal/mcperr"
	"github.com/gtrak/mcp-cli/internal/models"

	"github.com/spf13/cobra"
)

func newToolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tool <tool-id>",
		Short: "Show one tool's description and input schema",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			server, tool, err := parseToolID(args)
			if err != nil {
				return err
			}
			return runWithApp(cmd, func(ctx context.Context, app *appContext) (string, error) {
				tools, err := app.client.ListTools(ctx, server)
				if err != nil {
					return "", err
				}
				for _, t := range tools {
					if t.Name == tool {
						model := models.ToolInfoModel{
							Server: server,
							Tool:   models.ToolSummary{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema},
							Params: jsonschema.ExtractParams(t.InputSchema),
						}
						return app.formatter.ToolInfo(model)
					}
				}
				return "", mcperr.ToolNotFound(server, tool)
			})
		},
	}
}
