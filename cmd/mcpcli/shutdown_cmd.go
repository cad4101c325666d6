package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newShutdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Ask a running daemon to shut down gracefully",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *appContext) (string, error) {
				if err := app.client.Shutdown(ctx); err != nil {
					return "", err
				}
				return "daemon shutdown requested\n", nil
			})
		},
	}
}
