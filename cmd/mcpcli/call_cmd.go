package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/mcperr"
	"github.com/gtrak/mcp-cli/internal/models"
	"github.com/gtrak/mcp-cli/internal/retry"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool-id> [JSON]",
		Short: "Invoke a tool with JSON arguments",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idArgs, jsonArg, err := splitCallArgs(args)
			if err != nil {
				return err
			}
			server, tool, err := parseToolID(idArgs)
			if err != nil {
				return err
			}
			rawArgs, err := resolveCallArgs(jsonArg)
			if err != nil {
				return err
			}

			var arguments map[string]interface{}
			if len(rawArgs) > 0 {
				if err := json.Unmarshal(rawArgs, &arguments); err != nil {
					return mcperr.Usage("invalid JSON arguments: %v", err)
				}
			}

			return runWithApp(cmd, func(ctx context.Context, app *appContext) (string, error) {
				if srv := findServer(app.cfg.Servers, server); srv != nil {
					if allowed, pattern := srv.ToolAllowed(tool); !allowed {
						return "", mcperr.Usage("tool %q on server %q is blocked by pattern %q", tool, server, pattern)
					}
				}

				attempts := 0
				result, err := retry.Do(ctx, app.cfg.RetryConfig(), app.cfg.Timeout(), func(ctx context.Context) (interface{}, error) {
					attempts++
					return app.client.ExecuteTool(ctx, server, tool, arguments)
				})
				if err != nil {
					return "", err
				}

				return app.formatter.CallResult(models.CallResultModel{Server: server, Tool: tool, Result: result, Attempts: attempts})
			})
		},
	}
}

// splitCallArgs separates the tool-id component(s) from a trailing JSON
// literal: "call foo/bar {...}" has 2 args, "call foo bar {...}" has 3.
func splitCallArgs(args []string) (idArgs []string, jsonArg string, err error) {
	switch len(args) {
	case 1:
		return args, "", nil
	case 2:
		return args[:1], args[1], nil
	case 3:
		return args[:2], args[2], nil
	default:
		return nil, "", mcperr.Usage("unexpected arguments to call")
	}
}

// resolveCallArgs returns the raw JSON argument bytes: the inline literal
// if given, otherwise piped stdin. A terminal attached with no inline
// literal gets the empty object, for tools that take no arguments; piped
// stdin that yields no bytes is a usage error.
func resolveCallArgs(inline string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return []byte("{}"), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, mcperr.Usage("failed to read arguments from stdin: %v", err)
	}
	if len(data) == 0 {
		return nil, mcperr.Usage("no JSON arguments given inline or on stdin")
	}
	return data, nil
}

func findServer(servers []*config.ServerConfig, name string) *config.ServerConfig {
	for _, s := range servers {
		if s.Name == name {
			return s
		}
	}
	return nil
}
