// Command mcpcli is a command-line client for discovering and invoking
// tools exposed by MCP tool servers, backed by a local daemon that pools
// connections across invocations.
package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "mcp",
		Short:   "Discover and invoke tools exposed by MCP servers",
		Version: version,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().Bool("no-daemon", false, "Talk to tool servers directly, without a daemon")
	rootCmd.PersistentFlags().Bool("auto-daemon", false, "Connect to a running daemon, spawning one if needed (default)")
	rootCmd.PersistentFlags().Bool("require-daemon", false, "Fail if no daemon is already running")
	rootCmd.PersistentFlags().Bool("json", false, "Emit JSON instead of plain text")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-to-file", false, "Enable logging to file in the standard OS location")
	rootCmd.PersistentFlags().String("log-dir", "", "Custom log directory path")

	rootCmd.AddCommand(
		newListCmd(),
		newInfoCmd(),
		newToolCmd(),
		newCallCmd(),
		newSearchCmd(),
		newDaemonCmd(),
		newShutdownCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}
