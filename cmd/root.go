package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"storefront.GO/config"
	"storefront.GO/core/logger"
)

var rootCmd = &cobra.Command{
	Use:          "storefront",
	Short:        "Storefront catalog search tools",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		if cmd.Name() != browseCmd.Name() {
			logger.Setup(config.AppConfig.Log.Level, config.AppConfig.Log.Format)
		}
	},
}

// Execute applies registered commands and runs the root command.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		slog.Debug("command failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
