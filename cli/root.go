// Package cli wires the notecraft commands: batch runs, single-record
// previews, rule linting and the HTTP preview server.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/notecraft/notecraft/pkg/logger"
	"github.com/notecraft/notecraft/pkg/version"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notecraft",
		Short:         "Rule-driven record annotation engine",
		Long:          "Notecraft ingests account metrics from tabular sources and renders per-account annotations from an ordered rule table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, err := cmd.Flags().GetString("env-file")
			if err != nil {
				return fmt.Errorf("failed to get env-file flag: %w", err)
			}
			if envFile != "" {
				if _, statErr := os.Stat(envFile); statErr == nil {
					if err := godotenv.Load(envFile); err != nil {
						return fmt.Errorf("failed to load env file %s: %w", envFile, err)
					}
				}
			}
			logLevel, logJSON, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}
			logger.SetupLogger(logLevel, logJSON)
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	root.PersistentFlags().String("env-file", ".env", "Path to an optional env file")

	root.AddCommand(
		RunCmd(),
		PreviewCmd(),
		RulesCmd(),
		ServeCmd(),
		VersionCmd(),
	)
	return root
}

func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "notecraft %s (%s, %s)\n", info.Version, info.CommitHash, info.BuildDate)
		},
	}
}
