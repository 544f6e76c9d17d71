// Package cmd defines and implements the CLI commands for the
// coursewatch executable.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"coursewatch/internal/config"
)

var cfgFile string

// defaultConfigFile is picked up from the working directory when no
// --config flag is given.
const defaultConfigFile = "coursewatch.yaml"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coursewatch",
		Short: "Polls course pages and raises an alert when a seat opens up.",
		Long: `coursewatch fetches each configured course page, extracts the
availability count next to a keyword and raises a notification issue when
a watch transitions from full to available. It is designed to be invoked
by an external scheduler and performs exactly one pass per invocation;
the scheduler must never overlap two runs.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+defaultConfigFile+" if present)")

	cmd.AddCommand(
		newRunCmd(),
		newAddCmd(),
		newEnableCmd(),
		newDisableCmd(),
		newListCmd(),
	)
	return cmd
}

func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	return config.Load(path)
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
