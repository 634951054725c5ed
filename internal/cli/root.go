// Package cli provides the command-line interface for dataviewer.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dataviewer/internal/cli/commands"
	"github.com/JonMunkholm/dataviewer/internal/core"
	"github.com/JonMunkholm/dataviewer/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	rootCmd := &cobra.Command{
		Use:   "dataviewer",
		Short: "Load tabular files and search them by column",
		Long: `dataviewer loads a .csv, .xlsx or .xls file and searches one column for
rows containing a text, ignoring case. Matches print as "column: value"
records ready to copy.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Logs go to stderr so they never mix with command output.
			logging.Setup(cmd.ErrOrStderr(), logLevel, logFormat)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().Int64("max-size", commands.DefaultMaxSize, "Largest file to load, in bytes (0 for no limit)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text|json)")

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewViewCommand())
	rootCmd.AddCommand(commands.NewSearchCommand())
	rootCmd.AddCommand(commands.NewTUICommand())

	return rootCmd
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		return err
	}
	return nil
}

// describe prefers the catalog message for known load and search errors.
func describe(err error) string {
	if core.IsUserFacing(err) {
		return fmt.Sprintf("%s\n  %v", core.FormatUserError(err), err)
	}
	return err.Error()
}
