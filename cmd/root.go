// Package cmd holds the crease command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the crease CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crease",
		Short: "Live cricket scoring server",
		Long: `Crease records cricket matches ball by ball.

Every delivery is kept in an append-only log together with the state
before and after it, so the last ball can always be undone exactly.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewTokenCommand())

	return cmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
