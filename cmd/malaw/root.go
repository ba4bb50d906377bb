// Package main provides the entry point for the malaw CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for malaw.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "malaw",
		Short: "Incremental scraper for the Massachusetts General Laws",
		Long: `malaw crawls the Massachusetts General Laws and maintains a JSON snapshot
of the full statute hierarchy: Parts, Titles, Chapters, and Sections with
their text.

Runs are incremental: structure is always re-walked so new laws are
discovered, but section text already held in the snapshot is never
downloaded twice. An interrupted or partially failed run loses nothing;
the next run fills the gaps.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: malaw.yaml in the current or XDG config directory)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
