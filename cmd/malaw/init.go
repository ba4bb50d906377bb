package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/azurestocking/ma-law-scraper/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/malaw.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter configuration file",
		Long: `Init writes a documented configuration file with every option commented
out, so the defaults stay in effect until you edit it.

By default the file lands at the XDG config path, where every malaw
command finds it automatically. A malaw.yaml in the current directory
takes precedence over the XDG one.

Examples:
  # Create the config file at the XDG config path
  malaw init

  # Create it somewhere else
  malaw init -o ./malaw.yaml

  # Overwrite an existing file
  malaw init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Destination path (default: the XDG config path)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = config.DefaultConfigPath()
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/malaw.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEvery option in the file is commented out; uncomment a line to override")
	fmt.Fprintln(cmd.OutOrStdout(), "the built-in default. Environment variables (MALAW_*) and command-line")
	fmt.Fprintln(cmd.OutOrStdout(), "flags take precedence over the file.")

	return nil
}
