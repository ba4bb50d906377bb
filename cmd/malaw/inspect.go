package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/azurestocking/ma-law-scraper/internal/config"
	"github.com/azurestocking/ma-law-scraper/internal/inspect"
	"github.com/azurestocking/ma-law-scraper/internal/model"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Audit a crawled snapshot for completeness",
		Long: `Inspect audits a previously crawled snapshot without touching the network.

It walks the persisted document and reports:
- Per-part title, chapter, and section tallies
- Sections with no text and no terminal disposition
- Chapters recorded before their sections were collected
- Duplicate sibling keys, which would corrupt merges

Examples:
  # Inspect the configured snapshot
  malaw inspect

  # Inspect a specific snapshot file
  malaw inspect -s /data/general_laws.json

  # Machine-readable output
  malaw inspect --json

  # List only the key paths of incomplete sections
  malaw inspect --incomplete`,
		Args: cobra.NoArgs,
		RunE: runInspectCmd,
	}

	cmd.Flags().StringP("snapshot", "s", "",
		"Snapshot file to inspect (default: the configured output path)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the audit as JSON")
	cmd.Flags().Bool("incomplete", false,
		"List only the key paths of incomplete sections")

	return cmd
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("snapshot")
	if err != nil {
		return err
	}
	if path == "" {
		cfg, err := config.Load(getConfigFlag(cmd))
		if err != nil {
			return err
		}
		path = cfg.OutputPath
	}

	doc, err := loadSnapshot(path)
	if err != nil {
		return err
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	incompleteOnly, err := cmd.Flags().GetBool("incomplete")
	if err != nil {
		return err
	}

	result := inspect.Inspect(doc)
	out := cmd.OutOrStdout()

	if incompleteOnly {
		return writeIncompletePaths(out, result, jsonOut)
	}
	if jsonOut {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
	return result.Render(out)
}

// loadSnapshot reads a snapshot file for auditing. Unlike the crawl path,
// which degrades a missing or corrupt snapshot to an empty document, an
// audit needs the file it was pointed at: a snapshot that cannot be read
// is an error here.
func loadSnapshot(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("snapshot not found: %s (run 'malaw crawl' first)", path)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	return &doc, nil
}

// writeIncompletePaths lists the key paths of incomplete sections, one per
// line, or as a JSON array with --json.
func writeIncompletePaths(out io.Writer, result *inspect.Result, jsonOut bool) error {
	paths := make([]string, 0)
	for _, issue := range result.Issues {
		if issue.Check == inspect.CheckIncomplete {
			paths = append(paths, issue.Path)
		}
	}

	if jsonOut {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(paths)
	}

	if len(paths) == 0 {
		_, err := fmt.Fprintln(out, "No incomplete sections.")
		return err
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(out, p); err != nil {
			return err
		}
	}

	return nil
}
