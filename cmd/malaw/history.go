package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/azurestocking/ma-law-scraper/internal/config"
	"github.com/azurestocking/ma-law-scraper/internal/database"
	"github.com/azurestocking/ma-law-scraper/internal/report"
	"github.com/spf13/cobra"
)

// Snapshot movement between two archived runs, judged by the
// complete-section count.
const (
	directionAdvanced  = "advanced"
	directionRegressed = "regressed"
	directionUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// This command reads the run archive written by 'malaw crawl'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show archived crawl runs",
		Long: `History reads the run archive and shows how the snapshot has evolved.

Without flags it shows the most recent archived run in full. The archive
is keyed by crawl root, so the configured base URL selects which history
is shown.

Examples:
  # Show the latest archived run
  malaw history

  # List all archived runs
  malaw history --list

  # Show one archived run by ID
  malaw history --run-id 12

  # Compare the two most recent runs
  malaw history --delta

  # Machine-readable output
  malaw history --delta --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List archived runs for the crawl root")
	cmd.Flags().Int64P("run-id", "i", 0,
		"Show the archived run with this ID (use --list to see IDs)")
	cmd.Flags().BoolP("delta", "d", false,
		"Compare the two most recent archived runs")
	cmd.Flags().BoolP("json", "j", false,
		"Output as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(getConfigFlag(cmd))
	if err != nil {
		return err
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("run-id")
	if err != nil {
		return err
	}
	delta, err := cmd.Flags().GetBool("delta")
	if err != nil {
		return err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// History never writes, so a concurrent crawl can keep the archive.
	archive, err := database.Open(cfg.ArchiveDir, database.ReadOnlyOptions())
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	switch {
	case list:
		return listRuns(ctx, out, archive, cfg.BaseURL)
	case runID > 0:
		return showRun(ctx, out, archive, cfg.BaseURL, runID, jsonOut)
	case delta:
		return showDelta(ctx, out, archive, cfg.BaseURL, jsonOut)
	default:
		return showLatest(ctx, out, archive, cfg.BaseURL, jsonOut)
	}
}

// listRuns prints a table of every archived run for the crawl root.
func listRuns(ctx context.Context, out io.Writer, archive *database.Archive, baseURL string) error {
	runs, err := archive.ListRuns(ctx, baseURL)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No archived runs found for %s\n", baseURL)
		fmt.Fprintln(out, "\nUse 'malaw crawl' to crawl and archive a run.")
		return nil
	}

	fmt.Fprintf(out, "Archived runs for %s (%d):\n\n", baseURL, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-10s  %-8s  %s\n",
		"ID", "Started", "Duration", "Fetched", "Complete")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 64))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-10s  %-8d  %d/%d\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Report.Duration().Round(time.Second),
			run.Report.SectionsFetched,
			run.Report.CompleteSections,
			run.Report.TotalSections,
		)
	}

	fmt.Fprintln(out, "\nUse 'malaw history --run-id <id>' to see one run in full.")
	return nil
}

// showRun prints one archived run in full.
func showRun(ctx context.Context, out io.Writer, archive *database.Archive, baseURL string, id int64, jsonOut bool) error {
	run, err := archive.GetRun(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get run %d: %w", id, err)
	}
	if run == nil {
		return fmt.Errorf("run %d not found (use --list to see archived runs)", id)
	}
	if run.BaseURL != baseURL {
		return fmt.Errorf("run %d belongs to %s, not %s", id, run.BaseURL, baseURL)
	}

	return writeRunReport(out, run, jsonOut)
}

// showLatest prints the most recent archived run in full.
func showLatest(ctx context.Context, out io.Writer, archive *database.Archive, baseURL string, jsonOut bool) error {
	runs, err := archive.LatestRuns(ctx, baseURL, 1)
	if err != nil {
		return fmt.Errorf("failed to get latest run: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No archived runs found for %s\n", baseURL)
		fmt.Fprintln(out, "\nUse 'malaw crawl' to crawl and archive a run.")
		return nil
	}

	return writeRunReport(out, &runs[0], jsonOut)
}

// writeRunReport renders one archived run, JSON or plain.
func writeRunReport(out io.Writer, run *database.RunRecord, jsonOut bool) error {
	if jsonOut {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(run.Report)
	}

	fmt.Fprintf(out, "Run %d, started %s\n\n",
		run.ID, run.StartedAt.Format("2006-01-02 15:04:05"))
	_, err := report.NewSimpleWriter(out).Write(run.Report)
	return err
}

// RunDelta summarizes how the snapshot moved between the two most recent
// archived runs.
type RunDelta struct {
	// BaseURL is the crawl root both runs walked.
	BaseURL string `json:"base_url"`

	// Previous is the older of the two runs.
	Previous RunSummary `json:"previous_run"`

	// Current is the newer of the two runs.
	Current RunSummary `json:"current_run"`

	// Direction is "advanced", "regressed", or "unchanged".
	Direction string `json:"direction"`

	// CompleteDelta is the change in complete sections.
	CompleteDelta int `json:"complete_delta"`

	// TotalDelta is the change in total sections.
	TotalDelta int `json:"total_delta"`

	// FetchedDelta is the change in section downloads per run.
	FetchedDelta int `json:"fetched_delta"`
}

// RunSummary is the slice of an archived run the delta view shows.
type RunSummary struct {
	// ID is the run's archive ID.
	ID int64 `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// SectionsFetched is how many section pages the run downloaded.
	SectionsFetched int `json:"sections_fetched"`

	// CompleteSections is the snapshot's complete-section count after the run.
	CompleteSections int `json:"complete_sections"`

	// TotalSections is the snapshot's section count after the run.
	TotalSections int `json:"total_sections"`
}

// showDelta compares the two most recent archived runs.
func showDelta(ctx context.Context, out io.Writer, archive *database.Archive, baseURL string, jsonOut bool) error {
	runs, err := archive.LatestRuns(ctx, baseURL, 2)
	if err != nil {
		return fmt.Errorf("failed to get latest runs: %w", err)
	}
	if len(runs) < 2 {
		return fmt.Errorf("at least 2 archived runs are required for a delta (found %d)", len(runs))
	}

	// LatestRuns returns newest first.
	delta := buildRunDelta(baseURL, &runs[1], &runs[0])

	if jsonOut {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(delta)
	}
	return writeDeltaText(out, delta)
}

// buildRunDelta computes the movement between two archived runs.
func buildRunDelta(baseURL string, previous, current *database.RunRecord) *RunDelta {
	delta := &RunDelta{
		BaseURL:  baseURL,
		Previous: newRunSummary(previous),
		Current:  newRunSummary(current),
	}

	delta.CompleteDelta = delta.Current.CompleteSections - delta.Previous.CompleteSections
	delta.TotalDelta = delta.Current.TotalSections - delta.Previous.TotalSections
	delta.FetchedDelta = delta.Current.SectionsFetched - delta.Previous.SectionsFetched

	switch {
	case delta.CompleteDelta > 0:
		delta.Direction = directionAdvanced
	case delta.CompleteDelta < 0:
		delta.Direction = directionRegressed
	default:
		delta.Direction = directionUnchanged
	}

	return delta
}

// newRunSummary extracts the delta-view fields from an archived run.
func newRunSummary(run *database.RunRecord) RunSummary {
	return RunSummary{
		ID:               run.ID,
		StartedAt:        run.StartedAt,
		SectionsFetched:  run.Report.SectionsFetched,
		CompleteSections: run.Report.CompleteSections,
		TotalSections:    run.Report.TotalSections,
	}
}

// writeDeltaText prints the delta in human-readable form.
func writeDeltaText(out io.Writer, delta *RunDelta) error {
	fmt.Fprintf(out, "Run delta: %s\n", delta.BaseURL)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nSnapshot: %s\n", formatDirection(delta.Direction))

	fmt.Fprintf(out, "\nPrevious run: %d, started %s\n",
		delta.Previous.ID, delta.Previous.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current run:  %d, started %s\n",
		delta.Current.ID, delta.Current.StartedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(out, "\nSection counts:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Complete",
		delta.Previous.CompleteSections, delta.Current.CompleteSections,
		formatDelta(delta.CompleteDelta))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Total",
		delta.Previous.TotalSections, delta.Current.TotalSections,
		formatDelta(delta.TotalDelta))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Fetched",
		delta.Previous.SectionsFetched, delta.Current.SectionsFetched,
		formatDelta(delta.FetchedDelta))

	return nil
}

// formatDirection formats the snapshot movement for display.
func formatDirection(direction string) string {
	switch direction {
	case directionAdvanced:
		return "ADVANCED (more sections complete)"
	case directionRegressed:
		return "REGRESSED (fewer sections complete)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
