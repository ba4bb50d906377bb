package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azurestocking/ma-law-scraper/internal/config"
	"github.com/azurestocking/ma-law-scraper/internal/database"
	"github.com/azurestocking/ma-law-scraper/internal/log"
	"github.com/azurestocking/ma-law-scraper/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the statute site and update the snapshot",
		Long: `Crawl walks the statute hierarchy and merges the results into the
JSON snapshot.

Every run re-walks the structure, so newly published parts, titles,
chapters, and sections are always discovered. Section text the snapshot
already holds is carried forward without a download. Nodes that fail
after retries are logged and skipped; the run continues and exits zero,
and the next run picks up whatever was missed.

Examples:
  # Crawl with the configured (or default) settings
  malaw crawl

  # Write the snapshot somewhere else
  malaw crawl -o /data/general_laws.json

  # Crawl gently
  malaw crawl --pace-delay 3s --max-retries 5

  # Print the run summary as JSON
  malaw crawl --json-report

  # Skip the fetch ledger and run history
  malaw crawl --archive=false`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Crawl target flags
	cmd.Flags().StringP("base-url", "u", config.DefaultBaseURL,
		"Root page of the statute hierarchy")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"Snapshot file the crawl merges into")

	// Retry and pacing flags
	cmd.Flags().IntP("max-retries", "r", config.DefaultMaxRetries,
		"Attempts per fetch before the node is given up")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Base delay between retry attempts")
	cmd.Flags().DurationP("step-timeout", "t", config.DefaultStepTimeout,
		"Timeout for each page fetch")
	cmd.Flags().Duration("pace-delay", config.DefaultPaceDelay,
		"Pause between consecutive fetches")
	cmd.Flags().Duration("expand-timeout", config.DefaultExpandTimeout,
		"Total budget for expanding a title's chapter list")
	cmd.Flags().Duration("poll-interval", config.DefaultPollInterval,
		"Poll cadence while waiting for a chapter list to expand")

	// HTTP flags
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-bytes", config.DefaultMaxBodyBytes,
		"Response body size cap in bytes")

	// Archive flag
	cmd.Flags().Bool("archive", true,
		"Record fetches and run history in the archive (--archive=false to disable)")

	// Report flags
	cmd.Flags().BoolP("json-report", "j", false,
		"Output the run summary as JSON (mutually exclusive with --markdown-report)")
	cmd.Flags().BoolP("markdown-report", "m", false,
		"Output the run summary as Markdown (mutually exclusive with --json-report)")
	cmd.Flags().String("report-file", "",
		"Write the run summary to this file instead of stdout")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	// Build config from file, environment, and flags
	cfg, err := buildCrawlConfig(cmd)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger)
}

// buildCrawlConfig layers the configuration sources: defaults, then file,
// then environment, then flags. Flags apply only when the user actually set
// them; an untouched flag must not clobber a configured value with its
// default.
func buildCrawlConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(getConfigFlag(cmd))
	if err != nil {
		return nil, err
	}

	if err := applyStringFlag(cmd, "base-url", &cfg.BaseURL); err != nil {
		return nil, err
	}
	if err := applyStringFlag(cmd, "output", &cfg.OutputPath); err != nil {
		return nil, err
	}
	if err := applyIntFlag(cmd, "max-retries", &cfg.MaxRetries); err != nil {
		return nil, err
	}
	if err := applyDurationFlag(cmd, "retry-delay", &cfg.RetryDelay); err != nil {
		return nil, err
	}
	if err := applyDurationFlag(cmd, "step-timeout", &cfg.StepTimeout); err != nil {
		return nil, err
	}
	if err := applyDurationFlag(cmd, "pace-delay", &cfg.PaceDelay); err != nil {
		return nil, err
	}
	if err := applyDurationFlag(cmd, "expand-timeout", &cfg.ExpandTimeout); err != nil {
		return nil, err
	}
	if err := applyDurationFlag(cmd, "poll-interval", &cfg.PollInterval); err != nil {
		return nil, err
	}
	if err := applyStringFlag(cmd, "user-agent", &cfg.UserAgent); err != nil {
		return nil, err
	}
	if err := applyInt64Flag(cmd, "max-body-bytes", &cfg.MaxBodyBytes); err != nil {
		return nil, err
	}
	if err := applyBoolFlag(cmd, "archive", &cfg.SaveArchive); err != nil {
		return nil, err
	}
	if err := applyBoolFlag(cmd, "json-report", &cfg.JSONReport); err != nil {
		return nil, err
	}
	if err := applyBoolFlag(cmd, "markdown-report", &cfg.MarkdownReport); err != nil {
		return nil, err
	}
	if err := applyStringFlag(cmd, "report-file", &cfg.ReportFile); err != nil {
		return nil, err
	}
	if err := applyBoolFlag(cmd, "verbose", &cfg.Verbose); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runCrawl opens the archive if requested and executes the crawl pipeline.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"base_url", cfg.BaseURL,
		"output", cfg.OutputPath,
		"archive", cfg.SaveArchive,
	)

	opts := []pipeline.Option{pipeline.WithLogger(logger)}

	// An unusable archive when archiving was requested is a hard error:
	// the user asked for a fetch ledger this run could not keep.
	if cfg.SaveArchive {
		archive, err := database.Open(cfg.ArchiveDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer archive.Close()
		logger.Info("archive opened", "dir", cfg.ArchiveDir)
		opts = append(opts, pipeline.WithArchive(archive))
	}

	fmt.Printf("Crawling %s...\n\n", cfg.BaseURL)
	start := time.Now()

	crawlReport, err := pipeline.New(cfg, opts...).Execute(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nCrawl completed in %s\n", time.Since(start).Round(time.Millisecond))
	if crawlReport != nil && crawlReport.HasFailures() {
		fmt.Println("Some nodes failed this run; the next run will retry the gaps.")
	}

	return nil
}

// getConfigFlag retrieves the config flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// applyStringFlag copies a string flag into dest when the flag was set.
func applyStringFlag(cmd *cobra.Command, name string, dest *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dest = v
	return nil
}

// applyIntFlag copies an int flag into dest when the flag was set.
func applyIntFlag(cmd *cobra.Command, name string, dest *int) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return err
	}
	*dest = v
	return nil
}

// applyInt64Flag copies an int64 flag into dest when the flag was set.
func applyInt64Flag(cmd *cobra.Command, name string, dest *int64) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt64(name)
	if err != nil {
		return err
	}
	*dest = v
	return nil
}

// applyDurationFlag copies a duration flag into dest when the flag was set.
func applyDurationFlag(cmd *cobra.Command, name string, dest *time.Duration) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetDuration(name)
	if err != nil {
		return err
	}
	*dest = v
	return nil
}

// applyBoolFlag copies a bool flag into dest when the flag was set.
func applyBoolFlag(cmd *cobra.Command, name string, dest *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return err
	}
	*dest = v
	return nil
}
