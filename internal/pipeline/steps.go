package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/azurestocking/ma-law-scraper/internal/extract"
	"github.com/azurestocking/ma-law-scraper/internal/fetch"
	"github.com/azurestocking/ma-law-scraper/internal/report"
	"github.com/azurestocking/ma-law-scraper/internal/retry"
	"github.com/azurestocking/ma-law-scraper/internal/store"
	"github.com/azurestocking/ma-law-scraper/internal/walker"
)

// CrawlStep walks the statute tree. It assembles the fetcher, extractor,
// expander, snapshot store, and retry policy from the run configuration,
// runs the walk, and leaves the report and final snapshot in the context.
//
// Design decision: Collaborators are built here rather than injected
// because every knob they take comes from the same validated Config; the
// step is the single place where configuration becomes wiring.
type CrawlStep struct{}

// NewCrawlStep creates the crawl step.
func NewCrawlStep() *CrawlStep {
	return &CrawlStep{}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, run *Context) error {
	cfg := run.Config

	snapshots := store.New(cfg.OutputPath, store.WithLogger(run.Logger))

	fetchOpts := []fetch.Option{
		fetch.WithTimeout(cfg.StepTimeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodyBytes),
		fetch.WithLogger(run.Logger),
	}
	if run.Archive != nil {
		fetchOpts = append(fetchOpts, fetch.WithRecorder(run.Archive))
	}
	client := fetch.NewClient(fetchOpts...)

	extractor := extract.NewHTMLExtractor(extract.DefaultSelectors())
	expander := extract.NewExpander(client, extractor,
		extract.WithExpandTimeout(cfg.ExpandTimeout),
		extract.WithPollInterval(cfg.PollInterval),
		extract.WithExpandLogger(run.Logger),
	)
	runner := retry.NewRunner(
		retry.WithMaxAttempts(cfg.MaxRetries),
		retry.WithDelay(cfg.RetryDelay),
		retry.WithLogger(run.Logger),
	)

	w := walker.New(client, extractor, expander, snapshots,
		walker.WithBaseURL(cfg.BaseURL),
		walker.WithPaceDelay(cfg.PaceDelay),
		walker.WithRetryRunner(runner),
		walker.WithLogger(run.Logger),
	)

	crawlReport, err := w.Run(ctx)
	if crawlReport != nil {
		crawlReport.OutputPath = cfg.OutputPath
		run.Report = crawlReport
		run.Document = snapshots.Load()
	}
	return err
}

// ReportStep renders the crawl report to stdout or to the configured
// report file, in the configured format.
type ReportStep struct {
	// out is the destination when no report file is configured.
	out io.Writer
}

// NewReportStep creates a report step writing to out when the
// configuration names no report file.
func NewReportStep(out io.Writer) *ReportStep {
	return &ReportStep{out: out}
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// Do executes the report step.
func (s *ReportStep) Do(_ context.Context, run *Context) error {
	if run.Report == nil {
		return ErrNoReport
	}

	cfg := run.Config

	out := s.out
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(run.Report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.ReportFile != "" {
		run.Logger.Info("report written", "path", cfg.ReportFile)
	}
	return nil
}

// ArchiveStep saves the run row into the crawl archive. The step is a
// no-op when archiving is off.
type ArchiveStep struct{}

// NewArchiveStep creates the archive step.
func NewArchiveStep() *ArchiveStep {
	return &ArchiveStep{}
}

// Name returns the step name.
func (s *ArchiveStep) Name() string {
	return "archive"
}

// Do executes the archive step.
func (s *ArchiveStep) Do(ctx context.Context, run *Context) error {
	if run.Archive == nil {
		run.Logger.Debug("skipping archive step, archiving is off")
		return nil
	}
	if run.Report == nil {
		return ErrNoReport
	}

	id, err := run.Archive.SaveRun(ctx, run.Report)
	if err != nil {
		return fmt.Errorf("failed to archive run: %w", err)
	}

	run.Logger.Info("run archived", "run_id", id)
	return nil
}
