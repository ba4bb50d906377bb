package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/azurestocking/ma-law-scraper/internal/config"
	"github.com/azurestocking/ma-law-scraper/internal/database"
	"github.com/azurestocking/ma-law-scraper/internal/model"
)

// ErrNoReport is returned by steps that need the crawl report when no
// earlier step produced one. It indicates a misassembled pipeline, not a
// crawl failure.
var ErrNoReport = errors.New("no crawl report in pipeline context")

// Context is the state shared by the steps of one run. Steps read the
// configuration and collaborators and extend the context with what they
// produce, so later steps see the accumulated results of earlier ones.
//
// Design decision: We pass one aggregate rather than threading individual
// values through each step signature. Steps evolve independently; the
// aggregate lets a new step consume a new output without touching the
// Step interface.
type Context struct {
	// Config is the validated run configuration.
	Config *config.Config

	// Logger is used for structured logging throughout the run.
	Logger *slog.Logger

	// Archive is the crawl archive, nil when archiving is off.
	Archive *database.Archive

	// Report is the run summary. Set by the crawl step.
	Report *model.CrawlReport

	// Document is the snapshot as persisted at the end of the crawl.
	// Set by the crawl step.
	Document *model.Document
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// context from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., priority, dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the shared run context
	// to read and extend. Returns an error if the step fails critically;
	// non-critical degradation is recorded in the report and returns nil.
	Do(ctx context.Context, run *Context) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order, stopping at the
// first failure: a failed crawl has nothing worth reporting or archiving,
// and a failed report means the run's outcome never reached the user.
type Pipeline struct {
	// cfg is the validated run configuration shared with every step.
	cfg *config.Config

	// steps contains the ordered list of steps to execute.
	steps []Step

	// archive is handed to the run context, nil when archiving is off.
	archive *database.Archive

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithArchive hands an open crawl archive to the run. The crawl step
// records fetches into it and the archive step saves the run row.
func WithArchive(archive *database.Archive) Option {
	return func(p *Pipeline) {
		p.archive = archive
	}
}

// WithSteps replaces the default step sequence.
func WithSteps(steps ...Step) Option {
	return func(p *Pipeline) {
		p.steps = steps
	}
}

// New creates a Pipeline for the given configuration. Without WithSteps it
// runs the standard sequence: crawl, report, archive.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg}

	// Apply options
	for _, opt := range opts {
		opt(p)
	}

	// Set default logger if not provided
	if p.logger == nil {
		p.logger = slog.Default()
	}

	// Standard sequence unless the caller replaced it
	if p.steps == nil {
		p.steps = []Step{
			NewCrawlStep(),
			NewReportStep(os.Stdout),
			NewArchiveStep(),
		}
	}

	return p
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps handle their own timeouts. This allows graceful
// cleanup between steps while still respecting cancellation.
//
// The crawl report accumulated so far is returned even on failure: whatever
// was counted before the stop is still true, and the caller may want to
// show it.
func (p *Pipeline) Execute(ctx context.Context) (*model.CrawlReport, error) {
	run := &Context{
		Config:  p.cfg,
		Logger:  p.logger,
		Archive: p.archive,
	}

	for _, step := range p.steps {
		// Check for cancellation before starting each step
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return run.Report, ctx.Err()
		default:
			// Continue with execution
		}

		p.logger.Info("executing step", "step", step.Name())

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			return run.Report, err
		}

		p.logger.Debug("step completed", "step", step.Name())
	}

	return run.Report, nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
