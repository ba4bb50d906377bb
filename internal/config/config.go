package config

import (
	"net/url"
	"time"
)

// Default configuration values.
// Pacing and timeouts are chosen to stay polite toward the statute site.
const (
	// DefaultBaseURL is the top-level index of the Massachusetts General
	// Laws. Every crawl starts here; part, chapter, and section URLs are
	// discovered relative to it.
	DefaultBaseURL = "https://malegislature.gov/Laws/GeneralLaws"

	// DefaultOutputPath is the snapshot file written after every chapter.
	// The same file is the resume checkpoint for the next run, so it lives
	// in the working directory where the user can see and keep it.
	DefaultOutputPath = "general_laws.json"

	// DefaultMaxRetries is the total attempts per crawl unit, not re-tries.
	// Three attempts ride out transient statehouse-site hiccups without
	// stretching a dead-page failure past fifteen seconds.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the fixed pause between failed attempts.
	// Five seconds is long enough for a throttling response to clear.
	DefaultRetryDelay = 5 * time.Second

	// DefaultStepTimeout bounds one whole fetch: connect, redirect chain,
	// and body read. Thirty seconds is generous for a government site on a
	// slow day while still failing dead pages promptly.
	DefaultStepTimeout = 30 * time.Second

	// DefaultPaceDelay is the pause between consecutive requests.
	// One second keeps a full crawl (tens of thousands of sections) from
	// looking like abuse. Zero disables pacing.
	DefaultPaceDelay = 1 * time.Second

	// DefaultExpandTimeout is the whole window allowed for one title's
	// lazily loaded chapter list to populate before the subtree is dropped.
	DefaultExpandTimeout = 10 * time.Second

	// DefaultPollInterval is the pause between chapter-fragment polls
	// within the expansion window.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultUserAgent is sent with every request. A browser string is used
	// because the statute site serves reduced markup to obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// DefaultMaxBodyBytes caps the response body read per page. Section
	// pages run to a few hundred kilobytes; ten megabytes flags a page that
	// is not a statute without exhausting memory.
	DefaultMaxBodyBytes = 10 * 1024 * 1024 // 10MB

	// AppName is the application name used for XDG directory paths.
	AppName = "malaw"
)

// Config holds all configuration options for a crawl.
// This struct is populated by the layered loader (defaults, config file,
// .env, environment, CLI flags) and passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// BaseURL is the law index the crawl starts from.
	// All structural pages are re-fetched from here on every run.
	BaseURL string

	// OutputPath is the snapshot file path. The file is both the final
	// artifact and the resume checkpoint, written after every chapter.
	OutputPath string

	// MaxRetries is the total attempts per crawl unit (fetch, expansion).
	// The first try counts; 3 means one try plus two retries.
	MaxRetries int

	// RetryDelay is the fixed pause between failed attempts.
	RetryDelay time.Duration

	// StepTimeout is the per-fetch deadline covering the whole request.
	StepTimeout time.Duration

	// PaceDelay is the pause between consecutive requests.
	// Zero disables pacing; negative values are rejected by Validate.
	PaceDelay time.Duration

	// ExpandTimeout is the window allowed for a title's lazily loaded
	// chapter list to populate before the subtree is dropped for the run.
	ExpandTimeout time.Duration

	// PollInterval is the pause between chapter-fragment polls within the
	// expansion window.
	PollInterval time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodyBytes caps the response body read per page.
	MaxBodyBytes int64

	// SaveArchive enables the SQLite crawl archive (fetch ledger plus run
	// history). Disabling it leaves the snapshot as the only artifact.
	SaveArchive bool

	// ArchiveDir is the directory holding the archive database.
	// Defaults to the XDG data directory for the application.
	ArchiveDir string

	// JSONReport emits the run report as JSON instead of the human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport emits the run report as GitHub Flavored Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile, when set, writes the report to this path instead of
	// stdout. Parent directories are created automatically.
	ReportFile string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath records which config file the loader applied, if any.
	// Informational; set by Load, never read back.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that crawl the live statute
// site politely. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (timeouts, pacing, URL).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		OutputPath:    DefaultOutputPath,
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		StepTimeout:   DefaultStepTimeout,
		PaceDelay:     DefaultPaceDelay,
		ExpandTimeout: DefaultExpandTimeout,
		PollInterval:  DefaultPollInterval,
		UserAgent:     DefaultUserAgent,
		MaxBodyBytes:  DefaultMaxBodyBytes,
		SaveArchive:   true,
		ArchiveDir:    XDGDataDir(),
	}
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after flag parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// The base URL must be an absolute http(s) URL; everything else in the
	// crawl is resolved relative to it.
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidBaseURL
	}

	// Without an output path there is nowhere to persist progress
	if c.OutputPath == "" {
		return ErrNoOutputPath
	}

	// Zero attempts would mean no fetching at all
	if c.MaxRetries <= 0 {
		return ErrInvalidMaxRetries
	}

	// RetryDelay must be non-negative; zero retries immediately
	if c.RetryDelay < 0 {
		return ErrInvalidRetryDelay
	}

	// StepTimeout must be positive; zero would fail every fetch instantly
	if c.StepTimeout <= 0 {
		return ErrInvalidStepTimeout
	}

	// PaceDelay must be non-negative; use 0 to disable pacing
	if c.PaceDelay < 0 {
		return ErrInvalidPaceDelay
	}

	// The expansion window must be positive or no title ever expands
	if c.ExpandTimeout <= 0 {
		return ErrInvalidExpandTimeout
	}

	// The poll interval must be positive and fit inside the window
	if c.PollInterval <= 0 || c.PollInterval > c.ExpandTimeout {
		return ErrInvalidPollInterval
	}

	// MaxBodyBytes must be positive; section pages need room to load
	if c.MaxBodyBytes <= 0 {
		return ErrInvalidMaxBodyBytes
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// Archiving needs somewhere to put the database
	if c.SaveArchive && c.ArchiveDir == "" {
		return ErrNoArchiveDir
	}

	return nil
}
