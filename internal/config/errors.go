package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrInvalidBaseURL is returned when the base URL is empty or not an
	// absolute http(s) URL. The crawl resolves every link against it.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrNoOutputPath is returned when the snapshot output path is empty.
	// The snapshot is both the artifact and the resume checkpoint.
	ErrNoOutputPath = errors.New("no output path specified: the snapshot needs somewhere to live")

	// ErrInvalidMaxRetries is returned when the attempt budget is not
	// positive. Zero attempts would mean no fetching at all.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be positive")

	// ErrInvalidRetryDelay is returned when the retry delay is negative.
	// Use 0 to retry immediately.
	ErrInvalidRetryDelay = errors.New("invalid retry delay: must be non-negative")

	// ErrInvalidStepTimeout is returned when the per-fetch timeout is not
	// positive. A zero timeout would fail every fetch instantly.
	ErrInvalidStepTimeout = errors.New("invalid step timeout: must be positive")

	// ErrInvalidPaceDelay is returned when the inter-request pacing is
	// negative. Use 0 to disable pacing.
	ErrInvalidPaceDelay = errors.New("invalid pace delay: must be non-negative")

	// ErrInvalidExpandTimeout is returned when the title expansion window
	// is not positive. No chapter list would ever populate.
	ErrInvalidExpandTimeout = errors.New("invalid expand timeout: must be positive")

	// ErrInvalidPollInterval is returned when the expansion poll interval
	// is not positive or exceeds the expansion window.
	ErrInvalidPollInterval = errors.New("invalid poll interval: must be positive and within the expand timeout")

	// ErrInvalidMaxBodyBytes is returned when the response body cap is not
	// positive. Section pages need room to load.
	ErrInvalidMaxBodyBytes = errors.New("invalid max body bytes: must be positive")

	// ErrConflictingReportFormats is returned when both --json-report and
	// --markdown-report are specified. Only one output format can be used
	// at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json-report and --markdown-report cannot be used together")

	// ErrNoArchiveDir is returned when archiving is enabled but no archive
	// directory is configured.
	ErrNoArchiveDir = errors.New("no archive directory specified: archiving needs somewhere to put the database")
)
