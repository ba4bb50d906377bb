package retry

import (
	"context"
	"log/slog"
	"time"
)

// Default retry policy. Three attempts with a five second pause keeps a
// transient upstream hiccup from killing a node while still bounding the
// worst case for a permanently broken page at well under half a minute.
const (
	// DefaultMaxAttempts is the total number of tries, not re-tries.
	DefaultMaxAttempts = 3

	// DefaultDelay is the fixed pause between failed attempts.
	DefaultDelay = 5 * time.Second
)

// Runner executes one fallible unit of work at a time under a fixed retry
// policy. It wraps a single operation per call and never recurses into an
// operation's children; each crawl level wraps its own work separately.
type Runner struct {
	// maxAttempts is the total number of tries per operation.
	maxAttempts int

	// delay is the fixed pause inserted between failed attempts.
	delay time.Duration

	// logger receives one warning per failed attempt.
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxAttempts sets the total number of tries per operation.
// Values below one are treated as one.
func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.maxAttempts = n
	}
}

// WithDelay sets the fixed pause between failed attempts.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.delay = d
	}
}

// WithLogger sets the logger for per-attempt failure warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner with the default policy.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		maxAttempts: DefaultMaxAttempts,
		delay:       DefaultDelay,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Do runs op until it succeeds, the attempt budget is spent, or ctx ends.
// Every failed attempt is logged with the operation name and attempt number.
//
// On exhaustion Do returns the last error exactly as op produced it, with no
// wrapping, so errors.Is classification still works above the retry layer.
// Context cancellation during the inter-attempt pause returns ctx.Err().
func (r *Runner) Do(ctx context.Context, name string, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		r.logger.Warn("attempt failed",
			"operation", name,
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"error", lastErr)

		// No pause after the final attempt.
		if attempt == r.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.delay):
		}
	}

	return lastErr
}
