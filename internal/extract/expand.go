package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/azurestocking/ma-law-scraper/internal/fetch"
)

// Expansion defaults. The origin populates a title's chapter fragment
// within a second or two once its backend cache is warm; ten seconds of
// polling separates "slow" from "never".
const (
	// DefaultExpandTimeout is the whole window allowed for one title's
	// chapter list to materialize.
	DefaultExpandTimeout = 10 * time.Second

	// DefaultPollInterval is the pause between fragment polls.
	DefaultPollInterval = 500 * time.Millisecond
)

// Fetcher is the page retrieval capability the Expander polls with.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*fetch.Page, error)
}

// Expander materializes a title's lazy-loaded chapter list. The site builds
// each title's chapters in-page on demand; over plain HTTP that action is
// the fragment endpoint embedded in the title's markup, polled until it
// returns a populated list.
//
// Expansion is its own suspension point with its own timeout, separate from
// page navigation: a title whose fragment stays empty is a different
// failure from a title whose page never loads, and the walker degrades the
// two differently.
type Expander struct {
	// fetcher retrieves fragment pages.
	fetcher Fetcher

	// extractor reads chapter records out of fetched fragments.
	extractor *HTMLExtractor

	// timeout bounds one whole expansion.
	timeout time.Duration

	// poll is the pause between fragment polls.
	poll time.Duration

	// logger reports pending polls at debug level.
	logger *slog.Logger
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithExpandTimeout sets the whole-expansion window.
func WithExpandTimeout(d time.Duration) ExpanderOption {
	return func(e *Expander) {
		e.timeout = d
	}
}

// WithPollInterval sets the pause between fragment polls.
func WithPollInterval(d time.Duration) ExpanderOption {
	return func(e *Expander) {
		e.poll = d
	}
}

// WithExpandLogger sets the logger.
func WithExpandLogger(logger *slog.Logger) ExpanderOption {
	return func(e *Expander) {
		e.logger = logger
	}
}

// NewExpander creates an Expander over the given fetcher and extractor.
func NewExpander(fetcher Fetcher, extractor *HTMLExtractor, opts ...ExpanderOption) *Expander {
	e := &Expander{
		fetcher:   fetcher,
		extractor: extractor,
		timeout:   DefaultExpandTimeout,
		poll:      DefaultPollInterval,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Expand polls the title's fragment endpoint until the chapter list is
// non-empty or the expansion window closes (ErrExpansionTimeout). Fetch
// failures surface immediately: re-attempting a broken fragment fetch is
// the retry layer's call, not the poll loop's.
func (e *Expander) Expand(ctx context.Context, node TitleNode) ([]ChapterRecord, error) {
	if node.ExpandURL == "" {
		return nil, fmt.Errorf("%w: title %q carries no expand endpoint", ErrSelectorNotFound, node.RawLabel)
	}

	deadline := time.Now().Add(e.timeout)
	for {
		page, err := e.fetcher.Fetch(ctx, node.ExpandURL)
		if err != nil {
			return nil, err
		}

		chapters, err := e.extractor.Chapters(page)
		if err == nil {
			return chapters, nil
		}
		if !errors.Is(err, ErrSelectorNotFound) {
			return nil, err
		}

		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: title %q stayed empty for %s",
				ErrExpansionTimeout, node.RawLabel, e.timeout)
		}

		e.logger.Debug("expansion pending",
			"title", node.RawLabel,
			"fragment", node.ExpandURL)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.poll):
		}
	}
}
