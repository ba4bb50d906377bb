package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Client defaults. The step timeout bounds one whole fetch (connect,
// redirect chain, body); the body cap keeps a misbehaving page from
// exhausting memory.
const (
	// DefaultTimeout is the per-fetch deadline.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps the response body read per page.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

// Record is the archive entry for one completed fetch.
type Record struct {
	// URL is the final address after redirects.
	URL string

	// Status is the HTTP status code.
	Status int

	// Bytes is the body size actually read.
	Bytes int64

	// Duration is the wall-clock fetch time.
	Duration time.Duration

	// ContentHash is the SHA-256 hex digest of the body.
	ContentHash string

	// FetchedAt is when the fetch started.
	FetchedAt time.Time
}

// Recorder receives a Record after every successful fetch. The crawl
// archive implements it; recording failures are logged, never fatal.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Client fetches and parses pages sequentially. One Client serves the whole
// crawl; it holds no per-page state.
type Client struct {
	// http performs the requests. Replaceable for tests.
	http *http.Client

	// timeout is the per-fetch deadline.
	timeout time.Duration

	// userAgent is sent on every request.
	userAgent string

	// maxBodySize caps the bytes read per response.
	maxBodySize int64

	// recorder, when set, receives a Record per successful fetch.
	recorder Recorder

	// logger reports recording failures.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-fetch deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the response body cap in bytes.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithRecorder sets the fetch recorder.
func WithRecorder(rec Recorder) Option {
	return func(c *Client) {
		c.recorder = rec
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client with default settings.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{},
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves and parses one page, blocking until the page settles or
// the per-fetch deadline elapses. Failures classify as ErrFetchTimeout or
// ErrNavigation; parent-context cancellation propagates unclassified.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNavigation, pageURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.classify(ctx, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrNavigation, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, c.classify(ctx, pageURL, err)
	}

	// Content-Type aware decoding: the origin serves UTF-8 today, but
	// archived statute pages have shipped windows-1252 in the past.
	reader, err := charset.NewReader(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrNavigation, pageURL, err)
	}
	root, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrNavigation, pageURL, err)
	}

	hash := sha256.Sum256(body)
	finalURL := resp.Request.URL

	page := &Page{
		URL:         finalURL.String(),
		Status:      resp.StatusCode,
		FetchedAt:   start,
		ContentHash: hex.EncodeToString(hash[:]),
		root:        root,
		base:        finalURL,
	}

	if c.recorder != nil {
		rec := Record{
			URL:         page.URL,
			Status:      page.Status,
			Bytes:       int64(len(body)),
			Duration:    time.Since(start),
			ContentHash: page.ContentHash,
			FetchedAt:   start,
		}
		if err := c.recorder.Record(ctx, rec); err != nil {
			c.logger.Warn("failed to record fetch", "url", page.URL, "error", err)
		}
	}

	return page, nil
}

// classify maps a transport error onto the fetch failure classes.
// Cancellation of the caller's context is not a page failure and is
// returned bare so the layers above stop cleanly.
func (c *Client) classify(ctx context.Context, pageURL string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s: %v", ErrFetchTimeout, pageURL, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrNavigation, pageURL, err)
}
