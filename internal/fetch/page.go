package fetch

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/net/html"
)

// Page is the handle returned by a completed fetch: the parsed document plus
// the response metadata the crawl archive records.
//
// Design decision: the body is parsed once here and only the DOM is kept.
// Extraction queries the same page several times (headings, links, expand
// handles), and re-parsing per query would triple the work on large chapter
// listings. Raw bytes are not retained; the content hash is enough for
// change detection.
type Page struct {
	// URL is the final address after redirects.
	URL string

	// Status is the HTTP status code.
	Status int

	// FetchedAt is when the fetch started.
	FetchedAt time.Time

	// ContentHash is the SHA-256 hex digest of the raw body.
	ContentHash string

	// root is the parsed document tree.
	root *html.Node

	// base resolves relative references found on the page.
	base *url.URL
}

// NewPage builds a handle from already retrieved content: replayed fixtures,
// local files, tests. The body is assumed to be UTF-8; the HTTP client does
// its own charset-aware decoding before parsing.
func NewPage(pageURL string, status int, body []byte) (*Page, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page URL: %w", err)
	}
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page body: %w", err)
	}

	hash := sha256.Sum256(body)
	return &Page{
		URL:         pageURL,
		Status:      status,
		FetchedAt:   time.Now(),
		ContentHash: hex.EncodeToString(hash[:]),
		root:        root,
		base:        base,
	}, nil
}

// Root returns the parsed document tree.
func (p *Page) Root() *html.Node {
	return p.root
}

// Resolve turns a reference found on the page into an absolute URL.
// Unparsable references are returned unchanged; the fetch of the bad
// reference reports the real error.
func (p *Page) Resolve(href string) string {
	if p.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return p.base.ResolveReference(ref).String()
}
