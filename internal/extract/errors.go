package extract

import "errors"

// Extraction failure classes.
var (
	// ErrSelectorNotFound is returned when the element an extractor needs
	// never appears on the page: wrong page shape, site redesign, or an
	// error page served with status 200.
	ErrSelectorNotFound = errors.New("expected element not found")

	// ErrExpansionTimeout is returned when a title's lazy-loaded chapter
	// list stays empty for the whole expansion window.
	ErrExpansionTimeout = errors.New("expansion never yielded children")
)
