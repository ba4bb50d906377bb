package fetch

import "errors"

// Fetch failure classes.
//
// Design decision: we classify transport failures into two sentinel errors
// rather than surfacing raw net/http errors. The retry layer passes errors
// through unchanged, so these sentinels are what the walker sees after
// exhaustion — and the walker only needs to know "page never settled"
// versus "page is unreachable or broken", not driver-level detail.
var (
	// ErrFetchTimeout is returned when a page does not settle within the
	// per-step timeout.
	ErrFetchTimeout = errors.New("page fetch timed out")

	// ErrNavigation is returned when navigation fails outright: transport
	// errors, malformed addresses, and non-success status codes.
	ErrNavigation = errors.New("page navigation failed")
)
