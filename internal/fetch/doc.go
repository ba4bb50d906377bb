// Package fetch retrieves pages over HTTP and hands back parsed handles.
//
// The walker treats fetching as an opaque capability: navigate, block until
// the page settles or the step timeout elapses, return a queryable handle.
// This package is that capability's HTTP rendition. It never retries — the
// retry policy lives above it — and it never interprets page content beyond
// parsing; extraction is a separate concern.
//
// Design decision: failures collapse into two classes (ErrFetchTimeout,
// ErrNavigation) because that is the full vocabulary the walker's
// degradation rules distinguish. Finer transport detail travels in the
// wrapped message text for the logs.
package fetch
