// Package inspect audits a law snapshot for completeness without
// touching the network.
//
// The audit sees exactly what a crawl run would load: per-part tallies,
// sections with no text and no terminal disposition, chapters whose
// sections were never collected, and duplicate sibling keys that would
// shadow a node from future merges. The result serializes to JSON for
// tooling and renders as text for terminals.
package inspect
