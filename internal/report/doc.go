// Package report renders crawl run summaries.
//
// Three formats share one Writer interface: SimpleWriter for terminals,
// JSONWriter for tool integration, and MarkdownWriter for documentation.
// The writers render the numbers the walker counted; they never recompute
// anything from the snapshot.
package report
