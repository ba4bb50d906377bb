// Package model defines the core data structures shared across the scraper.
//
// This package contains two groups of types:
//   - Document and its Part/Title/Chapter/Section tree: the persisted
//     statute hierarchy, which doubles as the resume checkpoint
//   - CrawlReport: the per-run statistics record
//
// Design decision: models live in their own package to avoid circular
// dependencies. The walker, store, report writers, and archive all need
// these types, so centralizing them prevents import cycles.
//
// The JSON field names on the Document tree are the on-disk snapshot format
// and must not change: renaming a tag orphans every previously persisted
// snapshot and forces a full re-crawl.
package model
