// Package database archives crawl activity in SQLite.
//
// Two tables: fetches holds the latest retrieval of each URL (status,
// size, content hash, timing) and runs holds one summary row per crawl.
// The snapshot file is what a crawl produces; the archive is the record
// of how it was produced, and what the history command reads.
package database
