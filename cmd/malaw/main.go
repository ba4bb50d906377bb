// Package main provides the entry point for the malaw CLI.
//
// malaw is an incremental scraper for the Massachusetts General Laws. It
// crawls the statute hierarchy (Parts, Titles, Chapters, Sections), merges
// each run into a persisted JSON snapshot, and only re-downloads section
// text that is still missing.
//
// Usage:
//
//	malaw crawl
//	malaw inspect
//	malaw history --list
//
// See --help for all available options.
package main

// main is the entry point for malaw.
func main() {
	Execute()
}
