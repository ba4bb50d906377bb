// Package walker drives the incremental crawl of the statute hierarchy.
//
// The walk is depth-first and restart-friendly: structural pages (index,
// parts, titles, chapter listings) are re-fetched every run because they
// are cheap and they are how change is discovered, while section pages are
// fetched only when the snapshot's entry is missing or incomplete. Each
// chapter is merged and persisted as soon as it is settled, so killing a
// run costs at most the chapter in flight.
package walker
