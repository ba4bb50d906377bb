// Package extract turns fetched pages into typed per-level records.
//
// Everything the scraper knows about the origin's HTML is confined here:
// the Selectors contract names the classes and attributes queried at each
// level, the extractor methods return plain records (part/chapter entries,
// title nodes, section refs, section bodies), and the Expander models the
// site's lazy-loaded chapter lists as an explicit capability with its own
// timeout. The walker consumes the records and never touches a DOM.
//
// Extracted text is normalized on the way out (NFC, no-break spaces,
// whitespace folding) so downstream pattern matching and persistence see
// stable strings across origin formatting changes.
package extract
