// Package label parses the raw heading strings of structural nodes into
// identifier/name pairs.
//
// The source site prints one heading shape per level ("Part I ... Chapters.
// 1-182", "Title IV ...", "Chapter 23A ..."). Each shape is declared once as
// a Pattern; headings that miss their pattern go through a shared positional
// fallback instead of failing, so a reorganized or unusual heading degrades
// the node's metadata but never aborts its subtree.
package label
