package extract

// Per-level records returned to the walker. Raw heading strings are passed
// through untouched; the walker parses them with the level patterns so that
// heading-format drift degrades metadata without losing the node.

// PartRecord is one top-level division discovered on the index page.
type PartRecord struct {
	// RawLabel is the anchor text, e.g.
	// "Part I ADMINISTRATION OF THE GOVERNMENT Chapters. 1-182".
	RawLabel string

	// URL is the absolute address of the part's title listing.
	URL string
}

// TitleNode is one title discovered on a part page. Its chapter list is
// lazy-loaded: the node carries the endpoint the page's own script would
// call, and the Expander polls it until the list materializes.
type TitleNode struct {
	// RawLabel is the heading text, e.g. "Title II Real Property".
	RawLabel string

	// ExpandURL is the absolute address of the chapter-list fragment.
	// Empty when the page carried no expand handle for this title.
	ExpandURL string
}

// ChapterRecord is one chapter discovered in an expanded title fragment.
type ChapterRecord struct {
	// RawLabel is the anchor text, e.g. "Chapter 23A DEPARTMENT OF ...".
	RawLabel string

	// URL is the absolute address of the chapter's section listing.
	URL string
}

// SectionRef is one section link discovered on a chapter page. Unlike the
// structural levels, the identifier and display title are split here: the
// site prints them in one anchor ("Section 16 Repealed, 1978, 478, Sec. 45")
// and the persisted format stores the title without the number so that
// terminal dispositions stay recognizable by prefix.
type SectionRef struct {
	// ID is the section identifier ("1", "5B").
	ID string

	// Title is the display title with the "Section <id>" prefix removed.
	Title string

	// URL is the absolute address of the section's text page.
	URL string
}

// SectionBody is the payload extracted from one section page.
type SectionBody struct {
	// Title is the canonical display title from the section heading, with
	// the "Section <id>" prefix removed. Empty when the heading is absent;
	// the walker then keeps the link title.
	Title string

	// Text is the normalized statutory text, paragraphs joined by blank
	// lines. Empty text marks the section incomplete unless its title is
	// terminal.
	Text string
}
