package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/azurestocking/ma-law-scraper/internal/fetch"
	"golang.org/x/net/html/atom"
)

// Selectors is the site markup contract: the class names and attribute the
// extractor queries at each level. Everything specific to the origin's HTML
// lives in this one value, so a site redesign is absorbed by swapping
// selectors, not by touching the walker.
type Selectors struct {
	// PartLink is the anchor class for part entries on the index page.
	PartLink string

	// TitleItem is the container class for title entries on a part page.
	TitleItem string

	// TitleExpandAttr is the TitleItem attribute holding the lazy-load
	// endpoint for the title's chapter list.
	TitleExpandAttr string

	// ChapterLink is the anchor class for chapter entries in an expanded
	// title fragment.
	ChapterLink string

	// SectionLink is the anchor class for section entries on a chapter
	// page.
	SectionLink string

	// SectionTitle is the heading class on a section page.
	SectionTitle string

	// SectionText is the statutory text container class on a section page.
	SectionText string
}

// DefaultSelectors returns the contract for the Massachusetts General Laws
// site.
func DefaultSelectors() Selectors {
	return Selectors{
		PartLink:        "partLink",
		TitleItem:       "titleItem",
		TitleExpandAttr: "data-chapters-url",
		ChapterLink:     "chapterLink",
		SectionLink:     "sectionLink",
		SectionTitle:    "sectionTitle",
		SectionText:     "sectionText",
	}
}

// sectionHeading splits a section heading into identifier and remainder:
// "Section 16 Repealed, 1978" and "Section 1: Citation of chapter" both
// match. The remainder is stored as the display title; keeping it free of
// the "Section <id>" prefix is what lets terminal dispositions ("Repealed,
// ...") be recognized by prefix later.
var sectionHeading = regexp.MustCompile(`^Section\s+([0-9A-Za-z]+)\s*:?\s*(.*)$`)

// HTMLExtractor implements per-level record extraction against the parsed
// DOM of a fetched page.
//
// Design decision: extraction walks golang.org/x/net/html nodes directly
// rather than matching the serialized page with regular expressions. The
// origin's markup is machine-generated but not stable in its whitespace or
// attribute order, and a node walk is immune to both.
type HTMLExtractor struct {
	selectors Selectors
}

// NewHTMLExtractor creates an extractor bound to the given markup contract.
func NewHTMLExtractor(selectors Selectors) *HTMLExtractor {
	return &HTMLExtractor{selectors: selectors}
}

// Parts extracts the part entries from the index page.
func (e *HTMLExtractor) Parts(page *fetch.Page) ([]PartRecord, error) {
	var records []PartRecord
	for _, n := range findAll(page.Root(), atom.A, e.selectors.PartLink) {
		href := getAttr(n, "href")
		if href == "" {
			continue
		}
		records = append(records, PartRecord{
			RawLabel: normalizeInline(innerText(n)),
			URL:      page.Resolve(href),
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no %q anchors on %s", ErrSelectorNotFound, e.selectors.PartLink, page.URL)
	}
	return records, nil
}

// Titles extracts the title entries from a part page. Entries without an
// expand handle are still returned; the walker decides how to degrade them.
func (e *HTMLExtractor) Titles(page *fetch.Page) ([]TitleNode, error) {
	var nodes []TitleNode
	for _, n := range findAll(page.Root(), atom.Div, e.selectors.TitleItem) {
		label := ""
		if heading := firstHeading(n); heading != nil {
			label = normalizeInline(innerText(heading))
		} else {
			label = normalizeInline(innerText(n))
		}

		expandURL := getAttr(n, e.selectors.TitleExpandAttr)
		if expandURL != "" {
			expandURL = page.Resolve(expandURL)
		}

		nodes = append(nodes, TitleNode{RawLabel: label, ExpandURL: expandURL})
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: no %q containers on %s", ErrSelectorNotFound, e.selectors.TitleItem, page.URL)
	}
	return nodes, nil
}

// Chapters extracts the chapter entries from an expanded title fragment.
// An empty fragment returns ErrSelectorNotFound, which the expansion poll
// loop reads as "not populated yet".
func (e *HTMLExtractor) Chapters(page *fetch.Page) ([]ChapterRecord, error) {
	var records []ChapterRecord
	for _, n := range findAll(page.Root(), atom.A, e.selectors.ChapterLink) {
		href := getAttr(n, "href")
		if href == "" {
			continue
		}
		records = append(records, ChapterRecord{
			RawLabel: normalizeInline(innerText(n)),
			URL:      page.Resolve(href),
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no %q anchors on %s", ErrSelectorNotFound, e.selectors.ChapterLink, page.URL)
	}
	return records, nil
}

// SectionLinks extracts the section entries from a chapter page.
func (e *HTMLExtractor) SectionLinks(page *fetch.Page) ([]SectionRef, error) {
	var refs []SectionRef
	for _, n := range findAll(page.Root(), atom.A, e.selectors.SectionLink) {
		href := getAttr(n, "href")
		if href == "" {
			continue
		}

		text := normalizeInline(innerText(n))
		id, title := splitSectionHeading(text)
		if id == "" {
			// An anchor that does not name a section cannot be keyed;
			// skip it rather than invent an identifier.
			continue
		}

		refs = append(refs, SectionRef{
			ID:    id,
			Title: title,
			URL:   page.Resolve(href),
		})
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no %q anchors on %s", ErrSelectorNotFound, e.selectors.SectionLink, page.URL)
	}
	return refs, nil
}

// SectionBody extracts the display title and statutory text from a section
// page. Present-but-empty text is not an error: the walker decides what an
// empty body means for completeness.
func (e *HTMLExtractor) SectionBody(page *fetch.Page) (SectionBody, error) {
	var body SectionBody

	if heading := findClass(page.Root(), e.selectors.SectionTitle); heading != nil {
		text := normalizeInline(innerText(heading))
		if _, title := splitSectionHeading(text); title != "" {
			body.Title = title
		} else {
			body.Title = text
		}
	}

	container := findClass(page.Root(), e.selectors.SectionText)
	if container == nil {
		return SectionBody{}, fmt.Errorf("%w: no %q container on %s", ErrSelectorNotFound, e.selectors.SectionText, page.URL)
	}

	var paragraphs []string
	for _, p := range findAll(container, atom.P, "") {
		paragraphs = append(paragraphs, innerText(p))
	}
	if len(paragraphs) == 0 {
		// Some section pages carry bare text without paragraph markup.
		paragraphs = []string{innerText(container)}
	}
	body.Text = joinParagraphs(paragraphs)

	return body, nil
}

// splitSectionHeading separates "Section <id>[:] <title>" into its parts.
// A heading that does not name a section returns an empty identifier and
// the input unchanged as title.
func splitSectionHeading(text string) (id, title string) {
	if m := sectionHeading.FindStringSubmatch(text); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", text
}
