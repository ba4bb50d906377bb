package model

import "strings"

// Document is the root of the statute hierarchy and the unit of persistence.
// The same structure serves as the final output artifact and as the resume
// checkpoint: a run loads the previous Document, merges newly crawled
// chapters into it, and rewrites the whole file after each chapter.
//
// Design decision: the Document owns every descendant outright (no sharing,
// no aliasing across parents) so that merging and serialization never have
// to reason about object identity. Sibling order is discovery order and is
// preserved on merge; merge never re-sorts and never deletes.
type Document struct {
	// Parts holds the top-level divisions in discovery order.
	Parts []Part `json:"parts"`
}

// Part is a top-level division of the general laws (Part I through Part V).
type Part struct {
	// ID is the roman-numeral identifier, unique among parts ("I", "II", ...).
	ID string `json:"part"`

	// Name is the display heading, e.g. "Administration of the Government".
	Name string `json:"part_title"`

	// URL is the absolute address of the part's index page.
	URL string `json:"url"`

	// Titles holds the part's titles in discovery order.
	Titles []Title `json:"titles"`
}

// Title is a grouping of chapters within a part.
type Title struct {
	// ID is the roman-numeral identifier, unique within the parent part.
	ID string `json:"title"`

	// Name is the display heading, e.g. "Jurisdiction and Emblems".
	Name string `json:"title_name"`

	// Chapters holds the title's chapters in discovery order.
	Chapters []Chapter `json:"chapters"`
}

// Chapter is the unit of crawl progress: the walker merges and persists the
// Document after every finished chapter, so an interrupted run loses at most
// the chapter that was in flight.
type Chapter struct {
	// ID is the alphanumeric identifier, unique within the parent title.
	// Most are plain numbers ("1", "23"), some carry letter suffixes ("23A").
	ID string `json:"chapter"`

	// Name is the display heading.
	Name string `json:"chapter_title"`

	// URL is the absolute address of the chapter's section listing.
	URL string `json:"url"`

	// Sections holds the chapter's sections in discovery order.
	//
	// A nil slice means the chapter has never had its sections collected
	// (e.g. it was written by an older run that failed mid-chapter); an
	// empty non-nil slice means collection ran and found nothing. The
	// distinction drives the needs-processing decision, so callers must
	// not normalize nil to empty.
	Sections []Section `json:"sections"`
}

// Section is the leaf of the hierarchy and the only level whose payload is
// expensive to obtain (one page fetch per section). Completed sections are
// never re-fetched on later runs.
type Section struct {
	// ID is the numeric or alphanumeric identifier, unique within the
	// parent chapter ("1", "5B").
	ID string `json:"section"`

	// Title is the display title, e.g. "Section 1: Citation of chapter".
	Title string `json:"section_title"`

	// FullText is the complete statutory text. Empty when the section has
	// not been fetched yet or every fetch attempt failed.
	FullText string `json:"full_text"`

	// URL is the absolute address of the section's text page.
	URL string `json:"url"`
}

// terminalPrefixes mark sections that legitimately carry no statutory text.
// A repealed or inoperative section's page holds only the disposition note,
// so such sections count as complete without a body.
var terminalPrefixes = []string{"repealed", "inoperative"}

// NewDocument returns an empty Document ready for merging.
// Parts is allocated so an empty document still serializes as {"parts": []}.
func NewDocument() *Document {
	return &Document{Parts: []Part{}}
}

// Part returns the part with the given ID, or nil if absent.
func (d *Document) Part(id string) *Part {
	for i := range d.Parts {
		if d.Parts[i].ID == id {
			return &d.Parts[i]
		}
	}
	return nil
}

// Title returns the title with the given ID, or nil if absent.
func (p *Part) Title(id string) *Title {
	for i := range p.Titles {
		if p.Titles[i].ID == id {
			return &p.Titles[i]
		}
	}
	return nil
}

// Chapter returns the chapter with the given ID, or nil if absent.
func (t *Title) Chapter(id string) *Chapter {
	for i := range t.Chapters {
		if t.Chapters[i].ID == id {
			return &t.Chapters[i]
		}
	}
	return nil
}

// Section returns the section with the given ID, or nil if absent.
func (c *Chapter) Section(id string) *Section {
	for i := range c.Sections {
		if c.Sections[i].ID == id {
			return &c.Sections[i]
		}
	}
	return nil
}

// Terminal reports whether the section's title marks a terminal
// administrative state (case-insensitive "repealed" or "inoperative"
// prefix). Terminal sections are complete even with empty text.
func (s *Section) Terminal() bool {
	title := strings.TrimSpace(s.Title)
	for _, prefix := range terminalPrefixes {
		if len(title) >= len(prefix) && strings.EqualFold(title[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}

// Complete reports whether the section needs no further fetching: its text
// is present, or its title shows it never will be.
func (s *Section) Complete() bool {
	return s.FullText != "" || s.Terminal()
}

// CountChapters returns the number of chapters across all parts and titles.
func (d *Document) CountChapters() int {
	count := 0
	for i := range d.Parts {
		for j := range d.Parts[i].Titles {
			count += len(d.Parts[i].Titles[j].Chapters)
		}
	}
	return count
}

// CountSections returns the number of sections across the whole document.
func (d *Document) CountSections() int {
	count := 0
	d.eachSection(func(*Section) { count++ })
	return count
}

// CountComplete returns the number of complete sections across the whole
// document.
func (d *Document) CountComplete() int {
	count := 0
	d.eachSection(func(s *Section) {
		if s.Complete() {
			count++
		}
	})
	return count
}

// eachSection visits every section in document order.
func (d *Document) eachSection(visit func(*Section)) {
	for i := range d.Parts {
		for j := range d.Parts[i].Titles {
			for k := range d.Parts[i].Titles[j].Chapters {
				chapter := &d.Parts[i].Titles[j].Chapters[k]
				for l := range chapter.Sections {
					visit(&chapter.Sections[l])
				}
			}
		}
	}
}
