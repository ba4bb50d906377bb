package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/azurestocking/ma-law-scraper/internal/model"
)

// Issue check name constants.
const (
	// CheckIncomplete flags sections with no text and no terminal title.
	CheckIncomplete = "incomplete-section"
	// CheckPending flags chapters whose sections were never collected.
	CheckPending = "pending-chapter"
	// CheckDuplicate flags sibling nodes sharing a key.
	CheckDuplicate = "duplicate-key"
)

// Issue is one defect found in the snapshot.
type Issue struct {
	// Check names the check that raised the issue.
	Check string `json:"check"`

	// Path locates the node, outermost level first.
	Path string `json:"path"`

	// Detail says what is wrong with the node.
	Detail string `json:"detail"`
}

// PartSummary is the per-part completeness tally.
type PartSummary struct {
	// ID is the part key.
	ID string `json:"part"`

	// Name is the part display name.
	Name string `json:"part_title"`

	// Titles is the number of titles under the part.
	Titles int `json:"titles"`

	// Chapters is the number of chapters under the part.
	Chapters int `json:"chapters"`

	// Sections is the number of sections under the part.
	Sections int `json:"sections"`

	// Complete is the number of complete sections under the part.
	Complete int `json:"complete"`
}

// Result is the outcome of a snapshot audit. It serializes to JSON for
// tool consumption and renders as text for terminals.
type Result struct {
	// Parts tallies completeness per part, in document order.
	Parts []PartSummary `json:"parts"`

	// TotalSections is the snapshot-wide section count.
	TotalSections int `json:"total_sections"`

	// CompleteSections is the snapshot-wide complete count.
	CompleteSections int `json:"complete_sections"`

	// TerminalSections counts sections complete by disposition alone
	// (repealed or inoperative, no text expected).
	TerminalSections int `json:"terminal_sections"`

	// Issues lists every defect found, grouped by check in document order.
	Issues []Issue `json:"issues,omitempty"`
}

// Inspect audits a loaded snapshot. It runs fixed checks: per-part
// completeness tallies, incomplete sections, never-collected chapters,
// and duplicate sibling keys. No network is involved; the audit sees
// exactly what a crawl run would load.
func Inspect(doc *model.Document) *Result {
	result := &Result{
		Parts:            make([]PartSummary, 0, len(doc.Parts)),
		TotalSections:    doc.CountSections(),
		CompleteSections: doc.CountComplete(),
	}

	for pi := range doc.Parts {
		part := &doc.Parts[pi]
		summary := PartSummary{
			ID:     part.ID,
			Name:   part.Name,
			Titles: len(part.Titles),
		}

		for ti := range part.Titles {
			title := &part.Titles[ti]
			summary.Chapters += len(title.Chapters)

			for ci := range title.Chapters {
				chapter := &title.Chapters[ci]

				if chapter.Sections == nil {
					result.Issues = append(result.Issues, Issue{
						Check:  CheckPending,
						Path:   chapterPath(part, title, chapter),
						Detail: "sections were never collected",
					})
					continue
				}

				summary.Sections += len(chapter.Sections)
				for si := range chapter.Sections {
					section := &chapter.Sections[si]
					if section.Terminal() {
						result.TerminalSections++
					}
					if section.Complete() {
						summary.Complete++
						continue
					}
					result.Issues = append(result.Issues, Issue{
						Check:  CheckIncomplete,
						Path:   chapterPath(part, title, chapter) + " > Section " + section.ID,
						Detail: "no text and no terminal disposition",
					})
				}
			}
		}

		result.Parts = append(result.Parts, summary)
	}

	result.Issues = append(result.Issues, duplicateKeys(doc)...)

	return result
}

// Healthy reports whether the audit found no issues.
func (r *Result) Healthy() bool {
	return len(r.Issues) == 0
}

// CompletionRate returns the fraction of sections that are complete,
// in [0,1]. Zero when the snapshot has no sections.
func (r *Result) CompletionRate() float64 {
	if r.TotalSections == 0 {
		return 0
	}
	return float64(r.CompleteSections) / float64(r.TotalSections)
}

// duplicateKeys flags sibling nodes sharing a key at every level. The
// merge locates nodes by key, so a duplicate means one of the siblings is
// unreachable to future merges.
func duplicateKeys(doc *model.Document) []Issue {
	var issues []Issue

	flag := func(path, level, id string) {
		issues = append(issues, Issue{
			Check:  CheckDuplicate,
			Path:   path,
			Detail: fmt.Sprintf("%s key %q appears more than once among siblings", level, id),
		})
	}

	seenParts := map[string]bool{}
	for pi := range doc.Parts {
		part := &doc.Parts[pi]
		if seenParts[part.ID] {
			flag("Part "+part.ID, "part", part.ID)
		}
		seenParts[part.ID] = true

		seenTitles := map[string]bool{}
		for ti := range part.Titles {
			title := &part.Titles[ti]
			if seenTitles[title.ID] {
				flag("Part "+part.ID+" > Title "+title.ID, "title", title.ID)
			}
			seenTitles[title.ID] = true

			seenChapters := map[string]bool{}
			for ci := range title.Chapters {
				chapter := &title.Chapters[ci]
				if seenChapters[chapter.ID] {
					flag(chapterPath(part, title, chapter), "chapter", chapter.ID)
				}
				seenChapters[chapter.ID] = true

				seenSections := map[string]bool{}
				for si := range chapter.Sections {
					section := &chapter.Sections[si]
					if seenSections[section.ID] {
						flag(chapterPath(part, title, chapter)+" > Section "+section.ID,
							"section", section.ID)
					}
					seenSections[section.ID] = true
				}
			}
		}
	}

	return issues
}

// chapterPath renders a chapter's location, outermost level first.
func chapterPath(part *model.Part, title *model.Title, chapter *model.Chapter) string {
	return "Part " + part.ID + " > Title " + title.ID + " > Chapter " + chapter.ID
}

// Render writes the audit in the terminal report style.
func (r *Result) Render(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SNAPSHOT INSPECTION\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Total sections:    %d\n", r.TotalSections))
	sb.WriteString(fmt.Sprintf("Complete sections: %d (%.1f%%)\n", r.CompleteSections, r.CompletionRate()*100))
	sb.WriteString(fmt.Sprintf("Terminal sections: %d\n", r.TerminalSections))
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PARTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
	for _, p := range r.Parts {
		sb.WriteString(fmt.Sprintf("  Part %-6s %3d titles %4d chapters %6d sections (%d complete)\n",
			p.ID, p.Titles, p.Chapters, p.Sections, p.Complete))
	}
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ISSUES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
	if r.Healthy() {
		sb.WriteString("  No issues found\n")
	} else {
		for _, issue := range r.Issues {
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", issue.Check, issue.Path, issue.Detail))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}
