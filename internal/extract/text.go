package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeInline flattens extracted text into one clean line: NFC form,
// no-break spaces turned into plain spaces, whitespace runs collapsed.
// Headings and anchor texts go through this before any pattern matching so
// the level patterns never see layout artifacts.
func normalizeInline(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// joinParagraphs normalizes each paragraph and joins the non-empty ones
// with blank lines, the persisted full-text layout.
func joinParagraphs(paragraphs []string) string {
	cleaned := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = normalizeInline(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "\n\n")
}
