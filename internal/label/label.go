package label

import (
	"regexp"
	"strings"
)

// Label is a parsed node heading: the sibling-unique identifier and the
// display name that follow the level keyword in a raw heading string.
type Label struct {
	// ID is the node key ("I", "XXII", "23A").
	ID string

	// Name is the display name with surrounding whitespace removed.
	Name string
}

// Pattern is a level-specific heading shape. The expression must expose
// exactly two capture groups: the identifier and the display name.
type Pattern struct {
	re *regexp.Regexp
}

// Heading patterns for the three structural levels. Section headings are not
// parsed here: section links carry their identifier and title separately.
var (
	// Part matches "Part <roman> <name> Chapters. <range>". The trailing
	// chapter range is site navigation noise and is not captured.
	Part = Pattern{re: regexp.MustCompile(`^Part\s+([IVXLCDM]+)\s+(.+?)\s+Chapters\.\s+.+$`)}

	// Title matches "Title <roman> <name>".
	Title = Pattern{re: regexp.MustCompile(`^Title\s+([IVXLCDM]+)\s+(.+)$`)}

	// Chapter matches "Chapter <alnum> <name>".
	Chapter = Pattern{re: regexp.MustCompile(`^Chapter\s+([0-9A-Za-z]+)\s+(.+)$`)}
)

// tokenSplitter drives the positional fallback. Splitting on whitespace runs
// keeps a leading empty token when the heading starts with whitespace, so
// the identifier is always the second token whether or not the level
// keyword survived in the raw string.
var tokenSplitter = regexp.MustCompile(`\s+`)

// Parse extracts a Label from a raw heading. The second return value is
// false when the heading missed the level pattern and positional fallback
// was used instead; callers count these, they do not fail on them.
//
// Fallback rule: split on whitespace, the second token is the identifier,
// the remainder is the name. A heading with fewer than two tokens degrades
// to the whole trimmed heading as identifier.
func (p Pattern) Parse(raw string) (Label, bool) {
	if m := p.re.FindStringSubmatch(raw); m != nil {
		return Label{ID: m[1], Name: strings.TrimSpace(m[2])}, true
	}

	tokens := tokenSplitter.Split(raw, -1)
	if len(tokens) >= 2 && tokens[1] != "" {
		return Label{
			ID:   tokens[1],
			Name: strings.TrimSpace(strings.Join(tokens[2:], " ")),
		}, false
	}
	return Label{ID: strings.TrimSpace(raw)}, false
}
