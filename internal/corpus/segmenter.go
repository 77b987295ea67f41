package corpus

import (
	"regexp"
	"strings"
	"unicode"
)

// articlePattern locates article markers anywhere in the text and captures
// the article number. The marker is never split across lines once the text
// has been normalized.
var articlePattern = regexp.MustCompile(`(?i)(?:ART[IÍ]CULO|ARTICLE)\s+(\d+)`)

// headerPattern matches the marker-plus-number fragment at the start of a
// section, used by CleanSectionText to strip the header exactly once.
var headerPattern = regexp.MustCompile(`^(?i)(?:ART[IÍ]CULO|ARTICLE)\s+\d+`)

// Segment splits the full statute text into per-article sections. Each
// section spans from its marker to the next marker (or end of text) and is
// returned header-cleaned and trimmed, in order of appearance. A text with
// no markers yields an empty slice.
func Segment(text string) []Section {
	matches := articlePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for i, m := range matches {
		start := m[0]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		sections = append(sections, Section{
			Text:    CleanSectionText(text[start:end]),
			Article: text[m[2]:m[3]],
		})
	}
	return sections
}

// CleanSectionText removes the leading article header from a section,
// together with the non-word filler that follows it, so the content starts
// at the first uppercase letter after the marker. Matching is anchored to
// the section start: cross-references like "ver ARTÍCULO 12" inside the
// body are left alone. If no uppercase letter follows the header, the text
// is returned unchanged apart from trimming, which also makes the cleaning
// a no-op on already-cleaned sections.
func CleanSectionText(text string) string {
	loc := headerPattern.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text)
	}

	for i, r := range text[loc[1]:] {
		if !isWordRune(r) {
			continue
		}
		if unicode.IsUpper(r) {
			return strings.TrimSpace(text[loc[1]+i:])
		}
		break
	}
	return strings.TrimSpace(text)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
