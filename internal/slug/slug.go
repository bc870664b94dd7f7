// Package slug generates GitHub-compatible heading anchors.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugger hands out unique slugs. Repeated text receives -1, -2, ... suffixes.
// A Slugger is scoped to one document and is not safe for concurrent use.
type Slugger struct {
	occurrences map[string]int
}

// New returns an empty Slugger.
func New() *Slugger {
	return &Slugger{occurrences: make(map[string]int)}
}

// Slug returns the unique slug for text and records it.
func (s *Slugger) Slug(text string) string {
	result := Make(text)
	original := result
	for {
		if _, taken := s.occurrences[result]; !taken {
			break
		}
		s.occurrences[original]++
		result = original + "-" + strconv.Itoa(s.occurrences[original])
	}
	s.occurrences[result] = 0
	return result
}

// Reset forgets every recorded slug.
func (s *Slugger) Reset() {
	clear(s.occurrences)
}

// Make converts text to a slug without deduplication: lowercase, strip
// everything but letters, marks, numbers, connectors, hyphens and spaces,
// then turn spaces into hyphens.
func Make(text string) string {
	lower := cases.Lower(language.Und).String(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-',
			unicode.IsLetter(r),
			unicode.IsMark(r),
			unicode.IsNumber(r),
			unicode.Is(unicode.Pc, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
