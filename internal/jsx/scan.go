package jsx

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) of the document.
type Span struct {
	Start, End int
}

// keywords after which a slash starts a regular expression and a '<'
// starts a tag literal.
var exprKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true,
	"of": true, "new": true, "delete": true, "void": true, "throw": true,
	"case": true, "do": true, "else": true, "yield": true, "await": true,
	"extends": true,
}

// Balanced returns the index just past the '}' matching the '{' at
// src[open]. Strings, template literals, comments, regular expressions
// and tag literals are skipped.
func Balanced(src []byte, open int) (int, error) {
	if open >= len(src) || src[open] != '{' {
		return 0, syntaxErr(src, open, "expected '{'")
	}
	s := &scanner{src: src, end: len(src)}
	closeAt, err := s.scan(open+1, true)
	if err != nil {
		return 0, err
	}
	return closeAt + 1, nil
}

// Find returns the tag literals found at expression positions of
// src[start:end]. Nested literals are not reported separately.
func Find(src []byte, start, end int) ([]Span, error) {
	var spans []Span
	s := &scanner{src: src, end: end, onTag: func(sp Span) { spans = append(spans, sp) }}
	if _, err := s.scan(start, false); err != nil {
		return nil, err
	}
	return spans, nil
}

// HasCode reports whether src holds anything besides whitespace and
// comments.
func HasCode(src []byte) bool {
	for i := 0; i < len(src); {
		switch {
		case isSpace(src[i]):
			i++
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '*':
			j := indexFrom(src, i+2, "*/")
			if j < 0 {
				return true
			}
			i = j + 2
		default:
			return true
		}
	}
	return false
}

// Keywords returns the spans of the given words where they occur outside
// of any bracket in src[start:end]. Property names and words followed by
// '(' or '.' (dynamic import, import.meta) are skipped.
func Keywords(src []byte, start, end int, words ...string) ([]Span, error) {
	want := make(map[string]bool, len(words))
	for _, w := range words {
		want[w] = true
	}
	var spans []Span
	s := &scanner{src: src, end: end, onWord: func(sp Span) {
		if !want[string(src[sp.Start:sp.End])] {
			return
		}
		next := sp.End
		for next < end && isSpace(src[next]) {
			next++
		}
		if next < end && (src[next] == '(' || src[next] == '.') {
			return
		}
		spans = append(spans, sp)
	}}
	if _, err := s.scan(start, false); err != nil {
		return nil, err
	}
	return spans, nil
}

type scanner struct {
	src    []byte
	end    int
	onTag  func(Span)
	onWord func(Span)
	nested int
}

// scan walks code from pos. With untilClose it returns the index of the
// first unmatched '}'; otherwise it stops at s.end.
func (s *scanner) scan(pos int, untilClose bool) (int, error) {
	src := s.src
	var stack []byte
	exprOK := true
	afterDot := false

	for pos < s.end {
		c := src[pos]
		switch {
		case isSpace(c):
			pos++
			continue

		case c == '/' && pos+1 < s.end && src[pos+1] == '/':
			for pos < s.end && src[pos] != '\n' {
				pos++
			}
			continue

		case c == '/' && pos+1 < s.end && src[pos+1] == '*':
			j := indexFrom(src[:s.end], pos+2, "*/")
			if j < 0 {
				return 0, syntaxErr(src, pos, "unterminated comment")
			}
			pos = j + 2
			continue

		case c == '/' && exprOK:
			next, err := s.regexp(pos)
			if err != nil {
				return 0, err
			}
			pos = next
			exprOK = false

		case c == '"' || c == '\'':
			next, err := s.str(pos)
			if err != nil {
				return 0, err
			}
			pos = next
			exprOK = false

		case c == '`':
			next, err := s.template(pos)
			if err != nil {
				return 0, err
			}
			pos = next
			exprOK = false

		case c == '(' || c == '[' || c == '{':
			stack = append(stack, c)
			pos++
			exprOK = true

		case c == ')' || c == ']':
			if len(stack) == 0 {
				return 0, syntaxErr(src, pos, "unexpected '"+string(c)+"'")
			}
			stack = stack[:len(stack)-1]
			pos++
			exprOK = false

		case c == '}':
			if len(stack) == 0 {
				if untilClose {
					return pos, nil
				}
				return 0, syntaxErr(src, pos, "unexpected '}'")
			}
			stack = stack[:len(stack)-1]
			pos++
			exprOK = true

		case c == '<' && exprOK && pos+1 < s.end && (src[pos+1] == '>' || isIdentStartAt(src, pos+1)):
			el, err := ParseElement(src[:s.end], pos)
			if err != nil {
				return 0, err
			}
			if s.onTag != nil {
				s.onTag(Span{Start: pos, End: el.End})
			}
			pos = el.End
			exprOK = false

		case isIdentStartAt(src, pos):
			start := pos
			pos = identEnd(src[:s.end], pos)
			exprOK = !afterDot && exprKeywords[string(src[start:pos])]
			if s.onWord != nil && !afterDot && len(stack) == 0 && s.nested == 0 {
				s.onWord(Span{Start: start, End: pos})
			}

		case isDigit(c) || (c == '.' && pos+1 < s.end && isDigit(src[pos+1])):
			for pos < s.end && (isIdentPart(src[pos]) || src[pos] == '.') {
				pos++
			}
			exprOK = false

		case c == '.':
			if pos+2 < s.end && src[pos+1] == '.' && src[pos+2] == '.' {
				pos += 3
				exprOK = true
				break
			}
			pos++
			exprOK = false
			afterDot = true
			continue

		case (c == '+' || c == '-') && pos+1 < s.end && src[pos+1] == c:
			// Increment and decrement keep the current state.
			pos += 2

		default:
			pos++
			exprOK = true
		}
		afterDot = false
	}

	if untilClose {
		return 0, syntaxErr(src, pos, "unexpected end of input, expected '}'")
	}
	return pos, nil
}

func (s *scanner) str(pos int) (int, error) {
	quote := s.src[pos]
	for i := pos + 1; i < s.end; i++ {
		switch s.src[i] {
		case '\\':
			i++
		case quote:
			return i + 1, nil
		case '\n':
			return 0, syntaxErr(s.src, pos, "unterminated string")
		}
	}
	return 0, syntaxErr(s.src, pos, "unterminated string")
}

func (s *scanner) template(pos int) (int, error) {
	for i := pos + 1; i < s.end; i++ {
		switch s.src[i] {
		case '\\':
			i++
		case '`':
			return i + 1, nil
		case '$':
			if i+1 < s.end && s.src[i+1] == '{' {
				s.nested++
				closeAt, err := s.scan(i+2, true)
				s.nested--
				if err != nil {
					return 0, err
				}
				i = closeAt
			}
		}
	}
	return 0, syntaxErr(s.src, pos, "unterminated template literal")
}

func (s *scanner) regexp(pos int) (int, error) {
	inClass := false
	for i := pos + 1; i < s.end; i++ {
		switch s.src[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\n':
			return 0, syntaxErr(s.src, pos, "unterminated regular expression")
		case '/':
			if inClass {
				continue
			}
			i++
			for i < s.end && isIdentPart(s.src[i]) {
				i++
			}
			return i, nil
		}
	}
	return 0, syntaxErr(s.src, pos, "unterminated regular expression")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentPart(c byte) bool {
	return c == '$' || c == '_' || isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= utf8.RuneSelf
}

func isIdentStartAt(src []byte, pos int) bool {
	if pos >= len(src) {
		return false
	}
	c := src[pos]
	if c < utf8.RuneSelf {
		return c == '$' || c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z')
	}
	r, _ := utf8.DecodeRune(src[pos:])
	return unicode.IsLetter(r)
}

func identEnd(src []byte, pos int) int {
	for pos < len(src) && isIdentPart(src[pos]) {
		pos++
	}
	return pos
}

func indexFrom(src []byte, from int, sub string) int {
	if from > len(src) {
		return -1
	}
	i := bytes.Index(src[from:], []byte(sub))
	if i < 0 {
		return -1
	}
	return from + i
}
