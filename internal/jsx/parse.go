package jsx

import (
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-mdx/internal/mdxerr"
)

// AttributeKind identifies the form of a tag literal attribute.
type AttributeKind int

const (
	AttrString     AttributeKind = iota // name="value"
	AttrBoolean                         // name
	AttrExpression                      // name={expr}, possibly empty
	AttrElement                         // name=<el />
	AttrSpread                          // {...expr}
)

// ChildKind identifies the form of a tag literal child.
type ChildKind int

const (
	ChildText       ChildKind = iota
	ChildExpression           // {expr}, possibly empty
	ChildSpread               // {...expr}
	ChildElement
)

// Attribute is one attribute of a parsed tag literal. Expression and
// spread attributes keep the byte range of their code in Code.
type Attribute struct {
	Kind    AttributeKind
	Name    string
	Value   string
	Code    Span
	Element *Element
}

// Child is one child of a parsed tag literal.
type Child struct {
	Kind    ChildKind
	Text    string
	Code    Span
	Element *Element
}

// Element is a parsed tag literal. Fragments have an empty Name.
type Element struct {
	Name       string
	Fragment   bool
	Attributes []Attribute
	Children   []Child
	Start, End int
}

// SyntaxError reports malformed or unsupported tag literal syntax.
type SyntaxError struct {
	Line, Column int
	Offset       int
	Msg          string
	Unsupported  bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %d:%d: %s", e.Unwrap(), e.Line, e.Column, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	if e.Unsupported {
		return mdxerr.ErrUnsupportedSyntax
	}
	return mdxerr.ErrParse
}

func syntaxErr(src []byte, offset int, msg string) *SyntaxError {
	line, col := lineColumn(src, offset)
	return &SyntaxError{Line: line, Column: col, Offset: offset, Msg: msg}
}

func unsupported(src []byte, offset int, msg string) *SyntaxError {
	err := syntaxErr(src, offset, msg)
	err.Unsupported = true
	return err
}

// lineColumn converts a byte offset to a 1-based line and column.
func lineColumn(src []byte, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	for _, c := range src[:offset] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// ParseElement parses the tag literal starting at src[start], which must
// be '<'.
func ParseElement(src []byte, start int) (*Element, error) {
	p := &tagParser{src: src, pos: start}
	return p.element()
}

type tagParser struct {
	src []byte
	pos int
}

func (p *tagParser) element() (*Element, error) {
	el := &Element{Start: p.pos}
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	if p.peek() == '>' {
		p.pos++
		el.Fragment = true
	} else {
		name, err := p.elementName()
		if err != nil {
			return nil, err
		}
		el.Name = name
		selfClosing, err := p.attributes(el)
		if err != nil {
			return nil, err
		}
		if selfClosing {
			el.End = p.pos
			return el, nil
		}
	}

	if err := p.children(el); err != nil {
		return nil, err
	}
	el.End = p.pos
	return el, nil
}

// elementName reads an identifier, a namespaced name or a member chain.
func (p *tagParser) elementName() (string, error) {
	name, err := p.ident()
	if err != nil {
		return "", err
	}
	if err := p.skipSpace(); err != nil {
		return "", err
	}
	switch p.peek() {
	case ':':
		p.pos++
		if err := p.skipSpace(); err != nil {
			return "", err
		}
		local, err := p.ident()
		if err != nil {
			return "", err
		}
		return name + ":" + local, nil
	case '.':
		parts := []string{name}
		for p.peek() == '.' {
			p.pos++
			if err := p.skipSpace(); err != nil {
				return "", err
			}
			part, err := p.ident()
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
			if err := p.skipSpace(); err != nil {
				return "", err
			}
		}
		return strings.Join(parts, "."), nil
	}
	return name, nil
}

// attributes reads attributes up to '>' or '/>' and reports whether the
// tag closed itself.
func (p *tagParser) attributes(el *Element) (bool, error) {
	for {
		if err := p.skipSpace(); err != nil {
			return false, err
		}
		switch c := p.peek(); {
		case c == 0:
			return false, p.errorf("unexpected end of input in tag <%s>", el.Name)
		case c == '/':
			p.pos++
			if err := p.skipSpace(); err != nil {
				return false, err
			}
			return true, p.expect('>')
		case c == '>':
			p.pos++
			return false, nil
		case c == '{':
			attr, err := p.spreadAttribute()
			if err != nil {
				return false, err
			}
			el.Attributes = append(el.Attributes, attr)
		default:
			attr, err := p.attribute()
			if err != nil {
				return false, err
			}
			el.Attributes = append(el.Attributes, attr)
		}
	}
}

func (p *tagParser) spreadAttribute() (Attribute, error) {
	open := p.pos
	end, err := Balanced(p.src, open)
	if err != nil {
		return Attribute{}, err
	}
	code := trimLeftSpace(p.src, open+1, end-1)
	if !strings.HasPrefix(string(p.src[code:end-1]), "...") {
		return Attribute{}, unsupported(p.src, open, "expected '...' in attribute expression")
	}
	p.pos = end
	return Attribute{Kind: AttrSpread, Code: Span{Start: code + 3, End: end - 1}}, nil
}

func (p *tagParser) attribute() (Attribute, error) {
	start := p.pos
	name, err := p.ident()
	if err != nil {
		return Attribute{}, err
	}
	if err := p.skipSpace(); err != nil {
		return Attribute{}, err
	}
	switch p.peek() {
	case ':':
		p.pos++
		if err := p.skipSpace(); err != nil {
			return Attribute{}, err
		}
		local, err := p.ident()
		if err != nil {
			return Attribute{}, err
		}
		name += ":" + local
		if err := p.skipSpace(); err != nil {
			return Attribute{}, err
		}
	case '.':
		return Attribute{}, unsupported(p.src, start, "member expression attribute names are not supported")
	}

	if p.peek() != '=' {
		return Attribute{Kind: AttrBoolean, Name: name}, nil
	}
	p.pos++
	if err := p.skipSpace(); err != nil {
		return Attribute{}, err
	}

	switch c := p.peek(); c {
	case '"', '\'':
		end := indexFrom(p.src, p.pos+1, string(c))
		if end < 0 {
			return Attribute{}, p.errorf("unterminated attribute value")
		}
		value := html.UnescapeString(string(p.src[p.pos+1 : end]))
		p.pos = end + 1
		return Attribute{Kind: AttrString, Name: name, Value: value}, nil
	case '{':
		end, err := Balanced(p.src, p.pos)
		if err != nil {
			return Attribute{}, err
		}
		code := Span{Start: p.pos + 1, End: end - 1}
		p.pos = end
		return Attribute{Kind: AttrExpression, Name: name, Code: code}, nil
	case '<':
		nested, err := p.element()
		if err != nil {
			return Attribute{}, err
		}
		return Attribute{Kind: AttrElement, Name: name, Element: nested}, nil
	}
	return Attribute{}, unsupported(p.src, p.pos, "unquoted attribute value for "+name)
}

func (p *tagParser) children(el *Element) error {
	for {
		switch c := p.peek(); c {
		case 0:
			return p.errorf("expected closing tag for <%s>", el.Name)

		case '<':
			if p.closingAhead() {
				return p.closing(el)
			}
			nested, err := p.element()
			if err != nil {
				return err
			}
			el.Children = append(el.Children, Child{Kind: ChildElement, Element: nested})

		case '{':
			open := p.pos
			end, err := Balanced(p.src, open)
			if err != nil {
				return err
			}
			p.pos = end
			code := trimLeftSpace(p.src, open+1, end-1)
			if strings.HasPrefix(string(p.src[code:end-1]), "...") {
				el.Children = append(el.Children, Child{Kind: ChildSpread, Code: Span{Start: code + 3, End: end - 1}})
				continue
			}
			el.Children = append(el.Children, Child{Kind: ChildExpression, Code: Span{Start: open + 1, End: end - 1}})

		default:
			start := p.pos
			for p.pos < len(p.src) && p.src[p.pos] != '<' && p.src[p.pos] != '{' {
				p.pos++
			}
			text := html.UnescapeString(string(p.src[start:p.pos]))
			el.Children = append(el.Children, Child{Kind: ChildText, Text: text})
		}
	}
}

func (p *tagParser) closingAhead() bool {
	i := p.pos + 1
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	return i < len(p.src) && p.src[i] == '/'
}

func (p *tagParser) closing(el *Element) error {
	start := p.pos
	p.pos++ // '<'
	if err := p.skipSpace(); err != nil {
		return err
	}
	p.pos++ // '/'
	if err := p.skipSpace(); err != nil {
		return err
	}
	var name string
	if p.peek() != '>' {
		var err error
		if name, err = p.elementName(); err != nil {
			return err
		}
	}
	if err := p.skipSpace(); err != nil {
		return err
	}
	if name != el.Name {
		want := "</" + el.Name + ">"
		return syntaxErr(p.src, start, fmt.Sprintf("expected corresponding closing tag %s, got </%s>", want, name))
	}
	return p.expect('>')
}

// ident reads a tag identifier; hyphens are allowed after the first
// character.
func (p *tagParser) ident() (string, error) {
	if !isIdentStartAt(p.src, p.pos) {
		return "", p.errorf("expected identifier")
	}
	start := p.pos
	for p.pos < len(p.src) && (isIdentPart(p.src[p.pos]) || p.src[p.pos] == '-') {
		p.pos++
	}
	return string(p.src[start:p.pos]), nil
}

func (p *tagParser) skipSpace() error {
	for p.pos < len(p.src) {
		switch {
		case isSpace(p.src[p.pos]):
			p.pos++
		case p.src[p.pos] == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		case p.src[p.pos] == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
			end := indexFrom(p.src, p.pos+2, "*/")
			if end < 0 {
				return p.errorf("unterminated comment")
			}
			p.pos = end + 2
		default:
			return nil
		}
	}
	return nil
}

func (p *tagParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *tagParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected '%c'", c)
	}
	p.pos++
	return nil
}

func (p *tagParser) errorf(format string, args ...any) error {
	return syntaxErr(p.src, p.pos, fmt.Sprintf(format, args...))
}

func trimLeftSpace(src []byte, start, end int) int {
	for start < end && isSpace(src[start]) {
		start++
	}
	return start
}

// Tag is a single opening, closing or self-closing tag, as found in
// markup where the content between tags is not tag literal syntax.
type Tag struct {
	Name        string
	Fragment    bool
	Closing     bool
	SelfClosing bool
	Attributes  []Attribute
	Start, End  int
}

// ParseTag parses the tag starting at src[start], which must be '<'.
func ParseTag(src []byte, start int) (*Tag, error) {
	p := &tagParser{src: src, pos: start}
	tag := &Tag{Start: start}
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	if p.peek() == '/' {
		p.pos++
		tag.Closing = true
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
	}
	if p.peek() == '>' {
		p.pos++
		tag.Fragment = true
		tag.End = p.pos
		return tag, nil
	}

	name, err := p.elementName()
	if err != nil {
		return nil, err
	}
	tag.Name = name

	if tag.Closing {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		tag.End = p.pos
		return tag, nil
	}

	el := &Element{Name: name}
	selfClosing, err := p.attributes(el)
	if err != nil {
		return nil, err
	}
	tag.Attributes = el.Attributes
	tag.SelfClosing = selfClosing
	tag.End = p.pos
	return tag, nil
}
