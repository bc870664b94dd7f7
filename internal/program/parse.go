package program

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dop251/goja/ast"

	"github.com/alnah/go-mdx/internal/jsx"
	"github.com/alnah/go-mdx/internal/mdxerr"
)

// ParseModule parses masked[code.Start:code.End], the text of a
// document's import and export statements, into a Module. Statements
// keep their document positions. Default exports and re-exports are not
// supported.
func ParseModule(name string, masked []byte, code jsx.Span) (*Module, error) {
	keywords, err := jsx.Keywords(masked, code.Start, code.End, "import", "export")
	if err != nil {
		return nil, err
	}

	buf := make([]byte, len(masked))
	copy(buf, masked)

	var (
		body         []Statement
		exportStarts []int
	)
	for _, kw := range keywords {
		switch string(masked[kw.Start:kw.End]) {
		case "import":
			decl, err := parseImport(masked, kw.Start, code.End)
			if err != nil {
				return nil, err
			}
			blank(buf, decl.Start, decl.End)
			body = append(body, decl)

		case "export":
			l := &clauseLexer{src: masked, pos: kw.End, end: code.End}
			l.skip()
			declStart := l.pos
			switch {
			case l.peek() == '{':
				spec, err := parseExportSpecifiers(l, kw.Start)
				if err != nil {
					return nil, err
				}
				blank(buf, spec.Start, spec.End)
				body = append(body, spec)
			case l.peek() == '*':
				return nil, unsupportedAt(masked, kw.Start, "re-exports are not supported")
			case l.word() == "default":
				return nil, unsupportedAt(masked, kw.Start, "default exports are not supported")
			default:
				blank(buf, kw.Start, kw.End)
				exportStarts = append(exportStarts, declStart)
			}
		}
	}

	prog, err := jsx.ParseProgram(name, buf, code)
	if err != nil {
		return nil, err
	}

	prevEnd := code.Start
	for _, stmt := range prog.Body {
		start, end := int(stmt.Idx0())-1, int(stmt.Idx1())-1
		i := sort.SearchInts(exportStarts, prevEnd)
		prevEnd = end
		if i < len(exportStarts) && exportStarts[i] < end {
			if len(DeclaredNames(stmt)) == 0 {
				return nil, unsupportedAt(masked, start, "export must declare a name")
			}
			body = append(body, &ExportDeclaration{Start: start, End: end, Declaration: stmt})
			continue
		}
		if _, ok := stmt.(*ast.EmptyStatement); ok {
			continue
		}
		body = append(body, &Script{Statement: stmt})
	}

	sort.SliceStable(body, func(i, j int) bool {
		return statementStart(body[i]) < statementStart(body[j])
	})
	return &Module{Body: body, Declarations: prog.DeclarationList}, nil
}

func statementStart(s Statement) int {
	switch s := s.(type) {
	case *ImportDeclaration:
		return s.Start
	case *ExportDeclaration:
		return s.Start
	case *ExportSpecifiers:
		return s.Start
	case *Script:
		return int(s.Statement.Idx0()) - 1
	}
	return 0
}

// parseImport reads one import declaration starting at the keyword.
func parseImport(src []byte, start, end int) (*ImportDeclaration, error) {
	l := &clauseLexer{src: src, pos: start + len("import"), end: end}
	decl := &ImportDeclaration{Start: start}
	l.skip()

	if l.peek() == '"' || l.peek() == '\'' {
		source, err := l.str()
		if err != nil {
			return nil, err
		}
		decl.Source = source
		decl.End = l.terminate()
		return decl, nil
	}

	if isWordStart(l.peek()) {
		decl.Default = l.word()
		l.skip()
		if l.peek() != ',' {
			return finishImport(l, decl)
		}
		l.pos++
		l.skip()
	}

	switch l.peek() {
	case '*':
		l.pos++
		l.skip()
		if l.word() != "as" {
			return nil, l.errorf("expected 'as' after '*'")
		}
		l.skip()
		ns := l.word()
		if ns == "" {
			return nil, l.errorf("expected namespace name")
		}
		decl.Namespace = ns
	case '{':
		l.pos++
		for {
			l.skip()
			if l.peek() == '}' {
				l.pos++
				break
			}
			specStart := l.pos
			imported := l.word()
			if imported == "" {
				return nil, l.errorf("expected import name")
			}
			local := imported
			l.skip()
			if save := l.pos; l.word() == "as" {
				l.skip()
				if local = l.word(); local == "" {
					return nil, l.errorf("expected local name after 'as'")
				}
			} else {
				l.pos = save
			}
			decl.Named = append(decl.Named, ImportSpecifier{
				Imported: imported, Local: local, Start: specStart, End: l.pos,
			})
			l.skip()
			switch l.peek() {
			case ',':
				l.pos++
			case '}':
			default:
				return nil, l.errorf("expected ',' or '}' in import")
			}
		}
	default:
		return nil, l.errorf("expected import specifiers")
	}
	return finishImport(l, decl)
}

func finishImport(l *clauseLexer, decl *ImportDeclaration) (*ImportDeclaration, error) {
	l.skip()
	if l.word() != "from" {
		return nil, l.errorf("expected 'from'")
	}
	l.skip()
	source, err := l.str()
	if err != nil {
		return nil, err
	}
	decl.Source = source
	decl.End = l.terminate()
	return decl, nil
}

func parseExportSpecifiers(l *clauseLexer, start int) (*ExportSpecifiers, error) {
	spec := &ExportSpecifiers{Start: start}
	l.pos++ // '{'
	for {
		l.skip()
		if l.peek() == '}' {
			l.pos++
			break
		}
		local := l.word()
		if local == "" {
			return nil, l.errorf("expected export name")
		}
		exported := local
		l.skip()
		if save := l.pos; l.word() == "as" {
			l.skip()
			if exported = l.word(); exported == "" {
				return nil, l.errorf("expected exported name after 'as'")
			}
		} else {
			l.pos = save
		}
		spec.Specifiers = append(spec.Specifiers, ExportSpecifier{Local: local, Exported: exported})
		l.skip()
		switch l.peek() {
		case ',':
			l.pos++
		case '}':
		default:
			return nil, l.errorf("expected ',' or '}' in export")
		}
	}
	l.skip()
	save := l.pos
	if l.word() == "from" {
		return nil, unsupportedAt(l.src, start, "re-exports are not supported")
	}
	l.pos = save
	spec.End = l.terminate()
	return spec, nil
}

// clauseLexer reads the small token set of import and export clauses.
type clauseLexer struct {
	src      []byte
	pos, end int
}

func (l *clauseLexer) peek() byte {
	if l.pos >= l.end {
		return 0
	}
	return l.src[l.pos]
}

// skip moves past whitespace and comments.
func (l *clauseLexer) skip() {
	for l.pos < l.end {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '/' && l.pos+1 < l.end && l.src[l.pos+1] == '/':
			for l.pos < l.end && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < l.end && l.src[l.pos+1] == '*':
			i := strings.Index(string(l.src[l.pos+2:l.end]), "*/")
			if i < 0 {
				l.pos = l.end
				return
			}
			l.pos += i + 4
		default:
			return
		}
	}
}

func (l *clauseLexer) word() string {
	start := l.pos
	for l.pos < l.end && isWordPart(l.src[l.pos]) {
		l.pos++
	}
	return string(l.src[start:l.pos])
}

func (l *clauseLexer) str() (string, error) {
	quote := l.peek()
	if quote != '"' && quote != '\'' {
		return "", l.errorf("expected module string")
	}
	start := l.pos + 1
	for i := start; i < l.end; i++ {
		switch l.src[i] {
		case '\\':
			i++
		case quote:
			l.pos = i + 1
			return string(l.src[start:i]), nil
		case '\n':
			return "", l.errorf("unterminated module string")
		}
	}
	return "", l.errorf("unterminated module string")
}

// terminate consumes an optional semicolon on the same line and returns
// the end of the statement.
func (l *clauseLexer) terminate() int {
	end := l.pos
	for i := l.pos; i < l.end; i++ {
		switch l.src[i] {
		case ' ', '\t':
			continue
		case ';':
			return i + 1
		}
		break
	}
	return end
}

func (l *clauseLexer) errorf(format string, args ...any) error {
	line, col := position(l.src, l.pos)
	return fmt.Errorf("%w: %d:%d: %s", mdxerr.ErrParse, line, col, fmt.Sprintf(format, args...))
}

func unsupportedAt(src []byte, offset int, msg string) error {
	line, col := position(src, offset)
	return fmt.Errorf("%w: %d:%d: %s", mdxerr.ErrUnsupportedSyntax, line, col, msg)
}

func position(src []byte, offset int) (int, int) {
	line, col := 1, 1
	for _, c := range src[:min(offset, len(src))] {
		if c == '\n' {
			line, col = line+1, 1
			continue
		}
		col++
	}
	return line, col
}

func isWordStart(c byte) bool {
	return c == '$' || c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= 0x80
}

func isWordPart(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9')
}

// blank replaces buf[start:end] with spaces, keeping line breaks.
func blank(buf []byte, start, end int) {
	for i := start; i < end; i++ {
		if buf[i] != '\n' && buf[i] != '\r' {
			buf[i] = ' '
		}
	}
}
