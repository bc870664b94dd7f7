package jsx

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"

	"github.com/alnah/go-mdx/internal/mdxerr"
)

// Mask returns a copy of doc in which every byte outside segs is a space.
// Newlines are kept, so offsets, lines and columns in the copy are those
// of doc.
func Mask(doc []byte, segs []Span) []byte {
	out := make([]byte, len(doc))
	for i, c := range doc {
		if c == '\n' || c == '\r' {
			out[i] = c
			continue
		}
		out[i] = ' '
	}
	for _, seg := range segs {
		copy(out[seg.Start:seg.End], doc[seg.Start:seg.End])
	}
	return out
}

// ParseExpression parses masked[code.Start:code.End] as a single
// expression with every tag literal replaced by its marker object. All
// nodes carry document positions. It returns nil for code holding only
// whitespace and comments. code.Start must be at least 1: the byte before
// the code is replaced by an opening parenthesis.
func ParseExpression(name string, masked []byte, code Span) (ast.Expression, error) {
	if !HasCode(masked[code.Start:code.End]) {
		return nil, nil
	}
	if code.Start < 1 {
		return nil, fmt.Errorf("%w: expression at offset 0", mdxerr.ErrInputValidation)
	}

	buf, markers, err := prepare(masked, code)
	if err != nil {
		return nil, err
	}
	buf[code.Start-1] = '('
	buf = append(buf, '\n', ')')

	prog, err := parse(name, buf)
	if err != nil {
		return nil, err
	}
	if len(prog.Body) != 1 {
		return nil, syntaxErr(masked, code.Start, "expected a single expression")
	}
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, syntaxErr(masked, code.Start, "expected a single expression")
	}

	r, err := newRewriter(name, masked, markers)
	if err != nil {
		return nil, err
	}
	return r.expr(stmt.Expression), nil
}

// ParseProgram parses masked[code.Start:code.End] as a list of statements
// with tag literals replaced by marker objects.
func ParseProgram(name string, masked []byte, code Span) (*ast.Program, error) {
	buf, markers, err := prepare(masked, code)
	if err != nil {
		return nil, err
	}
	prog, err := parse(name, buf)
	if err != nil {
		return nil, err
	}
	r, err := newRewriter(name, masked, markers)
	if err != nil {
		return nil, err
	}
	for i, stmt := range prog.Body {
		prog.Body[i] = r.stmt(stmt)
	}
	return prog, nil
}

// prepare copies masked up to code.End, blanks everything before
// code.Start and swaps each top-level tag literal for a placeholder
// identifier of at most the same length.
func prepare(masked []byte, code Span) ([]byte, map[file.Idx]Span, error) {
	spans, err := Find(masked, code.Start, code.End)
	if err != nil {
		return nil, nil, err
	}

	buf := make([]byte, code.End, code.End+2)
	for i := 0; i < code.Start; i++ {
		if masked[i] == '\n' || masked[i] == '\r' {
			buf[i] = masked[i]
			continue
		}
		buf[i] = ' '
	}
	copy(buf[code.Start:], masked[code.Start:code.End])

	markers := make(map[file.Idx]Span, len(spans))
	for i, sp := range spans {
		id := "$" + strconv.FormatInt(int64(i), 36)
		if !placeholderFits(masked, sp, id) {
			return nil, nil, unsupported(masked, sp.Start, "tag literal too short to rewrite")
		}
		for j := sp.Start; j < sp.End; j++ {
			if buf[j] != '\n' && buf[j] != '\r' {
				buf[j] = ' '
			}
		}
		copy(buf[sp.Start:], id)
		markers[idx(sp.Start)] = sp
	}
	return buf, markers, nil
}

func parse(name string, buf []byte) (*ast.Program, error) {
	prog, err := parser.ParseFile(nil, name, buf, 0, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mdxerr.ErrParse, err)
	}
	return prog, nil
}

// idx converts a document offset to a goja position.
func idx(offset int) file.Idx {
	return file.Idx(offset + 1)
}

// placeholderFits reports whether id fits on the first line of the span.
func placeholderFits(masked []byte, sp Span, id string) bool {
	line := masked[sp.Start:sp.End]
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	return len(id) <= len(line)
}
