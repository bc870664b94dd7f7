// Package matter splits a leading YAML frontmatter header from a document.
package matter

import (
	"fmt"
	"regexp"

	"github.com/alnah/go-mdx/internal/mdxerr"
	"github.com/alnah/go-mdx/internal/yamlutil"
)

// headerPattern matches "---", optional content and "---" at the start of
// the text. The closing delimiter ends with a line ending or end of text.
var headerPattern = regexp.MustCompile(`^---(?:\r?\n|\r)(?:([\s\S]*?)(?:\r?\n|\r))?---(?:\r?\n|\r|$)`)

// Result is the outcome of Extract.
type Result struct {
	// Data is the decoded header. Nil for an empty header.
	Data any
	// Found reports whether a header was present at all.
	Found bool
	// Body is the text following the header, or the whole input.
	Body string
	// Offset is the byte offset of Body within the input.
	Offset int
}

// Extract detects and decodes the frontmatter header of text.
func Extract(text string) (Result, error) {
	loc := headerPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return Result{Body: text}, nil
	}

	res := Result{Found: true, Body: text[loc[1]:], Offset: loc[1]}
	if loc[2] < 0 || loc[2] == loc[3] {
		return res, nil
	}

	data, err := yamlutil.Document([]byte(text[loc[2]:loc[3]]))
	if err != nil {
		return Result{}, fmt.Errorf("%w: frontmatter: %v", mdxerr.ErrParse, err)
	}
	res.Data = data
	return res, nil
}

// Masked returns text with the header replaced by blanks so that byte
// offsets and line numbers in the body still match the original input.
func (r Result) Masked(text string) string {
	if r.Offset == 0 {
		return text
	}
	buf := []byte(text)
	for i := 0; i < r.Offset; i++ {
		if buf[i] != '\n' && buf[i] != '\r' {
			buf[i] = ' '
		}
	}
	return string(buf)
}
