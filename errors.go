package mdx

import "github.com/alnah/go-mdx/internal/mdxerr"

// Sentinel errors for compile operations. Every compile error wraps one of
// them; use errors.Is to classify.
var (
	// ErrInputValidation indicates a malformed request, such as a source
	// that is not valid UTF-8.
	ErrInputValidation = mdxerr.ErrInputValidation

	// ErrUnsupportedSyntax indicates a construct with no translation rule,
	// such as raw HTML or a default export.
	ErrUnsupportedSyntax = mdxerr.ErrUnsupportedSyntax

	// ErrEvaluation indicates that document code threw or was interrupted.
	ErrEvaluation = mdxerr.ErrEvaluation

	// ErrParse indicates malformed document or frontmatter syntax.
	ErrParse = mdxerr.ErrParse
)
