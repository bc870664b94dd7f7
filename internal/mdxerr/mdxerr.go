// Package mdxerr holds the error classes shared by every compile stage.
// The root package re-exports them so callers never import this package.
package mdxerr

import "errors"

// Sentinel errors for compile operations.
var (
	// ErrInputValidation indicates a malformed synthesis request,
	// such as an import declaration without specifiers.
	ErrInputValidation = errors.New("invalid input")

	// ErrUnsupportedSyntax indicates a construct with no translation rule.
	ErrUnsupportedSyntax = errors.New("unsupported syntax")

	// ErrEvaluation indicates that sandboxed execution threw.
	ErrEvaluation = errors.New("evaluation failed")

	// ErrParse indicates malformed document syntax.
	ErrParse = errors.New("parse failed")
)
