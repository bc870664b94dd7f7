package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	mdx "github.com/alnah/go-mdx"
	"github.com/alnah/go-mdx/internal/assets"
	"github.com/alnah/go-mdx/internal/config"
	"github.com/alnah/go-mdx/internal/hints"
	"github.com/alnah/go-mdx/internal/page"
	"github.com/alnah/go-mdx/internal/printer"
)

// Exit codes for the mdx CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Every document compiled
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or document syntax
	ExitIO         = 3 // File not found, permission denied
	ExitBrowser    = 4 // Browser/Chrome errors
	ExitEvaluation = 5 // Embedded code threw or timed out
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, printer.ErrBrowserConnect) ||
		errors.Is(err, printer.ErrPageCreate) ||
		errors.Is(err, printer.ErrPageLoad) ||
		errors.Is(err, printer.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Evaluation errors (exit 5)
	if errors.Is(err, mdx.ErrEvaluation) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitEvaluation
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrReadStyle) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoDocuments) {
		return ExitIO
	}

	// Usage/config/syntax errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdx.ErrParse) ||
		errors.Is(err, mdx.ErrUnsupportedSyntax) ||
		errors.Is(err, mdx.ErrInputValidation) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, page.ErrTemplate) ||
		errors.Is(err, printer.ErrPageSize) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, printer.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mdx.ErrEvaluation):
		return hints.ForEvaluation()
	case errors.Is(err, mdx.ErrParse), errors.Is(err, mdx.ErrUnsupportedSyntax):
		return hints.ForSyntax()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.Styles())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// userConfigPaths lists where a default config would be looked up.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, config.DirName, config.DefaultName+".yaml")}
}
