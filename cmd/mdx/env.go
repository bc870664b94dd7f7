package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-mdx/internal/printer"
)

// Printer turns an HTML page into PDF bytes.
type Printer interface {
	Print(ctx context.Context, page string, opts printer.Page) ([]byte, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Printer = (*printer.Printer)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	// NewPrinter creates one PDF printer per worker. Called lazily, only
	// for PDF output.
	NewPrinter func(timeout time.Duration) Printer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewPrinter: func(timeout time.Duration) Printer {
			return printer.New(timeout)
		},
	}
}
