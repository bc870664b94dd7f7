package main

// Notes:
// - This file holds test infrastructure shared across the command tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdx/internal/printer"
)

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// fakePrinter records printed pages and returns a fixed PDF.
type fakePrinter struct {
	mu     sync.Mutex
	pages  []string
	opts   []printer.Page
	err    error
	closed bool
}

func (p *fakePrinter) Print(_ context.Context, page string, opts printer.Page) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.pages = append(p.pages, page)
	p.opts = append(p.opts, opts)
	return []byte("%PDF-1.4 fake"), nil
}

func (p *fakePrinter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// testEnv returns an environment writing to buffers. PDF output goes
// through prn.
func testEnv(prn *fakePrinter) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		NewPrinter: func(time.Duration) Printer {
			return prn
		},
	}
	return env, &stdout, &stderr
}

// writeFile creates dir/name with content, creating parents.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
