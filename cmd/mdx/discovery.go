package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdx/internal/config"
	"github.com/alnah/go-mdx/internal/fileutil"
)

// MaxWorkers caps --workers. Each PDF worker owns a browser.
const MaxWorkers = 32

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .mdx or .md extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// documentExts are the extensions compiled when walking a directory.
var documentExts = []string{".mdx", ".md"}

// outputExts maps formats to output file extensions.
var outputExts = map[string]string{
	config.FormatJSON: ".json",
	config.FormatHTML: ".html",
	config.FormatPDF:  ".pdf",
}

// FileToCompile represents a single file to process.
type FileToCompile struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all documents to compile. Directories are walked
// recursively, skipping hidden directories.
func discoverFiles(inputPath, outputDir, format string) ([]FileToCompile, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateDocumentExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", format)
		return []FileToCompile{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToCompile
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !looksLikeDocument(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, format)
		files = append(files, FileToCompile{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for a document. An
// output ending in the format extension names a single file; otherwise
// it is a directory mirroring the input tree.
func resolveOutputPath(inputPath, outputDir, baseInputDir, format string) string {
	ext := outputExts[format]
	if ext == "" {
		ext = outputExts[config.FormatJSON]
	}
	base := fileutil.ReplaceExt(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if strings.EqualFold(filepath.Ext(outputDir), ext) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base)
		}
	}

	return filepath.Join(outputDir, base)
}

// looksLikeDocument reports whether path has a document extension.
func looksLikeDocument(path string) bool {
	return fileutil.HasExt(path, documentExts...)
}

// isHidden reports whether a file or directory name starts with a dot.
func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}

// validateDocumentExtension checks that the file has a .mdx or .md extension.
func validateDocumentExtension(path string) error {
	if !looksLikeDocument(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}
