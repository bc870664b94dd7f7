// Package config loads the YAML configuration of the mdx command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdx/internal/dateutil"
	"github.com/alnah/go-mdx/internal/fileutil"
	"github.com/alnah/go-mdx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxFormatLength      = 10 // "json", "html", "pdf"
	MaxStyleNameLength   = 50 // chroma style or asset name
	MaxPrefixLength      = 50
	MaxLabelLength       = 100
	MaxBehaviorLength    = 10 // "wrap", "prepend", "append"
	MaxPageSizeLength    = 10 // "letter", "a4", "legal"
	MaxOrientationLength = 10 // "portrait", "landscape"
	MaxTitleLength       = 200
	MaxDateLength        = 60 // "auto:LAYOUT" or literal text
)

// Output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// DirName is the directory holding configs under the user config dir.
const DirName = "go-mdx"

// DefaultName is the config name looked up when --config is not given.
const DefaultName = "mdx"

// Config holds all configuration of the mdx command.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Autolink  AutolinkConfig  `yaml:"autolink"`
	Highlight HighlightConfig `yaml:"highlight"`
	Evaluate  EvaluateConfig  `yaml:"evaluate"`
	Page      PageConfig      `yaml:"page"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Format     string `yaml:"format"`     // "json", "html", "pdf" (default: "json")
}

// MarkdownConfig selects syntax extensions and hypertext options.
type MarkdownConfig struct {
	GFM           bool   `yaml:"gfm"`
	Footnotes     bool   `yaml:"footnotes"`
	ClobberPrefix string `yaml:"clobberPrefix"` // default "user-content-"
	FootnoteLabel string `yaml:"footnoteLabel"` // default "Footnotes"
}

// AutolinkConfig defines heading anchor options.
type AutolinkConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Behavior string `yaml:"behavior"` // "wrap", "prepend", "append" (default: "prepend")
}

// HighlightConfig defines code block highlighting.
type HighlightConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Style       string `yaml:"style"`     // chroma style for light mode (default: "github")
	DarkStyle   string `yaml:"darkStyle"` // optional, emitted under prefers-color-scheme: dark
	ClassPrefix string `yaml:"classPrefix"`
	Fallback    bool   `yaml:"fallback"` // highlight unknown languages as plain text
}

// EvaluateConfig defines how embedded code runs.
type EvaluateConfig struct {
	Direct  bool          `yaml:"direct"`  // evaluate bodies in place instead of through the side channel
	Timeout time.Duration `yaml:"timeout"` // per document, 0 = none
}

// PageConfig defines HTML page and PDF settings.
type PageConfig struct {
	Title       string  `yaml:"title"`       // Fallback when frontmatter has no title
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
	PageNumbers bool    `yaml:"pageNumbers"` // PDF footer "n/total"
	Date        string  `yaml:"date"`        // "auto", "auto:LAYOUT" or literal text (empty = no date)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
	Style    string `yaml:"style"`    // Name of page style (default: "default")
	Template string `yaml:"template"` // Name of page template (default: "page")
}

// Validate checks field values and lengths. Called automatically by
// LoadConfig.
func (c *Config) Validate() error {
	// assets.style names a built-in style or a CSS file.
	styleMax := MaxStyleNameLength
	if fileutil.IsFilePath(c.Assets.Style) {
		styleMax = MaxPathLength
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.format", c.Output.Format, MaxFormatLength},
		{"markdown.clobberPrefix", c.Markdown.ClobberPrefix, MaxPrefixLength},
		{"markdown.footnoteLabel", c.Markdown.FootnoteLabel, MaxLabelLength},
		{"autolink.behavior", c.Autolink.Behavior, MaxBehaviorLength},
		{"highlight.style", c.Highlight.Style, MaxStyleNameLength},
		{"highlight.darkStyle", c.Highlight.DarkStyle, MaxStyleNameLength},
		{"highlight.classPrefix", c.Highlight.ClassPrefix, MaxPrefixLength},
		{"page.title", c.Page.Title, MaxTitleLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"page.date", c.Page.Date, MaxDateLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.style", c.Assets.Style, styleMax},
		{"assets.template", c.Assets.Template, MaxStyleNameLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := oneOf("output.format", c.Output.Format, FormatJSON, FormatHTML, FormatPDF); err != nil {
		return err
	}
	if err := oneOf("autolink.behavior", c.Autolink.Behavior, "wrap", "prepend", "append"); err != nil {
		return err
	}
	if err := oneOf("page.size", c.Page.Size, "letter", "a4", "legal"); err != nil {
		return err
	}
	if err := oneOf("page.orientation", c.Page.Orientation, "portrait", "landscape"); err != nil {
		return err
	}
	if c.Page.Margin < 0 || c.Page.Margin > 3 {
		return fmt.Errorf("%w: page.margin must be between 0 and 3 inches, got %.2f", ErrInvalidValue, c.Page.Margin)
	}
	if _, err := dateutil.Resolve(c.Page.Date, time.Time{}); err != nil {
		return fmt.Errorf("%w: page.date: %v", ErrInvalidValue, err)
	}
	if c.Evaluate.Timeout < 0 {
		return fmt.Errorf("%w: evaluate.timeout must not be negative", ErrInvalidValue)
	}

	return nil
}

// oneOf accepts an empty value or one of allowed, ignoring case.
func oneOf(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be %s)", ErrInvalidValue, field, value, strings.Join(allowed, ", "))
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is found:
// JSON output with plain CommonMark plus MDX.
func DefaultConfig() *Config {
	return &Config{
		Output:    OutputConfig{Format: FormatJSON},
		Autolink:  AutolinkConfig{Behavior: "prepend"},
		Highlight: HighlightConfig{Style: "github"},
		Page:      PageConfig{Size: "letter", Orientation: "portrait", Margin: 0.5},
		Assets:    AssetsConfig{Style: "default", Template: "page"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values missing from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdx/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, DirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
