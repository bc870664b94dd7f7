// Package dateutil resolves the date stamped on rendered pages.
//
// A date value is either literal text, kept as is, or "auto" optionally
// followed by ":LAYOUT", which formats the build time. Layouts use the
// tokens YYYY, YY, MMMM, MMM, MM, M, DD and D; text inside square brackets
// is copied without token expansion.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidLayout indicates a malformed date layout or auto value.
var ErrInvalidLayout = errors.New("invalid date layout")

// MaxLayoutLength bounds layouts read from configuration and flags.
const MaxLayoutLength = 50

// DefaultLayout formats a bare "auto".
const DefaultLayout = "YYYY-MM-DD"

const autoKeyword = "auto"

// Longest tokens first so MMMM wins over MM.
var tokens = [...]struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named layouts accepted after "auto:".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// Layout converts a token layout into a time.Format layout.
func Layout(layout string) (string, error) {
	switch {
	case layout == "":
		return "", fmt.Errorf("%w: layout cannot be empty", ErrInvalidLayout)
	case len(layout) > MaxLayoutLength:
		return "", fmt.Errorf("%w: layout exceeds %d characters", ErrInvalidLayout, MaxLayoutLength)
	}

	var b strings.Builder
	b.Grow(len(layout) + 8)

	for rest := layout; rest != ""; {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				pos := len(layout) - len(rest)
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidLayout, pos)
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		n := 1
		tok := rest[:1]
		for _, t := range tokens {
			if strings.HasPrefix(rest, t.token) {
				n, tok = len(t.token), t.layout
				break
			}
		}
		b.WriteString(tok)
		rest = rest[n:]
	}
	return b.String(), nil
}

// Resolve returns the page date for value at time now. Values that do not
// start with "auto" are returned unchanged; the empty value means no date.
func Resolve(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, autoKeyword) {
		return value, nil
	}

	layout := DefaultLayout
	if lower != autoKeyword {
		spec, ok := strings.CutPrefix(value[len(autoKeyword):], ":")
		if !ok {
			return "", fmt.Errorf("%w: %q, use \"auto\" or \"auto:LAYOUT\"", ErrInvalidLayout, value)
		}
		if spec == "" {
			return "", fmt.Errorf("%w: layout cannot be empty after \"auto:\"", ErrInvalidLayout)
		}
		layout = spec
		if preset, ok := Presets[strings.ToLower(spec)]; ok {
			layout = preset
		}
	}

	goLayout, err := Layout(layout)
	if err != nil {
		return "", err
	}
	return now.Format(goLayout), nil
}
