package attr

import "testing"

func TestReactName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		html, react string
	}{
		{"class", "className"},
		{"for", "htmlFor"},
		{"tabindex", "tabIndex"},
		{"accept-charset", "acceptCharset"},
		{"stroke-width", "strokeWidth"},
		{"data-footnote-ref", "data-footnote-ref"},
		{"aria-describedby", "aria-describedby"},
		{"href", "href"},
		{"viewBox", "viewBox"},
	}
	for _, tt := range tests {
		if got := ReactName(tt.html); got != tt.react {
			t.Errorf("ReactName(%q) = %q, want %q", tt.html, got, tt.react)
		}
	}
}

func TestHTMLName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		react, html string
	}{
		{"className", "class"},
		{"htmlFor", "for"},
		{"tabIndex", "tabindex"},
		{"httpEquiv", "http-equiv"},
		{"href", "href"},
		{"data-x", "data-x"},
	}
	for _, tt := range tests {
		if got := HTMLName(tt.react); got != tt.html {
			t.Errorf("HTMLName(%q) = %q, want %q", tt.react, got, tt.html)
		}
	}
}
