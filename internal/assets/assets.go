package assets

// Names of the built-in assets.
const (
	DefaultStyleName    = "default"
	DefaultTemplateName = "page"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in stylesheet by name, without the .css extension.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in page template by name, without the .html
// extension.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// Styles lists the names of the built-in stylesheets.
func Styles() []string {
	return defaultLoader.Styles()
}
