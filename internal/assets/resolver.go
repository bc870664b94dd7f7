package assets

import "errors"

// AssetResolver reads assets from an optional custom directory and falls
// back to the embedded ones, so a directory may override a single asset.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom directory
	embedded *EmbeddedLoader
}

// NewAssetResolver uses only embedded assets when customBasePath is empty.
// A non-empty path must be a valid directory.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}
	custom, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.resolve(AssetLoader.LoadStyle, name)
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.resolve(AssetLoader.LoadTemplate, name)
}

// Styles lists the built-in stylesheet names.
func (r *AssetResolver) Styles() []string {
	return r.embedded.Styles()
}

func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// resolve tries the custom loader first. Only not-found errors fall back;
// invalid names and read failures are reported as is.
func (r *AssetResolver) resolve(load func(AssetLoader, string) (string, error), name string) (string, error) {
	if r.custom != nil {
		content, err := load(r.custom, name)
		if !isNotFoundError(err) {
			return content, err
		}
	}
	return load(r.embedded, name)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

var _ AssetLoader = (*AssetResolver)(nil)
