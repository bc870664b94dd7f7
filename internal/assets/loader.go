package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// AssetLoader loads stylesheets and page templates by name, without
// extension. Missing assets fail with ErrStyleNotFound or
// ErrTemplateNotFound.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind is an asset family: its directory, extension and not-found error.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// file is the slash-separated path of name inside an asset tree.
func (k kind) file(name string) string {
	return path.Join(k.dir, name+k.ext)
}

// readAsset validates name and reads it from fsys.
func readAsset(fsys fs.FS, k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(fsys, k.file(name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(data), nil
}
