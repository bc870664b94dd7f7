package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from a directory laid out like the
// embedded tree. Symlinks may not point outside the directory.
type FilesystemLoader struct {
	basePath string // absolute, symlinks resolved
}

// NewFilesystemLoader fails with ErrInvalidBasePath unless basePath is a
// readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	if _, err := os.ReadDir(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
		}
		if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
			return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
		}
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: abs}, nil
}

func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.load(styleKind, name)
}

func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.load(templateKind, name)
}

func (f *FilesystemLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	if err := f.contain(filepath.Join(f.basePath, filepath.FromSlash(k.file(name)))); err != nil {
		return "", err
	}
	return readAsset(os.DirFS(f.basePath), k, name)
}

// contain rejects a path whose symlink-resolved location is outside
// basePath. A missing file passes; reading it reports not found.
func (f *FilesystemLoader) contain(p string) error {
	if real, err := filepath.EvalSymlinks(p); err == nil {
		p = real
	}
	if !strings.HasPrefix(p, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, p, f.basePath)
	}
	return nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
