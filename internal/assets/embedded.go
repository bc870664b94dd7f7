package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/* templates/*
var builtin embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: builtin}
}

func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readAsset(e.fsys, styleKind, name)
}

func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readAsset(e.fsys, templateKind, name)
}

// Styles lists the embedded stylesheet names in sorted order.
func (e *EmbeddedLoader) Styles() []string {
	entries, err := fs.ReadDir(e.fsys, styleKind.dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), styleKind.ext); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
