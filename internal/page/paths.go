package page

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdx/internal/jast"
	"github.com/alnah/go-mdx/internal/vdom"
)

// RewritePaths returns a copy of n where relative img[src] and a[href]
// values point at absolute file:// URLs under sourceDir. A page printed
// from a temporary file then still finds the document's images. Paths
// that would leave sourceDir are kept as written. An empty sourceDir
// returns n unchanged.
func RewritePaths(n *vdom.VNode, sourceDir string) (*vdom.VNode, error) {
	if sourceDir == "" || n == nil {
		return n, nil
	}
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, err
	}
	return rewrite(n, abs), nil
}

func rewrite(n *vdom.VNode, dir string) *vdom.VNode {
	c := *n
	switch {
	case n.Kind == vdom.KindElement && n.Tag == "img":
		c.Props = rewriteProp(n, "src", dir)
	case n.Kind == vdom.KindElement && n.Tag == "a":
		c.Props = rewriteProp(n, "href", dir)
	}
	if len(n.Kids) > 0 {
		c.Kids = make([]*vdom.VNode, len(n.Kids))
		for i, k := range n.Kids {
			c.Kids[i] = rewrite(k, dir)
		}
	}
	return &c
}

func rewriteProp(n *vdom.VNode, name, dir string) (props jast.Props) {
	v, ok := n.Props.Get(name)
	s, isString := v.(string)
	if !ok || !isString || !isRelativePath(s) {
		return n.Props
	}
	abs := filepath.Join(dir, s)
	if !isPathUnderDir(abs, dir) {
		return n.Props
	}
	props = n.Props.Clone()
	props.Set(name, pathToFileURL(abs))
	return props
}

// isRelativePath reports whether path names a file relative to the
// document.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if filepath.IsAbs(path) {
		return false
	}
	u, err := url.Parse(path)
	return err == nil && u.Scheme == ""
}

// isPathUnderDir checks if absPath is under dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
