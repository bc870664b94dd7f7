package jsx

import (
	"strconv"

	"github.com/dop251/goja"
)

// Marker is an evaluated marker object split into its parts.
type Marker struct {
	Name     string // empty for the null tag
	Props    *goja.Object
	Children []goja.Value
}

// Unpack recognizes an evaluated marker object, an object whose MarkerKey
// property is an array, and returns its parts. A non-string name is the
// null tag; missing props or children are left empty.
func Unpack(v goja.Value) (Marker, bool) {
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() == "Array" {
		return Marker{}, false
	}
	triple, ok := Items(obj.Get(MarkerKey))
	if !ok {
		return Marker{}, false
	}

	var m Marker
	if len(triple) > 0 && goja.IsString(triple[0]) {
		m.Name = triple[0].String()
	}
	if len(triple) > 1 {
		if props, ok := triple[1].(*goja.Object); ok {
			m.Props = props
		}
	}
	if len(triple) > 2 {
		m.Children, _ = Items(triple[2])
	}
	return m, true
}

// Items returns the elements of a JavaScript array.
func Items(v goja.Value) ([]goja.Value, bool) {
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Array" {
		return nil, false
	}
	n := int(obj.Get("length").ToInteger())
	items := make([]goja.Value, n)
	for i := range items {
		items[i] = obj.Get(strconv.Itoa(i))
	}
	return items, true
}
