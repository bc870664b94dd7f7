package build

import (
	"math/big"

	"github.com/dop251/goja"

	"github.com/alnah/go-mdx/internal/jast"
	"github.com/alnah/go-mdx/internal/jsx"
)

// evaluated converts the value of a document expression. Strings,
// numbers and tag literals become nodes; bigints do not. An array keeps those items and
// is unwrapped when exactly one survives. Anything else yields no node.
func evaluated(v goja.Value) (jast.Node, bool) {
	if items, ok := jsx.Items(v); ok {
		var nodes []jast.Node
		for _, item := range items {
			if node, ok := arrayItem(item); ok {
				nodes = append(nodes, node)
			}
		}
		if len(nodes) == 1 {
			return nodes[0], true
		}
		return jast.NewElement("", jast.Props{}, nodes), true
	}
	return arrayItem(v)
}

func arrayItem(v goja.Value) (jast.Node, bool) {
	switch {
	case v == nil:
		return nil, false
	case goja.IsString(v):
		return v.String(), true
	case goja.IsNumber(v):
		return v.ToFloat(), true
	}
	if m, ok := jsx.Unpack(v); ok {
		return element(m, nil), true
	}
	return nil, false
}

// element converts an evaluated tag literal. seen holds the objects on
// the current path and stops cyclic props.
func element(m jsx.Marker, seen map[*goja.Object]bool) *jast.Element {
	props := jast.Props{}
	if m.Props != nil {
		mergePropsSeen(&props, m.Props, seen)
	}
	var children []jast.Node
	for _, c := range m.Children {
		children = appendChild(children, c, seen)
	}
	return jast.NewElement(m.Name, props, children)
}

// appendChild keeps primitives, including booleans and null, converts tag
// literals and flattens arrays. Undefined, functions and plain objects
// are dropped.
func appendChild(out []jast.Node, v goja.Value, seen map[*goja.Object]bool) []jast.Node {
	if items, ok := jsx.Items(v); ok {
		obj := v.(*goja.Object)
		if seen[obj] {
			return out
		}
		seen = with(seen, obj)
		for _, item := range items {
			out = appendChild(out, item, seen)
		}
		return out
	}
	if p, ok := primitive(v); ok {
		return append(out, p)
	}
	if m, ok := jsx.Unpack(v); ok {
		obj := v.(*goja.Object)
		if seen[obj] {
			return out
		}
		return append(out, element(m, with(seen, obj)))
	}
	return out
}

func primitive(v goja.Value) (any, bool) {
	switch {
	case v == nil, goja.IsUndefined(v):
		return nil, false
	case goja.IsNull(v):
		return nil, true
	case goja.IsString(v):
		return v.String(), true
	case goja.IsNumber(v):
		return v.ToFloat(), true
	case goja.IsBigInt(v):
		n, ok := v.Export().(*big.Int)
		return n, ok
	}
	if b, ok := v.Export().(bool); ok {
		return b, true
	}
	return nil, false
}

// propValue converts a prop value. Undefined and functions are omitted.
func propValue(v goja.Value) (any, bool) {
	return propValueSeen(v, nil)
}

func propValueSeen(v goja.Value, seen map[*goja.Object]bool) (any, bool) {
	if p, ok := primitive(v); ok {
		return p, true
	}
	obj, ok := v.(*goja.Object)
	if !ok || seen[obj] {
		return nil, false
	}
	if _, ok := goja.AssertFunction(v); ok {
		return nil, false
	}
	seen = with(seen, obj)

	if m, ok := jsx.Unpack(v); ok {
		return element(m, seen), true
	}
	if items, ok := jsx.Items(v); ok {
		list := make([]any, 0, len(items))
		for _, item := range items {
			value, _ := propValueSeen(item, seen)
			list = append(list, value)
		}
		return list, true
	}
	props := jast.Props{}
	mergePropsSeen(&props, obj, seen)
	return props, true
}

// mergeProps copies the own enumerable properties of obj into props.
func mergeProps(props *jast.Props, obj *goja.Object) {
	mergePropsSeen(props, obj, nil)
}

func mergePropsSeen(props *jast.Props, obj *goja.Object, seen map[*goja.Object]bool) {
	for _, key := range obj.Keys() {
		if value, ok := propValueSeen(obj.Get(key), seen); ok {
			props.Set(key, value)
		}
	}
}

func with(seen map[*goja.Object]bool, obj *goja.Object) map[*goja.Object]bool {
	next := make(map[*goja.Object]bool, len(seen)+1)
	for k := range seen {
		next[k] = true
	}
	next[obj] = true
	return next
}
