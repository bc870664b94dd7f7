package jast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidTree indicates JSON that does not have the element shape.
var ErrInvalidTree = errors.New("invalid element tree")

// MarshalJSON encodes e as [tag, props, children?].
func (e *Element) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes p as an object in insertion order.
func (p Props) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the [tag, props, children?] shape.
func (e *Element) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTree, err)
	}
	el, ok := toElement(v)
	if !ok {
		return fmt.Errorf("%w: expected [tag, props, children?]", ErrInvalidTree)
	}
	*e = *el
	return nil
}

// FormatNumber renders a float the way a JavaScript engine prints it in
// the common cases: integers without a fraction, others in shortest form.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case string:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(FormatNumber(v))
	case int:
		buf.WriteString(strconv.Itoa(v))
	case int64:
		buf.WriteString(strconv.FormatInt(v, 10))
	case *big.Int:
		buf.WriteString(v.String())
	case *Element:
		return encodeElement(buf, v)
	case Props:
		return encodeProps(buf, v)
	case []Node:
		return encodeList(buf, v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		props := make(Props, 0, len(keys))
		for _, k := range keys {
			props = append(props, Prop{Key: k, Value: v[k]})
		}
		return encodeProps(buf, props)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

func encodeElement(buf *bytes.Buffer, e *Element) error {
	if e == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('[')
	if e.IsFragment() {
		buf.WriteString("null")
	} else if err := encodeValue(buf, e.Tag); err != nil {
		return err
	}
	buf.WriteByte(',')
	if err := encodeProps(buf, e.Props); err != nil {
		return err
	}
	if len(e.Children) > 0 {
		buf.WriteByte(',')
		if err := encodeList(buf, e.Children); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func encodeProps(buf *bytes.Buffer, p Props) error {
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, prop.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeValue(buf, prop.Value); err != nil {
			return fmt.Errorf("prop %q: %w", prop.Key, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeList(buf *bytes.Buffer, items []any) error {
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// decodeValue reads one JSON value keeping object key order.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '[':
			list := []any{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		case '{':
			props := Props{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				props.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return props, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", tok)
	case json.Number:
		return decodeNumber(tok), nil
	default:
		return tok, nil
	}
}

// decodeNumber keeps integers that a float64 cannot hold as *big.Int.
func decodeNumber(n json.Number) any {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, ok := new(big.Int).SetString(s, 10); ok {
			if !i.IsInt64() || math.Abs(float64(i.Int64())) > 1<<53 {
				return i
			}
		}
	}
	f, err := n.Float64()
	if err != nil {
		return s
	}
	return f
}

func toElement(v any) (*Element, bool) {
	list, ok := v.([]any)
	if !ok || len(list) < 2 || len(list) > 3 {
		return nil, false
	}
	var tag string
	switch t := list[0].(type) {
	case nil:
	case string:
		if t == "" {
			return nil, false
		}
		tag = t
	default:
		return nil, false
	}
	props, ok := list[1].(Props)
	if !ok {
		return nil, false
	}
	for i := range props {
		props[i].Value = toPropValue(props[i].Value)
	}
	var children []Node
	if len(list) == 3 {
		items, ok := list[2].([]any)
		if !ok {
			return nil, false
		}
		for _, item := range items {
			if el, ok := toElement(item); ok {
				children = append(children, el)
				continue
			}
			if !IsPrimitive(item) {
				return nil, false
			}
			children = append(children, item)
		}
	}
	// Trees read from JSON may carry a "children" prop for renderers
	// that take their children from props, so NewElement is not used.
	if len(children) == 0 {
		children = nil
	}
	return &Element{Tag: tag, Props: props, Children: children}, true
}

func toPropValue(v any) any {
	switch v := v.(type) {
	case []any:
		if el, ok := toElement(v); ok {
			return el
		}
		for i := range v {
			v[i] = toPropValue(v[i])
		}
		return v
	case Props:
		for i := range v {
			v[i].Value = toPropValue(v[i].Value)
		}
		return v
	}
	return v
}
