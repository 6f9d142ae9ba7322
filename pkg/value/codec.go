package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned by FromYAML when the input holds no document.
var ErrEmptyDocument = errors.New("empty YAML document")

// FromYAML decodes a YAML document into a Value. Mappings become Maps in
// document order, sequences become Lists and every scalar (numbers and
// booleans included) becomes its literal text. A null scalar becomes "".
func FromYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Value{}, ErrEmptyDocument
	}
	return fromNode(doc.Content[0])
}

func fromNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Scalar(""), nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return Scalar(""), nil
		}
		return Scalar(n.Value), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return List(items...), nil
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			m.Set(key.Value, v)
		}
		return FromMap(m), nil
	default:
		return Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

// MarshalJSON encodes scalars as strings, lists as arrays and maps as
// objects with keys in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encodeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encodeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindScalar:
		b, err := json.Marshal(v.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encodeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		var err error
		i := 0
		v.m.Range(func(k string, item Value) bool {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			var kb []byte
			if kb, err = json.Marshal(k); err != nil {
				return false
			}
			buf.Write(kb)
			buf.WriteByte(':')
			err = item.encodeJSON(buf)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	}
	return nil
}

// ToAny converts v to plain Go values: string, []any and map[string]any.
// Key order is lost.
func (v Value) ToAny() any {
	switch v.kind {
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.ToAny()
		}
		return out
	case KindMap:
		out := make(map[string]any, v.m.Len())
		v.m.Range(func(k string, item Value) bool {
			out[k] = item.ToAny()
			return true
		})
		return out
	default:
		return v.scalar
	}
}
