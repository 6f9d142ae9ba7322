package value

import (
	"fmt"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindScalar is a string leaf.
	KindScalar Kind = iota
	// KindList is an ordered sequence of values.
	KindList
	// KindMap is an ordered set of named values.
	KindMap
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a node of the parameter tree. The zero Value is Scalar("").
type Value struct {
	kind   Kind
	scalar string
	list   []Value
	m      *Map
}

// Scalar returns a string leaf.
func Scalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// List returns a list holding items in order.
func List(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// FromMap wraps m as a Value. A nil map becomes an empty map.
func FromMap(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether v is a scalar.
func (v Value) IsScalar() bool { return v.kind == KindScalar }

// IsList reports whether v is a list.
func (v Value) IsList() bool { return v.kind == KindList }

// IsMap reports whether v is a map.
func (v Value) IsMap() bool { return v.kind == KindMap }

// Text returns the scalar string. For a list it returns the text of the
// first item; for a map it returns "".
func (v Value) Text() string {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		if len(v.list) > 0 {
			return v.list[0].Text()
		}
	}
	return ""
}

// Items returns a copy of the list items. A non-list value is returned as a
// single-item slice so callers can treat "one or many" uniformly.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return []Value{v}
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp
}

// Len returns the number of list items or map entries, and 0 for a scalar.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return v.m.Len()
	}
	return 0
}

// Map returns the underlying map, or nil if v is not a map.
func (v Value) Map() *Map {
	if v.kind != KindMap {
		return nil
	}
	return v.m
}

// Get looks up key when v is a map.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	return v.m.Get(key)
}

// Append returns a list value with item appended. A non-list receiver is
// promoted to a list whose first element is the receiver.
func (v Value) Append(item Value) Value {
	if v.kind != KindList {
		return List(v, item)
	}
	out := make([]Value, len(v.list), len(v.list)+1)
	copy(out, v.list)
	return Value{kind: KindList, list: append(out, item)}
}

// Equal reports whether two values have the same shape and content,
// including map key order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar == o.scalar
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	default:
		return v.m.Equal(o.m)
	}
}

// String renders v in a compact debug form, e.g. {a: x, b: [1, 2]}.
func (v Value) String() string {
	var b strings.Builder
	v.writeTo(&b)
	return b.String()
}

func (v Value) writeTo(b *strings.Builder) {
	switch v.kind {
	case KindScalar:
		b.WriteString(v.scalar)
	case KindList:
		b.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				b.WriteString(", ")
			}
			item.writeTo(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, k := range v.m.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			item, _ := v.m.Get(k)
			item.writeTo(b)
		}
		b.WriteByte('}')
	}
}
