package value

// Map is an insertion-ordered string-keyed map. Keys are unique; setting an
// existing key replaces its value without moving it.
//
// A Map is not safe for concurrent mutation.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Set stores val under key and returns m for chaining.
func (m *Map) Set(key string, val Value) *Map {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = val
	return m
}

// SetText is shorthand for Set(key, Scalar(text)).
func (m *Map) SetText(key, text string) *Map {
	return m.Set(key, Scalar(text))
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Text returns the text of the value under key, or "" when absent.
func (m *Map) Text(key string) string {
	v, _ := m.Get(key)
	return v.Text()
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key. It reports whether the key was present.
func (m *Map) Delete(key string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.vals[key]; !ok {
		return false
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Range calls fn for each entry in order until fn returns false.
func (m *Map) Range(fn func(key string, val Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Clone returns a shallow copy of m. Nested maps are shared.
func (m *Map) Clone() *Map {
	out := NewMap()
	m.Range(func(k string, v Value) bool {
		out.Set(k, v)
		return true
	})
	return out
}

// Equal reports whether both maps hold equal values under the same keys in
// the same order.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	ok := m.Keys()
	ook := o.Keys()
	for i := range ok {
		if ok[i] != ook[i] {
			return false
		}
		a, _ := m.Get(ok[i])
		b, _ := o.Get(ook[i])
		if !a.Equal(b) {
			return false
		}
	}
	return true
}
