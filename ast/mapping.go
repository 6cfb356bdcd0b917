package ast

import (
	"bytes"
	"iter"
	"slices"
	"strings"
)

// Mapping is an ordered map from string keys to Values. Keys are unique;
// setting an existing key replaces its value but keeps its original position.
//
// A nil *Mapping behaves as an empty mapping for all read accessors.
type Mapping struct {
	keys   []string
	values []Value
	index  map[string]int
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Set stores v under key. It is meant for building a mapping; a mapping that
// is reachable from a Document should not be modified.
func (m *Mapping) Set(key string, v Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.values[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Null(), false
	}
	i, ok := m.index[key]
	if !ok {
		return Null(), false
	}
	return m.values[i], true
}

// GetFold is like Get but matches keys case-insensitively. An exact match
// wins; otherwise the first key in insertion order that folds equal is used.
func (m *Mapping) GetFold(key string) (Value, bool) {
	if v, ok := m.Get(key); ok {
		return v, true
	}
	if m == nil {
		return Null(), false
	}
	for i, k := range m.keys {
		if strings.EqualFold(k, key) {
			return m.values[i], true
		}
	}
	return Null(), false
}

// Lookup follows a path of keys through nested mappings.
// An empty path is not found.
func (m *Mapping) Lookup(path ...string) (Value, bool) {
	if len(path) == 0 {
		return Null(), false
	}
	cur := m
	for i, key := range path {
		v, ok := cur.Get(key)
		if !ok {
			return Null(), false
		}
		if i == len(path)-1 {
			return v, true
		}
		if cur, ok = v.Mapping(); !ok {
			return Null(), false
		}
	}
	return Null(), false
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over the entries in insertion order.
func (m *Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// Equal reports whether m and o hold equal entries in the same order.
func (m *Mapping) Equal(o *Mapping) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i := 0; i < m.Len(); i++ {
		if m.keys[i] != o.keys[i] || !Equal(m.values[i], o.values[i]) {
			return false
		}
	}
	return true
}

// String returns a compact rendering of the mapping for diagnostics.
func (m *Mapping) String() string {
	var out bytes.Buffer
	pairs := make([]string, 0, m.Len())
	for k, v := range m.All() {
		pairs = append(pairs, k+":"+v.String())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}
