// Package ast defines the value tree produced by parsing a CML document.
//
// A Value is a tagged variant: callers switch on Kind() and use the matching
// accessor rather than inspecting dynamic types. Values, Mappings and Documents
// are treated as immutable once built; accessors hand out copies of slices.
package ast

import (
	"bytes"
	"slices"
	"strconv"
	"strings"
)

// Kind is the variant tag of a Value.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	TextKind
	ListKind
	MappingKind
)

var kindNames = [...]string{
	NullKind:    "null",
	BoolKind:    "bool",
	NumberKind:  "number",
	TextKind:    "text",
	ListKind:    "list",
	MappingKind: "mapping",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single node of the value tree. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Value
	m    *Mapping
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: BoolKind, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: NumberKind, n: n} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: TextKind, s: s} }

// List returns a list value holding a copy of items.
func List(items ...Value) Value {
	return Value{kind: ListKind, list: slices.Clone(items)}
}

// Map returns a mapping value. A nil m is treated as an empty mapping.
func Map(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: MappingKind, m: m}
}

// Kind returns the variant tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == NullKind }

// Bool returns the boolean held by v and whether v is a Bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == BoolKind }

// Number returns the number held by v and whether v is a Number.
func (v Value) Number() (float64, bool) { return v.n, v.kind == NumberKind }

// Text returns the string held by v and whether v is Text.
func (v Value) Text() (string, bool) { return v.s, v.kind == TextKind }

// List returns a copy of the elements of v and whether v is a List.
func (v Value) List() ([]Value, bool) {
	if v.kind != ListKind {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// Len returns the number of elements of a List or entries of a Mapping.
// It returns 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case ListKind:
		return len(v.list)
	case MappingKind:
		return v.m.Len()
	}
	return 0
}

// Index returns the i'th element of a List, or Null when v is not a List or
// i is out of range.
func (v Value) Index(i int) Value {
	if v.kind != ListKind || i < 0 || i >= len(v.list) {
		return Null()
	}
	return v.list[i]
}

// Mapping returns the mapping held by v and whether v is a Mapping.
func (v Value) Mapping() (*Mapping, bool) {
	if v.kind != MappingKind {
		return nil, false
	}
	return v.m, true
}

// String returns a compact, single-line rendering of v for diagnostics.
func (v Value) String() string {
	var out bytes.Buffer
	v.writeTo(&out)
	return out.String()
}

func (v Value) writeTo(out *bytes.Buffer) {
	switch v.kind {
	case NullKind:
		out.WriteString("null")
	case BoolKind:
		out.WriteString(strconv.FormatBool(v.b))
	case NumberKind:
		out.WriteString(strconv.FormatFloat(v.n, 'f', -1, 64))
	case TextKind:
		out.WriteString(strconv.Quote(v.s))
	case ListKind:
		elements := make([]string, 0, len(v.list))
		for _, el := range v.list {
			elements = append(elements, el.String())
		}
		out.WriteString("[")
		out.WriteString(strings.Join(elements, ", "))
		out.WriteString("]")
	case MappingKind:
		out.WriteString(v.m.String())
	}
}

// Equal reports whether a and b hold the same variant and the same contents.
// Mapping entries are compared in order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case NullKind:
		return true
	case BoolKind:
		return a.b == b.b
	case NumberKind:
		return a.n == b.n
	case TextKind:
		return a.s == b.s
	case ListKind:
		return slices.EqualFunc(a.list, b.list, Equal)
	case MappingKind:
		return a.m.Equal(b.m)
	}
	return false
}
