package cml

import (
	"encoding"
	"fmt"
	"reflect"
	"slices"

	"github.com/KimNorgaard/go-cml/ast"
	"github.com/KimNorgaard/go-cml/internal/mapper"
)

// Marshaler is the interface implemented by types that can marshal
// themselves into a CML value.
type Marshaler interface {
	MarshalCML() (Value, error)
}

// Marshal returns the CML encoding of a document with the given header and
// a body built from v. v must encode to a mapping: a struct, a map with
// string keys, a *Mapping or a Marshaler returning a mapping.
//
// Struct fields are written in declaration order under their `cml:"name"`
// tag or field name; `cml:"-"` skips a field and `omitempty` skips empty
// values. Untagged Header fields are skipped. Map entries are written in sorted
// key order.
func Marshal(h Header, v any, opts ...Option) ([]byte, error) {
	doc, err := NewDocument(h, v, opts...)
	if err != nil {
		return nil, err
	}
	return Format(doc, opts...)
}

// NewDocument builds a Document from a header and a Go value for its body.
// See Marshal for the accepted values.
func NewDocument(h Header, v any, opts ...Option) (*Document, error) {
	body, err := ValueOf(v, opts...)
	if err != nil {
		return nil, err
	}
	m, ok := body.Mapping()
	if !ok {
		return nil, fmt.Errorf("cml: document body must encode to a mapping, got %s", body.Kind())
	}
	return &Document{Header: h, Body: m}, nil
}

// ValueOf converts a Go value into a CML value.
func ValueOf(v any, opts ...Option) (Value, error) {
	o, err := newOptions(opts)
	if err != nil {
		return ast.Null(), err
	}
	es := &encodeState{depth: o.maxDepth + 1}
	return es.marshalValue(reflect.ValueOf(v))
}

var (
	valueType   = reflect.TypeFor[ast.Value]()
	mappingType = reflect.TypeFor[*ast.Mapping]()
)

type encodeState struct {
	depth int
}

// enter accounts for one level of list or mapping nesting; a cyclic value
// runs out of levels instead of recursing forever.
func (e *encodeState) enter() error {
	e.depth--
	if e.depth < 0 {
		e.depth++
		return fmt.Errorf("cml: reached max recursion depth")
	}
	return nil
}

func (e *encodeState) leave() { e.depth++ }

// isEmptyValue reports whether the value v is empty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

func (e *encodeState) marshalCustom(v reflect.Value) (ast.Value, bool, error) {
	if !v.CanInterface() {
		return ast.Null(), false, nil
	}
	switch u := v.Interface().(type) {
	case Marshaler:
		out, err := u.MarshalCML()
		if err != nil {
			return ast.Null(), true, &MarshalerError{Type: v.Type(), Err: err}
		}
		return out, true, nil
	case encoding.TextMarshaler:
		b, err := u.MarshalText()
		if err != nil {
			return ast.Null(), true, &MarshalerError{Type: v.Type(), Err: err}
		}
		return ast.Text(string(b)), true, nil
	}
	return ast.Null(), false, nil
}

func (e *encodeState) marshalValue(v reflect.Value) (ast.Value, error) { //nolint:gocyclo
	// Handle nil interfaces explicitly to avoid panics.
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ast.Null(), nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return ast.Null(), nil
	}

	switch v.Type() {
	case valueType:
		return v.Interface().(ast.Value), nil
	case mappingType:
		return ast.Map(v.Interface().(*ast.Mapping)), nil
	}

	if v.Kind() == reflect.Pointer && v.IsNil() {
		return ast.Null(), nil
	}

	// Check the value itself and a pointer to it, to handle both value and
	// pointer receivers.
	if out, ok, err := e.marshalCustom(v); ok || err != nil {
		return out, err
	}
	if v.Kind() != reflect.Pointer {
		pv := reflect.New(v.Type())
		pv.Elem().Set(v)
		if out, ok, err := e.marshalCustom(pv); ok || err != nil {
			return out, err
		}
	}

	// Follow pointers and interfaces to find the concrete value.
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ast.Null(), nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return ast.Text(v.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ast.Number(float64(v.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ast.Number(float64(v.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return ast.Number(v.Float()), nil
	case reflect.Bool:
		return ast.Bool(v.Bool()), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return ast.Null(), nil
		}
		if err := e.enter(); err != nil {
			return ast.Null(), err
		}
		defer e.leave()
		items := make([]ast.Value, v.Len())
		for i := 0; i < v.Len(); i++ {
			el, err := e.marshalValue(v.Index(i))
			if err != nil {
				return ast.Null(), err
			}
			items[i] = el
		}
		return ast.List(items...), nil
	case reflect.Map:
		if err := e.enter(); err != nil {
			return ast.Null(), err
		}
		defer e.leave()
		return e.marshalMap(v)
	case reflect.Struct:
		if err := e.enter(); err != nil {
			return ast.Null(), err
		}
		defer e.leave()
		return e.marshalStruct(v)
	default:
		return ast.Null(), fmt.Errorf("cml: unsupported type for marshaling: %s", v.Type())
	}
}

func (e *encodeState) marshalMap(v reflect.Value) (ast.Value, error) {
	if v.IsNil() {
		return ast.Null(), nil
	}
	if v.Type().Key().Kind() != reflect.String {
		return ast.Null(), fmt.Errorf("cml: map key type must be a string, got %s", v.Type().Key())
	}

	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})

	m := ast.NewMapping()
	for _, key := range keys {
		val, err := e.marshalValue(v.MapIndex(key))
		if err != nil {
			return ast.Null(), err
		}
		m.Set(key.String(), val)
	}
	return ast.Map(m), nil
}

func (e *encodeState) marshalStruct(v reflect.Value) (ast.Value, error) {
	m := ast.NewMapping()
	for _, f := range mapper.Cached(v.Type()).List {
		if isHeaderField(f) {
			continue
		}
		fieldValue, err := v.FieldByIndexErr(f.Index)
		if err != nil {
			continue
		}
		if f.OmitEmpty && isEmptyValue(fieldValue) {
			continue
		}
		val, err := e.marshalValue(fieldValue)
		if err != nil {
			return ast.Null(), err
		}
		m.Set(f.Name, val)
	}
	return ast.Map(m), nil
}
