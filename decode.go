package cml

import (
	"encoding"
	"fmt"
	"math"
	"reflect"

	"github.com/KimNorgaard/go-cml/ast"
	"github.com/KimNorgaard/go-cml/internal/mapper"
)

// Unmarshaler is the interface implemented by types that can unmarshal a
// CML value of themselves.
type Unmarshaler interface {
	UnmarshalCML(Value) error
}

var headerType = reflect.TypeFor[ast.Header]()

// isHeaderField reports whether f receives the document header rather than a
// body entry. A tagged Header field is an ordinary body field.
func isHeaderField(f mapper.Field) bool {
	return f.Type == headerType && !f.Tagged
}

// Unmarshal parses the CML-encoded data and stores the document body in the
// value pointed to by v, which must be a struct, a map with string keys or
// an empty interface.
//
// Struct fields are matched by their `cml:"name"` tag or field name, first
// case-sensitively and then case-insensitively. A struct field of type
// Header without a tag receives the document header. Numbers decode into any
// integer or float kind as long as they fit; Text decodes into strings and
// encoding.TextUnmarshaler implementations.
func Unmarshal(data []byte, v any, opts ...Option) error {
	doc, err := Parse(data, opts...)
	if err != nil {
		return err
	}
	return Decode(doc, v, opts...)
}

// Decode stores the body of an already parsed document in v.
// See Unmarshal for the mapping rules.
func Decode(doc *Document, v any, opts ...Option) error {
	if doc == nil {
		return fmt.Errorf("cml: Decode(nil document)")
	}
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("cml: Decode(non-pointer %T or nil)", v)
	}
	ds := &decodeState{depth: o.maxDepth + 1, header: &doc.Header}
	return ds.mapValue(ast.Map(doc.Body), rv.Elem())
}

// DecodeValue stores a single value in the value pointed to by v.
func DecodeValue(val Value, v any, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("cml: DecodeValue(non-pointer %T or nil)", v)
	}
	ds := &decodeState{depth: o.maxDepth + 1}
	return ds.mapValue(val, rv.Elem())
}

type decodeState struct {
	depth  int
	header *ast.Header // filled into Header fields of the root struct
}

func (ds *decodeState) mapValue(v ast.Value, rv reflect.Value) error { //nolint:gocyclo
	// The header only belongs to the outermost value.
	header := ds.header
	ds.header = nil

	if v.IsNull() {
		switch rv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
	}

	// Attempt to use a custom unmarshaler if available.
	handled, err := ds.tryCustomUnmarshal(v, rv)
	if err != nil || handled {
		return err
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Interface {
		return ds.mapInterface(v, rv)
	}
	if !rv.CanSet() {
		return fmt.Errorf("cml: cannot set value of type %s", rv.Type())
	}

	switch v.Kind() {
	case ast.NullKind:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case ast.TextKind:
		s, _ := v.Text()
		if rv.Kind() != reflect.String {
			return fmt.Errorf("cml: cannot unmarshal text into Go value of type %s", rv.Type())
		}
		rv.SetString(s)
		return nil
	case ast.NumberKind:
		n, _ := v.Number()
		return ds.mapNumber(n, rv)
	case ast.BoolKind:
		b, _ := v.Bool()
		if rv.Kind() != reflect.Bool {
			return fmt.Errorf("cml: cannot unmarshal bool into Go value of type %s", rv.Type())
		}
		rv.SetBool(b)
		return nil
	case ast.ListKind:
		items, _ := v.List()
		if err := ds.enter(); err != nil {
			return err
		}
		defer ds.leave()
		switch rv.Kind() {
		case reflect.Slice:
			return ds.mapSlice(items, rv)
		case reflect.Array:
			return ds.mapArray(items, rv)
		default:
			return fmt.Errorf("cml: cannot unmarshal list into Go value of type %s", rv.Type())
		}
	case ast.MappingKind:
		m, _ := v.Mapping()
		if err := ds.enter(); err != nil {
			return err
		}
		defer ds.leave()
		switch rv.Kind() {
		case reflect.Struct:
			return ds.mapStruct(m, rv, header)
		case reflect.Map:
			return ds.mapMap(m, rv)
		default:
			return fmt.Errorf("cml: cannot unmarshal mapping into Go value of type %s", rv.Type())
		}
	default:
		return fmt.Errorf("cml: unknown value kind %s", v.Kind())
	}
}

// enter accounts for one level of list or mapping nesting. Scalars and the
// re-entry through mapInterface do not count.
func (ds *decodeState) enter() error {
	ds.depth--
	if ds.depth < 0 {
		ds.depth++
		return fmt.Errorf("cml: reached max recursion depth")
	}
	return nil
}

func (ds *decodeState) leave() { ds.depth++ }

// tryCustomUnmarshal attempts to use a custom unmarshaler (cml.Unmarshaler or
// encoding.TextUnmarshaler) on the given reflect.Value. It returns true if a
// custom unmarshaler was found and used, in which case the caller should not
// proceed with default unmarshaling.
func (ds *decodeState) tryCustomUnmarshal(v ast.Value, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		if err := u.UnmarshalCML(v); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		s, isText := v.Text()
		if !isText {
			// TextUnmarshaler can only be used on text values.
			return false, nil
		}
		if err := u.UnmarshalText([]byte(s)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) mapNumber(n float64, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 || rv.OverflowInt(int64(n)) {
			return fmt.Errorf("cml: number %v does not fit Go value of type %s", n, rv.Type())
		}
		rv.SetInt(int64(n))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n != math.Trunc(n) || n < 0 || n >= math.MaxUint64 || rv.OverflowUint(uint64(n)) {
			return fmt.Errorf("cml: number %v does not fit Go value of type %s", n, rv.Type())
		}
		rv.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		if rv.OverflowFloat(n) {
			return fmt.Errorf("cml: number %v overflows Go value of type %s", n, rv.Type())
		}
		rv.SetFloat(n)
		return nil
	default:
		return fmt.Errorf("cml: cannot unmarshal number into Go value of type %s", rv.Type())
	}
}

func (ds *decodeState) mapSlice(items []ast.Value, rv reflect.Value) error {
	newSlice := reflect.MakeSlice(rv.Type(), len(items), len(items))
	for i, el := range items {
		if err := ds.mapValue(el, newSlice.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapArray(items []ast.Value, rv reflect.Value) error {
	if rv.Len() != len(items) {
		return fmt.Errorf("cml: cannot unmarshal list of length %d into Go array of length %d", len(items), rv.Len())
	}
	for i, el := range items {
		if err := ds.mapValue(el, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) mapMap(m *ast.Mapping, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("cml: cannot unmarshal mapping into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(mapType, m.Len()))
	} else {
		rv.Clear()
	}
	elemType := mapType.Elem()
	for k, v := range m.All() {
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(v, newVal); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(k).Convert(mapType.Key()), newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(m *ast.Mapping, rv reflect.Value, header *ast.Header) error {
	fields := mapper.Cached(rv.Type())

	if header != nil {
		for _, f := range fields.List {
			if isHeaderField(f) {
				rv.FieldByIndex(f.Index).Set(reflect.ValueOf(*header))
			}
		}
	}

	for k, v := range m.All() {
		f, ok := fields.Lookup(k)
		if !ok || (header != nil && isHeaderField(f)) {
			continue
		}
		fieldVal, err := rv.FieldByIndexErr(f.Index)
		if err != nil || !fieldVal.CanSet() {
			continue
		}
		if err := ds.mapValue(v, fieldVal); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) mapInterface(v ast.Value, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return fmt.Errorf("cml: cannot unmarshal into non-empty interface %s", rv.Type())
	}
	var concreteVal reflect.Value
	switch v.Kind() {
	case ast.TextKind:
		var s string
		concreteVal = reflect.ValueOf(&s).Elem()
	case ast.NumberKind:
		var f float64
		concreteVal = reflect.ValueOf(&f).Elem()
	case ast.BoolKind:
		var b bool
		concreteVal = reflect.ValueOf(&b).Elem()
	case ast.ListKind:
		var a []any
		concreteVal = reflect.ValueOf(&a).Elem()
	case ast.MappingKind:
		var o map[string]any
		concreteVal = reflect.ValueOf(&o).Elem()
	default:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	if err := ds.mapValue(v, concreteVal); err != nil {
		return err
	}
	rv.Set(concreteVal)
	return nil
}
