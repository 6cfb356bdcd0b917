// Package mapper caches the `cml` struct tag layout of Go types for the
// reflection-based encoder and decoder.
package mapper

import (
	"reflect"
	"strings"
	"sync"
)

// Field is a single exported struct field that takes part in mapping.
type Field struct {
	Name      string // key used in the document
	Index     []int  // index sequence for reflect.Value.FieldByIndex
	Type      reflect.Type
	OmitEmpty bool
	Tagged    bool // the name comes from a `cml` tag
}

// Fields is the cached field layout of one struct type.
type Fields struct {
	// List holds the fields in declaration order, embedded fields inlined.
	List   []Field
	byName map[string]int
	byFold map[string]int
}

// Lookup finds the field for a document key. It first attempts a
// case-sensitive match, then falls back to a case-insensitive one.
func (fs *Fields) Lookup(key string) (Field, bool) {
	if i, ok := fs.byName[key]; ok {
		return fs.List[i], true
	}
	if i, ok := fs.byFold[strings.ToLower(key)]; ok {
		return fs.List[i], true
	}
	return Field{}, false
}

// fieldCache caches a *Fields for each struct type.
var fieldCache sync.Map // map[reflect.Type]*Fields

// Cached returns the field layout of struct type t. The result is cached to
// avoid repeated reflection work. Unexported fields and fields tagged
// `cml:"-"` are skipped; embedded structs without a tag name are inlined.
func Cached(t reflect.Type) *Fields {
	if f, ok := fieldCache.Load(t); ok {
		return f.(*Fields)
	}

	fs := &Fields{byName: make(map[string]int), byFold: make(map[string]int)}
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			tag := sf.Tag.Get("cml")
			if tag == "-" {
				continue
			}
			name, opts, _ := strings.Cut(tag, ",")
			index := append(append([]int(nil), idx...), i)

			if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
				walk(sf.Type, index)
				continue
			}
			if !sf.IsExported() {
				continue
			}

			f := Field{Name: name, Index: index, Type: sf.Type, Tagged: name != ""}
			if f.Name == "" {
				f.Name = sf.Name
			}
			for opts != "" {
				var opt string
				opt, opts, _ = strings.Cut(opts, ",")
				if strings.TrimSpace(opt) == "omitempty" {
					f.OmitEmpty = true
				}
			}
			// The first field registered under a name wins.
			if _, dup := fs.byName[f.Name]; dup {
				continue
			}

			fs.byName[f.Name] = len(fs.List)
			if _, ok := fs.byFold[strings.ToLower(f.Name)]; !ok {
				fs.byFold[strings.ToLower(f.Name)] = len(fs.List)
			}
			fs.List = append(fs.List, f)
		}
	}
	walk(t, nil)

	actual, _ := fieldCache.LoadOrStore(t, fs)
	return actual.(*Fields)
}
