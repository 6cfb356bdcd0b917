package mapper_test

import (
	"reflect"
	"testing"

	"github.com/KimNorgaard/go-cml/internal/mapper"
	"github.com/stretchr/testify/require"
)

type base struct {
	ID   string `cml:"id"`
	Name string
}

type record struct {
	Name string `cml:"name"`
	base
	Count   int    `cml:"count,omitempty"`
	Skip    string `cml:"-"`
	Dup     string `cml:"id"`
	private int
}

func TestCached_Layout(t *testing.T) {
	fs := mapper.Cached(reflect.TypeFor[record]())

	var names []string
	for _, f := range fs.List {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"name", "id", "Name", "count"}, names)

	count, ok := fs.Lookup("count")
	require.True(t, ok)
	require.True(t, count.OmitEmpty)
	require.Equal(t, []int{2}, count.Index)

	id, ok := fs.Lookup("id")
	require.True(t, ok)
	require.Equal(t, []int{1, 0}, id.Index, "the embedded field registered first wins")

	require.True(t, id.Tagged)
	name, ok := fs.Lookup("Name")
	require.True(t, ok)
	require.False(t, name.Tagged)

	_, ok = fs.Lookup("Skip")
	require.False(t, ok)
	_, ok = fs.Lookup("private")
	require.False(t, ok)
}

func TestCached_Lookup(t *testing.T) {
	fs := mapper.Cached(reflect.TypeFor[record]())

	tests := []struct {
		key   string
		index []int
	}{
		{"name", []int{0}},
		{"Name", []int{1, 1}},
		{"NAME", []int{0}},
		{"Count", []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f, ok := fs.Lookup(tt.key)
			require.True(t, ok)
			require.Equal(t, tt.index, f.Index)
		})
	}
}

func TestCached_ReturnsSameLayout(t *testing.T) {
	typ := reflect.TypeFor[record]()
	require.Same(t, mapper.Cached(typ), mapper.Cached(typ))
}
