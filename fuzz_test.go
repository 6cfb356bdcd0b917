package cml_test

import (
	"strings"
	"testing"

	cml "github.com/KimNorgaard/go-cml"
	"github.com/KimNorgaard/go-cml/ast"
	"github.com/KimNorgaard/go-cml/internal/testutil"
	"github.com/stretchr/testify/require"
)

// unwritable reports whether some text below m cannot be written back
// losslessly: a backslash right before a double quote, or a trailing
// backslash on text that must stay quoted.
func unwritable(m *ast.Mapping) bool {
	for _, v := range m.All() {
		if valueUnwritable(v) {
			return true
		}
	}
	return false
}

func valueUnwritable(v ast.Value) bool {
	switch v.Kind() {
	case ast.TextKind:
		s, _ := v.Text()
		if strings.Contains(s, `\"`) {
			return true
		}
		return strings.HasSuffix(s, `\`) &&
			(strings.Trim(s, " \t\r\n\v\f") != s || strings.ContainsAny(s, "\"'[]{};,"))
	case ast.ListKind:
		items, _ := v.List()
		for _, el := range items {
			if valueUnwritable(el) {
				return true
			}
		}
	case ast.MappingKind:
		m, _ := v.Mapping()
		return unwritable(m)
	}
	return false
}

func FuzzRoundTrip(f *testing.F) {
	// Seed the corpus with the fixtures. This gives the fuzzer good starting
	// points for valid syntax.
	files, err := testutil.Sources()
	if err != nil {
		f.Fatalf("failed to find seed files: %v", err)
	}
	for _, file := range files {
		data, err := testutil.ReadTestData(file)
		if err != nil {
			f.Fatalf("failed to read seed file %s: %v", file, err)
		}
		f.Add(data)
	}

	// Add some simple but important edge cases manually.
	f.Add([]byte("[]{}"))
	f.Add([]byte("[||||]{}"))
	f.Add([]byte(`[a]{x:"";}`))
	f.Add([]byte(`[a]{x:[[],{}];}`))
	f.Add([]byte(`[a]{x:'y';y:"z";}`))
	f.Add([]byte("[a]{n:-0;m:12345.678;}"))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Invalid input must fail cleanly; the fuzz engine catches panics.
		doc, err := cml.Parse(data)
		if err != nil {
			require.Nil(t, doc)
			return
		}
		if unwritable(doc.Body) {
			t.Skip("backslashes before quotes are not escaped by the formatter")
		}

		out, err := cml.Format(doc)
		require.NoError(t, err, "Format failed for a successfully parsed document")

		again, err := cml.Parse(out)
		require.NoError(t, err, "Parse failed on our own output:\n%s", out)
		require.True(t, doc.Equal(again), "document changed after a format/parse round trip:\n%s", out)
	})
}

func BenchmarkParse(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("[2024-01-01|event|Alice,Bob|Home|fun,memo]{\n")
	for i := 0; i < 200; i++ {
		sb.WriteString(`  entry: {title: "Hi"; count: 3; items: [1, "two", true, {x: 1}]};` + "\n")
	}
	sb.WriteString("}\n")
	data := []byte(sb.String())

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		if _, err := cml.Parse(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFormat(b *testing.B) {
	data, err := testutil.ReadTestData("meeting.cml")
	if err != nil {
		b.Fatal(err)
	}
	doc, err := cml.Parse(data)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := cml.Format(doc); err != nil {
			b.Fatal(err)
		}
	}
}
