package formatter_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/KimNorgaard/go-cml/ast"
	"github.com/KimNorgaard/go-cml/internal/formatter"
	"github.com/stretchr/testify/require"
)

func body(pairs ...any) *ast.Mapping {
	m := ast.NewMapping()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(ast.Value))
	}
	return m
}

// Centralized test cases to be used across different indent settings.
var testCases = []struct {
	name     string
	body     *ast.Mapping
	expected string // 2 spaces
}{
	{
		name:     "Empty body",
		body:     ast.NewMapping(),
		expected: "",
	},
	{
		name:     "Scalars",
		body:     body("title", ast.Text("Hi"), "count", ast.Number(3), "ratio", ast.Number(-0.25), "ok", ast.Bool(true), "none", ast.Null()),
		expected: "title:\"Hi\";\ncount:3;\nratio:-0.25;\nok:true;\nnone:null;\n",
	},
	{
		name:     "Escaped quotes",
		body:     body("note", ast.Text(`she said "hi"`)),
		expected: "note:\"she said \\\"hi\\\"\";\n",
	},
	{
		name:     "Large number without exponent",
		body:     body("n", ast.Number(1e21)),
		expected: "n:1000000000000000000000;\n",
	},
	{
		name:     "List",
		body:     body("items", ast.List(ast.Text("a"), ast.Number(2), ast.Bool(false))),
		expected: "items:[\n  \"a\",\n  2,\n  false\n];\n",
	},
	{
		name:     "Empty list and mapping",
		body:     body("l", ast.List(), "m", ast.Map(nil)),
		expected: "l:[];\nm:{};\n",
	},
	{
		name: "Nested mapping",
		body: body("nested", ast.Map(body("x", ast.Number(1), "deeper", ast.Map(body("y", ast.Text("z")))))),
		expected: "nested: {\n  x:1;\n  deeper: {\n    y:\"z\";\n  };\n};\n",
	},
	{
		name:     "Mapping inside list",
		body:     body("l", ast.List(ast.Map(body("a", ast.Number(1))), ast.List(ast.Text("x")))),
		expected: "l:[\n  {\n    a:1;\n  },\n  [\n    \"x\"\n  ]\n];\n",
	},
}

func TestFormatter_Indentation(t *testing.T) {
	header := "[2024-01-01|event|Alice,Bob|Home|fun,memo]{\n"
	doc := func(m *ast.Mapping) *ast.Document {
		return &ast.Document{
			Header: ast.Header{
				Timestamp:    "2024-01-01",
				Kind:         "event",
				Participants: []string{"Alice", "Bob"},
				Location:     "Home",
				Tags:         []string{"fun", "memo"},
			},
			Body: m,
		}
	}

	t.Run("Default Indent (2 spaces)", func(t *testing.T) {
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var buf bytes.Buffer
				err := formatter.New(&buf, formatter.Config{}).Format(doc(tc.body))
				require.NoError(t, err)
				require.Equal(t, header+tc.expected+"}\n", buf.String())
			})
		}
	})

	t.Run("Custom Indent (4 spaces)", func(t *testing.T) {
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var buf bytes.Buffer
				four := 4
				err := formatter.New(&buf, formatter.Config{Indent: &four}).Format(doc(tc.body))
				require.NoError(t, err)
				expected := strings.ReplaceAll(tc.expected, "  ", "    ")
				require.Equal(t, header+expected+"}\n", buf.String())
			})
		}
	})

	t.Run("No indent", func(t *testing.T) {
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var buf bytes.Buffer
				zero := 0
				err := formatter.New(&buf, formatter.Config{Indent: &zero}).Format(doc(tc.body))
				require.NoError(t, err)
				expected := strings.ReplaceAll(tc.expected, "  ", "")
				require.Equal(t, header+expected+"}\n", buf.String())
			})
		}
	})
}

func TestFormatter_EmptyHeader(t *testing.T) {
	var buf bytes.Buffer
	err := formatter.New(&buf, formatter.Config{}).Format(&ast.Document{})
	require.NoError(t, err)
	require.Equal(t, "[||||]{\n}\n", buf.String())
}

func TestFormatter_QuoteListPrimitives(t *testing.T) {
	var buf bytes.Buffer
	doc := &ast.Document{Body: body("l", ast.List(ast.Number(1.5), ast.Bool(true), ast.Null(), ast.Text("x")))}
	err := formatter.New(&buf, formatter.Config{QuoteListPrimitives: true}).Format(doc)
	require.NoError(t, err)
	require.Equal(t, "[||||]{\nl:[\n  \"1.5\",\n  \"true\",\n  \"null\",\n  \"x\"\n];\n}\n", buf.String())
}

func TestFormatter_NonFiniteNumbers(t *testing.T) {
	var buf bytes.Buffer
	doc := &ast.Document{Body: body("a", ast.Number(math.NaN()), "b", ast.Number(math.Inf(-1)))}
	err := formatter.New(&buf, formatter.Config{}).Format(doc)
	require.NoError(t, err)
	require.Equal(t, "[||||]{\na:\"NaN\";\nb:\"-Inf\";\n}\n", buf.String())
}

func TestFormatter_TrailingBackslash(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"Bare path", `C:\temp\`, `path:C:\temp\;`},
		{"Leading space stays quoted", ` x\`, `path:" x\";`},
		{"Delimiter stays quoted", `a;b\`, `path:"a;b\";`},
		{"No trailing backslash", `a\b`, `path:"a\b";`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			doc := &ast.Document{Body: body("path", ast.Text(tt.text))}
			require.NoError(t, formatter.New(&buf, formatter.Config{}).Format(doc))
			require.Equal(t, "[||||]{\n"+tt.want+"\n}\n", buf.String())
		})
	}
}

func TestQuote(t *testing.T) {
	require.Equal(t, `"plain"`, formatter.Quote("plain"))
	require.Equal(t, `"a\"b"`, formatter.Quote(`a"b`))
	require.Equal(t, `"a\nb"`, formatter.Quote(`a\nb`))
	require.Equal(t, `"it's"`, formatter.Quote(`it's`))
}
