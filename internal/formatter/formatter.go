// Package formatter writes a Document as CML text. It is a pure traversal of
// the value tree and never re-scans its own output.
package formatter

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-cml/ast"
)

const (
	defaultIndent = 2
	whitespace    = " \t\r\n\v\f"
)

// Config controls the layout of the output.
type Config struct {
	// Indent is the number of spaces per nesting level. Nil selects 2.
	Indent *int
	// QuoteListPrimitives renders numbers, booleans and null inside lists as
	// quoted text, as older writers did. Such values read back as Text.
	QuoteListPrimitives bool
}

// Formatter writes CML to an output stream.
type Formatter struct {
	w      io.Writer
	indent string
	depth  int
	quote  bool
}

// New returns a new formatter that writes to w.
func New(w io.Writer, cfg Config) *Formatter {
	spaces := defaultIndent
	if cfg.Indent != nil {
		spaces = *cfg.Indent
	}
	var indentStr string
	if spaces > 0 {
		indentStr = strings.Repeat(" ", spaces)
	}
	return &Formatter{w: w, indent: indentStr, quote: cfg.QuoteListPrimitives}
}

// Format writes doc. The only possible errors are those of the underlying
// writer.
func (f *Formatter) Format(doc *ast.Document) error {
	if err := f.writeHeader(doc.Header); err != nil {
		return err
	}
	if err := f.writeBody(doc.Body); err != nil {
		return err
	}
	return f.write("}\n")
}

func (f *Formatter) write(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *Formatter) writeIndent() error {
	if f.indent == "" {
		return nil
	}
	for i := 0; i < f.depth; i++ {
		if err := f.write(f.indent); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) writeHeader(h ast.Header) error {
	fields := []string{
		h.Timestamp,
		h.Kind,
		strings.Join(h.Participants, ","),
		h.Location,
		strings.Join(h.Tags, ","),
	}
	return f.write("[" + strings.Join(fields, "|") + "]{\n")
}

func (f *Formatter) writeBody(m *ast.Mapping) error {
	for k, v := range m.All() {
		if err := f.writeIndent(); err != nil {
			return err
		}
		if err := f.write(k + ":"); err != nil {
			return err
		}
		if v.Kind() == ast.MappingKind && v.Len() > 0 {
			if err := f.write(" "); err != nil {
				return err
			}
		}
		if err := f.writeValue(v); err != nil {
			return err
		}
		if err := f.write(";\n"); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) writeValue(v ast.Value) error {
	switch v.Kind() {
	case ast.TextKind:
		s, _ := v.Text()
		if bare(s) {
			return f.write(s)
		}
		return f.write(Quote(s))
	case ast.NumberKind:
		n, _ := v.Number()
		return f.write(formatNumber(n))
	case ast.BoolKind:
		b, _ := v.Bool()
		return f.write(strconv.FormatBool(b))
	case ast.ListKind:
		items, _ := v.List()
		return f.writeList(items)
	case ast.MappingKind:
		m, _ := v.Mapping()
		return f.writeMapping(m)
	default:
		return f.write("null")
	}
}

func (f *Formatter) writeList(items []ast.Value) error {
	if len(items) == 0 {
		return f.write("[]")
	}
	if err := f.write("[\n"); err != nil {
		return err
	}
	f.depth++
	for i, el := range items {
		if err := f.writeIndent(); err != nil {
			return err
		}
		if err := f.writeElement(el); err != nil {
			return err
		}
		if i < len(items)-1 {
			if err := f.write(","); err != nil {
				return err
			}
		}
		if err := f.write("\n"); err != nil {
			return err
		}
	}
	f.depth--
	if err := f.writeIndent(); err != nil {
		return err
	}
	return f.write("]")
}

func (f *Formatter) writeElement(el ast.Value) error {
	if !f.quote {
		return f.writeValue(el)
	}
	switch el.Kind() {
	case ast.NumberKind, ast.BoolKind, ast.NullKind:
		return f.write(Quote(el.String()))
	}
	return f.writeValue(el)
}

func (f *Formatter) writeMapping(m *ast.Mapping) error {
	if m.Len() == 0 {
		return f.write("{}")
	}
	if err := f.write("{\n"); err != nil {
		return err
	}
	f.depth++
	if err := f.writeBody(m); err != nil {
		return err
	}
	f.depth--
	if err := f.writeIndent(); err != nil {
		return err
	}
	return f.write("}")
}

// Quote renders s as a double-quoted CML string. Only the delimiter is
// escaped; every other character, backslashes included, is written as is, so
// a backslash before the closing quote escapes it on the way back in.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// bare reports whether s is written without quotes. This is only done for
// text ending in a backslash, which would otherwise escape the closing quote,
// and only when the unquoted form reads back as the same Text.
func bare(s string) bool {
	if !strings.HasSuffix(s, `\`) || strings.Trim(s, whitespace) != s {
		return false
	}
	return !strings.ContainsAny(s, "\"'[]{};,")
}

// formatNumber writes n without an exponent so it reads back as a Number.
// Non-finite values cannot be expressed and are written as quoted text.
func formatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Quote(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
