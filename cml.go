package cml

import (
	"bytes"
	"fmt"
	"io"

	"github.com/KimNorgaard/go-cml/ast"
	"github.com/KimNorgaard/go-cml/internal/formatter"
	"github.com/KimNorgaard/go-cml/internal/parser"
)

// Aliases for the value tree, so that most callers only import this package.
type (
	Document = ast.Document
	Header   = ast.Header
	Value    = ast.Value
	Mapping  = ast.Mapping
)

// Parse parses CML-encoded data into a Document. Parsing is all or nothing:
// on failure no Document is returned, and the error matches one of the
// Err* variables with errors.Is.
func Parse(data []byte, opts ...Option) (*Document, error) {
	return ParseString(string(data), opts...)
}

// ParseString is like Parse but takes a string.
func ParseString(src string, opts ...Option) (*Document, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return parser.New(src, o.maxDepth).Parse()
}

// Format returns the CML encoding of doc. Formatting a valid Document cannot
// fail; an error is only returned for invalid options or a nil document.
func Format(doc *Document, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encoder writes CML documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the CML encoding of doc to the stream.
func (e *Encoder) Encode(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("cml: Encode(nil document)")
	}
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}
	f := formatter.New(e.w, formatter.Config{
		Indent:              o.indent,
		QuoteListPrimitives: o.quoteListPrimitives,
	})
	return f.Format(doc)
}

// Decoder reads CML documents from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// Note: This is a non-streaming implementation. Decode reads the entire
// reader into memory before parsing.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads all of its input and parses it as a single document.
func (d *Decoder) Decode() (*Document, error) {
	if d.r == nil {
		return nil, fmt.Errorf("cml: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return nil, err
	}
	return Parse(data, d.opts...)
}
