package cml

import (
	"fmt"

	"github.com/KimNorgaard/go-cml/internal/parser"
)

// Option configures parsing, formatting and decoding.
type Option func(*options) error

type options struct {
	maxDepth            int
	indent              *int
	quoteListPrimitives bool
}

const defaultMaxDepth = parser.DefaultMaxDepth

func newOptions(opts []Option) (*options, error) {
	o := &options{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// MaxDepth returns an Option that sets the maximum nesting depth of lists and
// mappings. Deeper input fails with ErrMaxDepthExceeded instead of recursing
// further. The default is 64.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("cml: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// Indent returns an Option that sets the number of spaces per nesting level
// when formatting. Zero disables indentation; line breaks are kept.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("cml: indent spaces cannot be negative")
		}
		o.indent = &n
		return nil
	}
}

// QuoteListPrimitives returns an Option that makes the formatter write
// numbers, booleans and null inside lists as quoted text. This matches older
// writers; such elements read back as Text. By default list elements keep
// their kind.
func QuoteListPrimitives() Option {
	return func(o *options) error {
		o.quoteListPrimitives = true
		return nil
	}
}
