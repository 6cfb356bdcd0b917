// Package errors defines the structural error kinds reported while parsing CML.
package errors

import "fmt"

// Kind classifies a structural parse failure.
type Kind int

const (
	MissingHeader Kind = iota + 1
	MalformedHeader
	MissingBody
	UnbalancedBrackets
	UnterminatedString
	MaxDepthExceeded
)

var kindNames = map[Kind]string{
	MissingHeader:      "missing header",
	MalformedHeader:    "malformed header",
	MissingBody:        "missing body",
	UnbalancedBrackets: "unbalanced brackets",
	UnterminatedString: "unterminated string",
	MaxDepthExceeded:   "max depth exceeded",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error lets a bare Kind be used as a sentinel with errors.Is.
func (k Kind) Error() string { return "cml: " + k.String() }

// ParseError represents a single error that occurred during parsing.
// Offset is the byte offset into the source. Line and Column are 1-based and
// are filled in once the full source is known; zero means unknown.
type ParseError struct {
	Kind    Kind
	Message string
	Offset  int
	Line    int
	Column  int
}

// New returns a ParseError of kind k at the given byte offset.
func New(k Kind, offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: k, Message: fmt.Sprintf(format, args...), Offset: offset}
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("cml: %s at line %d, column %d: %s", e.Kind.String(), e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("cml: %s: %s", e.Kind.String(), e.Message)
}

// Is reports whether target is the Kind of e, so that
// errors.Is(err, errors.UnbalancedBrackets) works on wrapped errors.
func (e *ParseError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Locate fills in Line and Column from the source the offset refers to.
func (e *ParseError) Locate(src string) {
	if e.Offset < 0 || e.Offset > len(src) {
		return
	}
	line, col := 1, 1
	for i := 0; i < e.Offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	e.Line, e.Column = line, col
}
