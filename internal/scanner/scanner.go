// Package scanner splits CML body text into statements and list interiors
// into elements. It makes a single left-to-right pass, one byte per step,
// keeping track of bracket nesting and string literals so that separators
// inside nested structures or quotes are not treated as boundaries.
package scanner

import (
	"strings"

	cmlerrors "github.com/KimNorgaard/go-cml/errors"
)

// Statement is one key:value unit found at the top level of a body.
type Statement struct {
	Key       string
	Value     string // trimmed raw value text
	KeyOffset int    // byte offset of Key in the full source
	Offset    int    // byte offset of Value in the full source
}

// Element is one comma-separated piece at the top level of a list interior.
type Element struct {
	Raw    string // trimmed raw element text
	Offset int    // byte offset of Raw in the full source
}

// opener records an open bracket and where it was seen.
type opener struct {
	ch  byte
	pos int
}

// Scanner holds the state for one pass over a fragment of CML source.
type Scanner struct {
	src      string
	base     int // offset of src[0] in the full source
	maxDepth int // deepest bracket nesting allowed inside src

	stack    []opener
	quote    byte // active string delimiter, 0 outside strings
	quotePos int
	bs       int // length of the current run of backslashes inside a string
}

// New returns a scanner over src. base is the byte offset of src within the
// full document and is only used for error positions. maxDepth bounds the
// bracket nesting that may appear inside src.
func New(src string, base, maxDepth int) *Scanner {
	return &Scanner{src: src, base: base, maxDepth: maxDepth}
}

// segment delimits one statement or element: src[start:end], with the
// key-closing colon at colon (or -1).
type segment struct {
	start, colon, end int
}

// Statements splits a body interior at top-level semicolons. The first
// top-level colon of each statement separates the key from the value.
// Statements without a key or with a blank value are dropped. The final
// statement does not need a trailing semicolon.
func (s *Scanner) Statements() ([]Statement, error) {
	var out []Statement
	err := s.run(';', true, func(seg segment) {
		if seg.colon < 0 {
			return
		}
		val, voff := trim(s.src, seg.colon+1, seg.end)
		if val == "" {
			return
		}
		key, koff := trim(s.src, seg.start, seg.colon)
		if key == "" {
			return
		}
		out = append(out, Statement{
			Key:       key,
			Value:     val,
			KeyOffset: s.base + koff,
			Offset:    s.base + voff,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Elements splits a list interior at top-level commas. Blank pieces are
// dropped, so "[]" and trailing commas yield no extra elements.
func (s *Scanner) Elements() ([]Element, error) {
	var out []Element
	err := s.run(',', false, func(seg segment) {
		raw, off := trim(s.src, seg.start, seg.end)
		if raw == "" {
			return
		}
		out = append(out, Element{Raw: raw, Offset: s.base + off})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Scanner) run(sep byte, keyed bool, emit func(segment)) error { //nolint:gocognit
	start, colon := 0, -1
	for i := 0; i < len(s.src); i++ {
		ch := s.src[i]
		if s.quote != 0 {
			switch {
			case ch == '\\':
				s.bs++
				continue
			case ch == s.quote && s.bs%2 == 0:
				s.quote = 0
			}
			s.bs = 0
			continue
		}
		switch ch {
		case '"', '\'':
			s.quote, s.quotePos, s.bs = ch, i, 0
		case '{', '[':
			s.stack = append(s.stack, opener{ch: ch, pos: i})
			if len(s.stack) > s.maxDepth {
				return cmlerrors.New(cmlerrors.MaxDepthExceeded, s.base+i,
					"nesting exceeds the maximum depth")
			}
		case '}', ']':
			if err := s.pop(ch, i); err != nil {
				return err
			}
		case ':':
			if keyed && len(s.stack) == 0 && colon < 0 {
				colon = i
			}
		case sep:
			if len(s.stack) == 0 {
				emit(segment{start: start, colon: colon, end: i})
				start, colon = i+1, -1
			}
		}
	}

	if s.quote != 0 {
		return cmlerrors.New(cmlerrors.UnterminatedString, s.base+s.quotePos,
			"string starting with %q is never closed", s.quote)
	}
	if n := len(s.stack); n > 0 {
		top := s.stack[n-1]
		return cmlerrors.New(cmlerrors.UnbalancedBrackets, s.base+top.pos,
			"%q is never closed", top.ch)
	}
	emit(segment{start: start, colon: colon, end: len(s.src)})
	return nil
}

// pop closes the innermost open bracket. The closer must match the kind of
// the opener.
func (s *Scanner) pop(ch byte, i int) error {
	n := len(s.stack)
	if n == 0 {
		return cmlerrors.New(cmlerrors.UnbalancedBrackets, s.base+i,
			"unexpected %q without matching opener", ch)
	}
	top := s.stack[n-1]
	if want := closerFor(top.ch); ch != want {
		return cmlerrors.New(cmlerrors.UnbalancedBrackets, s.base+i,
			"expected %q to close %q, got %q", want, top.ch, ch)
	}
	s.stack = s.stack[:n-1]
	return nil
}

func closerFor(ch byte) byte {
	if ch == '[' {
		return ']'
	}
	return '}'
}

// ClosingQuote returns the index of the quote that closes the string literal
// opening at s[0], or -1 if s does not start with a quote or the literal is
// never closed. A delimiter counts as escaped when it is preceded by an odd
// number of backslashes.
func ClosingQuote(s string) int {
	if s == "" || (s[0] != '"' && s[0] != '\'') {
		return -1
	}
	q, bs := s[0], 0
	for i := 1; i < len(s); i++ {
		switch {
		case s[i] == '\\':
			bs++
			continue
		case s[i] == q && bs%2 == 0:
			return i
		}
		bs = 0
	}
	return -1
}

// ClosingBracket returns the index of the bracket that closes the '[' or '{'
// at s[0], skipping over string literals, or -1 if there is none.
func ClosingBracket(s string) int {
	if s == "" || (s[0] != '[' && s[0] != '{') {
		return -1
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			end := ClosingQuote(s[i:])
			if end < 0 {
				return -1
			}
			i += end
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func trim(src string, start, end int) (string, int) {
	raw := src[start:end]
	lead := len(raw) - len(strings.TrimLeft(raw, whitespace))
	return strings.Trim(raw, whitespace), start + lead
}

const whitespace = " \t\r\n\v\f"
