// Package parser builds a Document from CML source: it reads the header,
// extracts the body, and recursively classifies every raw value fragment
// the scanner produces.
package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-cml/ast"
	cmlerrors "github.com/KimNorgaard/go-cml/errors"
	"github.com/KimNorgaard/go-cml/internal/scanner"
)

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 64

var numberRe = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Parser holds the state of the parser.
type Parser struct {
	src      string
	maxDepth int
}

// New creates a parser over src. A non-positive maxDepth selects
// DefaultMaxDepth.
func New(src string, maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{src: src, maxDepth: maxDepth}
}

// Parse parses the whole document. On failure it returns a
// *errors.ParseError with its line and column set, and no document.
func (p *Parser) Parse() (*ast.Document, error) {
	doc, err := p.parse()
	if err != nil {
		var perr *cmlerrors.ParseError
		if errors.As(err, &perr) {
			perr.Locate(p.src)
		}
		return nil, err
	}
	return doc, nil
}

func (p *Parser) parse() (*ast.Document, error) {
	header, start, err := ParseHeader(p.src)
	if err != nil {
		return nil, err
	}
	body, err := ExtractBody(p.src, start)
	if err != nil {
		return nil, err
	}
	m, err := p.parseMapping(body, start, 0)
	if err != nil {
		return nil, err
	}
	return &ast.Document{Header: header, Body: m, Source: p.src}, nil
}

// parseMapping parses the interior of a mapping found at nesting depth
// depth. off is the byte offset of src in the full source.
func (p *Parser) parseMapping(src string, off, depth int) (*ast.Mapping, error) {
	stmts, err := scanner.New(src, off, p.maxDepth-depth).Statements()
	if err != nil {
		return nil, err
	}
	m := ast.NewMapping()
	for _, st := range stmts {
		v, err := p.parseValue(st.Value, st.Offset, depth)
		if err != nil {
			return nil, err
		}
		m.Set(st.Key, v)
	}
	return m, nil
}

func (p *Parser) parseList(src string, off, depth int) (ast.Value, error) {
	elems, err := scanner.New(src, off, p.maxDepth-depth).Elements()
	if err != nil {
		return ast.Null(), err
	}
	items := make([]ast.Value, 0, len(elems))
	for _, el := range elems {
		v, err := p.parseValue(el.Raw, el.Offset, depth)
		if err != nil {
			return ast.Null(), err
		}
		items = append(items, v)
	}
	return ast.List(items...), nil
}

// parseValue classifies a trimmed, non-empty raw fragment. depth is the
// nesting depth of the container holding the fragment.
func (p *Parser) parseValue(raw string, off, depth int) (ast.Value, error) {
	last := len(raw) - 1
	switch {
	case scanner.ClosingQuote(raw) == last && last > 0:
		q := raw[:1]
		return ast.Text(strings.ReplaceAll(raw[1:last], `\`+q, q)), nil

	case (raw[0] == '[' || raw[0] == '{') && scanner.ClosingBracket(raw) == last:
		if depth+1 > p.maxDepth {
			return ast.Null(), cmlerrors.New(cmlerrors.MaxDepthExceeded, off,
				"nesting exceeds the maximum depth of %d", p.maxDepth)
		}
		if raw[0] == '[' {
			return p.parseList(raw[1:last], off+1, depth+1)
		}
		m, err := p.parseMapping(raw[1:last], off+1, depth+1)
		if err != nil {
			return ast.Null(), err
		}
		return ast.Map(m), nil

	case numberRe.MatchString(raw):
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return ast.Number(f), nil
		}

	case raw == "true":
		return ast.Bool(true), nil
	case raw == "false":
		return ast.Bool(false), nil
	case raw == "null":
		return ast.Null(), nil
	}
	return ast.Text(raw), nil
}
