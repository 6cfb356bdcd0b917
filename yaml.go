package cml

import (
	"bytes"
	"fmt"

	"github.com/KimNorgaard/go-cml/ast"
	"gopkg.in/yaml.v3"
)

// yamlDocument is the YAML layout of a Document.
type yamlDocument struct {
	Header ast.Header   `yaml:"header"`
	Body   *ast.Mapping `yaml:"body"`
}

// ToYAML renders doc as a YAML document with a header and a body section.
// Body entries keep their document order.
func ToYAML(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("cml: ToYAML(nil document)")
	}
	body := doc.Body
	if body == nil {
		body = ast.NewMapping()
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlDocument{Header: doc.Header, Body: body}); err != nil {
		return nil, fmt.Errorf("cml: encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("cml: encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML builds a Document from the layout written by ToYAML. Integers and
// floats become Number; other scalars that are not null or a bool become
// Text. The result is subject to the MaxDepth option like parsed input.
func FromYAML(data []byte, opts ...Option) (*Document, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	var yd yamlDocument
	if err := yaml.Unmarshal(data, &yd); err != nil {
		return nil, fmt.Errorf("cml: decoding YAML: %w", err)
	}
	if yd.Body == nil {
		yd.Body = ast.NewMapping()
	}
	if d := mappingDepth(yd.Body); d > o.maxDepth {
		return nil, fmt.Errorf("%w: YAML body nests %d levels, limit is %d", ErrMaxDepthExceeded, d, o.maxDepth)
	}
	return &Document{Header: yd.Header, Body: yd.Body}, nil
}

// mappingDepth returns the deepest container nesting below m, the body
// itself counting as zero.
func mappingDepth(m *ast.Mapping) int {
	deepest := 0
	for _, v := range m.All() {
		deepest = max(deepest, valueDepth(v))
	}
	return deepest
}

func valueDepth(v ast.Value) int {
	switch v.Kind() {
	case ast.ListKind:
		items, _ := v.List()
		deepest := 0
		for _, el := range items {
			deepest = max(deepest, valueDepth(el))
		}
		return deepest + 1
	case ast.MappingKind:
		m, _ := v.Mapping()
		return mappingDepth(m) + 1
	}
	return 0
}
