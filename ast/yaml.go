package ast

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler. Mapping order is preserved.
func (v Value) MarshalYAML() (any, error) {
	return v.yamlNode(), nil
}

// MarshalYAML implements yaml.Marshaler. Entries keep their insertion order.
func (m *Mapping) MarshalYAML() (any, error) {
	return m.yamlNode(), nil
}

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case BoolKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case NumberKind:
		return numberNode(v.n)
	case TextKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case ListKind:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, el := range v.list {
			n.Content = append(n.Content, el.yamlNode())
		}
		return n
	case MappingKind:
		return v.m.yamlNode()
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func (m *Mapping) yamlNode() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			v.yamlNode(),
		)
	}
	return n
}

func numberNode(f float64) *yaml.Node {
	switch {
	case math.IsNaN(f):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".nan"}
	case math.IsInf(f, 1):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".inf"}
	case math.IsInf(f, -1):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: "-.inf"}
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatFloat(f, 'f', -1, 64)}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(f, 'g', -1, 64)}
}

// UnmarshalYAML implements yaml.Unmarshaler. Integers and floats both become
// Number; every scalar that does not resolve to null, bool or a number
// becomes Text.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	out, err := fromYAML(node)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. The node must be a mapping.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	v, err := fromYAML(node)
	if err != nil {
		return err
	}
	src, ok := v.Mapping()
	if !ok {
		return fmt.Errorf("cml: cannot unmarshal YAML %s into mapping", v.Kind())
	}
	*m = *src
	return nil
}

func fromYAML(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(node.Content[0])
	case yaml.AliasNode:
		return fromYAML(node.Alias)
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, c := range node.Content {
			el, err := fromYAML(c)
			if err != nil {
				return Null(), err
			}
			items = append(items, el)
		}
		return Value{kind: ListKind, list: items}, nil
	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(node.Content); i += 2 {
			val, err := fromYAML(node.Content[i+1])
			if err != nil {
				return Null(), err
			}
			m.Set(node.Content[i].Value, val)
		}
		return Map(m), nil
	}
	return Null(), fmt.Errorf("cml: unsupported YAML node kind %d at line %d", node.Kind, node.Line)
}

func scalarFromYAML(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Null(), err
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Null(), err
		}
		return Number(f), nil
	}
	return Text(node.Value), nil
}
