package node

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

const mergeKey = "<<"

// FromYAML converts a decoded yaml.Node tree into a node tree.
//
// Anchors and aliases are honoured: every alias of an anchor yields the same
// *Node. Merge keys ("<<") are expanded, with explicit keys taking precedence.
// Scalars are typed by their resolved YAML tag.
func FromYAML(y *yaml.Node) (*Node, error) {
	c := yamlConverter{
		done:    map[*yaml.Node]*Node{},
		pending: map[*yaml.Node]bool{},
	}
	return c.convert(y)
}

type yamlConverter struct {
	done    map[*yaml.Node]*Node
	pending map[*yaml.Node]bool
}

func (c *yamlConverter) convert(y *yaml.Node) (*Node, error) {
	if y == nil {
		return NewNull(), nil
	}
	if n, ok := c.done[y]; ok {
		return n, nil
	}
	if c.pending[y] {
		return nil, fmt.Errorf("node: line %d: recursive alias", y.Line)
	}
	c.pending[y] = true
	defer delete(c.pending, y)

	var (
		n   *Node
		err error
	)
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			n = NewNull()
		} else {
			n, err = c.convert(y.Content[0])
		}
	case yaml.AliasNode:
		n, err = c.convert(y.Alias)
	case yaml.ScalarNode:
		n, err = scalarFromYAML(y)
	case yaml.SequenceNode:
		n = NewSequence()
		n.items = make([]*Node, 0, len(y.Content))
		for _, item := range y.Content {
			child, cerr := c.convert(item)
			if cerr != nil {
				return nil, cerr
			}
			n.items = append(n.items, child)
		}
	case yaml.MappingNode:
		n, err = c.mapping(y)
	default:
		err = fmt.Errorf("node: line %d: unsupported yaml node kind %v", y.Line, y.Kind)
	}
	if err != nil {
		return nil, err
	}
	c.done[y] = n
	return n, nil
}

func (c *yamlConverter) mapping(y *yaml.Node) (*Node, error) {
	m := NewMapping()
	var merges []*yaml.Node
	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		key, err := yamlKey(k)
		if err != nil {
			return nil, err
		}
		if key == mergeKey && k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		child, err := c.convert(v)
		if err != nil {
			return nil, err
		}
		m.Set(key, child)
	}
	for _, src := range merges {
		if err := c.merge(m, src); err != nil {
			return nil, err
		}
	}
	return m.MarkReference(), nil
}

// merge copies members of src (a mapping, an alias to one, or a sequence of
// those) into m without overriding keys m already has.
func (c *yamlConverter) merge(m *Node, src *yaml.Node) error {
	if src.Kind == yaml.SequenceNode {
		for _, item := range src.Content {
			if err := c.merge(m, item); err != nil {
				return err
			}
		}
		return nil
	}
	from, err := c.convert(src)
	if err != nil {
		return err
	}
	if from.Kind != KindMapping {
		return fmt.Errorf("node: line %d: merge value must be a mapping, got %s", src.Line, from.Kind)
	}
	for _, k := range from.keys {
		if _, exists := m.index[k]; !exists {
			m.Set(k, from.index[k])
		}
	}
	return nil
}

func yamlKey(k *yaml.Node) (string, error) {
	if k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("node: line %d: mapping key must be a scalar", k.Line)
	}
	return k.Value, nil
}

func scalarFromYAML(y *yaml.Node) (*Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return NewNull(), nil
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(y.Value))
		if err != nil {
			return nil, fmt.Errorf("node: line %d: invalid bool %q", y.Line, y.Value)
		}
		return NewBool(b), nil
	case "!!int":
		return intFromYAML(y.Value), nil
	case "!!float":
		return floatFromYAML(y.Value), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(y.Value), ""))
		if err != nil {
			return nil, fmt.Errorf("node: line %d: invalid binary: %w", y.Line, err)
		}
		return NewBinary(b), nil
	}
	return NewString(y.Value), nil
}

func intFromYAML(v string) *Node {
	clean := strings.ReplaceAll(v, "_", "")
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return NewInt(i)
	}
	if b, ok := new(big.Int).SetString(clean, 0); ok {
		return NewNumber(b.String())
	}
	return NewString(v)
}

func floatFromYAML(v string) *Node {
	if json.Valid([]byte(v)) {
		return NewNumber(v)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, "_", ""), 64)
	if err != nil {
		// .inf, .nan and friends have no JSON form.
		return NewString(v)
	}
	return NewNumber(strconv.FormatFloat(f, 'g', -1, 64))
}

// ToYAML converts n into a yaml.Node tree suitable for yaml.Marshal, keeping
// mapping key order.
func (n *Node) ToYAML() *yaml.Node {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch n.Kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.Bool)}
	case KindNumber:
		tag := "!!int"
		if strings.ContainsAny(n.Text, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.Text}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Text}
	case KindBinary:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(n.Bytes)}
	case KindSequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: make([]*yaml.Node, 0, len(n.items))}
		for _, item := range n.items {
			out.Content = append(out.Content, item.ToYAML())
		}
		return out
	case KindMapping, KindReference, KindCircular:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		switch n.Kind {
		case KindReference:
			out.Content = append(out.Content, yamlString(RefKey), yamlString(n.Ref))
		case KindCircular:
			out.Content = append(out.Content, yamlString(RefKey), yamlString("#"+n.Path))
		}
		for _, k := range n.keys {
			out.Content = append(out.Content, yamlString(k), n.index[k].ToYAML())
		}
		return out
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// MarshalYAML implements yaml.Marshaler.
func (n *Node) MarshalYAML() (any, error) {
	return n.ToYAML(), nil
}
