package node

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// FromAny converts a generic Go value, as produced by encoding/json or a YAML
// decoder, into a node tree. Map keys are sorted since Go maps carry no
// order. A map whose "$ref" member is a string becomes a reference node.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return NewNull(), nil
	case *Node:
		return x, nil
	case bool:
		return NewBool(x), nil
	case string:
		return NewString(x), nil
	case json.Number:
		return NewNumber(x.String()), nil
	case int:
		return NewInt(int64(x)), nil
	case int8:
		return NewInt(int64(x)), nil
	case int16:
		return NewInt(int64(x)), nil
	case int32:
		return NewInt(int64(x)), nil
	case int64:
		return NewInt(x), nil
	case uint:
		return NewNumber(strconv.FormatUint(uint64(x), 10)), nil
	case uint8:
		return NewNumber(strconv.FormatUint(uint64(x), 10)), nil
	case uint16:
		return NewNumber(strconv.FormatUint(uint64(x), 10)), nil
	case uint32:
		return NewNumber(strconv.FormatUint(uint64(x), 10)), nil
	case uint64:
		return NewNumber(strconv.FormatUint(x, 10)), nil
	case float32:
		return floatNode(float64(x), 32)
	case float64:
		return floatNode(x, 64)
	case []byte:
		return NewBinary(x), nil
	case []any:
		seq := NewSequence()
		seq.items = make([]*Node, 0, len(x))
		for i, item := range x {
			c, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("node: [%d]: %w", i, err)
			}
			seq.items = append(seq.items, c)
		}
		return seq, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := NewMapping()
		for _, k := range keys {
			c, err := FromAny(x[k])
			if err != nil {
				return nil, fmt.Errorf("node: %s: %w", k, err)
			}
			m.Set(k, c)
		}
		return m.MarkReference(), nil
	}
	return nil, fmt.Errorf("node: unsupported value type %T", v)
}

func floatNode(f float64, bits int) (*Node, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("node: unsupported number %v", f)
	}
	return NewNumber(strconv.FormatFloat(f, 'g', -1, bits)), nil
}

// MarkReference turns a mapping into a reference node, in place, when its
// "$ref" member is a string, and returns n. Loaders call it once per mapping.
func (n *Node) MarkReference() *Node {
	if n.Kind != KindMapping {
		return n
	}
	ref, ok := n.index[RefKey]
	if !ok || ref.Kind != KindString {
		return n
	}
	n.Delete(RefKey)
	n.Kind = KindReference
	n.Ref = ref.Text
	return n
}

// ToAny converts n into generic Go values: map[string]any, []any, string,
// bool, json.Number, []byte and nil. Reference and circular nodes become
// {"$ref": ...} maps. Key order is lost.
func (n *Node) ToAny() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindBool:
		return n.Bool
	case KindNumber:
		return json.Number(n.Text)
	case KindString:
		return n.Text
	case KindBinary:
		return n.Bytes
	case KindSequence:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.ToAny()
		}
		return out
	case KindMapping, KindReference:
		out := make(map[string]any, len(n.keys)+1)
		for _, k := range n.keys {
			out[k] = n.index[k].ToAny()
		}
		if n.Kind == KindReference {
			out[RefKey] = n.Ref
		}
		return out
	case KindCircular:
		return map[string]any{RefKey: "#" + n.Path}
	}
	return nil
}
