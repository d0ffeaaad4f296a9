package node

import "bytes"

// Clone returns a deep copy of n.
//
// Shared subtrees stay shared in the copy, and the Target of a circular
// placeholder is remapped to its copy when it lies inside n.
func (n *Node) Clone() *Node {
	return n.cloneWith(map[*Node]*Node{})
}

func (n *Node) cloneWith(seen map[*Node]*Node) *Node {
	if n == nil {
		return nil
	}
	if c, ok := seen[n]; ok {
		return c
	}
	c := &Node{
		Kind: n.Kind,
		Bool: n.Bool,
		Text: n.Text,
		Ref:  n.Ref,
		Path: n.Path,
	}
	seen[n] = c
	switch n.Kind {
	case KindBinary:
		c.Bytes = bytes.Clone(n.Bytes)
	case KindCircular:
		c.Target = n.Target
		if t, ok := seen[n.Target]; ok {
			c.Target = t
		}
	case KindSequence:
		c.items = make([]*Node, len(n.items))
		for i, item := range n.items {
			c.items[i] = item.cloneWith(seen)
		}
	case KindMapping, KindReference:
		c.keys = make([]string, len(n.keys))
		copy(c.keys, n.keys)
		c.index = make(map[string]*Node, len(n.index))
		for _, k := range n.keys {
			c.index[k] = n.index[k].cloneWith(seen)
		}
	}
	return c
}

// Equal reports whether a and b are structurally equal. Mapping key order is
// ignored, numbers compare by literal, and circular placeholders compare by
// Path without following Target.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber, KindString:
		return a.Text == b.Text
	case KindBinary:
		return bytes.Equal(a.Bytes, b.Bytes)
	case KindCircular:
		return a.Path == b.Path
	case KindSequence:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindReference:
		if a.Ref != b.Ref {
			return false
		}
		return equalMembers(a, b)
	case KindMapping:
		return equalMembers(a, b)
	}
	return false
}

func equalMembers(a, b *Node) bool {
	if len(a.keys) != len(b.keys) {
		return false
	}
	for _, k := range a.keys {
		bv, ok := b.index[k]
		if !ok || !Equal(a.index[k], bv) {
			return false
		}
	}
	return true
}
