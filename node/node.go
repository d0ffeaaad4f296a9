package node

import (
	"strconv"

	"github.com/erraggy/refparser/internal/pathutil"
)

// Kind identifies the variant held by a Node.
type Kind uint8

// Node kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	KindReference
	KindBinary
	KindCircular
)

var kindNames = [...]string{
	KindNull:      "null",
	KindBool:      "bool",
	KindNumber:    "number",
	KindString:    "string",
	KindSequence:  "sequence",
	KindMapping:   "mapping",
	KindReference: "reference",
	KindBinary:    "binary",
	KindCircular:  "circular",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// RefKey is the member name that marks a JSON Reference object.
const RefKey = pathutil.RefKey

// Node is one value in a document tree.
//
// Only the fields relevant to Kind are meaningful. Mapping members (and the
// sibling members of a reference) are accessed through Get, Set and Keys so
// that key order is kept.
type Node struct {
	Kind Kind

	// Bool holds the value of a KindBool node.
	Bool bool
	// Text holds the value of a KindString node, or the literal of a
	// KindNumber node as written in the source document.
	Text string
	// Bytes holds the payload of a KindBinary node.
	Bytes []byte
	// Ref holds the raw $ref string of a KindReference node.
	Ref string
	// Path is the JSON Pointer, within the dereferenced output, of the value a
	// KindCircular node loops back to.
	Path string
	// Target is the value a KindCircular node loops back to. It is nil when
	// the cycle consists only of references and has no concrete value.
	Target *Node

	items []*Node
	keys  []string
	index map[string]*Node
}

// NewNull returns a null node.
func NewNull() *Node { return &Node{Kind: KindNull} }

// NewBool returns a boolean node.
func NewBool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// NewNumber returns a number node holding the literal lit (e.g. "42", "1.5e3").
func NewNumber(lit string) *Node { return &Node{Kind: KindNumber, Text: lit} }

// NewInt returns a number node for an integer.
func NewInt(i int64) *Node { return NewNumber(strconv.FormatInt(i, 10)) }

// NewString returns a string node.
func NewString(s string) *Node { return &Node{Kind: KindString, Text: s} }

// NewBinary returns an opaque binary node.
func NewBinary(b []byte) *Node { return &Node{Kind: KindBinary, Bytes: b} }

// NewSequence returns a sequence node holding items.
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: KindSequence, items: items}
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{Kind: KindMapping, index: map[string]*Node{}}
}

// NewReference returns a reference node for ref with no siblings.
func NewReference(ref string) *Node {
	return &Node{Kind: KindReference, Ref: ref, index: map[string]*Node{}}
}

// NewCircular returns a placeholder for a value that loops back to target,
// located at path in the dereferenced output.
func NewCircular(path string, target *Node) *Node {
	return &Node{Kind: KindCircular, Path: path, Target: target}
}

// IsReference reports whether n is a reference node.
func (n *Node) IsReference() bool { return n != nil && n.Kind == KindReference }

// IsContainer reports whether n is a sequence or mapping.
func (n *Node) IsContainer() bool {
	return n != nil && (n.Kind == KindSequence || n.Kind == KindMapping)
}

func (n *Node) hasMembers() bool {
	return n.Kind == KindMapping || n.Kind == KindReference
}

// Len returns the number of members of a mapping or reference (siblings), the
// number of items of a sequence, and 0 otherwise.
func (n *Node) Len() int {
	switch {
	case n == nil:
		return 0
	case n.Kind == KindSequence:
		return len(n.items)
	case n.hasMembers():
		return len(n.keys)
	}
	return 0
}

// Keys returns member names in document order. The slice must not be modified.
func (n *Node) Keys() []string {
	if n == nil || !n.hasMembers() {
		return nil
	}
	return n.keys
}

// Get returns the member named key.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || !n.hasMembers() {
		return nil, false
	}
	v, ok := n.index[key]
	return v, ok
}

// Set adds or replaces the member named key. New keys are appended, existing
// keys keep their position. Set panics if n is not a mapping or reference.
func (n *Node) Set(key string, v *Node) {
	if !n.hasMembers() {
		panic("node: Set on " + n.Kind.String())
	}
	if n.index == nil {
		n.index = map[string]*Node{}
	}
	if _, ok := n.index[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.index[key] = v
}

// Delete removes the member named key, reporting whether it was present.
func (n *Node) Delete(key string) bool {
	if n == nil || !n.hasMembers() {
		return false
	}
	if _, ok := n.index[key]; !ok {
		return false
	}
	delete(n.index, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return true
}

// Items returns the items of a sequence. The slice must not be modified.
func (n *Node) Items() []*Node {
	if n == nil || n.Kind != KindSequence {
		return nil
	}
	return n.items
}

// Index returns the i-th item of a sequence.
func (n *Node) Index(i int) (*Node, bool) {
	if n == nil || n.Kind != KindSequence || i < 0 || i >= len(n.items) {
		return nil, false
	}
	return n.items[i], true
}

// Append adds items to a sequence. Append panics if n is not a sequence.
func (n *Node) Append(items ...*Node) {
	if n.Kind != KindSequence {
		panic("node: Append on " + n.Kind.String())
	}
	n.items = append(n.items, items...)
}

// SetIndex replaces the i-th item of a sequence.
func (n *Node) SetIndex(i int, v *Node) {
	if n.Kind != KindSequence {
		panic("node: SetIndex on " + n.Kind.String())
	}
	n.items[i] = v
}

// HasSiblings reports whether a reference node carries members besides $ref.
func (n *Node) HasSiblings() bool {
	return n.IsReference() && len(n.keys) > 0
}

// Child returns the member or item addressed by a single unescaped JSON
// Pointer token. Sequence tokens must be canonical decimal indices.
func (n *Node) Child(token string) (*Node, bool) {
	switch {
	case n == nil:
		return nil, false
	case n.Kind == KindSequence:
		i, ok := ParseIndex(token)
		if !ok {
			return nil, false
		}
		return n.Index(i)
	case n.Kind == KindMapping:
		return n.Get(token)
	}
	return nil, false
}

// ParseIndex parses a JSON Pointer array index: decimal digits with no
// leading zeros. "-" is not accepted.
func ParseIndex(token string) (int, bool) {
	if token == "" || (len(token) > 1 && token[0] == '0') {
		return 0, false
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return i, true
}
