// Package node defines the tagged document tree produced by every parser.
//
// A [Node] is decided once, at load time, to be one of a small set of kinds:
// scalars (null, bool, number, string), containers (sequence, mapping), a
// [KindReference] for JSON Reference objects, opaque [KindBinary] blobs, and
// the [KindCircular] placeholder produced when dereferencing cyclic documents.
//
// Mappings preserve document key order, so traversal and serialisation are
// deterministic:
//
//	m := node.NewMapping()
//	m.Set("b", node.NewNumber("1"))
//	m.Set("a", node.NewReference("#/b"))
//	out, _ := m.MarshalJSON() // {"b":1,"a":{"$ref":"#/b"}}
//
// A mapping whose "$ref" member is a string loads as a reference node. Its
// other members are kept, in order, as siblings and remain reachable through
// [Node.Get] and [Node.Keys].
package node
