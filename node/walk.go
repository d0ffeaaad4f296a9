package node

import (
	"errors"

	"github.com/erraggy/refparser/internal/pathutil"
)

// SkipChildren may be returned by a WalkFunc to skip the members or items of
// the node just visited.
var SkipChildren = errors.New("node: skip children")

// WalkFunc is called for every node in document order with the node's JSON
// Pointer relative to the walk root.
type WalkFunc func(pointer string, n *Node) error

// Walk visits n and its descendants depth first in document order. Sibling
// members of reference nodes are visited; reference targets and circular
// targets are not followed. Walking stops at the first error other than
// SkipChildren, which is returned.
func Walk(n *Node, fn WalkFunc) error {
	path := pathutil.Get()
	defer pathutil.Put(path)
	return walk(n, path, fn)
}

func walk(n *Node, path *pathutil.PathBuilder, fn WalkFunc) error {
	if n == nil {
		return nil
	}
	if err := fn(path.String(), n); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	switch n.Kind {
	case KindSequence:
		for i, item := range n.items {
			path.PushIndex(i)
			err := walk(item, path, fn)
			path.Pop()
			if err != nil {
				return err
			}
		}
	case KindMapping, KindReference:
		for _, k := range n.keys {
			path.Push(k)
			err := walk(n.index[k], path, fn)
			path.Pop()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// CountReferences returns the number of reference nodes under n.
func CountReferences(n *Node) int {
	count := 0
	_ = Walk(n, func(_ string, v *Node) error {
		if v.Kind == KindReference {
			count++
		}
		return nil
	})
	return count
}
