package resolver

import (
	"context"

	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/pointer"
)

// Refs answers questions about the documents in a resolved Graph without
// fetching anything new.
type Refs struct {
	graph *Graph
}

// Refs returns the query API for g.
func (g *Graph) Refs() *Refs {
	return &Refs{graph: g}
}

// Paths returns the canonical URLs of the traversed documents, root first.
func (r *Refs) Paths() []string {
	out := make([]string, len(r.graph.Documents))
	copy(out, r.graph.Documents)
	return out
}

// Values returns the parsed value of every traversed document keyed by URL.
func (r *Refs) Values() map[string]*node.Node {
	out := make(map[string]*node.Node, len(r.graph.Documents))
	for _, u := range r.graph.Documents {
		if doc, ok := r.graph.Store.Get(u); ok {
			out[u] = doc.Value
		}
	}
	return out
}

// Get resolves ref, relative to the root document, against the stored
// documents. A pointer that passes through a $ref follows it.
func (r *Refs) Get(ref string) (*node.Node, error) {
	parsed, err := pointer.Parse(ref, r.graph.Root)
	if err != nil {
		return nil, err
	}
	loc, err := resolvePointer(r.storedValue, parsed.DocumentURL(r.graph.Root), parsed.Tokens)
	if err != nil {
		return nil, err
	}
	return loc.Node, nil
}

// Exists reports whether Get would succeed for ref.
func (r *Refs) Exists(ref string) bool {
	_, err := r.Get(ref)
	return err == nil
}

// Circular reports whether dereferencing the root would meet a cycle.
func (r *Refs) Circular() bool {
	res, err := Dereference(context.Background(), r.graph.RootDocument().Value, r.graph.Root, r.graph.Store,
		DereferenceOptions{Circular: CircularIgnore})
	return err == nil && len(res.Circular) > 0
}

func (r *Refs) storedValue(u string) (*node.Node, error) {
	doc, ok := r.graph.Store.Get(u)
	if !ok {
		return nil, notStoredError(u)
	}
	return doc.Value, nil
}
