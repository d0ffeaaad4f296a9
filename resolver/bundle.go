package resolver

import (
	"net/url"
	"strconv"

	"github.com/erraggy/refparser/internal/pathutil"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/pointer"
	"github.com/erraggy/refparser/referrors"
)

// BundleOptions configures Bundle.
type BundleOptions struct {
	// Namespace is the root member that holds external documents
	// (default: "$bundled").
	Namespace string
	// Logger receives slot assignments (default: NopLogger).
	Logger Logger
}

// Bundled is the output of Bundle.
type Bundled struct {
	// Value is the single self-contained document.
	Value *node.Node
	// Slots maps each external document URL to its slot name under the namespace.
	Slots map[string]string
	// Namespace is the root member holding the slots.
	Namespace string
}

// Bundle combines the documents of g into one document whose references are
// all internal.
//
// The root value is copied and every other traversed document is copied
// under "#/<namespace>/<slot>". Slot names come from the document file name
// and are assigned in discovery order, with "_2", "_3" suffixes on clashes.
// References are rewritten so that refs into the root become "#<pointer>",
// refs into another document become "#/<namespace>/<slot><pointer>", and
// same-document refs of the root are left as written. Cycles need no special
// handling because only strings change.
//
// Bundle fails with a *referrors.ConfigError when external documents exist
// and the root is not a mapping or already has the namespace member.
func Bundle(g *Graph, opts BundleOptions) (*Bundled, error) {
	ns := opts.Namespace
	if ns == "" {
		ns = pathutil.DefaultBundleNamespace
	}
	logger := logOrNop(opts.Logger)

	root := g.RootDocument()
	if root == nil {
		return nil, notStoredError(g.Root)
	}

	b := &bundler{
		root:      g.Root,
		namespace: ns,
		slots:     make(map[string]string),
	}
	used := make(map[string]bool)
	var external []string
	for _, u := range g.Documents {
		if u == g.Root {
			continue
		}
		slot := uniqueSlot(slotBase(u), used)
		b.slots[u] = slot
		external = append(external, u)
		logger.Debug("assigned bundle slot", "url", u, "slot", slot)
	}

	out := b.rewrite(root.Value, g.Root, make(map[*node.Node]*node.Node))
	if len(external) == 0 {
		return &Bundled{Value: out, Slots: b.slots, Namespace: ns}, nil
	}

	if out.Kind != node.KindMapping {
		return nil, &referrors.ConfigError{
			Option:  "bundle",
			Value:   out.Kind.String(),
			Message: "root document must be a mapping to hold bundled documents",
		}
	}
	if _, exists := out.Get(ns); exists {
		return nil, &referrors.ConfigError{
			Option:  "namespace",
			Value:   ns,
			Message: "root document already has a member with this name",
		}
	}

	slotsNode := node.NewMapping()
	for _, u := range external {
		doc, ok := g.Store.Get(u)
		if !ok {
			return nil, notStoredError(u)
		}
		slotsNode.Set(b.slots[u], b.rewrite(doc.Value, u, make(map[*node.Node]*node.Node)))
	}
	out.Set(ns, slotsNode)
	return &Bundled{Value: out, Slots: b.slots, Namespace: ns}, nil
}

type bundler struct {
	root      string
	namespace string
	slots     map[string]string
}

// rewrite copies n, which lives in the document at docURL, rewriting every
// $ref on the way. Shared subtrees stay shared in the copy.
func (b *bundler) rewrite(n *node.Node, docURL string, seen map[*node.Node]*node.Node) *node.Node {
	if n == nil {
		return nil
	}
	if out, ok := seen[n]; ok {
		return out
	}
	var out *node.Node
	switch n.Kind {
	case node.KindMapping, node.KindReference:
		if n.Kind == node.KindReference {
			out = node.NewReference(b.rewriteRef(n.Ref, docURL))
		} else {
			out = node.NewMapping()
		}
		seen[n] = out
		for _, k := range n.Keys() {
			child, _ := n.Get(k)
			out.Set(k, b.rewrite(child, docURL, seen))
		}
	case node.KindSequence:
		out = node.NewSequence()
		seen[n] = out
		for _, child := range n.Items() {
			out.Append(b.rewrite(child, docURL, seen))
		}
	default:
		out = n.Clone()
		seen[n] = out
	}
	return out
}

func (b *bundler) rewriteRef(raw, docURL string) string {
	ref, err := pointer.Parse(raw, docURL)
	if err != nil {
		return raw
	}
	target := ref.DocumentURL(docURL)
	switch {
	case target == b.root:
		if docURL == b.root && ref.IsLocal() {
			return raw
		}
		return pathutil.LocalRef(ref.Pointer())
	case b.slots[target] != "":
		return pathutil.BundledRef(b.namespace, b.slots[target], ref.Pointer())
	default:
		// Not traversed (LocalOnly or unresolved): keep it absolute.
		return pointer.Format(pointer.Reference{BaseURL: target, Tokens: ref.Tokens})
	}
}

func slotBase(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return pathutil.SlotName(rawURL)
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	return pathutil.SlotName(p)
}

func uniqueSlot(base string, used map[string]bool) string {
	name := base
	for i := 2; used[name]; i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	used[name] = true
	return name
}
