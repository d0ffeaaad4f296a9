package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/refparser/internal/pathutil"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/pointer"
	"github.com/erraggy/refparser/referrors"
)

// DefaultConcurrency is the number of documents prefetched in parallel.
const DefaultConcurrency = 8

// Edge is one resolved $ref: the site holding it and the value it targets.
type Edge struct {
	// FromURL is the canonical URL of the document holding the $ref.
	FromURL string
	// FromPointer locates the $ref node inside that document.
	FromPointer pointer.Tokens
	// Ref is the raw $ref string.
	Ref string
	// ToURL is the canonical URL of the target document.
	ToURL string
	// ToPointer locates the target inside ToURL.
	ToPointer pointer.Tokens
}

// From returns the site as "<url>#<pointer>".
func (e Edge) From() string {
	return e.FromURL + "#" + e.FromPointer.String()
}

// To returns the target as "<url>#<pointer>".
func (e Edge) To() string {
	return e.ToURL + "#" + e.ToPointer.String()
}

// IsExternal reports whether the edge leaves its document.
func (e Edge) IsExternal() bool {
	return e.FromURL != e.ToURL
}

// Graph is the result of resolving a root document: every reachable
// document in the Store and every $ref between them.
type Graph struct {
	// Root is the canonical URL of the root document.
	Root string
	// Store holds all fetched documents.
	Store *Store
	// Documents lists the traversed documents in discovery order, root first.
	Documents []string
	// Edges lists resolved references in depth-first document order.
	Edges []Edge
	// Errors holds the failures recorded under the CollectAll policy.
	Errors []error
}

// RootDocument returns the root document.
func (g *Graph) RootDocument() *Document {
	doc, _ := g.Store.Get(g.Root)
	return doc
}

// Err returns the collected errors as a referrors.ErrorList, or nil.
func (g *Graph) Err() error {
	return referrors.ErrorList(g.Errors).Err()
}

// BuildOptions configures Build.
type BuildOptions struct {
	// OnUnresolved selects the failure policy (default: FailFast).
	OnUnresolved UnresolvedPolicy
	// Concurrency bounds parallel prefetches (default: DefaultConcurrency).
	// A value of 1 disables prefetching.
	Concurrency int
	// LocalOnly skips references to other documents. Only same-document
	// references are validated.
	LocalOnly bool
	// Logger receives traversal diagnostics (default: NopLogger).
	Logger Logger
}

// Build resolves every reference reachable from the document at rootURL.
//
// Documents are walked depth first in document order and each is traversed
// once. Whenever a document is walked, the external documents it mentions
// are prefetched in parallel, but edges are recorded in traversal order so
// the resulting Graph does not depend on fetch timing.
//
// Under FailFast the first broken reference aborts the build with a
// *referrors.ReferenceResolutionError. Under CollectAll broken references
// are recorded in Graph.Errors and the returned error is a
// referrors.ErrorList. A root that cannot be loaded is always fatal.
func Build(ctx context.Context, store *Store, rootURL string, opts BuildOptions) (*Graph, error) {
	root, err := store.GetOrFetch(ctx, rootURL)
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	b := &graphBuilder{
		store:     store,
		opts:      opts,
		logger:    logOrNop(opts.Logger),
		traversed: make(map[string]bool),
		graph:     &Graph{Root: root.URL, Store: store},
	}
	b.opts.OnUnresolved = opts.OnUnresolved.orDefault()

	var prefetchCtx context.Context
	b.prefetch, prefetchCtx = errgroup.WithContext(ctx)
	b.prefetch.SetLimit(concurrency)
	b.prefetchCtx = prefetchCtx
	b.prefetchOn = concurrency > 1

	walkErr := b.traverse(ctx, root)
	// Prefetch failures are cached in the store and surfaced by the walk.
	_ = b.prefetch.Wait()
	if walkErr != nil {
		return nil, walkErr
	}

	b.logger.Debug("resolved reference graph",
		"root", root.URL,
		"documents", len(b.graph.Documents),
		"edges", len(b.graph.Edges),
		"errors", len(b.graph.Errors),
	)
	return b.graph, b.graph.Err()
}

type graphBuilder struct {
	store     *Store
	opts      BuildOptions
	logger    Logger
	traversed map[string]bool
	graph     *Graph

	prefetch    *errgroup.Group
	prefetchCtx context.Context
	prefetchOn  bool
}

// refSite is a $ref node found while scanning a document.
type refSite struct {
	tokens pointer.Tokens
	ref    string
}

func (b *graphBuilder) traverse(ctx context.Context, doc *Document) error {
	if b.traversed[doc.URL] {
		return nil
	}
	b.traversed[doc.URL] = true
	b.graph.Documents = append(b.graph.Documents, doc.URL)

	sites := collectRefSites(doc.Value)
	b.prefetchTargets(doc.URL, sites)

	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := b.resolveSite(ctx, doc.URL, site)
		if err != nil {
			if isContextError(err) {
				return err
			}
			if b.opts.OnUnresolved == FailFast {
				return err
			}
			b.logger.Warn("unresolved reference", "error", err)
			b.graph.Errors = append(b.graph.Errors, err)
		}
		if target == nil {
			continue
		}
		if err := b.traverse(ctx, target); err != nil {
			return err
		}
	}
	return nil
}

// resolveSite validates one $ref, records its edge and returns the target
// document. It returns a nil document for skipped references. When the
// document loads but the pointer is missing inside it, the document is
// returned with the error so that it is still walked.
func (b *graphBuilder) resolveSite(ctx context.Context, docURL string, site refSite) (*Document, error) {
	wrap := func(targetURL string, cause error) error {
		return &referrors.ReferenceResolutionError{
			AtPointer: docURL + "#" + site.tokens.String(),
			Ref:       site.ref,
			TargetURL: targetURL,
			Cause:     cause,
		}
	}

	ref, err := pointer.Parse(site.ref, docURL)
	if err != nil {
		return nil, wrap("", err)
	}
	targetURL := ref.DocumentURL(docURL)
	if b.opts.LocalOnly && targetURL != docURL {
		b.logger.Debug("skipping external reference", "ref", site.ref, "at", docURL+"#"+site.tokens.String())
		return nil, nil
	}

	target, err := b.store.GetOrFetch(ctx, targetURL)
	if err != nil {
		if isContextError(err) {
			return nil, err
		}
		return nil, wrap(targetURL, err)
	}
	if _, err := b.store.Lookup(ctx, targetURL, ref.Tokens); err != nil {
		if isContextError(err) {
			return nil, err
		}
		return target, wrap(targetURL, err)
	}

	b.graph.Edges = append(b.graph.Edges, Edge{
		FromURL:     docURL,
		FromPointer: site.tokens,
		Ref:         site.ref,
		ToURL:       target.URL,
		ToPointer:   ref.Tokens,
	})
	return target, nil
}

// prefetchTargets starts background fetches for the external documents named
// by sites. Fetches that do not fit under the concurrency limit are left to
// the walk.
func (b *graphBuilder) prefetchTargets(docURL string, sites []refSite) {
	if !b.prefetchOn || b.opts.LocalOnly {
		return
	}
	seen := make(map[string]bool)
	for _, site := range sites {
		ref, err := pointer.Parse(site.ref, docURL)
		if err != nil || ref.IsLocal() {
			continue
		}
		u := ref.BaseURL
		if u == docURL || seen[u] || b.store.Has(u) || b.store.Failed(u) != nil {
			continue
		}
		seen[u] = true
		if !b.prefetch.TryGo(func() error {
			_, _ = b.store.GetOrFetch(b.prefetchCtx, u)
			return nil
		}) {
			return
		}
	}
}

// collectRefSites returns every $ref node in v in document order. Members of
// a reference node other than "$ref" are scanned too.
func collectRefSites(v *node.Node) []refSite {
	var sites []refSite
	path := pathutil.Get()
	defer pathutil.Put(path)
	collectRefs(v, path, &sites)
	return sites
}

func collectRefs(n *node.Node, path *pathutil.PathBuilder, sites *[]refSite) {
	if n == nil {
		return
	}
	switch n.Kind {
	case node.KindReference:
		*sites = append(*sites, refSite{tokens: pointer.Tokens(path.Tokens()), ref: n.Ref})
		for _, k := range n.Keys() {
			child, _ := n.Get(k)
			path.Push(k)
			collectRefs(child, path, sites)
			path.Pop()
		}
	case node.KindMapping:
		for _, k := range n.Keys() {
			child, _ := n.Get(k)
			path.Push(k)
			collectRefs(child, path, sites)
			path.Pop()
		}
	case node.KindSequence:
		for i, child := range n.Items() {
			path.PushIndex(i)
			collectRefs(child, path, sites)
			path.Pop()
		}
	}
}
