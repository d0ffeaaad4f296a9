package resolver

import (
	"context"
	"sort"

	"github.com/erraggy/refparser/internal/pathutil"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/pointer"
	"github.com/erraggy/refparser/referrors"
)

const (
	// DefaultMaxRefDepth bounds how many substitutions may be nested.
	DefaultMaxRefDepth = 100
	// DefaultRootURL identifies a root given as bytes or a value without a URL.
	DefaultRootURL = "mem:///root"
)

// DereferenceOptions configures Dereference.
type DereferenceOptions struct {
	// Circular selects the cycle policy (default: CircularReferenceObject).
	Circular CircularPolicy
	// Siblings selects what happens to members next to "$ref" (default: SiblingsMerge).
	Siblings SiblingPolicy
	// ExcludedPathMatcher, when set, leaves references at matching output
	// paths in place.
	ExcludedPathMatcher func(path string) bool
	// OnDereference, when set, is called after each substitution with the
	// output path, the substituted value, the output container and the key.
	OnDereference func(path string, value, parent *node.Node, key string)
	// ExternalOnly substitutes only references that leave the root document.
	ExternalOnly bool
	// MaxRefDepth bounds nested substitutions (default: DefaultMaxRefDepth).
	MaxRefDepth int
	// Logger receives cycle diagnostics (default: NopLogger).
	Logger Logger
}

// Dereferenced is the output of Dereference.
type Dereferenced struct {
	// Value is the tree with references substituted.
	Value *node.Node
	// Circular lists the output paths of every site where a cycle was cut,
	// sorted and without duplicates.
	Circular []string
}

// Dereference returns a copy of value, which lives at baseURL, in which every
// $ref is replaced by the value it targets. References into other documents
// are looked up in store, which may be nil for a self-contained value.
// Nothing is fetched.
//
// Two references to the same target yield the same output node, so the
// result is a graph rather than a tree. A reference whose target is already
// being expanded on the current path is a cycle and is handled by
// opts.Circular. The input value is never modified.
func Dereference(ctx context.Context, value *node.Node, baseURL string, store *Store, opts DereferenceOptions) (*Dereferenced, error) {
	if baseURL == "" {
		baseURL = DefaultRootURL
	}
	canonical, err := pointer.Canonicalize(baseURL)
	if err != nil {
		return nil, &referrors.ConfigError{Option: "url", Value: baseURL, Cause: err}
	}
	if opts.MaxRefDepth <= 0 {
		opts.MaxRefDepth = DefaultMaxRefDepth
	}
	opts.Circular = opts.Circular.orDefault()
	opts.Siblings = opts.Siblings.orDefault()

	d := &dereferencer{
		ctx:       ctx,
		baseURL:   canonical,
		base:      value,
		store:     store,
		opts:      opts,
		logger:    logOrNop(opts.Logger),
		ancestors: make(map[*node.Node]ancestor),
		memo:      make(map[*node.Node]*node.Node),
		circular:  make(map[string]bool),
		path:      pathutil.Get(),
	}
	defer pathutil.Put(d.path)

	out, err := d.child(value, canonical, nil, "")
	if err != nil {
		return nil, err
	}
	circular := make([]string, 0, len(d.circular))
	for p := range d.circular {
		circular = append(circular, p)
	}
	sort.Strings(circular)
	return &Dereferenced{Value: out, Circular: circular}, nil
}

// ancestor is a value being expanded: its output path and, for containers,
// its output node.
type ancestor struct {
	path string
	out  *node.Node
}

type dereferencer struct {
	ctx     context.Context
	baseURL string
	base    *node.Node
	store   *Store
	opts    DereferenceOptions
	logger  Logger

	// ancestors and memo are keyed by source node identity.
	ancestors map[*node.Node]ancestor
	memo      map[*node.Node]*node.Node
	circular  map[string]bool
	refDepth  int
	path      *pathutil.PathBuilder
}

// child dereferences one member of parent and reports substitutions.
func (d *dereferencer) child(src *node.Node, docURL string, parent *node.Node, key string) (*node.Node, error) {
	if !src.IsReference() {
		return d.value(src, docURL)
	}
	out, substituted, err := d.reference(src, docURL)
	if err != nil {
		return nil, err
	}
	if substituted && d.opts.OnDereference != nil {
		d.opts.OnDereference(d.path.String(), out, parent, key)
	}
	return out, nil
}

func (d *dereferencer) value(src *node.Node, docURL string) (*node.Node, error) {
	if src == nil {
		return nil, nil
	}
	if out, ok := d.memo[src]; ok {
		return out, nil
	}
	switch src.Kind {
	case node.KindReference:
		out, _, err := d.reference(src, docURL)
		return out, err
	case node.KindMapping:
		out := node.NewMapping()
		d.ancestors[src] = ancestor{path: d.path.String(), out: out}
		for _, k := range src.Keys() {
			member, _ := src.Get(k)
			d.path.Push(k)
			v, err := d.child(member, docURL, out, k)
			d.path.Pop()
			if err != nil {
				return nil, err
			}
			out.Set(k, v)
		}
		delete(d.ancestors, src)
		d.memo[src] = out
		return out, nil
	case node.KindSequence:
		out := node.NewSequence()
		d.ancestors[src] = ancestor{path: d.path.String(), out: out}
		for i, item := range src.Items() {
			d.path.PushIndex(i)
			v, err := d.child(item, docURL, out, "")
			d.path.Pop()
			if err != nil {
				return nil, err
			}
			out.Append(v)
		}
		delete(d.ancestors, src)
		d.memo[src] = out
		return out, nil
	case node.KindCircular:
		return src, nil
	default:
		out := src.Clone()
		d.memo[src] = out
		return out, nil
	}
}

// reference expands one $ref node. substituted is false when the node was
// left in place or cut short as a cycle.
func (d *dereferencer) reference(src *node.Node, docURL string) (*node.Node, bool, error) {
	if out, ok := d.memo[src]; ok {
		return out, true, nil
	}
	path := d.path.String()
	if d.opts.ExcludedPathMatcher != nil && d.opts.ExcludedPathMatcher(path) {
		return d.keep(src, docURL, ""), false, nil
	}

	ref, err := pointer.Parse(src.Ref, docURL)
	if err != nil {
		return nil, false, d.siteError(src, path, "", err)
	}
	targetURL := ref.DocumentURL(docURL)
	if d.opts.ExternalOnly && docURL == d.baseURL && targetURL == d.baseURL {
		return d.keep(src, docURL, ""), false, nil
	}
	if a, ok := d.ancestors[src]; ok {
		return d.cycle(src, docURL, targetURL, path, a)
	}

	loc, err := resolvePointer(d.document, targetURL, ref.Tokens)
	if err != nil {
		return nil, false, d.siteError(src, path, targetURL, err)
	}
	if a, ok := d.ancestors[loc.Node]; ok {
		return d.cycle(src, docURL, targetURL, path, a)
	}
	if err := d.ctx.Err(); err != nil {
		return nil, false, err
	}
	if d.refDepth >= d.opts.MaxRefDepth {
		return nil, false, &referrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(d.opts.MaxRefDepth),
			Actual:       int64(d.refDepth + 1),
			Message:      "too many nested references at " + pathutil.LocalRef(path),
		}
	}

	d.ancestors[src] = ancestor{path: path}
	d.refDepth++
	target, err := d.value(loc.Node, loc.URL)
	d.refDepth--
	delete(d.ancestors, src)
	if err != nil {
		return nil, false, err
	}

	if src.HasSiblings() {
		target, err = d.siblings(src, docURL, target)
		if err != nil {
			return nil, false, err
		}
	}
	d.memo[src] = target
	return target, true, nil
}

// siblings applies the sibling policy to a substituted value.
func (d *dereferencer) siblings(src *node.Node, docURL string, target *node.Node) (*node.Node, error) {
	if d.opts.Siblings == SiblingsIgnore {
		return target, nil
	}
	if target == nil || target.Kind != node.KindMapping {
		d.logger.Debug("dropping $ref siblings of non-mapping target",
			"path", d.path.String(), "ref", src.Ref)
		return target, nil
	}
	merged := node.NewMapping()
	for _, k := range target.Keys() {
		v, _ := target.Get(k)
		merged.Set(k, v)
	}
	for _, k := range src.Keys() {
		member, _ := src.Get(k)
		d.path.Push(k)
		v, err := d.child(member, docURL, merged, k)
		d.path.Pop()
		if err != nil {
			return nil, err
		}
		merged.Set(k, v)
	}
	return merged, nil
}

// cycle handles a $ref whose target is the ancestor a.
func (d *dereferencer) cycle(src *node.Node, docURL, targetURL, path string, a ancestor) (*node.Node, bool, error) {
	d.circular[path] = true
	d.logger.Debug("circular reference", "path", path, "ref", src.Ref, "ancestor", a.path)
	switch d.opts.Circular {
	case CircularError:
		return nil, false, &referrors.CircularReferenceError{Path: path, Ref: src.Ref, Ancestor: a.path}
	case CircularIgnore:
		if targetURL == d.baseURL {
			return d.keep(src, docURL, ""), false, nil
		}
		return d.keep(src, docURL, pathutil.LocalRef(a.path)), false, nil
	default:
		return node.NewCircular(a.path, a.out), false, nil
	}
}

// keep copies a $ref node into the output unexpanded. The reference is
// rewritten so it still means the same thing from the output root, unless
// ref overrides it.
func (d *dereferencer) keep(src *node.Node, docURL, ref string) *node.Node {
	if ref == "" {
		ref = src.Ref
		if parsed, err := pointer.Parse(src.Ref, docURL); err == nil {
			switch target := parsed.DocumentURL(docURL); {
			case docURL == d.baseURL && parsed.IsLocal():
			case target == d.baseURL:
				ref = pathutil.LocalRef(parsed.Pointer())
			default:
				ref = pointer.Format(pointer.Reference{BaseURL: target, Tokens: parsed.Tokens})
			}
		}
	}
	out := node.NewReference(ref)
	for _, k := range src.Keys() {
		member, _ := src.Get(k)
		out.Set(k, member.Clone())
	}
	return out
}

func (d *dereferencer) document(u string) (*node.Node, error) {
	if u == d.baseURL {
		return d.base, nil
	}
	if d.store == nil {
		return nil, notStoredError(u)
	}
	doc, ok := d.store.Get(u)
	if !ok {
		return nil, notStoredError(u)
	}
	return doc.Value, nil
}

func (d *dereferencer) siteError(src *node.Node, path, targetURL string, cause error) error {
	return &referrors.ReferenceResolutionError{
		AtPointer: pathutil.LocalRef(path),
		Ref:       src.Ref,
		TargetURL: targetURL,
		Cause:     cause,
	}
}

func notStoredError(u string) error {
	return &referrors.UnresolvableSourceError{
		URL:     u,
		Message: "document was not loaded",
	}
}
