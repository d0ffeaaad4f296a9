package resolver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/erraggy/refparser/format"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/source"
)

// Resolver runs the resolve, bundle and dereference pipeline over one root
// document. The zero value is usable; New returns one with defaults filled in.
type Resolver struct {
	// Resolvers replaces the default resolver chain (file, plus HTTP when
	// ResolveHTTPRefs is set).
	Resolvers []source.Resolver
	// Parsers replaces the default parser chain (JSON, YAML, text, binary).
	Parsers []format.Parser
	// ResolveHTTPRefs enables fetching http:// and https:// references.
	// Disabled by default for SSRF protection.
	ResolveHTTPRefs bool
	// SafeHTTP makes the default HTTP client refuse private, loopback and
	// link-local addresses. Ignored when HTTPClient is set.
	SafeHTTP bool
	// InsecureSkipVerify disables TLS certificate verification for HTTP refs.
	InsecureSkipVerify bool
	// HTTPClient is used for HTTP refs when set.
	HTTPClient *http.Client
	// HTTPHeaders are added to every HTTP request.
	HTTPHeaders http.Header
	// UserAgent is the User-Agent for HTTP requests.
	// Default: "refparser/<version>"
	UserAgent string
	// RootDir confines file references to a directory when set.
	RootDir string
	// Concurrency bounds parallel document fetches (default: 8).
	Concurrency int
	// MaxRefDepth bounds nested substitutions while dereferencing (default: 100).
	MaxRefDepth int
	// MaxDocuments bounds the number of documents loaded (default: 10000).
	MaxDocuments int
	// MaxFileSize bounds each fetched document in bytes (default: 10MB).
	MaxFileSize int64
	// OnUnresolved selects the failure policy for broken references.
	OnUnresolved UnresolvedPolicy
	// LocalOnly skips references to other documents entirely.
	LocalOnly bool
	// CircularPolicy selects how dereferencing handles cycles.
	CircularPolicy CircularPolicy
	// SiblingPolicy selects how dereferencing handles members next to "$ref".
	SiblingPolicy SiblingPolicy
	// BundleNamespace is the root member holding bundled documents
	// (default: "$bundled").
	BundleNamespace string
	// ExcludedPathMatcher leaves references at matching output paths in place
	// while dereferencing.
	ExcludedPathMatcher func(path string) bool
	// OnDereference is called after each substitution.
	OnDereference func(path string, value, parent *node.Node, key string)
	// ExternalOnly dereferences only references that leave the root document.
	ExternalOnly bool
	// Logger receives diagnostics (default: NopLogger).
	Logger Logger
}

// New creates a new Resolver with default settings.
func New() *Resolver {
	return &Resolver{
		Concurrency:    DefaultConcurrency,
		MaxRefDepth:    DefaultMaxRefDepth,
		MaxDocuments:   DefaultMaxDocuments,
		MaxFileSize:    source.DefaultMaxSize,
		OnUnresolved:   FailFast,
		CircularPolicy: CircularReferenceObject,
		SiblingPolicy:  SiblingsMerge,
	}
}

// ResolveResult describes a resolved reference graph.
type ResolveResult struct {
	// Graph holds the documents and edges.
	Graph *Graph
	// Root is the root document.
	Root *Document
	// Warnings are human-readable messages for errors collected under
	// the CollectAll policy.
	Warnings []string
	// ResolveTime is how long resolution took.
	ResolveTime time.Duration
}

// BundleResult is the outcome of bundling a resolved graph.
type BundleResult struct {
	// Value is the self-contained document. Nil when resolution had errors.
	Value *node.Node
	// Slots maps each external document URL to its slot under Namespace.
	Slots map[string]string
	// Namespace is the root member holding bundled documents.
	Namespace string
	// Graph is the graph that was bundled.
	Graph *Graph
	// BundleTime is how long bundling took, resolution excluded.
	BundleTime time.Duration
}

// DereferenceResult is the outcome of dereferencing a resolved graph.
type DereferenceResult struct {
	// Value is the dereferenced document. Nil when resolution had errors.
	Value *node.Node
	// Circular lists the output paths where cycles were cut.
	Circular []string
	// Graph is the graph that was dereferenced.
	Graph *Graph
	// DereferenceTime is how long dereferencing took, resolution excluded.
	DereferenceTime time.Duration
}

// IsCircular reports whether any cycle was met.
func (r *DereferenceResult) IsCircular() bool {
	return len(r.Circular) > 0
}

// rootInput is the root document handed to the pipeline.
type rootInput struct {
	location string
	url      string
	data     []byte
	value    *node.Node
}

// Resolve builds the reference graph of the document at location, which is
// a file path or URL.
func (r *Resolver) Resolve(ctx context.Context, location string) (*ResolveResult, error) {
	return r.resolve(ctx, rootInput{location: location})
}

// ResolveBytes builds the reference graph of a document given as bytes.
// baseURL identifies the document and anchors its relative references;
// empty means "mem:///root".
func (r *Resolver) ResolveBytes(ctx context.Context, baseURL string, data []byte) (*ResolveResult, error) {
	return r.resolve(ctx, rootInput{url: baseURL, data: data})
}

// ResolveValue builds the reference graph of an already parsed document.
func (r *Resolver) ResolveValue(ctx context.Context, baseURL string, value *node.Node) (*ResolveResult, error) {
	return r.resolve(ctx, rootInput{url: baseURL, value: value})
}

// Bundle bundles a resolved graph into one document. A graph with collected
// errors is not bundled; its errors are returned instead.
func (r *Resolver) Bundle(res *ResolveResult) (*BundleResult, error) {
	out := &BundleResult{Graph: res.Graph}
	if err := res.Graph.Err(); err != nil {
		return out, err
	}
	start := time.Now()
	b, err := Bundle(res.Graph, BundleOptions{Namespace: r.BundleNamespace, Logger: r.log()})
	if err != nil {
		return out, err
	}
	out.Value, out.Slots, out.Namespace = b.Value, b.Slots, b.Namespace
	out.BundleTime = time.Since(start)
	return out, nil
}

// Dereference dereferences the root of a resolved graph. A graph with
// collected errors is not dereferenced; its errors are returned instead.
func (r *Resolver) Dereference(ctx context.Context, res *ResolveResult) (*DereferenceResult, error) {
	out := &DereferenceResult{Graph: res.Graph}
	if err := res.Graph.Err(); err != nil {
		return out, err
	}
	start := time.Now()
	d, err := Dereference(ctx, res.Root.Value, res.Graph.Root, res.Graph.Store, r.dereferenceOptions())
	if err != nil {
		return out, err
	}
	out.Value, out.Circular = d.Value, d.Circular
	out.DereferenceTime = time.Since(start)
	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, in rootInput) (*ResolveResult, error) {
	start := time.Now()
	store := NewStore(StoreConfig{
		Sources:      r.sourceRegistry(),
		Parsers:      r.parserRegistry(),
		MaxDocuments: r.MaxDocuments,
		Logger:       r.log(),
	})

	rootURL := in.location
	if in.location == "" {
		rootURL = in.url
		if rootURL == "" {
			rootURL = DefaultRootURL
		}
		var err error
		if in.value != nil {
			_, err = store.AddValue(rootURL, in.value)
		} else {
			_, err = store.Add(rootURL, in.data, "")
		}
		if err != nil {
			return nil, fmt.Errorf("resolver: invalid root URL: %w", err)
		}
	}

	g, err := Build(ctx, store, rootURL, BuildOptions{
		OnUnresolved: r.OnUnresolved,
		Concurrency:  r.Concurrency,
		LocalOnly:    r.LocalOnly,
		Logger:       r.log(),
	})
	if g == nil {
		return nil, err
	}
	res := &ResolveResult{
		Graph:       g,
		Root:        g.RootDocument(),
		ResolveTime: time.Since(start),
	}
	for _, e := range g.Errors {
		res.Warnings = append(res.Warnings, e.Error())
	}
	r.log().Debug("resolve complete",
		"root", g.Root,
		"documents", len(g.Documents),
		"edges", len(g.Edges),
		"duration", res.ResolveTime,
	)
	return res, err
}

func (r *Resolver) sourceRegistry() *source.Registry {
	if len(r.Resolvers) > 0 {
		return source.NewRegistry(r.Resolvers...)
	}
	reg := source.NewRegistry(&source.FileResolver{RootDir: r.RootDir, MaxSize: r.MaxFileSize})
	if r.ResolveHTTPRefs {
		reg.Register(&source.HTTPResolver{
			Client:             r.httpClient(),
			Headers:            r.HTTPHeaders,
			UserAgent:          r.UserAgent,
			MaxSize:            r.MaxFileSize,
			InsecureSkipVerify: r.InsecureSkipVerify,
		})
	}
	return reg
}

func (r *Resolver) parserRegistry() *format.Registry {
	if len(r.Parsers) > 0 {
		return format.NewRegistry(r.Parsers...)
	}
	return format.NewDefaultRegistry()
}

func (r *Resolver) httpClient() *http.Client {
	if r.HTTPClient != nil {
		return r.HTTPClient
	}
	if r.SafeHTTP {
		return source.NewSafeHTTPClient(source.DefaultMaxRedirects)
	}
	return nil
}

func (r *Resolver) dereferenceOptions() DereferenceOptions {
	return DereferenceOptions{
		Circular:            r.CircularPolicy,
		Siblings:            r.SiblingPolicy,
		ExcludedPathMatcher: r.ExcludedPathMatcher,
		OnDereference:       r.OnDereference,
		ExternalOnly:        r.ExternalOnly,
		MaxRefDepth:         r.MaxRefDepth,
		Logger:              r.log(),
	}
}

// log returns the configured logger or a no-op logger if none is set.
func (r *Resolver) log() Logger {
	return logOrNop(r.Logger)
}
