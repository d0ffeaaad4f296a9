package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/erraggy/refparser/format"
	"github.com/erraggy/refparser/internal/options"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/referrors"
	"github.com/erraggy/refparser/source"
)

// Option is a function that configures a resolve, bundle or dereference operation
type Option func(*config) error

// config holds configuration for one pipeline run
type config struct {
	// Input source (exactly one must be set)
	location *string
	data     []byte
	value    *node.Node
	rootURL  string

	ctx context.Context

	// Resolution
	resolvers          []source.Resolver
	parsers            []format.Parser
	resolveHTTPRefs    bool
	safeHTTP           bool
	insecureSkipVerify bool
	httpClient         *http.Client
	httpHeaders        http.Header
	userAgent          string
	rootDir            string
	concurrency        int
	onUnresolved       UnresolvedPolicy
	localOnly          bool
	logger             Logger

	// Resource limits (0 means use default)
	maxRefDepth  int
	maxDocuments int
	maxFileSize  int64

	// Bundling
	bundleNamespace string

	// Dereferencing
	circularPolicy      CircularPolicy
	siblingPolicy       SiblingPolicy
	excludedPathMatcher func(string) bool
	onDereference       func(path string, value, parent *node.Node, key string)
	externalOnly        bool
}

// ResolveWithOptions builds the reference graph of a document using
// functional options.
//
// Under the CollectAll policy a graph with broken references is returned
// together with a referrors.ErrorList.
//
// Example:
//
//	result, err := resolver.ResolveWithOptions(
//	    resolver.WithFilePath("openapi.yaml"),
//	    resolver.WithOnUnresolved(resolver.CollectAll),
//	)
func ResolveWithOptions(opts ...Option) (*ResolveResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid options: %w", err)
	}
	return cfg.resolver().resolve(cfg.ctx, cfg.input())
}

// BundleWithOptions resolves a document and bundles it into one
// self-contained document.
//
// Example:
//
//	result, err := resolver.BundleWithOptions(
//	    resolver.WithFilePath("openapi.yaml"),
//	    resolver.WithBundleNamespace("$defs"),
//	)
func BundleWithOptions(opts ...Option) (*BundleResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid options: %w", err)
	}
	r := cfg.resolver()
	res, err := r.resolve(cfg.ctx, cfg.input())
	if res == nil {
		return nil, err
	}
	return r.Bundle(res)
}

// DereferenceWithOptions resolves a document and replaces every $ref with
// the value it points to.
//
// Example:
//
//	result, err := resolver.DereferenceWithOptions(
//	    resolver.WithFilePath("openapi.yaml"),
//	    resolver.WithCircularPolicy(resolver.CircularIgnore),
//	)
func DereferenceWithOptions(opts ...Option) (*DereferenceResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid options: %w", err)
	}
	r := cfg.resolver()
	res, err := r.resolve(cfg.ctx, cfg.input())
	if res == nil {
		return nil, err
	}
	return r.Dereference(cfg.ctx, res)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		ctx:            context.Background(),
		concurrency:    DefaultConcurrency,
		onUnresolved:   FailFast,
		circularPolicy: CircularReferenceObject,
		siblingPolicy:  SiblingsMerge,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"resolver: must specify an input source (use WithFilePath, WithURL, WithBytes, or WithValue)",
		"resolver: must specify exactly one input source",
		cfg.location != nil, cfg.data != nil, cfg.value != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *config) resolver() *Resolver {
	return &Resolver{
		Resolvers:           cfg.resolvers,
		Parsers:             cfg.parsers,
		ResolveHTTPRefs:     cfg.resolveHTTPRefs,
		SafeHTTP:            cfg.safeHTTP,
		InsecureSkipVerify:  cfg.insecureSkipVerify,
		HTTPClient:          cfg.httpClient,
		HTTPHeaders:         cfg.httpHeaders,
		UserAgent:           cfg.userAgent,
		RootDir:             cfg.rootDir,
		Concurrency:         cfg.concurrency,
		MaxRefDepth:         cfg.maxRefDepth,
		MaxDocuments:        cfg.maxDocuments,
		MaxFileSize:         cfg.maxFileSize,
		OnUnresolved:        cfg.onUnresolved,
		LocalOnly:           cfg.localOnly,
		CircularPolicy:      cfg.circularPolicy,
		SiblingPolicy:       cfg.siblingPolicy,
		BundleNamespace:     cfg.bundleNamespace,
		ExcludedPathMatcher: cfg.excludedPathMatcher,
		OnDereference:       cfg.onDereference,
		ExternalOnly:        cfg.externalOnly,
		Logger:              cfg.logger,
	}
}

func (cfg *config) input() rootInput {
	if cfg.location != nil {
		return rootInput{location: *cfg.location}
	}
	return rootInput{url: cfg.rootURL, data: cfg.data, value: cfg.value}
}

// WithFilePath specifies a file path or URL as the input source
func WithFilePath(path string) Option {
	return func(cfg *config) error {
		if path == "" {
			return &referrors.ConfigError{Option: "file path", Message: "cannot be empty"}
		}
		cfg.location = &path
		return nil
	}
}

// WithURL specifies an absolute URL (file, http, https or mem) as the input source
func WithURL(rawURL string) Option {
	return func(cfg *config) error {
		u, err := url.Parse(rawURL)
		if err != nil || u.Scheme == "" {
			return &referrors.ConfigError{Option: "url", Value: rawURL, Message: "must be an absolute URL", Cause: err}
		}
		cfg.location = &rawURL
		return nil
	}
}

// WithBytes specifies a byte slice as the input source. baseURL identifies
// the document and anchors its relative references; empty means "mem:///root".
func WithBytes(baseURL string, data []byte) Option {
	return func(cfg *config) error {
		if data == nil {
			return &referrors.ConfigError{Option: "bytes", Message: "cannot be nil"}
		}
		cfg.data = data
		cfg.rootURL = baseURL
		return nil
	}
}

// WithValue specifies an already parsed document as the input source.
func WithValue(baseURL string, value *node.Node) Option {
	return func(cfg *config) error {
		if value == nil {
			return &referrors.ConfigError{Option: "value", Message: "cannot be nil"}
		}
		cfg.value = value
		cfg.rootURL = baseURL
		return nil
	}
}

// WithContext sets the context that bounds fetching and dereferencing.
// Default: context.Background()
func WithContext(ctx context.Context) Option {
	return func(cfg *config) error {
		if ctx == nil {
			return &referrors.ConfigError{Option: "context", Message: "cannot be nil"}
		}
		cfg.ctx = ctx
		return nil
	}
}

// WithResolvers replaces the default resolver chain. Resolvers are tried in
// the given order; the first that can resolve a URL wins.
func WithResolvers(resolvers ...source.Resolver) Option {
	return func(cfg *config) error {
		cfg.resolvers = append(cfg.resolvers, resolvers...)
		return nil
	}
}

// WithParsers replaces the default parser chain. Parsers are tried in the
// given order.
func WithParsers(parsers ...format.Parser) Option {
	return func(cfg *config) error {
		cfg.parsers = append(cfg.parsers, parsers...)
		return nil
	}
}

// WithCircularPolicy selects how dereferencing handles cycles.
// Default: CircularReferenceObject
func WithCircularPolicy(policy CircularPolicy) Option {
	return func(cfg *config) error {
		p, err := ParseCircularPolicy(string(policy))
		if err != nil {
			return err
		}
		cfg.circularPolicy = p
		return nil
	}
}

// WithOnUnresolved selects the failure policy for broken references.
// Default: FailFast
func WithOnUnresolved(policy UnresolvedPolicy) Option {
	return func(cfg *config) error {
		p, err := ParseUnresolvedPolicy(string(policy))
		if err != nil {
			return err
		}
		cfg.onUnresolved = p
		return nil
	}
}

// WithSiblingPolicy selects how dereferencing handles members next to "$ref".
// Default: SiblingsMerge
func WithSiblingPolicy(policy SiblingPolicy) Option {
	return func(cfg *config) error {
		p, err := ParseSiblingPolicy(string(policy))
		if err != nil {
			return err
		}
		cfg.siblingPolicy = p
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for fetching URLs.
// When set, the client is used as-is for all HTTP requests and the
// WithSafeHTTP and WithInsecureSkipVerify options are ignored.
//
// If the client is nil, this option has no effect (default client is used).
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) error {
		cfg.httpClient = client
		return nil
	}
}

// WithHTTPHeaders adds headers to every HTTP request.
func WithHTTPHeaders(headers http.Header) Option {
	return func(cfg *config) error {
		if cfg.httpHeaders == nil {
			cfg.httpHeaders = http.Header{}
		}
		for name, values := range headers {
			for _, v := range values {
				cfg.httpHeaders.Add(name, v)
			}
		}
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
// Default: "refparser/vX.Y.Z"
func WithUserAgent(ua string) Option {
	return func(cfg *config) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithResolveHTTPRefs enables resolution of HTTP/HTTPS $ref URLs
// This is disabled by default for security (SSRF protection)
func WithResolveHTTPRefs(enabled bool) Option {
	return func(cfg *config) error {
		cfg.resolveHTTPRefs = enabled
		return nil
	}
}

// WithSafeHTTP makes HTTP fetches refuse private, loopback and link-local
// addresses, including redirect targets.
func WithSafeHTTP(enabled bool) Option {
	return func(cfg *config) error {
		cfg.safeHTTP = enabled
		return nil
	}
}

// WithInsecureSkipVerify disables TLS certificate verification for HTTP refs
// Use with caution - only for testing or internal servers with self-signed certs
func WithInsecureSkipVerify(enabled bool) Option {
	return func(cfg *config) error {
		cfg.insecureSkipVerify = enabled
		return nil
	}
}

// WithRootDir confines file references to dir. References that escape it
// fail with referrors.ErrPathTraversal.
func WithRootDir(dir string) Option {
	return func(cfg *config) error {
		cfg.rootDir = dir
		return nil
	}
}

// WithConcurrency bounds how many documents are fetched in parallel.
// Default: 8
func WithConcurrency(n int) Option {
	return func(cfg *config) error {
		if err := options.ValidatePositive("concurrency", int64(n)); err != nil {
			return err
		}
		cfg.concurrency = n
		return nil
	}
}

// WithMaxRefDepth sets the maximum number of nested substitutions while
// dereferencing. A value of 0 uses the default (100).
func WithMaxRefDepth(depth int) Option {
	return func(cfg *config) error {
		if depth < 0 {
			return &referrors.ConfigError{Option: "max ref depth", Value: depth, Message: "cannot be negative"}
		}
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithMaxDocuments sets the maximum number of documents loaded.
// A value of 0 uses the default (10000).
func WithMaxDocuments(count int) Option {
	return func(cfg *config) error {
		if count < 0 {
			return &referrors.ConfigError{Option: "max documents", Value: count, Message: "cannot be negative"}
		}
		cfg.maxDocuments = count
		return nil
	}
}

// WithMaxFileSize sets the maximum size in bytes of each fetched document.
// A value of 0 uses the default (10MB).
func WithMaxFileSize(size int64) Option {
	return func(cfg *config) error {
		if size < 0 {
			return &referrors.ConfigError{Option: "max file size", Value: size, Message: "cannot be negative"}
		}
		cfg.maxFileSize = size
		return nil
	}
}

// WithLocalOnly skips references to other documents. Only same-document
// references are validated.
func WithLocalOnly(enabled bool) Option {
	return func(cfg *config) error {
		cfg.localOnly = enabled
		return nil
	}
}

// WithLogger sets a structured logger for diagnostics.
// Default: NopLogger
func WithLogger(l Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}

// WithBundleNamespace sets the root member that holds bundled documents.
// Default: "$bundled"
func WithBundleNamespace(ns string) Option {
	return func(cfg *config) error {
		if ns == "" {
			return &referrors.ConfigError{Option: "bundle namespace", Message: "cannot be empty"}
		}
		cfg.bundleNamespace = ns
		return nil
	}
}

// WithExcludedPathMatcher leaves references at output paths for which
// matcher returns true in place while dereferencing.
func WithExcludedPathMatcher(matcher func(path string) bool) Option {
	return func(cfg *config) error {
		cfg.excludedPathMatcher = matcher
		return nil
	}
}

// WithOnDereference registers a callback invoked after each substitution
// with the output path, the substituted value, its container and key.
func WithOnDereference(fn func(path string, value, parent *node.Node, key string)) Option {
	return func(cfg *config) error {
		cfg.onDereference = fn
		return nil
	}
}

// WithExternalOnly dereferences only references that leave the root
// document. Same-document references of the root are kept.
func WithExternalOnly(enabled bool) Option {
	return func(cfg *config) error {
		cfg.externalOnly = enabled
		return nil
	}
}
