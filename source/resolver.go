package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/erraggy/refparser/referrors"
)

// DefaultMaxSize is the default maximum size, in bytes, of a fetched document.
const DefaultMaxSize int64 = 10 * 1024 * 1024 // 10MB

// Resource is the raw result of fetching a URL.
type Resource struct {
	// URL is the canonical URL that was requested
	URL string
	// Data is the raw content
	Data []byte
	// ContentType is the declared media type, if the source provides one
	ContentType string
	// Resolver names the resolver that produced the resource
	Resolver string
}

// Resolver fetches raw bytes for the URLs it accepts.
type Resolver interface {
	// Name identifies the resolver in diagnostics.
	Name() string
	// CanResolve reports whether the resolver handles u.
	CanResolve(u *url.URL) bool
	// Read fetches u.
	Read(ctx context.Context, u *url.URL) (*Resource, error)
}

// Registry is an ordered set of resolvers. The first registered resolver
// that accepts a URL wins. A Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	resolvers []Resolver
}

// NewRegistry returns a registry holding resolvers in order.
func NewRegistry(resolvers ...Resolver) *Registry {
	return &Registry{resolvers: append([]Resolver(nil), resolvers...)}
}

// Register appends resolvers after those already registered.
func (r *Registry) Register(resolvers ...Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers = append(r.resolvers, resolvers...)
}

// Resolvers returns the registered resolvers in order.
func (r *Registry) Resolvers() []Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Resolver(nil), r.resolvers...)
}

// Lookup returns the first resolver that accepts u.
func (r *Registry) Lookup(u *url.URL) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.resolvers {
		if res.CanResolve(u) {
			return res, true
		}
	}
	return nil, false
}

// Read fetches rawURL with the first resolver that accepts it. Every failure
// is reported as a *referrors.UnresolvableSourceError.
func (r *Registry) Read(ctx context.Context, rawURL string) (*Resource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &referrors.UnresolvableSourceError{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	res, ok := r.Lookup(u)
	if !ok {
		return nil, &referrors.UnresolvableSourceError{URL: rawURL, Message: "no resolver matches"}
	}
	resource, err := res.Read(ctx, u)
	if err != nil {
		var unresolvable *referrors.UnresolvableSourceError
		if errors.As(err, &unresolvable) {
			return nil, err
		}
		return nil, &referrors.UnresolvableSourceError{URL: rawURL, Resolver: res.Name(), Cause: err}
	}
	if resource.URL == "" {
		resource.URL = rawURL
	}
	if resource.Resolver == "" {
		resource.Resolver = res.Name()
	}
	return resource, nil
}

// readLimited reads at most maxSize bytes from rd, failing with a
// *referrors.ResourceLimitError when there is more.
func readLimited(rd io.Reader, maxSize int64, what string) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(rd, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("source: failed to read %s: %w", what, err)
	}
	if int64(len(data)) > maxSize {
		return nil, &referrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        maxSize,
			Message:      what + " exceeds maximum size",
		}
	}
	return data, nil
}
