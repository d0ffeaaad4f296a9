package source

import (
	"bytes"
	"context"
	"net/url"
	"sync"

	"github.com/erraggy/refparser/pointer"
	"github.com/erraggy/refparser/referrors"
)

// MemoryResolver serves pre-supplied bytes. It accepts every mem:// URL and
// any other URL that has been added to it, so a document supplied in memory
// shadows the file or network resource of the same name.
type MemoryResolver struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	types map[string]string
}

// NewMemoryResolver returns an empty MemoryResolver.
func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{docs: map[string][]byte{}, types: map[string]string{}}
}

// Add registers data under rawURL, which is canonicalised first.
// contentType is optional.
func (m *MemoryResolver) Add(rawURL string, data []byte, contentType string) (string, error) {
	canonical, err := pointer.Canonicalize(rawURL)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = map[string][]byte{}
		m.types = map[string]string{}
	}
	m.docs[canonical] = bytes.Clone(data)
	m.types[canonical] = contentType
	return canonical, nil
}

// Name implements Resolver.
func (m *MemoryResolver) Name() string { return "memory" }

// CanResolve implements Resolver.
func (m *MemoryResolver) CanResolve(u *url.URL) bool {
	if u.Scheme == pointer.MemScheme {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.docs[u.String()]
	return ok
}

// Read implements Resolver.
func (m *MemoryResolver) Read(_ context.Context, u *url.URL) (*Resource, error) {
	key := u.String()
	m.mu.RLock()
	data, ok := m.docs[key]
	contentType := m.types[key]
	m.mu.RUnlock()
	if !ok {
		return nil, &referrors.UnresolvableSourceError{
			URL:      key,
			Resolver: m.Name(),
			Message:  "no in-memory document with this URL",
		}
	}
	return &Resource{URL: key, Data: data, ContentType: contentType, Resolver: m.Name()}, nil
}
