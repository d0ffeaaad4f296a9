package resolver

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/singleflight"

	"github.com/erraggy/refparser/format"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/pointer"
	"github.com/erraggy/refparser/referrors"
	"github.com/erraggy/refparser/source"
)

const (
	// DefaultLookupCacheSize is the number of pointer lookups a Store keeps.
	DefaultLookupCacheSize = 1024
	// DefaultMaxDocuments bounds how many documents one Store will hold.
	DefaultMaxDocuments = 10000
	// maxPointerHops bounds how many $ref nodes a single pointer lookup may
	// pass through before giving up.
	maxPointerHops = 64
)

// Document is one fetched and parsed document. Documents are immutable once
// they are in a Store.
type Document struct {
	// URL is the canonical URL the document was fetched from.
	URL string
	// Data is the raw content. It is nil for documents seeded from a value.
	Data []byte
	// Value is the parsed document tree.
	Value *node.Node
	// Parser names the parser that produced Value.
	Parser string
	// Resolver names the resolver that produced Data.
	Resolver string
	// ContentType is the media type reported by the resolver, if any.
	ContentType string
	// Digest is the hex BLAKE3-256 digest of Data.
	Digest string
	// LoadTime is how long the fetch and parse took.
	LoadTime time.Duration
}

// Location is where a pointer lookup ended up: a node and the document and
// pointer that hold it.
type Location struct {
	URL    string
	Tokens pointer.Tokens
	Node   *node.Node
}

// StoreConfig configures a Store.
type StoreConfig struct {
	// Sources reads raw bytes. Required for GetOrFetch on unseeded URLs.
	Sources *source.Registry
	// Parsers turns bytes into trees. Defaults to format.NewDefaultRegistry().
	Parsers *format.Registry
	// MaxDocuments bounds the number of stored documents (default: DefaultMaxDocuments).
	MaxDocuments int
	// LookupCacheSize bounds the pointer lookup cache (default: DefaultLookupCacheSize).
	LookupCacheSize int
	// Logger receives fetch diagnostics (default: NopLogger).
	Logger Logger
}

// Store holds every document fetched during one run, keyed by canonical URL.
//
// Concurrent GetOrFetch calls for the same URL share a single in-flight
// fetch, so each canonical URL is read and parsed at most once. Failures are
// cached and returned on every later call, except context cancellation.
// Store is safe for concurrent use.
type Store struct {
	sources      *source.Registry
	parsers      *format.Registry
	maxDocuments int
	logger       Logger

	mu     sync.RWMutex
	docs   map[string]*Document
	order  []string
	failed map[string]error

	pending singleflight.Group
	lookups *lru.Cache[string, Location]
}

// NewStore creates an empty Store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.Parsers == nil {
		cfg.Parsers = format.NewDefaultRegistry()
	}
	if cfg.Sources == nil {
		cfg.Sources = source.NewRegistry()
	}
	if cfg.MaxDocuments <= 0 {
		cfg.MaxDocuments = DefaultMaxDocuments
	}
	if cfg.LookupCacheSize <= 0 {
		cfg.LookupCacheSize = DefaultLookupCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, Location](cfg.LookupCacheSize)
	return &Store{
		sources:      cfg.Sources,
		parsers:      cfg.Parsers,
		maxDocuments: cfg.MaxDocuments,
		logger:       logOrNop(cfg.Logger),
		docs:         make(map[string]*Document),
		failed:       make(map[string]error),
		lookups:      cache,
	}
}

// GetOrFetch returns the document at rawURL, fetching and parsing it if it is
// not stored yet.
func (s *Store) GetOrFetch(ctx context.Context, rawURL string) (*Document, error) {
	canonical, err := pointer.Canonicalize(rawURL)
	if err != nil {
		return nil, &referrors.UnresolvableSourceError{
			URL:     rawURL,
			Message: "invalid URL",
			Cause:   err,
		}
	}
	if doc, err, ok := s.cached(canonical); ok {
		return doc, err
	}

	v, err, shared := s.pending.Do(canonical, func() (any, error) {
		if doc, err, ok := s.cached(canonical); ok {
			return doc, err
		}
		doc, err := s.fetch(ctx, canonical)
		if err != nil {
			if !isContextError(err) {
				s.mu.Lock()
				s.failed[canonical] = err
				s.mu.Unlock()
			}
			return nil, err
		}
		if err := s.insert(doc); err != nil {
			return nil, err
		}
		return doc, nil
	})
	if shared {
		s.logger.Debug("joined in-flight fetch", "url", canonical)
	}
	if err != nil {
		return nil, err
	}
	return v.(*Document), nil
}

// Add parses data as the document at rawURL and stores it, without going
// through a resolver. An already stored document is returned unchanged.
func (s *Store) Add(rawURL string, data []byte, contentType string) (*Document, error) {
	canonical, err := pointer.Canonicalize(rawURL)
	if err != nil {
		return nil, &referrors.ConfigError{Option: "url", Value: rawURL, Cause: err}
	}
	if doc, ok := s.Get(canonical); ok {
		return doc, nil
	}
	start := time.Now()
	doc, err := s.parse(&source.Resource{URL: canonical, Data: data, ContentType: contentType, Resolver: "seed"})
	if err != nil {
		return nil, err
	}
	doc.LoadTime = time.Since(start)
	if err := s.insert(doc); err != nil {
		return nil, err
	}
	return s.mustGet(canonical), nil
}

// AddValue stores an already parsed tree as the document at rawURL.
func (s *Store) AddValue(rawURL string, value *node.Node) (*Document, error) {
	canonical, err := pointer.Canonicalize(rawURL)
	if err != nil {
		return nil, &referrors.ConfigError{Option: "url", Value: rawURL, Cause: err}
	}
	if value == nil {
		value = node.NewNull()
	}
	doc := &Document{URL: canonical, Value: value, Parser: "value", Resolver: "seed"}
	if err := s.insert(doc); err != nil {
		return nil, err
	}
	return s.mustGet(canonical), nil
}

// Get returns the stored document for a canonical URL.
func (s *Store) Get(canonicalURL string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[canonicalURL]
	return doc, ok
}

// Has reports whether a document is stored for canonicalURL.
func (s *Store) Has(canonicalURL string) bool {
	_, ok := s.Get(canonicalURL)
	return ok
}

// URLs returns the canonical URLs of all stored documents in insertion order.
func (s *Store) URLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Failed returns the cached failure for canonicalURL, if any.
func (s *Store) Failed(canonicalURL string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failed[canonicalURL]
}

// Lookup resolves tokens inside the document at docURL, fetching documents as
// needed. When the pointer passes through a $ref node, evaluation continues at
// that reference's target. A pointer that ends on a $ref returns the
// reference node itself.
func (s *Store) Lookup(ctx context.Context, docURL string, tokens pointer.Tokens) (Location, error) {
	key := docURL + "#" + tokens.String()
	if loc, ok := s.lookups.Get(key); ok {
		return loc, nil
	}
	loc, err := resolvePointer(func(u string) (*node.Node, error) {
		doc, err := s.GetOrFetch(ctx, u)
		if err != nil {
			return nil, err
		}
		return doc.Value, nil
	}, docURL, tokens)
	if err != nil {
		return Location{}, err
	}
	s.lookups.Add(key, loc)
	return loc, nil
}

func (s *Store) cached(canonical string) (*Document, error, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.docs[canonical]; ok {
		return doc, nil, true
	}
	if err, ok := s.failed[canonical]; ok {
		return nil, err, true
	}
	return nil, nil, false
}

func (s *Store) mustGet(canonical string) *Document {
	doc, _ := s.Get(canonical)
	return doc
}

func (s *Store) fetch(ctx context.Context, canonical string) (*Document, error) {
	if s.Len() >= s.maxDocuments {
		return nil, &referrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        int64(s.maxDocuments),
			Actual:       int64(s.Len() + 1),
			Message:      "cannot load " + canonical,
		}
	}
	start := time.Now()
	res, err := s.sources.Read(ctx, canonical)
	if err != nil {
		s.logger.Debug("fetch failed", "url", canonical, "error", err)
		return nil, err
	}
	doc, err := s.parse(res)
	if err != nil {
		return nil, err
	}
	doc.URL = canonical
	doc.LoadTime = time.Since(start)
	s.logger.Debug("fetched document",
		"url", canonical,
		"resolver", doc.Resolver,
		"parser", doc.Parser,
		"bytes", len(doc.Data),
		"duration", doc.LoadTime,
	)
	return doc, nil
}

func (s *Store) parse(res *source.Resource) (*Document, error) {
	value, parserName, err := s.parsers.Parse(res)
	if err != nil {
		return nil, err
	}
	sum := blake3.Sum256(res.Data)
	return &Document{
		URL:         res.URL,
		Data:        res.Data,
		Value:       value,
		Parser:      parserName,
		Resolver:    res.Resolver,
		ContentType: res.ContentType,
		Digest:      hex.EncodeToString(sum[:]),
	}, nil
}

func (s *Store) insert(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.URL]; ok {
		return nil
	}
	if len(s.docs) >= s.maxDocuments {
		return &referrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        int64(s.maxDocuments),
			Actual:       int64(len(s.docs) + 1),
			Message:      "cannot store " + doc.URL,
		}
	}
	s.docs[doc.URL] = doc
	s.order = append(s.order, doc.URL)
	return nil
}

// resolvePointer evaluates tokens against the document at docURL, following
// any $ref met before the pointer is fully consumed.
func resolvePointer(getDoc func(string) (*node.Node, error), docURL string, tokens pointer.Tokens) (Location, error) {
	for hop := 0; hop <= maxPointerHops; hop++ {
		root, err := getDoc(docURL)
		if err != nil {
			return Location{}, err
		}
		n, consumed := pointer.Descend(root, tokens)
		if consumed == len(tokens) {
			return Location{URL: docURL, Tokens: tokens, Node: n}, nil
		}
		if !n.IsReference() {
			return Location{}, pointer.MissingError(docURL, tokens, consumed, n)
		}
		ref, err := pointer.Parse(n.Ref, docURL)
		if err != nil {
			return Location{}, err
		}
		rest := tokens[consumed:]
		docURL = ref.DocumentURL(docURL)
		tokens = ref.Tokens.Append(rest...)
	}
	return Location{}, &referrors.ResourceLimitError{
		ResourceType: "ref_depth",
		Limit:        maxPointerHops,
		Message:      "pointer passes through too many $ref nodes",
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
