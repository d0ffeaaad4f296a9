package format

import (
	"bytes"
	"errors"
	"net/url"
	"path"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/erraggy/refparser/internal/httputil"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/referrors"
	"github.com/erraggy/refparser/source"
)

// Parser turns a fetched resource into a node tree.
type Parser interface {
	// Name identifies the parser in diagnostics.
	Name() string
	// CanParse reports whether the parser claims res.
	CanParse(res *source.Resource) bool
	// Parse decodes res.
	Parse(res *source.Resource) (*node.Node, error)
}

// Registry is an ordered set of parsers. A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	parsers []Parser
}

// NewRegistry returns a registry holding parsers in order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: append([]Parser(nil), parsers...)}
}

// DefaultParsers returns the built-in parsers in their default order.
func DefaultParsers() []Parser {
	return []Parser{JSON{}, YAML{}, Text{}, Binary{}}
}

// NewDefaultRegistry returns a registry of the built-in parsers.
func NewDefaultRegistry() *Registry {
	return NewRegistry(DefaultParsers()...)
}

// Register appends parsers after those already registered.
func (r *Registry) Register(parsers ...Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, parsers...)
}

// Parsers returns the registered parsers in order.
func (r *Registry) Parsers() []Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Parser(nil), r.parsers...)
}

// Parse decodes res with the first parser that claims it and returns the
// parser's name with the value. Later parsers are not consulted, with one
// exception: when the JSON parser claims res and fails, a YAML parser that
// also claims it gets one attempt, since YAML is a superset of JSON.
//
// A resource no parser claims, and a claimed resource that fails to decode,
// both yield a *referrors.UnparsableContentError. For a failed decode it
// carries the first parser's error.
func (r *Registry) Parse(res *source.Resource) (*node.Node, string, error) {
	all := r.Parsers()
	if len(all) == 0 {
		return nil, "", &referrors.UnparsableContentError{URL: res.URL, Message: "no parsers registered"}
	}
	first := -1
	for i, p := range all {
		if p.CanParse(res) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, "", &referrors.UnparsableContentError{URL: res.URL, Message: "no parser accepts the content"}
	}

	p := all[first]
	n, err := p.Parse(res)
	if err == nil {
		return n, p.Name(), nil
	}
	if _, isJSON := p.(JSON); isJSON {
		for _, q := range all[first+1:] {
			if _, isYAML := q.(YAML); isYAML && q.CanParse(res) {
				if n, yerr := q.Parse(res); yerr == nil {
					return n, q.Name(), nil
				}
				break
			}
		}
	}
	return nil, "", unparsable(res, p.Name(), err)
}

func unparsable(res *source.Resource, parser string, err error) error {
	var parseErr *referrors.UnparsableContentError
	if errors.As(err, &parseErr) {
		out := *parseErr
		if out.URL == "" {
			out.URL = res.URL
		}
		if out.Parser == "" {
			out.Parser = parser
		}
		return &out
	}
	return &referrors.UnparsableContentError{URL: res.URL, Parser: parser, Cause: err}
}

// sniffed is the format guessed from content alone.
type sniffed int

const (
	sniffedNone sniffed = iota
	sniffedJSON
	sniffedYAML
)

// sniff guesses the format of a resource whose extension and media type say
// nothing about it. Content starting with '{' or '[' is JSON, any other
// non-empty UTF-8 text is YAML.
func sniff(res *source.Resource) sniffed {
	if !undeclared(res) {
		return sniffedNone
	}
	data := bytes.TrimPrefix(res.Data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimLeft(data, " \t\r\n")
	switch {
	case len(data) == 0 || !utf8.Valid(data):
		return sniffedNone
	case data[0] == '{' || data[0] == '[':
		return sniffedJSON
	default:
		return sniffedYAML
	}
}

// undeclared reports whether neither the extension nor the media type of res
// names a format the built-in parsers know. text/plain is treated as no
// declaration, since servers use it for anything textual.
func undeclared(res *source.Resource) bool {
	switch ext := Extension(res); {
	case ext == ".json", ext == ".yaml", ext == ".yml", textExtensions[ext], binaryExtensions[ext]:
		return false
	}
	mt := httputil.MediaType(res.ContentType)
	return mt == "" || mt == "text/plain"
}

// Extension returns the lowercased file extension of a resource URL path,
// including the dot, or "".
func Extension(res *source.Resource) string {
	p := res.URL
	if u, err := url.Parse(res.URL); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}
