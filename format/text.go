package format

import (
	"unicode/utf8"

	"github.com/erraggy/refparser/internal/httputil"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/source"
)

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".htm": true, ".html": true,
	".csv": true, ".xml": true, ".css": true, ".js": true, ".text": true,
}

// Text returns text content as a string node.
type Text struct{}

// Name implements Parser.
func (Text) Name() string { return "text" }

// CanParse claims text-like extensions and text/* media types other than YAML.
func (Text) CanParse(res *source.Resource) bool {
	if textExtensions[Extension(res)] {
		return true
	}
	return httputil.IsTextMediaType(res.ContentType) && !httputil.IsYAMLMediaType(res.ContentType)
}

// Parse implements Parser. Content that is not valid UTF-8 is rejected.
func (Text) Parse(res *source.Resource) (*node.Node, error) {
	if !utf8.Valid(res.Data) {
		return nil, errNotText
	}
	return node.NewString(string(res.Data)), nil
}
