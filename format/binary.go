package format

import (
	"errors"
	"unicode/utf8"

	"github.com/erraggy/refparser/internal/httputil"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/source"
)

var errNotText = errors.New("format: content is not valid UTF-8 text")

var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".svgz": true, ".tif": true, ".tiff": true,
	".pdf": true, ".zip": true, ".gz": true, ".bin": true, ".wasm": true,
	".woff": true, ".woff2": true, ".mp3": true, ".mp4": true,
}

// Binary returns content unchanged as an opaque binary node.
type Binary struct{}

// Name implements Parser.
func (Binary) Name() string { return "binary" }

// CanParse claims binary extensions and media types, and any content that
// is not valid UTF-8.
func (Binary) CanParse(res *source.Resource) bool {
	if binaryExtensions[Extension(res)] || httputil.IsBinaryMediaType(res.ContentType) {
		return true
	}
	return !utf8.Valid(res.Data)
}

// Parse implements Parser. It never fails.
func (Binary) Parse(res *source.Resource) (*node.Node, error) {
	return node.NewBinary(res.Data), nil
}
