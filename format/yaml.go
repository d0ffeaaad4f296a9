package format

import (
	"regexp"
	"strconv"

	"github.com/erraggy/refparser/internal/httputil"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/referrors"
	"github.com/erraggy/refparser/source"
	"go.yaml.in/yaml/v4"
)

// YAML parses YAML documents. Being a superset of JSON, it also claims
// what the JSON parser claims by extension or sniffing, so the registry can
// retry JSON failures with it.
type YAML struct{}

// Name implements Parser.
func (YAML) Name() string { return "yaml" }

// CanParse claims ".yaml", ".yml" and ".json" resources, YAML media types,
// and any undeclared non-empty text.
func (YAML) CanParse(res *source.Resource) bool {
	switch Extension(res) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return httputil.IsYAMLMediaType(res.ContentType) || sniff(res) != sniffedNone
}

// Parse implements Parser. Only the first document of a stream is used.
func (YAML) Parse(res *source.Resource) (*node.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(res.Data, &doc); err != nil {
		out := &referrors.UnparsableContentError{URL: res.URL, Parser: "yaml", Cause: err}
		out.Line = yamlErrorLine(err)
		return nil, out
	}
	n, err := node.FromYAML(&doc)
	if err != nil {
		return nil, &referrors.UnparsableContentError{URL: res.URL, Parser: "yaml", Cause: err}
	}
	return n, nil
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// yamlErrorLine extracts the line number yaml reports in its error text.
func yamlErrorLine(err error) int {
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	line, _ := strconv.Atoi(m[1])
	return line
}
