package format

import (
	"errors"
	"testing"

	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/referrors"
	"github.com/erraggy/refparser/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func res(url, contentType, data string) *source.Resource {
	return &source.Resource{URL: url, ContentType: contentType, Data: []byte(data)}
}

func TestRegistry_Dispatch(t *testing.T) {
	reg := NewDefaultRegistry()

	tests := []struct {
		name       string
		resource   *source.Resource
		wantParser string
		wantKind   node.Kind
	}{
		{"json by extension", res("mem:///a.json", "", `{"a":1}`), "json", node.KindMapping},
		{"yaml by extension", res("mem:///a.yaml", "", "a: 1"), "yaml", node.KindMapping},
		{"yml by extension", res("mem:///a.yml", "", "- 1"), "yaml", node.KindSequence},
		{"json media type", res("https://x/spec", "application/schema+json", `[1]`), "json", node.KindSequence},
		{"yaml media type", res("https://x/spec", "application/yaml", "a: 1"), "yaml", node.KindMapping},
		{"yaml content in .json falls back", res("mem:///a.json", "", "a: 1"), "yaml", node.KindMapping},
		{"text extension", res("mem:///README.md", "", "# Title\n"), "text", node.KindString},
		{"text media type", res("https://x/page", "text/html", "<p>hi</p>"), "text", node.KindString},
		{"binary extension", res("mem:///logo.png", "", "\x89PNG"), "binary", node.KindBinary},
		{"binary media type", res("https://x/blob", "application/octet-stream", "abc"), "binary", node.KindBinary},
		{"invalid utf-8 is binary", res("mem:///data", "", "\xff\xfe\x00"), "binary", node.KindBinary},
		{"extensionless json is sniffed", res("mem:///root", "", `{"a":{"$ref":"#/b"}}`), "json", node.KindMapping},
		{"extensionless array is sniffed", res("mem:///root", "", "\n  [1, 2]"), "json", node.KindSequence},
		{"extensionless yaml is sniffed", res("mem:///root", "", "a:\n  b: 1\n"), "yaml", node.KindMapping},
		{"text/plain json is sniffed", res("https://x/schema", "text/plain; charset=utf-8", `{"a":1}`), "json", node.KindMapping},
		{"unknown extension yaml is sniffed", res("mem:///pet.schema", "", "type: object\n"), "yaml", node.KindMapping},
		{"flow yaml sniffed as json retried as yaml", res("mem:///root", "", "{a: 1}"), "yaml", node.KindMapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, parser, err := reg.Parse(tt.resource)
			require.NoError(t, err)
			assert.Equal(t, tt.wantParser, parser)
			assert.Equal(t, tt.wantKind, n.Kind)
		})
	}
}

func TestRegistry_RegistrationOrderWins(t *testing.T) {
	reg := NewRegistry(Text{}, JSON{})
	n, parser, err := reg.Parse(res("mem:///a.txt", "application/json", `{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, "text", parser)
	assert.Equal(t, node.KindString, n.Kind)

	reg.Register(Binary{})
	assert.Len(t, reg.Parsers(), 3)
}

func TestRegistry_Unparsable(t *testing.T) {
	reg := NewRegistry(JSON{})
	_, _, err := reg.Parse(res("mem:///a.json", "", "{\n  \"a\": ,\n}"))
	require.Error(t, err)

	var parseErr *referrors.UnparsableContentError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "mem:///a.json", parseErr.URL)
	assert.Equal(t, "json", parseErr.Parser)
	assert.Equal(t, 2, parseErr.Line)
	assert.True(t, errors.Is(err, referrors.ErrUnparsableContent))
}

func TestRegistry_MalformedExtensionlessContent(t *testing.T) {
	reg := NewDefaultRegistry()

	tests := []struct {
		name       string
		resource   *source.Resource
		wantParser string
	}{
		{"truncated json", res("mem:///root", "", `{"a": {"$ref": "#/b"`), "json"},
		{"truncated json behind text/plain", res("https://x/other", "text/plain", `{"x": 1`), "json"},
		{"broken yaml", res("mem:///root", "", "a: [unclosed\n"), "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _, err := reg.Parse(tt.resource)
			require.Error(t, err)
			assert.Nil(t, n)
			var parseErr *referrors.UnparsableContentError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.wantParser, parseErr.Parser)
			assert.Equal(t, tt.resource.URL, parseErr.URL)
			assert.True(t, errors.Is(err, referrors.ErrUnparsableContent))
		})
	}
}

func TestRegistry_NoClaimant(t *testing.T) {
	reg := NewDefaultRegistry()
	for _, r := range []*source.Resource{
		res("mem:///root", "", ""),
		res("mem:///root", "", " \n\t"),
	} {
		_, _, err := reg.Parse(r)
		require.Error(t, err)
		assert.True(t, errors.Is(err, referrors.ErrUnparsableContent))
		assert.Contains(t, err.Error(), "no parser accepts the content")
	}

	// Without the structured parsers, undeclared text has no claimant either.
	_, _, err := NewRegistry(Text{}, Binary{}).Parse(res("mem:///root", "", `{"a":1}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, referrors.ErrUnparsableContent))
}

func TestRegistry_FirstClaimantOnly(t *testing.T) {
	// Text claims ".md" and fails on invalid UTF-8; Binary would accept the
	// bytes but is not consulted.
	reg := NewRegistry(Text{}, Binary{})
	_, _, err := reg.Parse(res("mem:///notes.md", "", "\xff\xfe"))
	require.Error(t, err)
	var parseErr *referrors.UnparsableContentError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "text", parseErr.Parser)

	// The JSON to YAML retry needs a YAML parser that claims the resource.
	_, _, err = NewRegistry(JSON{}, Text{}).Parse(res("mem:///a.json", "", "a: 1"))
	require.Error(t, err)
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "json", parseErr.Parser)
}

func TestRegistry_YAMLErrorLine(t *testing.T) {
	reg := NewRegistry(YAML{})
	_, _, err := reg.Parse(res("mem:///a.yaml", "", "a: 1\nb: [unclosed\n"))
	require.Error(t, err)
	var parseErr *referrors.UnparsableContentError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "yaml", parseErr.Parser)
	assert.Equal(t, "mem:///a.yaml", parseErr.URL)
}

func TestRegistry_Empty(t *testing.T) {
	_, _, err := NewRegistry().Parse(res("mem:///a", "", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parsers registered")
}

func TestDecodeJSON(t *testing.T) {
	n, err := DecodeJSON([]byte(`{"z":1.50,"a":[true,null,"s"],"r":{"$ref":"#/z","title":"t"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "r"}, n.Keys())

	z, _ := n.Get("z")
	assert.Equal(t, "1.50", z.Text, "number literal preserved")

	r, _ := n.Get("r")
	require.Equal(t, node.KindReference, r.Kind)
	assert.Equal(t, "#/z", r.Ref)
	assert.Equal(t, []string{"title"}, r.Keys())

	out, err := n.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1.50,"a":[true,null,"s"],"r":{"$ref":"#/z","title":"t"}}`, string(out))
}

func TestDecodeJSON_Errors(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a":1} {"b":2}`, `[1,]`, `{"a" 1}`} {
		t.Run(in, func(t *testing.T) {
			_, err := DecodeJSON([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("ab\ncd\nef")
	line, col := lineColumn(data, 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
	line, col = lineColumn(data, 100)
	assert.Equal(t, 3, line)
	assert.Equal(t, 3, col)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".json", Extension(res("https://x/a/B.JSON?x=1", "", "")))
	assert.Equal(t, "", Extension(res("mem:///root", "", "")))
}
