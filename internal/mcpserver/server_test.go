package mcpserver

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/erraggy/refparser/referrors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	edges := []string{"#/a", "#/b", "#/c", "#/d", "#/e"}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{"default limit", 0, 0, edges},
		{"negative limit uses default", 0, -5, edges},
		{"first page", 0, 2, []string{"#/a", "#/b"}},
		{"middle page", 2, 2, []string{"#/c", "#/d"}},
		{"short last page", 4, 2, []string{"#/e"}},
		{"limit past end", 3, 10, []string{"#/d", "#/e"}},
		{"offset at end", 5, 2, nil},
		{"negative offset", -1, 2, nil},
		{"huge limit", 1, math.MaxInt, []string{"#/b", "#/c", "#/d", "#/e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(edges, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	assert.Nil(t, paginate([]string(nil), 0, 10))
	assert.Nil(t, paginate([]string{}, 0, 10))
}

func TestPaginate_ConfiguredLimits(t *testing.T) {
	edges := make([]int, 2*cfg.MaxLimit)
	for i := range edges {
		edges[i] = i
	}

	assert.Len(t, paginate(edges, 0, 0), cfg.EdgeLimit, "zero limit falls back to REFPARSER_EDGE_LIMIT")
	assert.Len(t, paginate(edges, 0, len(edges)), cfg.MaxLimit, "limit is capped at REFPARSER_MAX_LIMIT")
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[string](0))

	s := makeSlice[string](3)
	require.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"absolute path",
			errors.New("open /home/user/specs/api.yaml: no such file or directory"),
			"open <path>: no such file or directory",
		},
		{
			"file URL",
			&referrors.UnresolvableSourceError{URL: "file:///srv/specs/common.yaml", Message: "not found"},
			"unresolvable source: file://<path>: not found",
		},
		{
			"two paths",
			fmt.Errorf("%s references missing %s", "/tmp/root.json", "/tmp/defs.json"),
			"<path> references missing <path>",
		},
		{
			"no path",
			errors.New(`missing pointer "/definitions/Pet"`),
			`missing pointer "/definitions/Pet"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestErrResult(t *testing.T) {
	res := errResult(errors.New("reading /var/lib/specs/api.yaml failed"))
	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "reading <path> failed", text.Text)
}
