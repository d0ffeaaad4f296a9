package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/refparser/referrors"
)

func TestRefs(t *testing.T) {
	g := buildGraph(t, map[string]string{
		"mem:///root.json":  `{"a": {"$ref": "other.json#/x"}, "local": 1}`,
		"mem:///other.json": `{"x": {"y": "deep"}}`,
	}, "mem:///root.json")
	refs := g.Refs()

	assert.Equal(t, []string{"mem:///root.json", "mem:///other.json"}, refs.Paths())
	values := refs.Values()
	require.Len(t, values, 2)
	assert.Equal(t, `{"x":{"y":"deep"}}`, marshal(t, values["mem:///other.json"]))

	v, err := refs.Get("other.json#/x/y")
	require.NoError(t, err)
	assert.Equal(t, "deep", v.Text)

	v, err = refs.Get("#/a/y")
	require.NoError(t, err)
	assert.Equal(t, "deep", v.Text)

	assert.True(t, refs.Exists("#/local"))
	assert.False(t, refs.Exists("#/nope"))
	assert.False(t, refs.Exists("unknown.json"))

	_, err = refs.Get("#not-a-pointer")
	assert.True(t, errors.Is(err, referrors.ErrMalformedReference))

	assert.False(t, refs.Circular())
}

func TestRefs_Circular(t *testing.T) {
	g := buildGraph(t, map[string]string{
		"mem:///root.json": `{"tree": {"children": {"items": {"$ref": "#/tree"}}}}`,
	}, "mem:///root.json")
	assert.True(t, g.Refs().Circular())
}
