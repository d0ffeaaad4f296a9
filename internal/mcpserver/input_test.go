package mcpserver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/refparser/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRootJSON = `{
  "definitions": {
    "pet": {"$ref": "common.json#/Pet"},
    "node": {
      "type": "object",
      "properties": {"next": {"$ref": "#/definitions/node"}}
    }
  },
  "paths": {"p": {"$ref": "#/definitions/pet"}}
}`

const testCommonJSON = `{"Pet": {"type": "object", "properties": {"name": {"type": "string"}}}}`

// writeTestSpecs writes the root and common documents into a temp dir and
// returns the root file path.
func writeTestSpecs(t *testing.T) string {
	t.Helper()
	dir := testutil.WriteFiles(t, map[string]string{"root.json": testRootJSON, "common.json": testCommonJSON})
	return filepath.Join(dir, "root.json")
}

func TestSpecInput_ResolveFile(t *testing.T) {
	input := specInput{File: writeTestSpecs(t)}
	result, err := input.resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Graph.Documents, 2)
	assert.True(t, strings.HasSuffix(result.Graph.Root, "/root.json"))
}

func TestSpecInput_ResolveContent(t *testing.T) {
	input := specInput{Content: "a: 1\nb:\n  $ref: '#/a'\n"}
	result, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mem:///root", result.Graph.Root)
	assert.Len(t, result.Graph.Edges, 1)
}

func TestSpecInput_ResolveContentWithBaseURL(t *testing.T) {
	root := writeTestSpecs(t)
	input := specInput{
		Content: `{"pet": {"$ref": "common.json#/Pet"}}`,
		BaseURL: "file://" + filepath.ToSlash(filepath.Join(filepath.Dir(root), "inline.json")),
	}
	result, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Graph.Documents, 2)
}

func TestSpecInput_ResolveNoneProvided(t *testing.T) {
	input := specInput{}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveMultipleProvided(t *testing.T) {
	input := specInput{File: "foo.yaml", Content: "bar"}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_BaseURLRequiresContent(t *testing.T) {
	input := specInput{File: "foo.yaml", BaseURL: "file:///specs/"}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url is only valid with content")
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	input := specInput{File: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	saved := cfg.MaxInlineSize
	cfg.MaxInlineSize = 8
	t.Cleanup(func() { cfg.MaxInlineSize = saved })

	input := specInput{Content: `{"a": "0123456789"}`}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum 8 bytes")
}

func TestSpecInput_RootDirConfinesFiles(t *testing.T) {
	saved := cfg.RootDir
	cfg.RootDir = t.TempDir()
	t.Cleanup(func() { cfg.RootDir = saved })

	input := specInput{File: writeTestSpecs(t)}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
}
