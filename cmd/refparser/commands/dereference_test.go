package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDereferenceFlags(t *testing.T) {
	fs, flags := SetupDereferenceFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Equal(t, "produce-reference-object", flags.Circular)
		assert.Equal(t, "merge", flags.Siblings)
		assert.Equal(t, 100, flags.MaxRefDepth)
		assert.False(t, flags.ExternalOnly)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"--circular", "ignore", "--siblings", "ignore", "--external-only", "--max-ref-depth", "5", "--exclude", "/a/*", "api.yaml"}
		require.NoError(t, fs.Parse(args))

		assert.Equal(t, "ignore", flags.Circular)
		assert.Equal(t, "ignore", flags.Siblings)
		assert.True(t, flags.ExternalOnly)
		assert.Equal(t, 5, flags.MaxRefDepth)
		assert.Equal(t, "/a/*", flags.Exclude)
	})
}

func TestHandleDereference_NoArgs(t *testing.T) {
	err := HandleDereference([]string{})
	assert.Error(t, err)
}

func TestHandleDereference_Help(t *testing.T) {
	err := HandleDereference([]string{"--help"})
	assert.NoError(t, err)
}

func TestHandleDereference_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flat.json")
	require.NoError(t, HandleDereference([]string{"-q", "-o", out, writeSpecs(t)}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	pet := doc["pet"].(map[string]any)
	assert.Equal(t, "object", pet["type"])
	next := doc["node"].(map[string]any)["properties"].(map[string]any)["next"]
	assert.Equal(t, map[string]any{"$ref": "#/node"}, next)
}

func TestHandleDereference_CircularError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flat.json")
	err := HandleDereference([]string{"-q", "--circular", "error", "-o", out, writeSpecs(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular")
	assert.NoFileExists(t, out)
}

func TestHandleDereference_Exclude(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flat.yaml")
	require.NoError(t, HandleDereference([]string{"-q", "--format", "yaml", "--exclude", "/pet", "-o", out, writeSpecs(t)}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "common.yaml#/Pet")
}

func TestHandleDereference_InvalidPolicies(t *testing.T) {
	root := writeSpecs(t)
	tests := []struct {
		name string
		args []string
	}{
		{"circular", []string{"--circular", "maybe", root}},
		{"siblings", []string{"--siblings", "append", root}},
		{"exclude", []string{"--exclude", "[", root}},
		{"format", []string{"--format", "xml", root}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, HandleDereference(tt.args))
		})
	}
}

func TestExcludeMatcher(t *testing.T) {
	m, err := excludeMatcher("")
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = excludeMatcher("/paths/*, /definitions/Pet")
	require.NoError(t, err)
	assert.True(t, m("/paths/users"))
	assert.True(t, m("/definitions/Pet"))
	assert.False(t, m("/paths/users/get"))
	assert.False(t, m("/definitions/Owner"))
}
