package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/erraggy/refparser/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSpecs writes a root document that references a sibling file and
// returns the root path.
func writeSpecs(t *testing.T) string {
	t.Helper()
	root := `{
  "pet": {"$ref": "common.yaml#/Pet"},
  "node": {"properties": {"next": {"$ref": "#/node"}}}
}`
	common := "Pet:\n  type: object\n  properties:\n    name:\n      type: string\n"
	dir := testutil.WriteFiles(t, map[string]string{"root.json": root, "common.yaml": common})
	return filepath.Join(dir, "root.json")
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"valid text", FormatText, false},
		{"valid json", FormatJSON, false},
		{"valid yaml", FormatYAML, false},
		{"invalid format", "xml", true},
		{"empty format", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocumentFormat(t *testing.T) {
	assert.NoError(t, ValidateDocumentFormat(FormatJSON))
	assert.NoError(t, ValidateDocumentFormat(FormatYAML))
	assert.Error(t, ValidateDocumentFormat(FormatText))
}

func TestOutputStructured(t *testing.T) {
	data := map[string]int{"edges": 2}

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputStructured(&buf, data, FormatJSON))
		assert.Equal(t, "{\n  \"edges\": 2\n}\n", buf.String())
	})

	t.Run("yaml format", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputStructured(&buf, data, FormatYAML))
		assert.Equal(t, "edges: 2\n", buf.String())
	})

	t.Run("invalid format", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, OutputStructured(&buf, data, FormatText))
	})
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")

	assert.NoError(t, ValidateOutputPath(filepath.Join(dir, "out.json"), input))
	assert.Error(t, ValidateOutputPath(input, input))
	assert.NoError(t, ValidateOutputPath(input, StdinFilePath))
	assert.NoError(t, ValidateOutputPath("out.json", "https://example.com/out.json"))
}

func TestFormatSpecPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatSpecPath(StdinFilePath))
	assert.Equal(t, "api.yaml", FormatSpecPath("api.yaml"))
}

func TestHeaderFlag(t *testing.T) {
	var h headerFlag
	assert.Empty(t, h.String())
	require.NoError(t, h.Set("Authorization: Bearer abc"))
	require.NoError(t, h.Set("X-Trace:1"))
	assert.Equal(t, "Bearer abc", h.header.Get("Authorization"))
	assert.Equal(t, "1", h.header.Get("X-Trace"))

	assert.Error(t, h.Set("no colon"))
	assert.Error(t, h.Set(": value"))
}

func TestResolveFlags_BaseURLRequiresStdin(t *testing.T) {
	f := &ResolveFlags{BaseURL: "file:///specs/", Concurrency: 1}
	_, err := f.options(context.Background(), "api.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--base-url")
}
