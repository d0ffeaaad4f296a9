// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/refparser/pointer"
)

// PetStoreFiles returns a small multi-file document tree. The root references
// a YAML schema file, which references a JSON file in a subdirectory, which
// points back at the YAML file to close a cycle.
func PetStoreFiles() map[string]string {
	return map[string]string{
		"root.yaml": `openapi: 3.1.0
paths:
  /pets:
    get:
      responses:
        "200":
          content:
            application/json:
              schema:
                $ref: "schemas/pet.yaml#/Pet"
components:
  schemas:
    Error:
      type: object
      properties:
        message:
          type: string
`,
		"schemas/pet.yaml": `Pet:
  type: object
  properties:
    name:
      type: string
    owner:
      $ref: "owners/owner.json#/Owner"
`,
		"schemas/owners/owner.json": `{
  "Owner": {
    "type": "object",
    "properties": {
      "pets": {"type": "array", "items": {"$ref": "../pet.yaml#/Pet"}}
    }
  }
}`,
	}
}

// WriteFiles writes files, keyed by slash-separated relative path, under a
// fresh temporary directory and returns the directory.
// The directory is automatically cleaned up when the test completes (via t.TempDir).
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(data), 0o600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// FileURL returns the canonical URL of the file name under dir.
func FileURL(t *testing.T, dir, name string) string {
	t.Helper()

	u, err := pointer.Canonicalize(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("Failed to canonicalize %s: %v", name, err)
	}
	return u
}

// WriteTempYAML marshals a document to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary YAML file: %v", err)
	}

	return tmpFile
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary JSON file: %v", err)
	}

	return tmpFile
}
