// Package cliutil holds the output helpers shared by the CLI commands and the
// MCP tools: rendering documents as JSON or YAML and writing them to disk.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/erraggy/refparser/internal/pathutil"
)

// Writef writes a formatted message to w. Write failures are reported on
// stderr instead of being returned, since there is nowhere better to send
// them from a CLI.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// WriteOutput writes a rendered document to path and returns the absolute
// path written. The path is checked with pathutil.SanitizeOutputPath first.
func WriteOutput(path string, data []byte) (string, error) {
	abs, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil { //nolint:gosec // G306: output documents are not secrets
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return abs, nil
}
