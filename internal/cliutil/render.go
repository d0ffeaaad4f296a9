package cliutil

import (
	"fmt"
	"strings"

	"github.com/erraggy/refparser/node"
	"go.yaml.in/yaml/v4"
)

// Output formats accepted by Render.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ParseFormat normalizes an output format name. Empty means JSON.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format %q; valid values: %s, %s", s, FormatJSON, FormatYAML)
	}
}

// Render serializes v in the given format, keeping mapping key order.
// JSON output is indented with two spaces and ends with a newline.
func Render(v *node.Node, format string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if f == FormatYAML {
		return yaml.Marshal(v.ToYAML())
	}
	data, err := v.MarshalIndentJSON("", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
