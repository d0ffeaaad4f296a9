package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/refparser/internal/cliutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type getRefInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The root document the reference is relative to"`
	Ref    string    `json:"ref"              jsonschema:"Reference to look up, e.g. #/components/schemas/Pet"`
	Format string    `json:"format,omitempty" jsonschema:"Output format for the value: json (default) or yaml"`
}

type getRefOutput struct {
	Ref      string `json:"ref"`
	Exists   bool   `json:"exists"`
	Value    string `json:"value,omitempty"`
	Circular bool   `json:"circular"`
}

func handleGetRef(ctx context.Context, _ *mcp.CallToolRequest, input getRefInput) (*mcp.CallToolResult, getRefOutput, error) {
	if input.Ref == "" {
		return errResult(fmt.Errorf("ref is required")), getRefOutput{}, nil
	}
	format, err := cliutil.ParseFormat(input.Format)
	if err != nil {
		return errResult(err), getRefOutput{}, nil
	}

	result, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), getRefOutput{}, nil
	}

	refs := result.Graph.Refs()
	output := getRefOutput{
		Ref:      input.Ref,
		Circular: refs.Circular(),
	}
	value, err := refs.Get(input.Ref)
	if err != nil {
		return nil, output, nil
	}
	data, err := cliutil.Render(value, format)
	if err != nil {
		return errResult(err), getRefOutput{}, nil
	}
	output.Exists = true
	output.Value = string(data)
	return nil, output, nil
}
