package mcpserver

import (
	"context"

	"github.com/erraggy/refparser/internal/cliutil"
	"github.com/erraggy/refparser/resolver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type dereferenceInput struct {
	Spec         specInput `json:"spec"                    jsonschema:"The root document to dereference"`
	Circular     string    `json:"circular,omitempty"      jsonschema:"Cycle policy: produce-reference-object (default), ignore or error"`
	Siblings     string    `json:"siblings,omitempty"      jsonschema:"Members next to $ref: merge (default) or ignore"`
	ExternalOnly bool      `json:"external_only,omitempty" jsonschema:"Only inline references that leave the root document"`
	Format       string    `json:"format,omitempty"        jsonschema:"Output format: json (default) or yaml"`
	Output       string    `json:"output,omitempty"        jsonschema:"File path to write the dereferenced document. If omitted the document is returned inline."`
}

type dereferenceOutput struct {
	Root      string   `json:"root"`
	Documents int      `json:"documents"`
	Circular  []string `json:"circular,omitempty"`
	Format    string   `json:"format"`
	Document  string   `json:"document,omitempty"`
	WrittenTo string   `json:"written_to,omitempty"`
}

func handleDereference(ctx context.Context, _ *mcp.CallToolRequest, input dereferenceInput) (*mcp.CallToolResult, dereferenceOutput, error) {
	format, err := cliutil.ParseFormat(input.Format)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}
	var extra []resolver.Option
	if input.Circular != "" {
		policy, err := resolver.ParseCircularPolicy(input.Circular)
		if err != nil {
			return errResult(err), dereferenceOutput{}, nil
		}
		extra = append(extra, resolver.WithCircularPolicy(policy))
	}
	if input.Siblings != "" {
		policy, err := resolver.ParseSiblingPolicy(input.Siblings)
		if err != nil {
			return errResult(err), dereferenceOutput{}, nil
		}
		extra = append(extra, resolver.WithSiblingPolicy(policy))
	}
	if input.ExternalOnly {
		extra = append(extra, resolver.WithExternalOnly(true))
	}
	opts, err := input.Spec.options(ctx, extra...)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	result, err := resolver.DereferenceWithOptions(opts...)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	output := dereferenceOutput{
		Root:      result.Graph.Root,
		Documents: len(result.Graph.Documents),
		Circular:  result.Circular,
		Format:    format,
	}
	data, err := cliutil.Render(result.Value, format)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}
	if input.Output != "" {
		written, err := cliutil.WriteOutput(input.Output, data)
		if err != nil {
			return errResult(err), dereferenceOutput{}, nil
		}
		output.WrittenTo = written
	} else {
		output.Document = string(data)
	}
	return nil, output, nil
}
