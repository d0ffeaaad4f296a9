package mcpserver

import (
	"context"
	"sort"

	"github.com/erraggy/refparser/internal/cliutil"
	"github.com/erraggy/refparser/resolver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type bundleInput struct {
	Spec      specInput `json:"spec"                jsonschema:"The root document to bundle"`
	Namespace string    `json:"namespace,omitempty" jsonschema:"Root member that holds embedded documents (default $bundled)"`
	Format    string    `json:"format,omitempty"    jsonschema:"Output format: json (default) or yaml"`
	Output    string    `json:"output,omitempty"    jsonschema:"File path to write the bundled document. If omitted the document is returned inline."`
}

type bundleSlot struct {
	URL  string `json:"url"`
	Slot string `json:"slot"`
}

type bundleOutput struct {
	Root      string       `json:"root"`
	Namespace string       `json:"namespace"`
	Slots     []bundleSlot `json:"slots,omitempty"`
	Format    string       `json:"format"`
	Document  string       `json:"document,omitempty"`
	WrittenTo string       `json:"written_to,omitempty"`
}

func handleBundle(ctx context.Context, _ *mcp.CallToolRequest, input bundleInput) (*mcp.CallToolResult, bundleOutput, error) {
	format, err := cliutil.ParseFormat(input.Format)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}
	var extra []resolver.Option
	if input.Namespace != "" {
		extra = append(extra, resolver.WithBundleNamespace(input.Namespace))
	}
	opts, err := input.Spec.options(ctx, extra...)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	result, err := resolver.BundleWithOptions(opts...)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	output := bundleOutput{
		Root:      result.Graph.Root,
		Namespace: result.Namespace,
		Slots:     makeSlice[bundleSlot](len(result.Slots)),
		Format:    format,
	}
	for u, slot := range result.Slots {
		output.Slots = append(output.Slots, bundleSlot{URL: u, Slot: slot})
	}
	sort.Slice(output.Slots, func(i, j int) bool {
		return output.Slots[i].Slot < output.Slots[j].Slot
	})

	data, err := cliutil.Render(result.Value, format)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}
	if input.Output != "" {
		written, err := cliutil.WriteOutput(input.Output, data)
		if err != nil {
			return errResult(err), bundleOutput{}, nil
		}
		output.WrittenTo = written
	} else {
		output.Document = string(data)
	}
	return nil, output, nil
}
