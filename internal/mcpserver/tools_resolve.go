package mcpserver

import (
	"context"
	"errors"

	"github.com/erraggy/refparser/referrors"
	"github.com/erraggy/refparser/resolver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type resolveInput struct {
	Spec         specInput `json:"spec"                    jsonschema:"The root document to resolve"`
	OnUnresolved string    `json:"on_unresolved,omitempty" jsonschema:"Broken reference policy: fail-fast (default) or collect-all"`
	LocalOnly    bool      `json:"local_only,omitempty"    jsonschema:"Skip references to other documents"`
	Offset       int       `json:"offset,omitempty"        jsonschema:"Skip the first N edges (for pagination)"`
	Limit        int       `json:"limit,omitempty"         jsonschema:"Maximum number of edges to return (default 100)"`
}

type resolveDocument struct {
	URL         string `json:"url"`
	Parser      string `json:"parser"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size"`
	Digest      string `json:"digest"`
}

type resolveEdge struct {
	From     string `json:"from"`
	Ref      string `json:"ref"`
	To       string `json:"to"`
	External bool   `json:"external,omitempty"`
}

type resolveOutput struct {
	Root          string            `json:"root"`
	Documents     []resolveDocument `json:"documents"`
	TotalEdges    int               `json:"total_edges"`
	ExternalEdges int               `json:"external_edges"`
	Returned      int               `json:"returned"`
	Edges         []resolveEdge     `json:"edges,omitempty"`
	Unresolved    []string          `json:"unresolved,omitempty"`
}

func handleResolve(ctx context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	var extra []resolver.Option
	if input.OnUnresolved != "" {
		policy, err := resolver.ParseUnresolvedPolicy(input.OnUnresolved)
		if err != nil {
			return errResult(err), resolveOutput{}, nil
		}
		extra = append(extra, resolver.WithOnUnresolved(policy))
	}
	if input.LocalOnly {
		extra = append(extra, resolver.WithLocalOnly(true))
	}

	result, err := input.Spec.resolve(ctx, extra...)
	if result == nil {
		return errResult(err), resolveOutput{}, nil
	}
	var list referrors.ErrorList
	if err != nil && !errors.As(err, &list) {
		return errResult(err), resolveOutput{}, nil
	}

	g := result.Graph
	output := resolveOutput{
		Root:       g.Root,
		Documents:  makeSlice[resolveDocument](len(g.Documents)),
		TotalEdges: len(g.Edges),
	}
	for _, u := range g.Documents {
		doc, ok := g.Store.Get(u)
		if !ok {
			continue
		}
		output.Documents = append(output.Documents, resolveDocument{
			URL:         doc.URL,
			Parser:      doc.Parser,
			ContentType: doc.ContentType,
			Size:        len(doc.Data),
			Digest:      doc.Digest,
		})
	}

	edges := makeSlice[resolveEdge](len(g.Edges))
	for _, e := range g.Edges {
		if e.IsExternal() {
			output.ExternalEdges++
		}
		edges = append(edges, resolveEdge{
			From:     e.From(),
			Ref:      e.Ref,
			To:       e.To(),
			External: e.IsExternal(),
		})
	}
	output.Edges = paginate(edges, input.Offset, input.Limit)
	output.Returned = len(output.Edges)

	for _, w := range result.Warnings {
		output.Unresolved = append(output.Unresolved, sanitizeError(errors.New(w)))
	}
	return nil, output, nil
}
