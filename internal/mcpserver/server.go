// Package mcpserver exposes the resolver pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/refparser"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `refparser MCP server: resolves, bundles and dereferences $ref pointers across JSON and YAML documents.

Every tool takes a spec object with exactly one of file, url or content. Inline content resolves relative references against base_url when given, otherwise against mem:///root.

Configuration: All defaults are configurable via REFPARSER_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- REFPARSER_RESOLVE_HTTP (default: true): follow http(s) references
- REFPARSER_ALLOW_PRIVATE_IPS (default: false): allow fetching private, loopback and link-local addresses
- REFPARSER_ROOT_DIR: confine file references to a directory
- REFPARSER_CONCURRENCY (default: 8): parallel document fetches
- REFPARSER_MAX_DOCUMENTS (default: 10000): documents loaded per call
- REFPARSER_MAX_FILE_SIZE (default: 10MB): bytes per fetched document
- REFPARSER_MAX_REF_DEPTH (default: 100): nested substitutions while dereferencing
- REFPARSER_MAX_INLINE_SIZE (default: 10MB): bytes of inline content
- REFPARSER_CIRCULAR: default circular policy for dereference (ignore, produce-reference-object, error)
- REFPARSER_EDGE_LIMIT (default: 100): default result limit for resolve

Nothing is cached between calls; each call loads its documents fresh.`

// Run starts the MCP server on stdio and blocks until the client disconnects
// or ctx is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "refparser", Version: refparser.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve every $ref in a JSON or YAML document and the documents it references. Returns the loaded documents (URL, parser, size, BLAKE3 digest) and the reference edges in depth-first order. Use on_unresolved=collect-all to report every broken reference instead of stopping at the first. Use offset/limit to paginate through edges; the default limit is configurable via REFPARSER_EDGE_LIMIT.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bundle",
		Description: "Bundle a document and everything it references into one self-contained document. External documents are embedded under a namespace member of the root (default $bundled) and their references are rewritten to local pointers. Cycles survive as references. Use format=yaml for YAML output and output to write to a file instead of returning inline.",
	}, handleBundle)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dereference",
		Description: "Replace every $ref in a document with the value it points to, following references across files and URLs. Cycles are handled per the circular policy: produce-reference-object (default, keeps a local $ref at the cycle), ignore (leaves the original $ref) or error. Use external_only=true to inline only references that leave the root document. Returns the output paths where cycles were cut.",
	}, handleDereference)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_ref",
		Description: "Look up the value a single reference points to, relative to the root document (e.g. #/components/schemas/Pet or common.yaml#/Error). References met along the pointer are followed. Also reports whether the document graph contains cycles.",
	}, handleGetRef)
}

func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.EdgeLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths that may leak local layout.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

// sanitizeError strips absolute paths from error messages before they are
// returned to the client.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
