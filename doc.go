// Package refparser resolves, bundles and dereferences JSON Reference ($ref)
// pointers in JSON Schema and OpenAPI documents.
//
// The library is organised as a set of small packages, leaf first:
//
//   - node: the ordered, tagged document tree every parser produces
//   - pointer: JSON Pointer / JSON Reference parsing, formatting and URL canonicalisation
//   - source: pluggable resolvers that fetch raw bytes (file system, HTTP(S), in-memory)
//   - format: pluggable parsers that turn fetched bytes into nodes (JSON, YAML, text, binary)
//   - referrors: structured error types usable with errors.Is and errors.As
//   - resolver: the document store, resolution graph builder, bundler and dereferencer
//
// # Quick Start
//
// Build the resolution graph of a document and every document it references:
//
//	result, err := resolver.ResolveWithOptions(
//		resolver.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, edge := range result.Graph.Edges {
//		fmt.Printf("%s -> %s\n", edge.From(), edge.To())
//	}
//
// Bundle all external documents into one self-contained tree:
//
//	bundled, err := resolver.BundleWithOptions(
//		resolver.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, _ := bundled.Value.MarshalJSON()
//
// Replace every $ref with the value it points to:
//
//	deref, err := resolver.DereferenceWithOptions(
//		resolver.WithFilePath("openapi.yaml"),
//		resolver.WithCircularPolicy(resolver.CircularIgnore),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("circular sites:", deref.Circular)
//
// # Security
//
// HTTP(S) references are not fetched unless explicitly enabled with
// resolver.WithResolveHTTPRefs, and file references can be confined to a
// directory with resolver.WithRootDir.
package refparser
