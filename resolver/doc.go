// Package resolver resolves, bundles and dereferences $ref pointers across
// a set of JSON and YAML documents.
//
// # Pipeline
//
// Resolution starts at a root document and produces a [Graph]: every
// document reachable through $ref, held in a [Store], plus one [Edge] per
// reference. Documents are fetched through a source.Registry and parsed
// through a format.Registry; each canonical URL is fetched at most once,
// even when many references to it are discovered concurrently.
//
// From a Graph, [Bundle] produces one self-contained document in which
// every external document lives under "#/$bundled/<slot>", and
// [Dereference] produces a value in which every reference is replaced by
// its target. Both are deterministic for a given input set.
//
// # Quick Start
//
//	result, err := resolver.DereferenceWithOptions(
//	    resolver.WithFilePath("openapi.yaml"),
//	    resolver.WithCircularPolicy(resolver.CircularIgnore),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := result.Value.MarshalIndentJSON("", "  ")
//	fmt.Println(string(out))
//
// # Cycles
//
// A reference whose target is already being expanded is a cycle. The
// [CircularPolicy] chooses between leaving the $ref in place
// ([CircularIgnore]), substituting a node.KindCircular placeholder that
// points at the enclosing value ([CircularReferenceObject]), or failing
// with a *referrors.CircularReferenceError ([CircularError]). The output
// paths of all cut sites are reported in DereferenceResult.Circular.
//
// # Errors
//
// Under [FailFast] the first broken reference aborts resolution. Under
// [CollectAll] every broken reference is recorded and returned as a
// referrors.ErrorList alongside the partial graph; bundling and
// dereferencing are skipped for such graphs.
//
// # Security
//
// HTTP(S) references are only fetched with [WithResolveHTTPRefs].
// [WithSafeHTTP] additionally refuses private and loopback addresses, and
// [WithRootDir] confines file references to a directory.
package resolver
