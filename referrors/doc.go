// Package referrors provides structured error types for refparser.
//
// Import path: github.com/erraggy/refparser/referrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between a reference that is syntactically
// broken, a source nobody can fetch, content nobody can parse, and a cycle
// rejected by the dereferencer.
//
// # Error Types
//
//   - [MalformedReferenceError]: bad JSON Pointer / JSON Reference syntax
//   - [UnresolvableSourceError]: no resolver handles a URL, or the fetch failed
//   - [UnparsableContentError]: no parser accepts fetched content, or parsing failed
//   - [MissingPointerError]: a pointer names a location that does not exist
//   - [ReferenceResolutionError]: a $ref site whose target could not be resolved
//   - [CircularReferenceError]: a cycle found under the "error" circular policy
//   - [ResourceLimitError]: depth, size or count limits exceeded
//   - [ConfigError]: invalid options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrMalformedReference], [ErrUnresolvableSource], [ErrUnparsableContent],
//     [ErrMissingPointer], [ErrReferenceResolution], [ErrCircularReference],
//     [ErrResourceLimit], [ErrConfig]
//   - [ErrPathTraversal]: matches [UnresolvableSourceError] with IsPathTraversal=true
//
// A [ReferenceResolutionError] also matches the sentinel of its cause, so a
// caller can ask whether a broken $ref failed because of an unresolvable
// source without unwrapping by hand:
//
//	_, err := resolver.ResolveWithOptions(resolver.WithFilePath("api.yaml"))
//	if errors.Is(err, referrors.ErrUnresolvableSource) {
//	    // a referenced URL has no resolver
//	}
//
// # Collected Errors
//
// When reference failures are collected rather than fatal, they are returned
// as an [ErrorList]. It implements Unwrap() []error, so errors.Is and errors.As
// inspect every member:
//
//	var refErr *referrors.ReferenceResolutionError
//	if errors.As(err, &refErr) {
//	    fmt.Printf("broken $ref at %s\n", refErr.AtPointer)
//	}
package referrors
