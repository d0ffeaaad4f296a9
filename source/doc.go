// Package source provides the pluggable resolvers that fetch raw document
// bytes for a URL.
//
// A [Registry] holds an ordered list of [Resolver] implementations; the
// first one whose CanResolve accepts a URL reads it. Built-in resolvers:
//
//   - [MemoryResolver]: mem:// URLs and any URL pre-supplied with bytes
//   - [FileResolver]: file:// URLs, optionally confined to a root directory
//   - [HTTPResolver]: http:// and https:// URLs
//
// A URL no resolver accepts fails with *referrors.UnresolvableSourceError,
// as does any fetch failure, so callers can test with
// errors.Is(err, referrors.ErrUnresolvableSource).
//
// # Security
//
// [NewSafeHTTPClient] returns an HTTP client that refuses to connect to
// private, loopback and link-local addresses, for use when reference URLs
// come from untrusted input.
package source
