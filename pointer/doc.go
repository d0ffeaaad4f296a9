// Package pointer implements JSON Pointer (RFC 6901) and JSON Reference
// parsing, formatting and URL canonicalisation.
//
// A reference string such as "schemas/pet.yaml#/components/schemas/Pet" is
// split by [Parse] into a [Reference]: the canonical absolute URL of the
// target document, resolved against the referrer's URL, and the unescaped
// pointer tokens inside it.
//
//	ref, err := pointer.Parse("pet.yaml#/Pet", "file:///specs/api.yaml")
//	// ref.BaseURL == "file:///specs/pet.yaml"
//	// ref.Tokens  == pointer.Tokens{"Pet"}
//
// [Canonicalize] gives every spelling of the same resource one identity:
// scheme and host are lowercased, default ports dropped, dot segments
// removed, the path NFC-normalised and the fragment stripped. Bare OS paths
// become file:// URLs. The in-memory scheme "mem" names documents that have
// no natural URL, e.g. "mem:///root".
package pointer
