package pointer

import (
	"net/url"
	"strings"

	"github.com/erraggy/refparser/referrors"
)

// Reference is a parsed JSON Reference.
type Reference struct {
	// BaseURL is the canonical URL of the target document. Empty means the
	// document containing the reference.
	BaseURL string
	// Tokens address the target inside that document.
	Tokens Tokens
}

// IsLocal reports whether r points into the referring document itself.
func (r Reference) IsLocal() bool {
	return r.BaseURL == ""
}

// DocumentURL returns the URL of the target document, given the URL of the
// document holding the reference.
func (r Reference) DocumentURL(referrerURL string) string {
	if r.BaseURL == "" {
		return referrerURL
	}
	return r.BaseURL
}

// Pointer returns the escaped JSON Pointer of the target.
func (r Reference) Pointer() string {
	return r.Tokens.String()
}

// String formats r; see Format.
func (r Reference) String() string {
	return Format(r)
}

// Parse parses a $ref value found in the document at referrerURL.
//
// The part before "#" is resolved against referrerURL and canonicalised; an
// empty part means the referring document. The fragment is percent-decoded
// and must be an empty or "/"-prefixed JSON Pointer, otherwise Parse fails
// with a *referrors.MalformedReferenceError.
func Parse(ref, referrerURL string) (Reference, error) {
	uriPart, fragment, _ := strings.Cut(ref, "#")

	var r Reference
	if uriPart != "" {
		base, err := ResolveRelative(referrerURL, uriPart)
		if err != nil {
			return Reference{}, &referrors.MalformedReferenceError{
				Ref:     ref,
				Message: "invalid document URL",
				Cause:   err,
			}
		}
		r.BaseURL = base
	}

	decoded, err := url.PathUnescape(fragment)
	if err != nil {
		return Reference{}, &referrors.MalformedReferenceError{
			Ref:     ref,
			Message: "invalid percent-encoding in fragment",
			Cause:   err,
		}
	}
	if decoded != "" && decoded[0] != '/' {
		return Reference{}, &referrors.MalformedReferenceError{
			Ref:     ref,
			Message: "fragment must be empty or a JSON Pointer starting with /",
		}
	}
	tokens, err := ParsePointer(decoded)
	if err != nil {
		return Reference{}, &referrors.MalformedReferenceError{
			Ref:     ref,
			Message: "invalid JSON Pointer",
			Cause:   err,
		}
	}
	r.Tokens = tokens
	return r, nil
}

// Format renders r as a reference string. It is the left inverse of Parse up
// to canonicalisation: Parse(Format(r), base) yields r for any base.
func Format(r Reference) string {
	ptr := r.Tokens.String()
	if ptr == "" {
		if r.BaseURL == "" {
			return "#"
		}
		return r.BaseURL
	}
	return r.BaseURL + "#" + escapeFragment(ptr)
}

// escapeFragment percent-encodes the bytes of a JSON Pointer that cannot
// appear literally in a URI fragment or would change its meaning on decode.
func escapeFragment(p string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '%' || c == '#' || c == '"' || c <= ' ' || c == 0x7f {
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
