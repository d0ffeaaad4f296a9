package pointer

import (
	"strings"

	"github.com/erraggy/refparser/internal/pathutil"
	"github.com/erraggy/refparser/node"
	"github.com/erraggy/refparser/referrors"
)

// Tokens is a parsed JSON Pointer: a sequence of unescaped reference tokens.
// An empty sequence denotes the document root.
type Tokens []string

// String returns the escaped JSON Pointer form, e.g. "/a~1b/0". The root is "".
func (t Tokens) String() string {
	return pathutil.JoinTokens(t)
}

// Append returns a new Tokens with more appended, leaving t untouched.
func (t Tokens) Append(more ...string) Tokens {
	out := make(Tokens, 0, len(t)+len(more))
	out = append(out, t...)
	return append(out, more...)
}

// HasPrefix reports whether t starts with prefix.
func (t Tokens) HasPrefix(prefix Tokens) bool {
	if len(prefix) > len(t) {
		return false
	}
	for i := range prefix {
		if t[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Escape escapes a single reference token.
func Escape(token string) string {
	return pathutil.EscapeToken(token)
}

// Unescape decodes a single escaped reference token. It fails when "~" is
// followed by anything other than "0" or "1".
func Unescape(token string) (string, error) {
	for i := 0; i < len(token); i++ {
		if token[i] != '~' {
			continue
		}
		if i+1 >= len(token) || (token[i+1] != '0' && token[i+1] != '1') {
			return "", &referrors.MalformedReferenceError{
				Ref:     token,
				Message: "invalid escape sequence in pointer token",
			}
		}
	}
	return pathutil.UnescapeToken(token), nil
}

// ParsePointer parses an escaped JSON Pointer. "" is the root; any other
// pointer must start with "/".
func ParsePointer(s string) (Tokens, error) {
	if s == "" {
		return Tokens{}, nil
	}
	if s[0] != '/' {
		return nil, &referrors.MalformedReferenceError{
			Ref:     s,
			Message: "JSON Pointer must be empty or start with /",
		}
	}
	parts := strings.Split(s[1:], "/")
	tokens := make(Tokens, len(parts))
	for i, p := range parts {
		tok, err := Unescape(p)
		if err != nil {
			return nil, &referrors.MalformedReferenceError{
				Ref:     s,
				Message: "invalid escape sequence in token " + p,
			}
		}
		tokens[i] = tok
	}
	return tokens, nil
}

// Descend walks tokens from root as far as plain data allows. It returns the
// last node reached and how many tokens were consumed. Walking stops early at
// a missing member, an invalid index, or a reference node that still has
// tokens to consume below it.
func Descend(root *node.Node, tokens Tokens) (*node.Node, int) {
	cur := root
	for i, tok := range tokens {
		if cur.IsReference() {
			return cur, i
		}
		next, ok := cur.Child(tok)
		if !ok {
			return cur, i
		}
		cur = next
	}
	return cur, len(tokens)
}

// Lookup resolves tokens inside root without following references. It fails
// with a *referrors.MissingPointerError naming the token where evaluation
// stopped.
func Lookup(root *node.Node, tokens Tokens) (*node.Node, error) {
	n, consumed := Descend(root, tokens)
	if consumed == len(tokens) {
		return n, nil
	}
	return nil, MissingError("", tokens, consumed, n)
}

// MissingError builds the error reported when tokens[consumed] cannot be
// resolved below at.
func MissingError(docURL string, tokens Tokens, consumed int, at *node.Node) *referrors.MissingPointerError {
	tok := tokens[consumed]
	msg := "no member named " + tok
	switch at.Kind {
	case node.KindSequence:
		msg = "invalid or out of range index " + tok
	case node.KindReference:
		msg = "pointer passes through a $ref at " + tokens[:consumed].String()
	case node.KindMapping:
	default:
		msg = "cannot descend into " + at.Kind.String()
	}
	return &referrors.MissingPointerError{
		URL:     docURL,
		Pointer: tokens.String(),
		Token:   tok,
		Message: msg,
	}
}
