package pathutil

import (
	"strconv"
	"strings"
)

// PathBuilder provides efficient incremental JSON Pointer construction.
// Uses push/pop semantics to avoid allocations during traversal.
// Tokens are escaped on Push; the full string is only materialized when
// String() is called.
type PathBuilder struct {
	segments []string
	length   int // Pre-calculated length for String() allocation
}

// Push adds an unescaped token to the path.
func (p *PathBuilder) Push(token string) {
	seg := EscapeToken(token)
	p.segments = append(p.segments, seg)
	p.length += len(seg) + 1 // leading slash
}

// PushIndex adds a sequence index token: "/0", "/1", etc.
func (p *PathBuilder) PushIndex(i int) {
	seg := strconv.Itoa(i)
	p.segments = append(p.segments, seg)
	p.length += len(seg) + 1
}

// Pop removes the last token.
func (p *PathBuilder) Pop() {
	if len(p.segments) == 0 {
		return
	}
	last := p.segments[len(p.segments)-1]
	p.segments = p.segments[:len(p.segments)-1]
	p.length -= len(last) + 1
}

// Reset clears the builder for reuse.
func (p *PathBuilder) Reset() {
	p.segments = p.segments[:0]
	p.length = 0
}

// Depth returns the number of tokens currently on the path.
func (p *PathBuilder) Depth() int {
	return len(p.segments)
}

// Tokens returns a copy of the unescaped tokens on the path.
func (p *PathBuilder) Tokens() []string {
	out := make([]string, len(p.segments))
	for i, seg := range p.segments {
		out[i] = UnescapeToken(seg)
	}
	return out
}

// String materializes the JSON Pointer. The root is the empty string.
func (p *PathBuilder) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(p.length)
	for _, seg := range p.segments {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	return b.String()
}

var (
	tokenEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	tokenUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapeToken escapes a single JSON Pointer token (RFC 6901): "~" becomes
// "~0" and "/" becomes "~1".
func EscapeToken(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	return tokenEscaper.Replace(token)
}

// UnescapeToken reverses EscapeToken. It does not validate escapes.
func UnescapeToken(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}
	return tokenUnescaper.Replace(token)
}
