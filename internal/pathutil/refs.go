// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

package pathutil

import "strings"

// RefKey is the member name that marks a JSON Reference object.
const RefKey = "$ref"

// DefaultBundleNamespace is the root member under which bundled documents live.
const DefaultBundleNamespace = "$bundled"

// LocalRef builds "#<pointer>" from an escaped JSON Pointer.
func LocalRef(pointer string) string {
	return "#" + pointer
}

// BundledRef builds "#/{namespace}/{slot}{pointer}" for a pointer into a
// bundled document. pointer must already be escaped (or empty for the
// document root).
func BundledRef(namespace, slot, pointer string) string {
	var b strings.Builder
	b.Grow(3 + len(namespace) + len(slot) + len(pointer))
	b.WriteString("#/")
	b.WriteString(EscapeToken(namespace))
	b.WriteByte('/')
	b.WriteString(EscapeToken(slot))
	b.WriteString(pointer)
	return b.String()
}

// JoinTokens escapes and joins tokens into a JSON Pointer.
func JoinTokens(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(EscapeToken(t))
	}
	return b.String()
}
