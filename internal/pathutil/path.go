package pathutil

import (
	"path"
	"regexp"
	"strings"
)

// slotUnsafe matches runs of characters that are awkward inside a JSON Pointer
// token or a generated identifier.
var slotUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SlotName derives a readable bundle slot name from a document URL path.
// The last path element is used without its extension; anything outside
// [A-Za-z0-9_-] collapses to "_". Returns "doc" when nothing usable remains.
func SlotName(urlPath string) string {
	base := path.Base(urlPath)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	name := strings.Trim(slotUnsafe.ReplaceAllString(base, "_"), "_")
	if name == "" || name == "." {
		return "doc"
	}
	return name
}
