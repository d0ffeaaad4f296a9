package pointer

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MemScheme is the URL scheme of in-memory documents.
const MemScheme = "mem"

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Canonicalize returns the canonical absolute form of raw, which may be a
// URL or an OS file path. The fragment is dropped.
func Canonicalize(raw string) (string, error) {
	u, err := parseLocation(raw)
	if err != nil {
		return "", err
	}
	return canonicalURL(u).String(), nil
}

// CanonicalURL is like Canonicalize but returns the parsed URL.
func CanonicalURL(raw string) (*url.URL, error) {
	u, err := parseLocation(raw)
	if err != nil {
		return nil, err
	}
	return canonicalURL(u), nil
}

// ResolveRelative resolves ref against base following RFC 3986 and returns
// the canonical result. An empty base makes ref stand alone.
func ResolveRelative(base, ref string) (string, error) {
	if base == "" {
		return Canonicalize(ref)
	}
	b, err := parseLocation(base)
	if err != nil {
		return "", fmt.Errorf("pointer: invalid base URL %q: %w", base, err)
	}
	if strings.Index(ref, ":") == 1 {
		return Canonicalize(ref) // Windows drive path
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("pointer: invalid reference URL %q: %w", ref, err)
	}
	return canonicalURL(b.ResolveReference(r)).String(), nil
}

// parseLocation parses raw as a URL, treating anything without a usable
// scheme as an OS path.
func parseLocation(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("pointer: empty location")
	}
	if isFilePath(raw) {
		abs, err := filepath.Abs(raw)
		if err != nil {
			return nil, fmt.Errorf("pointer: cannot resolve path %q: %w", raw, err)
		}
		p := filepath.ToSlash(abs)
		if !strings.HasPrefix(p, "/") {
			p = "/" + p // Windows drive letters
		}
		return &url.URL{Scheme: "file", Path: p}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("pointer: invalid URL %q: %w", raw, err)
	}
	return u, nil
}

// isFilePath reports whether raw has no URL scheme, or a single-letter one
// that is really a Windows drive.
func isFilePath(raw string) bool {
	i := strings.Index(raw, ":")
	if i <= 1 {
		return true
	}
	for _, c := range raw[:i] {
		ok := c == '+' || c == '-' || c == '.' ||
			('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
		if !ok {
			return true
		}
	}
	return false
}

func canonicalURL(in *url.URL) *url.URL {
	u := *in
	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""
	u.RawFragment = ""
	u.RawPath = ""
	u.OmitHost = false

	if u.Opaque != "" && u.Scheme == MemScheme {
		u.Path = "/" + strings.TrimPrefix(u.Opaque, "/")
		u.Opaque = ""
	}

	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if port != "" && defaultPorts[u.Scheme] == port {
		port = ""
	}
	if u.Scheme == "file" && host == "localhost" {
		host = ""
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		host += ":" + port
	}
	u.Host = host

	if u.Opaque == "" {
		u.Path = cleanPath(u.Path)
		if u.Path == "" && (u.Host != "" || u.Scheme == "file" || u.Scheme == MemScheme) {
			u.Path = "/"
		}
	}
	return &u
}

func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	trailing := strings.HasSuffix(p, "/")
	p = path.Clean(p)
	if trailing && p != "/" {
		p += "/"
	}
	return norm.NFC.String(p)
}
