// Package httputil provides HTTP-related media type helpers and constants.
package httputil

import (
	"mime"
	"strings"
)

// HTTP header and status constants used when fetching documents.
const (
	HeaderUserAgent   = "User-Agent"
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"

	// DefaultAccept is sent when fetching documents over HTTP.
	DefaultAccept = "application/json, application/yaml;q=0.9, text/yaml;q=0.9, */*;q=0.8"

	MinSuccessStatus = 200
	MaxSuccessStatus = 299
)

// IsSuccessStatus reports whether code is a 2xx status.
func IsSuccessStatus(code int) bool {
	return code >= MinSuccessStatus && code <= MaxSuccessStatus
}

// MediaType returns the lowercased type/subtype of a Content-Type value,
// without parameters. It returns "" when contentType cannot be parsed.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

// IsJSONMediaType reports whether contentType is application/json or a
// "+json" structured syntax suffix type (e.g. application/schema+json).
func IsJSONMediaType(contentType string) bool {
	mt := MediaType(contentType)
	return mt == "application/json" || mt == "text/json" || strings.HasSuffix(mt, "+json")
}

// IsYAMLMediaType reports whether contentType names YAML.
func IsYAMLMediaType(contentType string) bool {
	switch mt := MediaType(contentType); mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml", "application/openapi+yaml":
		return true
	default:
		return strings.HasSuffix(mt, "+yaml")
	}
}

// IsTextMediaType reports whether contentType is a text/* type.
func IsTextMediaType(contentType string) bool {
	return strings.HasPrefix(MediaType(contentType), "text/")
}

// IsBinaryMediaType reports whether contentType names opaque binary content:
// images, audio, video, fonts, PDFs and application/octet-stream.
func IsBinaryMediaType(contentType string) bool {
	mt := MediaType(contentType)
	switch {
	case mt == "application/octet-stream", mt == "application/pdf", mt == "application/zip":
		return true
	case strings.HasPrefix(mt, "image/"), strings.HasPrefix(mt, "audio/"),
		strings.HasPrefix(mt, "video/"), strings.HasPrefix(mt, "font/"):
		return true
	}
	return false
}
