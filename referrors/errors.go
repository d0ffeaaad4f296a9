package referrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrMalformedReference indicates a $ref or JSON Pointer with invalid syntax.
	ErrMalformedReference = errors.New("malformed reference")

	// ErrUnresolvableSource indicates a URL that could not be fetched.
	ErrUnresolvableSource = errors.New("unresolvable source")

	// ErrUnparsableContent indicates fetched content that could not be parsed.
	ErrUnparsableContent = errors.New("unparsable content")

	// ErrMissingPointer indicates a JSON Pointer that names no value.
	ErrMissingPointer = errors.New("missing pointer")

	// ErrReferenceResolution indicates a $ref whose target could not be resolved.
	ErrReferenceResolution = errors.New("reference resolution error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrPathTraversal indicates a file reference escaping the allowed root.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// MalformedReferenceError represents a $ref value or JSON Pointer that is not
// syntactically valid. It is always fatal to the reference site it occurs at.
type MalformedReferenceError struct {
	// Ref is the offending reference string
	Ref string
	// Message describes what is wrong with it
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MalformedReferenceError) Error() string {
	msg := "malformed reference"
	if e.Ref != "" {
		msg += fmt.Sprintf(" %q", e.Ref)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MalformedReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MalformedReferenceError) Is(target error) bool {
	return target == ErrMalformedReference
}

// UnresolvableSourceError represents a URL that no resolver could fetch,
// either because none is registered for it or because the fetch failed.
type UnresolvableSourceError struct {
	// URL is the canonical URL that could not be fetched
	URL string
	// Resolver names the resolver that attempted the fetch (empty if none matched)
	Resolver string
	// IsPathTraversal is true if the URL escapes the configured root directory
	IsPathTraversal bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *UnresolvableSourceError) Error() string {
	msg := "unresolvable source"
	if e.IsPathTraversal {
		msg = "path traversal detected"
	}
	if e.URL != "" {
		msg += ": " + e.URL
	}
	if e.Resolver != "" {
		msg += " (resolver " + e.Resolver + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *UnresolvableSourceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrUnresolvableSource, and ErrPathTraversal when IsPathTraversal is set.
func (e *UnresolvableSourceError) Is(target error) bool {
	if target == ErrUnresolvableSource {
		return true
	}
	return target == ErrPathTraversal && e.IsPathTraversal
}

// UnparsableContentError represents fetched content that no parser accepted,
// or that the accepting parser failed to decode.
type UnparsableContentError struct {
	// URL identifies the document
	URL string
	// Parser names the parser that failed (empty if none matched)
	Parser string
	// Line is the line number where parsing failed (0 if unknown)
	Line int
	// Column is the column number where parsing failed (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *UnparsableContentError) Error() string {
	msg := "unparsable content"
	if e.URL != "" {
		msg += " in " + e.URL
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Parser != "" {
		msg += " (parser " + e.Parser + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *UnparsableContentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *UnparsableContentError) Is(target error) bool {
	return target == ErrUnparsableContent
}

// MissingPointerError represents a JSON Pointer that does not name a value
// inside an otherwise valid document.
type MissingPointerError struct {
	// URL identifies the document the pointer was evaluated against
	URL string
	// Pointer is the JSON Pointer that failed (e.g. "/components/schemas/Pet")
	Pointer string
	// Token is the pointer token where evaluation stopped
	Token string
	// Message describes why evaluation stopped
	Message string
}

// Error returns a human-readable error message.
func (e *MissingPointerError) Error() string {
	msg := "missing pointer"
	if e.URL != "" || e.Pointer != "" {
		msg += " " + e.URL + "#" + e.Pointer
	}
	if e.Token != "" {
		msg += fmt.Sprintf(" (token %q)", e.Token)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *MissingPointerError) Is(target error) bool {
	return target == ErrMissingPointer
}

// ReferenceResolutionError represents a $ref site whose target could not be
// resolved. The cause carries the low-level failure.
type ReferenceResolutionError struct {
	// AtPointer locates the $ref site as "<document-url>#<json-pointer>"
	AtPointer string
	// Ref is the raw $ref value
	Ref string
	// TargetURL is the canonical URL of the target document (may be empty for malformed refs)
	TargetURL string
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceResolutionError) Error() string {
	msg := "cannot resolve $ref"
	if e.Ref != "" {
		msg += fmt.Sprintf(" %q", e.Ref)
	}
	if e.AtPointer != "" {
		msg += " at " + e.AtPointer
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ReferenceResolutionError) Is(target error) bool {
	return target == ErrReferenceResolution
}

// CircularReferenceError represents a circular $ref rejected by the
// dereferencer's "error" policy.
type CircularReferenceError struct {
	// Path is the JSON Pointer, in the dereferenced output, of the $ref site
	Path string
	// Ref is the raw $ref value at that site
	Ref string
	// Ancestor is the JSON Pointer of the value the cycle loops back to
	Ancestor string
}

// Error returns a human-readable error message.
func (e *CircularReferenceError) Error() string {
	msg := "circular reference"
	if e.Ref != "" {
		msg += fmt.Sprintf(" %q", e.Ref)
	}
	msg += " at " + displayPointer(e.Path)
	if e.Ancestor != "" || e.Ref != "" {
		msg += " loops back to " + displayPointer(e.Ancestor)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *CircularReferenceError) Is(target error) bool {
	return target == ErrCircularReference
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "cached_documents", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ErrorList is a collection of errors reported together, in discovery order.
// It is returned when reference failures are collected instead of aborting.
type ErrorList []error

// Error joins the member messages, one per line.
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(l))
	for _, err := range l {
		b.WriteString("\n\t* ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes every member to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	return l
}

// Err returns nil for an empty list and the list itself otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func displayPointer(p string) string {
	if p == "" {
		return "#"
	}
	return p
}
