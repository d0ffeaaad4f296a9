// Package format provides the pluggable parsers that turn fetched bytes into
// node trees.
//
// A [Registry] holds an ordered list of [Parser] implementations. Parsers
// whose CanParse accepts a resource (by file extension, declared media type
// or sniffed content) are tried in registration order and the first to
// succeed wins. When no parser claims a resource, every parser is tried, so a
// JSON document served as "mem:///root" or "schema.txt" still parses.
//
// The default order is [JSON], [YAML], [Text], [Binary]. Text and binary
// content yields string and binary nodes rather than structured data.
package format
