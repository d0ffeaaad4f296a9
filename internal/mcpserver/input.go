package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erraggy/refparser/resolver"
)

// specInput represents the three ways a root document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"     jsonschema:"Path to a JSON or YAML document on disk"`
	URL     string `json:"url,omitempty"      jsonschema:"URL to fetch the root document from"`
	Content string `json:"content,omitempty"  jsonschema:"Inline document content (JSON or YAML)"`
	BaseURL string `json:"base_url,omitempty" jsonschema:"Base URL that relative references in inline content resolve against (e.g. file:///specs/api.yaml)"`
}

// options validates the input and translates it, together with the server
// configuration, into resolver options. Every call builds a fresh document
// store, so nothing is cached between tool calls.
func (s specInput) options(ctx context.Context, extra ...resolver.Option) ([]resolver.Option, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}
	if s.BaseURL != "" && s.Content == "" {
		return nil, fmt.Errorf("base_url is only valid with content")
	}

	// Enforce inline content size limit.
	if int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set REFPARSER_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	opts := []resolver.Option{
		resolver.WithContext(ctx),
		resolver.WithConcurrency(cfg.Concurrency),
		resolver.WithMaxDocuments(cfg.MaxDocuments),
		resolver.WithMaxFileSize(cfg.MaxFileSize),
		resolver.WithMaxRefDepth(cfg.MaxRefDepth),
		// An explicit URL input is fetched even when HTTP refs are disabled.
		resolver.WithResolveHTTPRefs(cfg.ResolveHTTPRefs || s.URL != ""),
		// Block private, loopback and link-local targets unless private IPs are allowed.
		resolver.WithSafeHTTP(!cfg.AllowPrivateIPs),
		resolver.WithLogger(resolver.NewSlogAdapter(slog.Default())),
	}
	if cfg.RootDir != "" {
		opts = append(opts, resolver.WithRootDir(cfg.RootDir))
	}
	if cfg.CircularPolicy != "" {
		opts = append(opts, resolver.WithCircularPolicy(resolver.CircularPolicy(cfg.CircularPolicy)))
	}

	switch {
	case s.File != "":
		opts = append(opts, resolver.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, resolver.WithURL(s.URL))
	default:
		opts = append(opts, resolver.WithBytes(s.BaseURL, []byte(s.Content)))
	}
	return append(opts, extra...), nil
}

// resolve builds the reference graph of the input document.
func (s specInput) resolve(ctx context.Context, extra ...resolver.Option) (*resolver.ResolveResult, error) {
	opts, err := s.options(ctx, extra...)
	if err != nil {
		return nil, err
	}
	return resolver.ResolveWithOptions(opts...)
}
