package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/erraggy/refparser/resolver"
	"github.com/erraggy/refparser/source"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Fetching.
	ResolveHTTPRefs bool
	AllowPrivateIPs bool
	RootDir         string
	Concurrency     int

	// Resource limits.
	MaxDocuments  int
	MaxFileSize   int64
	MaxRefDepth   int
	MaxInlineSize int64

	// Dereference defaults.
	CircularPolicy string

	// Pagination for list outputs.
	EdgeLimit int
	MaxLimit  int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from REFPARSER_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		ResolveHTTPRefs: envBool("REFPARSER_RESOLVE_HTTP", true),
		AllowPrivateIPs: envBool("REFPARSER_ALLOW_PRIVATE_IPS", false),
		RootDir:         os.Getenv("REFPARSER_ROOT_DIR"),
		Concurrency:     envInt("REFPARSER_CONCURRENCY", resolver.DefaultConcurrency),
		MaxDocuments:    envInt("REFPARSER_MAX_DOCUMENTS", resolver.DefaultMaxDocuments),
		MaxFileSize:     envInt64("REFPARSER_MAX_FILE_SIZE", source.DefaultMaxSize),
		MaxRefDepth:     envInt("REFPARSER_MAX_REF_DEPTH", resolver.DefaultMaxRefDepth),
		MaxInlineSize:   envInt64("REFPARSER_MAX_INLINE_SIZE", 10*1024*1024),
		CircularPolicy:  envCircular("REFPARSER_CIRCULAR"),
		EdgeLimit:       envInt("REFPARSER_EDGE_LIMIT", 100),
		MaxLimit:        envInt("REFPARSER_MAX_LIMIT", 1000),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// envCircular returns a validated circular policy name, or "" to keep the
// resolver default.
func envCircular(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	p, err := resolver.ParseCircularPolicy(v)
	if err != nil {
		slog.Warn("invalid circular policy env var, ignoring", "key", key, "value", v) //nolint:gosec // G706: values are structured log fields, not format strings
		return ""
	}
	return string(p)
}
