package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// clearRefparserEnv clears all REFPARSER_* env vars to isolate tests from the ambient environment.
func clearRefparserEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REFPARSER_RESOLVE_HTTP", "REFPARSER_ALLOW_PRIVATE_IPS",
		"REFPARSER_ROOT_DIR", "REFPARSER_CONCURRENCY",
		"REFPARSER_MAX_DOCUMENTS", "REFPARSER_MAX_FILE_SIZE",
		"REFPARSER_MAX_REF_DEPTH", "REFPARSER_MAX_INLINE_SIZE",
		"REFPARSER_CIRCULAR", "REFPARSER_EDGE_LIMIT", "REFPARSER_MAX_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearRefparserEnv(t)

	c := loadConfig()

	assert.True(t, c.ResolveHTTPRefs)
	assert.False(t, c.AllowPrivateIPs)
	assert.Empty(t, c.RootDir)
	assert.Equal(t, 8, c.Concurrency)
	assert.Equal(t, 10000, c.MaxDocuments)
	assert.Equal(t, int64(10*1024*1024), c.MaxFileSize)
	assert.Equal(t, 100, c.MaxRefDepth)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Empty(t, c.CircularPolicy)
	assert.Equal(t, 100, c.EdgeLimit)
	assert.Equal(t, 1000, c.MaxLimit)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearRefparserEnv(t)
	t.Setenv("REFPARSER_RESOLVE_HTTP", "false")
	t.Setenv("REFPARSER_ALLOW_PRIVATE_IPS", "true")
	t.Setenv("REFPARSER_ROOT_DIR", "/srv/specs")
	t.Setenv("REFPARSER_CONCURRENCY", "2")
	t.Setenv("REFPARSER_MAX_DOCUMENTS", "50")
	t.Setenv("REFPARSER_MAX_FILE_SIZE", "2048")
	t.Setenv("REFPARSER_MAX_REF_DEPTH", "10")
	t.Setenv("REFPARSER_MAX_INLINE_SIZE", "5242880")
	t.Setenv("REFPARSER_CIRCULAR", "Ignore")
	t.Setenv("REFPARSER_EDGE_LIMIT", "25")
	t.Setenv("REFPARSER_MAX_LIMIT", "500")

	c := loadConfig()

	assert.False(t, c.ResolveHTTPRefs)
	assert.True(t, c.AllowPrivateIPs)
	assert.Equal(t, "/srv/specs", c.RootDir)
	assert.Equal(t, 2, c.Concurrency)
	assert.Equal(t, 50, c.MaxDocuments)
	assert.Equal(t, int64(2048), c.MaxFileSize)
	assert.Equal(t, 10, c.MaxRefDepth)
	assert.Equal(t, int64(5242880), c.MaxInlineSize)
	assert.Equal(t, "ignore", c.CircularPolicy)
	assert.Equal(t, 25, c.EdgeLimit)
	assert.Equal(t, 500, c.MaxLimit)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearRefparserEnv(t)
	t.Setenv("REFPARSER_RESOLVE_HTTP", "maybe")
	t.Setenv("REFPARSER_CONCURRENCY", "banana")
	t.Setenv("REFPARSER_MAX_FILE_SIZE", "-1")
	t.Setenv("REFPARSER_MAX_INLINE_SIZE", "abc")
	t.Setenv("REFPARSER_CIRCULAR", "typo")
	t.Setenv("REFPARSER_MAX_LIMIT", "0")

	c := loadConfig()

	assert.True(t, c.ResolveHTTPRefs)
	assert.Equal(t, 8, c.Concurrency)
	assert.Equal(t, int64(10*1024*1024), c.MaxFileSize)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Empty(t, c.CircularPolicy, "invalid policy should fall back to empty")
	assert.Equal(t, 1000, c.MaxLimit)
}

func TestLoadConfig_PartialOverrides(t *testing.T) {
	clearRefparserEnv(t)
	t.Setenv("REFPARSER_EDGE_LIMIT", "42")

	c := loadConfig()

	assert.Equal(t, 42, c.EdgeLimit)
	// Unchanged defaults:
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, 100, c.MaxRefDepth)
	assert.True(t, c.ResolveHTTPRefs)
}
