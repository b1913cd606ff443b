package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oastest/parser"
)

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	// Use an existing testdata file from the repo
	input := specInput{File: "../../testdata/petstore-3.0.yaml"}
	result, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Version)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	content := `openapi: "3.0.0"
info:
  title: Test
  version: "1.0"
paths: {}
`
	input := specInput{Content: content}
	result, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "3.0.0", result.Version)
}

func TestSpecInput_ResolveNoneProvided(t *testing.T) {
	input := specInput{}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveMultipleProvided(t *testing.T) {
	input := specInput{File: "foo.yaml", Content: "bar"}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	specCache.reset()
	input := specInput{File: "/nonexistent/path.yaml"}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	specCache.reset()
	orig := cfg.MaxInlineSize
	cfg.MaxInlineSize = 8
	t.Cleanup(func() { cfg.MaxInlineSize = orig })

	input := specInput{Content: "openapi: \"3.0.0\"\n"}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
	assert.Contains(t, err.Error(), "OASTEST_MAX_INLINE_SIZE")
}

func TestSpecInput_ResolveURL(t *testing.T) {
	specCache.reset()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`openapi: "3.0.0"
info:
  title: Remote
  version: "1.0"
paths: {}
`))
	}))
	defer srv.Close()

	// httptest binds to loopback, which the SSRF guard blocks.
	orig := cfg.AllowPrivateIPs
	cfg.AllowPrivateIPs = true
	t.Cleanup(func() { cfg.AllowPrivateIPs = orig })

	input := specInput{URL: srv.URL}
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	doc, ok := result1.OAS3()
	require.True(t, ok)
	assert.Equal(t, "Remote", doc.Info.Title)
	assert.Equal(t, srv.URL, result1.SourceName)

	// Same URL should hit the cache.
	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, result1, result2)
}

func TestSpecInput_ResolveURLBlockedByDefault(t *testing.T) {
	specCache.reset()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	orig := cfg.AllowPrivateIPs
	cfg.AllowPrivateIPs = false
	t.Cleanup(func() { cfg.AllowPrivateIPs = orig })

	input := specInput{URL: srv.URL}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked request to private/loopback IP")
}

func TestFetchSpecURL_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	orig := cfg.AllowPrivateIPs
	cfg.AllowPrivateIPs = true
	t.Cleanup(func() { cfg.AllowPrivateIPs = orig })

	_, err := fetchSpecURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned status 404")
}

func TestFetchSpecURL_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	origAllow := cfg.AllowPrivateIPs
	origSize := cfg.MaxURLSize
	cfg.AllowPrivateIPs = true
	cfg.MaxURLSize = 16
	t.Cleanup(func() {
		cfg.AllowPrivateIPs = origAllow
		cfg.MaxURLSize = origSize
	})

	_, err := fetchSpecURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size")
	assert.Contains(t, err.Error(), "OASTEST_MAX_URL_SIZE")
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: "../../testdata/petstore-3.0.yaml"}

	// First call populates cache.
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	// Second call should return the same pointer (cache hit).
	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, result1, result2, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()

	// Create a temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	content1 := []byte(`openapi: "3.0.0"
info:
  title: Test V1
  version: "1.0"
paths: {}
`)
	require.NoError(t, os.WriteFile(path, content1, 0644))

	input := specInput{File: path}
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	doc1, ok := result1.OAS3()
	require.True(t, ok)
	assert.Equal(t, "Test V1", doc1.Info.Title)

	// Modify the file (change mtime).
	content2 := []byte(`openapi: "3.0.0"
info:
  title: Test V2
  version: "2.0"
paths: {}
`)
	require.NoError(t, os.WriteFile(path, content2, 0644))

	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	// Should be a different result since mtime changed.
	assert.NotSame(t, result1, result2)
	doc2, ok := result2.OAS3()
	require.True(t, ok)
	assert.Equal(t, "Test V2", doc2.Info.Title)
}

func TestSpecCache_ContentHash(t *testing.T) {
	specCache.reset()
	content := `openapi: "3.0.0"
info:
  title: Hash Test
  version: "1.0"
paths: {}
`
	input := specInput{Content: content}

	result1, err := input.resolve(context.Background())
	require.NoError(t, err)

	// Same content should hit cache.
	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, result1, result2)
}

func TestSpecCache_DisabledSkipsCache(t *testing.T) {
	specCache.reset()
	orig := cfg.CacheEnabled
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = orig })

	content := `openapi: "3.0.0"
info:
  title: No Cache
  version: "1.0"
paths: {}
`
	input := specInput{Content: content}

	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	result2, err := input.resolve(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, result1, result2)
	assert.Equal(t, 0, specCache.size())
}

func TestSpecCache_LRUEviction(t *testing.T) {
	c := &specCacheStore{entries: make(map[string]*cacheEntry), maxSize: 3}

	for i := range 4 {
		key := fmt.Sprintf("content:%d", i)
		c.putWithTTL(key, &parser.ParseResult{}, time.Minute)
	}

	// Cache should not exceed max size and the oldest entry should be gone.
	assert.Equal(t, 3, c.size())
	assert.Nil(t, c.get("content:0"), "expected oldest entry to be evicted")
	assert.NotNil(t, c.get("content:3"))
}

func TestSpecCache_LRUTouchOnGet(t *testing.T) {
	c := &specCacheStore{entries: make(map[string]*cacheEntry), maxSize: 3}

	c.putWithTTL("a", &parser.ParseResult{}, time.Minute)
	c.putWithTTL("b", &parser.ParseResult{}, time.Minute)
	c.putWithTTL("c", &parser.ParseResult{}, time.Minute)

	// Reading "a" refreshes its recency, so "b" becomes the eviction victim.
	require.NotNil(t, c.get("a"))
	c.putWithTTL("d", &parser.ParseResult{}, time.Minute)

	assert.NotNil(t, c.get("a"))
	assert.Nil(t, c.get("b"))
}

func TestSpecCache_ExpiredEntry(t *testing.T) {
	c := &specCacheStore{entries: make(map[string]*cacheEntry), maxSize: 3}
	c.putWithTTL("stale", &parser.ParseResult{}, -time.Second)
	assert.Nil(t, c.get("stale"), "expired entry should not be returned")
	assert.Equal(t, 0, c.size(), "expired entry should be removed on read")
}

func TestSpecCache_Sweep(t *testing.T) {
	c := &specCacheStore{entries: make(map[string]*cacheEntry), maxSize: 10}
	c.putWithTTL("stale", &parser.ParseResult{}, -time.Second)
	c.putWithTTL("fresh", &parser.ParseResult{}, time.Minute)

	c.sweep()

	assert.Equal(t, 1, c.size())
	assert.NotNil(t, c.get("fresh"))
}

func TestMakeCacheKey(t *testing.T) {
	t.Run("file keyed by path and mtime", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "spec.yaml")
		require.NoError(t, os.WriteFile(path, []byte("openapi: 3.0.0"), 0644))

		key1 := makeCacheKey(specInput{File: path})
		assert.True(t, strings.HasPrefix(key1, "file:"), "got %q", key1)

		// Same file, same mtime: stable key.
		key2 := makeCacheKey(specInput{File: path})
		assert.Equal(t, key1, key2)

		// Touch the file: key changes.
		future := time.Now().Add(2 * time.Second)
		require.NoError(t, os.Chtimes(path, future, future))
		key3 := makeCacheKey(specInput{File: path})
		assert.NotEqual(t, key1, key3)
	})

	t.Run("missing file yields empty key", func(t *testing.T) {
		assert.Empty(t, makeCacheKey(specInput{File: "/nonexistent/path.yaml"}))
	})

	t.Run("content keyed by hash", func(t *testing.T) {
		key := makeCacheKey(specInput{Content: "openapi: 3.0.0"})
		assert.True(t, strings.HasPrefix(key, "content:"), "got %q", key)
	})

	t.Run("url keyed by string", func(t *testing.T) {
		key := makeCacheKey(specInput{URL: "https://example.com/openapi.yaml"})
		assert.Equal(t, "url:https://example.com/openapi.yaml", key)
	})

	t.Run("empty input yields empty key", func(t *testing.T) {
		assert.Empty(t, makeCacheKey(specInput{}))
	})
}
