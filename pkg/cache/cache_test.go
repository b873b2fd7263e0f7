package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dashwright/dashwright/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars.
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	httpKey := k.HTTPKey("boards", "https://host/api/2.0/lakeview/dashboards/d1")
	if httpKey != "http:boards:https://host/api/2.0/lakeview/dashboards/d1" {
		t.Errorf("HTTPKey unexpected: %s", httpKey)
	}

	gk1 := k.GenerationKey("gpt", "sales overview", GenerationKeyOpts{Dataset: "tickets", MaxWidgets: 8})
	gk2 := k.GenerationKey("gpt", "sales overview", GenerationKeyOpts{Dataset: "taxi", MaxWidgets: 8})
	if gk1 == gk2 {
		t.Error("Different GenerationKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(gk1, "gen:") {
		t.Errorf("GenerationKey prefix unexpected: %s", gk1)
	}

	dk1 := k.DefinitionKey("hash123", DefinitionKeyOpts{DisplayName: "Overview"})
	dk2 := k.DefinitionKey("hash123", DefinitionKeyOpts{DisplayName: "Sales"})
	if dk1 == dk2 {
		t.Error("Different DefinitionKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "ws:abc:")

	httpKey := scoped.HTTPKey("boards", "url")
	if httpKey != "ws:abc:http:boards:url" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", httpKey)
	}

	genKey := scoped.GenerationKey("gpt", "p", GenerationKeyOpts{})
	if !strings.HasPrefix(genKey, "ws:abc:gen:") {
		t.Errorf("ScopedKeyer GenerationKey should be prefixed: %s", genKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.HTTPKey("n", "k"); key != "prefix:http:n:k" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("expected miss for unknown key")
	}

	want := []byte(`{"datasets":[]}`)
	if err := c.Set(ctx, "def:abc", want, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, hit, err := c.Get(ctx, "def:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || !bytes.Equal(got, want) {
		t.Errorf("Get = %q hit=%v, want %q", got, hit, want)
	}

	if err := c.Delete(ctx, "def:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "def:abc"); hit {
		t.Error("expected miss after delete")
	}

	// Deleting a missing key is not an error.
	if err := c.Delete(ctx, "def:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "gen:k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "gen:k"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	hash := Hash([]byte("k"))
	path := filepath.Join(dir, hash[:2], hash[2:]+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	// A corrupt entry reads as a miss and is removed.
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("Get corrupt = hit=%v err=%v, want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should have been removed")
	}
}

type recordingCacheHooks struct {
	hits   []string
	misses []string
	sets   map[string]int
}

func (h *recordingCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.hits = append(h.hits, keyType)
}

func (h *recordingCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.misses = append(h.misses, keyType)
}

func (h *recordingCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.sets[keyType] += size
}

func TestFileCacheEmitsHooks(t *testing.T) {
	rec := &recordingCacheHooks{sets: map[string]int{}}
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	key := NewDefaultKeyer().GenerationKey("m", "p", GenerationKeyOpts{})

	if _, hit, _ := c.Get(ctx, key); hit {
		t.Fatal("unexpected hit on empty cache")
	}
	if err := c.Set(ctx, key, []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); !hit {
		t.Fatal("expected hit after Set")
	}

	if len(rec.misses) != 1 || rec.misses[0] != "gen" {
		t.Errorf("misses = %v, want [gen]", rec.misses)
	}
	if len(rec.hits) != 1 || rec.hits[0] != "gen" {
		t.Errorf("hits = %v, want [gen]", rec.hits)
	}
	if rec.sets["gen"] != len("value") {
		t.Errorf("sets[gen] = %d, want %d", rec.sets["gen"], len("value"))
	}
}

func TestKeyStage(t *testing.T) {
	keyer := NewDefaultKeyer()
	scoped := NewScopedKeyer(nil, "ws1:")
	tests := []struct {
		key  string
		want string
	}{
		{keyer.GenerationKey("m", "p", GenerationKeyOpts{}), "gen"},
		{keyer.DefinitionKey("abc", DefinitionKeyOpts{}), "def"},
		{keyer.HTTPKey("boards", "https://x/y"), "http"},
		{scoped.GenerationKey("m", "p", GenerationKeyOpts{}), "gen"},
		{"something-else", "other"},
	}
	for _, tt := range tests {
		if got := keyStage(tt.key); got != tt.want {
			t.Errorf("keyStage(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
