package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	tests := []struct {
		name    string
		ttl     time.Duration
		wantHit bool
	}{
		{"no expiry", 0, true},
		{"future expiry", time.Hour, true},
		{"expired", -time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "k:" + tt.name
			if err := c.Set(ctx, key, []byte("v"), tt.ttl); err != nil {
				t.Fatal(err)
			}
			data, hit, err := c.Get(ctx, key)
			if err != nil {
				t.Fatal(err)
			}
			if hit != tt.wantHit || (hit && string(data) != "v") {
				t.Errorf("Get = %q, %v", data, hit)
			}
		})
	}

	if err := c.Delete(ctx, "k:no expiry"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k:no expiry"); hit {
		t.Error("deleted entry still present")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear = %d, %v", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCacheUsage(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "usage"))
	if err != nil {
		t.Fatal(err)
	}
	if n, size, err := c.Usage(); n != 0 || size != 0 || err != nil {
		t.Fatalf("empty Usage = %d, %d, %v", n, size, err)
	}
	for _, k := range []string{"layout:a", "artifact:b"} {
		if err := c.Set(ctx, k, []byte("payload"), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, size, err := c.Usage()
	if err != nil || n != 2 || size == 0 {
		t.Errorf("Usage = %d, %d, %v", n, size, err)
	}
}

func TestFileCacheExpiryClock(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry missed")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry served")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestGetOrCompute(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("svg"), nil
	}

	for i, wantHit := range []bool{false, true} {
		data, hit, err := GetOrCompute(ctx, c, "key", "artifact", TTLArtifact, compute)
		if err != nil || string(data) != "svg" || hit != wantHit {
			t.Errorf("call %d = %q, %v, %v", i, data, hit, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute ran %d times", calls)
	}

	boom := errors.New("boom")
	if _, _, err := GetOrCompute(ctx, c, "other", "artifact", 0, func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "other"); hit {
		t.Error("failed computation was cached")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("doc", LayoutKeyOpts{CharWidth: 8})
	lk2 := k.LayoutKey("doc", LayoutKeyOpts{CharWidth: 9})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	ak1 := k.ArtifactKey("dot", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("dot", ArtifactKeyOpts{Format: "json"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if ak1[:9] != "artifact:" || lk1[:7] != "layout:" {
		t.Errorf("unexpected key prefixes: %s, %s", ak1, lk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "v1:")
	plain := NewDefaultKeyer()
	opts := ArtifactKeyOpts{Format: "svg"}
	if got, want := scoped.ArtifactKey("h", opts), "v1:"+plain.ArtifactKey("h", opts); got != want {
		t.Errorf("ArtifactKey = %s, want %s", got, want)
	}
	if got := scoped.LayoutKey("h", LayoutKeyOpts{}); got[:3] != "v1:" {
		t.Errorf("LayoutKey not prefixed: %s", got)
	}
}
