package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/veracity/internal/model"
)

func TestClaimKey(t *testing.T) {
	a := ClaimKey("ISRO launches Chandrayaan-4")
	b := ClaimKey("  isro   launches chandrayaan-4 ")
	c := ClaimKey("ISRO launches Chandrayaan-5")

	if !strings.HasPrefix(a, "veracity:v1:") {
		t.Errorf("Unexpected key prefix: %s", a)
	}
	if a != b {
		t.Error("Expected case and spacing to be ignored")
	}
	if a == c {
		t.Error("Expected different claims to have different keys")
	}
}

func TestNew(t *testing.T) {
	if New(model.CacheConfig{Enabled: false}) != nil {
		t.Error("Expected nil cache when disabled")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("Expected memory cache without a directory")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("Expected layered cache with a directory")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte(`{"a":1}`), 0); err != nil {
		t.Fatal(err)
	}
	val, ok := c.Get("k")
	if !ok || string(val) != `{"a":1}` {
		t.Errorf("Get = %q, %v", val, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	_ = c.Set("short", []byte(`1`), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("Expected entry to expire")
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected entry to be deleted")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := ClaimKey("claim")

	if err := c.Set(key, []byte(`{"label":"REAL"}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, ok := c.Get(key)
	if !ok || string(val) != `{"label":"REAL"}` {
		t.Errorf("Get = %q, %v", val, ok)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*"))
	if len(files) != 1 {
		t.Errorf("Expected exactly one file and no temp leftovers, got %v", files)
	}
	if strings.Contains(filepath.Base(files[0]), ":") {
		t.Errorf("File name should not contain colons: %s", files[0])
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok := c.Get(key); ok {
		t.Error("Expected expired entry to miss")
	}
	if _, err := os.Stat(files[0]); !os.IsNotExist(err) {
		t.Error("Expected expired file to be removed")
	}
}

func TestDiskCache_RejectsInvalidJSON(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if err := c.Set("k", []byte("not json"), 0); err == nil {
		t.Error("Expected error for non-JSON value")
	}
}

func TestDiskCache_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	path := c.path("k")

	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Expected corrupt entry to miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected corrupt file to be removed")
	}
}

func TestDiskCache_DeleteAndClear(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Delete("missing"); err != nil {
		t.Errorf("Deleting a missing key should succeed: %v", err)
	}

	_ = c.Set("a", []byte(`1`), 0)
	_ = c.Set("b", []byte(`2`), 0)
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("Expected cache to be cleared")
	}

	if err := NewDiskCache(filepath.Join(t.TempDir(), "absent"), time.Hour).Clear(); err != nil {
		t.Errorf("Clearing a missing directory should succeed: %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	first := NewLayeredCache(time.Minute, dir, time.Hour)
	if err := first.Set("k", []byte(`{"v":1}`), 0); err != nil {
		t.Fatal(err)
	}

	// A new process sees only the disk layer
	second := NewLayeredCache(time.Minute, dir, time.Hour)
	val, ok := second.Get("k")
	if !ok || string(val) != `{"v":1}` {
		t.Fatalf("Expected disk hit, got %q %v", val, ok)
	}
	if _, ok := second.memory.Get("k"); !ok {
		t.Error("Expected disk hit to be promoted to memory")
	}

	if err := second.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := second.Get("k"); ok {
		t.Error("Expected key removed from both layers")
	}
}
