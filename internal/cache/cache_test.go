package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	k1 := Key("https://results.example.org/meet/1")
	k2 := Key("https://results.example.org/meet/2")

	if !strings.HasPrefix(k1, "limitscan:v1:") {
		t.Errorf("key %q missing version prefix", k1)
	}
	if k1 == k2 {
		t.Errorf("different URLs produced the same key")
	}
	if k1 != Key("https://results.example.org/meet/1") {
		t.Errorf("key derivation is not deterministic")
	}
}

func testCacheRoundTrip(t *testing.T, c Cache) {
	t.Helper()

	key := Key("https://results.example.org/meet/1")

	if _, found := c.Get(key); found {
		t.Errorf("empty cache reported a hit")
	}

	if err := c.Set(key, []byte("page body"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(key)
	if !found || string(val) != "page body" {
		t.Errorf("Get = (%q, %v), want (page body, true)", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Errorf("deleted entry still present")
	}

	if err := c.Set(key, []byte("page body"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Errorf("cleared entry still present")
	}
}

func TestMemoryCache(t *testing.T) {
	testCacheRoundTrip(t, NewMemoryCache(time.Minute, time.Minute))
}

func TestDiskCache(t *testing.T) {
	testCacheRoundTrip(t, NewDiskCache(t.TempDir(), time.Minute))
}

func TestLayeredCache(t *testing.T) {
	testCacheRoundTrip(t, NewLayeredCache(time.Minute, t.TempDir(), time.Minute))
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("https://results.example.org/meet/1")

	if err := c.Set(key, []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Errorf("expired entry still served")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// A previous run leaves an entry on disk.
	disk := NewDiskCache(dir, time.Minute)
	key := Key("https://results.example.org/meet/1")
	if err := disk.Set(key, []byte("from disk"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := layered.Get(key)
	if !found || string(val) != "from disk" {
		t.Fatalf("Get = (%q, %v), want disk entry", val, found)
	}

	// The hit is now answered from memory even after the disk copy goes.
	if err := disk.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := layered.Get(key); !found {
		t.Errorf("disk hit was not promoted to memory")
	}
}
