package cache

import (
	"bytes"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(zap.NewNop())

	c.Set("search:python", []byte(`["a"]`), time.Minute)

	payload, ok := c.Get("search:python")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !bytes.Equal(payload, []byte(`["a"]`)) {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(zap.NewNop())

	if _, ok := c.Get("absent"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestMemoryCacheLazyEviction(t *testing.T) {
	c := NewMemoryCache(zap.NewNop())
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", []byte("v"), time.Minute)

	// Advance the clock past the expiry.
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be removed, got %d entries", c.Len())
	}

	// A second lookup after eviction is still a clean miss.
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected repeated miss after eviction")
	}
}

func TestMemoryCacheOverwriteResetsExpiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop())
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", []byte("old"), time.Minute)
	now = now.Add(50 * time.Second)
	c.Set("k", []byte("new"), time.Minute)

	// Past the first entry's expiry but within the second's.
	now = now.Add(30 * time.Second)

	payload, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit after overwrite")
	}
	if string(payload) != "new" {
		t.Fatalf("expected overwritten payload, got %s", payload)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(zap.NewNop())

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss after clear")
	}
}
