// Package cache provides TTL response cache backends. The memory backend
// is the default; sqlite and mysql backends follow the same contract for
// deployments that want the cache to survive restarts.
package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is the in-memory response cache. Expired entries are removed
// lazily when looked up; there is no background sweep.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	logger  *zap.Logger

	// now is replaceable so tests can expire entries with a fake clock.
	now func() time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache(logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the payload for key, or a miss if the key is absent or the
// entry has expired. An expired entry is removed as a side effect.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.logger.Debug("evicted expired cache entry", zap.String("key", key))
		return nil, false
	}
	return entry.payload, true
}

// Set stores the payload under key, overwriting any existing entry and
// resetting its expiry to now + ttl.
func (c *MemoryCache) Set(key string, payload []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		payload:   payload,
		expiresAt: c.now().Add(ttl),
	}
}

// Clear empties the cache unconditionally.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]memoryEntry)
}

// Len returns the number of entries currently stored, including any
// not-yet-evicted expired ones.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
