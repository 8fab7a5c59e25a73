package cache

import (
	"context"
	"sync"
	"time"

	"yatube/internal/models"
	"yatube/internal/observability"
)

type memoryEntry struct {
	posts     []models.Post
	token     uint64
	expiresAt time.Time
}

// MemoryFeedCache is the in-process FeedCache. Expiry is checked on read; nothing sweeps.
type MemoryFeedCache struct {
	mu          sync.RWMutex
	entries     map[string]memoryEntry
	invalidated map[string]uint64
	allMarker   uint64
	version     uint64
	now         func() time.Time
}

// NewMemoryFeedCache returns an empty cache using the wall clock.
func NewMemoryFeedCache() *MemoryFeedCache {
	return NewMemoryFeedCacheWithClock(time.Now)
}

// NewMemoryFeedCacheWithClock returns an empty cache reading time from now.
func NewMemoryFeedCacheWithClock(now func() time.Time) *MemoryFeedCache {
	return &MemoryFeedCache{
		entries:     make(map[string]memoryEntry),
		invalidated: make(map[string]uint64),
		now:         now,
	}
}

// Backend implements FeedCache.
func (c *MemoryFeedCache) Backend() string { return BackendMemory }

// Get implements FeedCache.
func (c *MemoryFeedCache) Get(_ context.Context, key string) ([]models.Post, uint64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if ok && !stale(e.token, c.invalidated[key], c.allMarker) && c.now().Before(e.expiresAt) {
		observability.FeedCacheLookups.WithLabelValues(BackendMemory, observability.CacheResultHit).Inc()
		return clonePosts(e.posts), e.token, true, nil
	}

	observability.FeedCacheLookups.WithLabelValues(BackendMemory, observability.CacheResultMiss).Inc()
	return nil, c.version, false, nil
}

// Put implements FeedCache.
func (c *MemoryFeedCache) Put(_ context.Context, key string, token uint64, posts []models.Post, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if stale(token, c.invalidated[key], c.allMarker) {
		observability.FeedCacheStalePuts.WithLabelValues(BackendMemory).Inc()
		return nil
	}
	c.entries[key] = memoryEntry{
		posts:     clonePosts(posts),
		token:     token,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Invalidate implements FeedCache.
func (c *MemoryFeedCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	c.invalidated[key] = c.version
	delete(c.entries, key)
	observability.FeedCacheInvalidations.WithLabelValues(BackendMemory, "key").Inc()
	return nil
}

// InvalidateAll implements FeedCache.
func (c *MemoryFeedCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	c.allMarker = c.version
	clear(c.entries)
	observability.FeedCacheInvalidations.WithLabelValues(BackendMemory, "all").Inc()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryFeedCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// clonePosts returns a shallow copy so callers cannot reorder or replace cached posts.
func clonePosts(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	out := make([]models.Post, len(posts))
	copy(out, posts)
	return out
}
