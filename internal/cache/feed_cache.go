// Package cache implements the read-through cache for the global feed.
//
// Both backends use the same generation scheme. A version counter is bumped on every
// invalidation, and the invalidated key (or every key, for InvalidateAll) is stamped with
// the new version. A miss hands the caller the current version as a token; Put stores only
// if nothing was invalidated after that token was issued. A recomputation that raced a
// write therefore cannot republish what the write replaced.
package cache

import (
	"context"
	"time"

	"yatube/internal/models"
)

// GlobalFeedKey is the single entry holding the whole global selection.
const GlobalFeedKey = "global"

// Backend names, used as metric and log labels.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// FeedCache stores complete, ordered post selections under a key.
type FeedCache interface {
	// Get returns the cached posts on a hit. On a miss it returns the token to pass to Put.
	Get(ctx context.Context, key string) (posts []models.Post, token uint64, hit bool, err error)
	// Put stores posts unless key was invalidated after token was issued.
	Put(ctx context.Context, key string, token uint64, posts []models.Post, ttl time.Duration) error
	// Invalidate drops key; readers that return afterwards never see the old value.
	Invalidate(ctx context.Context, key string) error
	// InvalidateAll drops every key.
	InvalidateAll(ctx context.Context) error
	// Backend names the implementation.
	Backend() string
}

// stale reports whether a value computed at token was overtaken by an invalidation.
func stale(token, keyMarker, allMarker uint64) bool {
	return keyMarker > token || allMarker > token
}
