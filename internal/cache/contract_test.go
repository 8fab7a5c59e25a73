package cache

import (
	"context"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cacheFactory builds a fresh cache and a function that moves its clock forward.
type cacheFactory func(t *testing.T) (FeedCache, func(time.Duration))

func makePosts(ids ...uint) []models.Post {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]models.Post, len(ids))
	for i, id := range ids {
		posts[i] = models.Post{
			ID:        id,
			Text:      "post",
			AuthorID:  1,
			Author:    models.User{ID: 1, Username: "leo"},
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return posts
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func runFeedCacheContract(t *testing.T, newCache cacheFactory) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		c, _ := newCache(t)
		posts, token, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Nil(t, posts)

		require.NoError(t, c.Put(ctx, GlobalFeedKey, token, makePosts(3, 2, 1), time.Minute))

		posts, _, hit, err = c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, []uint{3, 2, 1}, postIDs(posts))
	})

	t.Run("empty selection is a hit", func(t *testing.T) {
		c, _ := newCache(t)
		_, token, _, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		require.NoError(t, c.Put(ctx, GlobalFeedKey, token, nil, time.Minute))

		posts, _, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Empty(t, posts)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		c, advance := newCache(t)
		_, token, _, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		require.NoError(t, c.Put(ctx, GlobalFeedKey, token, makePosts(1), 20*time.Second))

		advance(19 * time.Second)
		_, _, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.True(t, hit)

		advance(2 * time.Second)
		_, _, hit, err = c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("non-positive ttl stores nothing", func(t *testing.T) {
		c, _ := newCache(t)
		_, token, _, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		require.NoError(t, c.Put(ctx, GlobalFeedKey, token, makePosts(1), 0))

		_, _, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("invalidate drops entry", func(t *testing.T) {
		c, _ := newCache(t)
		_, token, _, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		require.NoError(t, c.Put(ctx, GlobalFeedKey, token, makePosts(1), time.Minute))

		require.NoError(t, c.Invalidate(ctx, GlobalFeedKey))

		_, _, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("put computed before invalidation is dropped", func(t *testing.T) {
		c, _ := newCache(t)
		_, token, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		require.False(t, hit)

		// a write lands while the miss is being recomputed
		require.NoError(t, c.Invalidate(ctx, GlobalFeedKey))
		require.NoError(t, c.Put(ctx, GlobalFeedKey, token, makePosts(1), time.Minute))

		_, fresh, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Greater(t, fresh, token)

		require.NoError(t, c.Put(ctx, GlobalFeedKey, fresh, makePosts(2, 1), time.Minute))
		posts, _, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, []uint{2, 1}, postIDs(posts))
	})

	t.Run("invalidating another key keeps this one", func(t *testing.T) {
		c, _ := newCache(t)
		_, token, _, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		require.NoError(t, c.Put(ctx, GlobalFeedKey, token, makePosts(1), time.Minute))

		require.NoError(t, c.Invalidate(ctx, "other"))

		_, _, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.True(t, hit)
	})

	t.Run("invalidate all", func(t *testing.T) {
		c, _ := newCache(t)
		_, token, _, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		require.NoError(t, c.Put(ctx, GlobalFeedKey, token, makePosts(1), time.Minute))
		_, otherToken, _, err := c.Get(ctx, "other")
		require.NoError(t, err)

		require.NoError(t, c.InvalidateAll(ctx))

		_, _, hit, err := c.Get(ctx, GlobalFeedKey)
		require.NoError(t, err)
		assert.False(t, hit)

		// a key never cached before the sweep still rejects its old token
		require.NoError(t, c.Put(ctx, "other", otherToken, makePosts(1), time.Minute))
		_, _, hit, err = c.Get(ctx, "other")
		require.NoError(t, err)
		assert.False(t, hit)
	})
}
