package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestMemoryFeedCache_Contract(t *testing.T) {
	runFeedCacheContract(t, func(t *testing.T) (FeedCache, func(time.Duration)) {
		clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		return NewMemoryFeedCacheWithClock(clock.Now), clock.Advance
	})
}

func TestMemoryFeedCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryFeedCache()

	posts := makePosts(2, 1)
	_, token, _, err := c.Get(ctx, GlobalFeedKey)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, GlobalFeedKey, token, posts, time.Minute))
	posts[0].ID = 99

	got, _, hit, err := c.Get(ctx, GlobalFeedKey)
	require.NoError(t, err)
	require.True(t, hit)
	got[1].ID = 42

	again, _, _, err := c.Get(ctx, GlobalFeedKey)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 1}, postIDs(again))
}

func TestMemoryFeedCache_InvalidateAllClearsEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryFeedCache()
	for _, key := range []string{GlobalFeedKey, "a", "b"} {
		_, token, _, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.NoError(t, c.Put(ctx, key, token, makePosts(1), time.Minute))
	}
	assert.Equal(t, 3, c.Len())

	require.NoError(t, c.InvalidateAll(ctx))
	assert.Equal(t, 0, c.Len())
}

// Readers racing writers must never see a value older than the last acknowledged
// invalidation. Run with -race.
func TestMemoryFeedCache_ConcurrentReadersAndWriters(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryFeedCache()

	var (
		mu           sync.Mutex
		written      uint
		acknowledged uint
	)
	current := func() uint {
		mu.Lock()
		defer mu.Unlock()
		return written
	}
	floor := func() uint {
		mu.Lock()
		defer mu.Unlock()
		return acknowledged
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				lowest := floor()
				posts, token, hit, err := c.Get(ctx, GlobalFeedKey)
				if !assert.NoError(t, err) {
					return
				}
				if hit {
					if len(posts) > 0 {
						assert.GreaterOrEqual(t, posts[0].ID, lowest)
					}
					continue
				}
				// recompute from the "store"
				_ = c.Put(ctx, GlobalFeedKey, token, makePosts(current()), time.Minute)
			}
		}()
	}

	for i := uint(1); i <= 200; i++ {
		mu.Lock()
		written = i
		mu.Unlock()
		require.NoError(t, c.Invalidate(ctx, GlobalFeedKey))
		mu.Lock()
		acknowledged = i
		mu.Unlock()
	}
	close(stop)
	wg.Wait()
}
