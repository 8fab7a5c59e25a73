package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewRedisClient connects to addr (host:port or redis:// URL) and pings it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL %q: %w", addr, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

const defaultRedisPrefix = "feed:"

// putScript stores ARGV[2] under KEYS[3] for ARGV[3] ms unless either marker
// (KEYS[1] per key, KEYS[2] global) is newer than the token ARGV[1].
var putScript = redis.NewScript(`
local keyMarker = tonumber(redis.call('GET', KEYS[1]) or '0')
local allMarker = tonumber(redis.call('GET', KEYS[2]) or '0')
local token = tonumber(ARGV[1])
if keyMarker > token or allMarker > token then
  return 0
end
redis.call('SET', KEYS[3], ARGV[2], 'PX', ARGV[3])
return 1
`)

// invalidateScript bumps the version (KEYS[1]), stamps the marker (KEYS[2]) and drops the entry (KEYS[3]).
var invalidateScript = redis.NewScript(`
local v = redis.call('INCR', KEYS[1])
redis.call('SET', KEYS[2], v)
if KEYS[3] then
  redis.call('DEL', KEYS[3])
end
return v
`)

type redisEntry struct {
	Token uint64        `json:"token"`
	Posts []models.Post `json:"posts"`
}

// RedisFeedCache is the FeedCache backed by Redis. Entries expire through PX.
type RedisFeedCache struct {
	client *redis.Client
	prefix string
}

// NewRedisFeedCache wraps client. All keys live under "feed:".
func NewRedisFeedCache(client *redis.Client) *RedisFeedCache {
	return &RedisFeedCache{client: client, prefix: defaultRedisPrefix}
}

func (c *RedisFeedCache) versionKey() string { return c.prefix + "version" }

func (c *RedisFeedCache) allMarkerKey() string { return c.prefix + "invalidated-all" }

func (c *RedisFeedCache) markerKey(key string) string { return c.prefix + "invalidated:" + key }

func (c *RedisFeedCache) entryKey(key string) string { return c.prefix + "entry:" + key }

// Backend implements FeedCache.
func (c *RedisFeedCache) Backend() string { return BackendRedis }

// Get implements FeedCache with a single MGET so the entry and markers are read together.
func (c *RedisFeedCache) Get(ctx context.Context, key string) ([]models.Post, uint64, bool, error) {
	ctx, span := observability.TraceCacheOperation(ctx, BackendRedis, "get", key)
	defer span.End()

	vals, err := c.client.MGet(ctx, c.versionKey(), c.markerKey(key), c.allMarkerKey(), c.entryKey(key)).Result()
	if err != nil {
		return nil, 0, false, c.fail(ctx, "get", err)
	}

	version, err := parseCounter(vals[0])
	if err != nil {
		return nil, 0, false, c.fail(ctx, "get", err)
	}
	keyMarker, err := parseCounter(vals[1])
	if err != nil {
		return nil, 0, false, c.fail(ctx, "get", err)
	}
	allMarker, err := parseCounter(vals[2])
	if err != nil {
		return nil, 0, false, c.fail(ctx, "get", err)
	}

	if raw, ok := vals[3].(string); ok {
		var e redisEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, 0, false, c.fail(ctx, "get", fmt.Errorf("decode entry: %w", err))
		}
		if !stale(e.Token, keyMarker, allMarker) {
			observability.FeedCacheLookups.WithLabelValues(BackendRedis, observability.CacheResultHit).Inc()
			if e.Posts == nil {
				e.Posts = []models.Post{}
			}
			return e.Posts, e.Token, true, nil
		}
	}

	observability.FeedCacheLookups.WithLabelValues(BackendRedis, observability.CacheResultMiss).Inc()
	return nil, version, false, nil
}

// Put implements FeedCache.
func (c *RedisFeedCache) Put(ctx context.Context, key string, token uint64, posts []models.Post, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	ctx, span := observability.TraceCacheOperation(ctx, BackendRedis, "put", key)
	defer span.End()

	if posts == nil {
		posts = []models.Post{}
	}
	payload, err := json.Marshal(redisEntry{Token: token, Posts: posts})
	if err != nil {
		return c.fail(ctx, "put", fmt.Errorf("encode entry: %w", err))
	}

	stored, err := putScript.Run(ctx, c.client,
		[]string{c.markerKey(key), c.allMarkerKey(), c.entryKey(key)},
		strconv.FormatUint(token, 10), payload, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return c.fail(ctx, "put", err)
	}
	if stored == 0 {
		observability.FeedCacheStalePuts.WithLabelValues(BackendRedis).Inc()
	}
	return nil
}

// Invalidate implements FeedCache.
func (c *RedisFeedCache) Invalidate(ctx context.Context, key string) error {
	ctx, span := observability.TraceCacheOperation(ctx, BackendRedis, "invalidate", key)
	defer span.End()

	keys := []string{c.versionKey(), c.markerKey(key), c.entryKey(key)}
	if err := invalidateScript.Run(ctx, c.client, keys).Err(); err != nil {
		return c.fail(ctx, "invalidate", err)
	}
	observability.FeedCacheInvalidations.WithLabelValues(BackendRedis, "key").Inc()
	return nil
}

// InvalidateAll implements FeedCache. Once the all-marker is stamped every entry is dead;
// deleting them afterwards only frees memory, so a failed sweep is not reported.
func (c *RedisFeedCache) InvalidateAll(ctx context.Context) error {
	ctx, span := observability.TraceCacheOperation(ctx, BackendRedis, "invalidate_all", "*")
	defer span.End()

	if err := invalidateScript.Run(ctx, c.client, []string{c.versionKey(), c.allMarkerKey()}).Err(); err != nil {
		return c.fail(ctx, "invalidate_all", err)
	}
	observability.FeedCacheInvalidations.WithLabelValues(BackendRedis, "all").Inc()

	iter := c.client.Scan(ctx, 0, c.entryKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	return nil
}

func (c *RedisFeedCache) fail(ctx context.Context, operation string, err error) error {
	observability.FeedCacheErrors.WithLabelValues(BackendRedis, operation).Inc()
	observability.RecordErrorInContext(ctx, err)
	return fmt.Errorf("redis feed cache %s: %w", operation, err)
}

func parseCounter(v interface{}) (uint64, error) {
	switch s := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse counter %q: %w", s, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected counter type %T", v)
	}
}
