package bootstrap

import (
	"context"
	"testing"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSelectFeedCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tests := []struct {
		name    string
		driver  string
		client  *redis.Client
		backend string
	}{
		{"memory", config.CacheDriverMemory, rdb, cache.BackendMemory},
		{"redis", config.CacheDriverRedis, rdb, cache.BackendRedis},
		{"redis without client", config.CacheDriverRedis, nil, cache.BackendMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectFeedCache(&config.Config{FeedCacheDriver: tt.driver}, tt.client)
			assert.Equal(t, tt.backend, got.Backend())
		})
	}
}

func TestEnsureDevSeedUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)

	cfg := &config.Config{Env: "production", DevSeedUser: "demo", DevSeedPassword: "secret"}
	require.NoError(t, ensureDevSeedUser(ctx, cfg, db))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count, "only development bootstraps a user")

	cfg.Env = "development"
	require.NoError(t, ensureDevSeedUser(ctx, cfg, db))
	require.NoError(t, ensureDevSeedUser(ctx, cfg, db))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "demo", users[0].Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("secret")))

	cfg.DevSeedUser, cfg.DevSeedPassword = "other", ""
	assert.Error(t, ensureDevSeedUser(ctx, cfg, db))
}
