// Package bootstrap connects the runtime dependencies shared by the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Runtime holds the connected dependencies. Redis is nil when it is not configured or
// unreachable; the feed cache then falls back to the in-process backend.
type Runtime struct {
	DB        *gorm.DB
	Redis     *redis.Client
	FeedCache cache.FeedCache
}

// InitRuntime connects to the database and Redis and picks the feed cache backend.
func InitRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	var rdb *redis.Client
	if strings.TrimSpace(cfg.RedisURL) != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: redis unavailable, continuing without it: %v", err)
			rdb = nil
		}
	}

	if err := ensureDevSeedUser(ctx, cfg, db); err != nil {
		return nil, fmt.Errorf("failed to bootstrap development user: %w", err)
	}

	return &Runtime{DB: db, Redis: rdb, FeedCache: SelectFeedCache(cfg, rdb)}, nil
}

// SelectFeedCache returns the configured feed cache backend. A redis driver without a
// client degrades to the memory backend.
func SelectFeedCache(cfg *config.Config, rdb *redis.Client) cache.FeedCache {
	if cfg.FeedCacheDriver == config.CacheDriverRedis {
		if rdb != nil {
			return cache.NewRedisFeedCache(rdb)
		}
		log.Printf("WARNING: FEED_CACHE_DRIVER=redis but redis is unavailable; using the memory feed cache")
	}
	return cache.NewMemoryFeedCache()
}

// ensureDevSeedUser creates DEV_SEED_USER in development so a token can be issued for it.
func ensureDevSeedUser(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	username := strings.TrimSpace(cfg.DevSeedUser)
	if !strings.EqualFold(cfg.Env, "development") || username == "" {
		return nil
	}
	if cfg.DevSeedPassword == "" {
		return errors.New("DEV_SEED_PASSWORD must be set when DEV_SEED_USER is set")
	}

	var existing models.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.DevSeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dev user password: %w", err)
	}
	user := models.User{Username: username, DisplayName: username, Password: string(hashed)}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	log.Printf("development user %q ensured (id %d)", username, user.ID)
	return nil
}
