package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"fmk-dating/internal/config"
)

// pendingTTL bounds staleness of the pending-match badge counters.
const pendingTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForPendingCount generates the key for a user's pending-match badge.
func (c *RedisCache) KeyForPendingCount(userID int64) string {
	return fmt.Sprintf("matches:pending:%d", userID)
}

// UpdatePendingCount overwrites the badge counter, refreshing the TTL.
func (c *RedisCache) UpdatePendingCount(ctx context.Context, userID int64, count int64) error {
	return c.Client.Set(ctx, c.KeyForPendingCount(userID), count, pendingTTL).Err()
}

// GetPendingCount reads the badge counter. A miss returns (0, false, nil)
// so callers fall back to the database.
func (c *RedisCache) GetPendingCount(ctx context.Context, userID int64) (int64, bool, error) {
	key := c.KeyForPendingCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, pendingTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// InvalidatePendingCounts drops both members' badges after a match
// transition; the next read repopulates from the database.
func (c *RedisCache) InvalidatePendingCounts(ctx context.Context, userIDs ...int64) {
	for _, id := range userIDs {
		_ = c.Client.Del(ctx, c.KeyForPendingCount(id)).Err()
	}
}
