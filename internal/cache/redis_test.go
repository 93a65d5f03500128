package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmk-dating/internal/cache"
	"fmk-dating/internal/config"
)

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Redis.Addr = mr.Addr()
	c := cache.NewRedisCache(cfg)
	require.NoError(t, c.Ping(context.Background()))
	return c, mr
}

func TestPendingCountRoundtrip(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	_, found, err := c.GetPendingCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.UpdatePendingCount(ctx, 1, 3))
	n, found, err := c.GetPendingCount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 3, n)

	// counters carry a TTL
	ttl := mr.TTL(c.KeyForPendingCount(1))
	assert.Greater(t, ttl, time.Duration(0))
}

func TestPendingCountExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	require.NoError(t, c.UpdatePendingCount(ctx, 1, 2))
	mr.FastForward(2 * time.Hour)

	_, found, err := c.GetPendingCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	require.NoError(t, c.UpdatePendingCount(ctx, 1, 2))
	mr.FastForward(50 * time.Minute)

	_, found, err := c.GetPendingCount(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)

	// another near-expiry window passes without a miss
	mr.FastForward(50 * time.Minute)
	_, found, err = c.GetPendingCount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInvalidatePendingCounts(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	require.NoError(t, c.UpdatePendingCount(ctx, 1, 2))
	require.NoError(t, c.UpdatePendingCount(ctx, 2, 4))

	c.InvalidatePendingCounts(ctx, 1, 2)
	assert.False(t, mr.Exists(c.KeyForPendingCount(1)))
	assert.False(t, mr.Exists(c.KeyForPendingCount(2)))
}

func TestMalformedCounterTreatedAsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	require.NoError(t, mr.Set(c.KeyForPendingCount(1), "not-a-number"))
	_, found, err := c.GetPendingCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
}
