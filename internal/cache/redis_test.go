package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebettingsean/team-rankings/internal/rankings"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	c := Disabled()

	assert.False(t, c.Enabled())
	assert.NoError(t, c.Ping(ctx))

	// Locks are always granted when Redis is off
	ok, err := c.AcquireLock(ctx, "run-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.AcquireLock(ctx, "run-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, c.ReleaseLock(ctx, "run-1"))

	require.NoError(t, c.SaveSummary(ctx, &rankings.Summary{RunID: "run-1"}))
	summary, err := c.LastSummary(ctx)
	require.NoError(t, err)
	assert.Nil(t, summary)

	assert.NoError(t, c.Close())
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *RedisCache
	assert.False(t, c.Enabled())
}

func TestNewRedisCache_ConnectionRefused(t *testing.T) {
	_, err := NewRedisCache(Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
