//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebettingsean/team-rankings/internal/models"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

// Run with: go test -v -tags=integration ./internal/cache/...

func setupTestCache(t *testing.T) (*RedisCache, context.Context) {
	ctx := context.Background()

	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		host = "localhost"
	}

	c, err := NewRedisCache(Config{Addr: host + ":6379", DB: 15})
	require.NoError(t, err, "Failed to connect to test redis")
	require.NoError(t, c.rdb.FlushDB(ctx).Err())

	t.Cleanup(func() { _ = c.Close() })
	return c, ctx
}

func TestRedisCache_Lock(t *testing.T) {
	c, ctx := setupTestCache(t)

	ok, err := c.AcquireLock(ctx, "run-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.AcquireLock(ctx, "run-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "Second run must not take a held lock")

	holder, err := c.LockHolder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", holder)

	// A stale token leaves the lock in place
	require.NoError(t, c.ReleaseLock(ctx, "run-2"))
	holder, _ = c.LockHolder(ctx)
	assert.Equal(t, "run-1", holder)

	require.NoError(t, c.ReleaseLock(ctx, "run-1"))
	holder, _ = c.LockHolder(ctx)
	assert.Empty(t, holder)
}

func TestRedisCache_Summary(t *testing.T) {
	c, ctx := setupTestCache(t)

	summary, err := c.LastSummary(ctx)
	require.NoError(t, err)
	assert.Nil(t, summary)

	saved := &rankings.Summary{
		RunID:             "run-1",
		PeriodsConsidered: 40,
		TeamsUpdated:      1280,
		SamplePeriod:      &models.Period{Season: 2025, Week: 13},
		Sample:            []rankings.SampleRow{{Rank: 1, TeamID: 12, TeamCode: "KC", PointsPerGame: 30.2}},
	}
	require.NoError(t, c.SaveSummary(ctx, saved))

	loaded, err := c.LastSummary(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "run-1", loaded.RunID)
	assert.Equal(t, int64(1280), loaded.TeamsUpdated)
	assert.Equal(t, "KC", loaded.Sample[0].TeamCode)
}
