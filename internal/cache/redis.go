// Package cache holds the run lock and the last run summary in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/thebettingsean/team-rankings/internal/metrics"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

const (
	lockKey    = "nfl_rankings:rebuild:lock"
	summaryKey = "nfl_rankings:rebuild:last_summary"
)

// Compare-and-delete so a run never releases a lock it no longer holds
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Config holds Redis connection settings
type Config struct {
	Addr     string // host:port
	Password string
	DB       int
}

// RedisCache wraps a Redis client. A cache created by Disabled() accepts every
// call: locks are always granted and summaries are dropped.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{rdb: rdb}, nil
}

// Disabled returns a cache that performs no I/O
func Disabled() *RedisCache {
	return &RedisCache{}
}

// Enabled reports whether the cache is backed by Redis
func (c *RedisCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// Ping checks the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// AcquireLock takes the rebuild lock for token. It returns false when another
// run holds it. The lock expires after ttl if never released.
func (c *RedisCache) AcquireLock(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	if !c.Enabled() {
		return true, nil
	}

	start := time.Now()
	ok, err := c.rdb.SetNX(ctx, lockKey, token, ttl).Result()
	metrics.RecordCacheOperation("acquire_lock", time.Since(start).Seconds())
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return ok, nil
}

// ReleaseLock drops the rebuild lock if token still holds it
func (c *RedisCache) ReleaseLock(ctx context.Context, token string) error {
	if !c.Enabled() {
		return nil
	}

	start := time.Now()
	released, err := releaseScript.Run(ctx, c.rdb, []string{lockKey}, token).Int()
	metrics.RecordCacheOperation("release_lock", time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	if released == 0 {
		log.Warn().Str("token", token).Msg("Rebuild lock already expired or taken over")
	}

	return nil
}

// LockHolder returns the token holding the rebuild lock, or "" when free
func (c *RedisCache) LockHolder(ctx context.Context) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	token, err := c.rdb.Get(ctx, lockKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read lock: %w", err)
	}

	return token, nil
}

// SaveSummary stores the summary of the latest run
func (c *RedisCache) SaveSummary(ctx context.Context, summary *rankings.Summary) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	start := time.Now()
	err = c.rdb.Set(ctx, summaryKey, data, 0).Err()
	metrics.RecordCacheOperation("save_summary", time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}

	return nil
}

// LastSummary returns the most recently saved summary, or nil when none exists
func (c *RedisCache) LastSummary(ctx context.Context) (*rankings.Summary, error) {
	if !c.Enabled() {
		return nil, nil
	}

	start := time.Now()
	data, err := c.rdb.Get(ctx, summaryKey).Bytes()
	metrics.RecordCacheOperation("last_summary", time.Since(start).Seconds())
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}

	var summary rankings.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &summary, nil
}
