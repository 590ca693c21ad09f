// Package app wires configuration into a ready-to-run rebuild job.
package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/thebettingsean/team-rankings/internal/cache"
	"github.com/thebettingsean/team-rankings/internal/clickhouse"
	"github.com/thebettingsean/team-rankings/internal/config"
	"github.com/thebettingsean/team-rankings/internal/jobs"
	"github.com/thebettingsean/team-rankings/internal/models"
	"github.com/thebettingsean/team-rankings/internal/rankings"
	"github.com/thebettingsean/team-rankings/internal/repository"
)

// App holds the connected store, cache and rebuild job
type App struct {
	Store rankings.Store
	Cache *cache.RedisCache
	Job   *jobs.RebuildJob

	health  func(ctx context.Context) error
	stats   func() map[string]interface{}
	closers []func()
}

// New connects the configured store backend and cache
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	switch cfg.StoreBackend {
	case config.BackendClickHouse:
		client := clickhouse.NewClient(clickhouse.Config{
			Host:      cfg.ClickHouseHost,
			KeyID:     cfg.ClickHouseKeyID,
			KeySecret: cfg.ClickHouseKeySecret,
			Timeout:   cfg.ClickHouseTimeout,
			RateLimit: cfg.ClickHouseRateLimit,
			Burst:     cfg.ClickHouseBurst,
		})
		a.Store = clickhouse.NewStore(client)
		a.health = client.Ping
		log.Info().Str("host", cfg.ClickHouseHost).Msg("ClickHouse client initialized")

	case config.BackendPostgres:
		db, err := repository.NewDatabase(ctx, repository.Config{
			Host:     cfg.DatabaseHost,
			Port:     strconv.Itoa(cfg.DatabasePort),
			User:     cfg.DatabaseUser,
			Password: cfg.DatabasePassword,
			Database: cfg.DatabaseName,
			SSLMode:  cfg.DatabaseSSLMode,
			MaxConns: cfg.DatabaseMaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.Store = repository.NewStore(db)
		a.health = db.Health
		a.stats = db.PoolStats
		a.closers = append(a.closers, db.Close)
		log.Info().Msg("Database connection established")

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	a.Cache = cache.Disabled()
	if cfg.RedisEnabled {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without run lock")
		} else {
			a.Cache = redisCache
			a.closers = append(a.closers, func() { _ = redisCache.Close() })
			log.Info().Msg("Redis cache connected")
		}
	}

	var sample *models.Period
	if cfg.SampleSeason != 0 {
		sample = &models.Period{Season: cfg.SampleSeason, Week: cfg.SampleWeek}
	}

	pipeline := rankings.NewPipeline(a.Store, cfg.Workers)
	a.Job = jobs.NewRebuildJob(pipeline, a.Cache, cfg.RunTimeout, sample)

	return a, nil
}

// Health checks the store and, when enabled, the cache
func (a *App) Health(ctx context.Context) error {
	if err := a.health(ctx); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := a.Cache.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// PublishStats refreshes the connection pool gauges and returns the pool
// statistics, or nil when the backend has no pool
func (a *App) PublishStats() map[string]interface{} {
	if a.stats == nil {
		return nil
	}
	return a.stats()
}

// Close releases connections in reverse order of opening
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
