package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store backends
const (
	BackendClickHouse = "clickhouse"
	BackendPostgres   = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Analytics store
	StoreBackend string `envconfig:"STORE_BACKEND" default:"clickhouse"`

	// ClickHouse Cloud (HTTP API)
	ClickHouseHost      string        `envconfig:"CLICKHOUSE_HOST"`
	ClickHouseKeyID     string        `envconfig:"CLICKHOUSE_KEY_ID"`
	ClickHouseKeySecret string        `envconfig:"CLICKHOUSE_KEY_SECRET"`
	ClickHouseTimeout   time.Duration `envconfig:"CLICKHOUSE_TIMEOUT" default:"30s"`
	ClickHouseRateLimit float64       `envconfig:"CLICKHOUSE_RATE_LIMIT" default:"20"`
	ClickHouseBurst     int           `envconfig:"CLICKHOUSE_BURST" default:"10"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nfl_analytics"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"rankings"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`
	DatabaseMaxConns int32  `envconfig:"DATABASE_MAX_CONNS" default:"10"`

	// Redis
	RedisEnabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Rebuild
	Workers      int           `envconfig:"RANKINGS_WORKERS" default:"4"`
	RunTimeout   time.Duration `envconfig:"RANKINGS_RUN_TIMEOUT" default:"30m"`
	SampleSeason int           `envconfig:"RANKINGS_SAMPLE_SEASON" default:"0"`
	SampleWeek   int           `envconfig:"RANKINGS_SAMPLE_WEEK" default:"0"`

	// Scheduler (Tuesday morning, after Monday night football)
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	RebuildCron     string `envconfig:"REBUILD_CRON" default:"0 8 * * 2"`

	// HTTP
	HTTPPort      int    `envconfig:"HTTP_PORT" default:"8080"`
	TriggerSecret string `envconfig:"TRIGGER_SECRET" default:""`
}

// Load loads configuration from environment variables.
// Values from .env.local win over .env; real environment variables win over both.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var missing []string

	switch c.StoreBackend {
	case BackendClickHouse:
		if c.ClickHouseHost == "" {
			missing = append(missing, "CLICKHOUSE_HOST")
		}
		if c.ClickHouseKeyID == "" {
			missing = append(missing, "CLICKHOUSE_KEY_ID")
		}
		if c.ClickHouseKeySecret == "" {
			missing = append(missing, "CLICKHOUSE_KEY_SECRET")
		}
	case BackendPostgres:
		if c.DatabasePassword == "" {
			missing = append(missing, "DATABASE_PASSWORD")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendClickHouse, BackendPostgres, c.StoreBackend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required settings for %s backend: %s", c.StoreBackend, strings.Join(missing, ", "))
	}

	if c.Workers < 1 {
		return fmt.Errorf("RANKINGS_WORKERS must be at least 1")
	}

	if (c.SampleSeason == 0) != (c.SampleWeek == 0) {
		return fmt.Errorf("RANKINGS_SAMPLE_SEASON and RANKINGS_SAMPLE_WEEK must be set together")
	}

	if c.IsProduction() && c.TriggerSecret == "" {
		return fmt.Errorf("TRIGGER_SECRET is required in production")
	}

	return nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
