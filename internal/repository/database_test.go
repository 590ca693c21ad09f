//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebettingsean/team-rankings/internal/metrics"
)

// Integration tests for database operations
// Run with: go test -v -tags=integration ./internal/repository/...

const testSchema = `
	CREATE TABLE IF NOT EXISTS teams (
		team_id      INTEGER PRIMARY KEY,
		abbreviation TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS nfl_team_rankings (
		team_id                        INTEGER NOT NULL,
		season                         INTEGER NOT NULL,
		week                           INTEGER NOT NULL,
		games_played                   INTEGER,
		points_per_game                DOUBLE PRECISION,
		passing_yards_per_game         DOUBLE PRECISION,
		rushing_yards_per_game         DOUBLE PRECISION,
		total_yards_per_game           DOUBLE PRECISION,
		yards_per_pass                 DOUBLE PRECISION,
		yards_per_rush                 DOUBLE PRECISION,
		points_allowed_per_game        DOUBLE PRECISION,
		passing_yards_allowed_per_game DOUBLE PRECISION,
		rushing_yards_allowed_per_game DOUBLE PRECISION,
		total_yards_allowed_per_game   DOUBLE PRECISION,
		yards_per_pass_allowed         DOUBLE PRECISION,
		yards_per_rush_allowed         DOUBLE PRECISION,
		rank_points_per_game                INTEGER,
		rank_passing_yards_per_game         INTEGER,
		rank_rushing_yards_per_game         INTEGER,
		rank_total_yards_per_game           INTEGER,
		rank_yards_per_pass                 INTEGER,
		rank_yards_per_rush                 INTEGER,
		rank_points_allowed_per_game        INTEGER,
		rank_passing_yards_allowed_per_game INTEGER,
		rank_rushing_yards_allowed_per_game INTEGER,
		rank_total_yards_allowed_per_game   INTEGER,
		rank_yards_per_pass_allowed         INTEGER,
		rank_yards_per_rush_allowed         INTEGER,
		wins    INTEGER,
		losses  INTEGER,
		win_pct DOUBLE PRECISION,
		wr_yards_produced        DOUBLE PRECISION,
		te_yards_produced        DOUBLE PRECISION,
		rb_yards_produced        DOUBLE PRECISION,
		yards_allowed_to_wr      DOUBLE PRECISION,
		yards_allowed_to_te      DOUBLE PRECISION,
		yards_allowed_to_rb      DOUBLE PRECISION,
		rank_wr_yards_produced   INTEGER,
		rank_te_yards_produced   INTEGER,
		rank_rb_yards_produced   INTEGER,
		rank_yards_allowed_to_wr INTEGER,
		rank_yards_allowed_to_te INTEGER,
		rank_yards_allowed_to_rb INTEGER,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (season, week, team_id)
	);

	CREATE TABLE IF NOT EXISTS nfl_games (
		game_id      INTEGER PRIMARY KEY,
		season       INTEGER NOT NULL,
		week         INTEGER NOT NULL,
		home_team_id INTEGER NOT NULL,
		away_team_id INTEGER NOT NULL,
		home_score   INTEGER,
		away_score   INTEGER
	);

	CREATE TABLE IF NOT EXISTS nfl_box_scores_v2 (
		game_id         INTEGER NOT NULL,
		player_id       INTEGER NOT NULL,
		team_id         INTEGER NOT NULL,
		opponent_id     INTEGER NOT NULL,
		season          INTEGER NOT NULL,
		week            INTEGER NOT NULL,
		position        TEXT NOT NULL,
		rush_yards      INTEGER,
		receiving_yards INTEGER,
		PRIMARY KEY (game_id, player_id)
	);

	TRUNCATE teams, nfl_team_rankings, nfl_games, nfl_box_scores_v2;
`

func setupTestDB(t *testing.T) (*Database, context.Context) {
	ctx := context.Background()

	cfg := Config{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "5432"),
		Database: envOr("TEST_DB_NAME", "nfl_rankings_test"),
		User:     envOr("TEST_DB_USER", "rankings"),
		Password: envOr("TEST_DB_PASSWORD", "rankings"),
		SSLMode:  "disable",
	}

	db, err := NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")

	_, err = db.Pool.Exec(ctx, testSchema)
	require.NoError(t, err, "Failed to prepare schema")

	return db, ctx
}

func teardownTestDB(t *testing.T, db *Database) {
	db.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestDatabaseConnection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Health(ctx)
	assert.NoError(t, err, "Database health check should pass")

	stats := db.PoolStats()
	assert.NotNil(t, stats, "Should return connection pool stats")
	assert.GreaterOrEqual(t, stats["max_conns"].(int32), int32(1), "Should have at least 1 max connection")
	assert.Equal(t, float64(stats["idle_conns"].(int32)), testutil.ToFloat64(metrics.DBConnectionsIdle), "Idle gauge is published")
}

func TestDatabasePing(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := db.Pool.Ping(ctx)
	assert.NoError(t, err, "Should successfully ping database")
}
