//go:build integration

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebettingsean/team-rankings/internal/models"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

func TestGameRepository_ResultsThroughWeek(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO nfl_games (game_id, season, week, home_team_id, away_team_id, home_score, away_score) VALUES
			(1, 2025, 1, 10, 20, 24, 17),
			(2, 2025, 2, 20, 10, 10, 31),
			(3, 2025, 3, 10, 20, NULL, NULL),
			(4, 2024, 1, 10, 20, 3, 30)
	`)
	require.NoError(t, err)

	games, err := db.Games.ResultsThroughWeek(ctx, 2025, 2)
	require.NoError(t, err)
	require.Len(t, games, 2, "Should only return the season's games through week 2")
	assert.Equal(t, 1, games[0].GameID)
	assert.Equal(t, int32(31), games[1].AwayScore.Int32)

	games, err = db.Games.ResultsThroughWeek(ctx, 2025, 3)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.False(t, games[2].HomeScore.Valid, "Unplayed game keeps NULL scores")
}

func TestBoxScoreRepository_PositionLines(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO nfl_box_scores_v2 (game_id, player_id, team_id, opponent_id, season, week, position, rush_yards, receiving_yards) VALUES
			(1, 100, 10, 20, 2025, 1, 'WR', 0, 80),
			(1, 101, 10, 20, 2025, 1, 'QB', 12, NULL),
			(1, 102, 20, 10, 2025, 1, 'RB', 64, 9),
			(2, 100, 10, 30, 2025, 5, 'WR', 0, 45)
	`)
	require.NoError(t, err)

	lines, err := db.BoxScores.PositionLinesThroughWeek(ctx, 2025, 4)
	require.NoError(t, err)
	require.Len(t, lines, 2, "QB lines and later weeks are excluded")
	assert.Equal(t, 2025, lines[0].Season)

	defense := rankings.DefenseSplits(lines)
	assert.Equal(t, 80.0, defense[20]["yards_allowed_to_wr"])
	assert.Equal(t, 73.0, defense[10]["yards_allowed_to_rb"])
}

func TestRankingsRepository_RoundTrip(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO teams (team_id, abbreviation) VALUES (10, 'KC'), (20, 'BUF');
		INSERT INTO nfl_team_rankings (team_id, season, week, games_played, points_per_game, yards_per_rush) VALUES
			(20, 2025, 13, 12, 30.0, NULL),
			(10, 2025, 13, 12, 30.0, 4.8),
			(30, 2025, 13, 11, 24.5, 4.1),
			(10, 2025, 12, 11, 29.1, 4.7)
	`)
	require.NoError(t, err)

	periods, err := db.Rankings.Periods(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Period{{Season: 2025, Week: 12}, {Season: 2025, Week: 13}}, periods)

	rows, err := db.Rankings.BaseRecords(ctx, models.Period{Season: 2025, Week: 13})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 10, rows[0].TeamID, "Rows are ordered by team_id")
	assert.Equal(t, "KC", rows[0].TeamCode.String)
	assert.False(t, rows[2].TeamCode.Valid, "Team without a teams row has no code")
	assert.False(t, rows[1].YardsPerRush.Valid)

	update := &models.TeamUpdate{
		Period: models.Period{Season: 2025, Week: 13},
		TeamID: 10,
		Fields: map[string]interface{}{"rank_points_per_game": 1, "win_pct": 0.75, "wins": 9},
	}
	require.NoError(t, db.Rankings.WriteUpdate(ctx, update))

	var rank, wins int
	var pct float64
	err = db.Pool.QueryRow(ctx,
		`SELECT rank_points_per_game, wins, win_pct FROM nfl_team_rankings WHERE season = 2025 AND week = 13 AND team_id = 10`,
	).Scan(&rank, &wins, &pct)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
	assert.Equal(t, 9, wins)
	assert.Equal(t, 0.75, pct)

	missing := &models.TeamUpdate{Period: models.Period{Season: 2025, Week: 13}, TeamID: 99, Fields: map[string]interface{}{"wins": 1}}
	assert.Error(t, db.Rankings.WriteUpdate(ctx, missing), "Update for an absent row is reported")
}

func TestStore_PipelineRun(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO nfl_team_rankings (team_id, season, week, games_played, points_per_game) VALUES
			(1, 2025, 13, 12, 30.0),
			(2, 2025, 13, 12, 24.5),
			(3, 2025, 13, 12, 30.0);
		INSERT INTO nfl_games (game_id, season, week, home_team_id, away_team_id, home_score, away_score) VALUES
			(1, 2025, 12, 1, 2, 27, 20)
	`)
	require.NoError(t, err)

	summary, err := rankings.NewPipeline(NewStore(db), 2).Run(ctx, rankings.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TeamsUpdated)

	ranks := map[int]int{}
	rows, err := db.Pool.Query(ctx, `SELECT team_id, rank_points_per_game FROM nfl_team_rankings WHERE season = 2025 AND week = 13`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var teamID, rank int
		require.NoError(t, rows.Scan(&teamID, &rank))
		ranks[teamID] = rank
	}
	assert.Equal(t, map[int]int{1: 1, 3: 2, 2: 3}, ranks)
}
