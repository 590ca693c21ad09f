package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/thebettingsean/team-rankings/internal/models"
)

// GameRepository handles nfl_games reads
type GameRepository struct {
	db *Database
}

// ResultsThroughWeek returns the season's games from week 1 up to and including week
func (r *GameRepository) ResultsThroughWeek(ctx context.Context, season, week int) ([]models.GameResult, error) {
	start := time.Now()
	query := `
		SELECT game_id, season, week, home_team_id, away_team_id, home_score, away_score
		FROM nfl_games
		WHERE season = $1 AND week <= $2
		ORDER BY week, game_id
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		record("game_results", start, err)
		return nil, fmt.Errorf("failed to get game results: %w", err)
	}
	defer rows.Close()

	var games []models.GameResult
	for rows.Next() {
		var game models.GameResult
		err := rows.Scan(
			&game.GameID, &game.Season, &game.Week, &game.HomeTeamID, &game.AwayTeamID,
			&game.HomeScore, &game.AwayScore,
		)
		if err != nil {
			record("game_results", start, err)
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	err = rows.Err()
	record("game_results", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}
