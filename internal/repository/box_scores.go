package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/thebettingsean/team-rankings/internal/models"
)

// BoxScoreRepository handles nfl_box_scores_v2 reads
type BoxScoreRepository struct {
	db *Database
}

// PositionLinesThroughWeek returns the season's WR/TE/RB player lines up to and including week
func (r *BoxScoreRepository) PositionLinesThroughWeek(ctx context.Context, season, week int) ([]models.PlayerLine, error) {
	start := time.Now()
	query := `
		SELECT game_id, player_id, team_id, opponent_id, season, week, position, rush_yards, receiving_yards
		FROM nfl_box_scores_v2
		WHERE season = $1 AND week <= $2 AND position = ANY($3)
	`

	rows, err := r.db.Pool.Query(ctx, query, season, week, models.TrackedPositions)
	if err != nil {
		record("position_lines", start, err)
		return nil, fmt.Errorf("failed to get position lines: %w", err)
	}
	defer rows.Close()

	var lines []models.PlayerLine
	for rows.Next() {
		var line models.PlayerLine
		err := rows.Scan(
			&line.GameID, &line.PlayerID, &line.TeamID, &line.OpponentID, &line.Season, &line.Week,
			&line.Position, &line.RushYards, &line.ReceivingYards,
		)
		if err != nil {
			record("position_lines", start, err)
			return nil, fmt.Errorf("failed to scan player line: %w", err)
		}
		lines = append(lines, line)
	}

	err = rows.Err()
	record("position_lines", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating player lines: %w", err)
	}

	return lines, nil
}
