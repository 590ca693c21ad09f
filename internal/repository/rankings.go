package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebettingsean/team-rankings/internal/models"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

// RankingsRepository handles nfl_team_rankings snapshot rows
type RankingsRepository struct {
	db *Database
}

// Periods returns every season/week with a snapshot, oldest first
func (r *RankingsRepository) Periods(ctx context.Context) ([]models.Period, error) {
	start := time.Now()
	query := `
		SELECT DISTINCT season, week
		FROM nfl_team_rankings
		ORDER BY season, week
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		record("periods", start, err)
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []models.Period
	for rows.Next() {
		var p models.Period
		if err := rows.Scan(&p.Season, &p.Week); err != nil {
			record("periods", start, err)
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}

	err = rows.Err()
	record("periods", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating periods: %w", err)
	}

	return periods, nil
}

// BaseRecords returns one row per team for the period, ordered by team_id
func (r *RankingsRepository) BaseRecords(ctx context.Context, period models.Period) ([]*models.BaseRow, error) {
	start := time.Now()
	columns := make([]string, 0, len(models.BaseColumns))
	for _, col := range models.BaseColumns {
		columns = append(columns, "r."+col)
	}

	query := fmt.Sprintf(`
		SELECT r.team_id, t.abbreviation, r.games_played, %s
		FROM nfl_team_rankings r
		LEFT JOIN teams t ON t.team_id = r.team_id
		WHERE r.season = $1 AND r.week = $2
		ORDER BY r.team_id
	`, strings.Join(columns, ", "))

	rows, err := r.db.Pool.Query(ctx, query, period.Season, period.Week)
	if err != nil {
		record("base_records", start, err)
		return nil, fmt.Errorf("failed to get base records: %w", err)
	}
	defer rows.Close()

	var result []*models.BaseRow
	for rows.Next() {
		var row models.BaseRow
		dest := []interface{}{&row.TeamID, &row.TeamCode, &row.GamesPlayed}
		for _, target := range row.ValueTargets() {
			dest = append(dest, target)
		}

		if err := rows.Scan(dest...); err != nil {
			record("base_records", start, err)
			return nil, fmt.Errorf("failed to scan base record: %w", err)
		}
		result = append(result, &row)
	}

	err = rows.Err()
	record("base_records", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating base records: %w", err)
	}

	return result, nil
}

// WriteUpdate sets the update's columns on the team's row for the period
func (r *RankingsRepository) WriteUpdate(ctx context.Context, update *models.TeamUpdate) error {
	query, args, err := buildUpdateQuery(update)
	if err != nil {
		return err
	}

	start := time.Now()
	tag, err := r.db.Pool.Exec(ctx, query, args...)
	record("write_update", start, err)
	if err != nil {
		return fmt.Errorf("failed to update rankings: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no rankings row for team %d in %s", update.TeamID, update.Period)
	}

	log.Debug().
		Int("team_id", update.TeamID).
		Int("season", update.Period.Season).
		Int("week", update.Period.Week).
		Int("fields", len(update.Fields)).
		Msg("Rankings updated")

	return nil
}

// buildUpdateQuery renders a parameterised UPDATE. Column names cannot be
// parameters, so each one is checked against the writable set first.
func buildUpdateQuery(update *models.TeamUpdate) (string, []interface{}, error) {
	names := update.SortedFields()
	if len(names) == 0 {
		return "", nil, fmt.Errorf("update for team %d has no fields", update.TeamID)
	}

	sets := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names)+3)
	for i, name := range names {
		if !rankings.IsWritableField(name) {
			return "", nil, fmt.Errorf("refusing to write unknown column %q", name)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", name, i+1))
		args = append(args, update.Fields[name])
	}

	n := len(args)
	query := fmt.Sprintf(
		"UPDATE nfl_team_rankings SET %s, updated_at = NOW() WHERE season = $%d AND week = $%d AND team_id = $%d",
		strings.Join(sets, ", "), n+1, n+2, n+3,
	)
	args = append(args, update.Period.Season, update.Period.Week, update.TeamID)

	return query, args, nil
}
