package clickhouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thebettingsean/team-rankings/internal/metrics"
	"github.com/thebettingsean/team-rankings/internal/models"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

const backend = "clickhouse"

// Store reads and rewrites rankings snapshots held in ClickHouse
type Store struct {
	client *Client
}

// NewStore creates a ClickHouse-backed rankings store
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

var _ rankings.Store = (*Store)(nil)

type periodRow struct {
	Season Number `json:"season"`
	Week   Number `json:"week"`
}

type gameRow struct {
	GameID     Number `json:"game_id"`
	Season     Number `json:"season"`
	Week       Number `json:"week"`
	HomeTeamID Number `json:"home_team_id"`
	AwayTeamID Number `json:"away_team_id"`
	HomeScore  Number `json:"home_score"`
	AwayScore  Number `json:"away_score"`
}

type lineRow struct {
	GameID         Number `json:"game_id"`
	PlayerID       Number `json:"player_id"`
	TeamID         Number `json:"team_id"`
	OpponentID     Number `json:"opponent_id"`
	Season         Number `json:"season"`
	Week           Number `json:"week"`
	Position       string `json:"position"`
	RushYards      Number `json:"rush_yards"`
	ReceivingYards Number `json:"receiving_yards"`
}

// Periods lists every season/week that has a rankings snapshot
func (s *Store) Periods(ctx context.Context) ([]models.Period, error) {
	start := time.Now()
	query := `
		SELECT DISTINCT season, week
		FROM nfl_team_rankings
		ORDER BY season, week
	`

	var periods []models.Period
	err := s.client.Query(ctx, query, func(raw []byte) error {
		var row periodRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return err
		}
		periods = append(periods, models.Period{Season: row.Season.Int(), Week: row.Week.Int()})
		return nil
	})
	record("periods", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}

	return periods, nil
}

// BaseRecords returns the stored per-game stats of every team in the period
func (s *Store) BaseRecords(ctx context.Context, period models.Period) ([]*models.TeamRecord, error) {
	start := time.Now()
	columns := make([]string, 0, len(models.BaseColumns))
	for _, col := range models.BaseColumns {
		columns = append(columns, "r."+col)
	}

	query := fmt.Sprintf(`
		SELECT r.team_id, t.abbreviation, r.games_played, %s
		FROM nfl_team_rankings r
		LEFT JOIN teams t ON r.team_id = t.team_id AND t.sport = 'nfl'
		WHERE r.season = %d AND r.week = %d
		ORDER BY r.team_id
	`, strings.Join(columns, ", "), period.Season, period.Week)

	var records []*models.TeamRecord
	err := s.client.Query(ctx, query, func(raw []byte) error {
		row, err := decodeBaseRow(raw)
		if err != nil {
			return err
		}
		records = append(records, row.ToTeamRecord())
		return nil
	})
	record("base_records", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to read base records for %s: %w", period, err)
	}

	return records, nil
}

// decodeBaseRow maps a JSONEachRow object onto a BaseRow. Column names come
// back unqualified, so r.points_per_game arrives as points_per_game.
func decodeBaseRow(raw []byte) (*models.BaseRow, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	row := &models.BaseRow{}

	var teamID, gamesPlayed Number
	if err := unmarshalField(fields, "team_id", &teamID); err != nil {
		return nil, err
	}
	if !teamID.Valid {
		return nil, fmt.Errorf("row without team_id")
	}
	row.TeamID = teamID.Int()

	if err := unmarshalField(fields, "games_played", &gamesPlayed); err != nil {
		return nil, err
	}
	row.GamesPlayed = gamesPlayed.NullInt32()

	var abbreviation string
	if msg, ok := fields["abbreviation"]; ok && string(msg) != "null" {
		if err := json.Unmarshal(msg, &abbreviation); err != nil {
			return nil, fmt.Errorf("abbreviation: %w", err)
		}
	}
	row.TeamCode = sql.NullString{String: abbreviation, Valid: abbreviation != ""}

	targets := row.ValueTargets()
	for i, col := range models.BaseColumns {
		var n Number
		if err := unmarshalField(fields, col, &n); err != nil {
			return nil, err
		}
		*targets[i] = n.NullFloat64()
	}

	return row, nil
}

func unmarshalField(fields map[string]json.RawMessage, name string, n *Number) error {
	msg, ok := fields[name]
	if !ok {
		*n = Number{}
		return nil
	}
	if err := json.Unmarshal(msg, n); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// GameResults returns the season's games through the period's week
func (s *Store) GameResults(ctx context.Context, period models.Period) ([]models.GameResult, error) {
	start := time.Now()
	query := fmt.Sprintf(`
		SELECT game_id, season, week, home_team_id, away_team_id, home_score, away_score
		FROM nfl_games
		WHERE season = %d AND week <= %d
		ORDER BY week, game_id
	`, period.Season, period.Week)

	var games []models.GameResult
	err := s.client.Query(ctx, query, func(raw []byte) error {
		var row gameRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return err
		}
		games = append(games, models.GameResult{
			GameID:     row.GameID.Int(),
			Season:     row.Season.Int(),
			Week:       row.Week.Int(),
			HomeTeamID: row.HomeTeamID.Int(),
			AwayTeamID: row.AwayTeamID.Int(),
			HomeScore:  row.HomeScore.NullInt32(),
			AwayScore:  row.AwayScore.NullInt32(),
		})
		return nil
	})
	record("game_results", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to read games for %s: %w", period, err)
	}

	return games, nil
}

// PositionLines returns the season's WR/TE/RB box-score lines through the period's week
func (s *Store) PositionLines(ctx context.Context, period models.Period) ([]models.PlayerLine, error) {
	start := time.Now()
	query := fmt.Sprintf(`
		SELECT game_id, player_id, team_id, opponent_id, season, week, position, rush_yards, receiving_yards
		FROM nfl_box_scores_v2
		WHERE season = %d AND week <= %d AND position IN ('WR', 'TE', 'RB')
	`, period.Season, period.Week)

	var lines []models.PlayerLine
	err := s.client.Query(ctx, query, func(raw []byte) error {
		var row lineRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return err
		}
		lines = append(lines, models.PlayerLine{
			GameID:         row.GameID.Int(),
			PlayerID:       row.PlayerID.Int(),
			TeamID:         row.TeamID.Int(),
			OpponentID:     row.OpponentID.Int(),
			Season:         row.Season.Int(),
			Week:           row.Week.Int(),
			Position:       row.Position,
			RushYards:      row.RushYards.NullInt32(),
			ReceivingYards: row.ReceivingYards.NullInt32(),
		})
		return nil
	})
	record("position_lines", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to read box scores for %s: %w", period, err)
	}

	return lines, nil
}

// WriteUpdate applies a team's update as an ALTER TABLE ... UPDATE mutation
func (s *Store) WriteUpdate(ctx context.Context, update *models.TeamUpdate) error {
	statement, err := BuildUpdateStatement(update)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.client.Exec(ctx, statement)
	record("write_update", start, err)
	if err != nil {
		return fmt.Errorf("failed to update team %d: %w", update.TeamID, err)
	}

	return nil
}

// BuildUpdateStatement renders the mutation for one team update
func BuildUpdateStatement(update *models.TeamUpdate) (string, error) {
	names := update.SortedFields()
	if len(names) == 0 {
		return "", fmt.Errorf("update for team %d has no fields", update.TeamID)
	}

	clauses := make([]string, 0, len(names))
	for _, name := range names {
		if !rankings.IsWritableField(name) {
			return "", fmt.Errorf("refusing to write unknown column %q", name)
		}
		literal, err := formatLiteral(update.Fields[name])
		if err != nil {
			return "", fmt.Errorf("column %s: %w", name, err)
		}
		clauses = append(clauses, fmt.Sprintf("%s = %s", name, literal))
	}

	return fmt.Sprintf(
		"ALTER TABLE nfl_team_rankings UPDATE %s WHERE season = %d AND week = %d AND team_id = %d",
		strings.Join(clauses, ", "), update.Period.Season, update.Period.Week, update.TeamID,
	), nil
}

func formatLiteral(value interface{}) (string, error) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

func record(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		metrics.RecordError(backend, operation)
	}
	metrics.RecordStoreQuery(backend, operation, status, time.Since(start).Seconds())
}
