package repository

import (
	"context"

	"github.com/thebettingsean/team-rankings/internal/models"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

// Store exposes the PostgreSQL repositories as a rankings.Store
type Store struct {
	db *Database
}

// NewStore wraps a connected database
func NewStore(db *Database) *Store {
	return &Store{db: db}
}

var _ rankings.Store = (*Store)(nil)

func (s *Store) Periods(ctx context.Context) ([]models.Period, error) {
	return s.db.Rankings.Periods(ctx)
}

func (s *Store) BaseRecords(ctx context.Context, period models.Period) ([]*models.TeamRecord, error) {
	rows, err := s.db.Rankings.BaseRecords(ctx, period)
	if err != nil {
		return nil, err
	}

	records := make([]*models.TeamRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.ToTeamRecord())
	}
	return records, nil
}

func (s *Store) GameResults(ctx context.Context, period models.Period) ([]models.GameResult, error) {
	return s.db.Games.ResultsThroughWeek(ctx, period.Season, period.Week)
}

func (s *Store) PositionLines(ctx context.Context, period models.Period) ([]models.PlayerLine, error) {
	return s.db.BoxScores.PositionLinesThroughWeek(ctx, period.Season, period.Week)
}

func (s *Store) WriteUpdate(ctx context.Context, update *models.TeamUpdate) error {
	return s.db.Rankings.WriteUpdate(ctx, update)
}
