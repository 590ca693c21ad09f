package models

import (
	"database/sql"
	"math"
)

// TeamRecord holds one team's inputs and computed outputs for a period.
// A metric missing from Values is undefined for this period; a metric
// missing from Ranks was not ranked.
type TeamRecord struct {
	TeamID      int
	TeamCode    string
	GamesPlayed sql.NullInt32

	Values map[string]float64
	Ranks  map[string]int

	// Record (only set when the win/loss partial covered this team)
	Wins   sql.NullInt32
	Losses sql.NullInt32
	WinPct sql.NullFloat64
}

// NewTeamRecord creates an empty record for a team
func NewTeamRecord(teamID int) *TeamRecord {
	return &TeamRecord{
		TeamID: teamID,
		Values: make(map[string]float64),
		Ranks:  make(map[string]int),
	}
}

// Value returns the metric value and whether it is defined. NaN and
// infinite values count as undefined.
func (r *TeamRecord) Value(metric string) (float64, bool) {
	v, ok := r.Values[metric]
	if !ok || !IsFinite(v) {
		return 0, false
	}
	return v, true
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Rank returns the rank stored under a rank field and whether it was assigned
func (r *TeamRecord) Rank(field string) (int, bool) {
	rank, ok := r.Ranks[field]
	return rank, ok
}

// BaseRow is one team's row of pre-aggregated per-game stats for a period
type BaseRow struct {
	TeamID      int            `db:"team_id"`
	TeamCode    sql.NullString `db:"abbreviation"`
	GamesPlayed sql.NullInt32  `db:"games_played"`

	// Offense
	PointsPerGame       sql.NullFloat64 `db:"points_per_game"`
	PassingYardsPerGame sql.NullFloat64 `db:"passing_yards_per_game"`
	RushingYardsPerGame sql.NullFloat64 `db:"rushing_yards_per_game"`
	TotalYardsPerGame   sql.NullFloat64 `db:"total_yards_per_game"`
	YardsPerPass        sql.NullFloat64 `db:"yards_per_pass"`
	YardsPerRush        sql.NullFloat64 `db:"yards_per_rush"`

	// Defense
	PointsAllowedPerGame       sql.NullFloat64 `db:"points_allowed_per_game"`
	PassingYardsAllowedPerGame sql.NullFloat64 `db:"passing_yards_allowed_per_game"`
	RushingYardsAllowedPerGame sql.NullFloat64 `db:"rushing_yards_allowed_per_game"`
	TotalYardsAllowedPerGame   sql.NullFloat64 `db:"total_yards_allowed_per_game"`
	YardsPerPassAllowed        sql.NullFloat64 `db:"yards_per_pass_allowed"`
	YardsPerRushAllowed        sql.NullFloat64 `db:"yards_per_rush_allowed"`
}

// BaseColumns lists the value columns of BaseRow in scan order
var BaseColumns = []string{
	"points_per_game",
	"passing_yards_per_game",
	"rushing_yards_per_game",
	"total_yards_per_game",
	"yards_per_pass",
	"yards_per_rush",
	"points_allowed_per_game",
	"passing_yards_allowed_per_game",
	"rushing_yards_allowed_per_game",
	"total_yards_allowed_per_game",
	"yards_per_pass_allowed",
	"yards_per_rush_allowed",
}

// ValueTargets returns pointers to the value columns, in BaseColumns order
func (b *BaseRow) ValueTargets() []*sql.NullFloat64 {
	return []*sql.NullFloat64{
		&b.PointsPerGame,
		&b.PassingYardsPerGame,
		&b.RushingYardsPerGame,
		&b.TotalYardsPerGame,
		&b.YardsPerPass,
		&b.YardsPerRush,
		&b.PointsAllowedPerGame,
		&b.PassingYardsAllowedPerGame,
		&b.RushingYardsAllowedPerGame,
		&b.TotalYardsAllowedPerGame,
		&b.YardsPerPassAllowed,
		&b.YardsPerRushAllowed,
	}
}

// ToTeamRecord converts a base row into a TeamRecord, copying only valid,
// finite values
func (b *BaseRow) ToTeamRecord() *TeamRecord {
	rec := NewTeamRecord(b.TeamID)
	rec.GamesPlayed = b.GamesPlayed
	if b.TeamCode.Valid {
		rec.TeamCode = b.TeamCode.String
	}

	for i, target := range b.ValueTargets() {
		if target.Valid && IsFinite(target.Float64) {
			rec.Values[BaseColumns[i]] = target.Float64
		}
	}

	return rec
}
