package models

import (
	"database/sql"
	"strings"
)

// Skill positions tracked by the position splits
const (
	PositionWR = "WR"
	PositionTE = "TE"
	PositionRB = "RB"
)

// TrackedPositions lists the positions that carry split metrics
var TrackedPositions = []string{PositionWR, PositionTE, PositionRB}

// PlayerLine is one player's yardage in one game
type PlayerLine struct {
	GameID         int           `db:"game_id"`
	PlayerID       int           `db:"player_id"`
	TeamID         int           `db:"team_id"`
	OpponentID     int           `db:"opponent_id"`
	Season         int           `db:"season"`
	Week           int           `db:"week"`
	Position       string        `db:"position"`
	RushYards      sql.NullInt32 `db:"rush_yards"`
	ReceivingYards sql.NullInt32 `db:"receiving_yards"`
}

// NormalizedPosition returns the upper-cased, trimmed position code
func (p *PlayerLine) NormalizedPosition() string {
	return strings.ToUpper(strings.TrimSpace(p.Position))
}

// PositionYards returns the yards this line contributes to its position split.
// Receivers (WR, TE) count receiving yards; running backs count scrimmage yards.
// The second return is false for positions without a split.
func (p *PlayerLine) PositionYards() (float64, bool) {
	switch p.NormalizedPosition() {
	case PositionWR, PositionTE:
		return float64(p.ReceivingYards.Int32), true
	case PositionRB:
		return float64(p.RushYards.Int32 + p.ReceivingYards.Int32), true
	default:
		return 0, false
	}
}
