package models

import (
	"database/sql"
)

// GameResult is the scoreline of one game, as needed for win/loss records
type GameResult struct {
	GameID     int           `db:"game_id"`
	Season     int           `db:"season"`
	Week       int           `db:"week"`
	HomeTeamID int           `db:"home_team_id"`
	AwayTeamID int           `db:"away_team_id"`
	HomeScore  sql.NullInt32 `db:"home_score"`
	AwayScore  sql.NullInt32 `db:"away_score"`
}

// IsPlayed returns true if the game has a recorded result.
// Stores write 0-0 for games that have not kicked off yet.
func (g *GameResult) IsPlayed() bool {
	if !g.HomeScore.Valid || !g.AwayScore.Valid {
		return false
	}
	return g.HomeScore.Int32 != 0 || g.AwayScore.Int32 != 0
}

// HomeWon returns true if the home team outscored the away team
func (g *GameResult) HomeWon() bool {
	return g.HomeScore.Int32 > g.AwayScore.Int32
}

// AwayWon returns true if the away team outscored the home team
func (g *GameResult) AwayWon() bool {
	return g.AwayScore.Int32 > g.HomeScore.Int32
}
