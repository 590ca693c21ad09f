package rankings

import (
	"math"

	"github.com/thebettingsean/team-rankings/internal/models"
)

// WinLoss is a team's record through a period
type WinLoss struct {
	Wins   int
	Losses int
}

// Pct returns wins / (wins + losses) rounded to 3 decimals, or 0 with no decisions
func (wl WinLoss) Pct() float64 {
	decisions := wl.Wins + wl.Losses
	if decisions == 0 {
		return 0
	}
	return round3(float64(wl.Wins) / float64(decisions))
}

// SplitRates maps team_id to per-game position rates keyed by field name
type SplitRates map[int]map[string]float64

// WinLossFromGames counts wins and losses over played games up to and including week.
// Ties and unplayed games count for neither side. Teams without a played game
// are absent from the result.
func WinLossFromGames(games []models.GameResult, week int) map[int]WinLoss {
	records := make(map[int]WinLoss)

	for i := range games {
		g := &games[i]
		if g.Week > week || !g.IsPlayed() {
			continue
		}

		home := records[g.HomeTeamID]
		away := records[g.AwayTeamID]
		switch {
		case g.HomeWon():
			home.Wins++
			away.Losses++
		case g.AwayWon():
			away.Wins++
			home.Losses++
		}
		records[g.HomeTeamID] = home
		records[g.AwayTeamID] = away
	}

	return records
}

// OffenseSplits credits each line's position yards to the player's own team
func OffenseSplits(lines []models.PlayerLine) SplitRates {
	return positionRates(lines, func(l *models.PlayerLine) int { return l.TeamID }, OffenseSplitField)
}

// DefenseSplits credits each line's position yards to the team the player faced
func DefenseSplits(lines []models.PlayerLine) SplitRates {
	return positionRates(lines, func(l *models.PlayerLine) int { return l.OpponentID }, DefenseSplitField)
}

type splitKey struct {
	teamID   int
	position string
}

type splitAccumulator struct {
	yards float64
	games map[int]struct{}
}

func positionRates(lines []models.PlayerLine, teamOf func(*models.PlayerLine) int, fieldOf func(string) string) SplitRates {
	acc := make(map[splitKey]*splitAccumulator)

	for i := range lines {
		line := &lines[i]
		yards, ok := line.PositionYards()
		if !ok {
			continue
		}

		key := splitKey{teamID: teamOf(line), position: line.NormalizedPosition()}
		a, exists := acc[key]
		if !exists {
			a = &splitAccumulator{games: make(map[int]struct{})}
			acc[key] = a
		}
		a.yards += yards
		a.games[line.GameID] = struct{}{}
	}

	rates := make(SplitRates)
	for key, a := range acc {
		games := len(a.games)
		if games < 1 {
			games = 1
		}
		if rates[key.teamID] == nil {
			rates[key.teamID] = make(map[string]float64)
		}
		rates[key.teamID][fieldOf(key.position)] = a.yards / float64(games)
	}

	return rates
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
