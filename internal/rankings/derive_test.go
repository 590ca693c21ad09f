package rankings

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebettingsean/team-rankings/internal/models"
)

func score(v int32) sql.NullInt32 {
	return sql.NullInt32{Int32: v, Valid: true}
}

func game(id, week, home, away int, homeScore, awayScore int32) models.GameResult {
	return models.GameResult{
		GameID:     id,
		Season:     2025,
		Week:       week,
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  score(homeScore),
		AwayScore:  score(awayScore),
	}
}

func TestWinLossFromGames_HomeAndAway(t *testing.T) {
	const x, y = 10, 20
	games := []models.GameResult{
		game(1, 1, x, y, 24, 17),
		game(2, 2, y, x, 10, 31),
		// Not played yet
		game(3, 2, x, y, 0, 0),
	}

	records := WinLossFromGames(games, 2)

	require.Contains(t, records, x)
	require.Contains(t, records, y)
	assert.Equal(t, WinLoss{Wins: 2, Losses: 0}, records[x])
	assert.Equal(t, WinLoss{Wins: 0, Losses: 2}, records[y])
	assert.Equal(t, 1.0, records[x].Pct())
	assert.Equal(t, 0.0, records[y].Pct())
}

func TestWinLossFromGames_WeekCutoffAndMissingScores(t *testing.T) {
	games := []models.GameResult{
		game(1, 1, 1, 2, 20, 3),
		game(2, 5, 1, 2, 3, 20),
		{GameID: 3, Season: 2025, Week: 2, HomeTeamID: 1, AwayTeamID: 3, HomeScore: score(14)},
	}

	records := WinLossFromGames(games, 4)

	assert.Equal(t, WinLoss{Wins: 1}, records[1])
	assert.Equal(t, WinLoss{Losses: 1}, records[2])
	assert.NotContains(t, records, 3, "a game with a missing score is not played")
}

func TestWinLossFromGames_TieCountsForNeither(t *testing.T) {
	records := WinLossFromGames([]models.GameResult{game(1, 1, 1, 2, 20, 20)}, 1)

	assert.Equal(t, WinLoss{}, records[1])
	assert.Equal(t, WinLoss{}, records[2])
	assert.Equal(t, 0.0, records[1].Pct())
}

func TestWinLoss_PctRounding(t *testing.T) {
	assert.Equal(t, 0.667, WinLoss{Wins: 2, Losses: 1}.Pct())
	assert.Equal(t, 0.333, WinLoss{Wins: 1, Losses: 2}.Pct())
	assert.Equal(t, 0.538, WinLoss{Wins: 7, Losses: 6}.Pct())
}

func line(gameID, teamID, opponentID int, position string, rush, rec int32) models.PlayerLine {
	return models.PlayerLine{
		GameID:         gameID,
		PlayerID:       gameID*100 + teamID,
		TeamID:         teamID,
		OpponentID:     opponentID,
		Season:         2025,
		Week:           1,
		Position:       position,
		RushYards:      score(rush),
		ReceivingYards: score(rec),
	}
}

func TestDefenseSplits_AttributedToOpponent(t *testing.T) {
	const a, b = 1, 2
	lines := []models.PlayerLine{line(100, a, b, "WR", 0, 80)}

	defense := DefenseSplits(lines)
	offense := OffenseSplits(lines)

	assert.Equal(t, 80.0, defense[b]["yards_allowed_to_wr"])
	assert.NotContains(t, defense, a)
	assert.Equal(t, 80.0, offense[a]["wr_yards_produced"])
	assert.NotContains(t, offense, b)
}

func TestOffenseSplits_PerDistinctGame(t *testing.T) {
	lines := []models.PlayerLine{
		// Two receivers in game 1, one in game 2
		line(1, 7, 8, "WR", 0, 60),
		line(1, 7, 8, "wr ", 0, 40),
		line(2, 7, 9, "WR", 0, 50),
		// RB counts rushing plus receiving
		line(1, 7, 8, "RB", 70, 20),
		line(1, 7, 8, "TE", 5, 33),
		// Untracked position
		line(1, 7, 8, "QB", 30, 0),
	}

	offense := OffenseSplits(lines)

	require.Contains(t, offense, 7)
	assert.Equal(t, 75.0, offense[7]["wr_yards_produced"])
	assert.Equal(t, 90.0, offense[7]["rb_yards_produced"])
	assert.Equal(t, 33.0, offense[7]["te_yards_produced"])
	assert.Len(t, offense[7], 3)
}

func TestSplits_EmptyInput(t *testing.T) {
	assert.Empty(t, OffenseSplits(nil))
	assert.Empty(t, DefenseSplits(nil))
	assert.Empty(t, WinLossFromGames(nil, 18))
}
