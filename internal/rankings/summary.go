package rankings

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/thebettingsean/team-rankings/internal/models"
)

// SampleSize is how many teams the run summary shows
const SampleSize = 5

// SampleRow is one line of the human-readable ranking sample
type SampleRow struct {
	Rank          int     `json:"rank"`
	TeamID        int     `json:"team_id"`
	TeamCode      string  `json:"team_code,omitempty"`
	PointsPerGame float64 `json:"points_per_game"`

	// Zero ranks mean the team had no value for that metric
	PassingRank         int     `json:"passing_yards_per_game_rank,omitempty"`
	PassingYardsPerGame float64 `json:"passing_yards_per_game,omitempty"`
	YardsPerPassRank    int     `json:"yards_per_pass_rank,omitempty"`
	YardsPerPass        float64 `json:"yards_per_pass,omitempty"`
}

// Summary reports the outcome of one pipeline run
type Summary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run"`

	PeriodsConsidered int `json:"periods_considered"`
	PeriodsProcessed  int `json:"periods_processed"`
	PeriodsSkipped    int `json:"periods_skipped"`
	PeriodsFailed     int `json:"periods_failed"`

	TeamsUpdated  int64 `json:"teams_updated"`
	WriteFailures int64 `json:"write_failures"`

	SamplePeriod *models.Period `json:"sample_period,omitempty"`
	Sample       []SampleRow    `json:"sample,omitempty"`
}

// Duration returns how long the run took
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Failed reports whether any period or write failed
func (s *Summary) Failed() bool {
	return s.PeriodsFailed > 0 || s.WriteFailures > 0
}

// TopOffenses picks the best n teams by points-per-game rank
func TopOffenses(records []*models.TeamRecord, n int) []SampleRow {
	rankField := BaseOffense.Metrics[0].RankField

	ranked := lo.Filter(records, func(rec *models.TeamRecord, _ int) bool {
		_, ok := rec.Rank(rankField)
		return ok
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Ranks[rankField] < ranked[j].Ranks[rankField]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	passing, perPass := BaseOffense.Metrics[1], BaseOffense.Metrics[4]

	return lo.Map(ranked, func(rec *models.TeamRecord, _ int) SampleRow {
		ppg, _ := rec.Value(BaseOffense.Metrics[0].Field)
		passingYards, _ := rec.Value(passing.Field)
		yardsPerPass, _ := rec.Value(perPass.Field)

		return SampleRow{
			Rank:                rec.Ranks[rankField],
			TeamID:              rec.TeamID,
			TeamCode:            rec.TeamCode,
			PointsPerGame:       ppg,
			PassingRank:         rec.Ranks[passing.RankField],
			PassingYardsPerGame: passingYards,
			YardsPerPassRank:    rec.Ranks[perPass.RankField],
			YardsPerPass:        yardsPerPass,
		}
	})
}
