package rankings

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/thebettingsean/team-rankings/internal/metrics"
	"github.com/thebettingsean/team-rankings/internal/models"
)

// Store is the analytics store the pipeline reads from and writes back to
type Store interface {
	// Periods lists every (season, week) that has a rankings snapshot
	Periods(ctx context.Context) ([]models.Period, error)
	// BaseRecords returns one record per team with the pre-aggregated per-game stats
	BaseRecords(ctx context.Context, period models.Period) ([]*models.TeamRecord, error)
	// GameResults returns the season's games through the period's week
	GameResults(ctx context.Context, period models.Period) ([]models.GameResult, error)
	// PositionLines returns the season's skill-position lines through the period's week
	PositionLines(ctx context.Context, period models.Period) ([]models.PlayerLine, error)
	// WriteUpdate applies one team's sparse update in place
	WriteUpdate(ctx context.Context, update *models.TeamUpdate) error
}

// RunOptions narrows and shapes a run
type RunOptions struct {
	// Season restricts the run to one season when non-zero
	Season int
	// Week restricts the run to one week of Season when non-zero
	Week int
	// DryRun computes updates without writing them
	DryRun bool
	// Sample selects the period reported in the summary; defaults to the latest one run
	Sample *models.Period
}

// Pipeline rebuilds rankings for every stored period
type Pipeline struct {
	store   Store
	workers int
}

// NewPipeline creates a pipeline processing up to workers periods at a time
func NewPipeline(store Store, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{store: store, workers: workers}
}

type runCounters struct {
	processed atomic.Int64
	skipped   atomic.Int64
	failed    atomic.Int64
	updated   atomic.Int64
	writeErrs atomic.Int64
}

// Run processes every matching period and returns the run summary.
// Only a failure to list periods is returned as an error; period and write
// failures are logged and counted.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
	}

	periods, err := p.store.Periods(ctx)
	if err != nil {
		return nil, storeErr("discover periods", models.Period{}, 0, err)
	}

	periods = filterPeriods(periods, opts)
	summary.PeriodsConsidered = len(periods)

	log.Info().
		Str("run_id", summary.RunID).
		Int("periods", len(periods)).
		Int("workers", p.workers).
		Bool("dry_run", opts.DryRun).
		Msg("Rebuilding team rankings")

	sample := samplePeriod(periods, opts.Sample)
	var sampleRecords []*models.TeamRecord

	var counters runCounters
	var g errgroup.Group
	g.SetLimit(p.workers)

	for _, period := range periods {
		period := period
		g.Go(func() error {
			records := p.processPeriod(ctx, period, opts.DryRun, &counters)
			if sample != nil && period == *sample {
				sampleRecords = records
			}
			// Period failures never cancel the others
			return nil
		})
	}
	_ = g.Wait()

	summary.PeriodsProcessed = int(counters.processed.Load())
	summary.PeriodsSkipped = int(counters.skipped.Load())
	summary.PeriodsFailed = int(counters.failed.Load())
	summary.TeamsUpdated = counters.updated.Load()
	summary.WriteFailures = counters.writeErrs.Load()
	summary.FinishedAt = time.Now()

	if sample != nil && sampleRecords != nil {
		summary.SamplePeriod = sample
		summary.Sample = TopOffenses(sampleRecords, SampleSize)
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int("periods", summary.PeriodsConsidered).
		Int("skipped", summary.PeriodsSkipped).
		Int("failed", summary.PeriodsFailed).
		Int64("teams_updated", summary.TeamsUpdated).
		Int64("write_failures", summary.WriteFailures).
		Dur("duration", summary.Duration()).
		Msg("Rankings rebuild complete")

	return summary, nil
}

// processPeriod rebuilds one period and returns its ranked records, or nil when
// the period was skipped or failed
func (p *Pipeline) processPeriod(ctx context.Context, period models.Period, dryRun bool, counters *runCounters) []*models.TeamRecord {
	logger := log.With().Int("season", period.Season).Int("week", period.Week).Logger()

	if err := ctx.Err(); err != nil {
		logger.Warn().Err(err).Msg("Run cancelled before period started")
		counters.failed.Add(1)
		metrics.RecordPeriod("failed")
		return nil
	}

	base, err := p.store.BaseRecords(ctx, period)
	if err != nil {
		logger.Error().Err(storeErr("read base records", period, 0, err)).Msg("Skipping period")
		counters.failed.Add(1)
		metrics.RecordPeriod("failed")
		return nil
	}
	if len(base) == 0 {
		logger.Debug().Msg("No base records, skipping period")
		counters.skipped.Add(1)
		metrics.RecordPeriod("skipped")
		return nil
	}

	records, err := p.rankPeriod(ctx, period, base)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to rank period")
		counters.failed.Add(1)
		metrics.RecordPeriod("failed")
		return nil
	}

	updated := 0
	for _, rec := range records {
		update := BuildUpdate(period, rec)
		if update == nil {
			continue
		}

		if dryRun {
			counters.updated.Add(1)
			metrics.RecordUpdate("dry_run")
			updated++
			continue
		}

		if err := p.store.WriteUpdate(ctx, update); err != nil {
			logger.Warn().Err(storeErr("write update", period, rec.TeamID, err)).Int("team_id", rec.TeamID).Msg("Update not applied")
			counters.writeErrs.Add(1)
			metrics.RecordUpdate("failed")
			continue
		}
		counters.updated.Add(1)
		metrics.RecordUpdate("written")
		updated++
	}

	counters.processed.Add(1)
	metrics.RecordPeriod("processed")
	logger.Info().Int("teams", len(records)).Int("updated", updated).Msg("Period rebuilt")

	return records
}

// rankPeriod reads the partial datasets, merges them into base and ranks every
// catalog metric. A failed partial read leaves that partial's fields unset.
func (p *Pipeline) rankPeriod(ctx context.Context, period models.Period, base []*models.TeamRecord) ([]*models.TeamRecord, error) {
	if hasDuplicateTeams(base) {
		return nil, fmt.Errorf("base records for %s contain duplicate team ids", period)
	}

	sort.SliceStable(base, func(i, j int) bool {
		return base[i].TeamID < base[j].TeamID
	})

	var winLoss map[int]WinLoss
	games, err := p.store.GameResults(ctx, period)
	if err != nil {
		log.Warn().Err(storeErr("read game results", period, 0, err)).Msg("Win/loss records unavailable")
	} else {
		games = lo.Filter(games, func(g models.GameResult, _ int) bool {
			return g.Season == period.Season
		})
		winLoss = WinLossFromGames(games, period.Week)
	}

	var offense, defense SplitRates
	lines, err := p.store.PositionLines(ctx, period)
	if err != nil {
		log.Warn().Err(storeErr("read position lines", period, 0, err)).Msg("Position splits unavailable")
	} else {
		lines = lo.Filter(lines, func(l models.PlayerLine, _ int) bool {
			return l.Season == period.Season && l.Week <= period.Week
		})
		offense = OffenseSplits(lines)
		defense = DefenseSplits(lines)
	}

	records := Aggregate(base, winLoss, offense, defense)
	RankAll(records, AllCatalogs()...)

	return records, nil
}

// BuildUpdate assembles the sparse update for one ranked record. Only populated
// fields are included; it returns nil when the record has none.
func BuildUpdate(period models.Period, rec *models.TeamRecord) *models.TeamUpdate {
	fields := make(map[string]interface{}, len(rec.Values)+len(rec.Ranks)+4)

	for field := range rec.Values {
		if value, ok := rec.Value(field); ok {
			fields[field] = value
		}
	}
	for field, rank := range rec.Ranks {
		fields[field] = rank
	}
	if rec.GamesPlayed.Valid {
		fields[FieldGamesPlayed] = int(rec.GamesPlayed.Int32)
	}
	if rec.Wins.Valid {
		fields[FieldWins] = int(rec.Wins.Int32)
	}
	if rec.Losses.Valid {
		fields[FieldLosses] = int(rec.Losses.Int32)
	}
	if rec.WinPct.Valid {
		fields[FieldWinPct] = rec.WinPct.Float64
	}

	if len(fields) == 0 {
		return nil
	}

	return &models.TeamUpdate{Period: period, TeamID: rec.TeamID, Fields: fields}
}

func filterPeriods(periods []models.Period, opts RunOptions) []models.Period {
	filtered := lo.Filter(periods, func(p models.Period, _ int) bool {
		if opts.Season != 0 && p.Season != opts.Season {
			return false
		}
		if opts.Week != 0 && p.Week != opts.Week {
			return false
		}
		return true
	})
	filtered = lo.Uniq(filtered)

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Less(filtered[j])
	})
	return filtered
}

func samplePeriod(periods []models.Period, requested *models.Period) *models.Period {
	if len(periods) == 0 {
		return nil
	}
	if requested != nil {
		if lo.Contains(periods, *requested) {
			sample := *requested
			return &sample
		}
		return nil
	}
	latest := periods[len(periods)-1]
	return &latest
}

func hasDuplicateTeams(records []*models.TeamRecord) bool {
	return len(lo.UniqBy(records, func(rec *models.TeamRecord) int { return rec.TeamID })) != len(records)
}
