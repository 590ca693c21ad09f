package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/thebettingsean/team-rankings/internal/jobs"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

// Rebuilder runs a guarded rankings rebuild
type Rebuilder interface {
	Run(ctx context.Context, trigger string, opts rankings.RunOptions) (*rankings.Summary, error)
}

// Scheduler runs the full rankings rebuild on a cron schedule
type Scheduler struct {
	spec    string
	job     Rebuilder
	cron    *cron.Cron
	entryID cron.EntryID
}

// NewScheduler creates a scheduler for the given cron spec (standard 5-field)
func NewScheduler(spec string, job Rebuilder) *Scheduler {
	return &Scheduler{
		spec: spec,
		job:  job,
		cron: cron.New(),
	}
}

// Start registers the rebuild and starts the cron loop. Runs use ctx, so
// cancelling it aborts an in-flight rebuild.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	id, err := s.cron.AddFunc(s.spec, func() {
		s.runRebuild(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule rankings rebuild: %w", err)
	}
	s.entryID = id

	s.cron.Start()
	log.Info().
		Str("schedule", s.spec).
		Time("next_run", s.Next()).
		Msg("Rankings rebuild scheduled")

	return nil
}

// Next returns the next scheduled run, or the zero time before Start
func (s *Scheduler) Next() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Stop stops the cron loop and waits for a running rebuild to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) runRebuild(ctx context.Context) {
	log.Info().Msg("Running scheduled rankings rebuild...")

	summary, err := s.job.Run(ctx, jobs.TriggerScheduler, rankings.RunOptions{})
	if errors.Is(err, jobs.ErrRunInProgress) {
		log.Warn().Msg("Skipping scheduled rebuild, another run holds the lock")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Scheduled rankings rebuild failed")
		return
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int64("teams_updated", summary.TeamsUpdated).
		Msg("Scheduled rankings rebuild finished")
}
