// Package jobs wraps the rankings pipeline with locking, timeouts and reporting.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thebettingsean/team-rankings/internal/metrics"
	"github.com/thebettingsean/team-rankings/internal/models"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

// Triggers label where a run came from
const (
	TriggerCLI       = "cli"
	TriggerScheduler = "scheduler"
	TriggerHTTP      = "http"
)

// ErrRunInProgress is returned when another rebuild holds the lock
var ErrRunInProgress = errors.New("a rankings rebuild is already running")

// Runner runs the rankings pipeline
type Runner interface {
	Run(ctx context.Context, opts rankings.RunOptions) (*rankings.Summary, error)
}

// Cache holds the run lock and the last summary
type Cache interface {
	AcquireLock(ctx context.Context, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, token string) error
	SaveSummary(ctx context.Context, summary *rankings.Summary) error
	LastSummary(ctx context.Context) (*rankings.Summary, error)
}

// RebuildJob runs one guarded rebuild at a time
type RebuildJob struct {
	runner  Runner
	cache   Cache
	timeout time.Duration
	sample  *models.Period

	inFlight sync.WaitGroup
}

// NewRebuildJob creates a job. timeout bounds each run; sample, when set, is the
// default period shown in run summaries.
func NewRebuildJob(runner Runner, cache Cache, timeout time.Duration, sample *models.Period) *RebuildJob {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &RebuildJob{runner: runner, cache: cache, timeout: timeout, sample: sample}
}

// Run takes the rebuild lock, runs the pipeline and stores the summary
func (j *RebuildJob) Run(ctx context.Context, trigger string, opts rankings.RunOptions) (*rankings.Summary, error) {
	j.inFlight.Add(1)
	defer j.inFlight.Done()

	start := time.Now()
	token := uuid.NewString()

	// The lock outlives the run timeout so a stuck run cannot be overlapped
	ok, err := j.cache.AcquireLock(ctx, token, j.timeout+5*time.Minute)
	if err != nil {
		metrics.RecordRun(trigger, "failed", time.Since(start).Seconds())
		metrics.RecordError("jobs", "lock")
		return nil, err
	}
	if !ok {
		metrics.RecordRun(trigger, "locked", time.Since(start).Seconds())
		return nil, ErrRunInProgress
	}
	defer func() {
		// Release with a fresh context; the run context may already be done
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := j.cache.ReleaseLock(releaseCtx, token); err != nil {
			log.Warn().Err(err).Msg("Failed to release rebuild lock")
		}
	}()

	if opts.Sample == nil {
		opts.Sample = j.sample
	}

	runCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	log.Info().
		Str("trigger", trigger).
		Int("season", opts.Season).
		Int("week", opts.Week).
		Bool("dry_run", opts.DryRun).
		Msg("Starting rankings rebuild")

	summary, err := j.runner.Run(runCtx, opts)
	if err != nil {
		metrics.RecordRun(trigger, "failed", time.Since(start).Seconds())
		metrics.RecordError("jobs", "run")
		return nil, fmt.Errorf("rankings rebuild failed: %w", err)
	}

	status := "success"
	if summary.Failed() {
		status = "partial"
	}
	metrics.RecordRun(trigger, status, time.Since(start).Seconds())

	saveCtx, cancelSave := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelSave()
	if err := j.cache.SaveSummary(saveCtx, summary); err != nil {
		log.Warn().Err(err).Str("run_id", summary.RunID).Msg("Failed to store run summary")
	}

	return summary, nil
}

// Wait blocks until no run is in flight or ctx is done
func (j *RebuildJob) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		j.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastSummary returns the summary of the last completed run, if any
func (j *RebuildJob) LastSummary(ctx context.Context) (*rankings.Summary, error) {
	return j.cache.LastSummary(ctx)
}
