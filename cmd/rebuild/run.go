package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thebettingsean/team-rankings/internal/app"
	"github.com/thebettingsean/team-rankings/internal/jobs"
	"github.com/thebettingsean/team-rankings/internal/models"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

var (
	runSeason  int
	runWeek    int
	runWorkers int
	runDryRun  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rebuild rankings for every stored period",
	Long: `Rebuilds every (season, week) found in the rankings table, or only the
season/week given by flags. Exits non-zero when any period or write failed.`,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runSeason, "season", 0, "only rebuild this season")
	runCmd.Flags().IntVar(&runWeek, "week", 0, "only rebuild this week (requires --season)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "periods processed in parallel (default RANKINGS_WORKERS)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "compute rankings without writing them")
}

func runRebuild(cmd *cobra.Command, args []string) error {
	if runWeek != 0 && runSeason == 0 {
		return errors.New("--week requires --season")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runWorkers > 0 {
		cfg.Workers = runWorkers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := rankings.RunOptions{
		Season: runSeason,
		Week:   runWeek,
		DryRun: runDryRun,
	}
	if runSeason != 0 && runWeek != 0 {
		opts.Sample = &models.Period{Season: runSeason, Week: runWeek}
	}

	summary, err := a.Job.Run(ctx, jobs.TriggerCLI, opts)
	if errors.Is(err, jobs.ErrRunInProgress) {
		return fmt.Errorf("%w, try again once it finishes", err)
	}
	if err != nil {
		return err
	}

	if err := printSummary(cmd.OutOrStdout(), summary); err != nil {
		return err
	}

	if summary.Failed() {
		log.Error().
			Int("periods_failed", summary.PeriodsFailed).
			Int64("write_failures", summary.WriteFailures).
			Msg("Rebuild finished with failures")
		return fmt.Errorf("rebuild finished with %d failed periods and %d failed writes",
			summary.PeriodsFailed, summary.WriteFailures)
	}

	return nil
}
