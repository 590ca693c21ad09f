package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thebettingsean/team-rankings/internal/cache"
	"github.com/thebettingsean/team-rankings/internal/jobs"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last rebuild summary stored in Redis",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.RedisEnabled {
		return errors.New("run summaries are only kept when REDIS_ENABLED=true")
	}

	redisCache, err := cache.NewRedisCache(cache.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer redisCache.Close()

	return showStatus(cmd.Context(), cmd, redisCache)
}

type statusSource interface {
	LastSummary(ctx context.Context) (*rankings.Summary, error)
	LockHolder(ctx context.Context) (string, error)
}

func showStatus(ctx context.Context, cmd *cobra.Command, src statusSource) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	holder, err := src.LockHolder(ctx)
	if err != nil {
		return err
	}
	if holder != "" {
		fmt.Fprintf(out, "%s (lock token %s)\n\n", jobs.ErrRunInProgress, holder)
	}

	summary, err := src.LastSummary(ctx)
	if err != nil {
		return err
	}
	if summary == nil {
		fmt.Fprintln(out, "No rebuild has completed yet")
		return nil
	}

	return printSummary(out, summary)
}
