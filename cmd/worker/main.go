package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebettingsean/team-rankings/internal/api"
	"github.com/thebettingsean/team-rankings/internal/app"
	"github.com/thebettingsean/team-rankings/internal/config"
	"github.com/thebettingsean/team-rankings/internal/logging"
	"github.com/thebettingsean/team-rankings/internal/metrics"
	"github.com/thebettingsean/team-rankings/internal/scheduler"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()
	logging.Setup(cfg.AppEnv, cfg.LogLevel)

	log.Info().Msg("Starting NFL Team Rankings Worker")
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("store", cfg.StoreBackend).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rankings store")
	}
	defer a.Close()

	// Update system uptime and connection pool metrics
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				a.PublishStats()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg.RebuildCron, a.Job)
	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: api.NewRouter(a.Job, api.Options{
			TriggerSecret: cfg.TriggerSecret,
			Health:        a.Health,
			NextRun:       sched.Next,
			BaseContext:   ctx,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			cancel()
		}
	}()

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown did not complete cleanly")
	}

	if cfg.EnableScheduler {
		sched.Stop()
	}

	// Triggered runs see the cancelled context; let them finish before the
	// store and cache are closed
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer waitCancel()
	if err := a.Job.Wait(waitCtx); err != nil {
		log.Warn().Err(err).Msg("Rebuild still running at shutdown")
	}

	log.Info().Msg("Worker shutdown complete")
}
