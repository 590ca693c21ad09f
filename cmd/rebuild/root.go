package main

import (
	"github.com/spf13/cobra"

	"github.com/thebettingsean/team-rankings/internal/config"
	"github.com/thebettingsean/team-rankings/internal/logging"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "NFL team rankings rebuilder",
	Long: `Recomputes win/loss records, positional yardage splits and every
offense/defense rank for each stored (season, week) and writes them back.

Examples:
  rebuild run
  rebuild run --season 2025 --week 13 --dry-run
  rebuild status`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the summary as JSON")
}

// loadConfig loads settings and configures the global logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.AppEnv, cfg.LogLevel)
	return cfg, nil
}
