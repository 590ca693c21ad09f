package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/thebettingsean/team-rankings/internal/rankings"
)

func printSummary(out io.Writer, s *rankings.Summary) error {
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	mode := "write"
	if s.DryRun {
		mode = "dry run"
	}

	fmt.Fprintf(out, "Run %s (%s)\n", s.RunID, mode)
	fmt.Fprintf(out, "Finished %s in %s\n\n", s.FinishedAt.Format(time.RFC3339), s.Duration().Round(time.Millisecond))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Periods considered\t%d\n", s.PeriodsConsidered)
	fmt.Fprintf(tw, "Periods processed\t%d\n", s.PeriodsProcessed)
	fmt.Fprintf(tw, "Periods skipped\t%d\n", s.PeriodsSkipped)
	fmt.Fprintf(tw, "Periods failed\t%d\n", s.PeriodsFailed)
	fmt.Fprintf(tw, "Teams updated\t%d\n", s.TeamsUpdated)
	fmt.Fprintf(tw, "Write failures\t%d\n", s.WriteFailures)
	if err := tw.Flush(); err != nil {
		return err
	}

	if s.SamplePeriod == nil || len(s.Sample) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\n%d Week %d Top %d Offenses\n", s.SamplePeriod.Season, s.SamplePeriod.Week, len(s.Sample))
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tTeam\tPPG\tPass\tPass YPG\tYPP\tYPP Value")
	for _, row := range s.Sample {
		team := row.TeamCode
		if team == "" {
			team = fmt.Sprintf("#%d", row.TeamID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\t%.1f\t%s\t%.1f\n",
			row.Rank, team, row.PointsPerGame,
			rankLabel(row.PassingRank), row.PassingYardsPerGame,
			rankLabel(row.YardsPerPassRank), row.YardsPerPass)
	}
	return tw.Flush()
}

func rankLabel(rank int) string {
	if rank == 0 {
		return "-"
	}
	return fmt.Sprintf("#%d", rank)
}
