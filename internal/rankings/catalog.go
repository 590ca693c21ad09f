// Package rankings recomputes per-period team rankings from stored stats.
package rankings

import (
	"sort"

	"github.com/thebettingsean/team-rankings/internal/models"
)

// Polarity says which direction of a metric earns the better (smaller) rank
type Polarity int

const (
	// Descending: higher values are better (offense, production)
	Descending Polarity = iota
	// Ascending: lower values are better (defense, yards allowed)
	Ascending
)

func (p Polarity) String() string {
	if p == Ascending {
		return "asc"
	}
	return "desc"
}

// Metric declares one ranked value field
type Metric struct {
	Field     string
	RankField string
	Polarity  Polarity
}

// Catalog is an ordered list of metrics sharing a source
type Catalog struct {
	Name    string
	Metrics []Metric
}

func metric(field string, polarity Polarity) Metric {
	return Metric{Field: field, RankField: "rank_" + field, Polarity: polarity}
}

// Offensive box-score rates (higher = better)
var BaseOffense = Catalog{
	Name: "base_offense",
	Metrics: []Metric{
		metric("points_per_game", Descending),
		metric("passing_yards_per_game", Descending),
		metric("rushing_yards_per_game", Descending),
		metric("total_yards_per_game", Descending),
		metric("yards_per_pass", Descending),
		metric("yards_per_rush", Descending),
	},
}

// Defensive box-score rates (lower = better)
var BaseDefense = Catalog{
	Name: "base_defense",
	Metrics: []Metric{
		metric("points_allowed_per_game", Ascending),
		metric("passing_yards_allowed_per_game", Ascending),
		metric("rushing_yards_allowed_per_game", Ascending),
		metric("total_yards_allowed_per_game", Ascending),
		metric("yards_per_pass_allowed", Ascending),
		metric("yards_per_rush_allowed", Ascending),
	},
}

// Yards produced per game by each skill position (higher = better)
var PositionOffense = Catalog{
	Name: "position_offense",
	Metrics: []Metric{
		metric("wr_yards_produced", Descending),
		metric("te_yards_produced", Descending),
		metric("rb_yards_produced", Descending),
	},
}

// Yards allowed per game to each skill position (lower = better)
var PositionDefense = Catalog{
	Name: "position_defense",
	Metrics: []Metric{
		metric("yards_allowed_to_wr", Ascending),
		metric("yards_allowed_to_te", Ascending),
		metric("yards_allowed_to_rb", Ascending),
	},
}

// Record fields derived from game results
const (
	FieldWins        = "wins"
	FieldLosses      = "losses"
	FieldWinPct      = "win_pct"
	FieldGamesPlayed = "games_played"
)

// AllCatalogs returns the four catalogs in ranking order
func AllCatalogs() []Catalog {
	return []Catalog{BaseOffense, BaseDefense, PositionOffense, PositionDefense}
}

// OffenseSplitField maps a position to its production field
func OffenseSplitField(position string) string {
	switch position {
	case models.PositionWR:
		return "wr_yards_produced"
	case models.PositionTE:
		return "te_yards_produced"
	case models.PositionRB:
		return "rb_yards_produced"
	}
	return ""
}

// DefenseSplitField maps a position to its yards-allowed field
func DefenseSplitField(position string) string {
	switch position {
	case models.PositionWR:
		return "yards_allowed_to_wr"
	case models.PositionTE:
		return "yards_allowed_to_te"
	case models.PositionRB:
		return "yards_allowed_to_rb"
	}
	return ""
}

var writable = buildWritable()

func buildWritable() map[string]bool {
	fields := map[string]bool{
		FieldWins:        true,
		FieldLosses:      true,
		FieldWinPct:      true,
		FieldGamesPlayed: true,
	}
	for _, c := range AllCatalogs() {
		for _, m := range c.Metrics {
			fields[m.Field] = true
			fields[m.RankField] = true
		}
	}
	return fields
}

// WritableFields returns every column an update may carry, sorted
func WritableFields() []string {
	fields := make([]string, 0, len(writable))
	for name := range writable {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// IsWritableField reports whether a column name may appear in an update.
// Stores use it to guard the column names they interpolate into SQL.
func IsWritableField(name string) bool {
	return writable[name]
}
