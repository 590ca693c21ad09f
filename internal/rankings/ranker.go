package rankings

import (
	"sort"

	"github.com/thebettingsean/team-rankings/internal/models"
)

// Rank orders the records that have a value for m.Field and writes ranks 1..k
// into m.RankField. Records without a value are left unranked. Equal values
// keep their input order, so callers control the tie-break by ordering records.
// Returns the number of ranked records.
func Rank(records []*models.TeamRecord, m Metric) int {
	ranked := make([]*models.TeamRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := rec.Value(m.Field); ok {
			ranked = append(ranked, rec)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a := ranked[i].Values[m.Field]
		b := ranked[j].Values[m.Field]
		if m.Polarity == Ascending {
			return a < b
		}
		return a > b
	})

	for i, rec := range ranked {
		rec.Ranks[m.RankField] = i + 1
	}

	return len(ranked)
}

// RankAll ranks every metric of every catalog over the same record set
func RankAll(records []*models.TeamRecord, catalogs ...Catalog) {
	for _, c := range catalogs {
		for _, m := range c.Metrics {
			Rank(records, m)
		}
	}
}
