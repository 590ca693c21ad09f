package rankings

import (
	"database/sql"

	"github.com/samber/lo"

	"github.com/thebettingsean/team-rankings/internal/models"
)

// Aggregate merges the partial datasets into the base records and returns them
// in base order. Base records define which teams exist in the period; partial
// entries for any other team are dropped. A nil partial populates nothing.
func Aggregate(base []*models.TeamRecord, winLoss map[int]WinLoss, offense, defense SplitRates) []*models.TeamRecord {
	byTeam := lo.SliceToMap(base, func(rec *models.TeamRecord) (int, *models.TeamRecord) {
		return rec.TeamID, rec
	})

	for teamID, wl := range winLoss {
		rec, ok := byTeam[teamID]
		if !ok {
			continue
		}
		rec.Wins = sql.NullInt32{Int32: int32(wl.Wins), Valid: true}
		rec.Losses = sql.NullInt32{Int32: int32(wl.Losses), Valid: true}
		rec.WinPct = sql.NullFloat64{Float64: wl.Pct(), Valid: true}
	}

	mergeSplits(byTeam, offense)
	mergeSplits(byTeam, defense)

	return base
}

func mergeSplits(byTeam map[int]*models.TeamRecord, splits SplitRates) {
	for teamID, fields := range splits {
		rec, ok := byTeam[teamID]
		if !ok {
			continue
		}
		for field, value := range fields {
			if field == "" {
				continue
			}
			rec.Values[field] = value
		}
	}
}
