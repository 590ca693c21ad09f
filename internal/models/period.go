package models

import "fmt"

// Period identifies one ranking snapshot (season + week)
type Period struct {
	Season int `db:"season" json:"season"`
	Week   int `db:"week" json:"week"`
}

// String renders the period as "2025/W13"
func (p Period) String() string {
	return fmt.Sprintf("%d/W%d", p.Season, p.Week)
}

// Less orders periods by season, then week
func (p Period) Less(other Period) bool {
	if p.Season != other.Season {
		return p.Season < other.Season
	}
	return p.Week < other.Week
}
