package models

import "sort"

// TeamUpdate is the sparse set of fields written back for one team in one period
type TeamUpdate struct {
	Period Period                 `json:"period"`
	TeamID int                    `json:"team_id"`
	Fields map[string]interface{} `json:"fields"`
}

// SortedFields returns the field names in a stable order, for deterministic writes
func (u *TeamUpdate) SortedFields() []string {
	names := make([]string, 0, len(u.Fields))
	for name := range u.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the update carries a field
func (u *TeamUpdate) Has(field string) bool {
	_, ok := u.Fields[field]
	return ok
}
