package rankings

import (
	"fmt"

	"github.com/thebettingsean/team-rankings/internal/models"
)

// StoreError wraps a failed store call with the operation and period it served
type StoreError struct {
	Op     string
	Period models.Period
	TeamID int
	Err    error
}

func (e *StoreError) Error() string {
	if e.TeamID != 0 {
		return fmt.Sprintf("%s %s team %d: %v", e.Op, e.Period, e.TeamID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Period, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, period models.Period, teamID int, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Period: period, TeamID: teamID, Err: err}
}
