package usecase

import "time"

// SetClock replaces the clock and run id source of an ExecutePlan
func SetClock(uc *ExecutePlan, now func() time.Time, newRunID func() string) {
	uc.now = now
	uc.newRunID = newRunID
}
