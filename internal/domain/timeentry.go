package domain

import "time"

// TimeEntry is one timer start/stop cycle. EndTime is nil and
// DurationMinutes zero while the timer is still running.
type TimeEntry struct {
	ID              string
	ControlID       string
	UserID          string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes int
	Description     string
	CreatedAt       time.Time
}

// Running reports whether the entry's timer cycle is still open.
func (e *TimeEntry) Running() bool {
	return e.EndTime == nil
}

// Close ends the cycle at the given instant and records the whole minutes
// elapsed since StartTime.
func (e *TimeEntry) Close(now time.Time) int {
	end := now
	e.EndTime = &end
	minutes := int(now.Sub(e.StartTime) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	e.DurationMinutes = minutes
	return minutes
}

// ManualTimeEntry is a user-declared duration for a calendar date,
// independent of the timer. CreatedBy may differ from the control's
// current user.
type ManualTimeEntry struct {
	ID              string
	ControlID       string
	UserID          string
	Date            string // YYYY-MM-DD
	DurationMinutes int
	Description     string
	CreatedBy       string
	CreatedAt       time.Time
}
