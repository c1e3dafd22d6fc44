package domain

import "time"

// Control is the mutable tracking record attached 1:1 to a live work item.
// TotalTimeMinutes is derived state: it must always equal the sum of the
// durations of the control's time entries and manual time entries.
type Control struct {
	ID               string
	WorkItemID       string
	UserID           string
	Status           ControlStatus
	TotalTimeMinutes int
	IsTimerActive    bool
	TimerStartAt     *time.Time
	AssignedAt       *time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ActivateTimer transitions the control into the running state.
// StartedAt is set only on the first activation.
func (c *Control) ActivateTimer(now time.Time) {
	c.IsTimerActive = true
	start := now
	c.TimerStartAt = &start
	c.Status = StatusInProgress
	if c.StartedAt == nil {
		c.StartedAt = &start
	}
	c.UpdatedAt = now
}

// CreditTimerStop returns the control to idle, crediting the minutes of the
// just-closed time entry to the accumulated total. The entry's closed
// duration is the single source of truth for the credit, so the total stays
// equal to the sum of entry durations.
func (c *Control) CreditTimerStop(minutes int, now time.Time, status ControlStatus) {
	c.TotalTimeMinutes += minutes
	c.IsTimerActive = false
	c.TimerStartAt = nil
	c.Status = status
	if status == StatusCompleted && c.CompletedAt == nil {
		done := now
		c.CompletedAt = &done
	}
	c.UpdatedAt = now
}

// Reassign hands the control to a different user, stamping AssignedAt.
func (c *Control) Reassign(userID string, now time.Time) {
	if c.UserID == userID {
		return
	}
	c.UserID = userID
	assigned := now
	c.AssignedAt = &assigned
	c.UpdatedAt = now
}
