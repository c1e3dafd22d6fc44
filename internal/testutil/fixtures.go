package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/google/uuid"
)

var testNumberCounter atomic.Int64

// WorkItem options
type WorkItemOption func(*domain.WorkItem)

func WithKind(k domain.WorkItemKind) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Kind = k
	}
}

func WithNumber(n string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Number = n
	}
}

func WithAssignedTo(userID string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.AssignedTo = &userID
	}
}

func WithCompleted() WorkItemOption {
	return func(w *domain.WorkItem) {
		w.IsCompleted = true
	}
}

func NewTestWorkItem(title string, opts ...WorkItemOption) *domain.WorkItem {
	now := time.Now().UTC()
	n := testNumberCounter.Add(1)
	w := &domain.WorkItem{
		ID:        uuid.New().String(),
		Kind:      domain.KindCase,
		Number:    fmt.Sprintf("CASE-%04d", n),
		Title:     title,
		CreatedBy: "user-creator",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Control options
type ControlOption func(*domain.Control)

func WithControlStatus(s domain.ControlStatus) ControlOption {
	return func(c *domain.Control) {
		c.Status = s
	}
}

func WithTotalMinutes(m int) ControlOption {
	return func(c *domain.Control) {
		c.TotalTimeMinutes = m
	}
}

func WithRunningTimer(startAt time.Time) ControlOption {
	return func(c *domain.Control) {
		c.IsTimerActive = true
		c.TimerStartAt = &startAt
		c.Status = domain.StatusInProgress
	}
}

func NewTestControl(workItemID, userID string, opts ...ControlOption) *domain.Control {
	now := time.Now().UTC()
	c := &domain.Control{
		ID:         uuid.New().String(),
		WorkItemID: workItemID,
		UserID:     userID,
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TimeEntry options
type TimeEntryOption func(*domain.TimeEntry)

func WithEntryDescription(d string) TimeEntryOption {
	return func(e *domain.TimeEntry) {
		e.Description = d
	}
}

func WithStartTime(t time.Time) TimeEntryOption {
	return func(e *domain.TimeEntry) {
		e.StartTime = t
	}
}

// NewTestTimeEntry creates a closed automatic entry of the given duration,
// ending now.
func NewTestTimeEntry(controlID, userID string, minutes int, opts ...TimeEntryOption) *domain.TimeEntry {
	now := time.Now().UTC()
	start := now.Add(-time.Duration(minutes) * time.Minute)
	end := now
	e := &domain.TimeEntry{
		ID:              uuid.New().String(),
		ControlID:       controlID,
		UserID:          userID,
		StartTime:       start,
		EndTime:         &end,
		DurationMinutes: minutes,
		CreatedAt:       now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTestOpenTimeEntry creates a still-running automatic entry started at the
// given instant.
func NewTestOpenTimeEntry(controlID, userID string, startAt time.Time) *domain.TimeEntry {
	return &domain.TimeEntry{
		ID:        uuid.New().String(),
		ControlID: controlID,
		UserID:    userID,
		StartTime: startAt,
		CreatedAt: startAt,
	}
}

func NewTestManualEntry(controlID, userID, date string, minutes int, description string) *domain.ManualTimeEntry {
	now := time.Now().UTC()
	return &domain.ManualTimeEntry{
		ID:              uuid.New().String(),
		ControlID:       controlID,
		UserID:          userID,
		Date:            date,
		DurationMinutes: minutes,
		Description:     description,
		CreatedBy:       userID,
		CreatedAt:       now,
	}
}
