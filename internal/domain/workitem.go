package domain

import "time"

type WorkItem struct {
	ID          string
	Kind        WorkItemKind
	Number      string
	Title       string
	Description string
	CreatedBy   string
	AssignedTo  *string
	IsCompleted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Archivable reports whether the item may be frozen into a snapshot.
// Todos must be completed first; cases carry no completion precondition.
func (w *WorkItem) Archivable() bool {
	if w.Kind == KindTodo {
		return w.IsCompleted
	}
	return true
}

// Complete marks a todo as done. No-op for items already completed.
func (w *WorkItem) Complete(now time.Time) {
	if w.IsCompleted {
		return
	}
	w.IsCompleted = true
	w.UpdatedAt = now
}
