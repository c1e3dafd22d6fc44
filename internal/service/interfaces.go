package service

import (
	"context"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/repository"
)

// TimerService is the timer state machine for controls. All transitions run
// inside one transaction; Start additionally enforces the global
// one-active-timer-per-user invariant by pausing every other running control
// of the caller in that same transaction.
type TimerService interface {
	Start(ctx context.Context, controlID, userID string) (*domain.Control, error)
	Pause(ctx context.Context, controlID, userID string) (*domain.Control, error)
	Stop(ctx context.Context, controlID, userID string, status domain.ControlStatus) (*domain.Control, error)
}

// DeleteEntryResult reports a ledger deletion and the control's new total.
type DeleteEntryResult struct {
	DeletedID       string
	NewTotalMinutes int
}

// LedgerEntries bundles both entry kinds of one control for display.
type LedgerEntries struct {
	TimeEntries   []*domain.TimeEntry
	ManualEntries []*domain.ManualTimeEntry
}

// LedgerService owns manual entries and entry deletion. Every mutation
// adjusts the control's accumulated total in the same transaction, so the
// total always equals the sum of the remaining entries.
type LedgerService interface {
	AddManual(ctx context.Context, controlID, date string, minutes int, description, userID string) (*domain.ManualTimeEntry, error)
	DeleteTimeEntry(ctx context.Context, entryID, userID string, role domain.Role) (*DeleteEntryResult, error)
	DeleteManualEntry(ctx context.Context, entryID, userID string, role domain.Role) (*DeleteEntryResult, error)
	ListEntries(ctx context.Context, controlID string) (*LedgerEntries, error)
}

// ArchiveService freezes a work item, its control, and all ledger entries
// into an immutable snapshot and removes the live rows, atomically.
type ArchiveService interface {
	Archive(ctx context.Context, workItemID, userID, reason string) (*domain.Snapshot, error)
	List(ctx context.Context, q repository.SnapshotListQuery) (*repository.SnapshotPage, error)
	Get(ctx context.Context, snapshotID string) (*domain.Snapshot, error)
	DeletePermanently(ctx context.Context, snapshotID string) error
	Stats(ctx context.Context) (*repository.ArchiveStats, error)
}

// RestoreResult reports a completed restore. Warning is non-nil when the
// post-commit verification found a row-count mismatch; the restored rows and
// the snapshot are then both left in place.
type RestoreResult struct {
	WorkItemID string
	Warning    *VerificationWarning
}

// RestoreService reconstructs live rows from a snapshot.
type RestoreService interface {
	Restore(ctx context.Context, snapshotID, userID string) (*RestoreResult, error)
}

// WorkItemService is the supporting CRUD surface for cases and todos.
// Creating a work item creates its control in the same transaction.
type WorkItemService interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	GetControl(ctx context.Context, workItemID string) (*domain.Control, error)
	List(ctx context.Context, kind domain.WorkItemKind) ([]*domain.WorkItem, error)
	CompleteTodo(ctx context.Context, id string) error
}
