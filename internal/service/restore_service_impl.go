package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/repository"
)

// restoredDescription fills entries whose archived description is empty.
const restoredDescription = "(restored from archive)"

type restoreService struct {
	snapshots     repository.SnapshotRepo
	workItems     repository.WorkItemRepo
	controls      repository.ControlRepo
	timeEntries   repository.TimeEntryRepo
	manualEntries repository.ManualTimeEntryRepo
	uow           db.UnitOfWork
	observer      UseCaseObserver
}

// NewRestoreService creates the restorer. The direct repo handles serve the
// pre-checks and the post-commit verification pass; the write itself builds
// tx-scoped repos inside the UnitOfWork.
func NewRestoreService(snapshots repository.SnapshotRepo, workItems repository.WorkItemRepo, controls repository.ControlRepo, timeEntries repository.TimeEntryRepo, manualEntries repository.ManualTimeEntryRepo, uow db.UnitOfWork, observers ...UseCaseObserver) RestoreService {
	return &restoreService{
		snapshots:     snapshots,
		workItems:     workItems,
		controls:      controls,
		timeEntries:   timeEntries,
		manualEntries: manualEntries,
		uow:           uow,
		observer:      useCaseObserverOrNoop(observers),
	}
}

// Restore recreates live rows from the snapshot in one transaction, then
// verifies the recreated row counts in a separate pass. On a verification
// mismatch the committed rows are NOT rolled back: the snapshot and the
// restored rows are both left in place and the result carries a
// VerificationWarning for manual reconciliation. Rolling back a commit that
// other readers may already have observed would trade a visible
// inconsistency for a silent one.
func (s *restoreService) Restore(ctx context.Context, snapshotID, userID string) (result *RestoreResult, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "restore_snapshot", startedAt, err,
			map[string]any{"snapshot_id": snapshotID, "user_id": userID})
	}()

	snap, err := s.snapshots.GetByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if snap.IsRestored {
		return nil, fmt.Errorf("snapshot %s already restored: %w", snapshotID, repository.ErrNotFound)
	}
	if snap.Payload.Version != domain.SnapshotPayloadVersion {
		return nil, fmt.Errorf("unsupported snapshot payload version %d: %w", snap.Payload.Version, ErrValidation)
	}

	// A live work item with the same number means the snapshot was already
	// restored (or the number was reused); restoring on top would corrupt it.
	if _, err := s.workItems.GetByNumber(ctx, snap.WorkItemNumber); err == nil {
		return nil, fmt.Errorf("work item %s: %w", snap.WorkItemNumber, ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		txControls := repository.NewSQLiteControlRepo(tx)
		txEntries := repository.NewSQLiteTimeEntryRepo(tx)
		txManual := repository.NewSQLiteManualTimeEntryRepo(tx)

		now := time.Now().UTC()

		// Upserts preserve the archived identifiers, so re-running a restore
		// after a verification failure repairs rather than duplicates.
		item := snap.Payload.WorkItem
		item.UpdatedAt = now
		if err := txWorkItems.Upsert(ctx, &item); err != nil {
			return err
		}

		for _, archived := range snap.Payload.Controls {
			ctrl := archived
			// The archived status may be stale or terminal; restored controls
			// always come back neutral and timer-idle, with the total
			// recomputed from the entries being restored.
			ctrl.Status = domain.StatusPending
			ctrl.IsTimerActive = false
			ctrl.TimerStartAt = nil
			ctrl.TotalTimeMinutes = controlMinutes(&snap.Payload, ctrl.ID)
			ctrl.UpdatedAt = now
			if err := txControls.Upsert(ctx, &ctrl); err != nil {
				return err
			}
		}

		for _, archived := range snap.Payload.TimeEntries {
			entry := archived
			if entry.Description == "" {
				entry.Description = restoredDescription
			}
			if err := txEntries.Upsert(ctx, &entry); err != nil {
				return err
			}
		}

		for _, archived := range snap.Payload.ManualEntries {
			entry := archived
			if entry.Description == "" {
				entry.Description = restoredDescription
			}
			if err := txManual.Upsert(ctx, &entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &RestoreResult{WorkItemID: snap.Payload.WorkItem.ID}

	warning, err := s.verify(ctx, snap)
	if err != nil {
		return nil, err
	}
	if warning != nil {
		result.Warning = warning
		observe(ctx, s.observer, "restore_verification_mismatch", startedAt, warning,
			map[string]any{"snapshot_id": snapshotID})
		return result, nil
	}

	// Verified: the snapshot has served its purpose.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)
		if err := txSnapshots.MarkRestored(ctx, snap.ID, userID); err != nil {
			return err
		}
		return txSnapshots.Delete(ctx, snap.ID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// verify re-reads the restored rows and compares counts against the
// snapshot. A nil warning means everything matched.
func (s *restoreService) verify(ctx context.Context, snap *domain.Snapshot) (*VerificationWarning, error) {
	wantControls, wantTime, wantManual := snap.Payload.EntryCounts()

	controls, err := s.controls.ListByWorkItem(ctx, snap.Payload.WorkItem.ID)
	if err != nil {
		return nil, err
	}

	gotTime, gotManual := 0, 0
	for _, ctrl := range controls {
		entries, err := s.timeEntries.ListByControl(ctx, ctrl.ID)
		if err != nil {
			return nil, err
		}
		gotTime += len(entries)

		manual, err := s.manualEntries.ListByControl(ctx, ctrl.ID)
		if err != nil {
			return nil, err
		}
		gotManual += len(manual)
	}

	w := &VerificationWarning{
		SnapshotID:      snap.ID,
		WantControls:    wantControls,
		GotControls:     len(controls),
		WantTimeEntries: wantTime,
		GotTimeEntries:  gotTime,
		WantManual:      wantManual,
		GotManual:       gotManual,
	}
	if w.Clean() {
		return nil, nil
	}
	return w, nil
}

// controlMinutes sums the payload's entry durations belonging to one control.
func controlMinutes(p *domain.SnapshotPayload, controlID string) int {
	total := 0
	for _, e := range p.TimeEntries {
		if e.ControlID == controlID {
			total += e.DurationMinutes
		}
	}
	for _, m := range p.ManualEntries {
		if m.ControlID == controlID {
			total += m.DurationMinutes
		}
	}
	return total
}
