package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/repository"
	"github.com/google/uuid"
)

type archiveService struct {
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

// NewArchiveService creates the snapshotter and archive query surface.
func NewArchiveService(snapshots repository.SnapshotRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ArchiveService {
	return &archiveService{
		snapshots: snapshots,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Archive freezes the work item, its controls, and all their ledger entries
// into one snapshot row and deletes the live rows, all in one transaction.
// A failure at any step rolls the whole operation back: there is never a
// snapshot without the deletion, or a deletion without the snapshot.
func (s *archiveService) Archive(ctx context.Context, workItemID, userID, reason string) (snapshot *domain.Snapshot, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "archive_work_item", startedAt, err,
			map[string]any{"work_item_id": workItemID, "user_id": userID})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		txControls := repository.NewSQLiteControlRepo(tx)
		txEntries := repository.NewSQLiteTimeEntryRepo(tx)
		txManual := repository.NewSQLiteManualTimeEntryRepo(tx)
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)

		item, err := txWorkItems.GetByID(ctx, workItemID)
		if err != nil {
			return err
		}
		if !item.Archivable() {
			return fmt.Errorf("todo %s is not completed: %w", item.Number, ErrNotArchivable)
		}

		// The live schema constrains this to one control, but the payload
		// tolerates zero or more.
		controls, err := txControls.ListByWorkItem(ctx, workItemID)
		if err != nil {
			return err
		}

		payload := domain.SnapshotPayload{
			Version:  domain.SnapshotPayloadVersion,
			WorkItem: *item,
		}
		// Totals are derived from the entries themselves rather than trusted
		// from the controls' accumulated field, so the snapshot records what
		// the ledger actually contains.
		timerMinutes := 0
		manualMinutes := 0
		for _, ctrl := range controls {
			payload.Controls = append(payload.Controls, *ctrl)

			entries, err := txEntries.ListByControl(ctx, ctrl.ID)
			if err != nil {
				return err
			}
			for _, e := range entries {
				payload.TimeEntries = append(payload.TimeEntries, *e)
				timerMinutes += e.DurationMinutes
			}

			manual, err := txManual.ListByControl(ctx, ctrl.ID)
			if err != nil {
				return err
			}
			for _, m := range manual {
				payload.ManualEntries = append(payload.ManualEntries, *m)
				manualMinutes += m.DurationMinutes
			}
		}

		now := time.Now().UTC()
		snapshot = &domain.Snapshot{
			ID:                uuid.New().String(),
			WorkItemID:        item.ID,
			WorkItemNumber:    item.Number,
			WorkItemKind:      item.Kind,
			Title:             item.Title,
			Payload:           payload,
			TimerTimeMinutes:  timerMinutes,
			ManualTimeMinutes: manualMinutes,
			TotalTimeMinutes:  timerMinutes + manualMinutes,
			ArchiveReason:     reason,
			ArchivedBy:        userID,
			ArchivedAt:        now,
			CreatedAt:         now,
		}
		if err := txSnapshots.Create(ctx, snapshot); err != nil {
			return err
		}

		// Delete live rows in dependency order: entries, controls, item.
		for _, ctrl := range controls {
			if err := txEntries.DeleteByControl(ctx, ctrl.ID); err != nil {
				return err
			}
			if err := txManual.DeleteByControl(ctx, ctrl.ID); err != nil {
				return err
			}
			if err := txControls.Delete(ctx, ctrl.ID); err != nil {
				return err
			}
		}
		return txWorkItems.Delete(ctx, item.ID)
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *archiveService) List(ctx context.Context, q repository.SnapshotListQuery) (*repository.SnapshotPage, error) {
	return s.snapshots.List(ctx, q)
}

func (s *archiveService) Get(ctx context.Context, snapshotID string) (*domain.Snapshot, error) {
	return s.snapshots.GetByID(ctx, snapshotID)
}

func (s *archiveService) DeletePermanently(ctx context.Context, snapshotID string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "archive_delete_permanently", startedAt, err,
			map[string]any{"snapshot_id": snapshotID})
	}()
	err = s.snapshots.Delete(ctx, snapshotID)
	return err
}

func (s *archiveService) Stats(ctx context.Context) (*repository.ArchiveStats, error) {
	return s.snapshots.Stats(ctx)
}
