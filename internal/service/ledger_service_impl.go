package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/repository"
	"github.com/google/uuid"
)

type ledgerService struct {
	timeEntries   repository.TimeEntryRepo
	manualEntries repository.ManualTimeEntryRepo
	uow           db.UnitOfWork
	observer      UseCaseObserver
}

// NewLedgerService creates the time ledger over the given repositories. The
// repo handles serve reads; every mutation builds tx-scoped repos inside the
// UnitOfWork so the entry and the control's total change together or not at
// all.
func NewLedgerService(timeEntries repository.TimeEntryRepo, manualEntries repository.ManualTimeEntryRepo, uow db.UnitOfWork, observers ...UseCaseObserver) LedgerService {
	return &ledgerService{
		timeEntries:   timeEntries,
		manualEntries: manualEntries,
		uow:           uow,
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *ledgerService) AddManual(ctx context.Context, controlID, date string, minutes int, description, userID string) (entry *domain.ManualTimeEntry, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "ledger_add_manual", startedAt, err,
			map[string]any{"control_id": controlID, "minutes": minutes})
	}()

	if minutes <= 0 {
		return nil, fmt.Errorf("duration must be a positive number of minutes: %w", ErrInvalidDuration)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("description is required: %w", ErrValidation)
	}
	if _, perr := time.Parse("2006-01-02", date); perr != nil {
		return nil, fmt.Errorf("date must be YYYY-MM-DD: %w", ErrValidation)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txControls := repository.NewSQLiteControlRepo(tx)
		txManual := repository.NewSQLiteManualTimeEntryRepo(tx)

		ctrl, err := txControls.GetByID(ctx, controlID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		entry = &domain.ManualTimeEntry{
			ID:              uuid.New().String(),
			ControlID:       ctrl.ID,
			UserID:          ctrl.UserID,
			Date:            date,
			DurationMinutes: minutes,
			Description:     description,
			CreatedBy:       userID,
			CreatedAt:       now,
		}
		if err := txManual.Create(ctx, entry); err != nil {
			return err
		}

		ctrl.TotalTimeMinutes += minutes
		ctrl.UpdatedAt = now
		return txControls.Update(ctx, ctrl)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) DeleteTimeEntry(ctx context.Context, entryID, userID string, role domain.Role) (result *DeleteEntryResult, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "ledger_delete_time_entry", startedAt, err,
			map[string]any{"entry_id": entryID, "user_id": userID})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txControls := repository.NewSQLiteControlRepo(tx)
		txEntries := repository.NewSQLiteTimeEntryRepo(tx)

		entry, err := txEntries.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.UserID != userID && !role.Privileged() {
			return ErrForbidden
		}
		if entry.Running() {
			return fmt.Errorf("cannot delete a running time entry: %w", ErrInvalidDuration)
		}

		ctrl, err := txControls.GetByID(ctx, entry.ControlID)
		if err != nil {
			return err
		}
		ctrl.TotalTimeMinutes -= entry.DurationMinutes
		ctrl.UpdatedAt = time.Now().UTC()
		if err := txControls.Update(ctx, ctrl); err != nil {
			return err
		}
		if err := txEntries.Delete(ctx, entry.ID); err != nil {
			return err
		}

		result = &DeleteEntryResult{DeletedID: entry.ID, NewTotalMinutes: ctrl.TotalTimeMinutes}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ledgerService) DeleteManualEntry(ctx context.Context, entryID, userID string, role domain.Role) (result *DeleteEntryResult, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "ledger_delete_manual_entry", startedAt, err,
			map[string]any{"entry_id": entryID, "user_id": userID})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txControls := repository.NewSQLiteControlRepo(tx)
		txManual := repository.NewSQLiteManualTimeEntryRepo(tx)

		entry, err := txManual.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.UserID != userID && entry.CreatedBy != userID && !role.Privileged() {
			return ErrForbidden
		}

		ctrl, err := txControls.GetByID(ctx, entry.ControlID)
		if err != nil {
			return err
		}
		ctrl.TotalTimeMinutes -= entry.DurationMinutes
		ctrl.UpdatedAt = time.Now().UTC()
		if err := txControls.Update(ctx, ctrl); err != nil {
			return err
		}
		if err := txManual.Delete(ctx, entry.ID); err != nil {
			return err
		}

		result = &DeleteEntryResult{DeletedID: entry.ID, NewTotalMinutes: ctrl.TotalTimeMinutes}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, controlID string) (*LedgerEntries, error) {
	timeEntries, err := s.timeEntries.ListByControl(ctx, controlID)
	if err != nil {
		return nil, err
	}
	manualEntries, err := s.manualEntries.ListByControl(ctx, controlID)
	if err != nil {
		return nil, err
	}
	return &LedgerEntries{TimeEntries: timeEntries, ManualEntries: manualEntries}, nil
}
