package service

import (
	"context"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/repository"
	"github.com/google/uuid"
)

type timerService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewTimerService creates the timer state machine over the given UnitOfWork.
func NewTimerService(uow db.UnitOfWork, observers ...UseCaseObserver) TimerService {
	return &timerService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Start activates the control's timer for userID. In the same transaction it
// pauses every other control the user has running, so at most one timer per
// user is active at commit. Starting a control already running for the same
// user is a no-op success that returns the current state; duplicate UI
// clicks must not open a second entry.
func (s *timerService) Start(ctx context.Context, controlID, userID string) (result *domain.Control, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "timer_start", startedAt, err,
			map[string]any{"control_id": controlID, "user_id": userID})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txControls := repository.NewSQLiteControlRepo(tx)
		txEntries := repository.NewSQLiteTimeEntryRepo(tx)

		ctrl, err := txControls.GetByID(ctx, controlID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		if ctrl.IsTimerActive && ctrl.UserID == userID {
			result = ctrl
			return nil
		}

		// Pause every running control of this user before activating,
		// including this control if it is running under a previous owner.
		running, err := txControls.ListRunningByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, other := range running {
			if err := closeRunningTimer(ctx, txControls, txEntries, other, now, domain.StatusPaused); err != nil {
				return err
			}
		}
		if ctrl.IsTimerActive {
			if err := closeRunningTimer(ctx, txControls, txEntries, ctrl, now, domain.StatusPaused); err != nil {
				return err
			}
		}

		ctrl.Reassign(userID, now)
		ctrl.ActivateTimer(now)
		if err := txControls.Update(ctx, ctrl); err != nil {
			return err
		}

		entry := &domain.TimeEntry{
			ID:        uuid.New().String(),
			ControlID: ctrl.ID,
			UserID:    userID,
			StartTime: now,
			CreatedAt: now,
		}
		if err := txEntries.Create(ctx, entry); err != nil {
			return err
		}

		result = ctrl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Pause stops the running timer, closing the open entry and crediting the
// elapsed whole minutes to the control's total. Pausing an idle control is
// an error, not a no-op: there is no safe default duration to invent.
func (s *timerService) Pause(ctx context.Context, controlID, userID string) (*domain.Control, error) {
	return s.deactivate(ctx, "timer_pause", controlID, userID, domain.StatusPaused)
}

// Stop behaves like Pause but lands the control on the supplied status
// (default "stopped"). It is pause plus a status change, not a separate
// machine state.
func (s *timerService) Stop(ctx context.Context, controlID, userID string, status domain.ControlStatus) (*domain.Control, error) {
	if status == "" {
		status = domain.StatusStopped
	}
	return s.deactivate(ctx, "timer_stop", controlID, userID, status)
}

func (s *timerService) deactivate(ctx context.Context, useCase, controlID, userID string, status domain.ControlStatus) (result *domain.Control, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, useCase, startedAt, err,
			map[string]any{"control_id": controlID, "user_id": userID})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txControls := repository.NewSQLiteControlRepo(tx)
		txEntries := repository.NewSQLiteTimeEntryRepo(tx)

		ctrl, err := txControls.GetByID(ctx, controlID)
		if err != nil {
			return err
		}
		if !ctrl.IsTimerActive {
			return ErrNotRunning
		}
		if ctrl.UserID != userID {
			return ErrNotOwner
		}

		now := time.Now().UTC()
		if err := closeRunningTimer(ctx, txControls, txEntries, ctrl, now, status); err != nil {
			return err
		}

		result = ctrl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// closeRunningTimer closes the control's open time entry and returns the
// control to idle with the given status. The closed entry's duration is the
// amount credited to the total, keeping the ledger invariant exact.
func closeRunningTimer(ctx context.Context, controls *repository.SQLiteControlRepo, entries *repository.SQLiteTimeEntryRepo, ctrl *domain.Control, now time.Time, status domain.ControlStatus) error {
	open, err := entries.GetOpenByControl(ctx, ctrl.ID)
	if err != nil {
		return err
	}

	elapsed := open.Close(now)
	if err := entries.Update(ctx, open); err != nil {
		return err
	}

	ctrl.CreditTimerStop(elapsed, now, status)
	return controls.Update(ctx, ctrl)
}
