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

type workItemService struct {
	workItems repository.WorkItemRepo
	controls  repository.ControlRepo
	uow       db.UnitOfWork
}

// NewWorkItemService creates the supporting CRUD surface for cases and todos.
func NewWorkItemService(workItems repository.WorkItemRepo, controls repository.ControlRepo, uow db.UnitOfWork) WorkItemService {
	return &workItemService{workItems: workItems, controls: controls, uow: uow}
}

// Create persists the work item together with its control. The control
// starts pending and idle, owned by the item's assignee (or creator).
func (s *workItemService) Create(ctx context.Context, w *domain.WorkItem) error {
	if !domain.ValidWorkItemKinds[string(w.Kind)] {
		return fmt.Errorf("unknown work item kind %q: %w", w.Kind, ErrValidation)
	}
	if strings.TrimSpace(w.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if w.CreatedBy == "" {
		return fmt.Errorf("creator is required: %w", ErrValidation)
	}

	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.Number == "" {
		w.Number = fmt.Sprintf("%s-%s", strings.ToUpper(string(w.Kind)), strings.ToUpper(w.ID[:8]))
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	owner := w.CreatedBy
	if w.AssignedTo != nil {
		owner = *w.AssignedTo
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		txControls := repository.NewSQLiteControlRepo(tx)

		if err := txWorkItems.Create(ctx, w); err != nil {
			return err
		}
		ctrl := &domain.Control{
			ID:         uuid.New().String(),
			WorkItemID: w.ID,
			UserID:     owner,
			Status:     domain.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return txControls.Create(ctx, ctrl)
	})
}

func (s *workItemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.workItems.GetByID(ctx, id)
}

func (s *workItemService) GetControl(ctx context.Context, workItemID string) (*domain.Control, error) {
	return s.controls.GetByWorkItem(ctx, workItemID)
}

func (s *workItemService) List(ctx context.Context, kind domain.WorkItemKind) ([]*domain.WorkItem, error) {
	return s.workItems.List(ctx, kind)
}

// CompleteTodo marks a todo done, which is the archival precondition for
// todos. The control's milestone is stamped in the same transaction.
func (s *workItemService) CompleteTodo(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		txControls := repository.NewSQLiteControlRepo(tx)

		w, err := txWorkItems.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if w.Kind != domain.KindTodo {
			return fmt.Errorf("work item %s is not a todo: %w", w.Number, ErrValidation)
		}

		now := time.Now().UTC()
		w.Complete(now)
		if err := txWorkItems.Update(ctx, w); err != nil {
			return err
		}

		ctrl, err := txControls.GetByWorkItem(ctx, id)
		if err != nil {
			return err
		}
		if ctrl.CompletedAt == nil {
			done := now
			ctrl.CompletedAt = &done
		}
		ctrl.Status = domain.StatusCompleted
		ctrl.UpdatedAt = now
		return txControls.Update(ctx, ctrl)
	})
}
