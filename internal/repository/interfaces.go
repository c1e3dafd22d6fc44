package repository

import (
	"context"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
)

// SnapshotListQuery shapes paged archive listings. Zero values fall back to
// sane defaults (page 1, limit 20, sort by archived_at descending).
type SnapshotListQuery struct {
	Page      int
	Limit     int
	Search    string              // matches work item number or title
	Kind      domain.WorkItemKind // empty means both kinds
	SortBy    string              // archived_at | title | number | total_time_minutes
	SortOrder string              // asc | desc
}

// SnapshotPage is one page of archive listings plus the unpaged total.
type SnapshotPage struct {
	Snapshots []*domain.Snapshot
	Total     int
	Page      int
	Limit     int
}

// ArchiveStats aggregates the archive store for dashboards.
type ArchiveStats struct {
	TotalSnapshots int
	Cases          int
	Todos          int
	Restored       int
	TotalMinutes   int
}

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	Upsert(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	GetByNumber(ctx context.Context, number string) (*domain.WorkItem, error)
	List(ctx context.Context, kind domain.WorkItemKind) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, id string) error
}

type ControlRepo interface {
	Create(ctx context.Context, c *domain.Control) error
	Upsert(ctx context.Context, c *domain.Control) error
	GetByID(ctx context.Context, id string) (*domain.Control, error)
	GetByWorkItem(ctx context.Context, workItemID string) (*domain.Control, error)
	ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.Control, error)
	ListRunningByUser(ctx context.Context, userID string) ([]*domain.Control, error)
	Update(ctx context.Context, c *domain.Control) error
	Delete(ctx context.Context, id string) error
}

type TimeEntryRepo interface {
	Create(ctx context.Context, e *domain.TimeEntry) error
	Upsert(ctx context.Context, e *domain.TimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	GetOpenByControl(ctx context.Context, controlID string) (*domain.TimeEntry, error)
	ListByControl(ctx context.Context, controlID string) ([]*domain.TimeEntry, error)
	Update(ctx context.Context, e *domain.TimeEntry) error
	Delete(ctx context.Context, id string) error
	DeleteByControl(ctx context.Context, controlID string) error
}

type ManualTimeEntryRepo interface {
	Create(ctx context.Context, e *domain.ManualTimeEntry) error
	Upsert(ctx context.Context, e *domain.ManualTimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.ManualTimeEntry, error)
	ListByControl(ctx context.Context, controlID string) ([]*domain.ManualTimeEntry, error)
	Delete(ctx context.Context, id string) error
	DeleteByControl(ctx context.Context, controlID string) error
}

type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.Snapshot) error
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	List(ctx context.Context, q SnapshotListQuery) (*SnapshotPage, error)
	MarkRestored(ctx context.Context, id, restoredBy string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*ArchiveStats, error)
}
