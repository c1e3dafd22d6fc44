package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
)

// workItemColumns is the canonical SELECT column list for work_items.
const workItemColumns = `id, kind, number, title, description, created_by,
		assigned_to, is_completed, created_at, updated_at`

// SQLiteWorkItemRepo implements WorkItemRepo over a DBTX, so the same
// implementation serves both direct reads and tx-scoped writes.
type SQLiteWorkItemRepo struct {
	conn db.DBTX
}

// NewSQLiteWorkItemRepo creates a new SQLiteWorkItemRepo.
func NewSQLiteWorkItemRepo(conn db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{conn: conn}
}

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	query := `INSERT INTO work_items (id, kind, number, title, description, created_by,
		assigned_to, is_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query, r.insertArgs(w)...)
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return nil
}

// Upsert writes the work item preserving its identity, updating the row in
// place if it already exists. Restore retries depend on this being safe to
// re-run.
func (r *SQLiteWorkItemRepo) Upsert(ctx context.Context, w *domain.WorkItem) error {
	query := `INSERT INTO work_items (id, kind, number, title, description, created_by,
		assigned_to, is_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			number = excluded.number,
			title = excluded.title,
			description = excluded.description,
			created_by = excluded.created_by,
			assigned_to = excluded.assigned_to,
			is_completed = excluded.is_completed,
			updated_at = excluded.updated_at`
	_, err := r.conn.ExecContext(ctx, query, r.insertArgs(w)...)
	if err != nil {
		return fmt.Errorf("upserting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) insertArgs(w *domain.WorkItem) []any {
	return []any{
		w.ID,
		string(w.Kind),
		w.Number,
		w.Title,
		w.Description,
		w.CreatedBy,
		nullableStringToValue(w.AssignedTo),
		boolToInt(w.IsCompleted),
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	}
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = ?`
	return r.scanWorkItem(r.conn.QueryRowContext(ctx, query, id))
}

func (r *SQLiteWorkItemRepo) GetByNumber(ctx context.Context, number string) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE number = ?`
	return r.scanWorkItem(r.conn.QueryRowContext(ctx, query, number))
}

func (r *SQLiteWorkItemRepo) List(ctx context.Context, kind domain.WorkItemKind) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at`

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing work items: %w", err)
	}
	defer rows.Close()

	var items []*domain.WorkItem
	for rows.Next() {
		w, err := r.scanWorkItemRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}

func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	query := `UPDATE work_items SET kind = ?, number = ?, title = ?, description = ?,
		created_by = ?, assigned_to = ?, is_completed = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.conn.ExecContext(ctx, query,
		string(w.Kind),
		w.Number,
		w.Title,
		w.Description,
		w.CreatedBy,
		nullableStringToValue(w.AssignedTo),
		boolToInt(w.IsCompleted),
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM work_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) scanWorkItem(row *sql.Row) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var kind, createdAtStr, updatedAtStr string
	var assignedTo sql.NullString
	var isCompleted int

	err := row.Scan(
		&w.ID, &kind, &w.Number, &w.Title, &w.Description, &w.CreatedBy,
		&assignedTo, &isCompleted, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work item: %w", err)
	}

	return r.populateWorkItem(&w, kind, assignedTo, isCompleted, createdAtStr, updatedAtStr)
}

func (r *SQLiteWorkItemRepo) scanWorkItemRow(rows *sql.Rows) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var kind, createdAtStr, updatedAtStr string
	var assignedTo sql.NullString
	var isCompleted int

	err := rows.Scan(
		&w.ID, &kind, &w.Number, &w.Title, &w.Description, &w.CreatedBy,
		&assignedTo, &isCompleted, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning work item row: %w", err)
	}

	return r.populateWorkItem(&w, kind, assignedTo, isCompleted, createdAtStr, updatedAtStr)
}

func (r *SQLiteWorkItemRepo) populateWorkItem(w *domain.WorkItem, kind string, assignedTo sql.NullString, isCompleted int, createdAtStr, updatedAtStr string) (*domain.WorkItem, error) {
	w.Kind = domain.WorkItemKind(kind)
	w.AssignedTo = nullStringToPtr(assignedTo)
	w.IsCompleted = intToBool(isCompleted)

	var err error
	w.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	w.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return w, nil
}
