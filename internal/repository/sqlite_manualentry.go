package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
)

const manualEntryColumns = `id, control_id, user_id, entry_date,
		duration_minutes, description, created_by, created_at`

// SQLiteManualTimeEntryRepo implements ManualTimeEntryRepo over a DBTX.
type SQLiteManualTimeEntryRepo struct {
	conn db.DBTX
}

// NewSQLiteManualTimeEntryRepo creates a new SQLiteManualTimeEntryRepo.
func NewSQLiteManualTimeEntryRepo(conn db.DBTX) *SQLiteManualTimeEntryRepo {
	return &SQLiteManualTimeEntryRepo{conn: conn}
}

func (r *SQLiteManualTimeEntryRepo) Create(ctx context.Context, e *domain.ManualTimeEntry) error {
	query := `INSERT INTO manual_time_entries (id, control_id, user_id, entry_date,
		duration_minutes, description, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query, r.insertArgs(e)...)
	if err != nil {
		return fmt.Errorf("inserting manual time entry: %w", err)
	}
	return nil
}

// Upsert writes the entry preserving its identity, for restore retries.
func (r *SQLiteManualTimeEntryRepo) Upsert(ctx context.Context, e *domain.ManualTimeEntry) error {
	query := `INSERT INTO manual_time_entries (id, control_id, user_id, entry_date,
		duration_minutes, description, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			control_id = excluded.control_id,
			user_id = excluded.user_id,
			entry_date = excluded.entry_date,
			duration_minutes = excluded.duration_minutes,
			description = excluded.description,
			created_by = excluded.created_by`
	_, err := r.conn.ExecContext(ctx, query, r.insertArgs(e)...)
	if err != nil {
		return fmt.Errorf("upserting manual time entry: %w", err)
	}
	return nil
}

func (r *SQLiteManualTimeEntryRepo) insertArgs(e *domain.ManualTimeEntry) []any {
	return []any{
		e.ID,
		e.ControlID,
		e.UserID,
		e.Date,
		e.DurationMinutes,
		e.Description,
		e.CreatedBy,
		e.CreatedAt.Format(time.RFC3339),
	}
}

func (r *SQLiteManualTimeEntryRepo) GetByID(ctx context.Context, id string) (*domain.ManualTimeEntry, error) {
	query := `SELECT ` + manualEntryColumns + ` FROM manual_time_entries WHERE id = ?`
	row := r.conn.QueryRowContext(ctx, query, id)

	var e domain.ManualTimeEntry
	var createdAtStr string
	err := row.Scan(
		&e.ID, &e.ControlID, &e.UserID, &e.Date,
		&e.DurationMinutes, &e.Description, &e.CreatedBy, &createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("manual time entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning manual time entry: %w", err)
	}

	e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &e, nil
}

func (r *SQLiteManualTimeEntryRepo) ListByControl(ctx context.Context, controlID string) ([]*domain.ManualTimeEntry, error) {
	query := `SELECT ` + manualEntryColumns + ` FROM manual_time_entries
		WHERE control_id = ? ORDER BY entry_date, created_at`
	rows, err := r.conn.QueryContext(ctx, query, controlID)
	if err != nil {
		return nil, fmt.Errorf("listing manual time entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ManualTimeEntry
	for rows.Next() {
		var e domain.ManualTimeEntry
		var createdAtStr string
		err := rows.Scan(
			&e.ID, &e.ControlID, &e.UserID, &e.Date,
			&e.DurationMinutes, &e.Description, &e.CreatedBy, &createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning manual time entry row: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating manual time entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteManualTimeEntryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM manual_time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting manual time entry: %w", err)
	}
	return nil
}

func (r *SQLiteManualTimeEntryRepo) DeleteByControl(ctx context.Context, controlID string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM manual_time_entries WHERE control_id = ?`, controlID)
	if err != nil {
		return fmt.Errorf("deleting manual time entries by control: %w", err)
	}
	return nil
}
