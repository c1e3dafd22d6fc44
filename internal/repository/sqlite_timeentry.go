package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
)

// timeEntryColumns is the canonical SELECT column list for time_entries.
const timeEntryColumns = `id, control_id, user_id, start_time, end_time,
		duration_minutes, description, created_at`

// SQLiteTimeEntryRepo implements TimeEntryRepo over a DBTX.
type SQLiteTimeEntryRepo struct {
	conn db.DBTX
}

// NewSQLiteTimeEntryRepo creates a new SQLiteTimeEntryRepo.
func NewSQLiteTimeEntryRepo(conn db.DBTX) *SQLiteTimeEntryRepo {
	return &SQLiteTimeEntryRepo{conn: conn}
}

func (r *SQLiteTimeEntryRepo) Create(ctx context.Context, e *domain.TimeEntry) error {
	query := `INSERT INTO time_entries (id, control_id, user_id, start_time, end_time,
		duration_minutes, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query, r.insertArgs(e)...)
	if err != nil {
		return fmt.Errorf("inserting time entry: %w", err)
	}
	return nil
}

// Upsert writes the entry preserving its identity, for restore retries.
func (r *SQLiteTimeEntryRepo) Upsert(ctx context.Context, e *domain.TimeEntry) error {
	query := `INSERT INTO time_entries (id, control_id, user_id, start_time, end_time,
		duration_minutes, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			control_id = excluded.control_id,
			user_id = excluded.user_id,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_minutes = excluded.duration_minutes,
			description = excluded.description`
	_, err := r.conn.ExecContext(ctx, query, r.insertArgs(e)...)
	if err != nil {
		return fmt.Errorf("upserting time entry: %w", err)
	}
	return nil
}

func (r *SQLiteTimeEntryRepo) insertArgs(e *domain.TimeEntry) []any {
	return []any{
		e.ID,
		e.ControlID,
		e.UserID,
		e.StartTime.Format(time.RFC3339),
		nullableTimeToString(e.EndTime, time.RFC3339),
		e.DurationMinutes,
		e.Description,
		e.CreatedAt.Format(time.RFC3339),
	}
}

func (r *SQLiteTimeEntryRepo) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ?`
	return r.scanEntry(r.conn.QueryRowContext(ctx, query, id))
}

// GetOpenByControl returns the control's still-running entry. The timer state
// machine guarantees at most one open entry per control.
func (r *SQLiteTimeEntryRepo) GetOpenByControl(ctx context.Context, controlID string) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE control_id = ? AND end_time IS NULL
		ORDER BY start_time DESC LIMIT 1`
	return r.scanEntry(r.conn.QueryRowContext(ctx, query, controlID))
}

func (r *SQLiteTimeEntryRepo) ListByControl(ctx context.Context, controlID string) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE control_id = ? ORDER BY start_time`
	rows, err := r.conn.QueryContext(ctx, query, controlID)
	if err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteTimeEntryRepo) Update(ctx context.Context, e *domain.TimeEntry) error {
	query := `UPDATE time_entries SET control_id = ?, user_id = ?, start_time = ?,
		end_time = ?, duration_minutes = ?, description = ? WHERE id = ?`
	_, err := r.conn.ExecContext(ctx, query,
		e.ControlID,
		e.UserID,
		e.StartTime.Format(time.RFC3339),
		nullableTimeToString(e.EndTime, time.RFC3339),
		e.DurationMinutes,
		e.Description,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating time entry: %w", err)
	}
	return nil
}

func (r *SQLiteTimeEntryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}
	return nil
}

func (r *SQLiteTimeEntryRepo) DeleteByControl(ctx context.Context, controlID string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM time_entries WHERE control_id = ?`, controlID)
	if err != nil {
		return fmt.Errorf("deleting time entries by control: %w", err)
	}
	return nil
}

func (r *SQLiteTimeEntryRepo) scanEntry(row *sql.Row) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	var startStr, createdAtStr string
	var endStr sql.NullString

	err := row.Scan(
		&e.ID, &e.ControlID, &e.UserID, &startStr, &endStr,
		&e.DurationMinutes, &e.Description, &createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("time entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning time entry: %w", err)
	}

	return r.populateEntry(&e, startStr, endStr, createdAtStr)
}

func (r *SQLiteTimeEntryRepo) scanEntries(rows *sql.Rows) ([]*domain.TimeEntry, error) {
	var entries []*domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		var startStr, createdAtStr string
		var endStr sql.NullString

		err := rows.Scan(
			&e.ID, &e.ControlID, &e.UserID, &startStr, &endStr,
			&e.DurationMinutes, &e.Description, &createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning time entry row: %w", err)
		}

		entry, err := r.populateEntry(&e, startStr, endStr, createdAtStr)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteTimeEntryRepo) populateEntry(e *domain.TimeEntry, startStr string, endStr sql.NullString, createdAtStr string) (*domain.TimeEntry, error) {
	var err error
	e.StartTime, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	e.EndTime = parseNullableTime(endStr, time.RFC3339)
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return e, nil
}
