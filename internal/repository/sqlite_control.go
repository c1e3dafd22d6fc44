package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
)

// controlColumns is the canonical SELECT column list for controls.
const controlColumns = `id, work_item_id, user_id, status, total_time_minutes,
		is_timer_active, timer_start_at, assigned_at, started_at, completed_at,
		created_at, updated_at`

// SQLiteControlRepo implements ControlRepo over a DBTX.
type SQLiteControlRepo struct {
	conn db.DBTX
}

// NewSQLiteControlRepo creates a new SQLiteControlRepo.
func NewSQLiteControlRepo(conn db.DBTX) *SQLiteControlRepo {
	return &SQLiteControlRepo{conn: conn}
}

func (r *SQLiteControlRepo) Create(ctx context.Context, c *domain.Control) error {
	query := `INSERT INTO controls (id, work_item_id, user_id, status, total_time_minutes,
		is_timer_active, timer_start_at, assigned_at, started_at, completed_at,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query, r.insertArgs(c)...)
	if err != nil {
		return fmt.Errorf("inserting control: %w", err)
	}
	return nil
}

// Upsert writes the control preserving its identity. Used by restore so a
// retried run updates instead of colliding with rows from the first attempt.
func (r *SQLiteControlRepo) Upsert(ctx context.Context, c *domain.Control) error {
	query := `INSERT INTO controls (id, work_item_id, user_id, status, total_time_minutes,
		is_timer_active, timer_start_at, assigned_at, started_at, completed_at,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			work_item_id = excluded.work_item_id,
			user_id = excluded.user_id,
			status = excluded.status,
			total_time_minutes = excluded.total_time_minutes,
			is_timer_active = excluded.is_timer_active,
			timer_start_at = excluded.timer_start_at,
			assigned_at = excluded.assigned_at,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at`
	_, err := r.conn.ExecContext(ctx, query, r.insertArgs(c)...)
	if err != nil {
		return fmt.Errorf("upserting control: %w", err)
	}
	return nil
}

func (r *SQLiteControlRepo) insertArgs(c *domain.Control) []any {
	return []any{
		c.ID,
		c.WorkItemID,
		c.UserID,
		string(c.Status),
		c.TotalTimeMinutes,
		boolToInt(c.IsTimerActive),
		nullableTimeToString(c.TimerStartAt, time.RFC3339),
		nullableTimeToString(c.AssignedAt, time.RFC3339),
		nullableTimeToString(c.StartedAt, time.RFC3339),
		nullableTimeToString(c.CompletedAt, time.RFC3339),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	}
}

func (r *SQLiteControlRepo) GetByID(ctx context.Context, id string) (*domain.Control, error) {
	query := `SELECT ` + controlColumns + ` FROM controls WHERE id = ?`
	return r.scanControl(r.conn.QueryRowContext(ctx, query, id))
}

func (r *SQLiteControlRepo) GetByWorkItem(ctx context.Context, workItemID string) (*domain.Control, error) {
	query := `SELECT ` + controlColumns + ` FROM controls WHERE work_item_id = ?`
	return r.scanControl(r.conn.QueryRowContext(ctx, query, workItemID))
}

func (r *SQLiteControlRepo) ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.Control, error) {
	query := `SELECT ` + controlColumns + ` FROM controls WHERE work_item_id = ? ORDER BY created_at`
	rows, err := r.conn.QueryContext(ctx, query, workItemID)
	if err != nil {
		return nil, fmt.Errorf("listing controls by work item: %w", err)
	}
	defer rows.Close()
	return r.scanControls(rows)
}

// ListRunningByUser returns every control the user currently has an active
// timer on. Under the one-active-timer invariant this is at most one row,
// but the start transition reads it as a list so it can repair any drift.
func (r *SQLiteControlRepo) ListRunningByUser(ctx context.Context, userID string) ([]*domain.Control, error) {
	query := `SELECT ` + controlColumns + ` FROM controls
		WHERE user_id = ? AND is_timer_active = 1 ORDER BY created_at`
	rows, err := r.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing running controls: %w", err)
	}
	defer rows.Close()
	return r.scanControls(rows)
}

func (r *SQLiteControlRepo) Update(ctx context.Context, c *domain.Control) error {
	query := `UPDATE controls SET work_item_id = ?, user_id = ?, status = ?,
		total_time_minutes = ?, is_timer_active = ?, timer_start_at = ?,
		assigned_at = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.conn.ExecContext(ctx, query,
		c.WorkItemID,
		c.UserID,
		string(c.Status),
		c.TotalTimeMinutes,
		boolToInt(c.IsTimerActive),
		nullableTimeToString(c.TimerStartAt, time.RFC3339),
		nullableTimeToString(c.AssignedAt, time.RFC3339),
		nullableTimeToString(c.StartedAt, time.RFC3339),
		nullableTimeToString(c.CompletedAt, time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating control: %w", err)
	}
	return nil
}

func (r *SQLiteControlRepo) Delete(ctx context.Context, id string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM controls WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting control: %w", err)
	}
	return nil
}

func (r *SQLiteControlRepo) scanControl(row *sql.Row) (*domain.Control, error) {
	var c domain.Control
	var status, createdAtStr, updatedAtStr string
	var timerStartAt, assignedAt, startedAt, completedAt sql.NullString
	var isActive int

	err := row.Scan(
		&c.ID, &c.WorkItemID, &c.UserID, &status, &c.TotalTimeMinutes,
		&isActive, &timerStartAt, &assignedAt, &startedAt, &completedAt,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("control: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning control: %w", err)
	}

	return r.populateControl(&c, status, isActive, timerStartAt, assignedAt, startedAt, completedAt, createdAtStr, updatedAtStr)
}

func (r *SQLiteControlRepo) scanControls(rows *sql.Rows) ([]*domain.Control, error) {
	var controls []*domain.Control
	for rows.Next() {
		var c domain.Control
		var status, createdAtStr, updatedAtStr string
		var timerStartAt, assignedAt, startedAt, completedAt sql.NullString
		var isActive int

		err := rows.Scan(
			&c.ID, &c.WorkItemID, &c.UserID, &status, &c.TotalTimeMinutes,
			&isActive, &timerStartAt, &assignedAt, &startedAt, &completedAt,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning control row: %w", err)
		}

		ctrl, err := r.populateControl(&c, status, isActive, timerStartAt, assignedAt, startedAt, completedAt, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		controls = append(controls, ctrl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating controls: %w", err)
	}
	return controls, nil
}

func (r *SQLiteControlRepo) populateControl(c *domain.Control, status string, isActive int, timerStartAt, assignedAt, startedAt, completedAt sql.NullString, createdAtStr, updatedAtStr string) (*domain.Control, error) {
	c.Status = domain.ControlStatus(status)
	c.IsTimerActive = intToBool(isActive)
	c.TimerStartAt = parseNullableTime(timerStartAt, time.RFC3339)
	c.AssignedAt = parseNullableTime(assignedAt, time.RFC3339)
	c.StartedAt = parseNullableTime(startedAt, time.RFC3339)
	c.CompletedAt = parseNullableTime(completedAt, time.RFC3339)

	var err error
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, nil
}
