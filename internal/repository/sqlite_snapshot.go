package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
)

const snapshotColumns = `id, work_item_id, work_item_number, work_item_kind, title,
		payload, timer_time_minutes, manual_time_minutes, total_time_minutes,
		archive_reason, archived_by, archived_at, is_restored, restored_at,
		restored_by, created_at`

// snapshotSortColumns whitelists sortable columns. Anything else falls back
// to archived_at so user-supplied sort keys never reach the SQL string.
var snapshotSortColumns = map[string]string{
	"archived_at":        "archived_at",
	"title":              "title",
	"number":             "work_item_number",
	"total_time_minutes": "total_time_minutes",
}

// SQLiteSnapshotRepo implements SnapshotRepo over a DBTX. The payload column
// holds the versioned JSON form of the archived work item and its ledger.
type SQLiteSnapshotRepo struct {
	conn db.DBTX
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{conn: conn}
}

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.Snapshot) error {
	payload, err := json.Marshal(s.Payload)
	if err != nil {
		return fmt.Errorf("marshaling snapshot payload: %w", err)
	}

	query := `INSERT INTO snapshots (id, work_item_id, work_item_number, work_item_kind,
		title, payload, timer_time_minutes, manual_time_minutes, total_time_minutes,
		archive_reason, archived_by, archived_at, is_restored, restored_at, restored_by,
		created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.conn.ExecContext(ctx, query,
		s.ID,
		s.WorkItemID,
		s.WorkItemNumber,
		string(s.WorkItemKind),
		s.Title,
		string(payload),
		s.TimerTimeMinutes,
		s.ManualTimeMinutes,
		s.TotalTimeMinutes,
		s.ArchiveReason,
		s.ArchivedBy,
		s.ArchivedAt.Format(time.RFC3339),
		boolToInt(s.IsRestored),
		nullableTimeToString(s.RestoredAt, time.RFC3339),
		nullableStringToValue(s.RestoredBy),
		s.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE id = ?`
	return r.scanSnapshot(r.conn.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSnapshotRepo) List(ctx context.Context, q SnapshotListQuery) (*SnapshotPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}

	where := ` WHERE 1=1`
	args := []any{}
	if q.Kind != "" {
		where += ` AND work_item_kind = ?`
		args = append(args, string(q.Kind))
	}
	if q.Search != "" {
		where += ` AND (work_item_number LIKE ? OR title LIKE ?)`
		pattern := "%" + q.Search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM snapshots` + where
	if err := r.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting snapshots: %w", err)
	}

	sortCol, ok := snapshotSortColumns[q.SortBy]
	if !ok {
		sortCol = "archived_at"
	}
	order := "DESC"
	if q.SortOrder == "asc" {
		order = "ASC"
	}

	listQuery := `SELECT ` + snapshotColumns + ` FROM snapshots` + where +
		fmt.Sprintf(` ORDER BY %s %s LIMIT ? OFFSET ?`, sortCol, order)
	listArgs := append(args, limit, (page-1)*limit)

	rows, err := r.conn.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.Snapshot
	for rows.Next() {
		s, err := r.scanSnapshotRow(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}

	return &SnapshotPage{Snapshots: snapshots, Total: total, Page: page, Limit: limit}, nil
}

// MarkRestored flips the restored flag. Only the restorer calls this, and
// only after its post-commit verification pass succeeded.
func (r *SQLiteSnapshotRepo) MarkRestored(ctx context.Context, id, restoredBy string) error {
	query := `UPDATE snapshots SET is_restored = 1, restored_at = ?, restored_by = ?
		WHERE id = ?`
	res, err := r.conn.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), restoredBy, id)
	if err != nil {
		return fmt.Errorf("marking snapshot restored: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("snapshot: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("snapshot: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Stats(ctx context.Context) (*ArchiveStats, error) {
	query := `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN work_item_kind = 'case' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN work_item_kind = 'todo' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(is_restored), 0),
		COALESCE(SUM(total_time_minutes), 0)
		FROM snapshots`
	var s ArchiveStats
	err := r.conn.QueryRowContext(ctx, query).Scan(
		&s.TotalSnapshots, &s.Cases, &s.Todos, &s.Restored, &s.TotalMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating archive stats: %w", err)
	}
	return &s, nil
}

func (r *SQLiteSnapshotRepo) scanSnapshot(row *sql.Row) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var kind, payloadStr, archivedAtStr, createdAtStr string
	var restoredAt, restoredBy sql.NullString
	var isRestored int

	err := row.Scan(
		&s.ID, &s.WorkItemID, &s.WorkItemNumber, &kind, &s.Title,
		&payloadStr, &s.TimerTimeMinutes, &s.ManualTimeMinutes, &s.TotalTimeMinutes,
		&s.ArchiveReason, &s.ArchivedBy, &archivedAtStr, &isRestored, &restoredAt,
		&restoredBy, &createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	return r.populateSnapshot(&s, kind, payloadStr, archivedAtStr, createdAtStr, isRestored, restoredAt, restoredBy)
}

func (r *SQLiteSnapshotRepo) scanSnapshotRow(rows *sql.Rows) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var kind, payloadStr, archivedAtStr, createdAtStr string
	var restoredAt, restoredBy sql.NullString
	var isRestored int

	err := rows.Scan(
		&s.ID, &s.WorkItemID, &s.WorkItemNumber, &kind, &s.Title,
		&payloadStr, &s.TimerTimeMinutes, &s.ManualTimeMinutes, &s.TotalTimeMinutes,
		&s.ArchiveReason, &s.ArchivedBy, &archivedAtStr, &isRestored, &restoredAt,
		&restoredBy, &createdAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot row: %w", err)
	}

	return r.populateSnapshot(&s, kind, payloadStr, archivedAtStr, createdAtStr, isRestored, restoredAt, restoredBy)
}

func (r *SQLiteSnapshotRepo) populateSnapshot(s *domain.Snapshot, kind, payloadStr, archivedAtStr, createdAtStr string, isRestored int, restoredAt, restoredBy sql.NullString) (*domain.Snapshot, error) {
	s.WorkItemKind = domain.WorkItemKind(kind)
	s.IsRestored = intToBool(isRestored)
	s.RestoredAt = parseNullableTime(restoredAt, time.RFC3339)
	s.RestoredBy = nullStringToPtr(restoredBy)

	if err := json.Unmarshal([]byte(payloadStr), &s.Payload); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot payload: %w", err)
	}

	var err error
	s.ArchivedAt, err = time.Parse(time.RFC3339, archivedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing archived_at: %w", err)
	}
	s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return s, nil
}
