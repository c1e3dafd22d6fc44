package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_items (
		id           TEXT PRIMARY KEY,
		kind         TEXT NOT NULL
		             CHECK(kind IN ('case','todo')),
		number       TEXT NOT NULL UNIQUE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		created_by   TEXT NOT NULL,
		assigned_to  TEXT,
		is_completed INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_items_kind ON work_items(kind)`,

	`CREATE TABLE IF NOT EXISTS controls (
		id                 TEXT PRIMARY KEY,
		work_item_id       TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
		user_id            TEXT NOT NULL,
		status             TEXT NOT NULL DEFAULT 'pending'
		                   CHECK(status IN ('pending','in_progress','paused','completed','stopped')),
		total_time_minutes INTEGER NOT NULL DEFAULT 0,
		is_timer_active    INTEGER NOT NULL DEFAULT 0,
		timer_start_at     TEXT,
		assigned_at        TEXT,
		started_at         TEXT,
		completed_at       TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	// One control per live work item.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_controls_work_item ON controls(work_item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_controls_user_active ON controls(user_id, is_timer_active)`,

	`CREATE TABLE IF NOT EXISTS time_entries (
		id               TEXT PRIMARY KEY,
		control_id       TEXT NOT NULL REFERENCES controls(id) ON DELETE CASCADE,
		user_id          TEXT NOT NULL,
		start_time       TEXT NOT NULL,
		end_time         TEXT,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		description      TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_entries_control ON time_entries(control_id)`,

	`CREATE TABLE IF NOT EXISTS manual_time_entries (
		id               TEXT PRIMARY KEY,
		control_id       TEXT NOT NULL REFERENCES controls(id) ON DELETE CASCADE,
		user_id          TEXT NOT NULL,
		entry_date       TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK(duration_minutes > 0),
		description      TEXT NOT NULL,
		created_by       TEXT NOT NULL,
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_manual_time_entries_control ON manual_time_entries(control_id)`,

	`CREATE TABLE IF NOT EXISTS snapshots (
		id                  TEXT PRIMARY KEY,
		work_item_id        TEXT NOT NULL,
		work_item_number    TEXT NOT NULL,
		work_item_kind      TEXT NOT NULL
		                    CHECK(work_item_kind IN ('case','todo')),
		title               TEXT NOT NULL,
		payload             TEXT NOT NULL,
		timer_time_minutes  INTEGER NOT NULL DEFAULT 0,
		manual_time_minutes INTEGER NOT NULL DEFAULT 0,
		total_time_minutes  INTEGER NOT NULL DEFAULT 0,
		archive_reason      TEXT NOT NULL DEFAULT '',
		archived_by         TEXT NOT NULL,
		archived_at         TEXT NOT NULL,
		is_restored         INTEGER NOT NULL DEFAULT 0,
		restored_at         TEXT,
		restored_by         TEXT,
		created_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_kind ON snapshots(work_item_kind)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_archived_at ON snapshots(archived_at)`,
}
