package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent, so
// Migrate is safe to run on every start.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Timestamps are stored as unix milliseconds.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		group_id    TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		channel_id  TEXT,
		started_at  INTEGER NOT NULL,
		ended_at    INTEGER,
		source      TEXT NOT NULL CHECK(source IN ('auto','manual'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, group_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_group_range ON sessions(group_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_open ON sessions(group_id, user_id) WHERE ended_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS schedules (
		group_id       TEXT NOT NULL,
		user_id        TEXT NOT NULL,
		work_start_min INTEGER NOT NULL,
		work_end_min   INTEGER NOT NULL,
		PRIMARY KEY (group_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS breaks (
		group_id        TEXT NOT NULL,
		user_id         TEXT NOT NULL,
		break_start_min INTEGER NOT NULL,
		break_end_min   INTEGER NOT NULL,
		PRIMARY KEY (group_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS viewers (
		group_id TEXT NOT NULL,
		user_id  TEXT NOT NULL,
		PRIMARY KEY (group_id, user_id)
	)`,
}
