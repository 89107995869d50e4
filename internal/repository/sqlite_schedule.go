package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/attend/internal/db"
	"github.com/alexanderramin/attend/internal/domain"
)

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

func (r *SQLiteScheduleRepo) Upsert(ctx context.Context, s *domain.Schedule) error {
	query := `INSERT INTO schedules (group_id, user_id, work_start_min, work_end_min)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(group_id, user_id) DO UPDATE SET
			work_start_min = excluded.work_start_min,
			work_end_min = excluded.work_end_min`
	_, err := r.db.ExecContext(ctx, query, s.GroupID, s.UserID, s.WorkStartMin, s.WorkEndMin)
	if err != nil {
		return fmt.Errorf("upserting schedule: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) Get(ctx context.Context, groupID, userID string) (*domain.Schedule, error) {
	query := `SELECT group_id, user_id, work_start_min, work_end_min
		FROM schedules WHERE group_id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, groupID, userID)

	var s domain.Schedule
	if err := row.Scan(&s.GroupID, &s.UserID, &s.WorkStartMin, &s.WorkEndMin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}
	return &s, nil
}
