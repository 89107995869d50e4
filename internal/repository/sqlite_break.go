package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/attend/internal/db"
	"github.com/alexanderramin/attend/internal/domain"
)

// SQLiteBreakRepo implements BreakRepo using a SQLite database.
type SQLiteBreakRepo struct {
	db db.DBTX
}

// NewSQLiteBreakRepo creates a new SQLiteBreakRepo.
func NewSQLiteBreakRepo(conn db.DBTX) *SQLiteBreakRepo {
	return &SQLiteBreakRepo{db: conn}
}

func (r *SQLiteBreakRepo) Upsert(ctx context.Context, b *domain.Break) error {
	query := `INSERT INTO breaks (group_id, user_id, break_start_min, break_end_min)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(group_id, user_id) DO UPDATE SET
			break_start_min = excluded.break_start_min,
			break_end_min = excluded.break_end_min`
	_, err := r.db.ExecContext(ctx, query, b.GroupID, b.UserID, b.BreakStartMin, b.BreakEndMin)
	if err != nil {
		return fmt.Errorf("upserting break: %w", err)
	}
	return nil
}

func (r *SQLiteBreakRepo) Get(ctx context.Context, groupID, userID string) (*domain.Break, error) {
	query := `SELECT group_id, user_id, break_start_min, break_end_min
		FROM breaks WHERE group_id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, groupID, userID)

	var b domain.Break
	if err := row.Scan(&b.GroupID, &b.UserID, &b.BreakStartMin, &b.BreakEndMin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("break: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning break: %w", err)
	}
	return &b, nil
}
