package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/attend/internal/db"
)

// SQLiteViewerRepo implements ViewerRepo using a SQLite database.
type SQLiteViewerRepo struct {
	db db.DBTX
}

// NewSQLiteViewerRepo creates a new SQLiteViewerRepo.
func NewSQLiteViewerRepo(conn db.DBTX) *SQLiteViewerRepo {
	return &SQLiteViewerRepo{db: conn}
}

func (r *SQLiteViewerRepo) Add(ctx context.Context, groupID, userID string) error {
	query := `INSERT OR IGNORE INTO viewers (group_id, user_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("adding viewer: %w", err)
	}
	return nil
}

func (r *SQLiteViewerRepo) Remove(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM viewers WHERE group_id = ? AND user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("removing viewer: %w", err)
	}
	return nil
}

func (r *SQLiteViewerRepo) List(ctx context.Context, groupID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM viewers WHERE group_id = ? ORDER BY user_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing viewers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning viewer row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating viewers: %w", err)
	}
	return ids, nil
}

func (r *SQLiteViewerRepo) IsViewer(ctx context.Context, groupID, userID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM viewers WHERE group_id = ? AND user_id = ?`, groupID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking viewer: %w", err)
	}
	return n > 0, nil
}
