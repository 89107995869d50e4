package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/attend/internal/db"
	"github.com/alexanderramin/attend/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

const sessionColumns = `id, group_id, user_id, channel_id, started_at, ended_at, source`

func (r *SQLiteSessionRepo) Start(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.GroupID,
		s.UserID,
		nullableString(s.ChannelID),
		toMillis(s.StartedAt),
		nullableTimeToMillis(s.EndedAt),
		string(s.Source),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return s, nil
}

func (r *SQLiteSessionRepo) EndAllOpen(ctx context.Context, groupID, userID string, end time.Time) (int64, error) {
	query := `UPDATE sessions SET ended_at = ?
		WHERE group_id = ? AND user_id = ? AND ended_at IS NULL AND started_at <= ?`
	res, err := r.db.ExecContext(ctx, query, toMillis(end), groupID, userID, toMillis(end))
	if err != nil {
		return 0, fmt.Errorf("closing open sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting closed sessions: %w", err)
	}
	return n, nil
}

func (r *SQLiteSessionRepo) EndByID(ctx context.Context, id string, end time.Time) (bool, error) {
	query := `UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL AND started_at <= ?`
	res, err := r.db.ExecContext(ctx, query, toMillis(end), id, toMillis(end))
	if err != nil {
		return false, fmt.Errorf("closing session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting closed sessions: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteSessionRepo) ListOpen(ctx context.Context, groupID, userID string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE group_id = ? AND user_id = ? AND ended_at IS NULL
		ORDER BY started_at ASC, rowid ASC`
	rows, err := r.db.QueryContext(ctx, query, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing open sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListInRange(ctx context.Context, groupID string, from, to time.Time, userID *string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE group_id = ?
		  AND started_at < ?
		  AND (ended_at IS NULL OR ended_at > ?)
		  AND (? IS NULL OR user_id = ?)
		ORDER BY user_id, started_at, rowid`
	uid := nullableStringPtr(userID)
	rows, err := r.db.QueryContext(ctx, query, groupID, toMillis(to), toMillis(from), uid, uid)
	if err != nil {
		return nil, fmt.Errorf("listing sessions in range: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession scans one session row. The caller maps sql.ErrNoRows.
func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s         domain.Session
		channelID sql.NullString
		startedAt int64
		endedAt   sql.NullInt64
		source    string
	)
	if err := row.Scan(&s.ID, &s.GroupID, &s.UserID, &channelID, &startedAt, &endedAt, &source); err != nil {
		return nil, err
	}
	src, err := ParseSessionSource(source)
	if err != nil {
		return nil, err
	}
	s.ChannelID = channelID.String
	s.StartedAt = fromMillis(startedAt)
	s.EndedAt = nullableMillis(endedAt)
	s.Source = src
	return &s, nil
}

func scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}
