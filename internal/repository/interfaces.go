package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownSource is returned when a stored session carries a source outside
// domain.ValidSessionSources.
var ErrUnknownSource = errors.New("unknown session source")

// ErrEndBeforeStart is returned when a close would end a session before it
// started. Nothing is written.
var ErrEndBeforeStart = errors.New("session would end before it starts")

// SessionRepo is the append-mostly log of presence intervals.
type SessionRepo interface {
	// Start appends a new open session.
	Start(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// EndAllOpen closes every open session of (group,user) that started at or
	// before end and returns how many were closed. Zero is a normal outcome.
	EndAllOpen(ctx context.Context, groupID, userID string, end time.Time) (int64, error)
	// EndByID closes one session if it is still open and started at or before end.
	EndByID(ctx context.Context, id string, end time.Time) (bool, error)
	// ListOpen returns open sessions of (group,user) ordered by start time.
	ListOpen(ctx context.Context, groupID, userID string) ([]*domain.Session, error)
	// ListInRange returns sessions overlapping [from,to): started before to and
	// either open or ended after from. A nil userID lists every user. Rows are
	// ordered by user then start time.
	ListInRange(ctx context.Context, groupID string, from, to time.Time, userID *string) ([]*domain.Session, error)
}

type ScheduleRepo interface {
	Upsert(ctx context.Context, s *domain.Schedule) error
	Get(ctx context.Context, groupID, userID string) (*domain.Schedule, error)
}

type BreakRepo interface {
	Upsert(ctx context.Context, b *domain.Break) error
	Get(ctx context.Context, groupID, userID string) (*domain.Break, error)
}

type ViewerRepo interface {
	Add(ctx context.Context, groupID, userID string) error
	Remove(ctx context.Context, groupID, userID string) error
	List(ctx context.Context, groupID string) ([]string, error)
	IsViewer(ctx context.Context, groupID, userID string) (bool, error)
}
