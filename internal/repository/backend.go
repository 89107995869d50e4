package repository

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/attend/internal/db"
	"github.com/alexanderramin/attend/internal/domain"
)

// SessionSwitcher moves a user from one channel to another as one atomic
// step: the most recently started open session on oldChannel is closed at
// next.StartedAt (when there is one) and next is opened.
type SessionSwitcher interface {
	SwitchChannel(ctx context.Context, oldChannel string, next *domain.Session) (closed bool, err error)
}

// Backend bundles the repositories of one storage engine.
type Backend struct {
	Sessions  SessionRepo
	Switcher  SessionSwitcher
	Schedules ScheduleRepo
	Breaks    BreakRepo
	Viewers   ViewerRepo
	Close     func() error
}

// NewSQLiteBackend wires the SQLite repositories over conn.
func NewSQLiteBackend(conn *sql.DB) Backend {
	return Backend{
		Sessions:  NewSQLiteSessionRepo(conn),
		Switcher:  NewSQLiteSwitcher(db.NewSQLiteUnitOfWork(conn)),
		Schedules: NewSQLiteScheduleRepo(conn),
		Breaks:    NewSQLiteBreakRepo(conn),
		Viewers:   NewSQLiteViewerRepo(conn),
		Close:     conn.Close,
	}
}
