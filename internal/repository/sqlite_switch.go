package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/attend/internal/db"
	"github.com/alexanderramin/attend/internal/domain"
)

// SQLiteSwitcher implements SessionSwitcher with a UnitOfWork transaction.
type SQLiteSwitcher struct {
	uow db.UnitOfWork
}

// NewSQLiteSwitcher creates a new SQLiteSwitcher.
func NewSQLiteSwitcher(uow db.UnitOfWork) *SQLiteSwitcher {
	return &SQLiteSwitcher{uow: uow}
}

func (s *SQLiteSwitcher) SwitchChannel(ctx context.Context, oldChannel string, next *domain.Session) (bool, error) {
	var closed bool
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := NewSQLiteSessionRepo(tx)

		open, err := txSessions.ListOpen(ctx, next.GroupID, next.UserID)
		if err != nil {
			return err
		}
		if prev := latestOnChannel(open, oldChannel); prev != nil {
			if prev.StartedAt.After(next.StartedAt) {
				return ErrEndBeforeStart
			}
			ok, err := txSessions.EndByID(ctx, prev.ID, next.StartedAt)
			if err != nil {
				return err
			}
			closed = ok
		}

		if err := txSessions.Start(ctx, next); err != nil {
			return fmt.Errorf("opening session on %s: %w", next.ChannelID, err)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("switching channel: %w", err)
	}
	return closed, nil
}

// latestOnChannel picks the last session on channel from a start-ordered list.
func latestOnChannel(open []*domain.Session, channel string) *domain.Session {
	for i := len(open) - 1; i >= 0; i-- {
		if open[i].ChannelID == channel {
			return open[i]
		}
	}
	return nil
}
