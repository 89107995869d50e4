package domain

import (
	"fmt"
	"time"
)

// Session is one recorded presence interval. EndedAt is nil while the
// session is open. Sessions are append-only and are closed at most once.
type Session struct {
	ID        string
	GroupID   string
	UserID    string
	ChannelID string
	StartedAt time.Time
	EndedAt   *time.Time
	Source    SessionSource
}

// IsOpen reports whether the session has not been closed yet.
func (s *Session) IsOpen() bool {
	return s.EndedAt == nil
}

// Close sets the end timestamp. A closed session never reopens.
func (s *Session) Close(at time.Time) error {
	if s.EndedAt != nil {
		return fmt.Errorf("session %s is already closed", s.ID)
	}
	if at.Before(s.StartedAt) {
		return fmt.Errorf("session %s cannot end before it starts", s.ID)
	}
	s.EndedAt = &at
	return nil
}

// ChannelKey returns the channel id, or ManualChannelKey when there is none.
func (s *Session) ChannelKey() string {
	if s.ChannelID == "" {
		return ManualChannelKey
	}
	return s.ChannelID
}

// EndOr returns the end timestamp, or now for an open session.
func (s *Session) EndOr(now time.Time) time.Time {
	if s.EndedAt == nil {
		return now
	}
	return *s.EndedAt
}
