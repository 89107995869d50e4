package testutil

import (
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/google/uuid"
)

// Defaults used by fixtures when no option overrides them.
const (
	TestGroup = "guild-1"
	TestUser  = "user-1"
)

// Session options
type SessionOption func(*domain.Session)

func WithGroup(id string) SessionOption {
	return func(s *domain.Session) {
		s.GroupID = id
	}
}

func WithUser(id string) SessionOption {
	return func(s *domain.Session) {
		s.UserID = id
	}
}

func WithChannel(id string) SessionOption {
	return func(s *domain.Session) {
		s.ChannelID = id
	}
}

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.StartedAt = t
	}
}

func WithEndedAt(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.EndedAt = &t
	}
}

func WithSource(src domain.SessionSource) SessionOption {
	return func(s *domain.Session) {
		s.Source = src
	}
}

// NewTestSession returns an open manual session for TestGroup/TestUser that
// started an hour ago, adjusted by opts.
func NewTestSession(opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ID:        uuid.New().String(),
		GroupID:   TestGroup,
		UserID:    TestUser,
		StartedAt: time.Now().Add(-time.Hour),
		Source:    domain.SourceManual,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestClosedSession returns a session spanning [start,end).
func NewTestClosedSession(start, end time.Time, opts ...SessionOption) *domain.Session {
	all := append([]SessionOption{WithStartedAt(start), WithEndedAt(end)}, opts...)
	return NewTestSession(all...)
}

// NewTestSchedule returns a schedule for TestGroup/TestUser.
func NewTestSchedule(startMin, endMin int) *domain.Schedule {
	return &domain.Schedule{GroupID: TestGroup, UserID: TestUser, WorkStartMin: startMin, WorkEndMin: endMin}
}

// NewTestBreak returns a break for TestGroup/TestUser.
func NewTestBreak(startMin, durationMin int) *domain.Break {
	return &domain.Break{GroupID: TestGroup, UserID: TestUser, BreakStartMin: startMin, BreakEndMin: startMin + durationMin}
}
