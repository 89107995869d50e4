package service

import (
	"context"
	"time"

	"github.com/alexanderramin/attend/internal/billing"
	"github.com/alexanderramin/attend/internal/domain"
)

type PresenceService interface {
	// CheckIn opens a manual session at at, or now when at is zero. Other open
	// sessions stay open.
	CheckIn(ctx context.Context, groupID, userID, channelID string, at time.Time) (*domain.Session, error)
	// CheckOut closes every open session of the user at at, or now when at is
	// zero, and returns how many closed. An at before the start of any open
	// session is rejected with ErrInvalidInput.
	CheckOut(ctx context.Context, groupID, userID string, at time.Time) (int64, error)
	HandleVoice(ctx context.Context, t VoiceTransition) (*VoiceOutcome, error)
	ListOpen(ctx context.Context, groupID, userID string) ([]*domain.Session, error)
}

type ConfigService interface {
	SetSchedule(ctx context.Context, groupID, userID, start, end string) (*domain.Schedule, error)
	SetBreak(ctx context.Context, groupID, userID, start string, durationMin int) (*domain.Break, error)
	GetSchedule(ctx context.Context, groupID, userID string) (*domain.Schedule, error)
	GetBreak(ctx context.Context, groupID, userID string) (*domain.Break, error)
}

type ViewerService interface {
	Grant(ctx context.Context, groupID, userID string) error
	Revoke(ctx context.Context, groupID, userID string) error
	List(ctx context.Context, groupID string) ([]string, error)
	IsViewer(ctx context.Context, groupID, userID string) (bool, error)
}

type ReportService interface {
	Build(ctx context.Context, req ReportRequest) (*Report, error)
}

// Aggregator produces billing rollups; *billing.Aggregator implements it.
type Aggregator interface {
	Aggregate(ctx context.Context, q billing.AggregateQuery) *domain.Rollup
}
