package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/attend/internal/billing"
	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/logging"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/alexanderramin/attend/internal/timeutil"
	"github.com/rs/zerolog"
)

// ReportRequest describes a billing report. From and To accept everything
// timeutil.ParseDateOrRelative does; Preset is used only when neither parses.
type ReportRequest struct {
	Group  string
	UserID *string
	// Caller, when set, is checked against the viewer list: a caller who is
	// not a viewer only ever sees their own time.
	Caller *string
	Preset string
	From   string
	To     string
}

// Report is an aggregated billing period ready for rendering.
type Report struct {
	Group     string
	From      time.Time
	To        time.Time
	SingleDay bool
	Rollup    *domain.Rollup
	Schedules map[string]*domain.Schedule
	Breaks    map[string]*domain.Break
	// Restricted is set when the caller is not a viewer. Restricted reports
	// are scoped to the caller and are not exported.
	Restricted bool
}

// ScheduleOf returns the user's schedule, or nil.
func (r *Report) ScheduleOf(userID string) *domain.Schedule {
	return r.Schedules[userID]
}

// BreakOf returns the user's break, or nil.
func (r *Report) BreakOf(userID string) *domain.Break {
	return r.Breaks[userID]
}

type reportService struct {
	aggregator Aggregator
	schedules  repository.ScheduleRepo
	breaks     repository.BreakRepo
	viewers    repository.ViewerRepo
	cal        timeutil.Calendar
	clock      timeutil.Clock
	logger     zerolog.Logger
	observer   UseCaseObserver
}

func NewReportService(
	aggregator Aggregator,
	schedules repository.ScheduleRepo,
	breaks repository.BreakRepo,
	viewers repository.ViewerRepo,
	cal timeutil.Calendar,
	clock timeutil.Clock,
	logger zerolog.Logger,
	observers ...UseCaseObserver,
) ReportService {
	return &reportService{
		aggregator: aggregator,
		schedules:  schedules,
		breaks:     breaks,
		viewers:    viewers,
		cal:        cal,
		clock:      clock,
		logger:     logging.Component(logger, "report"),
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) Build(ctx context.Context, req ReportRequest) (rep *Report, err error) {
	fields := map[string]any{"group": req.Group}
	defer track(ctx, s.observer, "report", time.Now(), fields, &err)

	if req.Group == "" {
		err = invalidf("group is required")
		return nil, err
	}

	from, to, err := timeutil.ResolveRange(s.cal, s.clock.Now(), req.Preset, req.From, req.To)
	if err != nil {
		return nil, err
	}

	rep = &Report{
		Group:     req.Group,
		From:      from,
		To:        to,
		SingleDay: timeutil.IsSingleDay(s.cal, from, to),
		Schedules: make(map[string]*domain.Schedule),
		Breaks:    make(map[string]*domain.Break),
	}

	userID := req.UserID
	if req.Caller != nil && !s.isViewer(ctx, req.Group, *req.Caller) {
		rep.Restricted = true
		userID = req.Caller
	}
	if userID != nil {
		fields["user"] = *userID
	}

	rep.Rollup = s.aggregator.Aggregate(ctx, billing.AggregateQuery{
		Group:  req.Group,
		From:   from,
		To:     to,
		UserID: userID,
	})

	for _, uid := range rep.Rollup.SortedUserIDs() {
		if sc, ok := s.lookupSchedule(ctx, req.Group, uid); ok {
			rep.Schedules[uid] = sc
		}
		if br, ok := s.lookupBreak(ctx, req.Group, uid); ok {
			rep.Breaks[uid] = br
		}
	}

	fields["users"] = rep.Rollup.Len()
	return rep, nil
}

// isViewer treats a failed lookup as "not a viewer".
func (s *reportService) isViewer(ctx context.Context, groupID, userID string) bool {
	ok, err := s.viewers.IsViewer(ctx, groupID, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("viewer lookup failed")
		return false
	}
	return ok
}

func (s *reportService) lookupSchedule(ctx context.Context, groupID, userID string) (*domain.Schedule, bool) {
	sc, err := s.schedules.Get(ctx, groupID, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Str("user", userID).Msg("schedule lookup failed")
		}
		return nil, false
	}
	return sc, true
}

func (s *reportService) lookupBreak(ctx context.Context, groupID, userID string) (*domain.Break, bool) {
	br, err := s.breaks.Get(ctx, groupID, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Str("user", userID).Msg("break lookup failed")
		}
		return nil, false
	}
	return br, true
}
