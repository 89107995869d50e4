package service

import (
	"context"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/alexanderramin/attend/internal/timeutil"
)

type configService struct {
	schedules repository.ScheduleRepo
	breaks    repository.BreakRepo
	observer  UseCaseObserver
}

func NewConfigService(schedules repository.ScheduleRepo, breaks repository.BreakRepo, observers ...UseCaseObserver) ConfigService {
	return &configService{
		schedules: schedules,
		breaks:    breaks,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// SetSchedule stores the daily work window. Times are 24h "HH:MM"; the end
// must come after the start on the same day.
func (s *configService) SetSchedule(ctx context.Context, groupID, userID, start, end string) (sc *domain.Schedule, err error) {
	fields := map[string]any{"group": groupID, "user": userID, "start": start, "end": end}
	defer track(ctx, s.observer, "set-schedule", time.Now(), fields, &err)

	if err = requireIDs(groupID, userID); err != nil {
		return nil, err
	}
	startMin, ok := timeutil.ParseMinuteOfDay(start)
	if !ok {
		err = invalidf("start %q: use HH:MM (24h)", start)
		return nil, err
	}
	endMin, ok := timeutil.ParseMinuteOfDay(end)
	if !ok {
		err = invalidf("end %q: use HH:MM (24h)", end)
		return nil, err
	}
	if endMin <= startMin {
		err = invalidf("end %s must be after start %s", end, start)
		return nil, err
	}

	sc = &domain.Schedule{GroupID: groupID, UserID: userID, WorkStartMin: startMin, WorkEndMin: endMin}
	if err = s.schedules.Upsert(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// SetBreak stores the daily break starting at start for durationMin minutes.
// The break may not run past midnight.
func (s *configService) SetBreak(ctx context.Context, groupID, userID, start string, durationMin int) (b *domain.Break, err error) {
	fields := map[string]any{"group": groupID, "user": userID, "start": start, "duration_min": durationMin}
	defer track(ctx, s.observer, "set-break", time.Now(), fields, &err)

	if err = requireIDs(groupID, userID); err != nil {
		return nil, err
	}
	startMin, ok := timeutil.ParseMinuteOfDay(start)
	if !ok {
		err = invalidf("start %q: use HH:MM (24h)", start)
		return nil, err
	}
	if durationMin <= 0 {
		err = invalidf("duration must be positive, got %d", durationMin)
		return nil, err
	}
	if startMin+durationMin > timeutil.MinutesPerDay {
		err = invalidf("break %s + %d min runs past midnight", start, durationMin)
		return nil, err
	}

	b = &domain.Break{GroupID: groupID, UserID: userID, BreakStartMin: startMin, BreakEndMin: startMin + durationMin}
	if err = s.breaks.Upsert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *configService) GetSchedule(ctx context.Context, groupID, userID string) (*domain.Schedule, error) {
	return s.schedules.Get(ctx, groupID, userID)
}

func (s *configService) GetBreak(ctx context.Context, groupID, userID string) (*domain.Break, error) {
	return s.breaks.Get(ctx, groupID, userID)
}
