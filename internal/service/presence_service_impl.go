package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/metrics"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/alexanderramin/attend/internal/timeutil"
	"github.com/google/uuid"
)

// VoiceTransition is one voice-state change: the channel the user was in
// before (empty when none) and the channel after (empty when they left).
type VoiceTransition struct {
	Group      string
	User       string
	OldChannel string
	NewChannel string
	// At defaults to the service clock when zero.
	At time.Time
}

// VoiceAction classifies a transition.
type VoiceAction string

const (
	VoiceJoin    VoiceAction = "join"
	VoiceSwitch  VoiceAction = "switch"
	VoiceLeave   VoiceAction = "leave"
	VoiceIgnored VoiceAction = "ignored"
)

// Classify maps the transition onto join, switch, leave or ignored.
func (t VoiceTransition) Classify() VoiceAction {
	switch {
	case t.OldChannel == "" && t.NewChannel != "":
		return VoiceJoin
	case t.OldChannel != "" && t.NewChannel != "" && t.OldChannel != t.NewChannel:
		return VoiceSwitch
	case t.OldChannel != "" && t.NewChannel == "":
		return VoiceLeave
	}
	return VoiceIgnored
}

// VoiceOutcome reports what a transition changed.
type VoiceOutcome struct {
	Action VoiceAction
	Opened *domain.Session
	Closed int64
}

type presenceService struct {
	sessions repository.SessionRepo
	switcher repository.SessionSwitcher
	clock    timeutil.Clock
	observer UseCaseObserver
}

func NewPresenceService(
	sessions repository.SessionRepo,
	switcher repository.SessionSwitcher,
	clock timeutil.Clock,
	observers ...UseCaseObserver,
) PresenceService {
	return &presenceService{
		sessions: sessions,
		switcher: switcher,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *presenceService) newSession(groupID, userID, channelID string, at time.Time, src domain.SessionSource) *domain.Session {
	return &domain.Session{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		UserID:    userID,
		ChannelID: channelID,
		StartedAt: at,
		Source:    src,
	}
}

// at returns t, or the service clock when t is zero.
func (s *presenceService) at(t time.Time) time.Time {
	if t.IsZero() {
		return s.clock.Now()
	}
	return t
}

// ensureClosable closes a copy of each session at at and reports the first
// refusal as invalid input. The stored sessions are untouched.
func ensureClosable(sessions []*domain.Session, at time.Time) error {
	for _, open := range sessions {
		trial := *open
		if err := trial.Close(at); err != nil {
			return invalidf("%v (at %s, started %s)", err,
				at.Format(time.RFC3339), open.StartedAt.Format(time.RFC3339))
		}
	}
	return nil
}

// latestOnChannel mirrors the switcher's pick from a start-ordered list.
func latestOnChannel(open []*domain.Session, channel string) *domain.Session {
	for i := len(open) - 1; i >= 0; i-- {
		if open[i].ChannelID == channel {
			return open[i]
		}
	}
	return nil
}

func (s *presenceService) CheckIn(ctx context.Context, groupID, userID, channelID string, at time.Time) (sess *domain.Session, err error) {
	fields := map[string]any{"group": groupID, "user": userID}
	defer track(ctx, s.observer, "checkin", time.Now(), fields, &err)

	if err = requireIDs(groupID, userID); err != nil {
		return nil, err
	}

	sess = s.newSession(groupID, userID, channelID, s.at(at), domain.SourceManual)
	if err = s.sessions.Start(ctx, sess); err != nil {
		return nil, err
	}
	metrics.SessionsOpened.WithLabelValues(string(domain.SourceManual)).Inc()
	fields["session"] = sess.ID
	return sess, nil
}

func (s *presenceService) CheckOut(ctx context.Context, groupID, userID string, at time.Time) (n int64, err error) {
	fields := map[string]any{"group": groupID, "user": userID}
	defer track(ctx, s.observer, "checkout", time.Now(), fields, &err)

	if err = requireIDs(groupID, userID); err != nil {
		return 0, err
	}

	end := s.at(at)
	if err = s.ensureAllClosable(ctx, groupID, userID, end); err != nil {
		return 0, err
	}
	n, err = s.sessions.EndAllOpen(ctx, groupID, userID, end)
	if err != nil {
		return 0, err
	}
	metrics.SessionsClosed.WithLabelValues(metrics.ReasonCheckout).Add(float64(n))
	fields["closed"] = n
	return n, nil
}

func (s *presenceService) HandleVoice(ctx context.Context, t VoiceTransition) (out *VoiceOutcome, err error) {
	action := t.Classify()
	fields := map[string]any{"group": t.Group, "user": t.User, "action": string(action)}
	defer track(ctx, s.observer, "voice", time.Now(), fields, &err)

	if err = requireIDs(t.Group, t.User); err != nil {
		return nil, err
	}

	at := s.at(t.At)
	out = &VoiceOutcome{Action: action}

	switch action {
	case VoiceJoin:
		out.Opened = s.newSession(t.Group, t.User, t.NewChannel, at, domain.SourceAuto)
		if err = s.sessions.Start(ctx, out.Opened); err != nil {
			return nil, err
		}
		metrics.SessionsOpened.WithLabelValues(string(domain.SourceAuto)).Inc()

	case VoiceSwitch:
		open, listErr := s.sessions.ListOpen(ctx, t.Group, t.User)
		if listErr != nil {
			err = listErr
			return nil, err
		}
		if prev := latestOnChannel(open, t.OldChannel); prev != nil {
			if err = ensureClosable([]*domain.Session{prev}, at); err != nil {
				return nil, err
			}
		}
		out.Opened = s.newSession(t.Group, t.User, t.NewChannel, at, domain.SourceAuto)
		closed, swErr := s.switcher.SwitchChannel(ctx, t.OldChannel, out.Opened)
		if errors.Is(swErr, repository.ErrEndBeforeStart) {
			err = invalidf("%s is before the open session on %s started", at.Format(time.RFC3339), t.OldChannel)
			return nil, err
		}
		if swErr != nil {
			err = swErr
			return nil, err
		}
		if closed {
			out.Closed = 1
			metrics.SessionsClosed.WithLabelValues(metrics.ReasonSwitch).Inc()
		}
		metrics.SessionsOpened.WithLabelValues(string(domain.SourceAuto)).Inc()

	case VoiceLeave:
		if err = s.ensureAllClosable(ctx, t.Group, t.User, at); err != nil {
			return nil, err
		}
		out.Closed, err = s.sessions.EndAllOpen(ctx, t.Group, t.User, at)
		if err != nil {
			return nil, err
		}
		metrics.SessionsClosed.WithLabelValues(metrics.ReasonLeave).Add(float64(out.Closed))
	}

	fields["closed"] = out.Closed
	return out, nil
}

func (s *presenceService) ensureAllClosable(ctx context.Context, groupID, userID string, at time.Time) error {
	open, err := s.sessions.ListOpen(ctx, groupID, userID)
	if err != nil {
		return err
	}
	return ensureClosable(open, at)
}

func (s *presenceService) ListOpen(ctx context.Context, groupID, userID string) ([]*domain.Session, error) {
	if err := requireIDs(groupID, userID); err != nil {
		return nil, err
	}
	return s.sessions.ListOpen(ctx, groupID, userID)
}
