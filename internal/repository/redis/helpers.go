package redis

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/repository"
)

func millis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func optionalMillis(t *time.Time) string {
	if t == nil {
		return ""
	}
	return millis(*t)
}

// parseSession converts a Redis hash to a Session.
func parseSession(data map[string]string) (*domain.Session, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("session: %w", repository.ErrNotFound)
	}

	startedAt, err := strconv.ParseInt(data["started_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}

	src, err := repository.ParseSessionSource(data["source"])
	if err != nil {
		return nil, err
	}

	s := &domain.Session{
		ID:        data["id"],
		GroupID:   data["group_id"],
		UserID:    data["user_id"],
		ChannelID: data["channel_id"],
		StartedAt: time.UnixMilli(startedAt),
		Source:    src,
	}

	if v := data["ended_at"]; v != "" {
		endedAt, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ended_at: %w", err)
		}
		t := time.UnixMilli(endedAt)
		s.EndedAt = &t
	}
	return s, nil
}

// parseMinutes reads two minute-of-day fields from a hash.
func parseMinutes(data map[string]string, startField, endField string) (int, int, error) {
	start, err := strconv.Atoi(data[startField])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse %s: %w", startField, err)
	}
	end, err := strconv.Atoi(data[endField])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse %s: %w", endField, err)
	}
	return start, end, nil
}
