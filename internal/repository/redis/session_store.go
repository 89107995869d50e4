package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/redis/go-redis/v9"
)

type sessionStore struct {
	client *redis.Client
	keys   keyspace
}

// Start stores a new session and indexes it by group and, while open, by user.
func (s *sessionStore) Start(ctx context.Context, sess *domain.Session) error {
	keys := []string{
		s.keys.session(sess.ID),
		s.keys.groupSessions(sess.GroupID),
		s.keys.open(sess.GroupID, sess.UserID),
		s.keys.seq(),
	}
	args := []interface{}{
		sess.ID,
		sess.GroupID,
		sess.UserID,
		sess.ChannelID,
		millis(sess.StartedAt),
		optionalMillis(sess.EndedAt),
		string(sess.Source),
	}
	if err := startSessionScript.Run(ctx, s.client, keys, args...).Err(); err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *sessionStore) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.HGetAll(ctx, s.keys.session(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return parseSession(data)
}

func (s *sessionStore) EndAllOpen(ctx context.Context, groupID, userID string, end time.Time) (int64, error) {
	n, err := endAllOpenScript.Run(ctx, s.client,
		[]string{s.keys.open(groupID, userID)},
		millis(end), s.keys.sessionPrefix(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("closing open sessions: %w", err)
	}
	return n, nil
}

func (s *sessionStore) EndByID(ctx context.Context, id string, end time.Time) (bool, error) {
	n, err := endByIDScript.Run(ctx, s.client,
		[]string{s.keys.session(id)},
		millis(end), s.keys.openPrefix(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("closing session %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *sessionStore) ListOpen(ctx context.Context, groupID, userID string) ([]*domain.Session, error) {
	ids, err := s.client.ZRange(ctx, s.keys.open(groupID, userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing open sessions: %w", err)
	}
	rows, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].before(rows[j]) })
	return sessionsOf(rows), nil
}

// ListInRange reads every session of the group that started before to and
// filters the ended ones in Go. The group index is scored by start time only.
func (s *sessionStore) ListInRange(ctx context.Context, groupID string, from, to time.Time, userID *string) ([]*domain.Session, error) {
	ids, err := s.client.ZRangeByScore(ctx, s.keys.groupSessions(groupID), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + millis(to),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("listing sessions in range: %w", err)
	}

	all, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]storedSession, 0, len(all))
	for _, row := range all {
		if userID != nil && row.UserID != *userID {
			continue
		}
		if row.EndedAt != nil && !row.EndedAt.After(from) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].before(out[j])
	})
	return sessionsOf(out), nil
}

func (s *sessionStore) SwitchChannel(ctx context.Context, oldChannel string, next *domain.Session) (bool, error) {
	keys := []string{
		s.keys.open(next.GroupID, next.UserID),
		s.keys.groupSessions(next.GroupID),
		s.keys.session(next.ID),
		s.keys.seq(),
	}
	args := []interface{}{
		s.keys.sessionPrefix(),
		oldChannel,
		millis(next.StartedAt),
		next.ID,
		next.GroupID,
		next.UserID,
		next.ChannelID,
		string(next.Source),
	}
	n, err := switchChannelScript.Run(ctx, s.client, keys, args...).Int64()
	if err != nil {
		return false, fmt.Errorf("switching channel: %w", err)
	}
	if n < 0 {
		return false, fmt.Errorf("switching channel: %w", repository.ErrEndBeforeStart)
	}
	return n > 0, nil
}

// load fetches session hashes in one pipeline, keeping the order of ids.
func (s *sessionStore) load(ctx context.Context, ids []string) ([]storedSession, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.keys.session(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}

	rows := make([]storedSession, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil || len(data) == 0 {
			continue
		}
		sess, err := parseSession(data)
		if err != nil {
			return nil, err
		}
		seq, _ := strconv.ParseInt(data["seq"], 10, 64)
		rows = append(rows, storedSession{Session: sess, seq: seq})
	}
	return rows, nil
}

// storedSession pairs a session with its insertion counter.
type storedSession struct {
	*domain.Session
	seq int64
}

// before orders by start time, then insertion.
func (r storedSession) before(o storedSession) bool {
	if !r.StartedAt.Equal(o.StartedAt) {
		return r.StartedAt.Before(o.StartedAt)
	}
	return r.seq < o.seq
}

func sessionsOf(rows []storedSession) []*domain.Session {
	if len(rows) == 0 {
		return nil
	}
	out := make([]*domain.Session, len(rows))
	for i, r := range rows {
		out[i] = r.Session
	}
	return out
}
