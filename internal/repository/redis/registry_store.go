package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/redis/go-redis/v9"
)

type scheduleStore struct {
	client *redis.Client
	keys   keyspace
}

func (s *scheduleStore) Upsert(ctx context.Context, sc *domain.Schedule) error {
	err := s.client.HSet(ctx, s.keys.schedule(sc.GroupID, sc.UserID),
		"work_start_min", sc.WorkStartMin,
		"work_end_min", sc.WorkEndMin,
	).Err()
	if err != nil {
		return fmt.Errorf("upserting schedule: %w", err)
	}
	return nil
}

func (s *scheduleStore) Get(ctx context.Context, groupID, userID string) (*domain.Schedule, error) {
	data, err := s.client.HGetAll(ctx, s.keys.schedule(groupID, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("schedule: %w", repository.ErrNotFound)
	}
	start, end, err := parseMinutes(data, "work_start_min", "work_end_min")
	if err != nil {
		return nil, err
	}
	return &domain.Schedule{GroupID: groupID, UserID: userID, WorkStartMin: start, WorkEndMin: end}, nil
}

type breakStore struct {
	client *redis.Client
	keys   keyspace
}

func (s *breakStore) Upsert(ctx context.Context, b *domain.Break) error {
	err := s.client.HSet(ctx, s.keys.brk(b.GroupID, b.UserID),
		"break_start_min", b.BreakStartMin,
		"break_end_min", b.BreakEndMin,
	).Err()
	if err != nil {
		return fmt.Errorf("upserting break: %w", err)
	}
	return nil
}

func (s *breakStore) Get(ctx context.Context, groupID, userID string) (*domain.Break, error) {
	data, err := s.client.HGetAll(ctx, s.keys.brk(groupID, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading break: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("break: %w", repository.ErrNotFound)
	}
	start, end, err := parseMinutes(data, "break_start_min", "break_end_min")
	if err != nil {
		return nil, err
	}
	return &domain.Break{GroupID: groupID, UserID: userID, BreakStartMin: start, BreakEndMin: end}, nil
}

type viewerStore struct {
	client *redis.Client
	keys   keyspace
}

func (s *viewerStore) Add(ctx context.Context, groupID, userID string) error {
	if err := s.client.SAdd(ctx, s.keys.viewers(groupID), userID).Err(); err != nil {
		return fmt.Errorf("adding viewer: %w", err)
	}
	return nil
}

func (s *viewerStore) Remove(ctx context.Context, groupID, userID string) error {
	if err := s.client.SRem(ctx, s.keys.viewers(groupID), userID).Err(); err != nil {
		return fmt.Errorf("removing viewer: %w", err)
	}
	return nil
}

func (s *viewerStore) List(ctx context.Context, groupID string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.keys.viewers(groupID)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing viewers: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *viewerStore) IsViewer(ctx context.Context, groupID, userID string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.keys.viewers(groupID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("checking viewer: %w", err)
	}
	return ok, nil
}
