package billing

import (
	"context"
	"errors"

	"github.com/alexanderramin/attend/internal/logging"
	"github.com/alexanderramin/attend/internal/repository"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// RepoPolicySource reads policies from the schedule and break repositories.
type RepoPolicySource struct {
	schedules repository.ScheduleRepo
	breaks    repository.BreakRepo
	logger    zerolog.Logger
}

// NewRepoPolicySource creates a policy source over the registry repositories.
func NewRepoPolicySource(schedules repository.ScheduleRepo, breaks repository.BreakRepo, logger zerolog.Logger) *RepoPolicySource {
	return &RepoPolicySource{
		schedules: schedules,
		breaks:    breaks,
		logger:    logging.Component(logger, "policy"),
	}
}

// Lookup returns the user's policy. A read error is logged and treated like
// a missing record.
func (p *RepoPolicySource) Lookup(ctx context.Context, groupID, userID string) Policy {
	var pol Policy

	sc, err := p.schedules.Get(ctx, groupID, userID)
	switch {
	case err == nil:
		pol.Schedule = sc
	case !errors.Is(err, repository.ErrNotFound):
		p.logger.Warn().Err(err).Str("group", groupID).Str("user", userID).
			Msg("schedule lookup failed, billing whole day")
	}

	br, err := p.breaks.Get(ctx, groupID, userID)
	switch {
	case err == nil:
		pol.Break = br
	case !errors.Is(err, repository.ErrNotFound):
		p.logger.Warn().Err(err).Str("group", groupID).Str("user", userID).
			Msg("break lookup failed, deducting nothing")
	}

	return pol
}

const defaultPolicyCacheSize = 256

// cachedPolicies memoizes lookups for one aggregation run; each (group,user)
// is read at most once while it stays in the cache.
type cachedPolicies struct {
	next  PolicyLookup
	cache *lru.Cache[string, Policy]
}

func newCachedPolicies(next PolicyLookup, size int) *cachedPolicies {
	if size <= 0 {
		size = defaultPolicyCacheSize
	}
	cache, err := lru.New[string, Policy](size)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	return &cachedPolicies{next: next, cache: cache}
}

func (c *cachedPolicies) Lookup(ctx context.Context, groupID, userID string) Policy {
	key := groupID + "\x00" + userID
	if p, ok := c.cache.Get(key); ok {
		return p
	}
	p := c.next.Lookup(ctx, groupID, userID)
	c.cache.Add(key, p)
	return p
}
