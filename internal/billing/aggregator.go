package billing

import (
	"context"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/logging"
	"github.com/alexanderramin/attend/internal/metrics"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/alexanderramin/attend/internal/timeutil"
	"github.com/rs/zerolog"
)

// AggregateQuery selects the sessions of a group overlapping [From,To),
// optionally for one user only.
type AggregateQuery struct {
	Group  string
	From   time.Time
	To     time.Time
	UserID *string
}

// Aggregator folds sessions into per-user billing rollups.
type Aggregator struct {
	sessions  repository.SessionRepo
	policies  PolicyLookup
	cal       timeutil.Calendar
	clock     timeutil.Clock
	logger    zerolog.Logger
	cacheSize int
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithPolicyCacheSize bounds the per-run policy cache.
func WithPolicyCacheSize(n int) AggregatorOption {
	return func(a *Aggregator) { a.cacheSize = n }
}

// NewAggregator creates a new Aggregator.
func NewAggregator(
	sessions repository.SessionRepo,
	policies PolicyLookup,
	cal timeutil.Calendar,
	clock timeutil.Clock,
	logger zerolog.Logger,
	opts ...AggregatorOption,
) *Aggregator {
	a := &Aggregator{
		sessions:  sessions,
		policies:  policies,
		cal:       cal,
		clock:     clock,
		logger:    logging.Component(logger, "aggregator"),
		cacheSize: defaultPolicyCacheSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate computes the rollup for q. It never fails: when the session
// query errors the run continues with no rows and the result is empty.
// Users, channels and days appear in the order they are first seen; callers
// sort for presentation.
func (a *Aggregator) Aggregate(ctx context.Context, q AggregateQuery) *domain.Rollup {
	started := time.Now()
	rollup := domain.NewRollup()

	rows, err := a.sessions.ListInRange(ctx, q.Group, q.From, q.To, q.UserID)
	if err != nil {
		a.logger.Error().Err(err).
			Str("group", q.Group).
			Time("from", q.From).
			Time("to", q.To).
			Msg("session query failed, reporting no data")
		metrics.AggregationStoreErrors.Inc()
		rows = nil
	}

	now := a.clock.Now()
	splitter := NewSplitter(a.cal, newCachedPolicies(a.policies, a.cacheSize))

	var billed time.Duration
	for _, s := range rows {
		segStart := latest(s.StartedAt, q.From)
		segEnd := earliest(s.EndOr(now), q.To)
		if !segEnd.After(segStart) {
			continue
		}

		segments := splitter.SplitFor(ctx, s.GroupID, s.UserID, segStart, segEnd)
		if len(segments) == 0 {
			continue
		}

		agg := rollup.Ensure(s.UserID)
		channel := s.ChannelKey()
		for _, seg := range segments {
			seg.ChannelID = channel
			agg.Add(seg)
			billed += seg.Billable
		}
	}

	metrics.BillableSeconds.Add(billed.Seconds())
	metrics.ReportDuration.Observe(time.Since(started).Seconds())

	a.logger.Debug().
		Str("group", q.Group).
		Int("sessions", len(rows)).
		Int("users", rollup.Len()).
		Dur("billed", billed).
		Msg("aggregation complete")

	return rollup
}
