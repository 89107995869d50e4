package domain

import (
	"sort"
	"time"
)

// DayKey identifies a local calendar day by its start instant in unix milliseconds.
type DayKey int64

// DayKeyOf returns the key for a day-start instant.
func DayKeyOf(dayStart time.Time) DayKey {
	return DayKey(dayStart.UnixMilli())
}

// Time returns the day-start instant.
func (k DayKey) Time() time.Time {
	return time.UnixMilli(int64(k))
}

// DayChannel keys the per-day-per-channel totals.
type DayChannel struct {
	Day     DayKey
	Channel string
}

// Segment is the billable portion of a session inside one calendar day,
// after schedule and break clipping. Start and End bound the portion of the
// session inside the day; Billable is at most End-Start.
type Segment struct {
	Day       DayKey
	ChannelID string
	Start     time.Time
	End       time.Time
	Billable  time.Duration
}

// UserAggregate is the billing rollup of one user for one report query.
// Totals are already reduced by schedule and break.
type UserAggregate struct {
	UserID        string
	Total         time.Duration
	PerChannel    *Tally[string]
	PerDay        *Tally[DayKey]
	PerDayChannel *Tally[DayChannel]
	Intervals     []Segment
}

// NewUserAggregate returns an empty aggregate for userID.
func NewUserAggregate(userID string) *UserAggregate {
	return &UserAggregate{
		UserID:        userID,
		PerChannel:    NewTally[string](),
		PerDay:        NewTally[DayKey](),
		PerDayChannel: NewTally[DayChannel](),
	}
}

// Add folds one billable segment into every dimension.
func (a *UserAggregate) Add(seg Segment) {
	a.Total += seg.Billable
	a.PerChannel.Add(seg.ChannelID, seg.Billable)
	a.PerDay.Add(seg.Day, seg.Billable)
	a.PerDayChannel.Add(DayChannel{Day: seg.Day, Channel: seg.ChannelID}, seg.Billable)
	a.Intervals = append(a.Intervals, seg)
}

// Days returns the days with billable time in chronological order.
func (a *UserAggregate) Days() []DayKey {
	return a.PerDay.Sorted(func(x, y DayKey) bool { return x < y })
}

// IntervalsOn returns the segments that fall on day, in insertion order.
func (a *UserAggregate) IntervalsOn(day DayKey) []Segment {
	var out []Segment
	for _, s := range a.Intervals {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out
}

// Rollup maps user ids to aggregates, keeping first-appearance order.
type Rollup struct {
	order  []string
	byUser map[string]*UserAggregate
}

// NewRollup returns an empty Rollup.
func NewRollup() *Rollup {
	return &Rollup{byUser: make(map[string]*UserAggregate)}
}

// Ensure returns the aggregate for userID, creating it on first use.
func (r *Rollup) Ensure(userID string) *UserAggregate {
	if a, ok := r.byUser[userID]; ok {
		return a
	}
	a := NewUserAggregate(userID)
	r.byUser[userID] = a
	r.order = append(r.order, userID)
	return a
}

// Get returns the aggregate for userID and whether it exists.
func (r *Rollup) Get(userID string) (*UserAggregate, bool) {
	a, ok := r.byUser[userID]
	return a, ok
}

// Len returns the number of users with billable time.
func (r *Rollup) Len() int {
	return len(r.order)
}

// Users returns aggregates in first-appearance order.
func (r *Rollup) Users() []*UserAggregate {
	out := make([]*UserAggregate, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byUser[id])
	}
	return out
}

// SortedUserIDs returns the user ids in lexical order.
func (r *Rollup) SortedUserIDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}
