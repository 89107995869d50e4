package billing

import (
	"context"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/timeutil"
)

// Policy is the billing restriction for one user. A nil Schedule bills the
// whole day; a nil Break deducts nothing.
type Policy struct {
	Schedule *domain.Schedule
	Break    *domain.Break
}

// PolicyLookup resolves the policy of (group,user). It never fails: lookup
// problems resolve to an unrestricted policy.
type PolicyLookup interface {
	Lookup(ctx context.Context, groupID, userID string) Policy
}

// Split walks [segStart,segEnd) one local calendar day at a time and returns
// the billable segment of each day that has any billable time left after
// schedule and break clipping. Segments come back in chronological order
// with ChannelID unset.
//
// The break is subtracted as its overlap with the day's portion of the
// interval, independently of the schedule window.
func Split(cal timeutil.Calendar, p Policy, segStart, segEnd time.Time) []domain.Segment {
	var out []domain.Segment
	for cursor := segStart; cursor.Before(segEnd); {
		dayStart := cal.DayStart(cursor)
		dayEnd := cal.NextDay(dayStart)

		s := latest(cursor, dayStart)
		e := earliest(segEnd, dayEnd)

		billable := e.Sub(s)
		if p.Schedule != nil {
			ws := cal.AtMinute(dayStart, p.Schedule.WorkStartMin)
			we := cal.AtMinute(dayStart, p.Schedule.WorkEndMin)
			billable = timeutil.Overlap(s, e, ws, we)
		}
		if billable > 0 && p.Break != nil {
			bs := cal.AtMinute(dayStart, p.Break.BreakStartMin)
			be := cal.AtMinute(dayStart, p.Break.BreakEndMin)
			billable -= timeutil.Overlap(s, e, bs, be)
			if billable < 0 {
				billable = 0
			}
		}

		if billable > 0 {
			out = append(out, domain.Segment{
				Day:      domain.DayKeyOf(dayStart),
				Start:    s,
				End:      e,
				Billable: billable,
			})
		}
		cursor = e
	}
	return out
}

// Splitter binds Split to a calendar and a policy source.
type Splitter struct {
	cal      timeutil.Calendar
	policies PolicyLookup
}

// NewSplitter creates a new Splitter.
func NewSplitter(cal timeutil.Calendar, policies PolicyLookup) *Splitter {
	return &Splitter{cal: cal, policies: policies}
}

// SplitFor splits [start,end) under the policy of (group,user).
func (s *Splitter) SplitFor(ctx context.Context, groupID, userID string, start, end time.Time) []domain.Segment {
	if !start.Before(end) {
		return nil
	}
	return Split(s.cal, s.policies.Lookup(ctx, groupID, userID), start, end)
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
