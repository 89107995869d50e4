package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Calendar fixes the timezone and locale used for day bucketing and for
// rendering dates. It is built once at startup and passed to everything that
// needs local calendar semantics, so a single aggregation run never mixes zones.
type Calendar struct {
	Location *time.Location
	Locale   string
}

// NewCalendar loads the named IANA timezone. An empty name means UTC.
func NewCalendar(timezone, locale string) (Calendar, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return Calendar{}, fmt.Errorf("loading timezone %q: %w", timezone, err)
		}
		loc = l
	}
	return Calendar{Location: loc, Locale: locale}, nil
}

// MustCalendar is NewCalendar for tests and fixed zones; it panics on a bad name.
func MustCalendar(timezone, locale string) Calendar {
	c, err := NewCalendar(timezone, locale)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// In converts t to the calendar's zone.
func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.loc())
}

// DayStart returns local midnight of the day containing t.
func (c Calendar) DayStart(t time.Time) time.Time {
	lt := t.In(c.loc())
	y, m, d := lt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc())
}

// NextDay returns the local midnight following the day that starts at dayStart.
// On DST transition days this is 23h or 25h later, not 24h.
func (c Calendar) NextDay(dayStart time.Time) time.Time {
	lt := dayStart.In(c.loc())
	y, m, d := lt.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, c.loc())
}

// AtMinute returns the instant minuteOfDay minutes after local midnight of
// dayStart. Minute 1440 is the next local midnight.
func (c Calendar) AtMinute(dayStart time.Time, minuteOfDay int) time.Time {
	lt := dayStart.In(c.loc())
	y, m, d := lt.Date()
	return time.Date(y, m, d, 0, minuteOfDay, 0, 0, c.loc())
}

// Date builds local midnight for the given calendar date.
func (c Calendar) Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, c.loc())
}

type layouts struct {
	date string
	time string
}

var localeLayouts = map[string]layouts{
	"es":    {date: "02/01/2006", time: "15:04"},
	"pt":    {date: "02/01/2006", time: "15:04"},
	"fr":    {date: "02/01/2006", time: "15:04"},
	"en-gb": {date: "02/01/2006", time: "15:04"},
	"en-us": {date: "01/02/2006", time: "15:04"},
	"en":    {date: "01/02/2006", time: "15:04"},
	"de":    {date: "02.01.2006", time: "15:04"},
}

func (c Calendar) layouts() layouts {
	tag := strings.ToLower(c.Locale)
	if l, ok := localeLayouts[tag]; ok {
		return l
	}
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		if l, ok := localeLayouts[tag[:i]]; ok {
			return l
		}
	}
	return layouts{date: "2006-01-02", time: "15:04"}
}

// FormatDate renders the local calendar date of t.
func (c Calendar) FormatDate(t time.Time) string {
	return t.In(c.loc()).Format(c.layouts().date)
}

// FormatTime renders the local wall-clock time of t (24h, minutes precision).
func (c Calendar) FormatTime(t time.Time) string {
	return t.In(c.loc()).Format(c.layouts().time)
}

// FormatDateTime renders date and time with seconds.
func (c Calendar) FormatDateTime(t time.Time) string {
	l := c.layouts()
	return t.In(c.loc()).Format(l.date + " " + l.time + ":05")
}
