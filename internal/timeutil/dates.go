package timeutil

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRange is returned when a report range does not end after it starts.
var ErrInvalidRange = errors.New("invalid range: end must be after start")

var (
	relativeRe = regexp.MustCompile(`(?i)^-(\d+)([dhm])$`)
	dmyRe      = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
)

var absoluteLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateOrRelative accepts "-7d", "-12h", "-30m" (relative to now),
// "DD/MM/YYYY" or "DD-MM-YYYY" (local midnight; the following midnight when
// asEnd is set so the whole day is included) or an absolute timestamp.
// Anything else, including an empty string, yields fallback.
func ParseDateOrRelative(cal Calendar, input string, asEnd bool, now, fallback time.Time) time.Time {
	input = strings.TrimSpace(input)
	if input == "" {
		return fallback
	}

	if m := relativeRe.FindStringSubmatch(input); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return fallback
		}
		switch strings.ToLower(m[2]) {
		case "d":
			return now.Add(-time.Duration(n) * 24 * time.Hour)
		case "h":
			return now.Add(-time.Duration(n) * time.Hour)
		default:
			return now.Add(-time.Duration(n) * time.Minute)
		}
	}

	if m := dmyRe.FindStringSubmatch(input); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if mo < 1 || mo > 12 || d < 1 || d > 31 {
			return fallback
		}
		day := cal.Date(y, time.Month(mo), d)
		if asEnd {
			return cal.NextDay(day)
		}
		return day
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, input, cal.loc()); err == nil {
			return t
		}
	}
	return fallback
}

// Range presets accepted by ResolveRange.
const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
	PresetWeek      = "week"
)

// ResolveRange turns user supplied bounds into a concrete [from,to) range.
// Explicit bounds take precedence; a preset only applies when neither bound
// parses. Missing bounds default to the last 24 hours ending now.
func ResolveRange(cal Calendar, now time.Time, preset, fromInput, toInput string) (from, to time.Time, err error) {
	from = ParseDateOrRelative(cal, fromInput, false, now, time.Time{})
	to = ParseDateOrRelative(cal, toInput, true, now, time.Time{})

	if from.IsZero() && to.IsZero() {
		today := cal.DayStart(now)
		switch strings.ToLower(preset) {
		case PresetToday:
			from, to = today, cal.NextDay(today)
		case PresetYesterday:
			from, to = cal.DayStart(today.Add(-time.Hour)), today
		case PresetWeek:
			from, to = now.Add(-7*24*time.Hour), now
		}
	}
	if from.IsZero() {
		from = now.Add(-24 * time.Hour)
	}
	if to.IsZero() {
		to = now
	}
	if !to.After(from) {
		return from, to, ErrInvalidRange
	}
	return from, to, nil
}

// IsSingleDay reports whether [from,to) is exactly one local calendar day.
func IsSingleDay(cal Calendar, from, to time.Time) bool {
	start := cal.DayStart(from)
	return start.Equal(from) && cal.NextDay(start).Equal(to)
}
