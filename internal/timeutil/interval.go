package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MinutesPerDay is the exclusive upper bound for minute-of-day values.
const MinutesPerDay = 24 * 60

// Overlap returns the length of the intersection of [a1,a2) and [b1,b2),
// or zero when they are disjoint. It is symmetric and never negative.
func Overlap(a1, a2, b1, b2 time.Time) time.Duration {
	lo := a1
	if b1.After(lo) {
		lo = b1
	}
	hi := a2
	if b2.Before(hi) {
		hi = b2
	}
	if !hi.After(lo) {
		return 0
	}
	return hi.Sub(lo)
}

// FormatHMS renders d as HH:MM:SS. Hours are not capped at 24.
// Negative durations render as 00:00:00.
func FormatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

var minuteOfDayRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseMinuteOfDay parses "H:MM" or "HH:MM" into minutes after midnight.
// ok is false for malformed input or an hour outside 0-23 / minute outside 0-59.
func ParseMinuteOfDay(s string) (minutes int, ok bool) {
	m := minuteOfDayRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	if h > 23 || mi > 59 {
		return 0, false
	}
	return h*60 + mi, true
}

// MinutesToHHMM is the inverse of ParseMinuteOfDay; 1440 renders as "24:00".
func MinutesToHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
