package timeutil

import "time"

// Clock supplies the current time. Open sessions are billed up to Now and
// relative date expressions are anchored on it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
