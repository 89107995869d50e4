package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/attend/internal/timeutil"
	"github.com/spf13/pflag"
)

// clockValue is a pflag.Value holding a wall-clock time of day.
type clockValue struct {
	minutes int
	set     bool
}

var _ pflag.Value = (*clockValue)(nil)

func (v *clockValue) String() string {
	if !v.set {
		return ""
	}
	return timeutil.MinutesToHHMM(v.minutes)
}

func (v *clockValue) Set(s string) error {
	m, ok := timeutil.ParseMinuteOfDay(s)
	if !ok {
		return fmt.Errorf("invalid time %q: use HH:MM (24h)", s)
	}
	v.minutes, v.set = m, true
	return nil
}

func (v *clockValue) Type() string { return "HH:MM" }

// instantValue is a pflag.Value holding an RFC3339 instant. Zero when unset.
type instantValue struct {
	t time.Time
}

var _ pflag.Value = (*instantValue)(nil)

func (v *instantValue) String() string {
	if v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.RFC3339)
}

func (v *instantValue) Set(s string) error {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid time %q: expected RFC3339", s)
	}
	v.t = t
	return nil
}

func (v *instantValue) Type() string { return "RFC3339" }
