package timeutil

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

func TestOverlap(t *testing.T) {
	cases := []struct {
		name           string
		a1, a2, b1, b2 int
		want           time.Duration
	}{
		{"contained", 60, 120, 0, 600, time.Hour},
		{"partial left", 0, 90, 60, 600, 30 * time.Minute},
		{"partial right", 500, 700, 60, 600, 100 * time.Minute},
		{"touching", 0, 60, 60, 120, 0},
		{"disjoint", 0, 30, 60, 120, 0},
		{"identical", 10, 20, 10, 20, 10 * time.Minute},
		{"empty a", 30, 30, 0, 60, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlap(at(tc.a1), at(tc.a2), at(tc.b1), at(tc.b2))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Overlap(at(tc.b1), at(tc.b2), at(tc.a1), at(tc.a2)), "overlap must be symmetric")
		})
	}
}

func TestOverlap_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		a1 := rng.Intn(2000)
		a2 := a1 + rng.Intn(2000)
		b1 := rng.Intn(2000)
		b2 := b1 + rng.Intn(2000)

		got := Overlap(at(a1), at(a2), at(b1), at(b2))
		assert.GreaterOrEqual(t, got, time.Duration(0), "trial %d", trial)
		if a2 <= b1 || b2 <= a1 {
			assert.Zero(t, got, "trial %d: disjoint intervals must not overlap", trial)
		}
		assert.LessOrEqual(t, got, at(a2).Sub(at(a1)), "trial %d", trial)
	}
}

func TestFormatHMS(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatHMS(0))
	assert.Equal(t, "00:00:59", FormatHMS(59*time.Second+999*time.Millisecond))
	assert.Equal(t, "01:02:03", FormatHMS(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "27:00:00", FormatHMS(27*time.Hour), "hours are not capped")
	assert.Equal(t, "123:45:00", FormatHMS(123*time.Hour+45*time.Minute))
	assert.Equal(t, "00:00:00", FormatHMS(-time.Minute))
}

func TestParseMinuteOfDay(t *testing.T) {
	valid := map[string]int{
		"0:00":  0,
		"9:05":  545,
		"09:00": 540,
		"13:30": 810,
		"23:59": 1439,
	}
	for in, want := range valid {
		got, ok := ParseMinuteOfDay(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "24:00", "12:60", "7", "7:5", "123:00", "ab:cd", " 9:00", "-1:00"} {
		_, ok := ParseMinuteOfDay(in)
		assert.False(t, ok, "%q should be rejected", in)
	}
}

func TestMinutesToHHMM(t *testing.T) {
	assert.Equal(t, "00:00", MinutesToHHMM(0))
	assert.Equal(t, "09:05", MinutesToHHMM(545))
	assert.Equal(t, "24:00", MinutesToHHMM(1440))
}
