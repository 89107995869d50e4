package timeutil

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateOrRelative(t *testing.T) {
	cal := MustCalendar("America/Lima", "es-PE")
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	fallback := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input string
		asEnd bool
		want  time.Time
	}{
		{"empty", "", false, fallback},
		{"days", "-7d", false, now.Add(-7 * 24 * time.Hour)},
		{"hours upper case", "-12H", false, now.Add(-12 * time.Hour)},
		{"minutes", "-30m", false, now.Add(-30 * time.Minute)},
		{"dmy slash", "05/03/2025", false, cal.Date(2025, 3, 5)},
		{"dmy dash as end", "05-03-2025", true, cal.Date(2025, 3, 6)},
		{"single digits", "5/3/2025", false, cal.Date(2025, 3, 5)},
		{"rfc3339", "2025-03-01T10:00:00Z", false, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"iso date is local", "2025-03-01", false, cal.Date(2025, 3, 1)},
		{"garbage", "next tuesday", false, fallback},
		{"positive relative", "+3d", false, fallback},
		{"bad month", "01/13/2025", false, fallback},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDateOrRelative(cal, tc.input, tc.asEnd, now, fallback)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestResolveRange(t *testing.T) {
	cal := MustCalendar("America/Lima", "es-PE")
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC) // 10:00 in Lima
	today := cal.Date(2025, 3, 10)

	t.Run("default last 24h", func(t *testing.T) {
		from, to, err := ResolveRange(cal, now, "", "", "")
		require.NoError(t, err)
		assert.True(t, from.Equal(now.Add(-24*time.Hour)))
		assert.True(t, to.Equal(now))
	})

	t.Run("today", func(t *testing.T) {
		from, to, err := ResolveRange(cal, now, "today", "", "")
		require.NoError(t, err)
		assert.True(t, from.Equal(today))
		assert.True(t, to.Equal(cal.Date(2025, 3, 11)))
		assert.True(t, IsSingleDay(cal, from, to))
	})

	t.Run("yesterday", func(t *testing.T) {
		from, to, err := ResolveRange(cal, now, "yesterday", "", "")
		require.NoError(t, err)
		assert.True(t, from.Equal(cal.Date(2025, 3, 9)))
		assert.True(t, to.Equal(today))
	})

	t.Run("week", func(t *testing.T) {
		from, to, err := ResolveRange(cal, now, "week", "", "")
		require.NoError(t, err)
		assert.True(t, from.Equal(now.Add(-7*24*time.Hour)))
		assert.True(t, to.Equal(now))
		assert.False(t, IsSingleDay(cal, from, to))
	})

	t.Run("explicit bounds beat preset", func(t *testing.T) {
		from, to, err := ResolveRange(cal, now, "today", "01/03/2025", "02/03/2025")
		require.NoError(t, err)
		assert.True(t, from.Equal(cal.Date(2025, 3, 1)))
		assert.True(t, to.Equal(cal.Date(2025, 3, 3)))
	})

	t.Run("inverted", func(t *testing.T) {
		_, _, err := ResolveRange(cal, now, "", "05/03/2025", "-30d")
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}
