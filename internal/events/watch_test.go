package events

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/alexanderramin/attend/internal/service"
	"github.com/alexanderramin/attend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWatcher(t *testing.T) (*Watcher, repository.Backend, *testutil.FixedClock) {
	t.Helper()
	b := repository.NewSQLiteBackend(testutil.NewTestDB(t))
	clock := testutil.NewFixedClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	presence := service.NewPresenceService(b.Sessions, b.Switcher, clock)
	return NewWatcher(presence, zerolog.Nop(), "g", "u"), b, clock
}

func TestWatcher_Run(t *testing.T) {
	w, b, _ := setupWatcher(t)
	ctx := context.Background()

	input := strings.Join([]string{
		`{"kind":"voice","new_channel":"a","at":"2025-03-10T09:00:00Z"}`,
		``,
		`# comment`,
		`{"kind":"voice","old_channel":"a","new_channel":"b","at":"2025-03-10T10:00:00Z"}`,
		`not json`,
		`{"kind":"voice","old_channel":"b","at":"2025-03-10T11:00:00Z"}`,
		`{"kind":"checkin","user":"v"}`,
	}, "\n")

	stats, err := w.Run(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Stats{Lines: 7, Applied: 4, Skipped: 3}, stats)

	sessions, err := b.Sessions.ListInRange(ctx, "g",
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	byUser := map[string][]*domain.Session{}
	for _, s := range sessions {
		byUser[s.UserID] = append(byUser[s.UserID], s)
	}
	require.Len(t, byUser["u"], 2)
	assert.Equal(t, "a", byUser["u"][0].ChannelID)
	assert.Equal(t, time.Hour, byUser["u"][0].EndedAt.Sub(byUser["u"][0].StartedAt))
	assert.Equal(t, "b", byUser["u"][1].ChannelID)
	assert.Equal(t, time.Hour, byUser["u"][1].EndedAt.Sub(byUser["u"][1].StartedAt))

	require.Len(t, byUser["v"], 1)
	assert.True(t, byUser["v"][0].IsOpen())
	assert.Equal(t, domain.SourceManual, byUser["v"][0].Source)
}

func TestWatcher_TimestampedCheckInOut(t *testing.T) {
	w, b, _ := setupWatcher(t)
	ctx := context.Background()

	// The clock sits at 12:00Z; every event carries its own time.
	input := strings.Join([]string{
		`{"kind":"voice","new_channel":"a","at":"2025-03-10T15:00:00Z"}`,
		`{"kind":"checkout","at":"2025-03-10T14:00:00Z"}`,
		`{"kind":"checkout","at":"2025-03-10T17:00:00Z"}`,
		`{"kind":"checkin","user":"v","at":"2025-03-10T08:00:00Z"}`,
		`{"kind":"checkout","user":"v","at":"2025-03-10T09:30:00Z"}`,
	}, "\n")

	stats, err := w.Run(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Stats{Lines: 5, Applied: 4, Failed: 1}, stats)

	sessions, err := b.Sessions.ListInRange(ctx, "g",
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		require.NotNil(t, s.EndedAt)
		assert.False(t, s.EndedAt.Before(s.StartedAt), "session %s ends before it starts", s.ID)
	}

	byUser := map[string]*domain.Session{}
	for _, s := range sessions {
		byUser[s.UserID] = s
	}
	assert.True(t, time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC).Equal(byUser["u"].StartedAt))
	assert.True(t, time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC).Equal(*byUser["u"].EndedAt))
	assert.True(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC).Equal(byUser["v"].StartedAt))
	assert.Equal(t, 90*time.Minute, byUser["v"].EndedAt.Sub(byUser["v"].StartedAt))
}

func TestWatcher_OversizedLineIsSkipped(t *testing.T) {
	var logs bytes.Buffer
	w, b, _ := setupWatcher(t)
	w.logger = zerolog.New(&logs)
	ctx := context.Background()

	huge := `{"kind":"checkin","channel":"` + strings.Repeat("x", 2*maxLineBytes) + `"}`
	input := huge + "\n" + `{"kind":"checkin","channel":"desk"}` + "\n"

	stats, err := w.Run(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Stats{Lines: 2, Applied: 1, Skipped: 1}, stats)
	assert.Contains(t, logs.String(), "skipping oversized line")

	open, err := b.Sessions.ListOpen(ctx, "g", "u")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "desk", open[0].ChannelID)
}

func TestWatcher_FailuresDoNotStopTheLoop(t *testing.T) {
	var logs bytes.Buffer
	presence := &failingPresence{err: errors.New("database is locked")}
	w := NewWatcher(presence, zerolog.New(&logs), "g", "u")

	input := "{\"kind\":\"checkout\"}\n{\"kind\":\"checkout\"}\n"
	stats, err := w.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 2, presence.calls)
	assert.Contains(t, logs.String(), "database is locked")
}

func TestWatcher_Cancelled(t *testing.T) {
	w, _, _ := setupWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Run(ctx, strings.NewReader(`{"kind":"checkout"}`))
	assert.ErrorIs(t, err, context.Canceled)
}

type failingPresence struct {
	service.PresenceService
	err   error
	calls int
}

func (f *failingPresence) CheckOut(context.Context, string, string, time.Time) (int64, error) {
	f.calls++
	return 0, f.err
}
