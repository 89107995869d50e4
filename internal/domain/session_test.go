package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestSession_Close(t *testing.T) {
	s := &Session{ID: "s1", StartedAt: testNow.Add(-time.Hour)}
	require.True(t, s.IsOpen())

	require.NoError(t, s.Close(testNow))
	assert.False(t, s.IsOpen())
	assert.Equal(t, testNow, *s.EndedAt)
}

func TestSession_Close_AlreadyClosed(t *testing.T) {
	end := testNow
	s := &Session{ID: "s1", StartedAt: testNow.Add(-time.Hour), EndedAt: &end}

	err := s.Close(testNow.Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")
	assert.Equal(t, testNow, *s.EndedAt, "end should not move")
}

func TestSession_Close_BeforeStart(t *testing.T) {
	s := &Session{ID: "s1", StartedAt: testNow}
	require.Error(t, s.Close(testNow.Add(-time.Second)))
	assert.True(t, s.IsOpen())
}

func TestSession_ChannelKey(t *testing.T) {
	assert.Equal(t, ManualChannelKey, (&Session{}).ChannelKey())
	assert.Equal(t, "voice-1", (&Session{ChannelID: "voice-1"}).ChannelKey())
}

func TestSession_EndOr(t *testing.T) {
	open := &Session{StartedAt: testNow.Add(-time.Hour)}
	assert.Equal(t, testNow, open.EndOr(testNow))

	end := testNow.Add(-time.Minute)
	closed := &Session{StartedAt: testNow.Add(-time.Hour), EndedAt: &end}
	assert.Equal(t, end, closed.EndOr(testNow))
}
