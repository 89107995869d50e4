package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func sessionTestSetup(t *testing.T) *SQLiteSessionRepo {
	t.Helper()
	return NewSQLiteSessionRepo(testutil.NewTestDB(t))
}

func TestSessionRepo_StartAndGetByID(t *testing.T) {
	repo := sessionTestSetup(t)
	ctx := context.Background()

	sess := testutil.NewTestSession(
		testutil.WithChannel("chan-7"),
		testutil.WithStartedAt(base),
		testutil.WithSource(domain.SourceAuto),
	)
	require.NoError(t, repo.Start(ctx, sess))

	fetched, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, fetched.ID)
	assert.Equal(t, testutil.TestGroup, fetched.GroupID)
	assert.Equal(t, testutil.TestUser, fetched.UserID)
	assert.Equal(t, "chan-7", fetched.ChannelID)
	assert.True(t, base.Equal(fetched.StartedAt))
	assert.Nil(t, fetched.EndedAt)
	assert.Equal(t, domain.SourceAuto, fetched.Source)
}

func TestSessionRepo_ManualSessionHasNoChannel(t *testing.T) {
	repo := sessionTestSetup(t)
	ctx := context.Background()

	sess := testutil.NewTestSession(testutil.WithStartedAt(base))
	require.NoError(t, repo.Start(ctx, sess))

	fetched, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.ChannelID)
	assert.Equal(t, domain.ManualChannelKey, fetched.ChannelKey())
}

func TestSessionRepo_GetByID_NotFound(t *testing.T) {
	repo := sessionTestSetup(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_StartDuplicateID(t *testing.T) {
	repo := sessionTestSetup(t)
	ctx := context.Background()

	sess := testutil.NewTestSession()
	require.NoError(t, repo.Start(ctx, sess))
	assert.Error(t, repo.Start(ctx, sess))
}

func TestSessionRepo_EndAllOpen(t *testing.T) {
	repo := sessionTestSetup(t)
	ctx := context.Background()

	a := testutil.NewTestSession(testutil.WithStartedAt(base))
	b := testutil.NewTestSession(testutil.WithStartedAt(base.Add(time.Minute)), testutil.WithChannel("c"))
	closed := testutil.NewTestClosedSession(base.Add(-2*time.Hour), base.Add(-time.Hour))
	other := testutil.NewTestSession(testutil.WithUser("user-2"), testutil.WithStartedAt(base))
	for _, s := range []*domain.Session{a, b, closed, other} {
		require.NoError(t, repo.Start(ctx, s))
	}

	end := base.Add(90 * time.Minute)
	n, err := repo.EndAllOpen(ctx, testutil.TestGroup, testutil.TestUser, end)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, id := range []string{a.ID, b.ID} {
		s, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, s.EndedAt)
		assert.True(t, end.Equal(*s.EndedAt))
	}

	// The already-closed session keeps its original end.
	c, err := repo.GetByID(ctx, closed.ID)
	require.NoError(t, err)
	assert.True(t, base.Add(-time.Hour).Equal(*c.EndedAt))

	// Other users are untouched.
	o, err := repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, o.IsOpen())
}

func TestSessionRepo_EndAllOpen_NothingOpen(t *testing.T) {
	repo := sessionTestSetup(t)

	n, err := repo.EndAllOpen(context.Background(), testutil.TestGroup, testutil.TestUser, base)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionRepo_EndByID(t *testing.T) {
	repo := sessionTestSetup(t)
	ctx := context.Background()

	sess := testutil.NewTestSession(testutil.WithStartedAt(base))
	require.NoError(t, repo.Start(ctx, sess))

	ok, err := repo.EndByID(ctx, sess.ID, base.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)

	// A second close is a no-op.
	ok, err = repo.EndByID(ctx, sess.ID, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	fetched, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, base.Add(time.Hour).Equal(*fetched.EndedAt))
}

func TestSessionRepo_ListOpen_OrderedByStart(t *testing.T) {
	repo := sessionTestSetup(t)
	ctx := context.Background()

	late := testutil.NewTestSession(testutil.WithStartedAt(base.Add(time.Hour)))
	early := testutil.NewTestSession(testutil.WithStartedAt(base))
	done := testutil.NewTestClosedSession(base, base.Add(time.Minute))
	for _, s := range []*domain.Session{late, early, done} {
		require.NoError(t, repo.Start(ctx, s))
	}

	open, err := repo.ListOpen(ctx, testutil.TestGroup, testutil.TestUser)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, early.ID, open[0].ID)
	assert.Equal(t, late.ID, open[1].ID)
}

func TestSessionRepo_ListInRange(t *testing.T) {
	repo := sessionTestSetup(t)
	ctx := context.Background()

	from := base
	to := base.Add(8 * time.Hour)

	inside := testutil.NewTestClosedSession(base.Add(time.Hour), base.Add(2*time.Hour))
	straddleStart := testutil.NewTestClosedSession(base.Add(-time.Hour), base.Add(time.Hour))
	straddleEnd := testutil.NewTestClosedSession(base.Add(7*time.Hour), base.Add(9*time.Hour))
	open := testutil.NewTestSession(testutil.WithStartedAt(base.Add(-48 * time.Hour)))
	endsAtFrom := testutil.NewTestClosedSession(base.Add(-time.Hour), from)
	startsAtTo := testutil.NewTestSession(testutil.WithStartedAt(to))
	otherGroup := testutil.NewTestClosedSession(base.Add(time.Hour), base.Add(2*time.Hour), testutil.WithGroup("guild-2"))
	otherUser := testutil.NewTestClosedSession(base.Add(time.Hour), base.Add(2*time.Hour), testutil.WithUser("user-0"))

	for _, s := range []*domain.Session{inside, straddleStart, straddleEnd, open, endsAtFrom, startsAtTo, otherGroup, otherUser} {
		require.NoError(t, repo.Start(ctx, s))
	}

	t.Run("all users ordered by user then start", func(t *testing.T) {
		got, err := repo.ListInRange(ctx, testutil.TestGroup, from, to, nil)
		require.NoError(t, err)
		ids := sessionIDs(got)
		assert.Equal(t, []string{otherUser.ID, open.ID, straddleStart.ID, inside.ID, straddleEnd.ID}, ids)
	})

	t.Run("single user", func(t *testing.T) {
		uid := "user-0"
		got, err := repo.ListInRange(ctx, testutil.TestGroup, from, to, &uid)
		require.NoError(t, err)
		assert.Equal(t, []string{otherUser.ID}, sessionIDs(got))
	})

	t.Run("unknown user", func(t *testing.T) {
		uid := "nobody"
		got, err := repo.ListInRange(ctx, testutil.TestGroup, from, to, &uid)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func sessionIDs(ss []*domain.Session) []string {
	ids := make([]string, len(ss))
	for i, s := range ss {
		ids[i] = s.ID
	}
	return ids
}

func TestSessionRepo_EndBeforeStartLeavesSessionOpen(t *testing.T) {
	repo := sessionTestSetup(t)
	ctx := context.Background()

	early := testutil.NewTestSession(testutil.WithStartedAt(base))
	late := testutil.NewTestSession(testutil.WithStartedAt(base.Add(2 * time.Hour)))
	require.NoError(t, repo.Start(ctx, early))
	require.NoError(t, repo.Start(ctx, late))

	ok, err := repo.EndByID(ctx, late.ID, base.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.EndAllOpen(ctx, testutil.TestGroup, testutil.TestUser, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	open, err := repo.ListOpen(ctx, testutil.TestGroup, testutil.TestUser)
	require.NoError(t, err)
	assert.Equal(t, []string{late.ID}, sessionIDs(open))
}

func TestSessionRepo_RejectsUnknownSource(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSessionRepo(database)
	ctx := context.Background()

	sess := testutil.NewTestSession(testutil.WithStartedAt(base))
	require.NoError(t, repo.Start(ctx, sess))

	_, err := database.ExecContext(ctx, `PRAGMA ignore_check_constraints = ON`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx, `UPDATE sessions SET source = 'bot' WHERE id = ?`, sess.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = repo.ListOpen(ctx, testutil.TestGroup, testutil.TestUser)
	assert.ErrorIs(t, err, ErrUnknownSource)
}
