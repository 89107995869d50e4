package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/attend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepo_UpsertAndGet(t *testing.T) {
	repo := NewSQLiteScheduleRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestSchedule(8*60, 19*60)))

	got, err := repo.Get(ctx, testutil.TestGroup, testutil.TestUser)
	require.NoError(t, err)
	assert.Equal(t, 480, got.WorkStartMin)
	assert.Equal(t, 1140, got.WorkEndMin)
}

func TestScheduleRepo_UpsertReplaces(t *testing.T) {
	repo := NewSQLiteScheduleRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestSchedule(8*60, 19*60)))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestSchedule(9*60, 17*60)))

	got, err := repo.Get(ctx, testutil.TestGroup, testutil.TestUser)
	require.NoError(t, err)
	assert.Equal(t, 540, got.WorkStartMin)
	assert.Equal(t, 1020, got.WorkEndMin)
}

func TestScheduleRepo_Get_NotFound(t *testing.T) {
	repo := NewSQLiteScheduleRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), testutil.TestGroup, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleRepo_ScopedByGroup(t *testing.T) {
	repo := NewSQLiteScheduleRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestSchedule(8*60, 19*60)))

	_, err := repo.Get(ctx, "guild-2", testutil.TestUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBreakRepo_UpsertAndGet(t *testing.T) {
	repo := NewSQLiteBreakRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestBreak(13*60, 60)))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestBreak(13*60, 45)))

	got, err := repo.Get(ctx, testutil.TestGroup, testutil.TestUser)
	require.NoError(t, err)
	assert.Equal(t, 780, got.BreakStartMin)
	assert.Equal(t, 825, got.BreakEndMin)
	assert.Equal(t, 45, got.DurationMin())
}

func TestBreakRepo_Get_NotFound(t *testing.T) {
	repo := NewSQLiteBreakRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), testutil.TestGroup, testutil.TestUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewerRepo(t *testing.T) {
	repo := NewSQLiteViewerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "g", "bob"))
	require.NoError(t, repo.Add(ctx, "g", "alice"))
	require.NoError(t, repo.Add(ctx, "g", "alice"))
	require.NoError(t, repo.Add(ctx, "h", "carol"))

	ids, err := repo.List(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, ids)

	ok, err := repo.IsViewer(ctx, "g", "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsViewer(ctx, "g", "carol")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Remove(ctx, "g", "alice"))
	require.NoError(t, repo.Remove(ctx, "g", "nobody"))

	ids, err = repo.List(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, ids)
}
