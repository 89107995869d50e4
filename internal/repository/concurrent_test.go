package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/attend/internal/db"
	"github.com/alexanderramin/attend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all pooled connections.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

func retryTx(fn func() error) error {
	const maxRetries = 10
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(time.Millisecond * time.Duration(1<<attempt))
	}
	return err
}

// TestConcurrentAccess_ReadDuringWrite checks that range reads see complete
// rows while sessions are being appended.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(database)

	from := base.Add(-time.Hour)
	to := base.Add(24 * time.Hour)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			s := testutil.NewTestClosedSession(base.Add(time.Duration(i)*time.Minute), base.Add(time.Duration(i+1)*time.Minute))
			if err := retryTx(func() error { return repo.Start(ctx, s) }); err != nil {
				t.Errorf("writer: start session %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				sessions, err := repo.ListInRange(ctx, testutil.TestGroup, from, to, nil)
				if err != nil {
					t.Errorf("reader %d: list in range: %v", reader, err)
					return
				}
				for _, s := range sessions {
					if s.ID == "" || s.EndedAt == nil {
						t.Errorf("reader %d: partial row %+v", reader, s)
					}
				}
			}
		}(r)
	}
	wg.Wait()

	all, err := repo.ListInRange(ctx, testutil.TestGroup, from, to, nil)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

// TestConcurrentAccess_CheckInLeavesOneOpen runs close-all-then-start in
// parallel transactions for the same user; exactly one session stays open.
func TestConcurrentAccess_CheckInLeavesOneOpen(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	uow := db.NewSQLiteUnitOfWork(database)

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Shared instant: a close skips sessions that start after it.
			at := base
			err := retryTx(func() error {
				return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					txRepo := NewSQLiteSessionRepo(tx)
					if _, err := txRepo.EndAllOpen(ctx, testutil.TestGroup, testutil.TestUser, at); err != nil {
						return err
					}
					return txRepo.Start(ctx, testutil.NewTestSession(testutil.WithStartedAt(at)))
				})
			})
			if err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	open, err := NewSQLiteSessionRepo(database).ListOpen(ctx, testutil.TestGroup, testutil.TestUser)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}
