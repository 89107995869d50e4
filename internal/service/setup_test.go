package service

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/alexanderramin/attend/internal/repository"
	"github.com/alexanderramin/attend/internal/testutil"
	"github.com/alexanderramin/attend/internal/timeutil"
)

var lima = timeutil.MustCalendar("America/Lima", "es-PE")

func local(day, h, m int) time.Time {
	return time.Date(2025, 3, 10+day, h, m, 0, 0, lima.Location)
}

func setupBackend(t *testing.T) repository.Backend {
	t.Helper()
	return repository.NewSQLiteBackend(testutil.NewTestDB(t))
}

// recordingObserver keeps every event for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}
