package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
)

// ParseSessionSource checks a stored source value.
func ParseSessionSource(v string) (domain.SessionSource, error) {
	if !domain.ValidSessionSources[v] {
		return "", fmt.Errorf("%w %q", ErrUnknownSource, v)
	}
	return domain.SessionSource(v), nil
}

// toMillis converts t to the unix-millisecond form stored in SQLite.
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// fromMillis converts a stored unix-millisecond value back to time.Time.
func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// nullableMillis converts a nullable column into a *time.Time.
func nullableMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

// nullableTimeToMillis converts *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableTimeToMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return toMillis(*t)
}

// nullableString stores "" as SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullableStringPtr passes a *string through as a nullable query parameter.
func nullableStringPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
