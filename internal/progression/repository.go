package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/liftcycle/liftcycle/internal/calendar"
	"github.com/liftcycle/liftcycle/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// repository bundles the per-aggregate repositories backing the service.
type repository struct {
	exercises *sqliteExerciseRepository
	plans     *sqlitePlanRepository
	cycles    *sqliteCycleRepository
	progress  *sqliteProgressRepository
	workouts  *sqliteWorkoutRepository
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	base := baseRepository{db: db, logger: logger}
	return &repository{
		exercises: &sqliteExerciseRepository{baseRepository: base},
		plans:     &sqlitePlanRepository{baseRepository: base},
		cycles:    &sqliteCycleRepository{baseRepository: base},
		progress:  &sqliteProgressRepository{baseRepository: base},
		workouts:  &sqliteWorkoutRepository{baseRepository: base},
	}
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// rollback returns a deferred-friendly rollback that tolerates a committed
// transaction and logs anything else.
func (r baseRepository) rollback(ctx context.Context, tx *sql.Tx) func() {
	return func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", err))
		}
	}
}

// formatTimestamp renders an optional instant as a nullable column value.
func formatTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timestampFormat)
}

func parseTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil //nolint:nilnil // NULL column maps to no timestamp.
	}
	t, err := time.Parse(timestampFormat, s.String)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", s.String, err)
	}
	return &t, nil
}

// formatDate renders an optional calendar day as a nullable column value.
func formatDate(d *calendar.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseDate(s sql.NullString) (*calendar.Date, error) {
	if !s.Valid {
		return nil, nil //nolint:nilnil // NULL column maps to no date.
	}
	d, err := calendar.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
