package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// sqliteProgressRepository stores the two progress pointers. Both are created
// lazily: reading a pointer that does not exist yet returns its initial state.
type sqliteProgressRepository struct {
	baseRepository
}

// GetCycleProgress returns the rotation pointer for a cycle, starting at
// (0, 0) when none has been stored yet.
func (r *sqliteProgressRepository) GetCycleProgress(ctx context.Context, cycleID uuid.UUID) (CycleProgress, error) {
	var (
		progress        CycleProgress
		lastAdvancedAt  sql.NullString
		lastCompletedOn sql.NullString
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT item_index, day_index, last_advanced_at, last_completed_on
		FROM cycle_progress
		WHERE cycle_id = ?`, cycleID.String()).
		Scan(&progress.ItemIndex, &progress.DayIndex, &lastAdvancedAt, &lastCompletedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return CycleProgress{CycleID: cycleID}, nil
	}
	if err != nil {
		return CycleProgress{}, fmt.Errorf("query cycle progress: %w", err)
	}
	progress.CycleID = cycleID

	if progress.LastAdvancedAt, err = parseTimestamp(lastAdvancedAt); err != nil {
		return CycleProgress{}, fmt.Errorf("parse last_advanced_at: %w", err)
	}
	if progress.LastCompletedOn, err = parseDate(lastCompletedOn); err != nil {
		return CycleProgress{}, fmt.Errorf("parse last_completed_on: %w", err)
	}
	return progress, nil
}

// SaveCycleProgress upserts the rotation pointer.
func (r *sqliteProgressRepository) SaveCycleProgress(ctx context.Context, progress CycleProgress) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO cycle_progress (cycle_id, item_index, day_index, last_advanced_at, last_completed_on)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (cycle_id) DO UPDATE SET
			item_index = excluded.item_index,
			day_index = excluded.day_index,
			last_advanced_at = excluded.last_advanced_at,
			last_completed_on = excluded.last_completed_on`,
		progress.CycleID.String(), progress.ItemIndex, progress.DayIndex,
		formatTimestamp(progress.LastAdvancedAt), formatDate(progress.LastCompletedOn))
	if err != nil {
		return fmt.Errorf("save cycle progress: %w", err)
	}
	return nil
}

// GetPlanProgress returns the single-plan pointer, starting at day 1 with no
// opened date when none has been stored yet.
func (r *sqliteProgressRepository) GetPlanProgress(ctx context.Context, planID uuid.UUID) (PlanProgress, error) {
	var (
		progress     PlanProgress
		lastOpenedOn sql.NullString
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT current_day_index, last_opened_on
		FROM plan_progress
		WHERE plan_id = ?`, planID.String()).
		Scan(&progress.CurrentDayIndex, &lastOpenedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return PlanProgress{PlanID: planID, CurrentDayIndex: 1}, nil
	}
	if err != nil {
		return PlanProgress{}, fmt.Errorf("query plan progress: %w", err)
	}
	progress.PlanID = planID

	if progress.LastOpenedOn, err = parseDate(lastOpenedOn); err != nil {
		return PlanProgress{}, fmt.Errorf("parse last_opened_on: %w", err)
	}
	return progress, nil
}

// SavePlanProgress upserts the single-plan pointer.
func (r *sqliteProgressRepository) SavePlanProgress(ctx context.Context, progress PlanProgress) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO plan_progress (plan_id, current_day_index, last_opened_on)
		VALUES (?, ?, ?)
		ON CONFLICT (plan_id) DO UPDATE SET
			current_day_index = excluded.current_day_index,
			last_opened_on = excluded.last_opened_on`,
		progress.PlanID.String(), progress.CurrentDayIndex, formatDate(progress.LastOpenedOn))
	if err != nil {
		return fmt.Errorf("save plan progress: %w", err)
	}
	return nil
}
