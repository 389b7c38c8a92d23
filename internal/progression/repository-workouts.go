package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/liftcycle/liftcycle/internal/calendar"
)

type sqliteWorkoutRepository struct {
	baseRepository
}

// Get retrieves the workout day for a date with its entries and sets,
// including tombstoned sets.
func (r *sqliteWorkoutRepository) Get(ctx context.Context, date calendar.Date) (WorkoutDay, error) {
	var (
		day          WorkoutDay
		mode         string
		planIDStr    sql.NullString
		planDayIndex sql.NullInt64
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT mode, plan_id, plan_day_index
		FROM workout_days
		WHERE workout_date = ?`, date.String()).Scan(&mode, &planIDStr, &planDayIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return WorkoutDay{}, ErrNotFound
	}
	if err != nil {
		return WorkoutDay{}, fmt.Errorf("query workout day: %w", err)
	}

	day.Date = date
	day.Mode = WorkoutMode(mode)
	if planIDStr.Valid {
		planID, parseErr := uuid.Parse(planIDStr.String)
		if parseErr != nil {
			return WorkoutDay{}, fmt.Errorf("parse workout plan id: %w", parseErr)
		}
		day.PlanID = &planID
	}
	if planDayIndex.Valid {
		idx := int(planDayIndex.Int64)
		day.PlanDayIndex = &idx
	}

	if day.Entries, err = r.loadEntries(ctx, date); err != nil {
		return WorkoutDay{}, err
	}
	return day, nil
}

func (r *sqliteWorkoutRepository) loadEntries(ctx context.Context, date calendar.Date) (_ []WorkoutEntry, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT e.id, e.position, e.exercise_id,
		       s.set_number, s.target_weight_kg, s.target_reps,
		       s.weight_kg, s.reps, s.is_completed, s.is_soft_deleted
		FROM workout_entries e
		LEFT JOIN workout_sets s ON s.entry_id = e.id
		WHERE e.workout_date = ?
		ORDER BY e.position, s.set_number`, date.String())
	if err != nil {
		return nil, fmt.Errorf("query workout entries: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var entries []WorkoutEntry
	var current *WorkoutEntry
	for rows.Next() {
		var (
			idStr     string
			position  int
			exercise  int64
			setNumber sql.NullInt64
			set       WorkoutSet
		)
		if err = rows.Scan(&idStr, &position, &exercise,
			&setNumber, &set.TargetWeightKg, &set.TargetReps,
			&set.WeightKg, &set.Reps, &set.Completed, &set.SoftDeleted); err != nil {
			return nil, fmt.Errorf("scan workout entry row: %w", err)
		}

		id, parseErr := uuid.Parse(idStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse workout entry id: %w", parseErr)
		}

		if current == nil || current.ID != id {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &WorkoutEntry{ID: id, Position: position, ExerciseID: exercise}
		}
		if setNumber.Valid {
			set.SetNumber = int(setNumber.Int64)
			current.Sets = append(current.Sets, set)
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}

// Create inserts a workout day with its entries. The primary key on the date
// backs the one-workout-per-day invariant; callers look up before inserting.
func (r *sqliteWorkoutRepository) Create(ctx context.Context, day WorkoutDay) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)()

	var planID any
	if day.PlanID != nil {
		planID = day.PlanID.String()
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO workout_days (workout_date, mode, plan_id, plan_day_index)
		VALUES (?, ?, ?, ?)`,
		day.Date.String(), string(day.Mode), planID, day.PlanDayIndex); err != nil {
		return fmt.Errorf("insert workout day: %w", err)
	}

	if err = r.insertEntries(ctx, tx, day.Date, day.Entries); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *sqliteWorkoutRepository) insertEntries(
	ctx context.Context,
	tx *sql.Tx,
	date calendar.Date,
	entries []WorkoutEntry,
) error {
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO workout_entries (id, workout_date, position, exercise_id)
			VALUES (?, ?, ?, ?)`,
			entry.ID.String(), date.String(), entry.Position, entry.ExerciseID); err != nil {
			return fmt.Errorf("insert workout entry: %w", err)
		}
		for _, set := range entry.Sets {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO workout_sets (
					entry_id, set_number, target_weight_kg, target_reps,
					weight_kg, reps, is_completed, is_soft_deleted
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				entry.ID.String(), set.SetNumber, set.TargetWeightKg, set.TargetReps,
				set.WeightKg, set.Reps, set.Completed, set.SoftDeleted); err != nil {
				return fmt.Errorf("insert workout set: %w", err)
			}
		}
	}
	return nil
}

// Relink points an existing workout day at a different plan day and replaces
// all its entries in one transaction. The day-change engine validates before
// calling; there is no partial state on failure.
func (r *sqliteWorkoutRepository) Relink(
	ctx context.Context,
	date calendar.Date,
	planID uuid.UUID,
	planDayIndex int,
	entries []WorkoutEntry,
) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)()

	result, err := tx.ExecContext(ctx, `
		UPDATE workout_days
		SET mode = ?, plan_id = ?, plan_day_index = ?
		WHERE workout_date = ?`,
		string(WorkoutModePlan), planID.String(), planDayIndex, date.String())
	if err != nil {
		return fmt.Errorf("update workout day: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	// Cascade removes the sets.
	if _, err = tx.ExecContext(ctx, `
		DELETE FROM workout_entries WHERE workout_date = ?`, date.String()); err != nil {
		return fmt.Errorf("delete workout entries: %w", err)
	}
	if err = r.insertEntries(ctx, tx, date, entries); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// UpdateSet loads one set, applies updateFn, and persists it when updateFn
// reports a change.
func (r *sqliteWorkoutRepository) UpdateSet(
	ctx context.Context,
	entryID uuid.UUID,
	setNumber int,
	updateFn func(set *WorkoutSet) (bool, error),
) error {
	var set WorkoutSet
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT set_number, target_weight_kg, target_reps, weight_kg, reps, is_completed, is_soft_deleted
		FROM workout_sets
		WHERE entry_id = ? AND set_number = ?`,
		entryID.String(), setNumber).
		Scan(&set.SetNumber, &set.TargetWeightKg, &set.TargetReps,
			&set.WeightKg, &set.Reps, &set.Completed, &set.SoftDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query workout set: %w", err)
	}

	updated, err := updateFn(&set)
	if err != nil {
		return fmt.Errorf("update function: %w", err)
	}
	if !updated {
		return nil
	}

	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		UPDATE workout_sets
		SET weight_kg = ?, reps = ?, is_completed = ?, is_soft_deleted = ?
		WHERE entry_id = ? AND set_number = ?`,
		set.WeightKg, set.Reps, set.Completed, set.SoftDeleted,
		entryID.String(), setNumber); err != nil {
		return fmt.Errorf("save workout set: %w", err)
	}
	return nil
}
