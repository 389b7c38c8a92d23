package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type sqlitePlanRepository struct {
	baseRepository
}

// Create persists a plan with its days, exercises, and planned sets.
func (r *sqlitePlanRepository) Create(ctx context.Context, plan Plan) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (id, name, created_at)
		VALUES (?, ?, ?)`,
		plan.ID.String(), plan.Name, plan.CreatedAt.UTC().Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}

	if err = r.insertDays(ctx, tx, plan); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *sqlitePlanRepository) insertDays(ctx context.Context, tx *sql.Tx, plan Plan) error {
	for _, day := range plan.Days {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO plan_days (plan_id, day_index, name)
			VALUES (?, ?, ?)`,
			plan.ID.String(), day.Index, day.Name); err != nil {
			return fmt.Errorf("insert plan day %d: %w", day.Index, err)
		}

		for pos, ex := range day.Exercises {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO plan_exercises (id, plan_id, day_index, position, exercise_id, planned_set_count)
				VALUES (?, ?, ?, ?, ?, ?)`,
				ex.ID.String(), plan.ID.String(), day.Index, pos, ex.ExerciseID, ex.PlannedSetCount); err != nil {
				return fmt.Errorf("insert plan exercise: %w", err)
			}

			for setNum, planned := range ex.Sets {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO planned_sets (plan_exercise_id, set_number, target_weight_kg, target_reps)
					VALUES (?, ?, ?, ?)`,
					ex.ID.String(), setNum+1, planned.TargetWeightKg, planned.TargetReps); err != nil {
					return fmt.Errorf("insert planned set: %w", err)
				}
			}
		}
	}
	return nil
}

// Get retrieves a plan with its full day structure.
func (r *sqlitePlanRepository) Get(ctx context.Context, id uuid.UUID) (Plan, error) {
	var (
		plan         Plan
		idStr        string
		createdAtStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, created_at
		FROM plans
		WHERE id = ?`, id.String()).Scan(&idStr, &plan.Name, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	if err != nil {
		return Plan{}, fmt.Errorf("query plan: %w", err)
	}
	plan.ID = id
	if plan.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
		return Plan{}, fmt.Errorf("parse plan created_at: %w", err)
	}

	if plan.Days, err = r.loadDays(ctx, id); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func (r *sqlitePlanRepository) loadDays(ctx context.Context, planID uuid.UUID) (_ []PlanDay, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT day_index, name
		FROM plan_days
		WHERE plan_id = ?
		ORDER BY day_index`, planID.String())
	if err != nil {
		return nil, fmt.Errorf("query plan days: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var days []PlanDay
	for rows.Next() {
		var day PlanDay
		if err = rows.Scan(&day.Index, &day.Name); err != nil {
			return nil, fmt.Errorf("scan plan day row: %w", err)
		}
		days = append(days, day)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range days {
		if days[i].Exercises, err = r.loadDayExercises(ctx, planID, days[i].Index); err != nil {
			return nil, err
		}
	}
	return days, nil
}

func (r *sqlitePlanRepository) loadDayExercises(
	ctx context.Context,
	planID uuid.UUID,
	dayIndex int,
) (_ []PlanExercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, exercise_id, planned_set_count
		FROM plan_exercises
		WHERE plan_id = ? AND day_index = ?
		ORDER BY position`, planID.String(), dayIndex)
	if err != nil {
		return nil, fmt.Errorf("query plan exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []PlanExercise
	for rows.Next() {
		var (
			ex    PlanExercise
			idStr string
		)
		if err = rows.Scan(&idStr, &ex.ExerciseID, &ex.PlannedSetCount); err != nil {
			return nil, fmt.Errorf("scan plan exercise row: %w", err)
		}
		if ex.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse plan exercise id: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range exercises {
		if exercises[i].Sets, err = r.loadPlannedSets(ctx, exercises[i].ID); err != nil {
			return nil, err
		}
	}
	return exercises, nil
}

func (r *sqlitePlanRepository) loadPlannedSets(ctx context.Context, planExerciseID uuid.UUID) (_ []PlannedSet, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT target_weight_kg, target_reps
		FROM planned_sets
		WHERE plan_exercise_id = ?
		ORDER BY set_number`, planExerciseID.String())
	if err != nil {
		return nil, fmt.Errorf("query planned sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sets []PlannedSet
	for rows.Next() {
		var planned PlannedSet
		if err = rows.Scan(&planned.TargetWeightKg, &planned.TargetReps); err != nil {
			return nil, fmt.Errorf("scan planned set row: %w", err)
		}
		sets = append(sets, planned)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return sets, nil
}

// List returns all plans with their day structure, newest first.
func (r *sqlitePlanRepository) List(ctx context.Context) (_ []Plan, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id
		FROM plans
		ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err = rows.Scan(&idStr); err != nil {
			return nil, fmt.Errorf("scan plan id: %w", err)
		}
		id, parseErr := uuid.Parse(idStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse plan id: %w", parseErr)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	plans := make([]Plan, 0, len(ids))
	for _, id := range ids {
		plan, getErr := r.Get(ctx, id)
		if getErr != nil {
			return nil, fmt.Errorf("get plan %s: %w", id, getErr)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// Update loads the plan, applies updateFn, and rewrites the stored structure
// when updateFn reports a change.
func (r *sqlitePlanRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	updateFn func(plan *Plan) (bool, error),
) error {
	plan, err := r.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get plan for update: %w", err)
	}

	updated, err := updateFn(&plan)
	if err != nil {
		return fmt.Errorf("update function: %w", err)
	}
	if !updated {
		return nil
	}

	normalizePlan(&plan)
	if err = r.rewrite(ctx, plan); err != nil {
		return fmt.Errorf("save updated plan: %w", err)
	}
	return nil
}

// rewrite replaces the stored structure of an existing plan.
func (r *sqlitePlanRepository) rewrite(ctx context.Context, plan Plan) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)()

	if _, err = tx.ExecContext(ctx, `
		UPDATE plans SET name = ? WHERE id = ?`,
		plan.Name, plan.ID.String()); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `
		DELETE FROM plan_days WHERE plan_id = ?`, plan.ID.String()); err != nil {
		return fmt.Errorf("delete plan days: %w", err)
	}
	if err = r.insertDays(ctx, tx, plan); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Delete removes a plan. Cycle items referencing it are left in place and
// become dangling, which the progression logic skips.
func (r *sqlitePlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM plans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DayCount returns the number of days a plan has. A deleted plan returns
// ErrNotFound so callers can distinguish dangling references from plans that
// merely have no days yet.
func (r *sqlitePlanRepository) DayCount(ctx context.Context, id uuid.UUID) (int, error) {
	var (
		exists int
		count  int
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM plans WHERE id = ?1),
			(SELECT COUNT(*) FROM plan_days WHERE plan_id = ?1)`,
		id.String()).Scan(&exists, &count)
	if err != nil {
		return 0, fmt.Errorf("query plan day count: %w", err)
	}
	if exists == 0 {
		return 0, ErrNotFound
	}
	return count, nil
}
