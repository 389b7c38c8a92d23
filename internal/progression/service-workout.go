package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/liftcycle/liftcycle/internal/calendar"
)

// StartWorkout returns today's workout, creating it from the active cycle's
// current plan day when none exists yet. The lookup-before-insert keeps one
// workout per calendar day; a day already started is returned as-is even if
// the cycle pointer has since moved.
func (s *Service) StartWorkout(ctx context.Context) (WorkoutDay, error) {
	today := s.Today()
	day, err := s.repo.workouts.Get(ctx, today)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return WorkoutDay{}, fmt.Errorf("get workout day: %w", err)
	}

	cycle, err := s.repo.cycles.Active(ctx)
	if err != nil {
		return WorkoutDay{}, fmt.Errorf("get active cycle: %w", err)
	}
	view, err := s.CurrentCycleDay(ctx, cycle.ID)
	if err != nil {
		return WorkoutDay{}, err
	}
	return s.createPlanWorkout(ctx, today, view.Plan, view.PlanDay)
}

// StartWorkoutFromPlan starts today's workout from a specific day of a plan,
// bypassing any cycle. An existing workout for today is returned unchanged.
func (s *Service) StartWorkoutFromPlan(ctx context.Context, planID uuid.UUID, dayIndex int) (WorkoutDay, error) {
	today := s.Today()
	day, err := s.repo.workouts.Get(ctx, today)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return WorkoutDay{}, fmt.Errorf("get workout day: %w", err)
	}

	plan, err := s.repo.plans.Get(ctx, planID)
	if err != nil {
		return WorkoutDay{}, fmt.Errorf("get plan: %w", err)
	}
	if dayIndex < 1 || dayIndex > len(plan.Days) {
		return WorkoutDay{}, ErrDayIndexOutOfRange
	}
	return s.createPlanWorkout(ctx, today, plan, plan.Days[dayIndex-1])
}

// StartFreeWorkout starts today's workout with no plan attached. An existing
// workout for today is returned unchanged.
func (s *Service) StartFreeWorkout(ctx context.Context) (WorkoutDay, error) {
	today := s.Today()
	day, err := s.repo.workouts.Get(ctx, today)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return WorkoutDay{}, fmt.Errorf("get workout day: %w", err)
	}

	day = WorkoutDay{Date: today, Mode: WorkoutModeFree}
	if err = s.repo.workouts.Create(ctx, day); err != nil {
		return WorkoutDay{}, fmt.Errorf("create workout day: %w", err)
	}
	return day, nil
}

func (s *Service) createPlanWorkout(ctx context.Context, date calendar.Date, plan Plan, planDay PlanDay) (WorkoutDay, error) {
	index := planDay.Index
	day := WorkoutDay{
		Date:         date,
		Mode:         WorkoutModePlan,
		PlanID:       &plan.ID,
		PlanDayIndex: &index,
		Entries:      expandPlanDay(planDay),
	}
	if err := s.repo.workouts.Create(ctx, day); err != nil {
		return WorkoutDay{}, fmt.Errorf("create workout day: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "workout started",
		slog.String("date", date.String()),
		slog.String("plan_id", plan.ID.String()),
		slog.Int("plan_day_index", index))
	return day, nil
}

func (s *Service) GetWorkoutDay(ctx context.Context, date calendar.Date) (WorkoutDay, error) {
	return s.repo.workouts.Get(ctx, date)
}

// ChangeDay rebuilds the workout on the given date from a different 1-based
// day of its plan. The rescue path for "the app picked the wrong day".
//
// The change is refused once any set on the day is completed; history is
// never rebuilt. Entries are replaced in one transaction, so a failed change
// leaves the workout untouched. With skipAndAdvance the progression pointer
// jumps to the chosen day as well, so the rotation continues from there
// instead of replaying the skipped days.
func (s *Service) ChangeDay(ctx context.Context, date calendar.Date, targetDayIndex int, skipAndAdvance bool) (WorkoutDay, error) {
	day, err := s.repo.workouts.Get(ctx, date)
	if err != nil {
		return WorkoutDay{}, fmt.Errorf("get workout day: %w", err)
	}
	if day.HasCompletedSets() {
		return WorkoutDay{}, ErrHasCompletedSets
	}

	plan, fromCycle, err := s.resolveChangePlan(ctx, day)
	if err != nil {
		return WorkoutDay{}, err
	}
	if targetDayIndex < 1 || targetDayIndex > len(plan.Days) {
		return WorkoutDay{}, ErrDayIndexOutOfRange
	}

	entries := expandPlanDay(plan.Days[targetDayIndex-1])
	if err = s.repo.workouts.Relink(ctx, date, plan.ID, targetDayIndex, entries); err != nil {
		return WorkoutDay{}, fmt.Errorf("relink workout day: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "workout day changed",
		slog.String("date", date.String()),
		slog.String("plan_id", plan.ID.String()),
		slog.Int("target_day_index", targetDayIndex),
		slog.Bool("skip_and_advance", skipAndAdvance))

	if skipAndAdvance {
		if err = s.jumpPointer(ctx, plan, fromCycle, targetDayIndex); err != nil {
			return WorkoutDay{}, err
		}
	}
	return s.repo.workouts.Get(ctx, date)
}

// resolveChangePlan picks the plan a day change operates on: the active
// cycle's current plan when one exists, otherwise the plan the workout day
// itself references. It reports which cycle, if any, owns the pointer.
func (s *Service) resolveChangePlan(ctx context.Context, day WorkoutDay) (Plan, *Cycle, error) {
	cycle, err := s.repo.cycles.Active(ctx)
	if err == nil {
		view, viewErr := s.CurrentCycleDay(ctx, cycle.ID)
		if viewErr != nil {
			return Plan{}, nil, viewErr
		}
		return view.Plan, &cycle, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Plan{}, nil, fmt.Errorf("get active cycle: %w", err)
	}

	if day.PlanID == nil {
		return Plan{}, nil, fmt.Errorf("workout day has no plan: %w", ErrNotFound)
	}
	plan, err := s.repo.plans.Get(ctx, *day.PlanID)
	if err != nil {
		return Plan{}, nil, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil, nil
}

// jumpPointer moves the progression pointer to the chosen day: the cycle's
// day pointer when a cycle owns progression, otherwise the plan's own pointer.
func (s *Service) jumpPointer(ctx context.Context, plan Plan, cycle *Cycle, targetDayIndex int) error {
	if cycle != nil {
		progress, err := s.repo.progress.GetCycleProgress(ctx, cycle.ID)
		if err != nil {
			return fmt.Errorf("get cycle progress: %w", err)
		}
		progress.DayIndex = targetDayIndex - 1
		if err = s.repo.progress.SaveCycleProgress(ctx, progress); err != nil {
			return fmt.Errorf("save cycle progress: %w", err)
		}
		return nil
	}
	progress, err := s.repo.progress.GetPlanProgress(ctx, plan.ID)
	if err != nil {
		return fmt.Errorf("get plan progress: %w", err)
	}
	progress.CurrentDayIndex = targetDayIndex
	if err = s.repo.progress.SavePlanProgress(ctx, progress); err != nil {
		return fmt.Errorf("save plan progress: %w", err)
	}
	return nil
}

// LogSet records the logged weight and reps for a set and marks it completed.
// A tombstoned set is restored by logging it again.
func (s *Service) LogSet(ctx context.Context, entryID uuid.UUID, setNumber int, weightKg float64, reps int) error {
	return s.repo.workouts.UpdateSet(ctx, entryID, setNumber, func(set *WorkoutSet) (bool, error) {
		set.WeightKg = &weightKg
		set.Reps = &reps
		set.Completed = true
		set.SoftDeleted = false
		return true, nil
	})
}

// DeleteSet tombstones a set. The row and anything logged on it survive, so
// the delete is reversible.
func (s *Service) DeleteSet(ctx context.Context, entryID uuid.UUID, setNumber int) error {
	return s.repo.workouts.UpdateSet(ctx, entryID, setNumber, func(set *WorkoutSet) (bool, error) {
		if set.SoftDeleted {
			return false, nil
		}
		set.SoftDeleted = true
		return true, nil
	})
}

// RestoreSet clears a set's tombstone, bringing back whatever was logged.
func (s *Service) RestoreSet(ctx context.Context, entryID uuid.UUID, setNumber int) error {
	return s.repo.workouts.UpdateSet(ctx, entryID, setNumber, func(set *WorkoutSet) (bool, error) {
		if !set.SoftDeleted {
			return false, nil
		}
		set.SoftDeleted = false
		return true, nil
	})
}
