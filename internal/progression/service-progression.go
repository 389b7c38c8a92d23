package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/liftcycle/liftcycle/internal/calendar"
)

// CycleDayView is the resolved "what do I train today" answer for a cycle:
// the plan and plan day the rotation pointer currently lands on.
type CycleDayView struct {
	Cycle    Cycle
	Progress CycleProgress
	Plan     Plan
	PlanDay  PlanDay
}

// cycleDayCounts resolves each cycle item's plan to its day count. Deleted
// plans map to the dangling marker so the advance algorithms can skip them.
func (s *Service) cycleDayCounts(ctx context.Context, cycle Cycle) ([]int, error) {
	counts := make([]int, len(cycle.Items))
	for i, item := range cycle.Items {
		count, err := s.repo.plans.DayCount(ctx, item.PlanID)
		if errors.Is(err, ErrNotFound) {
			counts[i] = dayCountDangling
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("count plan days: %w", err)
		}
		counts[i] = count
	}
	return counts, nil
}

// CurrentCycleDay resolves the cycle's pointer to a concrete plan day. When
// the pointer sits on a dangling or empty item it is repositioned first and
// the repositioned pointer is persisted.
func (s *Service) CurrentCycleDay(ctx context.Context, cycleID uuid.UUID) (CycleDayView, error) {
	cycle, err := s.repo.cycles.Get(ctx, cycleID)
	if err != nil {
		return CycleDayView{}, fmt.Errorf("get cycle: %w", err)
	}
	counts, err := s.cycleDayCounts(ctx, cycle)
	if err != nil {
		return CycleDayView{}, err
	}
	progress, err := s.repo.progress.GetCycleProgress(ctx, cycleID)
	if err != nil {
		return CycleDayView{}, fmt.Errorf("get cycle progress: %w", err)
	}

	moved, err := ensureValidItem(&progress, counts)
	if err != nil {
		return CycleDayView{}, err
	}
	if moved {
		if err = s.repo.progress.SaveCycleProgress(ctx, progress); err != nil {
			return CycleDayView{}, fmt.Errorf("save cycle progress: %w", err)
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "cycle pointer repositioned",
			slog.String("cycle_id", cycleID.String()),
			slog.Int("item_index", progress.ItemIndex),
			slog.Int("day_index", progress.DayIndex))
	}

	plan, err := s.repo.plans.Get(ctx, cycle.Items[progress.ItemIndex].PlanID)
	if err != nil {
		return CycleDayView{}, fmt.Errorf("get current plan: %w", err)
	}
	return CycleDayView{
		Cycle:    cycle,
		Progress: progress,
		Plan:     plan,
		PlanDay:  plan.Days[progress.DayIndex],
	}, nil
}

// MarkCycleDayCompleted records a completion signal for the given calendar
// day and advances the rotation pointer at most once per day. Repeated calls
// for the same day and backfills for earlier days are no-ops. It reports
// whether the pointer moved.
func (s *Service) MarkCycleDayCompleted(ctx context.Context, cycleID uuid.UUID, completedOn calendar.Date) (bool, error) {
	cycle, err := s.repo.cycles.Get(ctx, cycleID)
	if err != nil {
		return false, fmt.Errorf("get cycle: %w", err)
	}
	counts, err := s.cycleDayCounts(ctx, cycle)
	if err != nil {
		return false, err
	}
	progress, err := s.repo.progress.GetCycleProgress(ctx, cycleID)
	if err != nil {
		return false, fmt.Errorf("get cycle progress: %w", err)
	}

	advanced, err := markCompleted(&progress, counts, completedOn)
	if err != nil {
		return false, err
	}
	if !advanced {
		return false, nil
	}
	now := s.now()
	progress.LastAdvancedAt = &now
	if err = s.repo.progress.SaveCycleProgress(ctx, progress); err != nil {
		return false, fmt.Errorf("save cycle progress: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "cycle day completed",
		slog.String("cycle_id", cycleID.String()),
		slog.String("completed_on", completedOn.String()),
		slog.Int("item_index", progress.ItemIndex),
		slog.Int("day_index", progress.DayIndex))
	return true, nil
}

// PreviewCycleDay estimates which 0-based day index of the current plan a
// future or past date would land on, assuming one advancement per day. The
// estimate wraps within the current plan only and does not simulate rolling
// over into the next plan of the rotation.
func (s *Service) PreviewCycleDay(ctx context.Context, cycleID uuid.UUID, target calendar.Date) (int, error) {
	cycle, err := s.repo.cycles.Get(ctx, cycleID)
	if err != nil {
		return 0, fmt.Errorf("get cycle: %w", err)
	}
	counts, err := s.cycleDayCounts(ctx, cycle)
	if err != nil {
		return 0, err
	}
	progress, err := s.repo.progress.GetCycleProgress(ctx, cycleID)
	if err != nil {
		return 0, fmt.Errorf("get cycle progress: %w", err)
	}
	if _, err = ensureValidItem(&progress, counts); err != nil {
		return 0, err
	}
	return previewDayIndex(progress, counts, target, s.Today())
}

// OpenPlan advances the standalone single-plan pointer for an app open today
// and returns the current 1-based day index. The pointer only moves onto a
// new calendar day when the previously opened day's workout was fully logged.
func (s *Service) OpenPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	totalDays, err := s.repo.plans.DayCount(ctx, planID)
	if err != nil {
		return 0, fmt.Errorf("count plan days: %w", err)
	}
	progress, err := s.repo.progress.GetPlanProgress(ctx, planID)
	if err != nil {
		return 0, fmt.Errorf("get plan progress: %w", err)
	}

	prevCompleted := false
	if progress.LastOpenedOn != nil {
		day, err := s.repo.workouts.Get(ctx, *progress.LastOpenedOn)
		switch {
		case errors.Is(err, ErrNotFound):
			// No workout logged on the last opened day.
		case err != nil:
			return 0, fmt.Errorf("get previous workout: %w", err)
		default:
			prevCompleted = day.FullyLogged()
		}
	}

	index := openForDay(&progress, totalDays, s.Today(), prevCompleted)
	if err = s.repo.progress.SavePlanProgress(ctx, progress); err != nil {
		return 0, fmt.Errorf("save plan progress: %w", err)
	}
	return index, nil
}
