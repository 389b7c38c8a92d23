package progression

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liftcycle/liftcycle/internal/planfile"
)

// ImportPlans creates plans from parsed plan definition files. Exercises are
// resolved by name against the catalog and created on first sight. Returns
// the created plans in input order.
func (s *Service) ImportPlans(ctx context.Context, defs []planfile.Plan) ([]Plan, error) {
	plans := make([]Plan, 0, len(defs))
	for _, def := range defs {
		plan, err := s.importPlan(ctx, def)
		if err != nil {
			return nil, fmt.Errorf("import plan %q: %w", def.Name, err)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (s *Service) importPlan(ctx context.Context, def planfile.Plan) (Plan, error) {
	plan := Plan{Name: def.Name}
	for _, dayDef := range def.Days {
		day := PlanDay{Name: dayDef.Name}
		for _, exDef := range dayDef.Exercises {
			exercise, err := s.repo.exercises.GetOrCreateByName(ctx, exDef.Name)
			if err != nil {
				return Plan{}, fmt.Errorf("resolve exercise %q: %w", exDef.Name, err)
			}
			planEx := PlanExercise{
				ExerciseID:      exercise.ID,
				PlannedSetCount: exDef.SetCount,
			}
			for _, setDef := range exDef.Sets {
				planEx.Sets = append(planEx.Sets, PlannedSet{
					TargetWeightKg: setDef.WeightKg,
					TargetReps:     setDef.Reps,
				})
			}
			day.Exercises = append(day.Exercises, planEx)
		}
		plan.Days = append(plan.Days, day)
	}

	created, err := s.CreatePlan(ctx, plan)
	if err != nil {
		return Plan{}, err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "plan imported",
		slog.String("plan_id", created.ID.String()),
		slog.Int("days", len(created.Days)))
	return created, nil
}
