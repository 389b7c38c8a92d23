package progression

import "github.com/google/uuid"

// expandPlanDay materializes a plan day into concrete loggable entries.
//
// Exercises keep their order. Explicit planned sets become uncompleted sets
// with the targets prefilled; a legacy planned-set count becomes that many
// placeholder sets with no targets. The expansion is pure apart from ID
// generation: it never reads or mutates progress pointers.
func expandPlanDay(day PlanDay) []WorkoutEntry {
	entries := make([]WorkoutEntry, 0, len(day.Exercises))
	for i, ex := range day.Exercises {
		entry := WorkoutEntry{
			ID:         uuid.New(),
			Position:   i,
			ExerciseID: ex.ExerciseID,
		}
		if len(ex.Sets) > 0 {
			for j, planned := range ex.Sets {
				entry.Sets = append(entry.Sets, WorkoutSet{
					SetNumber:      j + 1,
					TargetWeightKg: planned.TargetWeightKg,
					TargetReps:     planned.TargetReps,
				})
			}
		} else {
			for j := range ex.PlannedSetCount {
				entry.Sets = append(entry.Sets, WorkoutSet{SetNumber: j + 1})
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
