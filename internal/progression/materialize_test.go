package progression

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/liftcycle/liftcycle/internal/ptr"
)

func TestExpandPlanDay(t *testing.T) {
	t.Parallel()

	day := PlanDay{
		Index: 1,
		Name:  "Push",
		Exercises: []PlanExercise{
			{
				ID:         uuid.New(),
				ExerciseID: 10,
				Sets: []PlannedSet{
					{TargetWeightKg: ptr.Ref(80.0), TargetReps: ptr.Ref(5)},
					{TargetWeightKg: ptr.Ref(82.5), TargetReps: ptr.Ref(5)},
					{TargetReps: ptr.Ref(8)},
				},
			},
			{
				ID:              uuid.New(),
				ExerciseID:      11,
				PlannedSetCount: 2,
			},
		},
	}

	got := expandPlanDay(day)

	want := []WorkoutEntry{
		{
			Position:   0,
			ExerciseID: 10,
			Sets: []WorkoutSet{
				{SetNumber: 1, TargetWeightKg: ptr.Ref(80.0), TargetReps: ptr.Ref(5)},
				{SetNumber: 2, TargetWeightKg: ptr.Ref(82.5), TargetReps: ptr.Ref(5)},
				{SetNumber: 3, TargetReps: ptr.Ref(8)},
			},
		},
		{
			Position:   1,
			ExerciseID: 11,
			Sets: []WorkoutSet{
				{SetNumber: 1},
				{SetNumber: 2},
			},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(WorkoutEntry{}, "ID")); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	for i, entry := range got {
		if entry.ID == uuid.Nil {
			t.Errorf("entry %d has no ID", i)
		}
	}
}

func TestExpandPlanDayEmpty(t *testing.T) {
	t.Parallel()

	got := expandPlanDay(PlanDay{Index: 1, Name: "Rest"})
	if len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}
