package planfile_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/liftcycle/liftcycle/internal/planfile"
	"github.com/liftcycle/liftcycle/internal/ptr"
)

func TestParse(t *testing.T) {
	t.Parallel()

	doc := `
name: Push Pull Legs
days:
  - name: Push
    exercises:
      - name: Bench press
        sets:
          - weight_kg: 80
            reps: 5
          - weight_kg: 80
            reps: 5
      - name: Overhead press
        set_count: 3
  - name: Pull
    exercises:
      - name: Deadlift
        sets:
          - reps: 5
`
	plan, err := planfile.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := planfile.Plan{
		Name: "Push Pull Legs",
		Days: []planfile.Day{
			{
				Name: "Push",
				Exercises: []planfile.Exercise{
					{
						Name: "Bench press",
						Sets: []planfile.Set{
							{WeightKg: ptr.Ref(80.0), Reps: ptr.Ref(5)},
							{WeightKg: ptr.Ref(80.0), Reps: ptr.Ref(5)},
						},
					},
					{Name: "Overhead press", SetCount: 3},
				},
			},
			{
				Name: "Pull",
				Exercises: []planfile.Exercise{
					{Name: "Deadlift", Sets: []planfile.Set{{Reps: ptr.Ref(5)}}},
				},
			},
		},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing plan name",
			doc: `
days:
  - exercises:
      - name: Squat
        set_count: 3
`,
		},
		{
			name: "no days",
			doc:  `name: Empty`,
		},
		{
			name: "day without exercises",
			doc: `
name: Sparse
days:
  - name: Rest
`,
		},
		{
			name: "exercise without name",
			doc: `
name: Anonymous
days:
  - exercises:
      - set_count: 3
`,
		},
		{
			name: "both sets and set_count",
			doc: `
name: Conflicted
days:
  - exercises:
      - name: Squat
        set_count: 3
        sets:
          - reps: 5
`,
		},
		{
			name: "neither sets nor set_count",
			doc: `
name: Unspecified
days:
  - exercises:
      - name: Squat
`,
		},
		{
			name: "unknown field",
			doc: `
name: Typo
dayz: []
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := planfile.Parse(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
