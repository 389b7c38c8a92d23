// Package progression implements training plans, plan rotations (cycles), and
// the pointer logic that decides which plan day is current, how it advances
// across calendar days, and how workouts are materialized from plan days.
package progression

import (
	"time"

	"github.com/google/uuid"
	"github.com/liftcycle/liftcycle/internal/calendar"
)

// Exercise is a catalog entry referenced by plans and workout entries.
type Exercise struct {
	ID                  int64
	Name                string
	DescriptionMarkdown string
}

// Plan is a named multi-day training template.
type Plan struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	Days      []PlanDay
}

// PlanDay is one day of a plan. Index is 1-based and contiguous within the
// plan; normalizePlan restores that invariant after any structural edit.
type PlanDay struct {
	Index     int
	Name      string
	Exercises []PlanExercise
}

// PlanExercise is an exercise slot within a plan day. Either Sets holds
// explicit planned sets, or PlannedSetCount carries the legacy "N sets"
// representation with no targets. When Sets is non-empty it wins.
type PlanExercise struct {
	ID              uuid.UUID
	ExerciseID      int64
	PlannedSetCount int
	Sets            []PlannedSet
}

// PlannedSet is a single planned set. Nil targets mean "unspecified"; the UI
// falls back to the previous logged value.
type PlannedSet struct {
	TargetWeightKg *float64
	TargetReps     *int
}

// Cycle is an ordered rotation of plans, advanced one plan day at a time.
// At most one cycle is active at a time; SetActiveCycle is the only mutation
// path for the Active flag.
type Cycle struct {
	ID     uuid.UUID
	Name   string
	Active bool
	Items  []CycleItem
}

// CycleItem references a plan by ID. The plan may be deleted independently;
// progression skips items whose plan no longer resolves.
type CycleItem struct {
	Position int
	PlanID   uuid.UUID
}

// CycleProgress is the rotation pointer: ItemIndex into the cycle's items and
// DayIndex into the current plan's days, both 0-based. The advance algorithms
// keep both in range for the currently referenced plan.
type CycleProgress struct {
	CycleID         uuid.UUID
	ItemIndex       int
	DayIndex        int
	LastAdvancedAt  *time.Time
	LastCompletedOn *calendar.Date
}

// PlanProgress is the single-plan pointer. CurrentDayIndex is 1-based.
// A nil LastOpenedOn means the plan has never been opened.
type PlanProgress struct {
	PlanID          uuid.UUID
	CurrentDayIndex int
	LastOpenedOn    *calendar.Date
}

// WorkoutMode distinguishes free-form logging from plan-derived workouts.
type WorkoutMode string

const (
	WorkoutModeFree WorkoutMode = "free"
	WorkoutModePlan WorkoutMode = "plan"
)

// WorkoutDay is the concrete log for one calendar day. Exactly one exists per
// date; creation goes through lookup-before-insert. The plan reference is
// informational only and never authoritative for progression.
type WorkoutDay struct {
	Date         calendar.Date
	Mode         WorkoutMode
	PlanID       *uuid.UUID
	PlanDayIndex *int
	Entries      []WorkoutEntry
}

// WorkoutEntry is one exercise within a workout day, in logged order.
type WorkoutEntry struct {
	ID         uuid.UUID
	Position   int
	ExerciseID int64
	Sets       []WorkoutSet
}

// WorkoutSet is a loggable set. Target values are prefilled from the plan;
// WeightKg/Reps are what the user actually logged. SoftDeleted is a tombstone
// so user deletes stay restorable; logged sets are never physically removed.
type WorkoutSet struct {
	SetNumber      int
	TargetWeightKg *float64
	TargetReps     *int
	WeightKg       *float64
	Reps           *int
	Completed      bool
	SoftDeleted    bool
}

// HasCompletedSets reports whether any set on the day has been completed.
// Tombstoned sets count too: they are history, and the day-change engine must
// not destroy them.
func (d WorkoutDay) HasCompletedSets() bool {
	for _, entry := range d.Entries {
		for _, set := range entry.Sets {
			if set.Completed {
				return true
			}
		}
	}
	return false
}

// FullyLogged reports whether every entry has at least one completed,
// non-tombstoned set. A day with no entries is not fully logged.
func (d WorkoutDay) FullyLogged() bool {
	if len(d.Entries) == 0 {
		return false
	}
	for _, entry := range d.Entries {
		logged := false
		for _, set := range entry.Sets {
			if set.Completed && !set.SoftDeleted {
				logged = true
				break
			}
		}
		if !logged {
			return false
		}
	}
	return true
}

// normalizePlan restores the structural invariants after an edit: day indexes
// contiguous 1..N, exercise positions implicit in slice order, and identifiers
// assigned where missing.
func normalizePlan(p *Plan) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Days {
		p.Days[i].Index = i + 1
		for j := range p.Days[i].Exercises {
			ex := &p.Days[i].Exercises[j]
			if ex.ID == uuid.Nil {
				ex.ID = uuid.New()
			}
			if len(ex.Sets) > 0 {
				ex.PlannedSetCount = 0
			}
		}
	}
}

// normalizeCycle renumbers item positions to match slice order.
func normalizeCycle(c *Cycle) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Items {
		c.Items[i].Position = i
	}
}
