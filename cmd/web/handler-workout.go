package main

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/liftcycle/liftcycle/internal/progression"
)

type workoutDayJSON struct {
	Date         string             `json:"date"`
	Mode         string             `json:"mode"`
	PlanID       *string            `json:"plan_id,omitempty"`
	PlanDayIndex *int               `json:"plan_day_index,omitempty"`
	Entries      []workoutEntryJSON `json:"entries"`
}

type workoutEntryJSON struct {
	ID         string           `json:"id"`
	Position   int              `json:"position"`
	ExerciseID int64            `json:"exercise_id"`
	Sets       []workoutSetJSON `json:"sets"`
}

type workoutSetJSON struct {
	SetNumber      int      `json:"set_number"`
	TargetWeightKg *float64 `json:"target_weight_kg,omitempty"`
	TargetReps     *int     `json:"target_reps,omitempty"`
	WeightKg       *float64 `json:"weight_kg,omitempty"`
	Reps           *int     `json:"reps,omitempty"`
	Completed      bool     `json:"completed"`
	Deleted        bool     `json:"deleted"`
}

func toWorkoutDayJSON(day progression.WorkoutDay) workoutDayJSON {
	out := workoutDayJSON{
		Date:         day.Date.String(),
		Mode:         string(day.Mode),
		PlanDayIndex: day.PlanDayIndex,
		Entries:      []workoutEntryJSON{},
	}
	if day.PlanID != nil {
		idStr := day.PlanID.String()
		out.PlanID = &idStr
	}
	for _, entry := range day.Entries {
		entryJSON := workoutEntryJSON{
			ID:         entry.ID.String(),
			Position:   entry.Position,
			ExerciseID: entry.ExerciseID,
			Sets:       []workoutSetJSON{},
		}
		for _, set := range entry.Sets {
			entryJSON.Sets = append(entryJSON.Sets, workoutSetJSON{
				SetNumber:      set.SetNumber,
				TargetWeightKg: set.TargetWeightKg,
				TargetReps:     set.TargetReps,
				WeightKg:       set.WeightKg,
				Reps:           set.Reps,
				Completed:      set.Completed,
				Deleted:        set.SoftDeleted,
			})
		}
		out.Entries = append(out.Entries, entryJSON)
	}
	return out
}

// workoutStartPOST starts today's workout. With no body it materializes from
// the active cycle; "mode": "free" starts a free workout; a plan reference
// starts from that plan day.
func (app *application) workoutStartPOST(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode     string `json:"mode"`
		PlanID   string `json:"plan_id"`
		DayIndex int    `json:"day_index"`
	}
	if r.ContentLength > 0 && !app.decodeJSON(w, r, &req) {
		return
	}

	var (
		day progression.WorkoutDay
		err error
	)
	switch {
	case req.Mode == string(progression.WorkoutModeFree):
		day, err = app.service.StartFreeWorkout(r.Context())
	case req.PlanID != "":
		var planID uuid.UUID
		if planID, err = uuid.Parse(req.PlanID); err != nil {
			app.clientError(w, r, http.StatusBadRequest, "invalid plan id")
			return
		}
		day, err = app.service.StartWorkoutFromPlan(r.Context(), planID, req.DayIndex)
	default:
		day, err = app.service.StartWorkout(r.Context())
	}
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, toWorkoutDayJSON(day))
}

func (app *application) workoutGET(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	day, err := app.service.GetWorkoutDay(r.Context(), date)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, toWorkoutDayJSON(day))
}

// workoutChangeDayPOST rebuilds the workout from a different day of its plan.
func (app *application) workoutChangeDayPOST(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	var req struct {
		DayIndex       int  `json:"day_index"`
		SkipAndAdvance bool `json:"skip_and_advance"`
	}
	if !app.decodeJSON(w, r, &req) {
		return
	}

	day, err := app.service.ChangeDay(r.Context(), date, req.DayIndex, req.SkipAndAdvance)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, toWorkoutDayJSON(day))
}

func (app *application) parseSetParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	entryID, ok := app.parseUUIDParam(w, r, "entryID")
	if !ok {
		return uuid.Nil, 0, false
	}
	setNumber, err := strconv.Atoi(r.PathValue("setNumber"))
	if err != nil || setNumber < 1 {
		app.clientError(w, r, http.StatusNotFound, "invalid set number")
		return uuid.Nil, 0, false
	}
	return entryID, setNumber, true
}

func (app *application) setLogPOST(w http.ResponseWriter, r *http.Request) {
	entryID, setNumber, ok := app.parseSetParams(w, r)
	if !ok {
		return
	}
	var req struct {
		WeightKg float64 `json:"weight_kg"`
		Reps     int     `json:"reps"`
	}
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.Reps < 1 {
		app.clientError(w, r, http.StatusBadRequest, "reps must be positive")
		return
	}
	if req.WeightKg < 0 {
		app.clientError(w, r, http.StatusBadRequest, "weight must not be negative")
		return
	}

	if err := app.service.LogSet(r.Context(), entryID, setNumber, req.WeightKg, req.Reps); err != nil {
		app.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) setDELETE(w http.ResponseWriter, r *http.Request) {
	entryID, setNumber, ok := app.parseSetParams(w, r)
	if !ok {
		return
	}
	if err := app.service.DeleteSet(r.Context(), entryID, setNumber); err != nil {
		app.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) setRestorePOST(w http.ResponseWriter, r *http.Request) {
	entryID, setNumber, ok := app.parseSetParams(w, r)
	if !ok {
		return
	}
	if err := app.service.RestoreSet(r.Context(), entryID, setNumber); err != nil {
		app.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
