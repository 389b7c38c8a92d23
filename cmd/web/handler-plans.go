package main

import (
	"net/http"
	"time"

	"github.com/liftcycle/liftcycle/internal/progression"
)

type planJSON struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	Days      []planDayJSON `json:"days"`
}

type planDayJSON struct {
	Index     int                `json:"index"`
	Name      string             `json:"name,omitempty"`
	Exercises []planExerciseJSON `json:"exercises"`
}

type planExerciseJSON struct {
	ExerciseID int64            `json:"exercise_id"`
	SetCount   int              `json:"set_count,omitempty"`
	Sets       []plannedSetJSON `json:"sets,omitempty"`
}

type plannedSetJSON struct {
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Reps     *int     `json:"reps,omitempty"`
}

func toPlanJSON(plan progression.Plan) planJSON {
	out := planJSON{
		ID:        plan.ID.String(),
		Name:      plan.Name,
		CreatedAt: plan.CreatedAt,
		Days:      []planDayJSON{},
	}
	for _, day := range plan.Days {
		dayJSON := planDayJSON{Index: day.Index, Name: day.Name, Exercises: []planExerciseJSON{}}
		for _, ex := range day.Exercises {
			exJSON := planExerciseJSON{ExerciseID: ex.ExerciseID, SetCount: ex.PlannedSetCount}
			for _, set := range ex.Sets {
				exJSON.Sets = append(exJSON.Sets, plannedSetJSON{WeightKg: set.TargetWeightKg, Reps: set.TargetReps})
			}
			dayJSON.Exercises = append(dayJSON.Exercises, exJSON)
		}
		out.Days = append(out.Days, dayJSON)
	}
	return out
}

type planWriteRequest struct {
	Name string        `json:"name"`
	Days []planDayJSON `json:"days"`
}

func (req planWriteRequest) toPlan() progression.Plan {
	plan := progression.Plan{Name: req.Name}
	for _, dayJSON := range req.Days {
		day := progression.PlanDay{Name: dayJSON.Name}
		for _, exJSON := range dayJSON.Exercises {
			ex := progression.PlanExercise{
				ExerciseID:      exJSON.ExerciseID,
				PlannedSetCount: exJSON.SetCount,
			}
			for _, setJSON := range exJSON.Sets {
				ex.Sets = append(ex.Sets, progression.PlannedSet{
					TargetWeightKg: setJSON.WeightKg,
					TargetReps:     setJSON.Reps,
				})
			}
			day.Exercises = append(day.Exercises, ex)
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

func (app *application) plansGET(w http.ResponseWriter, r *http.Request) {
	plans, err := app.service.ListPlans(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	out := make([]planJSON, 0, len(plans))
	for _, plan := range plans {
		out = append(out, toPlanJSON(plan))
	}
	app.writeJSON(w, r, http.StatusOK, out)
}

func (app *application) plansPOST(w http.ResponseWriter, r *http.Request) {
	var req planWriteRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		app.clientError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	plan, err := app.service.CreatePlan(r.Context(), req.toPlan())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, toPlanJSON(plan))
}

func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "planID")
	if !ok {
		return
	}
	plan, err := app.service.GetPlan(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, toPlanJSON(plan))
}

func (app *application) planPUT(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "planID")
	if !ok {
		return
	}
	var req planWriteRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		app.clientError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	err := app.service.UpdatePlan(r.Context(), id, func(plan *progression.Plan) (bool, error) {
		next := req.toPlan()
		plan.Name = next.Name
		plan.Days = next.Days
		return true, nil
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	plan, err := app.service.GetPlan(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, toPlanJSON(plan))
}

func (app *application) planDELETE(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "planID")
	if !ok {
		return
	}
	if err := app.service.DeletePlan(r.Context(), id); err != nil {
		app.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// planOpenPOST records an app open against a standalone plan and responds
// with the day the user should train.
func (app *application) planOpenPOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "planID")
	if !ok {
		return
	}
	index, err := app.service.OpenPlan(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]int{"current_day_index": index})
}
