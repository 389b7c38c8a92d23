package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/liftcycle/liftcycle/internal/calendar"
	"github.com/liftcycle/liftcycle/internal/progression"
)

type cycleJSON struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Active bool     `json:"active"`
	Plans  []string `json:"plans"`
}

func toCycleJSON(cycle progression.Cycle) cycleJSON {
	out := cycleJSON{
		ID:     cycle.ID.String(),
		Name:   cycle.Name,
		Active: cycle.Active,
		Plans:  []string{},
	}
	for _, item := range cycle.Items {
		out.Plans = append(out.Plans, item.PlanID.String())
	}
	return out
}

func (app *application) cyclesGET(w http.ResponseWriter, r *http.Request) {
	cycles, err := app.service.ListCycles(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	out := make([]cycleJSON, 0, len(cycles))
	for _, cycle := range cycles {
		out = append(out, toCycleJSON(cycle))
	}
	app.writeJSON(w, r, http.StatusOK, out)
}

func (app *application) cyclesPOST(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string   `json:"name"`
		Plans []string `json:"plans"`
	}
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		app.clientError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	cycle := progression.Cycle{Name: req.Name}
	for _, idStr := range req.Plans {
		planID, err := uuid.Parse(idStr)
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest, "invalid plan id "+idStr)
			return
		}
		cycle.Items = append(cycle.Items, progression.CycleItem{PlanID: planID})
	}

	created, err := app.service.CreateCycle(r.Context(), cycle)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, toCycleJSON(created))
}

func (app *application) cycleGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "cycleID")
	if !ok {
		return
	}
	cycle, err := app.service.GetCycle(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, toCycleJSON(cycle))
}

func (app *application) cycleDELETE(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "cycleID")
	if !ok {
		return
	}
	if err := app.service.DeleteCycle(r.Context(), id); err != nil {
		app.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) cycleActivatePOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "cycleID")
	if !ok {
		return
	}
	if err := app.service.SetActiveCycle(r.Context(), id); err != nil {
		app.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cycleCurrentGET responds with the plan day the cycle's pointer currently
// lands on.
func (app *application) cycleCurrentGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "cycleID")
	if !ok {
		return
	}
	view, err := app.service.CurrentCycleDay(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, struct {
		Cycle    cycleJSON   `json:"cycle"`
		Plan     planJSON    `json:"plan"`
		PlanDay  planDayJSON `json:"plan_day"`
		ItemIdx  int         `json:"item_index"`
		DayIdx   int         `json:"day_index"`
		DayCount int         `json:"day_count"`
	}{
		Cycle:    toCycleJSON(view.Cycle),
		Plan:     toPlanJSON(view.Plan),
		PlanDay:  toPlanJSON(view.Plan).Days[view.Progress.DayIndex],
		ItemIdx:  view.Progress.ItemIndex,
		DayIdx:   view.Progress.DayIndex,
		DayCount: len(view.Plan.Days),
	})
}

// cycleCompletePOST records a completion signal for the given date, today by
// default.
func (app *application) cycleCompletePOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "cycleID")
	if !ok {
		return
	}
	var req struct {
		Date string `json:"date"`
	}
	if r.ContentLength > 0 && !app.decodeJSON(w, r, &req) {
		return
	}

	completedOn := app.service.Today()
	if req.Date != "" {
		var err error
		if completedOn, err = calendar.Parse(req.Date); err != nil {
			app.clientError(w, r, http.StatusBadRequest, "invalid date")
			return
		}
	}

	advanced, err := app.service.MarkCycleDayCompleted(r.Context(), id, completedOn)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]bool{"advanced": advanced})
}

// cyclePreviewGET estimates which day of the current plan a date lands on.
func (app *application) cyclePreviewGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseUUIDParam(w, r, "cycleID")
	if !ok {
		return
	}
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	index, err := app.service.PreviewCycleDay(r.Context(), id, date)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]int{"day_index": index})
}
