package main

import (
	"net/http"
	"strconv"

	"github.com/liftcycle/liftcycle/internal/progression"
)

type exerciseJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	exercises, err := app.service.ListExercises(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	out := make([]exerciseJSON, 0, len(exercises))
	for _, ex := range exercises {
		out = append(out, exerciseJSON{ID: ex.ID, Name: ex.Name})
	}
	app.writeJSON(w, r, http.StatusOK, out)
}

func (app *application) exercisesPOST(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                string `json:"name"`
		DescriptionMarkdown string `json:"description_markdown"`
	}
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		app.clientError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	ex, err := app.service.CreateExercise(r.Context(), progression.Exercise{
		Name:                req.Name,
		DescriptionMarkdown: req.DescriptionMarkdown,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, exerciseJSON{ID: ex.ID, Name: ex.Name})
}

// exerciseInfoGET renders the exercise description to HTML.
func (app *application) exerciseInfoGET(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("exerciseID"), 10, 64)
	if err != nil {
		app.clientError(w, r, http.StatusNotFound, "invalid exercise id")
		return
	}
	html, err := app.service.ExerciseInfoHTML(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"html": html})
}
