package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/liftcycle/liftcycle/internal/calendar"
	"github.com/liftcycle/liftcycle/internal/progression"
)

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", slog.Any("error", err))
	}
}

func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		app.clientError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, map[string]string{"error": message})
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", slog.Any("error", err))
	app.writeJSON(w, r, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// serviceError maps the service's sentinel errors to HTTP statuses; anything
// unrecognized is a logged 500.
func (app *application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, progression.ErrNotFound):
		app.clientError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, progression.ErrDayIndexOutOfRange):
		app.clientError(w, r, http.StatusBadRequest, "day index out of range")
	case errors.Is(err, progression.ErrHasCompletedSets):
		app.clientError(w, r, http.StatusConflict, "workout already has completed sets")
	case errors.Is(err, progression.ErrEmptyCycle):
		app.clientError(w, r, http.StatusConflict, "cycle has no plans with days")
	case errors.Is(err, progression.ErrDanglingPlan):
		app.clientError(w, r, http.StatusConflict, "all plans in the cycle have been deleted")
	default:
		app.serverError(w, r, err)
	}
}

// parseDateParam parses the "date" path parameter. On failure it responds 404.
func (app *application) parseDateParam(w http.ResponseWriter, r *http.Request) (calendar.Date, bool) {
	date, err := calendar.Parse(r.PathValue("date"))
	if err != nil {
		app.clientError(w, r, http.StatusNotFound, "invalid date")
		return calendar.Date{}, false
	}
	return date, true
}

// parseUUIDParam parses a UUID path parameter. On failure it responds 404.
func (app *application) parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		app.clientError(w, r, http.StatusNotFound, fmt.Sprintf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}
