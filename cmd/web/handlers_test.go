package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/liftcycle/liftcycle/internal/progression"
	"github.com/liftcycle/liftcycle/internal/sqlite"
	"github.com/liftcycle/liftcycle/internal/testhelpers"
)

func newTestApplication(t *testing.T) (*application, *httptest.Server) {
	t.Helper()
	ctx := context.Background()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})

	app := &application{
		logger: logger,
		service: progression.NewService(db, logger, progression.Config{
			TransitionHour: 3,
			Now: func() time.Time {
				return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
			},
		}),
	}
	server := httptest.NewServer(app.routes())
	t.Cleanup(server.Close)
	return app, server
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &reqBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

// seedPlanAndCycle creates an exercise, a plan with the given day shapes, and
// an activated cycle over that plan, all through the API.
func seedPlanAndCycle(t *testing.T, baseURL string, daySetCounts ...int) (planID, cycleID string) {
	t.Helper()

	var ex exerciseJSON
	resp := doJSON(t, http.MethodPost, baseURL+"/api/exercises",
		map[string]string{"name": "Squat"}, &ex)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create exercise: status %d", resp.StatusCode)
	}

	days := []map[string]any{}
	for _, count := range daySetCounts {
		days = append(days, map[string]any{
			"exercises": []map[string]any{{"exercise_id": ex.ID, "set_count": count}},
		})
	}
	var plan planJSON
	resp = doJSON(t, http.MethodPost, baseURL+"/api/plans",
		map[string]any{"name": "Base", "days": days}, &plan)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create plan: status %d", resp.StatusCode)
	}

	var cycle cycleJSON
	resp = doJSON(t, http.MethodPost, baseURL+"/api/cycles",
		map[string]any{"name": "Rotation", "plans": []string{plan.ID}}, &cycle)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create cycle: status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, baseURL+"/api/cycles/"+cycle.ID+"/activate", nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("activate cycle: status %d", resp.StatusCode)
	}
	return plan.ID, cycle.ID
}

func TestHealthy(t *testing.T) {
	t.Parallel()
	_, server := newTestApplication(t)

	var body map[string]string
	resp := doJSON(t, http.MethodGet, server.URL+"/api/healthy", nil, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestWorkoutLifecycle(t *testing.T) {
	t.Parallel()
	_, server := newTestApplication(t)
	seedPlanAndCycle(t, server.URL, 2, 3)

	// Start materializes day 1 from the active cycle.
	var day workoutDayJSON
	resp := doJSON(t, http.MethodPost, server.URL+"/api/workouts/start", nil, &day)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start workout: status %d", resp.StatusCode)
	}
	if day.Date != "2026-08-24" {
		t.Errorf("date = %s, want 2026-08-24", day.Date)
	}
	if len(day.Entries) != 1 || len(day.Entries[0].Sets) != 2 {
		t.Fatalf("materialized %d entries, want 1 with 2 sets", len(day.Entries))
	}

	// Log the first set.
	setURL := fmt.Sprintf("%s/api/workouts/%s/entries/%s/sets/1", server.URL, day.Date, day.Entries[0].ID)
	resp = doJSON(t, http.MethodPost, setURL, map[string]any{"weight_kg": 100, "reps": 5}, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("log set: status %d", resp.StatusCode)
	}

	// Day change is refused now that a set is completed.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/workouts/"+day.Date+"/change-day",
		map[string]any{"day_index": 2}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("change day after logging: status %d, want 409", resp.StatusCode)
	}

	// Tombstone and restore the set.
	resp = doJSON(t, http.MethodDelete, setURL, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete set: status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, setURL+"/restore", nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("restore set: status %d", resp.StatusCode)
	}

	var got workoutDayJSON
	resp = doJSON(t, http.MethodGet, server.URL+"/api/workouts/"+day.Date, nil, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get workout: status %d", resp.StatusCode)
	}
	set := got.Entries[0].Sets[0]
	if !set.Completed || set.Deleted {
		t.Errorf("set completed=%v deleted=%v, want true, false", set.Completed, set.Deleted)
	}
	if set.WeightKg == nil || *set.WeightKg != 100 {
		t.Errorf("weight = %v, want 100", set.WeightKg)
	}
}

func TestChangeDayBeforeLogging(t *testing.T) {
	t.Parallel()
	_, server := newTestApplication(t)
	seedPlanAndCycle(t, server.URL, 2, 3)

	var day workoutDayJSON
	resp := doJSON(t, http.MethodPost, server.URL+"/api/workouts/start", nil, &day)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start workout: status %d", resp.StatusCode)
	}

	var changed workoutDayJSON
	resp = doJSON(t, http.MethodPost, server.URL+"/api/workouts/"+day.Date+"/change-day",
		map[string]any{"day_index": 2, "skip_and_advance": true}, &changed)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("change day: status %d", resp.StatusCode)
	}
	if changed.PlanDayIndex == nil || *changed.PlanDayIndex != 2 {
		t.Errorf("plan day index = %v, want 2", changed.PlanDayIndex)
	}
	if len(changed.Entries) != 1 || len(changed.Entries[0].Sets) != 3 {
		t.Fatalf("rebuilt %d entries, want 1 with 3 sets", len(changed.Entries))
	}

	// Out-of-range target is a 400.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/workouts/"+day.Date+"/change-day",
		map[string]any{"day_index": 9}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out-of-range change day: status %d, want 400", resp.StatusCode)
	}
}

func TestCycleCurrentAndComplete(t *testing.T) {
	t.Parallel()
	_, server := newTestApplication(t)
	_, cycleID := seedPlanAndCycle(t, server.URL, 2, 3)

	var current struct {
		DayIdx   int `json:"day_index"`
		DayCount int `json:"day_count"`
	}
	resp := doJSON(t, http.MethodGet, server.URL+"/api/cycles/"+cycleID+"/current", nil, &current)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cycle current: status %d", resp.StatusCode)
	}
	if current.DayIdx != 0 || current.DayCount != 2 {
		t.Errorf("pointer = day %d of %d, want day 0 of 2", current.DayIdx, current.DayCount)
	}

	var completion map[string]bool
	resp = doJSON(t, http.MethodPost, server.URL+"/api/cycles/"+cycleID+"/complete", nil, &completion)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cycle complete: status %d", resp.StatusCode)
	}
	if !completion["advanced"] {
		t.Error("first completion did not advance")
	}

	// Same day completion is a no-op.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/cycles/"+cycleID+"/complete", nil, &completion)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat completion: status %d", resp.StatusCode)
	}
	if completion["advanced"] {
		t.Error("repeated completion advanced again")
	}
}

func TestUnknownWorkoutIs404(t *testing.T) {
	t.Parallel()
	_, server := newTestApplication(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/workouts/2026-01-01", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestPlanOpenEndpoint(t *testing.T) {
	t.Parallel()
	_, server := newTestApplication(t)
	planID, _ := seedPlanAndCycle(t, server.URL, 1, 1)

	var opened map[string]int
	resp := doJSON(t, http.MethodPost, server.URL+"/api/plans/"+planID+"/open", nil, &opened)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open plan: status %d", resp.StatusCode)
	}
	if opened["current_day_index"] != 1 {
		t.Errorf("current day index = %d, want 1", opened["current_day_index"])
	}
}
