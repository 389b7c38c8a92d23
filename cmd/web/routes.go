package main

import "net/http"

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/plans", app.plansGET)
	mux.HandleFunc("POST /api/plans", app.plansPOST)
	mux.HandleFunc("GET /api/plans/{planID}", app.planGET)
	mux.HandleFunc("PUT /api/plans/{planID}", app.planPUT)
	mux.HandleFunc("DELETE /api/plans/{planID}", app.planDELETE)
	mux.HandleFunc("POST /api/plans/{planID}/open", app.planOpenPOST)

	mux.HandleFunc("GET /api/cycles", app.cyclesGET)
	mux.HandleFunc("POST /api/cycles", app.cyclesPOST)
	mux.HandleFunc("GET /api/cycles/{cycleID}", app.cycleGET)
	mux.HandleFunc("DELETE /api/cycles/{cycleID}", app.cycleDELETE)
	mux.HandleFunc("POST /api/cycles/{cycleID}/activate", app.cycleActivatePOST)
	mux.HandleFunc("GET /api/cycles/{cycleID}/current", app.cycleCurrentGET)
	mux.HandleFunc("POST /api/cycles/{cycleID}/complete", app.cycleCompletePOST)
	mux.HandleFunc("GET /api/cycles/{cycleID}/preview/{date}", app.cyclePreviewGET)

	mux.HandleFunc("POST /api/workouts/start", app.workoutStartPOST)
	mux.HandleFunc("GET /api/workouts/{date}", app.workoutGET)
	mux.HandleFunc("POST /api/workouts/{date}/change-day", app.workoutChangeDayPOST)
	mux.HandleFunc("POST /api/workouts/{date}/entries/{entryID}/sets/{setNumber}", app.setLogPOST)
	mux.HandleFunc("DELETE /api/workouts/{date}/entries/{entryID}/sets/{setNumber}", app.setDELETE)
	mux.HandleFunc("POST /api/workouts/{date}/entries/{entryID}/sets/{setNumber}/restore", app.setRestorePOST)

	mux.HandleFunc("GET /api/exercises", app.exercisesGET)
	mux.HandleFunc("POST /api/exercises", app.exercisesPOST)
	mux.HandleFunc("GET /api/exercises/{exerciseID}/info", app.exerciseInfoGET)

	mux.HandleFunc("GET /api/healthy", app.healthy)

	return app.recoverPanic(app.logAndTraceRequest(secureHeaders(noCache(app.timeout(mux)))))
}
