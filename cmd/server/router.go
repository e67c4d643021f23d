package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/flashdeck/flashdeck-api/internal/api"
	apimiddleware "github.com/flashdeck/flashdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	scheduleHandler := api.NewScheduleHandler(app.schedulerService, app.logger)
	sessionHandler := api.NewSessionHandler(app.schedulerService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/schedule/reviews", scheduleHandler.SubmitReviewBatch)
		r.Get("/schedule", scheduleHandler.GetSchedule)
		r.Post("/sessions", sessionHandler.RecordSession)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
