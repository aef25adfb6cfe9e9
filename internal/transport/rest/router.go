package rest

import (
	"net/http"

	"github.com/fluentdeck/backend/internal/transport/middleware"
)

// NewRouter assembles the HTTP routing table. Health probes are open;
// everything under /api/v1/ requires authentication.
func NewRouter(
	health *HealthHandler,
	studyHandler *StudyHandler,
	statsHandler *StatsHandler,
	auth middleware.Middleware,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/study/batch", studyHandler.GetBatch)
	api.HandleFunc("POST /api/v1/study/sessions", studyHandler.StartSession)
	api.HandleFunc("GET /api/v1/study/sessions", studyHandler.ListSessions)
	api.HandleFunc("GET /api/v1/study/sessions/active", studyHandler.GetActiveSession)
	api.HandleFunc("POST /api/v1/study/sessions/{id}/finish", studyHandler.FinishSession)
	api.HandleFunc("POST /api/v1/study/responses", studyHandler.SubmitResponse)
	api.HandleFunc("GET /api/v1/study/words/{id}/progress", studyHandler.GetWordProgress)
	api.HandleFunc("GET /api/v1/study/dashboard", statsHandler.GetDashboard)
	api.HandleFunc("POST /api/v1/study/views", statsHandler.RecordWordView)

	mux.Handle("/api/v1/", auth(api))

	return mux
}
