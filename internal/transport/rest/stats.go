package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
)

// statsService defines the minimal interface needed by StatsHandler.
type statsService interface {
	GetDashboard(ctx context.Context) (*domain.Dashboard, error)
	RecordWordView(ctx context.Context, wordID uuid.UUID) error
}

// StatsHandler serves the dashboard and word-view REST endpoints.
type StatsHandler struct {
	svc statsService
	log *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(svc statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: logger.With("handler", "stats")}
}

// GetDashboard handles GET /study/dashboard.
func (h *StatsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDashboardResponse(dashboard))
}

type recordViewRequest struct {
	WordID string `json:"wordId"`
}

// RecordWordView handles POST /study/views.
func (h *StatsHandler) RecordWordView(w http.ResponseWriter, r *http.Request) {
	var req recordViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wordID, err := uuid.Parse(req.WordID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "wordId must be a valid id")
		return
	}

	if err := h.svc.RecordWordView(r.Context(), wordID); err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
