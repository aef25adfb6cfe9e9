package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
	"github.com/fluentdeck/backend/internal/service/study"
)

// studyService defines the minimal interface needed by StudyHandler.
type studyService interface {
	GetStudyBatch(ctx context.Context, input study.GetBatchInput) (*study.StudyBatch, error)
	StartSession(ctx context.Context, input study.StartSessionInput) (*domain.StudySession, error)
	GetActiveSession(ctx context.Context) (*domain.StudySession, error)
	SubmitResponse(ctx context.Context, input study.SubmitResponseInput) (*study.SubmitResponseResult, error)
	FinishSession(ctx context.Context, input study.FinishSessionInput) (*domain.StudySession, error)
	ListSessions(ctx context.Context, input study.ListSessionsInput) (*study.SessionPage, error)
	GetWordProgress(ctx context.Context, wordID uuid.UUID) (*domain.WordProgress, error)
}

// StudyHandler serves the study REST endpoints.
type StudyHandler struct {
	svc studyService
	log *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc studyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{svc: svc, log: logger.With("handler", "study")}
}

// GetBatch handles GET /study/batch.
// Query parameters: category_id, max_words, include_new, include_review.
// Inclusion flags default to true when absent.
func (h *StudyHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	categoryID, err := parseOptionalUUID(q.Get("category_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "category_id must be a valid id")
		return
	}

	input := study.GetBatchInput{
		CategoryID:    categoryID,
		IncludeNew:    parseBoolDefault(q.Get("include_new"), true),
		IncludeReview: parseBoolDefault(q.Get("include_review"), true),
	}
	if v := q.Get("max_words"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_words must be an integer")
			return
		}
		// The zero value means "absent" past this point, so an explicit
		// non-positive value must be rejected here.
		if n <= 0 {
			writeError(w, http.StatusBadRequest, "max_words must be positive")
			return
		}
		input.MaxWords = n
	}

	batch, err := h.svc.GetStudyBatch(r.Context(), input)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchResponse(batch))
}

type startSessionRequest struct {
	CategoryID *string `json:"categoryId"`
	Mode       string  `json:"mode"`
}

// StartSession handles POST /study/sessions.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := study.StartSessionInput{Mode: domain.SessionMode(req.Mode)}
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "categoryId must be a valid id")
			return
		}
		input.CategoryID = &id
	}

	session, err := h.svc.StartSession(r.Context(), input)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

// GetActiveSession handles GET /study/sessions/active.
// Returns 204 when the user has no open session.
func (h *StudyHandler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.GetActiveSession(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	if session == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

type submitResponseRequest struct {
	SessionID string `json:"sessionId"`
	WordID    string `json:"wordId"`
	Rating    string `json:"rating"`
}

// SubmitResponse handles POST /study/responses.
func (h *StudyHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req submitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sessionId must be a valid id")
		return
	}
	wordID, err := uuid.Parse(req.WordID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "wordId must be a valid id")
		return
	}

	result, err := h.svc.SubmitResponse(r.Context(), study.SubmitResponseInput{
		SessionID: sessionID,
		WordID:    wordID,
		Rating:    domain.DifficultyRating(req.Rating),
	})
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponseResult{
		Progress: toProgressResponse(result.Progress),
		Session:  toSessionResponse(result.Session),
	})
}

type finishSessionRequest struct {
	Counters countersPayload `json:"counters"`
}

// FinishSession handles POST /study/sessions/{id}/finish.
func (h *StudyHandler) FinishSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "session id must be a valid id")
		return
	}

	var req finishSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.svc.FinishSession(r.Context(), study.FinishSessionInput{
		SessionID: sessionID,
		Counters: domain.SessionCounters{
			WordsStudied:   req.Counters.WordsStudied,
			WordsLearned:   req.Counters.WordsLearned,
			CorrectAnswers: req.Counters.CorrectAnswers,
			TotalAnswers:   req.Counters.TotalAnswers,
		},
	})
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// ListSessions handles GET /study/sessions.
// Query parameters: limit, offset.
func (h *StudyHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var input study.ListSessionsInput
	for param, dst := range map[string]*int{"limit": &input.Limit, "offset": &input.Offset} {
		if v := q.Get(param); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, param+" must be an integer")
				return
			}
			*dst = n
		}
	}

	page, err := h.svc.ListSessions(r.Context(), input)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	sessions := make([]sessionResponse, 0, len(page.Sessions))
	for _, s := range page.Sessions {
		sessions = append(sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, sessionPageResponse{Sessions: sessions, Total: page.Total})
}

// GetWordProgress handles GET /study/words/{id}/progress.
func (h *StudyHandler) GetWordProgress(w http.ResponseWriter, r *http.Request) {
	wordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "word id must be a valid id")
		return
	}

	progress, err := h.svc.GetWordProgress(r.Context(), wordID)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressResponse(progress))
}

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}
