// Package response implements the StudyResponse log repository using
// PostgreSQL. The log is append-only; it doubles as the source of truth for
// whether a word has already been rated within a session.
package response

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fluentdeck/backend/internal/adapter/postgres"
	"github.com/fluentdeck/backend/internal/domain"
)

// Repo provides study response persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new response repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const responseColumns = `id, session_id, user_id, word_id, rating,
status_before, status_after, responded_at`

const createSQL = `
INSERT INTO study_responses (id, session_id, user_id, word_id, rating,
    status_before, status_after, responded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + responseColumns

const existsSQL = `
SELECT EXISTS (
    SELECT 1 FROM study_responses WHERE session_id = $1 AND word_id = $2
)`

const learnedInSessionSQL = `
SELECT EXISTS (
    SELECT 1 FROM study_responses
    WHERE session_id = $1 AND word_id = $2 AND status_after = ANY($3)
)`

const listBySessionSQL = `
SELECT ` + responseColumns + `
FROM study_responses
WHERE session_id = $1 AND user_id = $2
ORDER BY responded_at ASC, id ASC`

// Create appends one response to the log.
func (r *Repo) Create(ctx context.Context, resp *domain.StudyResponse) (*domain.StudyResponse, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		resp.ID, resp.SessionID, resp.UserID, resp.WordID, string(resp.Rating),
		string(resp.StatusBefore), string(resp.StatusAfter), resp.RespondedAt)

	created, err := scanResponse(row)
	if err != nil {
		return nil, postgres.MapError(err, "study_response", resp.ID)
	}

	return created, nil
}

// ExistsForWord reports whether the session already holds a response for
// the word. Drives the words_studied first-rating rule.
func (r *Repo) ExistsForWord(ctx context.Context, sessionID, wordID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsSQL, sessionID, wordID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check response exists: %w", err)
	}

	return exists, nil
}

// LearnedInSession reports whether an earlier response in the session
// already moved the word into LEARNED or MASTERED. Drives the
// once-per-session words_learned rule.
func (r *Repo) LearnedInSession(ctx context.Context, sessionID, wordID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	learnedStatuses := []string{
		string(domain.LearningStatusLearned),
		string(domain.LearningStatusMastered),
	}

	var learned bool
	if err := querier.QueryRow(ctx, learnedInSessionSQL, sessionID, wordID, learnedStatuses).Scan(&learned); err != nil {
		return false, fmt.Errorf("check learned in session: %w", err)
	}

	return learned, nil
}

// ListBySession returns the session's responses in submission order.
func (r *Repo) ListBySession(ctx context.Context, userID, sessionID uuid.UUID) ([]*domain.StudyResponse, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listBySessionSQL, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	responses := []*domain.StudyResponse{}
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("list responses: %w", err)
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	return responses, nil
}

func scanResponse(row pgx.Row) (*domain.StudyResponse, error) {
	var (
		resp   domain.StudyResponse
		rating string
		before string
		after  string
	)
	if err := row.Scan(&resp.ID, &resp.SessionID, &resp.UserID, &resp.WordID,
		&rating, &before, &after, &resp.RespondedAt); err != nil {
		return nil, err
	}

	resp.Rating = domain.DifficultyRating(rating)
	if !resp.Rating.IsValid() {
		return nil, fmt.Errorf("response %s: unknown rating %q", resp.ID, rating)
	}

	var ok bool
	if resp.StatusBefore, ok = domain.ParseLearningStatus(before); !ok {
		return nil, fmt.Errorf("response %s: unknown status %q", resp.ID, before)
	}
	if resp.StatusAfter, ok = domain.ParseLearningStatus(after); !ok {
		return nil, fmt.Errorf("response %s: unknown status %q", resp.ID, after)
	}

	return &resp, nil
}
