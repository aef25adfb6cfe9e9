// Package session implements the StudySession repository using PostgreSQL.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fluentdeck/backend/internal/adapter/postgres"
	"github.com/fluentdeck/backend/internal/domain"
)

// Repo provides study session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const sessionColumns = `id, user_id, category_id, mode, status,
words_studied, words_learned, correct_answers, total_answers,
started_at, ended_at, duration_minutes, last_activity_at, created_at`

const createSQL = `
INSERT INTO study_sessions (id, user_id, category_id, mode, status,
    started_at, last_activity_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
RETURNING ` + sessionColumns

const getByIDSQL = `
SELECT ` + sessionColumns + `
FROM study_sessions
WHERE id = $1 AND user_id = $2`

const getActiveSQL = `
SELECT ` + sessionColumns + `
FROM study_sessions
WHERE user_id = $1 AND status = 'ACTIVE'`

const incrementCountersSQL = `
UPDATE study_sessions
SET words_studied   = words_studied + $3,
    words_learned   = words_learned + $4,
    correct_answers = correct_answers + $5,
    total_answers   = total_answers + $6,
    last_activity_at = $7
WHERE id = $1 AND user_id = $2 AND status = 'ACTIVE'
RETURNING ` + sessionColumns

const finishSQL = `
UPDATE study_sessions
SET status = 'FINISHED',
    words_studied    = $3,
    words_learned    = $4,
    correct_answers  = $5,
    total_answers    = $6,
    ended_at         = $7,
    duration_minutes = $8,
    last_activity_at = $7
WHERE id = $1 AND user_id = $2 AND status = 'ACTIVE'
RETURNING ` + sessionColumns

const abandonSQL = `
UPDATE study_sessions
SET status = 'ABANDONED',
    ended_at         = last_activity_at,
    duration_minutes = $2
WHERE id = $1 AND status = 'ACTIVE'
RETURNING ` + sessionColumns

const listByUserSQL = `
SELECT ` + sessionColumns + `
FROM study_sessions
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

const countByUserSQL = `
SELECT count(*) FROM study_sessions WHERE user_id = $1`

const listStaleActiveSQL = `
SELECT ` + sessionColumns + `
FROM study_sessions
WHERE status = 'ACTIVE' AND last_activity_at < $1
ORDER BY last_activity_at ASC
LIMIT $2`

// Create inserts a new ACTIVE session. A partial unique index on
// (user_id) WHERE status = 'ACTIVE' backs the one-open-session rule, so a
// concurrent start for the same user surfaces as domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, s *domain.StudySession) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		s.ID, s.UserID, s.CategoryID, string(s.Mode), string(s.Status), s.StartedAt)

	created, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "study_session", s.ID)
	}

	return created, nil
}

// GetByID returns the user's session with the given id.
func (r *Repo) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, getByIDSQL, sessionID, userID))
	if err != nil {
		return nil, postgres.MapError(err, "study_session", sessionID)
	}

	return s, nil
}

// GetActive returns the user's single ACTIVE session, or domain.ErrNotFound.
func (r *Repo) GetActive(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, getActiveSQL, userID))
	if err != nil {
		return nil, postgres.MapError(err, "study_session", userID)
	}

	return s, nil
}

// IncrementCounters bumps the session's running counters and refreshes
// last_activity_at, but only while the session is still ACTIVE. A session
// finished by a concurrent request yields domain.ErrConflict.
func (r *Repo) IncrementCounters(ctx context.Context, userID, sessionID uuid.UUID, delta domain.SessionCounters, at time.Time) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, incrementCountersSQL,
		sessionID, userID,
		delta.WordsStudied, delta.WordsLearned, delta.CorrectAnswers, delta.TotalAnswers,
		at)

	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("study_session %s is not active: %w", sessionID, domain.ErrConflict)
		}
		return nil, postgres.MapError(err, "study_session", sessionID)
	}

	return s, nil
}

// Finish closes an ACTIVE session with the caller-supplied final counters.
// Zero rows means the session was not ACTIVE anymore; callers fetch the
// stored record to decide between idempotent success and an error.
func (r *Repo) Finish(ctx context.Context, userID, sessionID uuid.UUID, counters domain.SessionCounters, endedAt time.Time, durationMinutes int) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, finishSQL,
		sessionID, userID,
		counters.WordsStudied, counters.WordsLearned, counters.CorrectAnswers, counters.TotalAnswers,
		endedAt, durationMinutes)

	s, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "study_session", sessionID)
	}

	return s, nil
}

// Abandon closes an ACTIVE session without crediting statistics, stamping
// ended_at with the last recorded activity. Used by the stale-session sweep.
func (r *Repo) Abandon(ctx context.Context, sessionID uuid.UUID, durationMinutes int) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, abandonSQL, sessionID, durationMinutes))
	if err != nil {
		return nil, postgres.MapError(err, "study_session", sessionID)
	}

	return s, nil
}

// ListByUser returns the user's sessions newest-first plus the total count.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.StudySession, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := querier.QueryRow(ctx, countByUserSQL, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	rows, err := querier.Query(ctx, listByUserSQL, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, total, nil
}

// ListStaleActive returns ACTIVE sessions idle since before the cutoff,
// oldest first.
func (r *Repo) ListStaleActive(ctx context.Context, idleSince time.Time, limit int) ([]*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listStaleActiveSQL, idleSince, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale sessions: %w", err)
	}
	defer rows.Close()

	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("list stale sessions: %w", err)
	}

	return sessions, nil
}

func scanSession(row pgx.Row) (*domain.StudySession, error) {
	var (
		s      domain.StudySession
		mode   string
		status string
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.CategoryID, &mode, &status,
		&s.Counters.WordsStudied, &s.Counters.WordsLearned,
		&s.Counters.CorrectAnswers, &s.Counters.TotalAnswers,
		&s.StartedAt, &s.EndedAt, &s.DurationMinutes, &s.LastActivityAt, &s.CreatedAt); err != nil {
		return nil, err
	}

	s.Mode = domain.SessionMode(mode)
	s.Status = domain.SessionStatus(status)
	if !s.Mode.IsValid() || !s.Status.IsValid() {
		return nil, fmt.Errorf("session %s: unknown mode %q or status %q", s.ID, mode, status)
	}

	return &s, nil
}

func scanSessions(rows pgx.Rows) ([]*domain.StudySession, error) {
	sessions := []*domain.StudySession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
