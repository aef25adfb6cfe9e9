package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
	"github.com/fluentdeck/backend/pkg/ctxutil"
)

// GetActiveSession returns the user's active study session, or nil if none.
func (s *Service) GetActiveSession(ctx context.Context) (*domain.StudySession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.sessions.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return session, nil
}

// StartSession opens a new study session. A user holds at most one open
// session; starting while one exists fails with a conflict naming it.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (*domain.StudySession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.StudySession{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     input.CategoryID,
		Mode:           input.Mode,
		Status:         domain.SessionStatusActive,
		StartedAt:      now,
		LastActivityAt: now,
	}

	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("user already has an open session: %w", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.InfoContext(ctx, "session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", created.ID.String()),
		slog.String("mode", string(created.Mode)),
	)

	return created, nil
}

// FinishSession closes a session exactly once and credits the user's
// cumulative statistics in the same transaction. The client's submitted
// counters are authoritative for the final record. Finishing an already
// FINISHED session returns the stored record unchanged.
func (s *Service) FinishSession(ctx context.Context, input FinishSessionInput) (*domain.StudySession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, userID, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	switch session.Status {
	case domain.SessionStatusFinished:
		return session, nil
	case domain.SessionStatusAbandoned:
		return nil, fmt.Errorf("session %s was abandoned: %w", session.ID, domain.ErrConflict)
	}

	now := s.clock.Now()
	var finished *domain.StudySession

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var finErr error
		finished, finErr = s.sessions.Finish(txCtx, userID, input.SessionID,
			input.Counters, now, session.DurationMinutesAt(now))
		if finErr != nil {
			return finErr
		}

		return s.stats.RecordSessionCompletion(txCtx, userID, now, finished)
	})
	if err != nil {
		// Lost a close race: the winner already finished the session.
		if errors.Is(err, domain.ErrNotFound) {
			stored, getErr := s.sessions.GetByID(ctx, userID, input.SessionID)
			if getErr == nil && stored.Status == domain.SessionStatusFinished {
				return stored, nil
			}
			return nil, fmt.Errorf("session %s is not active: %w", input.SessionID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("finish session: %w", err)
	}

	s.log.InfoContext(ctx, "session finished",
		slog.String("user_id", userID.String()),
		slog.String("session_id", finished.ID.String()),
		slog.Int("duration_minutes", finished.DurationMinutes),
		slog.Int("words_studied", finished.Counters.WordsStudied),
	)

	return finished, nil
}

// ListSessions returns a page of the user's session history, newest first.
func (s *Service) ListSessions(ctx context.Context, input ListSessionsInput) (*SessionPage, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = 20
	}

	sessions, total, err := s.sessions.ListByUser(ctx, userID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return &SessionPage{Sessions: sessions, Total: total}, nil
}

// GetWordProgress returns the user's progress for one word. Words never
// rated report a zero-valued NEW record rather than an error.
func (s *Service) GetWordProgress(ctx context.Context, wordID uuid.UUID) (*domain.WordProgress, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if wordID == uuid.Nil {
		return nil, domain.NewValidationError("word_id", "required")
	}

	if _, err := s.words.GetByID(ctx, wordID); err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}

	progress, err := s.progress.Get(ctx, userID, wordID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewWordProgress(userID, wordID), nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	return progress, nil
}

// SweepStaleSessions abandons ACTIVE sessions idle longer than staleAfter.
// Abandoned sessions never credit statistics. Returns the number closed.
func (s *Service) SweepStaleSessions(ctx context.Context, staleAfter time.Duration, limit int) (int, error) {
	cutoff := s.clock.Now().Add(-staleAfter)

	stale, err := s.sessions.ListStaleActive(ctx, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("list stale sessions: %w", err)
	}

	closed := 0
	for _, session := range stale {
		_, err := s.sessions.Abandon(ctx, session.ID, session.DurationMinutesAt(session.LastActivityAt))
		if err != nil {
			// Raced with a finish or another sweeper; skip.
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return closed, fmt.Errorf("abandon session %s: %w", session.ID, err)
		}
		closed++

		s.log.InfoContext(ctx, "stale session abandoned",
			slog.String("user_id", session.UserID.String()),
			slog.String("session_id", session.ID.String()),
		)
	}

	return closed, nil
}
