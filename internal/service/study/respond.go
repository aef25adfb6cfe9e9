package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
	"github.com/fluentdeck/backend/pkg/ctxutil"
)

// errStaleProgress marks a versioned write that lost to a concurrent
// rating of the same word. Retried inside SubmitResponse; unwraps to
// domain.ErrConflict when the retry budget runs out.
var errStaleProgress = fmt.Errorf("progress version is stale: %w", domain.ErrConflict)

// SubmitResponse processes one difficulty rating: it transitions the word's
// learning status, reschedules the next review, logs the response, and
// updates the owning session's running counters. The whole step runs in one
// transaction; a lost version race on the progress row retries the step.
func (s *Service) SubmitResponse(ctx context.Context, input SubmitResponseInput) (*SubmitResponseResult, error) {
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
	if !session.IsActive() {
		return nil, fmt.Errorf("session %s is %s: %w", session.ID, session.Status, domain.ErrConflict)
	}

	if _, err := s.words.GetByID(ctx, input.WordID); err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}

	var result *SubmitResponseResult
	for attempt := 0; ; attempt++ {
		result, err = s.applyResponse(ctx, userID, input)
		if err == nil {
			break
		}
		if !errors.Is(err, errStaleProgress) || attempt+1 >= s.srsConfig.ConflictRetries {
			return nil, err
		}
		s.log.DebugContext(ctx, "retrying response after version race",
			slog.String("word_id", input.WordID.String()),
			slog.Int("attempt", attempt+1),
		)
	}

	s.log.InfoContext(ctx, "response processed",
		slog.String("user_id", userID.String()),
		slog.String("session_id", input.SessionID.String()),
		slog.String("word_id", input.WordID.String()),
		slog.String("rating", string(input.Rating)),
		slog.String("status", string(result.Progress.Status)),
	)

	return result, nil
}

// applyResponse runs one transactional attempt of the response step.
func (s *Service) applyResponse(ctx context.Context, userID uuid.UUID, input SubmitResponseInput) (*SubmitResponseResult, error) {
	now := s.clock.Now()
	var result SubmitResponseResult

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		progress, err := s.loadOrCreateProgress(txCtx, userID, input.WordID)
		if err != nil {
			return err
		}

		statusBefore := progress.Status
		out := CalculateSRS(SRSInput{
			CurrentStatus:   progress.Status,
			CurrentInterval: progress.IntervalDays,
			Rating:          input.Rating,
			Now:             now,
			Config:          s.srsConfig,
		})

		progress.Status = out.NewStatus
		progress.IntervalDays = out.NewInterval
		progress.NextReviewAt = &out.NextReviewAt
		progress.LastStudiedAt = &now
		progress.Attempts++
		if input.Rating.IsCorrect() {
			progress.CorrectAttempts++
		}

		updated, err := s.progress.UpdateVersioned(txCtx, progress)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return errStaleProgress
			}
			return fmt.Errorf("update progress: %w", err)
		}

		alreadyRated, err := s.responses.ExistsForWord(txCtx, input.SessionID, input.WordID)
		if err != nil {
			return err
		}

		alreadyLearned, err := s.responses.LearnedInSession(txCtx, input.SessionID, input.WordID)
		if err != nil {
			return err
		}

		if _, err := s.responses.Create(txCtx, &domain.StudyResponse{
			ID:           uuid.New(),
			SessionID:    input.SessionID,
			UserID:       userID,
			WordID:       input.WordID,
			Rating:       input.Rating,
			StatusBefore: statusBefore,
			StatusAfter:  updated.Status,
			RespondedAt:  now,
		}); err != nil {
			return fmt.Errorf("log response: %w", err)
		}

		delta := counterDelta(input.Rating, statusBefore, updated.Status, alreadyRated, alreadyLearned)

		session, err := s.sessions.IncrementCounters(txCtx, userID, input.SessionID, delta, now)
		if err != nil {
			return fmt.Errorf("update session counters: %w", err)
		}

		result = SubmitResponseResult{Progress: updated, Session: session}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// loadOrCreateProgress fetches the progress row, creating it lazily on
// first exposure. A concurrent create is folded into a plain read.
func (s *Service) loadOrCreateProgress(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error) {
	progress, err := s.progress.Get(ctx, userID, wordID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	progress, err = s.progress.Create(ctx, userID, wordID)
	if err == nil {
		return progress, nil
	}
	if errors.Is(err, domain.ErrAlreadyExists) {
		progress, err = s.progress.Get(ctx, userID, wordID)
		if err != nil {
			return nil, fmt.Errorf("get progress after race: %w", err)
		}
		return progress, nil
	}

	return nil, fmt.Errorf("create progress: %w", err)
}

// counterDelta derives the session counter increments for one response.
// words_studied counts a word once per session, on its first rating;
// words_learned counts the first crossing into LEARNED or MASTERED within
// the session. A word that drops back and recrosses is not counted again,
// which keeps words_learned <= words_studied.
func counterDelta(rating domain.DifficultyRating, before, after domain.LearningStatus, alreadyRated, alreadyLearned bool) domain.SessionCounters {
	delta := domain.SessionCounters{TotalAnswers: 1}
	if rating.IsCorrect() {
		delta.CorrectAnswers = 1
	}
	if !alreadyRated {
		delta.WordsStudied = 1
	}
	if !alreadyLearned && !isLearnedOrBetter(before) && isLearnedOrBetter(after) {
		delta.WordsLearned = 1
	}
	return delta
}

func isLearnedOrBetter(status domain.LearningStatus) bool {
	return status == domain.LearningStatusLearned || status == domain.LearningStatusMastered
}
