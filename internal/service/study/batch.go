package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
	"github.com/fluentdeck/backend/pkg/ctxutil"
)

// GetStudyBatch assembles the next batch of words for a study round.
// Due reviews fill the batch first, oldest due first; remaining slots go to
// unseen words ordered by frequency rank. An empty batch is a valid result
// (nothing due, nothing new), not an error.
func (s *Service) GetStudyBatch(ctx context.Context, input GetBatchInput) (*StudyBatch, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if input.MaxWords == 0 {
		input.MaxWords = s.srsConfig.DefaultBatchSize
	}
	if err := input.Validate(s.srsConfig.MaxBatchSize); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	batch := &StudyBatch{Items: []domain.StudyItem{}}

	if input.IncludeReview {
		due, err := s.progress.ListDue(ctx, userID, input.CategoryID, now, input.MaxWords)
		if err != nil {
			return nil, fmt.Errorf("list due progress: %w", err)
		}

		items, err := s.dueItems(ctx, due)
		if err != nil {
			return nil, err
		}

		batch.Items = append(batch.Items, items...)
		batch.DueCount = len(items)
	}

	if remaining := input.MaxWords - len(batch.Items); input.IncludeNew && remaining > 0 {
		newWords, err := s.words.ListNewForUser(ctx, userID, input.CategoryID, remaining)
		if err != nil {
			return nil, fmt.Errorf("list new words: %w", err)
		}

		items, err := s.newItems(ctx, userID, newWords)
		if err != nil {
			return nil, err
		}

		batch.Items = append(batch.Items, items...)
		batch.NewCount = len(items)
	}

	s.log.InfoContext(ctx, "study batch assembled",
		slog.String("user_id", userID.String()),
		slog.Int("due_count", batch.DueCount),
		slog.Int("new_count", batch.NewCount),
	)

	return batch, nil
}

// dueItems loads the words behind due progress records, preserving the
// scheduler's ordering. Words deactivated since the due query ran are
// silently skipped.
func (s *Service) dueItems(ctx context.Context, due []*domain.WordProgress) ([]domain.StudyItem, error) {
	if len(due) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(due))
	for i, p := range due {
		ids[i] = p.WordID
	}

	words, err := s.words.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load due words: %w", err)
	}

	byID := make(map[uuid.UUID]domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}

	items := make([]domain.StudyItem, 0, len(due))
	for _, p := range due {
		w, ok := byID[p.WordID]
		if !ok {
			continue
		}
		items = append(items, domain.StudyItem{Word: w, Progress: p})
	}

	return items, nil
}

// newItems attaches any existing NEW-state progress (created by view
// events) to unseen words.
func (s *Service) newItems(ctx context.Context, userID uuid.UUID, words []domain.Word) ([]domain.StudyItem, error) {
	if len(words) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}

	progressByWord, err := s.progress.GetByWordIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("load progress for new words: %w", err)
	}

	items := make([]domain.StudyItem, len(words))
	for i, w := range words {
		items[i] = domain.StudyItem{Word: w, Progress: progressByWord[w.ID]}
	}

	return items, nil
}
