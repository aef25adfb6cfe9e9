package study

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
	"github.com/fluentdeck/backend/pkg/ctxutil"
)

func TestService_GetStudyBatch_DueFirstThenNew(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	dueWord1 := domain.Word{ID: uuid.New(), Text: "犬", IsActive: true}
	dueWord2 := domain.Word{ID: uuid.New(), Text: "猫", IsActive: true}
	newWord := domain.Word{ID: uuid.New(), Text: "鳥", IsActive: true}

	dueProgress1 := &domain.WordProgress{
		UserID: userID, WordID: dueWord1.ID,
		Status: domain.LearningStatusLearning, NextReviewAt: ptr(now.Add(-2 * time.Hour)),
	}
	dueProgress2 := &domain.WordProgress{
		UserID: userID, WordID: dueWord2.ID,
		Status: domain.LearningStatusLearned, NextReviewAt: ptr(now.Add(-1 * time.Hour)),
	}

	mockProgress := &progressRepoMock{
		ListDueFunc: func(ctx context.Context, uid uuid.UUID, categoryID *uuid.UUID, at time.Time, limit int) ([]*domain.WordProgress, error) {
			if uid != userID {
				t.Errorf("unexpected userID: got %v, want %v", uid, userID)
			}
			if limit != 5 {
				t.Errorf("unexpected limit: got %d, want 5", limit)
			}
			return []*domain.WordProgress{dueProgress1, dueProgress2}, nil
		},
		GetByWordIDsFunc: func(ctx context.Context, uid uuid.UUID, wordIDs []uuid.UUID) (map[uuid.UUID]*domain.WordProgress, error) {
			return map[uuid.UUID]*domain.WordProgress{}, nil
		},
	}

	mockWords := &wordRepoMock{
		GetByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error) {
			// Store order differs from scheduler order on purpose.
			return []domain.Word{dueWord2, dueWord1}, nil
		},
		ListNewForUserFunc: func(ctx context.Context, uid uuid.UUID, categoryID *uuid.UUID, limit int) ([]domain.Word, error) {
			if limit != 3 {
				t.Errorf("new limit: got %d, want 3", limit)
			}
			return []domain.Word{newWord}, nil
		},
	}

	svc := &Service{
		words:     mockWords,
		progress:  mockProgress,
		clock:     fixedClock{now: now},
		log:       slog.Default(),
		srsConfig: testSRSConfig(),
	}

	ctx := ctxutil.WithUserID(context.Background(), userID)
	batch, err := svc.GetStudyBatch(ctx, GetBatchInput{MaxWords: 5, IncludeNew: true, IncludeReview: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if batch.DueCount != 2 || batch.NewCount != 1 {
		t.Errorf("counts: got due=%d new=%d, want due=2 new=1", batch.DueCount, batch.NewCount)
	}
	if len(batch.Items) != 3 {
		t.Fatalf("items: got %d, want 3", len(batch.Items))
	}

	// Scheduler ordering wins over store ordering.
	if batch.Items[0].Word.ID != dueWord1.ID || batch.Items[1].Word.ID != dueWord2.ID {
		t.Errorf("due ordering lost: got %v then %v", batch.Items[0].Word.ID, batch.Items[1].Word.ID)
	}
	if batch.Items[2].Word.ID != newWord.ID {
		t.Errorf("new word not last: got %v", batch.Items[2].Word.ID)
	}
	if !batch.Items[2].IsNew() {
		t.Error("unseen word should report as new")
	}
}

func TestService_GetStudyBatch_EmptyIsValid(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	mockProgress := &progressRepoMock{
		ListDueFunc: func(ctx context.Context, uid uuid.UUID, categoryID *uuid.UUID, at time.Time, limit int) ([]*domain.WordProgress, error) {
			return []*domain.WordProgress{}, nil
		},
	}
	mockWords := &wordRepoMock{
		ListNewForUserFunc: func(ctx context.Context, uid uuid.UUID, categoryID *uuid.UUID, limit int) ([]domain.Word, error) {
			return []domain.Word{}, nil
		},
	}

	svc := &Service{
		words:     mockWords,
		progress:  mockProgress,
		clock:     fixedClock{now: time.Now()},
		log:       slog.Default(),
		srsConfig: testSRSConfig(),
	}

	ctx := ctxutil.WithUserID(context.Background(), userID)
	batch, err := svc.GetStudyBatch(ctx, GetBatchInput{MaxWords: 10, IncludeNew: true, IncludeReview: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 0 {
		t.Errorf("items: got %d, want 0", len(batch.Items))
	}
}

func TestService_GetStudyBatch_ReviewOnly(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	word := domain.Word{ID: uuid.New(), IsActive: true}
	progress := &domain.WordProgress{UserID: userID, WordID: word.ID, Status: domain.LearningStatusLearning}

	mockProgress := &progressRepoMock{
		ListDueFunc: func(ctx context.Context, uid uuid.UUID, categoryID *uuid.UUID, at time.Time, limit int) ([]*domain.WordProgress, error) {
			return []*domain.WordProgress{progress}, nil
		},
	}
	mockWords := &wordRepoMock{
		GetByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error) {
			return []domain.Word{word}, nil
		},
		ListNewForUserFunc: func(ctx context.Context, uid uuid.UUID, categoryID *uuid.UUID, limit int) ([]domain.Word, error) {
			t.Error("new words must not be fetched when IncludeNew is false")
			return nil, nil
		},
	}

	svc := &Service{
		words:     mockWords,
		progress:  mockProgress,
		clock:     fixedClock{now: time.Now()},
		log:       slog.Default(),
		srsConfig: testSRSConfig(),
	}

	ctx := ctxutil.WithUserID(context.Background(), userID)
	batch, err := svc.GetStudyBatch(ctx, GetBatchInput{MaxWords: 10, IncludeReview: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.DueCount != 1 || batch.NewCount != 0 {
		t.Errorf("counts: got due=%d new=%d, want due=1 new=0", batch.DueCount, batch.NewCount)
	}
}

func TestService_GetStudyBatch_DefaultSize(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	mockProgress := &progressRepoMock{
		ListDueFunc: func(ctx context.Context, uid uuid.UUID, categoryID *uuid.UUID, at time.Time, limit int) ([]*domain.WordProgress, error) {
			if limit != testSRSConfig().DefaultBatchSize {
				t.Errorf("limit: got %d, want default %d", limit, testSRSConfig().DefaultBatchSize)
			}
			return nil, nil
		},
	}
	mockWords := &wordRepoMock{
		ListNewForUserFunc: func(ctx context.Context, uid uuid.UUID, categoryID *uuid.UUID, limit int) ([]domain.Word, error) {
			return nil, nil
		},
	}

	svc := &Service{
		words:     mockWords,
		progress:  mockProgress,
		clock:     fixedClock{now: time.Now()},
		log:       slog.Default(),
		srsConfig: testSRSConfig(),
	}

	ctx := ctxutil.WithUserID(context.Background(), userID)
	if _, err := svc.GetStudyBatch(ctx, GetBatchInput{IncludeNew: true, IncludeReview: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_GetStudyBatch_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := &Service{log: slog.Default(), srsConfig: testSRSConfig(), clock: systemClock{}}
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	tests := []struct {
		name  string
		input GetBatchInput
	}{
		{"negative max_words", GetBatchInput{MaxWords: -1}},
		{"max_words over cap", GetBatchInput{MaxWords: 101}},
		{"nil category id", GetBatchInput{MaxWords: 10, CategoryID: ptr(uuid.Nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.GetStudyBatch(ctx, tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error: got %v, want ErrValidation", err)
			}
		})
	}
}
