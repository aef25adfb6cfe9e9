package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fluentdeck/backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedCategory creates an active category and returns its id.
func SeedCategory(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	suffix := uniqueSuffix()
	_, err := pool.Exec(ctx,
		`INSERT INTO categories (id, name, is_active, created_at)
		 VALUES ($1, $2, true, now())`,
		id, "Category "+suffix,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory: %v", err)
	}

	return id
}

// SeedWord creates one active word in the category. frequencyRank may be nil.
func SeedWord(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID, frequencyRank *int) domain.Word {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	word := domain.Word{
		ID:              uuid.New(),
		CategoryID:      categoryID,
		Text:            "word-" + suffix,
		Romanization:    "roma-" + suffix,
		Translation:     "meaning " + suffix,
		DifficultyLevel: 1,
		FrequencyRank:   frequencyRank,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO words (id, category_id, text, romanization, translation,
		     difficulty_level, frequency_rank, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		word.ID, word.CategoryID, word.Text, word.Romanization, word.Translation,
		word.DifficultyLevel, word.FrequencyRank, word.IsActive, word.CreatedAt, word.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWord: %v", err)
	}

	return word
}

// SeedWords creates n active words in the category with ascending frequency ranks.
func SeedWords(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID, n int) []domain.Word {
	t.Helper()

	words := make([]domain.Word, n)
	for i := 0; i < n; i++ {
		rank := i + 1
		words[i] = SeedWord(t, pool, categoryID, &rank)
	}

	return words
}

// SeedProgress creates a word_progress row in the given state at version 1.
func SeedProgress(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, wordID uuid.UUID, status domain.LearningStatus, nextReviewAt *time.Time) domain.WordProgress {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := domain.WordProgress{
		UserID:       userID,
		WordID:       wordID,
		Status:       status,
		IntervalDays: 1,
		NextReviewAt: nextReviewAt,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status != domain.LearningStatusNew {
		p.Attempts = 1
		p.CorrectAttempts = 1
		p.LastStudiedAt = &now
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO word_progress (user_id, word_id, status, attempts, correct_attempts,
		     interval_days, last_studied_at, next_review_at, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.UserID, p.WordID, string(p.Status), p.Attempts, p.CorrectAttempts,
		p.IntervalDays, p.LastStudiedAt, p.NextReviewAt, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProgress: %v", err)
	}

	return p
}

// SeedActiveSession creates an ACTIVE study session for the user.
func SeedActiveSession(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, categoryID *uuid.UUID) domain.StudySession {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.StudySession{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     categoryID,
		Mode:           domain.SessionModeStudy,
		Status:         domain.SessionStatusActive,
		StartedAt:      now,
		LastActivityAt: now,
		CreatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO study_sessions (id, user_id, category_id, mode, status,
		     started_at, last_activity_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, s.CategoryID, string(s.Mode), string(s.Status),
		s.StartedAt, s.LastActivityAt, s.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedActiveSession: %v", err)
	}

	return s
}
