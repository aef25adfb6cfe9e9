package domain

import (
	"time"

	"github.com/google/uuid"
)

// WordProgress is the per-(user, word) learning record. Rows are created
// lazily on the first rating and mutated only by the response processor.
// Version implements optimistic concurrency: every write carries the
// version it read, and the store rejects stale writes.
type WordProgress struct {
	UserID          uuid.UUID
	WordID          uuid.UUID
	Status          LearningStatus
	Attempts        int
	CorrectAttempts int
	IntervalDays    int
	LastStudiedAt   *time.Time
	NextReviewAt    *time.Time
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewWordProgress returns a fresh progress record in the NEW state.
func NewWordProgress(userID, wordID uuid.UUID) *WordProgress {
	return &WordProgress{
		UserID: userID,
		WordID: wordID,
		Status: LearningStatusNew,
	}
}

// IsDue reports whether the word is eligible for review at the given time.
// NEW words have no schedule yet and MASTERED words are never re-queued;
// neither counts as due.
func (p *WordProgress) IsDue(now time.Time) bool {
	if p.Status != LearningStatusLearning && p.Status != LearningStatusLearned {
		return false
	}
	if p.NextReviewAt == nil {
		return false
	}
	return !p.NextReviewAt.After(now)
}

// Accuracy returns the recall percentage over all attempts, 0 for untried words.
func (p *WordProgress) Accuracy() float64 {
	if p.Attempts == 0 {
		return 0
	}
	return float64(p.CorrectAttempts) / float64(p.Attempts) * 100
}
