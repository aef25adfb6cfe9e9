package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionCounters holds the running tallies of a study session.
// They are monotonically non-decreasing while the session is ACTIVE
// and frozen once it closes.
type SessionCounters struct {
	WordsStudied   int
	WordsLearned   int
	CorrectAnswers int
	TotalAnswers   int
}

// Accuracy returns the session-local recall percentage.
func (c SessionCounters) Accuracy() float64 {
	if c.TotalAnswers == 0 {
		return 0
	}
	return float64(c.CorrectAnswers) / float64(c.TotalAnswers) * 100
}

// StudySession tracks one bounded study interaction.
// CategoryID is nil for mixed/all-categories sessions.
type StudySession struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	CategoryID      *uuid.UUID
	Mode            SessionMode
	Status          SessionStatus
	Counters        SessionCounters
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationMinutes int
	LastActivityAt  time.Time
	CreatedAt       time.Time
}

// IsActive reports whether the session is still open.
func (s *StudySession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// DurationMinutesAt computes the rounded session length at the given close time.
func (s *StudySession) DurationMinutesAt(endedAt time.Time) int {
	ms := endedAt.Sub(s.StartedAt).Milliseconds()
	if ms < 0 {
		return 0
	}
	return int((ms + 30_000) / 60_000)
}

// StudyResponse records a single submitted rating within a session.
// It is the session's reconciliation trail: "first rating of this word
// in this session" detection and per-word history both read it.
type StudyResponse struct {
	ID           uuid.UUID
	SessionID    uuid.UUID
	UserID       uuid.UUID
	WordID       uuid.UUID
	Rating       DifficultyRating
	StatusBefore LearningStatus
	StatusAfter  LearningStatus
	RespondedAt  time.Time
}
