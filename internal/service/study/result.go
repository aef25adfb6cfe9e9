package study

import "github.com/fluentdeck/backend/internal/domain"

// StudyBatch is an ordered set of items for one study round: due reviews
// first (oldest due first), new words after, never exceeding the requested size.
type StudyBatch struct {
	Items    []domain.StudyItem
	DueCount int
	NewCount int
}

// SubmitResponseResult is the response processor's outcome: the updated
// progress record plus the session's running counters.
type SubmitResponseResult struct {
	Progress *domain.WordProgress
	Session  *domain.StudySession
}

// SessionPage is one page of session history.
type SessionPage struct {
	Sessions []*domain.StudySession
	Total    int
}
