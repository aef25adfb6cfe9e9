package domain

import (
	"time"

	"github.com/google/uuid"
)

// Word is a catalog vocabulary entry. The study engine only reads it;
// content administration lives elsewhere.
type Word struct {
	ID              uuid.UUID
	CategoryID      uuid.UUID
	Text            string // target-script form
	Romanization    string
	Translation     string
	DifficultyLevel int
	FrequencyRank   *int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StudyItem pairs a catalog word with the user's progress on it.
// Progress is nil for words the user has never touched.
type StudyItem struct {
	Word     Word
	Progress *WordProgress
}

// IsNew reports whether the item counts as a new word for scheduling:
// no progress row yet, or one still in the NEW state.
func (i StudyItem) IsNew() bool {
	return i.Progress == nil || i.Progress.Status == LearningStatusNew
}
