package study

import (
	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
)

// GetBatchInput holds the parameters for assembling a study batch.
type GetBatchInput struct {
	CategoryID    *uuid.UUID
	MaxWords      int
	IncludeNew    bool
	IncludeReview bool
}

// Validate checks all fields and collects all errors.
func (i *GetBatchInput) Validate(maxBatchSize int) error {
	var errs []domain.FieldError

	if i.MaxWords <= 0 {
		errs = append(errs, domain.FieldError{Field: "max_words", Message: "must be positive"})
	}
	if i.MaxWords > maxBatchSize {
		errs = append(errs, domain.FieldError{Field: "max_words", Message: "exceeds maximum batch size"})
	}
	if i.CategoryID != nil && *i.CategoryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "category_id", Message: "must be a valid id"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// StartSessionInput holds the parameters for opening a session.
type StartSessionInput struct {
	CategoryID *uuid.UUID
	Mode       domain.SessionMode
}

// Validate checks all fields and collects all errors.
func (i *StartSessionInput) Validate() error {
	var errs []domain.FieldError

	if !i.Mode.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mode", Message: "must be STUDY or REVIEW"})
	}
	if i.CategoryID != nil && *i.CategoryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "category_id", Message: "must be a valid id"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SubmitResponseInput holds the parameters for rating one word.
type SubmitResponseInput struct {
	SessionID uuid.UUID
	WordID    uuid.UUID
	Rating    domain.DifficultyRating
}

// Validate checks all fields and collects all errors.
func (i *SubmitResponseInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if i.WordID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "word_id", Message: "required"})
	}
	if !i.Rating.IsValid() {
		errs = append(errs, domain.FieldError{Field: "rating", Message: "must be EASY, HARD, or FORGOT"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// FinishSessionInput carries the client's final view of the session.
// The submitted counters are authoritative on close; the stored running
// counters cover crash recovery only.
type FinishSessionInput struct {
	SessionID uuid.UUID
	Counters  domain.SessionCounters
}

// Validate checks all fields and collects all errors.
func (i *FinishSessionInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if i.Counters.WordsStudied < 0 || i.Counters.WordsLearned < 0 ||
		i.Counters.CorrectAnswers < 0 || i.Counters.TotalAnswers < 0 {
		errs = append(errs, domain.FieldError{Field: "counters", Message: "must be non-negative"})
	}
	if i.Counters.CorrectAnswers > i.Counters.TotalAnswers {
		errs = append(errs, domain.FieldError{Field: "counters", Message: "correct_answers exceeds total_answers"})
	}
	if i.Counters.WordsLearned > i.Counters.WordsStudied {
		errs = append(errs, domain.FieldError{Field: "counters", Message: "words_learned exceeds words_studied"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListSessionsInput holds pagination for session history.
type ListSessionsInput struct {
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i *ListSessionsInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
