package domain

// LearningStatus represents the lifecycle stage of a word for a user.
type LearningStatus string

const (
	LearningStatusNew      LearningStatus = "NEW"
	LearningStatusLearning LearningStatus = "LEARNING"
	LearningStatusLearned  LearningStatus = "LEARNED"
	LearningStatusMastered LearningStatus = "MASTERED"
)

func (s LearningStatus) String() string { return string(s) }

func (s LearningStatus) IsValid() bool {
	switch s {
	case LearningStatusNew, LearningStatusLearning, LearningStatusLearned, LearningStatusMastered:
		return true
	}
	return false
}

// ParseLearningStatus maps a stored status string to a LearningStatus.
// Historic rows carry the legacy values STUDIED and VIEWED; they are
// folded into the unified lifecycle here, at the store boundary.
func ParseLearningStatus(s string) (LearningStatus, bool) {
	switch s {
	case "NEW", "VIEWED":
		return LearningStatusNew, true
	case "LEARNING", "STUDIED":
		return LearningStatusLearning, true
	case "LEARNED":
		return LearningStatusLearned, true
	case "MASTERED":
		return LearningStatusMastered, true
	}
	return "", false
}

// DifficultyRating represents the user's self-assessed recall of a word.
type DifficultyRating string

const (
	RatingEasy   DifficultyRating = "EASY"
	RatingHard   DifficultyRating = "HARD"
	RatingForgot DifficultyRating = "FORGOT"
)

func (r DifficultyRating) String() string { return string(r) }

func (r DifficultyRating) IsValid() bool {
	switch r {
	case RatingEasy, RatingHard, RatingForgot:
		return true
	}
	return false
}

// IsCorrect reports whether the rating counts as a successful recall.
// EASY and HARD both count as recalled; FORGOT is a miss. The same rule
// feeds session counters and cumulative accuracy.
func (r DifficultyRating) IsCorrect() bool {
	return r == RatingEasy || r == RatingHard
}

// SessionMode distinguishes mixed study from pure review sessions.
type SessionMode string

const (
	SessionModeStudy  SessionMode = "STUDY"
	SessionModeReview SessionMode = "REVIEW"
)

func (m SessionMode) String() string { return string(m) }

func (m SessionMode) IsValid() bool {
	switch m {
	case SessionModeStudy, SessionModeReview:
		return true
	}
	return false
}

// SessionStatus represents the state of a study session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusFinished  SessionStatus = "FINISHED"
	SessionStatusAbandoned SessionStatus = "ABANDONED"
)

func (s SessionStatus) String() string { return string(s) }

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusActive, SessionStatusFinished, SessionStatusAbandoned:
		return true
	}
	return false
}
