package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserStatistics is the per-user cumulative aggregate maintained by the
// statistics service. Created lazily with zero values on first activity.
// LastActivityDate is a calendar date at midnight in the reference timezone.
type UserStatistics struct {
	UserID              uuid.UUID
	TotalWordsLearned   int
	TotalWordsMastered  int
	TotalStudyMinutes   int
	TotalSessions       int
	TotalActiveDays     int
	CurrentStreakDays   int
	LongestStreakDays   int
	WordsLearnedToday   int
	MinutesStudiedToday int
	TotalAttempts       int
	TotalCorrect        int
	LastActivityDate    *time.Time
	UpdatedAt           time.Time
}

// OverallAccuracy returns the cumulative recall percentage.
func (s *UserStatistics) OverallAccuracy() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalAttempts) * 100
}

// UserActivity is the lighter-weight per-user counter fed by word-view
// events ("words viewed today" on dashboards).
type UserActivity struct {
	UserID           uuid.UUID
	WordsViewedToday int
	TotalWordsViewed int
	LastViewDate     *time.Time
	UpdatedAt        time.Time
}

// Dashboard is the statistics snapshot read back by progress dashboards.
type Dashboard struct {
	Statistics      UserStatistics
	Activity        UserActivity
	OverallAccuracy float64
	ActiveSessionID *uuid.UUID
}

// DayCount holds an activity count for a specific calendar date.
type DayCount struct {
	Date  time.Time
	Count int
}
