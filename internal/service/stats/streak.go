package stats

import (
	"time"

	"github.com/fluentdeck/backend/internal/domain"
)

// dayStart returns midnight of t's calendar day in the reference timezone.
func dayStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// sameDate compares calendar dates only. The store returns DATE columns at
// UTC midnight while computed day starts carry the reference timezone, so
// instant comparison would misfire for any non-UTC reference.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// rollActiveDay applies the streak date transition for activity on the given
// day. Pure mutation of the aggregate, no I/O; the caller holds the row lock.
//
// Same calendar day: nothing changes. Consecutive day: the streak extends.
// Any gap: the streak resets to 1 while the longest streak is preserved.
// Daily counters reset whenever the day changes.
func rollActiveDay(s *domain.UserStatistics, today time.Time) {
	if s.LastActivityDate != nil && sameDate(*s.LastActivityDate, today) {
		return
	}

	switch {
	case s.LastActivityDate == nil:
		s.CurrentStreakDays = 1
	case sameDate(s.LastActivityDate.AddDate(0, 0, 1), today):
		s.CurrentStreakDays++
	default:
		s.CurrentStreakDays = 1
	}

	if s.CurrentStreakDays > s.LongestStreakDays {
		s.LongestStreakDays = s.CurrentStreakDays
	}

	s.TotalActiveDays++
	s.WordsLearnedToday = 0
	s.MinutesStudiedToday = 0

	day := today
	s.LastActivityDate = &day
}

// rollViewDay resets the daily view counter when the calendar day changes.
func rollViewDay(a *domain.UserActivity, today time.Time) {
	if a.LastViewDate != nil && sameDate(*a.LastViewDate, today) {
		return
	}
	a.WordsViewedToday = 0
	day := today
	a.LastViewDate = &day
}
