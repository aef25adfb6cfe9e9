// Package stats implements the user statistics and activity repositories
// using PostgreSQL. Read-modify-write callers use the ForUpdate variants,
// which lazily create the row and take a row lock so concurrent session
// finishes for one user serialize instead of losing updates.
package stats

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fluentdeck/backend/internal/adapter/postgres"
	"github.com/fluentdeck/backend/internal/domain"
)

// Repo provides statistics persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new statistics repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const statisticsColumns = `user_id, total_words_learned, total_words_mastered,
total_study_minutes, total_sessions, total_active_days,
current_streak_days, longest_streak_days,
words_learned_today, minutes_studied_today,
total_attempts, total_correct, last_activity_date, updated_at`

const ensureStatisticsSQL = `
INSERT INTO user_statistics (user_id) VALUES ($1)
ON CONFLICT (user_id) DO NOTHING`

const getStatisticsSQL = `
SELECT ` + statisticsColumns + `
FROM user_statistics
WHERE user_id = $1`

const getStatisticsForUpdateSQL = getStatisticsSQL + `
FOR UPDATE`

const updateStatisticsSQL = `
UPDATE user_statistics
SET total_words_learned   = $2,
    total_words_mastered  = $3,
    total_study_minutes   = $4,
    total_sessions        = $5,
    total_active_days     = $6,
    current_streak_days   = $7,
    longest_streak_days   = $8,
    words_learned_today   = $9,
    minutes_studied_today = $10,
    total_attempts        = $11,
    total_correct         = $12,
    last_activity_date    = $13,
    updated_at            = now()
WHERE user_id = $1
RETURNING ` + statisticsColumns

const activityColumns = `user_id, words_viewed_today, total_words_viewed,
last_view_date, updated_at`

const ensureActivitySQL = `
INSERT INTO user_activity (user_id) VALUES ($1)
ON CONFLICT (user_id) DO NOTHING`

const getActivitySQL = `
SELECT ` + activityColumns + `
FROM user_activity
WHERE user_id = $1`

const getActivityForUpdateSQL = getActivitySQL + `
FOR UPDATE`

const updateActivitySQL = `
UPDATE user_activity
SET words_viewed_today = $2,
    total_words_viewed = $3,
    last_view_date     = $4,
    updated_at         = now()
WHERE user_id = $1
RETURNING ` + activityColumns

// GetStatistics returns the user's cumulative statistics, or
// domain.ErrNotFound for a user with no recorded activity yet.
func (r *Repo) GetStatistics(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanStatistics(querier.QueryRow(ctx, getStatisticsSQL, userID))
	if err != nil {
		return nil, postgres.MapError(err, "user_statistics", userID)
	}

	return s, nil
}

// GetStatisticsForUpdate creates the row if absent and returns it locked.
// Must run inside a transaction; the lock holds until commit.
func (r *Repo) GetStatisticsForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, ensureStatisticsSQL, userID); err != nil {
		return nil, postgres.MapError(err, "user_statistics", userID)
	}

	s, err := scanStatistics(querier.QueryRow(ctx, getStatisticsForUpdateSQL, userID))
	if err != nil {
		return nil, postgres.MapError(err, "user_statistics", userID)
	}

	return s, nil
}

// UpdateStatistics writes the full aggregate back.
func (r *Repo) UpdateStatistics(ctx context.Context, s *domain.UserStatistics) (*domain.UserStatistics, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, updateStatisticsSQL,
		s.UserID,
		s.TotalWordsLearned, s.TotalWordsMastered,
		s.TotalStudyMinutes, s.TotalSessions, s.TotalActiveDays,
		s.CurrentStreakDays, s.LongestStreakDays,
		s.WordsLearnedToday, s.MinutesStudiedToday,
		s.TotalAttempts, s.TotalCorrect,
		s.LastActivityDate,
	)

	updated, err := scanStatistics(row)
	if err != nil {
		return nil, postgres.MapError(err, "user_statistics", s.UserID)
	}

	return updated, nil
}

// GetActivity returns the user's word-view counters, or domain.ErrNotFound.
func (r *Repo) GetActivity(ctx context.Context, userID uuid.UUID) (*domain.UserActivity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanActivity(querier.QueryRow(ctx, getActivitySQL, userID))
	if err != nil {
		return nil, postgres.MapError(err, "user_activity", userID)
	}

	return a, nil
}

// GetActivityForUpdate creates the row if absent and returns it locked.
// Must run inside a transaction.
func (r *Repo) GetActivityForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserActivity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, ensureActivitySQL, userID); err != nil {
		return nil, postgres.MapError(err, "user_activity", userID)
	}

	a, err := scanActivity(querier.QueryRow(ctx, getActivityForUpdateSQL, userID))
	if err != nil {
		return nil, postgres.MapError(err, "user_activity", userID)
	}

	return a, nil
}

// UpdateActivity writes the view counters back.
func (r *Repo) UpdateActivity(ctx context.Context, a *domain.UserActivity) (*domain.UserActivity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, updateActivitySQL,
		a.UserID, a.WordsViewedToday, a.TotalWordsViewed, a.LastViewDate)

	updated, err := scanActivity(row)
	if err != nil {
		return nil, postgres.MapError(err, "user_activity", a.UserID)
	}

	return updated, nil
}

func scanStatistics(row pgx.Row) (*domain.UserStatistics, error) {
	var s domain.UserStatistics
	if err := row.Scan(&s.UserID,
		&s.TotalWordsLearned, &s.TotalWordsMastered,
		&s.TotalStudyMinutes, &s.TotalSessions, &s.TotalActiveDays,
		&s.CurrentStreakDays, &s.LongestStreakDays,
		&s.WordsLearnedToday, &s.MinutesStudiedToday,
		&s.TotalAttempts, &s.TotalCorrect,
		&s.LastActivityDate, &s.UpdatedAt); err != nil {
		return nil, err
	}

	return &s, nil
}

func scanActivity(row pgx.Row) (*domain.UserActivity, error) {
	var a domain.UserActivity
	if err := row.Scan(&a.UserID,
		&a.WordsViewedToday, &a.TotalWordsViewed,
		&a.LastViewDate, &a.UpdatedAt); err != nil {
		return nil, err
	}

	return &a, nil
}
