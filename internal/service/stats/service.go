// Package stats implements the streak and statistics aggregator. Session
// completions and word-view events feed per-user aggregates; dashboards
// read them back.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/config"
	"github.com/fluentdeck/backend/internal/domain"
	"github.com/fluentdeck/backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type statsRepo interface {
	GetStatistics(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error)
	GetStatisticsForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error)
	UpdateStatistics(ctx context.Context, s *domain.UserStatistics) (*domain.UserStatistics, error)
	GetActivity(ctx context.Context, userID uuid.UUID) (*domain.UserActivity, error)
	GetActivityForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserActivity, error)
	UpdateActivity(ctx context.Context, a *domain.UserActivity) (*domain.UserActivity, error)
}

type progressCounter interface {
	Create(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error)
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.LearningStatus]int, error)
}

type wordReader interface {
	GetByID(ctx context.Context, wordID uuid.UUID) (*domain.Word, error)
}

type sessionReader interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the statistics business logic.
type Service struct {
	stats    statsRepo
	progress progressCounter
	words    wordReader
	sessions sessionReader
	tx       txManager
	clock    clock
	log      *slog.Logger
	loc      *time.Location
}

// NewService creates a new Statistics service. The reference timezone
// decides which calendar day an event belongs to.
func NewService(
	log *slog.Logger,
	stats statsRepo,
	progress progressCounter,
	words wordReader,
	sessions sessionReader,
	tx txManager,
	cfg config.StatsConfig,
) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load reference timezone: %w", err)
	}

	return &Service{
		stats:    stats,
		progress: progress,
		words:    words,
		sessions: sessions,
		tx:       tx,
		clock:    systemClock{},
		log:      log.With("service", "stats"),
		loc:      loc,
	}, nil
}

// RecordSessionCompletion credits one finished session to the user's
// aggregates. It runs on the caller's transaction so the credit commits
// or rolls back with the session close; the FOR UPDATE read serializes
// two near-simultaneous completions and keeps the streak single-counted.
func (s *Service) RecordSessionCompletion(ctx context.Context, userID uuid.UUID, completedAt time.Time, session *domain.StudySession) error {
	st, err := s.stats.GetStatisticsForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("lock statistics: %w", err)
	}

	rollActiveDay(st, dayStart(completedAt, s.loc))

	st.TotalSessions++
	st.TotalStudyMinutes += session.DurationMinutes
	st.MinutesStudiedToday += session.DurationMinutes
	st.WordsLearnedToday += session.Counters.WordsLearned
	st.TotalAttempts += session.Counters.TotalAnswers
	st.TotalCorrect += session.Counters.CorrectAnswers

	// Learned and mastered totals reflect the current progress partition
	// rather than a running sum, so demotions are not double-counted.
	counts, err := s.progress.CountByStatus(ctx, userID)
	if err != nil {
		return fmt.Errorf("count progress: %w", err)
	}
	st.TotalWordsMastered = counts[domain.LearningStatusMastered]
	st.TotalWordsLearned = counts[domain.LearningStatusLearned] + st.TotalWordsMastered

	if _, err := s.stats.UpdateStatistics(ctx, st); err != nil {
		return fmt.Errorf("update statistics: %w", err)
	}

	s.log.InfoContext(ctx, "session credited",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()),
		slog.Int("streak_days", st.CurrentStreakDays),
	)

	return nil
}

// RecordWordView registers first exposure to a word outside a session:
// the progress record is created lazily in the NEW state and the view
// counters roll forward.
func (s *Service) RecordWordView(ctx context.Context, wordID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if wordID == uuid.Nil {
		return domain.NewValidationError("word_id", "required")
	}

	if _, err := s.words.GetByID(ctx, wordID); err != nil {
		return fmt.Errorf("get word: %w", err)
	}

	today := dayStart(s.clock.Now(), s.loc)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.progress.Create(txCtx, userID, wordID); err != nil &&
			!errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("create progress: %w", err)
		}

		activity, err := s.stats.GetActivityForUpdate(txCtx, userID)
		if err != nil {
			return fmt.Errorf("lock activity: %w", err)
		}

		rollViewDay(activity, today)
		activity.WordsViewedToday++
		activity.TotalWordsViewed++

		if _, err := s.stats.UpdateActivity(txCtx, activity); err != nil {
			return fmt.Errorf("update activity: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("record word view: %w", err)
	}

	return nil
}

// GetDashboard returns the user's statistics snapshot. Users with no
// recorded activity get zero-valued aggregates, not an error. Daily
// counters from a previous calendar day read as zero without a write.
func (s *Service) GetDashboard(ctx context.Context) (*domain.Dashboard, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	today := dayStart(s.clock.Now(), s.loc)

	st, err := s.stats.GetStatistics(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get statistics: %w", err)
		}
		st = &domain.UserStatistics{UserID: userID}
	}
	if st.LastActivityDate != nil && !sameDate(*st.LastActivityDate, today) {
		st.WordsLearnedToday = 0
		st.MinutesStudiedToday = 0
		// A streak survives overnight but not a full missed day.
		if !sameDate(st.LastActivityDate.AddDate(0, 0, 1), today) {
			st.CurrentStreakDays = 0
		}
	}

	activity, err := s.stats.GetActivity(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get activity: %w", err)
		}
		activity = &domain.UserActivity{UserID: userID}
	}
	if activity.LastViewDate != nil && !sameDate(*activity.LastViewDate, today) {
		activity.WordsViewedToday = 0
	}

	dashboard := &domain.Dashboard{
		Statistics:      *st,
		Activity:        *activity,
		OverallAccuracy: st.OverallAccuracy(),
	}

	active, err := s.sessions.GetActive(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get active session: %w", err)
	}
	if active != nil {
		dashboard.ActiveSessionID = &active.ID
	}

	return dashboard, nil
}
