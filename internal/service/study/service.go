// Package study implements the study business logic: batch selection,
// response processing, and session tracking.
package study

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/config"
	"github.com/fluentdeck/backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	GetByID(ctx context.Context, wordID uuid.UUID) (*domain.Word, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error)
	ListNewForUser(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, limit int) ([]domain.Word, error)
}

type progressRepo interface {
	Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error)
	GetByWordIDs(ctx context.Context, userID uuid.UUID, wordIDs []uuid.UUID) (map[uuid.UUID]*domain.WordProgress, error)
	ListDue(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, now time.Time, limit int) ([]*domain.WordProgress, error)
	Create(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error)
	UpdateVersioned(ctx context.Context, p *domain.WordProgress) (*domain.WordProgress, error)
}

type sessionRepo interface {
	Create(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error)
	GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error)
	IncrementCounters(ctx context.Context, userID, sessionID uuid.UUID, delta domain.SessionCounters, at time.Time) (*domain.StudySession, error)
	Finish(ctx context.Context, userID, sessionID uuid.UUID, counters domain.SessionCounters, endedAt time.Time, durationMinutes int) (*domain.StudySession, error)
	Abandon(ctx context.Context, sessionID uuid.UUID, durationMinutes int) (*domain.StudySession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.StudySession, int, error)
	ListStaleActive(ctx context.Context, idleSince time.Time, limit int) ([]*domain.StudySession, error)
}

type responseRepo interface {
	Create(ctx context.Context, resp *domain.StudyResponse) (*domain.StudyResponse, error)
	ExistsForWord(ctx context.Context, sessionID, wordID uuid.UUID) (bool, error)
	LearnedInSession(ctx context.Context, sessionID, wordID uuid.UUID) (bool, error)
	ListBySession(ctx context.Context, userID, sessionID uuid.UUID) ([]*domain.StudyResponse, error)
}

// statsRecorder credits a finished session to the user's cumulative
// statistics. Called inside the session-finish transaction so the credit
// and the close commit or roll back together.
type statsRecorder interface {
	RecordSessionCompletion(ctx context.Context, userID uuid.UUID, completedAt time.Time, session *domain.StudySession) error
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

// Service implements the study business logic.
type Service struct {
	words     wordRepo
	progress  progressRepo
	sessions  sessionRepo
	responses responseRepo
	stats     statsRecorder
	tx        txManager
	clock     clock
	log       *slog.Logger
	srsConfig config.SRSConfig
}

// NewService creates a new Study service.
func NewService(
	log *slog.Logger,
	words wordRepo,
	progress progressRepo,
	sessions sessionRepo,
	responses responseRepo,
	stats statsRecorder,
	tx txManager,
	srsConfig config.SRSConfig,
) *Service {
	return &Service{
		words:     words,
		progress:  progress,
		sessions:  sessions,
		responses: responses,
		stats:     stats,
		tx:        tx,
		clock:     systemClock{},
		log:       log.With("service", "study"),
		srsConfig: srsConfig,
	}
}
