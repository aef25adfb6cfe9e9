package stats

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
)

// Hand-written mocks in the moq style: one Func field per method plus a
// call counter.

type callCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *callCounter) inc(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[method]++
}

func (c *callCounter) count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

type statsRepoMock struct {
	callCounter
	GetStatisticsFunc          func(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error)
	GetStatisticsForUpdateFunc func(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error)
	UpdateStatisticsFunc       func(ctx context.Context, s *domain.UserStatistics) (*domain.UserStatistics, error)
	GetActivityFunc            func(ctx context.Context, userID uuid.UUID) (*domain.UserActivity, error)
	GetActivityForUpdateFunc   func(ctx context.Context, userID uuid.UUID) (*domain.UserActivity, error)
	UpdateActivityFunc         func(ctx context.Context, a *domain.UserActivity) (*domain.UserActivity, error)
}

func (m *statsRepoMock) GetStatistics(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error) {
	m.inc("GetStatistics")
	return m.GetStatisticsFunc(ctx, userID)
}

func (m *statsRepoMock) GetStatisticsForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStatistics, error) {
	m.inc("GetStatisticsForUpdate")
	return m.GetStatisticsForUpdateFunc(ctx, userID)
}

func (m *statsRepoMock) UpdateStatistics(ctx context.Context, s *domain.UserStatistics) (*domain.UserStatistics, error) {
	m.inc("UpdateStatistics")
	return m.UpdateStatisticsFunc(ctx, s)
}

func (m *statsRepoMock) GetActivity(ctx context.Context, userID uuid.UUID) (*domain.UserActivity, error) {
	m.inc("GetActivity")
	return m.GetActivityFunc(ctx, userID)
}

func (m *statsRepoMock) GetActivityForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserActivity, error) {
	m.inc("GetActivityForUpdate")
	return m.GetActivityForUpdateFunc(ctx, userID)
}

func (m *statsRepoMock) UpdateActivity(ctx context.Context, a *domain.UserActivity) (*domain.UserActivity, error) {
	m.inc("UpdateActivity")
	return m.UpdateActivityFunc(ctx, a)
}

type progressCounterMock struct {
	callCounter
	CreateFunc        func(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error)
	CountByStatusFunc func(ctx context.Context, userID uuid.UUID) (map[domain.LearningStatus]int, error)
}

func (m *progressCounterMock) Create(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error) {
	m.inc("Create")
	return m.CreateFunc(ctx, userID, wordID)
}

func (m *progressCounterMock) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.LearningStatus]int, error) {
	m.inc("CountByStatus")
	return m.CountByStatusFunc(ctx, userID)
}

type wordReaderMock struct {
	callCounter
	GetByIDFunc func(ctx context.Context, wordID uuid.UUID) (*domain.Word, error)
}

func (m *wordReaderMock) GetByID(ctx context.Context, wordID uuid.UUID) (*domain.Word, error) {
	m.inc("GetByID")
	return m.GetByIDFunc(ctx, wordID)
}

type sessionReaderMock struct {
	callCounter
	GetActiveFunc func(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error)
}

func (m *sessionReaderMock) GetActive(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error) {
	m.inc("GetActive")
	return m.GetActiveFunc(ctx, userID)
}

type txManagerMock struct {
	callCounter
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.inc("RunInTx")
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func ptr[T any](v T) *T {
	return &v
}
