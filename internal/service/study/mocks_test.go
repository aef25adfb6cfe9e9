package study

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
)

// Hand-written mocks in the moq style: one Func field per method plus a
// call counter. A nil Func means the test does not expect the call.

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

// ---------------------------------------------------------------------------

type wordRepoMock struct {
	callCounter
	GetByIDFunc        func(ctx context.Context, wordID uuid.UUID) (*domain.Word, error)
	GetByIDsFunc       func(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error)
	ListNewForUserFunc func(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, limit int) ([]domain.Word, error)
}

func (m *wordRepoMock) GetByID(ctx context.Context, wordID uuid.UUID) (*domain.Word, error) {
	m.inc("GetByID")
	return m.GetByIDFunc(ctx, wordID)
}

func (m *wordRepoMock) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error) {
	m.inc("GetByIDs")
	return m.GetByIDsFunc(ctx, ids)
}

func (m *wordRepoMock) ListNewForUser(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, limit int) ([]domain.Word, error) {
	m.inc("ListNewForUser")
	return m.ListNewForUserFunc(ctx, userID, categoryID, limit)
}

// ---------------------------------------------------------------------------

type progressRepoMock struct {
	callCounter
	GetFunc             func(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error)
	GetByWordIDsFunc    func(ctx context.Context, userID uuid.UUID, wordIDs []uuid.UUID) (map[uuid.UUID]*domain.WordProgress, error)
	ListDueFunc         func(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, now time.Time, limit int) ([]*domain.WordProgress, error)
	CreateFunc          func(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error)
	UpdateVersionedFunc func(ctx context.Context, p *domain.WordProgress) (*domain.WordProgress, error)
}

func (m *progressRepoMock) Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error) {
	m.inc("Get")
	return m.GetFunc(ctx, userID, wordID)
}

func (m *progressRepoMock) GetByWordIDs(ctx context.Context, userID uuid.UUID, wordIDs []uuid.UUID) (map[uuid.UUID]*domain.WordProgress, error) {
	m.inc("GetByWordIDs")
	return m.GetByWordIDsFunc(ctx, userID, wordIDs)
}

func (m *progressRepoMock) ListDue(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, now time.Time, limit int) ([]*domain.WordProgress, error) {
	m.inc("ListDue")
	return m.ListDueFunc(ctx, userID, categoryID, now, limit)
}

func (m *progressRepoMock) Create(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error) {
	m.inc("Create")
	return m.CreateFunc(ctx, userID, wordID)
}

func (m *progressRepoMock) UpdateVersioned(ctx context.Context, p *domain.WordProgress) (*domain.WordProgress, error) {
	m.inc("UpdateVersioned")
	return m.UpdateVersionedFunc(ctx, p)
}

// ---------------------------------------------------------------------------

type sessionRepoMock struct {
	callCounter
	CreateFunc            func(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error)
	GetByIDFunc           func(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)
	GetActiveFunc         func(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error)
	IncrementCountersFunc func(ctx context.Context, userID, sessionID uuid.UUID, delta domain.SessionCounters, at time.Time) (*domain.StudySession, error)
	FinishFunc            func(ctx context.Context, userID, sessionID uuid.UUID, counters domain.SessionCounters, endedAt time.Time, durationMinutes int) (*domain.StudySession, error)
	AbandonFunc           func(ctx context.Context, sessionID uuid.UUID, durationMinutes int) (*domain.StudySession, error)
	ListByUserFunc        func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.StudySession, int, error)
	ListStaleActiveFunc   func(ctx context.Context, idleSince time.Time, limit int) ([]*domain.StudySession, error)
}

func (m *sessionRepoMock) Create(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error) {
	m.inc("Create")
	return m.CreateFunc(ctx, session)
}

func (m *sessionRepoMock) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error) {
	m.inc("GetByID")
	return m.GetByIDFunc(ctx, userID, sessionID)
}

func (m *sessionRepoMock) GetActive(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error) {
	m.inc("GetActive")
	return m.GetActiveFunc(ctx, userID)
}

func (m *sessionRepoMock) IncrementCounters(ctx context.Context, userID, sessionID uuid.UUID, delta domain.SessionCounters, at time.Time) (*domain.StudySession, error) {
	m.inc("IncrementCounters")
	return m.IncrementCountersFunc(ctx, userID, sessionID, delta, at)
}

func (m *sessionRepoMock) Finish(ctx context.Context, userID, sessionID uuid.UUID, counters domain.SessionCounters, endedAt time.Time, durationMinutes int) (*domain.StudySession, error) {
	m.inc("Finish")
	return m.FinishFunc(ctx, userID, sessionID, counters, endedAt, durationMinutes)
}

func (m *sessionRepoMock) Abandon(ctx context.Context, sessionID uuid.UUID, durationMinutes int) (*domain.StudySession, error) {
	m.inc("Abandon")
	return m.AbandonFunc(ctx, sessionID, durationMinutes)
}

func (m *sessionRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.StudySession, int, error) {
	m.inc("ListByUser")
	return m.ListByUserFunc(ctx, userID, limit, offset)
}

func (m *sessionRepoMock) ListStaleActive(ctx context.Context, idleSince time.Time, limit int) ([]*domain.StudySession, error) {
	m.inc("ListStaleActive")
	return m.ListStaleActiveFunc(ctx, idleSince, limit)
}

// ---------------------------------------------------------------------------

type responseRepoMock struct {
	callCounter
	CreateFunc           func(ctx context.Context, resp *domain.StudyResponse) (*domain.StudyResponse, error)
	ExistsForWordFunc    func(ctx context.Context, sessionID, wordID uuid.UUID) (bool, error)
	LearnedInSessionFunc func(ctx context.Context, sessionID, wordID uuid.UUID) (bool, error)
	ListBySessionFunc    func(ctx context.Context, userID, sessionID uuid.UUID) ([]*domain.StudyResponse, error)
}

func (m *responseRepoMock) Create(ctx context.Context, resp *domain.StudyResponse) (*domain.StudyResponse, error) {
	m.inc("Create")
	return m.CreateFunc(ctx, resp)
}

func (m *responseRepoMock) ExistsForWord(ctx context.Context, sessionID, wordID uuid.UUID) (bool, error) {
	m.inc("ExistsForWord")
	return m.ExistsForWordFunc(ctx, sessionID, wordID)
}

func (m *responseRepoMock) LearnedInSession(ctx context.Context, sessionID, wordID uuid.UUID) (bool, error) {
	m.inc("LearnedInSession")
	return m.LearnedInSessionFunc(ctx, sessionID, wordID)
}

func (m *responseRepoMock) ListBySession(ctx context.Context, userID, sessionID uuid.UUID) ([]*domain.StudyResponse, error) {
	m.inc("ListBySession")
	return m.ListBySessionFunc(ctx, userID, sessionID)
}

// ---------------------------------------------------------------------------

type statsRecorderMock struct {
	callCounter
	RecordSessionCompletionFunc func(ctx context.Context, userID uuid.UUID, completedAt time.Time, session *domain.StudySession) error
}

func (m *statsRecorderMock) RecordSessionCompletion(ctx context.Context, userID uuid.UUID, completedAt time.Time, session *domain.StudySession) error {
	m.inc("RecordSessionCompletion")
	return m.RecordSessionCompletionFunc(ctx, userID, completedAt, session)
}

// ---------------------------------------------------------------------------

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

// ---------------------------------------------------------------------------

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func ptr[T any](v T) *T {
	return &v
}
