// Package progress implements the WordProgress repository using PostgreSQL.
// Writes are versioned: UpdateVersioned only applies when the caller holds
// the current row version, so racing raters for the same (user, word) pair
// cannot both apply a transition from the same stale status.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fluentdeck/backend/internal/adapter/postgres"
	"github.com/fluentdeck/backend/internal/domain"
)

// Repo provides word progress persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new progress repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ---------------------------------------------------------------------------
// SQL constants for static queries
// ---------------------------------------------------------------------------

const progressColumns = `p.user_id, p.word_id, p.status, p.attempts, p.correct_attempts,
p.interval_days, p.last_studied_at, p.next_review_at, p.version, p.created_at, p.updated_at`

const getSQL = `
SELECT ` + progressColumns + `
FROM word_progress p
WHERE p.user_id = $1 AND p.word_id = $2`

const createSQL = `
INSERT INTO word_progress AS p (user_id, word_id, status, attempts, correct_attempts,
    interval_days, last_studied_at, next_review_at, version, created_at, updated_at)
VALUES ($1, $2, $3, 0, 0, 0, NULL, NULL, 1, $4, $4)
RETURNING ` + progressColumns

const updateVersionedSQL = `
UPDATE word_progress p
SET status = $4, attempts = $5, correct_attempts = $6, interval_days = $7,
    last_studied_at = $8, next_review_at = $9, version = p.version + 1, updated_at = $10
WHERE p.user_id = $1 AND p.word_id = $2 AND p.version = $3
RETURNING ` + progressColumns

const getByWordIDsSQL = `
SELECT ` + progressColumns + `
FROM word_progress p
WHERE p.user_id = $1 AND p.word_id = ANY($2::uuid[])`

const countByStatusSQL = `
SELECT p.status, count(*)
FROM word_progress p
WHERE p.user_id = $1
GROUP BY p.status`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the progress record for one (user, word) pair.
// Returns domain.ErrNotFound if the user has never rated the word.
func (r *Repo) Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanProgress(querier.QueryRow(ctx, getSQL, userID, wordID))
	if err != nil {
		return nil, postgres.MapError(err, "word_progress", wordID)
	}

	return p, nil
}

// GetByWordIDs returns progress records for multiple words, keyed by word ID.
// Words with no progress row are simply absent from the map.
func (r *Repo) GetByWordIDs(ctx context.Context, userID uuid.UUID, wordIDs []uuid.UUID) (map[uuid.UUID]*domain.WordProgress, error) {
	if len(wordIDs) == 0 {
		return map[uuid.UUID]*domain.WordProgress{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByWordIDsSQL, userID, wordIDs)
	if err != nil {
		return nil, fmt.Errorf("get progress by word ids: %w", err)
	}
	defer rows.Close()

	byWord := make(map[uuid.UUID]*domain.WordProgress, len(wordIDs))
	for rows.Next() {
		p, err := scanProgressFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("get progress by word ids: %w", err)
		}
		byWord[p.WordID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get progress by word ids: %w", err)
	}

	return byWord, nil
}

// ListDue returns progress records due for review at the given time,
// oldest-due first (word id tie-break), restricted to active words and
// optionally to one category. MASTERED and NEW records never match: due
// means status LEARNING or LEARNED with next_review_at in the past.
func (r *Repo) ListDue(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, now time.Time, limit int) ([]*domain.WordProgress, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query := builder.
		Select(progressColumns).
		From("word_progress p").
		Join("words w ON p.word_id = w.id").
		Join("categories cat ON w.category_id = cat.id").
		Where(squirrel.Eq{
			"p.user_id":     userID,
			"w.is_active":   true,
			"cat.is_active": true,
		}).
		Where(squirrel.Eq{"p.status": []string{
			string(domain.LearningStatusLearning),
			string(domain.LearningStatusLearned),
		}}).
		Where(squirrel.LtOrEq{"p.next_review_at": now}).
		OrderBy("p.next_review_at ASC", "p.word_id ASC").
		Limit(uint64(limit))

	if categoryID != nil {
		query = query.Where(squirrel.Eq{"w.category_id": *categoryID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list due query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list due progress: %w", err)
	}
	defer rows.Close()

	var due []*domain.WordProgress
	for rows.Next() {
		p, err := scanProgressFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("list due progress: %w", err)
		}
		due = append(due, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list due progress: %w", err)
	}

	if due == nil {
		due = []*domain.WordProgress{}
	}

	return due, nil
}

// CountByStatus returns progress counts grouped by learning status.
// Only non-zero groups are present in the map.
func (r *Repo) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.LearningStatus]int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, countByStatusSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("count progress by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.LearningStatus]int)
	for rows.Next() {
		var raw string
		var n int
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		status, ok := domain.ParseLearningStatus(raw)
		if !ok {
			return nil, fmt.Errorf("unknown learning status %q", raw)
		}
		counts[status] += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return counts, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a fresh NEW progress row at version 1.
// A concurrent insert for the same pair results in domain.ErrAlreadyExists;
// the caller re-reads and retries its transition.
func (r *Repo) Create(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordProgress, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL, userID, wordID, string(domain.LearningStatusNew), now)

	p, err := scanProgress(row)
	if err != nil {
		return nil, postgres.MapError(err, "word_progress", wordID)
	}

	return p, nil
}

// UpdateVersioned writes the full progress state guarded by the version the
// caller read. Returns domain.ErrConflict when the row has moved on since.
func (r *Repo) UpdateVersioned(ctx context.Context, p *domain.WordProgress) (*domain.WordProgress, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, updateVersionedSQL,
		p.UserID,
		p.WordID,
		p.Version,
		string(p.Status),
		p.Attempts,
		p.CorrectAttempts,
		p.IntervalDays,
		p.LastStudiedAt,
		p.NextReviewAt,
		now,
	)

	updated, err := scanProgress(row)
	if err != nil {
		// Zero rows means the guarded version was stale, not a missing
		// record: the caller created or read the row just before.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("word_progress %s: %w", p.WordID, domain.ErrConflict)
		}
		return nil, postgres.MapError(err, "word_progress", p.WordID)
	}

	return updated, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanProgress(row pgx.Row) (*domain.WordProgress, error) {
	var (
		p      domain.WordProgress
		status string
	)
	if err := row.Scan(&p.UserID, &p.WordID, &status, &p.Attempts, &p.CorrectAttempts,
		&p.IntervalDays, &p.LastStudiedAt, &p.NextReviewAt, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, ok := domain.ParseLearningStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown learning status %q", status)
	}
	p.Status = parsed

	return &p, nil
}

func scanProgressFromRows(rows pgx.Rows) (*domain.WordProgress, error) {
	return scanProgress(rows)
}
