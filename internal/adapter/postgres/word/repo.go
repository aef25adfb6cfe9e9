// Package word implements the read-only word catalog repository.
// The study engine never writes to the catalog; content administration
// happens outside this service. Filters vary per request, so the list
// queries are built with squirrel.
package word

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fluentdeck/backend/internal/adapter/postgres"
	"github.com/fluentdeck/backend/internal/domain"
)

// Repo provides word catalog reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const wordColumns = `w.id, w.category_id, w.text, w.romanization, w.translation,
w.difficulty_level, w.frequency_rank, w.is_active, w.created_at, w.updated_at`

// GetByID returns a catalog word by primary key, active or not.
func (r *Repo) GetByID(ctx context.Context, wordID uuid.UUID) (*domain.Word, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query := builder.
		Select(wordColumns).
		From("words w").
		Where(squirrel.Eq{"w.id": wordID})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get word query: %w", err)
	}

	w, err := scanWord(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "word", wordID)
	}

	return w, nil
}

// GetByIDs returns catalog words for the given IDs (batch lookup).
// Missing IDs are silently absent from the result.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error) {
	if len(ids) == 0 {
		return []domain.Word{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query := builder.
		Select(wordColumns).
		From("words w").
		Where(squirrel.Eq{"w.id": ids})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get words query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("get words by ids: %w", err)
	}
	defer rows.Close()

	words, err := scanWords(rows)
	if err != nil {
		return nil, fmt.Errorf("get words by ids: %w", err)
	}

	return words, nil
}

// ListNewForUser returns active words the user has not started learning:
// no word_progress row, or one still in the NEW state. Ordered easiest
// first (frequency rank, then difficulty level, then id for determinism).
func (r *Repo) ListNewForUser(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, limit int) ([]domain.Word, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query := builder.
		Select(wordColumns).
		From("words w").
		Join("categories cat ON w.category_id = cat.id").
		LeftJoin("word_progress p ON p.word_id = w.id AND p.user_id = ?", userID).
		Where(squirrel.Eq{"w.is_active": true, "cat.is_active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"p.word_id": nil},
			squirrel.Eq{"p.status": string(domain.LearningStatusNew)},
		}).
		OrderBy("w.frequency_rank ASC NULLS LAST", "w.difficulty_level ASC", "w.id ASC").
		Limit(uint64(limit))

	if categoryID != nil {
		query = query.Where(squirrel.Eq{"w.category_id": *categoryID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list new words query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list new words: %w", err)
	}
	defer rows.Close()

	words, err := scanWords(rows)
	if err != nil {
		return nil, fmt.Errorf("list new words: %w", err)
	}

	return words, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanWord(row pgx.Row) (*domain.Word, error) {
	var w domain.Word
	if err := row.Scan(&w.ID, &w.CategoryID, &w.Text, &w.Romanization, &w.Translation,
		&w.DifficultyLevel, &w.FrequencyRank, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWords(rows pgx.Rows) ([]domain.Word, error) {
	var words []domain.Word
	for rows.Next() {
		var w domain.Word
		if err := rows.Scan(&w.ID, &w.CategoryID, &w.Text, &w.Romanization, &w.Translation,
			&w.DifficultyLevel, &w.FrequencyRank, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if words == nil {
		words = []domain.Word{}
	}

	return words, nil
}
