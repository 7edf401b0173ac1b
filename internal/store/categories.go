package store

import (
	"context"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/jackc/pgx/v5"
)

// CategoryFilter lists a user's categories; a zero Type means both types.
type CategoryFilter struct {
	UserID int64
	Type   models.TxnType
	Limit  int
	Offset int
}

// ListCategories returns one page of categories ordered by name, and the total
// number of categories matching the filter.
func (s *Store) ListCategories(ctx context.Context, f CategoryFilter) ([]models.Category, int, error) {
	var typeFilter *string
	if f.Type.Valid() {
		t := f.Type.String()
		typeFilter = &t
	}

	var total int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM categories
		WHERE user_id = $1 AND ($2::text IS NULL OR type::text = $2)
	`, f.UserID, typeFilter).Scan(&total)
	if err != nil {
		return nil, 0, storeErr("count categories", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, type::text, created_at
		FROM categories
		WHERE user_id = $1 AND ($2::text IS NULL OR type::text = $2)
		ORDER BY name ASC, id ASC
		LIMIT $3 OFFSET $4
	`, f.UserID, typeFilter, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, storeErr("list categories", err)
	}

	categories, err := collectCategories(rows)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// AllCategories returns every category the user owns
func (s *Store) AllCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, type::text, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY type, name
	`, userID)
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	return collectCategories(rows)
}

func collectCategories(rows pgx.Rows) ([]models.Category, error) {
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &typ, &c.CreatedAt); err != nil {
			return nil, storeErr("scan category", err)
		}
		parsed, err := models.ParseTxnType(typ)
		if err != nil {
			return nil, storeErr("scan category", err)
		}
		c.Type = parsed
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate categories", err)
	}
	return categories, nil
}
