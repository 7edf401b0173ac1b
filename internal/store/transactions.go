package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
	t.id, t.user_id, t.category_id, c.name, t.amount::text, t.description, t.date, t.type::text, t.created_at`

// insertTransactionSQL only inserts when the category belongs to the user.
// No row comes back otherwise.
const insertTransactionSQL = `
	WITH t AS (
		INSERT INTO transactions (user_id, category_id, amount, description, date, type)
		SELECT $1, c.id, $3::numeric, $4, $5, $6::transaction_type
		FROM categories c
		WHERE c.id = $2 AND c.user_id = $1
		RETURNING id, user_id, category_id, amount, description, date, type, created_at
	)
	SELECT ` + transactionColumns + `
	FROM t
	LEFT JOIN categories c ON c.id = t.category_id`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		t            models.Transaction
		categoryName *string
		amount       string
		typ          string
	)
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.CategoryID,
		&categoryName,
		&amount,
		&t.Description,
		&t.Date,
		&typ,
		&t.CreatedAt,
	); err != nil {
		return models.Transaction{}, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Amount = d

	parsed, err := models.ParseTxnType(typ)
	if err != nil {
		return models.Transaction{}, err
	}
	t.Type = parsed

	if t.CategoryID == nil {
		t.CategoryName = models.UncategorizedLabel
	} else if categoryName != nil {
		t.CategoryName = *categoryName
	}
	t.Date = t.Date.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func collectTransactions(op string, rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return txns, nil
}

// FindByUserAndDateRange returns the user's transactions with start <= date < end,
// newest first.
func (s *Store) FindByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date < $3
		ORDER BY t.date DESC, t.created_at DESC, t.id DESC
	`, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, storeErr("find transactions by range", err)
	}
	return collectTransactions("find transactions by range", rows)
}

// ListTransactions returns one page matching the filter and the total count
func (s *Store) ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, int, error) {
	where := `WHERE t.user_id = $1
		AND ($2::text = '' OR t.description ILIKE '%' || $2 || '%' ESCAPE '\')
		AND ($3::timestamptz IS NULL OR t.date >= $3)
		AND ($4::timestamptz IS NULL OR t.date < $4)`
	args := []any{f.UserID, escapeLike(f.Search), utcOrNil(f.Start), utcOrNil(f.End)}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions t `+where, args...).Scan(&total); err != nil {
		return nil, 0, storeErr("count transactions", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		`+where+`
		ORDER BY t.date DESC, t.created_at DESC, t.id DESC
		LIMIT $5 OFFSET $6
	`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, storeErr("list transactions", err)
	}

	txns, err := collectTransactions("list transactions", rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// RecentTransactions returns the newest transactions of the user
func (s *Store) RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC, t.id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, storeErr("recent transactions", err)
	}
	return collectTransactions("recent transactions", rows)
}

// Descriptions returns distinct non-empty descriptions containing query,
// most frequently used first.
func (s *Store) Descriptions(ctx context.Context, userID int64, query string, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT description
		FROM transactions
		WHERE user_id = $1
		  AND description <> ''
		  AND description ILIKE '%' || $2::text || '%' ESCAPE '\'
		GROUP BY description
		ORDER BY COUNT(*) DESC, description ASC
		LIMIT $3
	`, userID, escapeLike(query), limit)
	if err != nil {
		return nil, storeErr("list descriptions", err)
	}

	descriptions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storeErr("scan descriptions", err)
	}
	return descriptions, nil
}

// CreateTransaction inserts one transaction. A category the user does not own
// is reported as a validation error.
func (s *Store) CreateTransaction(ctx context.Context, userID int64, nt models.NewTransaction) (models.Transaction, error) {
	t, err := scanTransaction(s.pool.QueryRow(ctx, insertTransactionSQL, insertArgs(userID, nt)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, models.NewValidationError("category", "category not found")
		}
		return models.Transaction{}, storeErr("create transaction", err)
	}
	return t, nil
}

// CreateTransactions inserts all items in one database transaction. Either
// every item is stored or none is.
func (s *Store) CreateTransactions(ctx context.Context, userID int64, items []models.NewTransaction) ([]models.Transaction, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin bulk insert", err)
	}
	defer tx.Rollback(ctx)

	if err := checkCategoriesOwned(ctx, tx, userID, items); err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	for _, nt := range items {
		batch.Queue(insertTransactionSQL, insertArgs(userID, nt)...)
	}

	br := tx.SendBatch(ctx, batch)
	created := make([]models.Transaction, 0, len(items))
	for i := range items {
		t, err := scanTransaction(br.QueryRow())
		if err != nil {
			br.Close()
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, models.NewValidationError(fmt.Sprintf("transactions[%d].category", i), "category not found")
			}
			return nil, storeErr("bulk insert", err)
		}
		created = append(created, t)
	}
	if err := br.Close(); err != nil {
		return nil, storeErr("bulk insert", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit bulk insert", err)
	}
	return created, nil
}

func checkCategoriesOwned(ctx context.Context, tx pgx.Tx, userID int64, items []models.NewTransaction) error {
	ids := make([]int64, 0, len(items))
	for _, nt := range items {
		ids = append(ids, nt.CategoryID)
	}

	rows, err := tx.Query(ctx, `SELECT id FROM categories WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return storeErr("check categories", err)
	}
	owned, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return storeErr("check categories", err)
	}

	ownedSet := make(map[int64]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}

	verr := &models.ValidationError{}
	for i, nt := range items {
		if _, ok := ownedSet[nt.CategoryID]; !ok {
			verr.Add(fmt.Sprintf("transactions[%d].category", i), "category not found")
		}
	}
	return verr.OrNil()
}

// UpdateTransaction replaces every field of a transaction the user owns
func (s *Store) UpdateTransaction(ctx context.Context, userID, id int64, nt models.NewTransaction) (models.Transaction, error) {
	var owned bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)`,
		nt.CategoryID, userID,
	).Scan(&owned)
	if err != nil {
		return models.Transaction{}, storeErr("check category", err)
	}
	if !owned {
		return models.Transaction{}, models.NewValidationError("category", "category not found")
	}

	t, err := scanTransaction(s.pool.QueryRow(ctx, `
		WITH t AS (
			UPDATE transactions
			SET category_id = $3, amount = $4::numeric, description = $5, date = $6, type = $7::transaction_type
			WHERE id = $2 AND user_id = $1
			RETURNING id, user_id, category_id, amount, description, date, type, created_at
		)
		SELECT `+transactionColumns+`
		FROM t
		LEFT JOIN categories c ON c.id = t.category_id
	`, userID, id, nt.CategoryID, nt.Amount.String(), nt.Description, nt.Date.UTC(), nt.Type.String()))
	if err != nil {
		return models.Transaction{}, storeErr("update transaction", err)
	}
	return t, nil
}

// DeleteTransaction removes a transaction the user owns
func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return storeErr("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func insertArgs(userID int64, nt models.NewTransaction) []any {
	return []any{userID, nt.CategoryID, nt.Amount.String(), nt.Description, nt.Date.UTC(), nt.Type.String()}
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// escapeLike makes user input match literally inside an ILIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
