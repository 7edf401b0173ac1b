package store

import (
	"context"
	"errors"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/jackc/pgx/v5"
)

type UpsertUserParams struct {
	Subject   string
	Email     string
	Name      *string
	AvatarURL *string
}

// SignIn upserts the user by identity subject and seeds the default categories
// the first time the user is seen. It reports whether seeding happened.
func (s *Store) SignIn(ctx context.Context, p UpsertUserParams) (models.User, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.User{}, false, storeErr("begin sign in", err)
	}
	defer tx.Rollback(ctx)

	var user models.User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (subject, email, name, avatar_url, last_login)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (subject) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    avatar_url = EXCLUDED.avatar_url,
		    last_login = NOW()
		RETURNING id, subject, email, name, last_login, created_at
	`, p.Subject, p.Email, p.Name, p.AvatarURL).Scan(
		&user.ID,
		&user.Subject,
		&user.Email,
		&user.Name,
		&user.LastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		return models.User{}, false, storeErr("upsert user", err)
	}

	seeded, err := seedDefaultCategories(ctx, tx, user.ID)
	if err != nil {
		return models.User{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.User{}, false, storeErr("commit sign in", err)
	}
	return user, seeded, nil
}

// seedDefaultCategories locks the user row so concurrent sign-ins serialise,
// then inserts the defaults only when the user has no categories yet.
func seedDefaultCategories(ctx context.Context, tx pgx.Tx, userID int64) (bool, error) {
	if _, err := tx.Exec(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID); err != nil {
		return false, storeErr("lock user", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return false, storeErr("check categories", err)
	}
	if exists {
		return false, nil
	}

	names := make([]string, len(models.DefaultCategories))
	types := make([]string, len(models.DefaultCategories))
	for i, c := range models.DefaultCategories {
		names[i] = c.Name
		types[i] = c.Type.String()
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO categories (user_id, name, type)
		SELECT $1, d.name, d.type::transaction_type
		FROM unnest($2::text[], $3::text[]) AS d(name, type)
		ON CONFLICT (user_id, name, type) DO NOTHING
	`, userID, names, types)
	if err != nil {
		return false, storeErr("seed categories", err)
	}
	return true, nil
}

// UserIDBySubject maps an identity-provider subject to the internal user id
func (s *Store) UserIDBySubject(ctx context.Context, subject string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM users WHERE subject = $1`, subject).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, storeErr("find user", err)
	}
	return id, nil
}
