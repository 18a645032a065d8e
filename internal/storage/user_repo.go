package storage

import (
	"context"
	"fmt"

	"gapscout/internal/models"
)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// UpsertByEmail creates the user on first login and returns the stored row
// either way. Login is email-only; there is no password.
func (r *UserRepo) UpsertByEmail(ctx context.Context, userID, email, name string) (models.User, error) {
	var u models.User
	err := r.db.Pool.QueryRow(ctx, `
INSERT INTO users (user_id, email, name)
VALUES ($1, $2, NULLIF($3,''))
ON CONFLICT (email)
DO UPDATE SET name = COALESCE(NULLIF(EXCLUDED.name,''), users.name)
RETURNING user_id::text, email, COALESCE(name,''), created_at`,
		userID, email, name).
		Scan(&u.UserID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.db.Pool.QueryRow(ctx, `
SELECT user_id::text, email, COALESCE(name,''), created_at FROM users WHERE email=$1`, email).
		Scan(&u.UserID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}
