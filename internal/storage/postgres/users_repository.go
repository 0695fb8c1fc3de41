package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/domain/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ users.Repository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
}

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams) (users.User, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (username, email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, username, email, password_hash, first_name, last_name, created_at
`,
		params.Username,
		params.Email,
		params.PasswordHash,
		params.FirstName,
		params.LastName,
	)

	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return users.User{}, users.ErrEmailTaken
		}
		if isUniqueViolation(err, "users_username_key") {
			return users.User{}, users.ErrUsernameTaken
		}
		return users.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (users.User, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, username, email, password_hash, first_name, last_name, created_at
  FROM users
 WHERE username = $1
`, username)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (users.User, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, username, email, password_hash, first_name, last_name, created_at
  FROM users
 WHERE email = $1
`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetCredential(ctx context.Context, username string) (users.Credential, error) {
	var credential users.Credential
	err := r.pool.QueryRow(ctx, `
SELECT id, username, email, password_hash
  FROM users
 WHERE username = $1
`, username).Scan(
		&credential.ID,
		&credential.Username,
		&credential.Email,
		&credential.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return users.Credential{}, users.ErrNotFound
		}
		return users.Credential{}, fmt.Errorf("get credential: %w", err)
	}
	return credential, nil
}

func scanUser(row pgx.Row) (users.User, error) {
	var user users.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
	)
	if err != nil {
		return users.User{}, err
	}
	return user, nil
}
