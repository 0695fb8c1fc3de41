package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email is already taken")
	ErrUsernameTaken = errors.New("username is already taken")
)

type Repository interface {
	Create(ctx context.Context, params CreateParams) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetCredential returns the user record excluding name fields.
	GetCredential(ctx context.Context, username string) (Credential, error)
}
