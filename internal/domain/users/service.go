package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password
// so login failures are indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid username or password")

// BcryptCost is the cost factor for bcrypt password hashing.
const BcryptCost = 12

// Service handles account registration and credential verification.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// Register creates a new account. The password is stored only in hashed form.
func (s *Service) Register(ctx context.Context, params RegisterParams) (User, error) {
	if _, err := s.repo.GetByEmail(ctx, params.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("check email: %w", err)
	}

	if _, err := s.repo.GetByUsername(ctx, params.Username); err == nil {
		return User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, CreateParams{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: string(hash),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
	})
	if err != nil {
		// The unique indexes backstop the pre-checks under concurrency.
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrUsernameTaken) {
			return User{}, err
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Authenticate verifies a username/password pair and returns the matching
// credential record.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Credential, error) {
	credential, err := s.repo.GetCredential(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Credential{}, ErrInvalidCredentials
		}
		return Credential{}, fmt.Errorf("get credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		return Credential{}, ErrInvalidCredentials
	}
	return credential, nil
}

// Profile returns the public account record for a username.
func (s *Service) Profile(ctx context.Context, username string) (User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}
