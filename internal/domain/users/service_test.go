package users

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]User // keyed by username
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]User)}
}

func (f *fakeRepo) Create(_ context.Context, params CreateParams) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[params.Username]; ok {
		return User{}, ErrUsernameTaken
	}
	for _, existing := range f.users {
		if existing.Email == params.Email {
			return User{}, ErrEmailTaken
		}
	}
	user := User{
		ID:           uuid.New(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
	}
	f.users[params.Username] = user
	return user, nil
}

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeRepo) GetCredential(_ context.Context, username string) (Credential, error) {
	user, err := f.GetByUsername(context.Background(), username)
	if err != nil {
		return Credential{}, err
	}
	return Credential{ID: user.ID, Username: user.Username, Email: user.Email, PasswordHash: user.PasswordHash}, nil
}

func aliceParams() RegisterParams {
	return RegisterParams{
		Username:  "alice",
		Email:     "a@b.com",
		Password:  "p1",
		FirstName: "A",
		LastName:  "B",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, zerolog.Nop())

	user, err := service.Register(context.Background(), aliceParams())

	require.NoError(t, err)
	require.NotEqual(t, uuid.UUID{}, user.ID)
	require.NotEqual(t, "p1", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("p1")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, zerolog.Nop())

	_, err := service.Register(context.Background(), aliceParams())
	require.NoError(t, err)

	duplicate := aliceParams()
	duplicate.Username = "alice2"
	_, err = service.Register(context.Background(), duplicate)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, zerolog.Nop())

	_, err := service.Register(context.Background(), aliceParams())
	require.NoError(t, err)

	duplicate := aliceParams()
	duplicate.Email = "c@d.com"
	_, err = service.Register(context.Background(), duplicate)
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, zerolog.Nop())

	_, err := service.Register(context.Background(), aliceParams())
	require.NoError(t, err)

	credential, err := service.Authenticate(context.Background(), "alice", "p1")
	require.NoError(t, err)
	require.Equal(t, "alice", credential.Username)
	require.Equal(t, "a@b.com", credential.Email)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, zerolog.Nop())

	_, err := service.Register(context.Background(), aliceParams())
	require.NoError(t, err)

	_, err = service.Authenticate(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, zerolog.Nop())

	_, err := service.Authenticate(context.Background(), "nobody", "p1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfileStripsPasswordHash(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, zerolog.Nop())

	_, err := service.Register(context.Background(), aliceParams())
	require.NoError(t, err)

	user, err := service.Profile(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "A", user.FirstName)
	require.Equal(t, "B", user.LastName)
	require.Empty(t, user.PasswordHash)
}

func TestProfileUnknownUser(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, zerolog.Nop())

	_, err := service.Profile(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}
