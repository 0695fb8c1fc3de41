package memberships

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("user already registered for event")
	ErrNotRegistered     = errors.New("user not registered for event")
)

// Repository is the sole writer of event registered-participant counters.
// Register and Unregister are atomic units: the existence checks, the
// membership mutation, and the counter adjustment commit or roll back
// together, so no concurrent reader or writer observes a partial state.
type Repository interface {
	// Register inserts Membership(userID, eventULID) and increments the
	// event counter. Returns ErrUserNotFound/ErrEventNotFound when a
	// referent is absent and ErrAlreadyRegistered when the pair exists;
	// in every failure case the counter is untouched.
	Register(ctx context.Context, userID uuid.UUID, eventULID string) (Membership, error)

	// Unregister deletes Membership(userID, eventULID) and decrements the
	// event counter. The decrement happens only when a row was actually
	// deleted; a missing membership yields ErrNotRegistered and no write.
	Unregister(ctx context.Context, userID uuid.UUID, eventULID string) error

	// ListForUser returns the user's memberships joined with event detail.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]JoinedEvent, error)
}
