package events

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("event not found")

	// ErrOrganizerNotFound is returned when a create references a missing user.
	ErrOrganizerNotFound = errors.New("organizer not found")

	// ErrNoFields is returned for an update with no fields to apply.
	ErrNoFields = errors.New("no fields to update")
)

type Repository interface {
	List(ctx context.Context) ([]Event, error)
	GetByULID(ctx context.Context, ulid string) (Event, error)
	Create(ctx context.Context, params CreateParams) (Event, error)
	Update(ctx context.Context, ulid string, params UpdateParams) (Event, error)
	// Delete removes the event; dependent memberships cascade with it.
	Delete(ctx context.Context, ulid string) error
}
