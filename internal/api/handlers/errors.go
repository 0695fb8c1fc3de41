package handlers

import (
	"errors"

	"github.com/gatherly/server/internal/apperr"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/memberships"
	"github.com/gatherly/server/internal/domain/users"
)

// domainError maps domain sentinels onto the closed kind set. Anything
// unmapped falls through as Internal and stays opaque to the client.
func domainError(err error) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != apperr.Internal {
		return err
	}

	switch {
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, events.ErrNotFound),
		errors.Is(err, events.ErrOrganizerNotFound),
		errors.Is(err, memberships.ErrUserNotFound),
		errors.Is(err, memberships.ErrEventNotFound):
		return apperr.Wrap(apperr.NotFound, err.Error(), err)
	case errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, users.ErrUsernameTaken),
		errors.Is(err, memberships.ErrAlreadyRegistered),
		errors.Is(err, memberships.ErrNotRegistered):
		return apperr.Wrap(apperr.Conflict, err.Error(), err)
	case errors.Is(err, events.ErrNoFields):
		return apperr.Wrap(apperr.InvalidInput, err.Error(), err)
	case errors.Is(err, users.ErrInvalidCredentials):
		return apperr.Wrap(apperr.Unauthenticated, err.Error(), err)
	default:
		return err
	}
}
