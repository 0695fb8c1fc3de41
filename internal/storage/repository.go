// Package storage groups data access by domain.
package storage

import (
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/memberships"
	"github.com/gatherly/server/internal/domain/users"
)

type Repository interface {
	Users() users.Repository
	Events() events.Repository
	Memberships() memberships.Repository
}
