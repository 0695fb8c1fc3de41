package memberships

import (
	"time"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/google/uuid"
)

// Membership links one user to one event they have joined. The pair is
// unique; a user may hold at most one live membership per event.
type Membership struct {
	UserID    uuid.UUID
	EventID   uuid.UUID
	EventULID string
	CreatedAt time.Time
}

// JoinedEvent is a membership joined with its event detail, as returned by
// the my-events listing.
type JoinedEvent struct {
	Event    events.Event
	JoinedAt time.Time
}
