package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is keyed internally by UUID and addressed publicly by ULID.
// RegisteredParticipants is a derived counter owned by the membership
// ledger; nothing else writes it.
type Event struct {
	ID                     uuid.UUID
	ULID                   string
	Name                   string
	Location               string
	Date                   time.Time
	Time                   string
	Description            string
	OrganizerID            uuid.UUID
	MaxParticipants        int
	RegisteredParticipants int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type CreateParams struct {
	ULID            string
	OrganizerID     uuid.UUID
	Name            string
	Description     string
	Date            time.Time
	Time            string
	Location        string
	MaxParticipants int
}

// UpdateParams is a partial patch; only non-nil fields are written.
type UpdateParams struct {
	Name            *string
	Description     *string
	Date            *time.Time
	Time            *string
	Location        *string
	MaxParticipants *int
}

func (p UpdateParams) IsEmpty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Date == nil &&
		p.Location == nil &&
		p.MaxParticipants == nil
}

// DisplayTime derives the stored display time from the event date.
const displayTimeLayout = "3:04:05 PM"

func DisplayTime(date time.Time) string {
	return date.Format(displayTimeLayout)
}
