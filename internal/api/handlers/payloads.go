package handlers

import (
	"time"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/memberships"
	"github.com/gatherly/server/internal/domain/users"
)

// Events are addressed by ULID on the wire; the internal UUID never leaves
// the storage layer.
type eventPayload struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Location               string    `json:"location"`
	Date                   time.Time `json:"date"`
	Time                   string    `json:"time"`
	Description            string    `json:"description"`
	OrganizerID            string    `json:"organizerId"`
	MaxParticipants        int       `json:"maxParticipants"`
	RegisteredParticipants int       `json:"registeredParticipants"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func newEventPayload(event events.Event) eventPayload {
	return eventPayload{
		ID:                     event.ULID,
		Name:                   event.Name,
		Location:               event.Location,
		Date:                   event.Date,
		Time:                   event.Time,
		Description:            event.Description,
		OrganizerID:            event.OrganizerID.String(),
		MaxParticipants:        event.MaxParticipants,
		RegisteredParticipants: event.RegisteredParticipants,
		CreatedAt:              event.CreatedAt,
		UpdatedAt:              event.UpdatedAt,
	}
}

func newEventPayloads(items []events.Event) []eventPayload {
	payloads := make([]eventPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, newEventPayload(item))
	}
	return payloads
}

type joinedEventPayload struct {
	eventPayload
	JoinedAt time.Time `json:"joinedAt"`
}

func newJoinedEventPayloads(items []memberships.JoinedEvent) []joinedEventPayload {
	payloads := make([]joinedEventPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, joinedEventPayload{
			eventPayload: newEventPayload(item.Event),
			JoinedAt:     item.JoinedAt,
		})
	}
	return payloads
}

type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserPayload(user users.User) userPayload {
	return userPayload{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}
