package handlers

import (
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/api/respond"
	"github.com/gatherly/server/internal/apperr"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/users"
)

type EventsHandler struct {
	events *events.Service
	users  *users.Service
}

func NewEventsHandler(eventService *events.Service, userService *users.Service) *EventsHandler {
	return &EventsHandler{events: eventService, users: userService}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.events.List(r.Context())
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "events retrieved", newEventPayloads(items))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := eventIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	event, err := h.events.Get(r.Context(), eventID)
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "event retrieved", newEventPayload(event))
}

type createEventRequest struct {
	Name            string    `json:"name" validate:"required,max=200"`
	Location        string    `json:"location" validate:"required,max=200"`
	Date            time.Time `json:"date" validate:"required"`
	Description     string    `json:"description" validate:"max=2000"`
	MaxParticipants int       `json:"maxParticipants" validate:"gte=0"`
}

// Create records the authenticated user as organizer. Organizer is not a
// distinct role; any user may create events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respond.Error(w, r, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	organizer, err := h.users.Profile(r.Context(), claims.Username())
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	event, err := h.events.Create(r.Context(), events.CreateParams{
		OrganizerID:     organizer.ID,
		Name:            req.Name,
		Description:     req.Description,
		Date:            req.Date,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	respond.JSON(w, http.StatusCreated, "event created", newEventPayload(event))
}

type updateEventRequest struct {
	Name            *string    `json:"name" validate:"omitempty,max=200"`
	Location        *string    `json:"location" validate:"omitempty,max=200"`
	Date            *time.Time `json:"date"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	MaxParticipants *int       `json:"maxParticipants" validate:"omitempty,gte=0"`
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, err := eventIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	event, err := h.events.Update(r.Context(), eventID, events.UpdateParams{
		Name:            req.Name,
		Description:     req.Description,
		Date:            req.Date,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	respond.JSON(w, http.StatusOK, "event updated", newEventPayload(event))
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID, err := eventIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.events.Delete(r.Context(), eventID); err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	respond.JSON(w, http.StatusOK, "event deleted", nil)
}
