package handlers

import (
	"net/http"
	"strings"

	"github.com/gatherly/server/internal/api/respond"
	"github.com/gatherly/server/internal/apperr"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/domain/memberships"
	"github.com/google/uuid"
)

type MembershipsHandler struct {
	memberships *memberships.Service
}

func NewMembershipsHandler(membershipService *memberships.Service) *MembershipsHandler {
	return &MembershipsHandler{memberships: membershipService}
}

func userIDParam(r *http.Request) (uuid.UUID, error) {
	value := strings.TrimSpace(r.PathValue("userID"))
	userID, err := ids.ParseUUID(value)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.NotFound, "user not found")
	}
	return userID, nil
}

func (h *MembershipsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	joined, err := h.memberships.ListForUser(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	respond.JSON(w, http.StatusOK, "registered events retrieved", newJoinedEventPayloads(joined))
}

func (h *MembershipsHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	eventID, err := eventIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	membership, err := h.memberships.Register(r.Context(), userID, eventID)
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	respond.JSON(w, http.StatusCreated, "registered to event", map[string]any{
		"userId":   membership.UserID.String(),
		"eventId":  membership.EventULID,
		"joinedAt": membership.CreatedAt,
	})
}

func (h *MembershipsHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	eventID, err := eventIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.memberships.Unregister(r.Context(), userID, eventID); err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	respond.JSON(w, http.StatusOK, "unregistered from event", nil)
}
