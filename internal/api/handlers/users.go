package handlers

import (
	"net/http"
	"strings"

	"github.com/gatherly/server/internal/api/respond"
	"github.com/gatherly/server/internal/apperr"
	"github.com/gatherly/server/internal/domain/users"
)

type UsersHandler struct {
	users *users.Service
}

func NewUsersHandler(userService *users.Service) *UsersHandler {
	return &UsersHandler{users: userService}
}

func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		respond.Error(w, r, apperr.New(apperr.NotFound, "user not found"))
		return
	}

	user, err := h.users.Profile(r.Context(), username)
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	respond.JSON(w, http.StatusOK, "user retrieved", newUserPayload(user))
}
