package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/respond"
	"github.com/gatherly/server/internal/apperr"
	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/users"
)

// AuthCookieName is the legacy cookie cleared on logout. Authentication
// itself is bearer-token only.
const AuthCookieName = "authToken"

type AuthHandler struct {
	users  *users.Service
	tokens *auth.JWTManager
}

func NewAuthHandler(userService *users.Service, tokens *auth.JWTManager) *AuthHandler {
	return &AuthHandler{users: userService, tokens: tokens}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), users.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	respond.JSON(w, http.StatusCreated, "user registered", newUserPayload(user))
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	cred, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respond.Error(w, r, domainError(err))
		return
	}

	token, err := h.tokens.Generate(cred.Username, string(auth.RoleUser))
	if err != nil {
		respond.Error(w, r, apperr.Wrap(apperr.Internal, "token issuance failed", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.JSON(w, http.StatusOK, "login successful", loginResponse{
		Token:    token,
		Username: cred.Username,
		Role:     string(auth.RoleUser),
	})
}

// Logout is stateless: tokens stay valid until expiry, only the cookie is
// cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, http.StatusOK, "logout successful", nil)
}

type verifyTokenResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		respond.Error(w, r, apperr.Wrap(apperr.Unauthenticated, "authentication required", err))
		return
	}

	claims, err := h.tokens.Validate(token)
	if err != nil {
		respond.Error(w, r, apperr.Wrap(apperr.Unauthenticated, "invalid or expired token", err))
		return
	}

	respond.JSON(w, http.StatusOK, "token valid", verifyTokenResponse{
		Username: claims.Username(),
		Role:     claims.Role,
	})
}
