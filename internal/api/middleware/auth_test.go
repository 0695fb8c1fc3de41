package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gatherly/server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, sawClaims **auth.Claims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sawClaims != nil {
			*sawClaims = ClaimsFromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthMissingToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, "gatherly")
	handler := RequireAuth(manager, auth.RoleUser)(okHandler(t, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/my-events/u1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, "gatherly")
	handler := RequireAuth(manager, auth.RoleUser)(okHandler(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/my-events/u1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	issuer := auth.NewJWTManager("test-secret", -time.Minute, "gatherly")
	token, err := issuer.Generate("alice", "user")
	require.NoError(t, err)

	manager := auth.NewJWTManager("test-secret", time.Hour, "gatherly")
	handler := RequireAuth(manager, auth.RoleUser)(okHandler(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/my-events/u1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRoleGate(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, "gatherly")
	token, err := manager.Generate("alice", "user")
	require.NoError(t, err)

	handler := RequireAuth(manager, auth.RoleAdmin)(okHandler(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAuthPassesClaims(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, "gatherly")
	token, err := manager.Generate("alice", "user")
	require.NoError(t, err)

	var claims *auth.Claims
	handler := RequireAuth(manager, auth.RoleUser)(okHandler(t, &claims))

	req := httptest.NewRequest(http.MethodGet, "/api/my-events/u1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, "user", claims.Role)
}
