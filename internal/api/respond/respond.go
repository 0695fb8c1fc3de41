// Package respond writes the JSON envelope shared by every API response.
// Handlers and middleware both go through it so status mapping and error
// logging happen in exactly one place.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatherly/server/internal/apperr"
	"github.com/rs/zerolog"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error translates err into the envelope. Unclassified errors become an
// opaque 500; the underlying cause goes to the request logger, never to
// the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)

	message := "internal server error"
	detail := ""
	var appErr *apperr.Error
	if errors.As(err, &appErr) && kind != apperr.Internal {
		message = appErr.Message
		detail = appErr.Detail
	}

	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("kind", string(kind)).
		Int("status", status).
		Str("path", r.URL.Path).
		Msg("request failed")

	write(w, status, envelope{
		Status:  "error",
		Message: message,
		Detail:  detail,
	})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidInput:
		return http.StatusBadRequest
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
