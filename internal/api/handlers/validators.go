package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gatherly/server/internal/apperr"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeJSON parses the request body into dst and runs struct-tag
// validation. Failures surface as InvalidInput with a field-level detail.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperr.Wrap(apperr.InvalidInput, "malformed request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return apperr.New(apperr.InvalidInput, "validation failed").WithDetail(validationDetail(fieldErrs))
		}
		return apperr.Wrap(apperr.InvalidInput, "validation failed", err)
	}
	return nil
}

func validationDetail(fieldErrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, strings.ToLower(fe.Field())+": failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}

// eventIDParam extracts and validates the {eventID} path value.
func eventIDParam(r *http.Request) (string, error) {
	value := strings.TrimSpace(r.PathValue("eventID"))
	if err := ids.ValidateULID(value); err != nil {
		return "", apperr.New(apperr.NotFound, "event not found")
	}
	return ids.NormalizeULID(value), nil
}
