package http

import (
	"errors"
	"net/http"

	"gestor/internal/core"
	applog "gestor/internal/log"
	"gestor/internal/services"
	"gestor/internal/storage"
)

var validationErrors = []error{
	core.ErrInvalidMonth,
	core.ErrInvalidYear,
	core.ErrInvalidAmount,
	core.ErrEmptyCategory,
	core.ErrEmptyClientName,
	core.ErrInvalidPlan,
	core.ErrInvalidPayDay,
	core.ErrInvalidDate,
	core.ErrInvalidTrialDays,
}

// writeServiceError maps service errors onto HTTP status codes. Unknown
// errors become 500 with a generic body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		NewResponse().NotFound("not found").Write(w)
	case errors.Is(err, services.ErrContractNotActive):
		NewResponse().Conflict(err.Error()).Write(w)
	case isValidationError(err):
		NewResponse().BadRequest(err.Error()).Write(w)
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		NewResponse().Internal().Write(w)
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
