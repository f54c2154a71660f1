package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a message for people.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the message because the handler knows what was looked up.
func notFoundBody(message string) ErrorResponse {
	return errorBody("not_found", message)
}

// validationBody returns an ErrorResponse for a domain validation failure.
func validationBody(err error) ErrorResponse {
	return errorBody("validation_error", unwrapMessage(err))
}

// conflictBody returns an ErrorResponse for an event that does not fit the
// trip's lifecycle.
func conflictBody(err error) ErrorResponse {
	return errorBody("conflict", unwrapMessage(err))
}

// requestBody returns an ErrorResponse for a request rejected before reaching
// the service layer (malformed JSON, missing fields).
func requestBody(message string) ErrorResponse {
	return errorBody("validation_error", message)
}

// paramBody returns an ErrorResponse for an unparseable path or query parameter.
func paramBody(message string) ErrorResponse {
	return errorBody("invalid_parameter", message)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.EventService.Record: validation error: liters must be positive"
// → "liters must be positive"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrConflict} {
		prefix := sentinel.Error() + ": "
		if i := strings.LastIndex(msg, prefix); i >= 0 && len(msg) > i+len(prefix) {
			return msg[i+len(prefix):]
		}
	}
	return msg
}

// writeServiceError maps a service error onto a status code and error body.
// Unrecognised errors are logged and reported as 500 without detail.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFoundMsg))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, conflictBody(err))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already sent; nothing useful to do on failure.
	json.NewEncoder(w).Encode(v)
}
