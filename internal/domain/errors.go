package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. negative odometer, unknown event type).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an event does not fit the trip's lifecycle,
// such as a second trip_start or any event after trip_end.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")
