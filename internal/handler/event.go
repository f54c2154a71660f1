package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// ListEvents handles GET /trips/{tripId}/events.
// Returns the raw event log, oldest first.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, err := tripIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}

	events, err := s.events.ListByTripID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// RecordEvent handles POST /trips/{tripId}/events.
// The trip id in the path wins over any tripId in the body; a client-sent
// event id is ignored.
func (s *Server) RecordEvent(w http.ResponseWriter, r *http.Request) {
	id, err := tripIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}

	var ev domain.Event
	if status, resp, ok := decodeBody(r, &ev); !ok {
		writeJSON(w, status, resp)
		return
	}
	ev.ID = uuid.Nil
	ev.TripID = id
	if !ev.TS.IsZero() {
		ev.TS = ev.TS.UTC()
	}

	created, err := s.events.Record(r.Context(), ev)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// decodeBody decodes a JSON request body into dst. On failure it returns the
// status and error body to send: 413 when the body-size limit was hit,
// 422 for anything unreadable.
func decodeBody(r *http.Request, dst any) (int, ErrorResponse, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return http.StatusUnprocessableEntity, requestBody("request body is required"), false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, errorBody("payload_too_large", err.Error()), false
		}
		return http.StatusUnprocessableEntity, requestBody("malformed JSON body: " + err.Error()), false
	}
	return 0, ErrorResponse{}, true
}
