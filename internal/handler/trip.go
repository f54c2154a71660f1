package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TripSummaryPage is the body of GET /trips.
type TripSummaryPage struct {
	Data       []domain.TripSummary `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	q, err := bindListTripsParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}

	params := domain.NewPaginationParams(q.Page, q.Limit)
	trips, total, err := s.trips.ListSummaries(r.Context(), params)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, TripSummaryPage{
		Data: trips,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTripView handles GET /trips/{tripId}/view.
// Data-quality problems are reported inside the view's validation block with
// status 200; only a trip with no events at all is a 404.
func (s *Server) GetTripView(w http.ResponseWriter, r *http.Request) {
	id, err := tripIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}

	vm, err := s.trips.View(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

// GetTripTimeline handles GET /trips/{tripId}/timeline.
func (s *Server) GetTripTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := tripIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}

	items, err := s.trips.Timeline(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// StartTripRequest is the body of POST /trips.
type StartTripRequest struct {
	OdoKm   *float64    `json:"odoKm"`
	TS      *time.Time  `json:"ts,omitempty"`
	Geo     *domain.Geo `json:"geo,omitempty"`
	Address string      `json:"address,omitempty"`
}

// StartTrip handles POST /trips. It opens a new trip by recording its
// trip_start under a freshly generated trip id and returns that event.
func (s *Server) StartTrip(w http.ResponseWriter, r *http.Request) {
	var body StartTripRequest
	if status, resp, ok := decodeBody(r, &body); !ok {
		writeJSON(w, status, resp)
		return
	}

	ev, err := requestToTripStart(body)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	created, err := s.events.Record(r.Context(), ev)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	w.Header().Set("Location", "/trips/"+created.TripID.String()+"/view")
	writeJSON(w, http.StatusCreated, created)
}

// --- mapping helpers --------------------------------------------------------

// requestToTripStart builds the trip_start event for a new trip.
func requestToTripStart(body StartTripRequest) (domain.Event, error) {
	if body.OdoKm == nil {
		return domain.Event{}, errors.New("odoKm is required")
	}
	ev := domain.Event{
		TripID:  uuid.New(),
		Geo:     body.Geo,
		Address: body.Address,
		Extras:  domain.TripStart{OdoKm: *body.OdoKm},
	}
	if body.TS != nil {
		ev.TS = body.TS.UTC()
	}
	return ev, nil
}
