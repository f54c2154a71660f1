// Package handler implements the HTTP handlers for the Duty Logbook API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, event.go, export.go) but share the same Server
// struct so they can access its dependencies. Routes mirror spec/openapi.yaml.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// TripServicer defines the read operations the trip handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	View(ctx context.Context, tripID uuid.UUID) (domain.TripViewModel, error)
	Timeline(ctx context.Context, tripID uuid.UUID) ([]domain.TimelineItem, error)
	ListSummaries(ctx context.Context, p domain.PaginationParams) ([]domain.TripSummary, int64, error)
}

// EventServicer defines the event log operations.
type EventServicer interface {
	Record(ctx context.Context, ev domain.Event) (domain.Event, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Event, error)
}

// ExportServicer produces the flat per-event export of a trip.
type ExportServicer interface {
	Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error)
}

// Server holds the dependencies of every API endpoint.
type Server struct {
	trips  TripServicer
	events EventServicer
	export ExportServicer
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, events EventServicer, export ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, events: events, export: export, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Handler returns a chi router with every API route registered on s.
// Cross-cutting middleware (request ID, logging, CORS, body limits) is
// applied by the caller.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", r.Method+" is not allowed here"))
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.StartTrip)
		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/view", s.GetTripView)
			r.Get("/timeline", s.GetTripTimeline)
			r.Get("/events", s.ListEvents)
			r.Post("/events", s.RecordEvent)
			r.Get("/export", s.GetExport)
		})
	})
	return r
}
