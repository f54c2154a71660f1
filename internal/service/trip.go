// Package service contains the business logic for the Duty Logbook API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
//
// The derivation engine (BuildTripViewModel, BuildTimeline) is pure and has
// no repo dependency; the services only load events and hand them over.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
	"github.com/pkordes/duty-logbook/backend/internal/repo"
)

// TripService serves the read side of a trip: its derived view, its
// timeline and the trip history list. Nothing is cached; every call
// rebuilds from the current event log.
type TripService struct {
	trips  repo.TripRepo
	events repo.EventRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, events repo.EventRepo) *TripService {
	return &TripService{trips: trips, events: events}
}

// View returns the derived view of a trip.
// Returns domain.ErrNotFound when the trip has no events at all; a trip with
// events but no trip_start yields a degenerate view, not an error.
func (s *TripService) View(ctx context.Context, tripID uuid.UUID) (domain.TripViewModel, error) {
	events, err := s.load(ctx, tripID)
	if err != nil {
		return domain.TripViewModel{}, fmt.Errorf("service.TripService.View: %w", err)
	}
	return BuildTripViewModel(tripID, events), nil
}

// Timeline returns every event of a trip rendered for display, oldest first.
func (s *TripService) Timeline(ctx context.Context, tripID uuid.UUID) ([]domain.TimelineItem, error) {
	events, err := s.load(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Timeline: %w", err)
	}
	return BuildTimeline(events), nil
}

// ListSummaries returns one page of the trip history with the total trip count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListSummaries(ctx context.Context, p domain.PaginationParams) ([]domain.TripSummary, int64, error) {
	ids, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListSummaries: %w", err)
	}

	summaries := make([]domain.TripSummary, 0, len(ids))
	for _, id := range ids {
		events, err := s.events.ListByTripID(ctx, id)
		if err != nil {
			return nil, 0, fmt.Errorf("service.TripService.ListSummaries: trip %s: %w", id, err)
		}
		summaries = append(summaries, summarize(id, events))
	}
	return summaries, total, nil
}

func (s *TripService) load(ctx context.Context, tripID uuid.UUID) ([]domain.Event, error) {
	events, err := s.events.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.ErrNotFound
	}
	return events, nil
}

// summarize condenses a trip's view into its history-list row.
func summarize(tripID uuid.UUID, events []domain.Event) domain.TripSummary {
	vm := BuildTripViewModel(tripID, events)
	sum := domain.TripSummary{
		TripID:    tripID,
		Status:    domain.TripActive,
		OdoStart:  vm.OdoStart,
		OdoEnd:    vm.OdoEnd,
		TotalKm:   vm.TotalKm,
		LastLegKm: vm.LastLegKm,
		OK:        vm.Validation.OK,
	}

	sorted := sortedByTime(filterTrip(tripID, events))
	if start, ok := firstOf[domain.TripStart](sorted); ok {
		ts := start.TS
		sum.StartTS = &ts
	}
	if vm.HasTripEnd {
		end, _ := lastOf[domain.TripEnd](sorted)
		ts := end.TS
		sum.EndTS = &ts
		sum.Status = domain.TripEnded
	}
	return sum
}
