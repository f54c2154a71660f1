package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
	"github.com/pkordes/duty-logbook/backend/internal/metrics"
	"github.com/pkordes/duty-logbook/backend/internal/repo"
)

// EventPublisher announces newly recorded events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// EventService implements the write path of the duty log.
// It validates incoming events against the trip's lifecycle and fills in
// the fields the driver's device leaves to the server. It never rewrites
// odometer readings: regressions are stored as entered and reported later
// by BuildTripViewModel.
type EventService struct {
	events    repo.EventRepo
	publisher EventPublisher
	log       *slog.Logger
}

// NewEventService constructs an EventService. Events are announced on pub
// after they are stored.
func NewEventService(r repo.EventRepo, pub EventPublisher, log *slog.Logger) *EventService {
	return &EventService{events: r, publisher: pub, log: log}
}

// Record validates, completes and persists a single event.
// Returns domain.ErrValidation for malformed input, domain.ErrNotFound when
// the trip has not been started, and domain.ErrConflict when the event does
// not fit the trip's lifecycle.
//
// A publish failure is logged and does not fail the call: the event log is
// the source of truth and the feed is best-effort.
func (s *EventService) Record(ctx context.Context, ev domain.Event) (domain.Event, error) {
	if err := validateEvent(ev); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Record: %w", err)
	}

	existing, err := s.events.ListByTripID(ctx, ev.TripID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Record: %w", err)
	}

	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	ev, err = completeEvent(ev, sortedByTime(existing))
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Record: %w", err)
	}

	created, err := s.events.Create(ctx, ev)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Record: %w", err)
	}

	if err := s.publisher.Publish(ctx, created); err != nil {
		s.log.WarnContext(ctx, "event publish failed",
			"event_id", created.ID,
			"trip_id", created.TripID,
			"type", created.Type(),
			"error", err,
		)
	}
	return created, nil
}

// ListByTripID returns a trip's events, oldest first.
// Returns domain.ErrNotFound when the trip has no events at all.
func (s *EventService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Event, error) {
	events, err := s.events.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.ListByTripID: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("service.EventService.ListByTripID: %w", domain.ErrNotFound)
	}
	return sortedByTime(events), nil
}

// completeEvent checks ev against the trip's existing events and fills in
// server-assigned fields. existing must be sorted by time.
func completeEvent(ev domain.Event, existing []domain.Event) (domain.Event, error) {
	_, started := firstOf[domain.TripStart](existing)
	_, ended := lastOf[domain.TripEnd](existing)

	if _, isStart := ev.Extras.(domain.TripStart); isStart {
		if started {
			return domain.Event{}, fmt.Errorf("%w: trip already started", domain.ErrConflict)
		}
		return ev, nil
	}
	if !started {
		return domain.Event{}, fmt.Errorf("trip %s: %w", ev.TripID, domain.ErrNotFound)
	}
	if ended {
		return domain.Event{}, fmt.Errorf("%w: trip already ended", domain.ErrConflict)
	}

	switch x := ev.Extras.(type) {
	case domain.RestStart:
		if x.RestSessionID == "" {
			x.RestSessionID = uuid.NewString()
		}
		ev.Extras = x
	case domain.RestEnd:
		if x.RestSessionID == "" {
			id, ok := openRestSession(existing)
			if !ok {
				return domain.Event{}, fmt.Errorf("%w: no rest session is open", domain.ErrValidation)
			}
			x.RestSessionID = id
		}
		if x.DayClose && x.DayIndex == nil {
			next := nextDayIndex(existing)
			x.DayIndex = &next
		}
		ev.Extras = x
	case domain.TripEnd:
		if x.TotalKm == nil || x.LastLegKm == nil {
			totals := tripEndTotals(existing, x.OdoKm)
			x.TotalKm = &totals.TotalKm
			x.LastLegKm = &totals.LastLegKm
		}
		ev.Extras = x
	case domain.Expressway:
		if x.ICResolveStatus == "" {
			x.ICResolveStatus = domain.ICPending
		}
		ev.Extras = x
	}
	return ev, nil
}

// openRestSession returns the most recently started rest session that has
// not been ended yet.
func openRestSession(sorted []domain.Event) (string, bool) {
	var open []string
	for _, e := range sorted {
		switch x := e.Extras.(type) {
		case domain.RestStart:
			open = append(open, x.RestSessionID)
		case domain.RestEnd:
			for i, id := range open {
				if id == x.RestSessionID {
					open = append(open[:i], open[i+1:]...)
					break
				}
			}
		}
	}
	if len(open) == 0 {
		return "", false
	}
	return open[len(open)-1], true
}

// nextDayIndex returns the index of the duty day a new day-closing rest
// would close.
func nextDayIndex(sorted []domain.Event) int {
	next := 1
	for _, e := range sorted {
		re, ok := e.Extras.(domain.RestEnd)
		if !ok || !re.DayClose {
			continue
		}
		if re.DayIndex != nil {
			next = *re.DayIndex + 1
		} else {
			next++
		}
	}
	return next
}

// tripEndTotals precomputes the distances stored on a trip_end event.
func tripEndTotals(sorted []domain.Event, odoEnd float64) domain.Totals {
	start, _ := firstOf[domain.TripStart](sorted)
	in := metrics.TotalsInput{
		OdoStart: start.Extras.(domain.TripStart).OdoKm,
		OdoEnd:   odoEnd,
	}
	if rest, ok := lastOf[domain.RestStart](sorted); ok {
		odo := rest.Extras.(domain.RestStart).OdoKm
		in.LastRestStartOdo = &odo
	}
	return metrics.ComputeTotals(in)
}

// validateEvent enforces the shape rules common to every event kind.
func validateEvent(ev domain.Event) error {
	if ev.TripID == uuid.Nil {
		return fmt.Errorf("%w: trip id is required", domain.ErrValidation)
	}
	if !ev.Type().Known() {
		return fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, ev.Type())
	}
	if g := ev.Geo; g != nil {
		if !(g.Lat >= -90 && g.Lat <= 90) || !(g.Lng >= -180 && g.Lng <= 180) {
			return fmt.Errorf("%w: geo coordinates out of range", domain.ErrValidation)
		}
		if !(g.Accuracy >= 0) {
			return fmt.Errorf("%w: geo accuracy must not be negative", domain.ErrValidation)
		}
	}

	switch x := ev.Extras.(type) {
	case domain.TripStart:
		return validateOdo(x.OdoKm)
	case domain.TripEnd:
		return validateOdo(x.OdoKm)
	case domain.RestStart:
		return validateOdo(x.OdoKm)
	case domain.RestEnd:
		if x.DayIndex != nil && *x.DayIndex < 1 {
			return fmt.Errorf("%w: dayIndex must be at least 1", domain.ErrValidation)
		}
	case domain.Refuel:
		if x.Liters != nil && !(*x.Liters > 0) {
			return fmt.Errorf("%w: liters must be positive", domain.ErrValidation)
		}
	case domain.Expressway:
		if x.ICResolveStatus != "" && !x.ICResolveStatus.Valid() {
			return fmt.Errorf("%w: unknown icResolveStatus %q", domain.ErrValidation, x.ICResolveStatus)
		}
	}
	return nil
}

// validateOdo rejects readings no odometer can show. Regressions between
// readings are not checked here.
func validateOdo(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		return fmt.Errorf("%w: odoKm must be a non-negative number", domain.ErrValidation)
	}
	return nil
}
