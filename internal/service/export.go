package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
	"github.com/pkordes/duty-logbook/backend/internal/repo"
)

// ExportService assembles a flat, per-event export of one trip.
type ExportService struct {
	events repo.EventRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(events repo.EventRepo) *ExportService {
	return &ExportService{events: events}
}

// Export returns one ExportRow per event of the trip, in timeline order.
// Title and Detail are rendered exactly as the timeline renders them.
// Returns domain.ErrNotFound when the trip has no events.
func (s *ExportService) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error) {
	events, err := s.events.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("service.ExportService.Export: %w", domain.ErrNotFound)
	}

	sorted := sortedByTime(events)
	rows := make([]domain.ExportRow, 0, len(sorted))
	for _, e := range sorted {
		item := renderEvent(e)
		row := domain.ExportRow{
			TS:      e.TS,
			Type:    string(e.Type()),
			Title:   item.Title,
			Detail:  item.Detail,
			Address: e.Address,
		}
		if e.Geo != nil {
			lat, lng := e.Geo.Lat, e.Geo.Lng
			row.Lat = &lat
			row.Lng = &lng
		}
		rows = append(rows, row)
	}
	return rows, nil
}
