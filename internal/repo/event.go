package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// EventRepo defines the persistence operations for duty events.
// Events are append-only: there is no update or delete.
type EventRepo interface {
	// Create inserts a new event and returns the persisted record (with
	// DB-generated id and created_at populated).
	Create(ctx context.Context, ev domain.Event) (domain.Event, error)

	// ListByTripID returns all events of a trip ordered by ts, then by
	// insertion order. Returns an empty slice when the trip has no events.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Event, error)
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

const eventColumns = `id, trip_id, type, ts, lat, lng, accuracy, address, extras, created_at`

// Create inserts an event row. The kind-specific payload is stored as jsonb.
func (r *pgEventRepo) Create(ctx context.Context, ev domain.Event) (domain.Event, error) {
	extras, err := domain.EncodeExtras(ev.Extras)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}

	const q = `
		INSERT INTO events (trip_id, type, ts, lat, lng, accuracy, address, extras)
		VALUES (@trip_id, @type, @ts, @lat, @lng, @accuracy, @address, @extras)
		RETURNING ` + eventColumns

	args := pgx.NamedArgs{
		"trip_id": ev.TripID,
		"type":    string(ev.Type()),
		"ts":      ev.TS,
		"address": ev.Address,
		"extras":  []byte(extras),
		// nil becomes NULL when there is no position fix
		"lat":      nil,
		"lng":      nil,
		"accuracy": nil,
	}
	if ev.Geo != nil {
		args["lat"] = ev.Geo.Lat
		args["lng"] = ev.Geo.Lng
		args["accuracy"] = ev.Geo.Accuracy
	}

	result, err := scanEvent(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}
	return result, nil
}

// ListByTripID returns a trip's events in timestamp order.
func (r *pgEventRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Event, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM events
		WHERE trip_id = @trip_id
		ORDER BY ts ASC, seq ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.ListByTripID: scan: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByTripID: rows: %w", err)
	}
	return events, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanEvent to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanEvent maps a single database row into a domain.Event, decoding the
// jsonb extras according to the type column.
func scanEvent(s scanner) (domain.Event, error) {
	var (
		ev       domain.Event
		id       pgtype.UUID
		tripID   pgtype.UUID
		typ      string
		lat      pgtype.Float8
		lng      pgtype.Float8
		accuracy pgtype.Float8
		extras   []byte
	)

	err := s.Scan(&id, &tripID, &typ, &ev.TS, &lat, &lng, &accuracy, &ev.Address, &extras, &ev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}

	ev.ID = uuid.UUID(id.Bytes)
	ev.TripID = uuid.UUID(tripID.Bytes)
	if lat.Valid && lng.Valid {
		ev.Geo = &domain.Geo{Lat: lat.Float64, Lng: lng.Float64, Accuracy: accuracy.Float64}
	}
	ev.Extras, err = domain.DecodeExtras(domain.EventType(typ), extras)
	if err != nil {
		return domain.Event{}, err
	}
	return ev, nil
}
