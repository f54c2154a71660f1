// Package repo contains all database access logic for the Duty Logbook API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo indexes the trips present in the event log.
// A trip has no row of its own; it exists as the events sharing its trip_id.
type TripRepo interface {
	// ListPaged returns one page of trip IDs, most recently started first,
	// along with the total number of trips.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]uuid.UUID, int64, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// ListPaged orders trips by their earliest event so a trip whose trip_start
// is missing still appears in the list.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]uuid.UUID, int64, error) {
	const countQ = `SELECT COUNT(DISTINCT trip_id) FROM events`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT trip_id
		FROM events
		GROUP BY trip_id
		ORDER BY MIN(ts) DESC, trip_id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		ids = append(ids, uuid.UUID(id.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}

	return ids, total, nil
}
