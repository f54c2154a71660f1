package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
	"github.com/pkordes/duty-logbook/backend/internal/repo"
	"github.com/pkordes/duty-logbook/backend/testutil"
)

// newTestTx opens a transaction against the test database that is rolled back
// when the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies the migrations.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

func newTestEventRepo(t *testing.T) repo.EventRepo {
	t.Helper()
	return repo.NewEventRepo(newTestTx(t))
}

var repoBase = time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC)

// eventFixture returns an event of the given trip at base+minute.
func eventFixture(tripID uuid.UUID, minute int, x domain.Extras) domain.Event {
	return domain.Event{
		TripID: tripID,
		TS:     repoBase.Add(time.Duration(minute) * time.Minute),
		Extras: x,
	}
}

func TestEventRepo_Create(t *testing.T) {
	r := newTestEventRepo(t)
	ctx := context.Background()

	input := eventFixture(uuid.New(), 0, domain.TripStart{OdoKm: 12345.6})
	input.Geo = &domain.Geo{Lat: 35.6812, Lng: 139.7671, Accuracy: 15}
	input.Address = "東京駅"

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.TripID, got.TripID)
	assert.True(t, got.TS.Equal(input.TS), "TS mismatch")
	assert.Equal(t, input.Geo, got.Geo)
	assert.Equal(t, "東京駅", got.Address)
	assert.Equal(t, domain.TripStart{OdoKm: 12345.6}, got.Extras)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestEventRepo_Create_NoGeo(t *testing.T) {
	r := newTestEventRepo(t)

	got, err := r.Create(context.Background(), eventFixture(uuid.New(), 0, domain.BreakStart{}))

	require.NoError(t, err)
	assert.Nil(t, got.Geo, "Geo should be nil when no fix was recorded")
	assert.Equal(t, domain.BreakStart{}, got.Extras)
}

func TestEventRepo_Create_ExtrasRoundTrip(t *testing.T) {
	r := newTestEventRepo(t)
	ctx := context.Background()
	tripID := uuid.New()
	day := 3
	total, last := 410.5, 88.0

	cases := []domain.Extras{
		domain.TripEnd{OdoKm: 900, TotalKm: &total, LastLegKm: &last},
		domain.RestStart{RestSessionID: "s-1", OdoKm: 800},
		domain.RestEnd{RestSessionID: "s-1", DayClose: true, DayIndex: &day},
		domain.Refuel{},
		domain.Expressway{ICResolveStatus: domain.ICFailed},
		domain.Unknown{Kind: "ferry_exit", Raw: []byte(`{"port":"大洗"}`)},
	}
	for i, x := range cases {
		got, err := r.Create(ctx, eventFixture(tripID, i, x))
		require.NoError(t, err)

		if u, ok := x.(domain.Unknown); ok {
			gu, ok := got.Extras.(domain.Unknown)
			require.True(t, ok)
			assert.Equal(t, u.Kind, gu.Kind)
			assert.JSONEq(t, string(u.Raw), string(gu.Raw))
			continue
		}
		assert.Equal(t, x, got.Extras)
	}
}

func TestEventRepo_ListByTripID_Ordered(t *testing.T) {
	r := newTestEventRepo(t)
	ctx := context.Background()
	tripID := uuid.New()

	// Inserted out of time order; the two breaks share a timestamp.
	for _, ev := range []domain.Event{
		eventFixture(tripID, 30, domain.LoadEnd{}),
		eventFixture(tripID, 0, domain.TripStart{OdoKm: 1}),
		eventFixture(tripID, 10, domain.BreakStart{}),
		eventFixture(tripID, 10, domain.BreakEnd{}),
	} {
		_, err := r.Create(ctx, ev)
		require.NoError(t, err)
	}
	_, err := r.Create(ctx, eventFixture(uuid.New(), 5, domain.Boarding{}))
	require.NoError(t, err)

	got, err := r.ListByTripID(ctx, tripID)

	require.NoError(t, err)
	require.Len(t, got, 4, "events of other trips must not leak in")
	types := make([]domain.EventType, len(got))
	for i, e := range got {
		types[i] = e.Type()
	}
	assert.Equal(t, []domain.EventType{
		domain.TypeTripStart, domain.TypeBreakStart, domain.TypeBreakEnd, domain.TypeLoadEnd,
	}, types)
}

func TestEventRepo_ListByTripID_Empty(t *testing.T) {
	r := newTestEventRepo(t)

	got, err := r.ListByTripID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
