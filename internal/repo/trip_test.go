package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
	"github.com/pkordes/duty-logbook/backend/internal/repo"
)

func TestTripRepo_ListPaged(t *testing.T) {
	tx := newTestTx(t)
	events := repo.NewEventRepo(tx)
	trips := repo.NewTripRepo(tx)
	ctx := context.Background()

	older, newer := uuid.New(), uuid.New()
	for _, ev := range []domain.Event{
		eventFixture(older, 0, domain.TripStart{OdoKm: 100}),
		eventFixture(older, 600, domain.TripEnd{OdoKm: 300}),
		eventFixture(newer, 60, domain.TripStart{OdoKm: 300}),
	} {
		_, err := events.Create(ctx, ev)
		require.NoError(t, err)
	}

	limit := 100
	ids, total, err := trips.ListPaged(ctx, domain.NewPaginationParams(nil, &limit))

	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(2))
	// Ordered by first event, most recent first: newer started later.
	iNewer, iOlder := indexOf(ids, newer), indexOf(ids, older)
	require.NotEqual(t, -1, iNewer)
	require.NotEqual(t, -1, iOlder)
	assert.Less(t, iNewer, iOlder)
}

func TestTripRepo_ListPaged_Pagination(t *testing.T) {
	tx := newTestTx(t)
	events := repo.NewEventRepo(tx)
	trips := repo.NewTripRepo(tx)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := events.Create(ctx, eventFixture(uuid.New(), i, domain.TripStart{OdoKm: 1}))
		require.NoError(t, err)
	}

	page, limit := 1, 2
	first, total, err := trips.ListPaged(ctx, domain.NewPaginationParams(&page, &limit))
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.GreaterOrEqual(t, total, int64(3))

	page = 2
	second, _, err := trips.ListPaged(ctx, domain.NewPaginationParams(&page, &limit))
	require.NoError(t, err)
	assert.NotEmpty(t, second)
	for _, id := range second {
		assert.Equal(t, -1, indexOf(first, id), "pages must not overlap")
	}
}

func indexOf(ids []uuid.UUID, want uuid.UUID) int {
	for i, id := range ids {
		if id == want {
			return i
		}
	}
	return -1
}
