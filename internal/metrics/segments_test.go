package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/duty-logbook/backend/internal/metrics"
)

// ---- helpers ---------------------------------------------------------------

var t0 = time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return t0.Add(time.Duration(hours) * time.Hour)
}

func checkpoint(odo float64, hours int) metrics.Checkpoint {
	return metrics.Checkpoint{OdoKm: odo, TS: at(hours)}
}

func ptr[T any](v T) *T { return &v }

// ---- ComputeSegments -------------------------------------------------------

func TestComputeSegments_NoRests_Closed(t *testing.T) {
	end := checkpoint(100, 8)
	segs := metrics.ComputeSegments(metrics.SegmentInput{
		OdoStart:    100,
		TripStartTS: at(0),
		TripEnd:     &end,
	})

	require.Len(t, segs, 1)
	assert.Equal(t, metrics.LabelStart, segs[0].FromLabel)
	assert.Equal(t, metrics.LabelEnd, segs[0].ToLabel)
	assert.Equal(t, 0.0, segs[0].Km)
	assert.True(t, segs[0].Valid, "a zero-distance trip is valid")
}

func TestComputeSegments_NoRests_Open(t *testing.T) {
	segs := metrics.ComputeSegments(metrics.SegmentInput{OdoStart: 100, TripStartTS: at(0)})

	assert.NotNil(t, segs)
	assert.Empty(t, segs)
}

func TestComputeSegments_OneRest_Closed(t *testing.T) {
	end := checkpoint(200, 10)
	segs := metrics.ComputeSegments(metrics.SegmentInput{
		OdoStart:    100,
		TripStartTS: at(0),
		RestStarts:  []metrics.Checkpoint{checkpoint(150, 4)},
		TripEnd:     &end,
	})

	require.Len(t, segs, 2)
	assert.Equal(t, "開始", segs[0].FromLabel)
	assert.Equal(t, "休息1", segs[0].ToLabel)
	assert.Equal(t, 50.0, segs[0].Km)
	assert.Equal(t, at(0), segs[0].FromTS)
	assert.Equal(t, at(4), segs[0].ToTS)
	assert.Equal(t, "休息1", segs[1].FromLabel)
	assert.Equal(t, "終了", segs[1].ToLabel)
	assert.Equal(t, 50.0, segs[1].Km)
	assert.True(t, segs[0].Valid && segs[1].Valid)
}

func TestComputeSegments_OpenTrip_OmitsTrailingSegment(t *testing.T) {
	segs := metrics.ComputeSegments(metrics.SegmentInput{
		OdoStart:    100,
		TripStartTS: at(0),
		RestStarts:  []metrics.Checkpoint{checkpoint(150, 4), checkpoint(230, 9)},
	})

	require.Len(t, segs, 2)
	assert.Equal(t, "休息1", segs[0].ToLabel)
	assert.Equal(t, "休息1", segs[1].FromLabel)
	assert.Equal(t, "休息2", segs[1].ToLabel)
	assert.Equal(t, 80.0, segs[1].Km)
}

func TestComputeSegments_Regression_KeptAndFlagged(t *testing.T) {
	end := checkpoint(180, 10)
	segs := metrics.ComputeSegments(metrics.SegmentInput{
		OdoStart:    100,
		TripStartTS: at(0),
		RestStarts:  []metrics.Checkpoint{checkpoint(90, 4)},
		TripEnd:     &end,
	})

	require.Len(t, segs, 2)
	// The negative distance must be reported as-is, never clamped to zero.
	assert.Equal(t, -10.0, segs[0].Km)
	assert.False(t, segs[0].Valid)
	assert.Equal(t, 90.0, segs[1].Km)
	assert.True(t, segs[1].Valid)
}

func TestComputeSegments_DoesNotMutateInput(t *testing.T) {
	rests := []metrics.Checkpoint{checkpoint(150, 4), checkpoint(120, 6)}
	snapshot := append([]metrics.Checkpoint(nil), rests...)

	_ = metrics.ComputeSegments(metrics.SegmentInput{OdoStart: 100, TripStartTS: at(0), RestStarts: rests})

	assert.Equal(t, snapshot, rests)
}

// ---- ComputeTotals ---------------------------------------------------------

func TestComputeTotals_NoRest(t *testing.T) {
	got := metrics.ComputeTotals(metrics.TotalsInput{OdoStart: 100, OdoEnd: 100})

	assert.Equal(t, 0.0, got.TotalKm)
	assert.Equal(t, 0.0, got.LastLegKm)
	assert.True(t, got.Valid)
}

func TestComputeTotals_LastLegFromLastRest(t *testing.T) {
	got := metrics.ComputeTotals(metrics.TotalsInput{
		OdoStart:         100,
		OdoEnd:           200,
		LastRestStartOdo: ptr(150.0),
	})

	assert.Equal(t, 100.0, got.TotalKm)
	assert.Equal(t, 50.0, got.LastLegKm)
	assert.True(t, got.Valid)
}

func TestComputeTotals_Regression(t *testing.T) {
	got := metrics.ComputeTotals(metrics.TotalsInput{OdoStart: 200, OdoEnd: 100})

	assert.Equal(t, -100.0, got.TotalKm, "total must not be clamped")
	assert.Equal(t, -100.0, got.LastLegKm)
	assert.False(t, got.Valid)
}
