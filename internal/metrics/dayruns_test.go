package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/duty-logbook/backend/internal/metrics"
)

func TestComputeDayRuns_NoDayClose_Closed(t *testing.T) {
	runs := metrics.ComputeDayRuns(metrics.DayRunInput{
		OdoStart:   100,
		RestStarts: []metrics.RestOpen{{SessionID: "a", OdoKm: 150}},
		RestEnds:   []metrics.RestClose{{SessionID: "a"}}, // split rest, not a day boundary
		OdoEnd:     ptr(300.0),
	})

	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].DayIndex)
	assert.Equal(t, 100.0, runs[0].StartOdoKm)
	require.NotNil(t, runs[0].EndOdoKm)
	assert.Equal(t, 300.0, *runs[0].EndOdoKm)
	require.NotNil(t, runs[0].Km)
	assert.Equal(t, 200.0, *runs[0].Km)
	assert.False(t, runs[0].Closed)
	assert.True(t, runs[0].Valid)
}

func TestComputeDayRuns_NoDayClose_Open(t *testing.T) {
	runs := metrics.ComputeDayRuns(metrics.DayRunInput{OdoStart: 100})

	require.Len(t, runs, 1)
	assert.Equal(t, 100.0, runs[0].StartOdoKm)
	assert.Nil(t, runs[0].EndOdoKm, "open trip has an open-ended day")
	assert.Nil(t, runs[0].Km)
}

func TestComputeDayRuns_TwoDays(t *testing.T) {
	runs := metrics.ComputeDayRuns(metrics.DayRunInput{
		OdoStart: 1000,
		RestStarts: []metrics.RestOpen{
			{SessionID: "short", OdoKm: 1100},
			{SessionID: "night", OdoKm: 1400},
		},
		RestEnds: []metrics.RestClose{
			{SessionID: "short"},
			{SessionID: "night", DayClose: true, DayIndex: ptr(1)},
		},
		OdoEnd: ptr(1650.0),
	})

	require.Len(t, runs, 2)

	assert.Equal(t, 1, runs[0].DayIndex)
	assert.Equal(t, 1000.0, runs[0].StartOdoKm)
	assert.Equal(t, 1400.0, *runs[0].EndOdoKm)
	assert.Equal(t, 400.0, *runs[0].Km)
	assert.True(t, runs[0].Closed)

	assert.Equal(t, 2, runs[1].DayIndex)
	assert.Equal(t, 1400.0, runs[1].StartOdoKm)
	assert.Equal(t, 1650.0, *runs[1].EndOdoKm)
	assert.Equal(t, 250.0, *runs[1].Km)
	assert.False(t, runs[1].Closed)
}

func TestComputeDayRuns_OrdinalWhenDayIndexMissing(t *testing.T) {
	runs := metrics.ComputeDayRuns(metrics.DayRunInput{
		OdoStart: 0,
		RestStarts: []metrics.RestOpen{
			{SessionID: "d1", OdoKm: 300},
			{SessionID: "d2", OdoKm: 700},
		},
		RestEnds: []metrics.RestClose{
			{SessionID: "d1", DayClose: true},
			{SessionID: "d2", DayClose: true},
		},
	})

	require.Len(t, runs, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{runs[0].DayIndex, runs[1].DayIndex, runs[2].DayIndex})
	assert.Equal(t, 700.0, runs[2].StartOdoKm)
	assert.Nil(t, runs[2].EndOdoKm)
}

func TestComputeDayRuns_OrphanRestEndIgnored(t *testing.T) {
	runs := metrics.ComputeDayRuns(metrics.DayRunInput{
		OdoStart: 100,
		RestEnds: []metrics.RestClose{{SessionID: "x", DayClose: true, DayIndex: ptr(1)}},
		OdoEnd:   ptr(200.0),
	})

	// The orphan neither ends a day nor consumes a day index.
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].DayIndex)
	assert.Equal(t, 100.0, *runs[0].Km)
}

func TestComputeDayRuns_RegressionFlagged(t *testing.T) {
	runs := metrics.ComputeDayRuns(metrics.DayRunInput{
		OdoStart:   500,
		RestStarts: []metrics.RestOpen{{SessionID: "n", OdoKm: 400}},
		RestEnds:   []metrics.RestClose{{SessionID: "n", DayClose: true}},
		OdoEnd:     ptr(600.0),
	})

	require.Len(t, runs, 2)
	assert.Equal(t, -100.0, *runs[0].Km)
	assert.False(t, runs[0].Valid)
	assert.True(t, runs[1].Valid)
}
