package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
	"github.com/pkordes/duty-logbook/backend/internal/service"
)

func TestBuildTimeline_Titles(t *testing.T) {
	kinds := []domain.Extras{
		domain.TripStart{}, domain.TripEnd{}, domain.RestStart{}, domain.RestEnd{},
		domain.BreakStart{}, domain.BreakEnd{}, domain.LoadStart{}, domain.LoadEnd{},
		domain.Refuel{}, domain.Expressway{}, domain.Boarding{},
		domain.Unknown{Kind: "ferry_exit"},
	}
	events := make([]domain.Event, len(kinds))
	for i, x := range kinds {
		events[i] = evAt(i, x)
	}

	items := service.BuildTimeline(events)

	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	assert.Equal(t, []string{
		"運行開始", "運行終了", "休息開始", "休息終了",
		"休憩開始", "休憩終了", "積込開始", "積込終了",
		"給油", "高速道路", "乗船",
		"ferry_exit", // unknown kinds fall back to the raw type
	}, titles)
}

func TestBuildTimeline_SortedAndLengthPreserving(t *testing.T) {
	events := []domain.Event{
		evAt(30, domain.BreakEnd{}),
		evAt(10, domain.TripStart{OdoKm: 1}),
		evAt(20, domain.BreakStart{}),
		evAt(20, domain.Boarding{}), // same ts as the break: input order is kept
	}
	snapshot := append([]domain.Event(nil), events...)

	items := service.BuildTimeline(events)

	require.Len(t, items, len(events))
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].TS.Before(items[i-1].TS), "item %d is out of order", i)
	}
	assert.Equal(t, "休憩開始", items[1].Title)
	assert.Equal(t, "乗船", items[2].Title)
	assert.Equal(t, snapshot, events, "input must not be reordered")

	again := service.BuildTimeline(events)
	assert.Equal(t, items, again)
}

func TestBuildTimeline_Empty(t *testing.T) {
	items := service.BuildTimeline(nil)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBuildTimeline_Details(t *testing.T) {
	cases := []struct {
		name   string
		extras domain.Extras
		want   string
	}{
		{"refuel with liters", domain.Refuel{Liters: ptr(42.5)}, "42.5 L"},
		{"refuel without liters", domain.Refuel{}, ""},
		{"expressway resolved", domain.Expressway{ICResolveStatus: domain.ICResolved, ICName: "東名川崎"}, "東名川崎（取得済）"},
		{"expressway resolved without name", domain.Expressway{ICResolveStatus: domain.ICResolved}, "IC（取得済）"},
		{"expressway failed", domain.Expressway{ICResolveStatus: domain.ICFailed}, "IC取得失敗"},
		{"expressway pending", domain.Expressway{ICResolveStatus: domain.ICPending}, "IC検索中"},
		{"trip end with distances", domain.TripEnd{OdoKm: 500, TotalKm: ptr(400.0), LastLegKm: ptr(120.0)}, "総距離 400km / 最終区間 120km"},
		{"trip end missing last leg", domain.TripEnd{OdoKm: 500, TotalKm: ptr(400.0)}, ""},
		{"rest end closing day", domain.RestEnd{DayClose: true, DayIndex: ptr(2)}, "2日目を締める"},
		{"rest end split", domain.RestEnd{}, "分割休息"},
		{"break start", domain.BreakStart{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := service.BuildTimeline([]domain.Event{evAt(0, tc.extras)})

			require.Len(t, items, 1)
			assert.Equal(t, tc.want, items[0].Detail)
		})
	}
}

func TestBuildTimeline_Location(t *testing.T) {
	withGeo := evAt(0, domain.Refuel{Liters: ptr(30.0)})
	withGeo.Geo = &domain.Geo{Lat: 35.6812362, Lng: 139.7671248, Accuracy: 12}

	withAddress := evAt(1, domain.BreakStart{})
	withAddress.Address = "東京都千代田区丸の内1丁目"
	withAddress.Geo = &domain.Geo{Lat: 35.68, Lng: 139.76}

	geoOnly := evAt(2, domain.LoadStart{})
	geoOnly.Geo = &domain.Geo{Lat: -33.8688, Lng: 151.2093}

	items := service.BuildTimeline([]domain.Event{withGeo, withAddress, geoOnly})

	require.Len(t, items, 3)
	assert.Equal(t, "30 L / (35.68124, 139.76712)", items[0].Detail)
	assert.Equal(t, "東京都千代田区丸の内1丁目", items[1].Detail, "address wins over coordinates")
	assert.Equal(t, "(-33.86880, 151.20930)", items[2].Detail)
}
