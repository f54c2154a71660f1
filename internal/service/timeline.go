package service

import (
	"fmt"
	"strconv"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// eventTitles is the fixed display title of each event kind.
// Kinds missing from the table are shown by their raw type string.
var eventTitles = map[domain.EventType]string{
	domain.TypeTripStart:  "運行開始",
	domain.TypeTripEnd:    "運行終了",
	domain.TypeRestStart:  "休息開始",
	domain.TypeRestEnd:    "休息終了",
	domain.TypeBreakStart: "休憩開始",
	domain.TypeBreakEnd:   "休憩終了",
	domain.TypeLoadStart:  "積込開始",
	domain.TypeLoadEnd:    "積込終了",
	domain.TypeRefuel:     "給油",
	domain.TypeExpressway: "高速道路",
	domain.TypeBoarding:   "乗船",
}

// detailRenderers produce the type-specific part of a timeline detail.
// An empty string means the event has nothing type-specific to show.
var detailRenderers = map[domain.EventType]func(domain.Extras) string{
	domain.TypeRefuel:     refuelDetail,
	domain.TypeExpressway: expresswayDetail,
	domain.TypeTripEnd:    tripEndDetail,
	domain.TypeRestEnd:    restEndDetail,
}

// expresswayStatusText maps the IC lookup state to its marker. Pending and
// any unset status fall through to "IC検索中".
var expresswayStatusText = map[domain.ICResolveStatus]string{
	domain.ICResolved: "（取得済）",
	domain.ICFailed:   "IC取得失敗",
}

// locationSeparator joins the type-specific detail and the location.
const locationSeparator = " / "

// BuildTimeline renders every event as a TimelineItem, oldest first.
// Events with equal timestamps keep their input order. The input slice is
// not modified.
func BuildTimeline(events []domain.Event) []domain.TimelineItem {
	sorted := sortedByTime(events)
	items := make([]domain.TimelineItem, len(sorted))
	for i, e := range sorted {
		items[i] = renderEvent(e)
	}
	return items
}

// renderEvent builds the title and detail of a single event.
func renderEvent(e domain.Event) domain.TimelineItem {
	var detail string
	if render, ok := detailRenderers[e.Type()]; ok {
		detail = render(e.Extras)
	}
	if loc := formatLocation(e); loc != "" {
		if detail == "" {
			detail = loc
		} else {
			detail += locationSeparator + loc
		}
	}
	return domain.TimelineItem{TS: e.TS, Title: eventTitle(e.Type()), Detail: detail}
}

func eventTitle(t domain.EventType) string {
	if title, ok := eventTitles[t]; ok {
		return title
	}
	return string(t)
}

func refuelDetail(x domain.Extras) string {
	r, _ := x.(domain.Refuel)
	if r.Liters == nil {
		return ""
	}
	return formatNumber(*r.Liters) + " L"
}

func expresswayDetail(x domain.Extras) string {
	ex, _ := x.(domain.Expressway)
	text, ok := expresswayStatusText[ex.ICResolveStatus]
	if !ok {
		return "IC検索中"
	}
	if ex.ICResolveStatus == domain.ICResolved {
		name := ex.ICName
		if name == "" {
			name = "IC"
		}
		return name + text
	}
	return text
}

func tripEndDetail(x domain.Extras) string {
	te, _ := x.(domain.TripEnd)
	if te.TotalKm == nil || te.LastLegKm == nil {
		return ""
	}
	return fmt.Sprintf("総距離 %skm / 最終区間 %skm", formatNumber(*te.TotalKm), formatNumber(*te.LastLegKm))
}

func restEndDetail(x domain.Extras) string {
	re, _ := x.(domain.RestEnd)
	if !re.DayClose {
		return "分割休息"
	}
	day := ""
	if re.DayIndex != nil {
		day = strconv.Itoa(*re.DayIndex)
	}
	return day + "日目を締める"
}

// formatLocation prefers the resolved address and falls back to the raw
// coordinates at five decimal places.
func formatLocation(e domain.Event) string {
	if e.Address != "" {
		return e.Address
	}
	if e.Geo != nil {
		return fmt.Sprintf("(%.5f, %.5f)", e.Geo.Lat, e.Geo.Lng)
	}
	return ""
}

// formatNumber prints a distance or volume in its shortest form: 50, 12.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
