package service

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
	"github.com/pkordes/duty-logbook/backend/internal/metrics"
)

// Validation messages. They are shown to the driver verbatim.
const (
	msgMissingTripStart = "trip_start が存在しません"
	msgOrphanRestEnd    = "rest_end の restSessionId が rest_start と対応しません: %s"
	msgNegativeSegment  = "区間距離が負数です: %s → %s (%skm)"
	msgNegativeTotal    = "運行距離が負数です（オド入力の逆転を確認してください）"
	msgMismatch         = "検算不一致: 区間合計=%skm / 総距離=%skm"
)

// BuildTripViewModel derives the full view of one trip from its event log.
//
// Events of other trips are ignored. The first trip_start and the last
// trip_end (by timestamp) are authoritative. Data-quality problems never
// abort the build: each one is appended to the returned Validation and the
// rest of the view is still computed. Without a trip_start the view is
// empty and carries a single missing_trip_start issue.
//
// The input slice is not modified, and equal inputs give equal outputs.
func BuildTripViewModel(tripID uuid.UUID, events []domain.Event) domain.TripViewModel {
	sorted := sortedByTime(filterTrip(tripID, events))
	var r report

	start, ok := firstOf[domain.TripStart](sorted)
	if !ok {
		r.add(domain.IssueMissingTripStart, msgMissingTripStart)
		return domain.TripViewModel{
			TripID:     tripID,
			Segments:   []domain.Segment{},
			DayRuns:    []domain.DayRun{},
			Timeline:   []domain.TimelineItem{},
			Validation: r.validation(),
		}
	}
	tripStart := start.Extras.(domain.TripStart)
	end, closed := lastOf[domain.TripEnd](sorted)

	var (
		restCheckpoints []metrics.Checkpoint
		restOpens       []metrics.RestOpen
		restCloses      []metrics.RestClose
	)
	for _, e := range sorted {
		switch x := e.Extras.(type) {
		case domain.RestStart:
			restCheckpoints = append(restCheckpoints, metrics.Checkpoint{OdoKm: x.OdoKm, TS: e.TS})
			restOpens = append(restOpens, metrics.RestOpen{SessionID: x.RestSessionID, OdoKm: x.OdoKm})
		case domain.RestEnd:
			restCloses = append(restCloses, metrics.RestClose{
				SessionID: x.RestSessionID,
				DayClose:  x.DayClose,
				DayIndex:  x.DayIndex,
			})
		}
	}

	sessions := make(map[string]struct{}, len(restOpens))
	for _, ro := range restOpens {
		sessions[ro.SessionID] = struct{}{}
	}
	for _, rc := range restCloses {
		if _, ok := sessions[rc.SessionID]; !ok {
			r.add(domain.IssueOrphanRestEnd, msgOrphanRestEnd, rc.SessionID)
		}
	}

	vm := domain.TripViewModel{
		TripID:     tripID,
		HasTripEnd: closed,
		OdoStart:   tripStart.OdoKm,
	}

	segIn := metrics.SegmentInput{
		OdoStart:    tripStart.OdoKm,
		TripStartTS: start.TS,
		RestStarts:  restCheckpoints,
	}
	dayIn := metrics.DayRunInput{
		OdoStart:   tripStart.OdoKm,
		RestStarts: restOpens,
		RestEnds:   restCloses,
	}
	var tripEnd domain.TripEnd
	if closed {
		tripEnd = end.Extras.(domain.TripEnd)
		odoEnd := tripEnd.OdoKm
		vm.OdoEnd = &odoEnd
		segIn.TripEnd = &metrics.Checkpoint{OdoKm: odoEnd, TS: end.TS}
		dayIn.OdoEnd = &odoEnd
	}

	vm.Segments = metrics.ComputeSegments(segIn)
	for _, seg := range vm.Segments {
		if !seg.Valid {
			r.add(domain.IssueNegativeSegment, msgNegativeSegment, seg.FromLabel, seg.ToLabel, formatNumber(seg.Km))
		}
	}

	vm.DayRuns = metrics.ComputeDayRuns(dayIn)

	if closed {
		totIn := metrics.TotalsInput{OdoStart: tripStart.OdoKm, OdoEnd: tripEnd.OdoKm}
		if n := len(restCheckpoints); n > 0 {
			last := restCheckpoints[n-1].OdoKm
			totIn.LastRestStartOdo = &last
		}
		totals := metrics.ComputeTotals(totIn)
		vm.TotalKm = &totals.TotalKm
		vm.LastLegKm = &totals.LastLegKm
		if !totals.Valid {
			r.add(domain.IssueNegativeTotal, msgNegativeTotal)
		}

		var segSum float64
		for _, seg := range vm.Segments {
			if seg.Valid {
				segSum += seg.Km
			}
		}
		if segSum != totals.TotalKm {
			r.add(domain.IssueReconciliationMismatch, msgMismatch, formatNumber(segSum), formatNumber(totals.TotalKm))
		}
	}

	vm.Timeline = BuildTimeline(sorted)
	vm.Validation = r.validation()
	return vm
}

// report accumulates validation issues in the order they are found.
type report struct {
	issues []domain.Issue
}

func (r *report) add(kind domain.IssueKind, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	r.issues = append(r.issues, domain.Issue{Kind: kind, Message: msg})
}

func (r *report) validation() domain.Validation {
	issues := r.issues
	if issues == nil {
		issues = []domain.Issue{}
	}
	return domain.Validation{OK: len(issues) == 0, Issues: issues}
}

// filterTrip returns the events that belong to tripID, in input order.
func filterTrip(tripID uuid.UUID, events []domain.Event) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	return out
}

// sortedByTime returns a copy of events in ascending timestamp order.
// The sort is stable, so equal timestamps keep their input order.
func sortedByTime(events []domain.Event) []domain.Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b domain.Event) int {
		return a.TS.Compare(b.TS)
	})
	return out
}

// firstOf returns the earliest event whose payload is a T.
func firstOf[T domain.Extras](sorted []domain.Event) (domain.Event, bool) {
	for _, e := range sorted {
		if _, ok := e.Extras.(T); ok {
			return e, true
		}
	}
	return domain.Event{}, false
}

// lastOf returns the latest event whose payload is a T.
func lastOf[T domain.Extras](sorted []domain.Event) (domain.Event, bool) {
	for i := len(sorted) - 1; i >= 0; i-- {
		if _, ok := sorted[i].Extras.(T); ok {
			return sorted[i], true
		}
	}
	return domain.Event{}, false
}
