package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Segment is the distance driven between two consecutive odometer checkpoints.
// Valid is false when the odometer went backwards; Km is kept as computed.
type Segment struct {
	FromLabel string    `json:"fromLabel"`
	ToLabel   string    `json:"toLabel"`
	FromTS    time.Time `json:"fromTs"`
	ToTS      time.Time `json:"toTs"`
	Km        float64   `json:"km"`
	Valid     bool      `json:"valid"`
}

// DayRun is one duty day's driving distance, bounded by day-closing rests.
// EndOdoKm and Km are nil while the day is still open on an unfinished trip.
type DayRun struct {
	DayIndex   int      `json:"dayIndex"`
	StartOdoKm float64  `json:"startOdoKm"`
	EndOdoKm   *float64 `json:"endOdoKm,omitempty"`
	Km         *float64 `json:"km,omitempty"`
	Closed     bool     `json:"closed"` // ended by a day-closing rest
	Valid      bool     `json:"valid"`
}

// Totals is the whole-trip and final-leg distance of a finished trip.
type Totals struct {
	TotalKm   float64 `json:"totalKm"`
	LastLegKm float64 `json:"lastLegKm"`
	Valid     bool    `json:"valid"`
}

// TimelineItem is the display form of a single event.
type TimelineItem struct {
	TS     time.Time `json:"ts"`
	Title  string    `json:"title"`
	Detail string    `json:"detail,omitempty"`
}

// IssueKind classifies a data-quality problem found while building a view.
type IssueKind string

const (
	IssueMissingTripStart       IssueKind = "missing_trip_start"
	IssueOrphanRestEnd          IssueKind = "orphan_rest_end"
	IssueNegativeSegment        IssueKind = "negative_segment"
	IssueNegativeTotal          IssueKind = "negative_total"
	IssueReconciliationMismatch IssueKind = "reconciliation_mismatch"
)

// Issue is one reported inconsistency. Message is already human-readable.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

// Validation is the accumulated report attached to a TripViewModel.
type Validation struct {
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues"`
}

// Errors returns the issue messages in the order they were reported.
func (v Validation) Errors() []string {
	out := make([]string, len(v.Issues))
	for i, is := range v.Issues {
		out[i] = is.Message
	}
	return out
}

// MarshalJSON adds the flat "errors" list alongside the typed issues, so
// clients that only display messages need not walk the issue objects.
func (v Validation) MarshalJSON() ([]byte, error) {
	issues := v.Issues
	if issues == nil {
		issues = []Issue{}
	}
	return json.Marshal(struct {
		OK     bool     `json:"ok"`
		Errors []string `json:"errors"`
		Issues []Issue  `json:"issues"`
	}{OK: v.OK, Errors: v.Errors(), Issues: issues})
}

// Count returns how many issues of the given kind were reported.
func (v Validation) Count(kind IssueKind) int {
	n := 0
	for _, is := range v.Issues {
		if is.Kind == kind {
			n++
		}
	}
	return n
}

// TripViewModel is everything derived from one trip's event log.
// It is rebuilt from the events on every request and never persisted.
type TripViewModel struct {
	TripID     uuid.UUID      `json:"tripId"`
	HasTripEnd bool           `json:"hasTripEnd"`
	OdoStart   float64        `json:"odoStart"`
	OdoEnd     *float64       `json:"odoEnd,omitempty"`
	TotalKm    *float64       `json:"totalKm,omitempty"`
	LastLegKm  *float64       `json:"lastLegKm,omitempty"`
	Segments   []Segment      `json:"segments"`
	DayRuns    []DayRun       `json:"dayRuns"`
	Timeline   []TimelineItem `json:"timeline"`
	Validation Validation     `json:"validation"`
}
