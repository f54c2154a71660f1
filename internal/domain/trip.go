package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is whether a trip is still being driven.
type TripStatus string

const (
	TripActive TripStatus = "active"
	TripEnded  TripStatus = "ended"
)

// TripSummary is one row of the trip history list.
// A trip exists only as the events logged under its id; the summary is
// derived from its TripViewModel each time the list is requested.
type TripSummary struct {
	TripID    uuid.UUID  `json:"tripId"`
	Status    TripStatus `json:"status"`
	StartTS   *time.Time `json:"startTs,omitempty"` // nil when the trip_start is missing
	EndTS     *time.Time `json:"endTs,omitempty"`   // nil while the trip is active
	OdoStart  float64    `json:"odoStart"`
	OdoEnd    *float64   `json:"odoEnd,omitempty"`
	TotalKm   *float64   `json:"totalKm,omitempty"`
	LastLegKm *float64   `json:"lastLegKm,omitempty"`
	OK        bool       `json:"ok"` // the trip's validation report has no issues
}
