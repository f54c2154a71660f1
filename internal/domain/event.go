// Package domain contains the core data types for the Duty Logbook application.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (metrics, repo, service, handler).
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType discriminates the kinds of duty events a driver can log.
type EventType string

const (
	TypeTripStart  EventType = "trip_start"
	TypeTripEnd    EventType = "trip_end"
	TypeRestStart  EventType = "rest_start"
	TypeRestEnd    EventType = "rest_end"
	TypeBreakStart EventType = "break_start"
	TypeBreakEnd   EventType = "break_end"
	TypeLoadStart  EventType = "load_start"
	TypeLoadEnd    EventType = "load_end"
	TypeRefuel     EventType = "refuel"
	TypeExpressway EventType = "expressway"
	TypeBoarding   EventType = "boarding"
)

// Known reports whether t is one of the eleven event kinds this build understands.
func (t EventType) Known() bool {
	switch t {
	case TypeTripStart, TypeTripEnd, TypeRestStart, TypeRestEnd,
		TypeBreakStart, TypeBreakEnd, TypeLoadStart, TypeLoadEnd,
		TypeRefuel, TypeExpressway, TypeBoarding:
		return true
	}
	return false
}

// Geo is a position fix captured alongside an event.
type Geo struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

// Event is one immutable entry in a trip's duty log.
// Extras holds the kind-specific payload and determines the event's type.
type Event struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	TS        time.Time
	Geo       *Geo   // nil when no fix was available
	Address   string // resolved address; empty when unresolved
	Extras    Extras
	CreatedAt time.Time
}

// Type returns the event kind, or the empty type when Extras is nil.
func (e Event) Type() EventType {
	if e.Extras == nil {
		return ""
	}
	return e.Extras.EventType()
}

// Extras is the kind-specific payload of an Event.
// The set of implementations is closed: one struct per EventType plus Unknown.
type Extras interface {
	EventType() EventType
	isExtras()
}

// TripStart opens a trip at the given odometer reading.
type TripStart struct {
	OdoKm float64 `json:"odoKm"`
}

// TripEnd closes a trip. TotalKm and LastLegKm are precomputed when the
// event is recorded and are nil on events logged without them.
type TripEnd struct {
	OdoKm     float64  `json:"odoKm"`
	TotalKm   *float64 `json:"totalKm,omitempty"`
	LastLegKm *float64 `json:"lastLegKm,omitempty"`
}

// RestStart begins a rest session. Its RestEnd shares RestSessionID.
type RestStart struct {
	RestSessionID string  `json:"restSessionId"`
	OdoKm         float64 `json:"odoKm"`
}

// RestEnd finishes a rest session. DayClose marks the rest as closing a
// duty day; DayIndex is the 1-based day it closed.
type RestEnd struct {
	RestSessionID string `json:"restSessionId"`
	DayClose      bool   `json:"dayClose,omitempty"`
	DayIndex      *int   `json:"dayIndex,omitempty"`
}

type BreakStart struct{}
type BreakEnd struct{}
type LoadStart struct{}
type LoadEnd struct{}
type Boarding struct{}

// Refuel records a fuel stop. Liters is nil when the driver skipped it.
type Refuel struct {
	Liters *float64 `json:"liters,omitempty"`
}

// ICResolveStatus tracks the lookup of the interchange name for an expressway event.
type ICResolveStatus string

const (
	ICPending  ICResolveStatus = "pending"
	ICResolved ICResolveStatus = "resolved"
	ICFailed   ICResolveStatus = "failed"
)

// Valid reports whether s is one of the three lookup states.
func (s ICResolveStatus) Valid() bool {
	return s == ICPending || s == ICResolved || s == ICFailed
}

// Expressway records entering an expressway.
type Expressway struct {
	ICResolveStatus ICResolveStatus `json:"icResolveStatus"`
	ICName          string          `json:"icName,omitempty"`
}

// Unknown carries an event whose type string this build does not recognise.
// It is only produced when decoding stored or incoming data; Raw keeps the
// original extras so they survive a round trip untouched.
type Unknown struct {
	Kind EventType       `json:"-"`
	Raw  json.RawMessage `json:"-"`
}

func (TripStart) EventType() EventType  { return TypeTripStart }
func (TripEnd) EventType() EventType    { return TypeTripEnd }
func (RestStart) EventType() EventType  { return TypeRestStart }
func (RestEnd) EventType() EventType    { return TypeRestEnd }
func (BreakStart) EventType() EventType { return TypeBreakStart }
func (BreakEnd) EventType() EventType   { return TypeBreakEnd }
func (LoadStart) EventType() EventType  { return TypeLoadStart }
func (LoadEnd) EventType() EventType    { return TypeLoadEnd }
func (Refuel) EventType() EventType     { return TypeRefuel }
func (Expressway) EventType() EventType { return TypeExpressway }
func (Boarding) EventType() EventType   { return TypeBoarding }
func (u Unknown) EventType() EventType  { return u.Kind }

func (TripStart) isExtras()  {}
func (TripEnd) isExtras()    {}
func (RestStart) isExtras()  {}
func (RestEnd) isExtras()    {}
func (BreakStart) isExtras() {}
func (BreakEnd) isExtras()   {}
func (LoadStart) isExtras()  {}
func (LoadEnd) isExtras()    {}
func (Refuel) isExtras()     {}
func (Expressway) isExtras() {}
func (Boarding) isExtras()   {}
func (Unknown) isExtras()    {}
