package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// eventJSON is the wire shape of an Event, shared by the HTTP API and the
// Kafka event feed.
type eventJSON struct {
	ID      uuid.UUID       `json:"id"`
	TripID  uuid.UUID       `json:"tripId"`
	Type    EventType       `json:"type"`
	TS      time.Time       `json:"ts"`
	Geo     *Geo            `json:"geo,omitempty"`
	Address string          `json:"address,omitempty"`
	Extras  json.RawMessage `json:"extras"`
}

// MarshalJSON encodes the event with its type tag and kind-specific extras.
func (e Event) MarshalJSON() ([]byte, error) {
	extras, err := EncodeExtras(e.Extras)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventJSON{
		ID:      e.ID,
		TripID:  e.TripID,
		Type:    e.Type(),
		TS:      e.TS,
		Geo:     e.Geo,
		Address: e.Address,
		Extras:  extras,
	})
}

// UnmarshalJSON decodes the wire shape, dispatching extras on the type tag.
// Absent ids and timestamps decode to their zero values.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w eventJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	extras, err := DecodeExtras(w.Type, w.Extras)
	if err != nil {
		return err
	}
	*e = Event{
		ID:      w.ID,
		TripID:  w.TripID,
		TS:      w.TS,
		Geo:     w.Geo,
		Address: w.Address,
		Extras:  extras,
	}
	return nil
}

// EncodeExtras returns the JSON object for a payload. Nil and payload-less
// kinds encode as an empty object.
func EncodeExtras(x Extras) (json.RawMessage, error) {
	if x == nil {
		return json.RawMessage("{}"), nil
	}
	if u, ok := x.(Unknown); ok {
		if len(u.Raw) == 0 {
			return json.RawMessage("{}"), nil
		}
		return u.Raw, nil
	}
	b, err := json.Marshal(x)
	if err != nil {
		return nil, fmt.Errorf("domain.EncodeExtras: %s: %w", x.EventType(), err)
	}
	return b, nil
}

// DecodeExtras builds the payload for the given type from its JSON object.
// An empty or null object yields the zero payload; fields the payload does
// not carry are ignored. Unrecognised types decode to Unknown.
func DecodeExtras(t EventType, raw json.RawMessage) (Extras, error) {
	if isEmptyJSON(raw) {
		raw = nil
	}
	switch t {
	case TypeTripStart:
		return decodeInto[TripStart](t, raw)
	case TypeTripEnd:
		return decodeInto[TripEnd](t, raw)
	case TypeRestStart:
		return decodeInto[RestStart](t, raw)
	case TypeRestEnd:
		return decodeInto[RestEnd](t, raw)
	case TypeRefuel:
		return decodeInto[Refuel](t, raw)
	case TypeExpressway:
		return decodeInto[Expressway](t, raw)
	case TypeBreakStart:
		return BreakStart{}, nil
	case TypeBreakEnd:
		return BreakEnd{}, nil
	case TypeLoadStart:
		return LoadStart{}, nil
	case TypeLoadEnd:
		return LoadEnd{}, nil
	case TypeBoarding:
		return Boarding{}, nil
	}
	u := Unknown{Kind: t}
	if raw != nil {
		u.Raw = append(json.RawMessage(nil), raw...)
	}
	return u, nil
}

func decodeInto[T Extras](t EventType, raw json.RawMessage) (Extras, error) {
	var v T
	if raw == nil {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("domain.DecodeExtras: %s: %w", t, err)
	}
	return v, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
