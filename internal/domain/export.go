package domain

import "time"

// ExportRow is a single row in a trip's flat event export: one row per
// event, in timeline order, with the rendered title and detail alongside the
// raw fields a spreadsheet user would want to filter on.
type ExportRow struct {
	TS      time.Time
	Type    string
	Title   string
	Detail  string
	Lat     *float64 // nil when the event has no position fix
	Lng     *float64
	Address string
}
