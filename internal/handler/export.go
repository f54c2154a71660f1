package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{"ts", "type", "title", "detail", "lat", "lng", "address"}

// ExportRow is the JSON shape of one exported event.
type ExportRow struct {
	TS      time.Time `json:"ts"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Detail  string    `json:"detail,omitempty"`
	Lat     *float64  `json:"lat,omitempty"`
	Lng     *float64  `json:"lng,omitempty"`
	Address string    `json:"address,omitempty"`
}

// GetExport handles GET /trips/{tripId}/export.
// It returns one row per event in timeline order.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	id, err := tripIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}
	format, err := bindExportFormat(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}

	rows, err := s.export.Export(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	if format == ExportCSV {
		buf := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s.csv"`, id))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		buf.WriteTo(w)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

// buildJSONRows converts domain rows to their JSON shape.
func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow{
			TS:      r.TS,
			Type:    r.Type,
			Title:   r.Title,
			Detail:  r.Detail,
			Lat:     r.Lat,
			Lng:     r.Lng,
			Address: r.Address,
		})
	}
	return out
}

// buildCSV encodes domain rows as CSV with a header row.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(domainRowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A missing position becomes two empty cells.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.TS.UTC().Format(time.RFC3339),
		r.Type,
		r.Title,
		r.Detail,
		formatOptionalFloat(r.Lat),
		formatOptionalFloat(r.Lng),
		r.Address,
	}
}

// formatOptionalFloat returns the shortest decimal form of f, or "" if f is nil.
func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
