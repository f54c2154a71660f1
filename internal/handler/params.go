package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// tripIDParam binds the {tripId} path segment the way the generated
// oapi-codegen servers bind uuid path parameters.
func tripIDParam(r *http.Request) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "tripId", chi.URLParam(r, "tripId"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return openapi_types.UUID{}, fmt.Errorf("invalid tripId: %w", err)
	}
	return id, nil
}

// ListTripsParams holds the optional query parameters of GET /trips.
type ListTripsParams struct {
	Page  *int
	Limit *int
}

func bindListTripsParams(r *http.Request) (ListTripsParams, error) {
	var p ListTripsParams
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &p.Page); err != nil {
		return p, fmt.Errorf("invalid page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &p.Limit); err != nil {
		return p, fmt.Errorf("invalid limit: %w", err)
	}
	return p, nil
}

// ExportFormat selects the representation of GET /trips/{tripId}/export.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

func bindExportFormat(r *http.Request) (ExportFormat, error) {
	var format *ExportFormat
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		return "", fmt.Errorf("invalid format: %w", err)
	}
	if format == nil {
		return ExportJSON, nil
	}
	switch *format {
	case ExportJSON, ExportCSV:
		return *format, nil
	}
	return "", fmt.Errorf("invalid format: %q is not one of json, csv", *format)
}
