package metrics

import "github.com/pkordes/duty-logbook/backend/internal/domain"

// TotalsInput describes a finished trip. LastRestStartOdo is the odometer at
// the most recent rest_start, or nil when the driver never rested.
type TotalsInput struct {
	OdoStart         float64
	OdoEnd           float64
	LastRestStartOdo *float64
}

// ComputeTotals returns the whole-trip distance and the distance driven since
// the last rest began (or since the start when there was no rest).
func ComputeTotals(in TotalsInput) domain.Totals {
	legFrom := in.OdoStart
	if in.LastRestStartOdo != nil {
		legFrom = *in.LastRestStartOdo
	}
	total := in.OdoEnd - in.OdoStart
	return domain.Totals{
		TotalKm:   total,
		LastLegKm: in.OdoEnd - legFrom,
		Valid:     total >= 0,
	}
}
