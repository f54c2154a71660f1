package metrics

import "github.com/pkordes/duty-logbook/backend/internal/domain"

// RestOpen is the part of a rest_start the day-run computation needs.
type RestOpen struct {
	SessionID string
	OdoKm     float64
}

// RestClose is the part of a rest_end the day-run computation needs.
type RestClose struct {
	SessionID string
	DayClose  bool
	DayIndex  *int
}

// DayRunInput holds a trip's rests in timestamp order. OdoEnd is nil while
// the trip is still open.
type DayRunInput struct {
	OdoStart   float64
	RestStarts []RestOpen
	RestEnds   []RestClose
	OdoEnd     *float64
}

// ComputeDayRuns splits the trip into duty days. A day ends at the odometer
// of the rest_start whose session a day-closing rest_end finishes; the next
// day starts there. Rests that do not close a day are ignored, and so are
// rest_ends with no matching rest_start.
//
// The trailing day is always returned. It ends at OdoEnd, or is left
// open-ended when the trip has not finished.
func ComputeDayRuns(in DayRunInput) []domain.DayRun {
	odoBySession := make(map[string]float64, len(in.RestStarts))
	for _, rs := range in.RestStarts {
		if _, seen := odoBySession[rs.SessionID]; !seen {
			odoBySession[rs.SessionID] = rs.OdoKm
		}
	}

	var runs []domain.DayRun
	start := in.OdoStart
	day := 1
	for _, re := range in.RestEnds {
		if !re.DayClose {
			continue
		}
		end, ok := odoBySession[re.SessionID]
		if !ok {
			continue
		}
		if re.DayIndex != nil {
			day = *re.DayIndex
		}
		km := end - start
		runs = append(runs, domain.DayRun{
			DayIndex:   day,
			StartOdoKm: start,
			EndOdoKm:   &end,
			Km:         &km,
			Closed:     true,
			Valid:      km >= 0,
		})
		start = end
		day++
	}

	last := domain.DayRun{DayIndex: day, StartOdoKm: start, Valid: true}
	if in.OdoEnd != nil {
		end := *in.OdoEnd
		km := end - start
		last.EndOdoKm = &end
		last.Km = &km
		last.Valid = km >= 0
	}
	return append(runs, last)
}
