// Package metrics derives distances from a trip's odometer checkpoints.
// Every function here is pure: it reads its input, allocates its output and
// cannot fail. Odometer regressions are reported through Valid flags and
// never corrected.
package metrics

import (
	"fmt"
	"time"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// Checkpoint labels used in segment endpoints.
const (
	LabelStart = "開始"
	LabelEnd   = "終了"
)

// RestLabel names the n-th rest stop of a trip (1-based).
func RestLabel(n int) string {
	return fmt.Sprintf("休息%d", n)
}

// Checkpoint is an odometer reading taken at a point in time.
type Checkpoint struct {
	OdoKm float64
	TS    time.Time
}

// SegmentInput is the checkpoint sequence of one trip.
// RestStarts must already be in timestamp order. TripEnd is nil while the
// trip is still open.
type SegmentInput struct {
	OdoStart    float64
	TripStartTS time.Time
	RestStarts  []Checkpoint
	TripEnd     *Checkpoint
}

type labeledCheckpoint struct {
	Checkpoint
	label string
}

// ComputeSegments returns one Segment per pair of consecutive checkpoints:
// trip start, each rest start, then trip end when known. Without a trip end
// the trailing segment after the last rest is omitted.
func ComputeSegments(in SegmentInput) []domain.Segment {
	points := make([]labeledCheckpoint, 0, len(in.RestStarts)+2)
	points = append(points, labeledCheckpoint{
		Checkpoint: Checkpoint{OdoKm: in.OdoStart, TS: in.TripStartTS},
		label:      LabelStart,
	})
	for i, rs := range in.RestStarts {
		points = append(points, labeledCheckpoint{Checkpoint: rs, label: RestLabel(i + 1)})
	}
	if in.TripEnd != nil {
		points = append(points, labeledCheckpoint{Checkpoint: *in.TripEnd, label: LabelEnd})
	}

	segments := make([]domain.Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, next := points[i-1], points[i]
		km := next.OdoKm - prev.OdoKm
		segments = append(segments, domain.Segment{
			FromLabel: prev.label,
			ToLabel:   next.label,
			FromTS:    prev.TS,
			ToTS:      next.TS,
			Km:        km,
			Valid:     km >= 0,
		})
	}
	return segments
}
