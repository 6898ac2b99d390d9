// Package geom derives render geometry from interpreted motion: arc
// center math, per-segment bookkeeping, running bounds and length
// totals. Segments are a view for viewport consumers and never feed
// back into machine state.
package geom

import (
	"errors"
	"math"

	"github.com/maro7tigre/gcode-interpreter/coord"
)

// epsilon absorbs floating point noise when a half-chord lands just
// past |R| on a near-semicircle.
const epsilon = 1e-12

var ErrRadiusTooSmall = errors.New("arc radius smaller than half the chord")

// RCenter computes the center of an R-format arc in the 2D working
// plane. With R positive the minor (short) arc is chosen for the given
// direction; a negative R selects the major arc. An R smaller than
// half the chord cannot reach both endpoints and is an error; no value
// is substituted.
func RCenter(start, end coord.Point, radius float64, clockwise bool) (coord.Point, error) {
	halfChord := start.Distance(end) / 2
	r := math.Abs(radius)
	if halfChord > r {
		if halfChord-r > epsilon {
			return coord.Point{}, ErrRadiusTooSmall
		}
		halfChord = r
	}
	offset := math.Sqrt(r*r - halfChord*halfChord)

	// Perpendicular to the chord; which side picks short versus long.
	theta := math.Atan2(end.Y-start.Y, end.X-start.X)
	if (clockwise && radius > 0) || (!clockwise && radius < 0) {
		theta -= math.Pi / 2
	} else {
		theta += math.Pi / 2
	}

	mid := start.Mid(end)
	return coord.Point{
		X: mid.X + offset*math.Cos(theta),
		Y: mid.Y + offset*math.Sin(theta),
	}, nil
}

// Angle returns the angle of p around center, normalized to [0, 2pi).
func Angle(center, p coord.Point) float64 {
	a := math.Atan2(p.Y-center.Y, p.X-center.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Span returns the angular span between two normalized angles,
// accounting for wraparound.
func Span(a0, a1 float64) float64 {
	d := math.Abs(a1 - a0)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// ArcRadius derives a display radius as the mean distance of both
// endpoints to the center. Rendering tolerates slightly inconsistent
// input; motion correctness never depends on this value.
func ArcRadius(center, start, end coord.Point) float64 {
	return (center.Distance(start) + center.Distance(end)) / 2
}

// ArcLength computes radius times angular span; when the radius is
// unusable the straight-line distance is the documented fallback.
func ArcLength(start, end, center coord.Point) float64 {
	r := ArcRadius(center, start, end)
	if r <= 0 {
		return start.Distance(end)
	}
	return r * Span(Angle(center, start), Angle(center, end))
}
