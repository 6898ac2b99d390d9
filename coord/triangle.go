package coord

import (
	"math"
)

const (
	// Epsilon is the max error when checking containment.
	Epsilon   = 0.001
	epsilonSq = Epsilon * Epsilon
)

type Triangle struct{ A, B, C Point }

// ContainsXY returns true if the 2D projection of the triangle
// has the point x,y.
func (t Triangle) ContainsXY(x, y float64) bool {
	if !t.boundContainsXY(x, y) {
		return false
	}
	if t.naiveContainsXY(x, y) {
		return true
	}
	if distanceSqToSegment(t.A, t.B, x, y) <= epsilonSq {
		return true
	}
	if distanceSqToSegment(t.B, t.C, x, y) <= epsilonSq {
		return true
	}
	return distanceSqToSegment(t.C, t.A, x, y) <= epsilonSq
}

// Z will give the Z-coordinate on the plane defined by the triangle
// where it intersects x,y.
func (t Triangle) Z(x, y float64) float64 {
	cp := t.C.Sub(t.A).Cross(t.B.Sub(t.A))
	d := cp.Dot(t.C)
	return (d - cp.X*x - cp.Y*y) / cp.Z
}

// adapted from https://totologic.blogspot.com/2014/01/accurate-point-in-triangle-test.html

func side(a, b Point, x, y float64) float64 {
	return (b.Y-a.Y)*(x-a.X) + (a.X-b.X)*(y-a.Y)
}

func (t Triangle) naiveContainsXY(x, y float64) bool {
	return side(t.A, t.B, x, y) >= 0 &&
		side(t.B, t.C, x, y) >= 0 &&
		side(t.C, t.A, x, y) >= 0
}

func (t Triangle) boundContainsXY(x, y float64) bool {
	xMin := math.Min(t.A.X, math.Min(t.B.X, t.C.X)) - Epsilon
	xMax := math.Max(t.A.X, math.Max(t.B.X, t.C.X)) + Epsilon
	yMin := math.Min(t.A.Y, math.Min(t.B.Y, t.C.Y)) - Epsilon
	yMax := math.Max(t.A.Y, math.Max(t.B.Y, t.C.Y)) + Epsilon

	return x >= xMin && x <= xMax && y >= yMin && y <= yMax
}

func distanceSqToSegment(a, b Point, x, y float64) float64 {
	segSq := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	dot := ((x-a.X)*(b.X-a.X) + (y-a.Y)*(b.Y-a.Y)) / segSq
	if dot < 0 {
		return (x-a.X)*(x-a.X) + (y-a.Y)*(y-a.Y)
	}
	if dot <= 1 {
		apSq := (a.X-x)*(a.X-x) + (a.Y-y)*(a.Y-y)
		return apSq - dot*dot*segSq
	}
	return (x-b.X)*(x-b.X) + (y-b.Y)*(y-b.Y)
}
