package geom

import (
	"math"
	"testing"

	"github.com/maro7tigre/gcode-interpreter/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRCenter_ShortArc(t *testing.T) {
	start := coord.Point{X: 0, Y: 0}
	end := coord.Point{X: 10, Y: 0}

	// Semicircle: the center sits on the chord midpoint.
	c, err := RCenter(start, end, 5, true)
	require.NoError(t, err)
	assert.InDelta(t, 5, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)

	// Larger radius, clockwise short arc bulges up, center below.
	c, err = RCenter(start, end, 10, true)
	require.NoError(t, err)
	assert.InDelta(t, 5, c.X, 1e-9)
	assert.InDelta(t, -math.Sqrt(75), c.Y, 1e-9)

	// Counter-clockwise mirrors it.
	c, err = RCenter(start, end, 10, false)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(75), c.Y, 1e-9)
}

// A negative R selects the long way around.
func TestRCenter_LongArc(t *testing.T) {
	start := coord.Point{X: 0, Y: 0}
	end := coord.Point{X: 10, Y: 0}

	c, err := RCenter(start, end, -10, true)
	require.NoError(t, err)
	assert.InDelta(t, 5, c.X, 1e-9)
	assert.InDelta(t, math.Sqrt(75), c.Y, 1e-9)
}

func TestRCenter_Impossible(t *testing.T) {
	start := coord.Point{X: 0, Y: 0}
	end := coord.Point{X: 10, Y: 0}

	_, err := RCenter(start, end, 4, true)
	assert.Equal(t, ErrRadiusTooSmall, err)
}

// Floating point noise just past |R| must not reject a semicircle.
func TestRCenter_NearSemicircle(t *testing.T) {
	start := coord.Point{X: 0, Y: 0}
	end := coord.Point{X: 10, Y: 0}

	_, err := RCenter(start, end, 5+1e-14, true)
	assert.NoError(t, err)
}

func TestAngle(t *testing.T) {
	c := coord.Point{X: 0, Y: 0}

	assert.InDelta(t, 0, Angle(c, coord.Point{X: 1, Y: 0}), 1e-12)
	assert.InDelta(t, math.Pi/2, Angle(c, coord.Point{X: 0, Y: 1}), 1e-12)
	// Normalized into [0, 2pi).
	assert.InDelta(t, 3*math.Pi/2, Angle(c, coord.Point{X: 0, Y: -1}), 1e-12)
}

func TestSpan_Wraparound(t *testing.T) {
	assert.InDelta(t, math.Pi/2, Span(0, math.Pi/2), 1e-12)
	// Crossing zero: 350 degrees apart reads as 10.
	a0 := 2*math.Pi - 0.1
	assert.InDelta(t, 0.2, Span(a0, 0.1), 1e-12)
}

func TestArcLength(t *testing.T) {
	c := coord.Point{X: 0, Y: 0}
	start := coord.Point{X: 5, Y: 0}
	end := coord.Point{X: 0, Y: 5}

	assert.InDelta(t, 5*math.Pi/2, ArcLength(start, end, c), 1e-9)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Linear(1, MoveRapid, coord.Point{}, coord.Point{X: 10}, 0)
	r.Linear(2, MoveFeed, coord.Point{X: 10}, coord.Point{X: 10, Y: 5}, 100)
	r.Arc(2, coord.Point{X: 10, Y: 5}, coord.Point{X: 0, Y: 5}, coord.Point{X: 5, Y: 5}, true, 100)

	segs := r.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, 0, segs[0].ID)
	assert.Equal(t, MoveArcCW, segs[2].Type)
	assert.InDelta(t, 5, segs[2].Radius, 1e-9)

	// Line 2 produced the feed line and the arc.
	assert.Len(t, r.ForLine(2), 2)
	assert.Len(t, r.ForLine(1), 1)
	assert.Equal(t, 2, r.LineFor(2))
	assert.Equal(t, -1, r.LineFor(99))

	min, max, ok := r.Bounds()
	assert.True(t, ok)
	assert.Equal(t, coord.Point{}, min)
	assert.Equal(t, coord.Point{X: 10, Y: 5}, max)

	st := r.Stats()
	assert.Equal(t, 1, st.Counts[MoveRapid])
	assert.Equal(t, 1, st.Counts[MoveFeed])
	assert.Equal(t, 1, st.Counts[MoveArcCW])
	assert.InDelta(t, 10, st.RapidLength, 1e-9)
	assert.InDelta(t, 5+5*math.Pi, st.FeedLength, 1e-9)

	r.Reset()
	assert.Empty(t, r.Segments())
	_, _, ok = r.Bounds()
	assert.False(t, ok)
}

func TestRecorder_BoundsEndpointsOnly(t *testing.T) {
	r := NewRecorder()
	// A short arc whose center sits far below the endpoints.
	r.Arc(1, coord.Point{Y: 5}, coord.Point{X: 1, Y: 5}, coord.Point{X: 0.5, Y: -20}, true, 100)

	min, max, ok := r.Bounds()
	assert.True(t, ok)
	assert.Equal(t, coord.Point{Y: 5}, min)
	assert.Equal(t, coord.Point{X: 1, Y: 5}, max)
}
