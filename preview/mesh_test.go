package preview

import (
	"testing"

	"github.com/maro7tigre/gcode-interpreter/coord"
	"github.com/maro7tigre/gcode-interpreter/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMesh(t *testing.T) {
	m, err := NewMesh([]coord.Point{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 2},
		{X: 0, Y: 10, Z: 4},
		{X: 10, Y: 10, Z: 6},
	})
	require.NoError(t, err)
	assert.Len(t, m.Triangles(), 2)

	z, ok := m.Height(0, 0)
	assert.True(t, ok)
	assert.InDelta(t, 0, z, 1e-9)

	z, ok = m.Height(5, 0)
	assert.True(t, ok)
	assert.InDelta(t, 1, z, 1e-9)

	_, ok = m.Height(50, 50)
	assert.False(t, ok)
}

func TestNewMesh_TooFewPoints(t *testing.T) {
	_, err := NewMesh([]coord.Point{{X: 0}, {X: 1}})
	assert.Error(t, err)
}

func TestMesh_FromSegments(t *testing.T) {
	segs := []geom.Segment{
		{Type: geom.MoveRapid, Start: coord.Point{X: -99, Y: -99, Z: 50}, End: coord.Point{Z: 50}},
		{Type: geom.MoveFeed, Start: coord.Point{}, End: coord.Point{X: 10, Z: 1}},
		{Type: geom.MoveFeed, Start: coord.Point{X: 10, Z: 1}, End: coord.Point{X: 10, Y: 10, Z: 2}},
		{Type: geom.MoveFeed, Start: coord.Point{X: 10, Y: 10, Z: 2}, End: coord.Point{Y: 10, Z: 3}},
	}
	m, err := FromSegments(segs)
	require.NoError(t, err)
	assert.NotEmpty(t, m.Triangles())

	// The rapid's hover points are excluded from the surface.
	_, ok := m.Height(-99, -99)
	assert.False(t, ok)

	z, ok := m.Height(10, 0)
	assert.True(t, ok)
	assert.InDelta(t, 1, z, 1e-9)
}

func TestMesh_FromSegments_OnlyRapids(t *testing.T) {
	segs := []geom.Segment{
		{Type: geom.MoveRapid, Start: coord.Point{}, End: coord.Point{X: 5}},
	}
	_, err := FromSegments(segs)
	assert.Error(t, err)
}
