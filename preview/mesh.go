// Package preview builds a triangulated surface over a toolpath's
// endpoints. Viewport clients use it for a cheap shaded height
// preview without re-deriving anything from machine state.
package preview

import (
	"errors"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/maro7tigre/gcode-interpreter/coord"
	"github.com/maro7tigre/gcode-interpreter/geom"
)

// Mesh is a Delaunay triangulation of toolpath points in the XY plane,
// keeping each point's Z for height lookups.
type Mesh struct {
	minX, minY, maxX, maxY float64
	triangles              []coord.Triangle
}

// FromSegments collects the distinct endpoints of a recorded toolpath
// and triangulates them. Feed moves only; rapids hover above the work
// and would distort the surface.
func FromSegments(segs []geom.Segment) (*Mesh, error) {
	seen := make(map[coord.Point]bool)
	var points []coord.Point
	add := func(p coord.Point) {
		if seen[p] {
			return
		}
		seen[p] = true
		points = append(points, p)
	}
	for _, s := range segs {
		if s.Type == geom.MoveRapid {
			continue
		}
		add(s.Start)
		add(s.End)
	}
	return NewMesh(points)
}

// NewMesh triangulates a point set. At least three non-collinear
// points are required.
func NewMesh(points []coord.Point) (*Mesh, error) {
	if len(points) < 3 {
		return nil, errors.New("need at least 3 points to create a mesh")
	}

	points2d := make([]delaunay.Point, len(points))
	m := make(map[delaunay.Point]coord.Point, len(points))

	mesh := &Mesh{
		minX: points[0].X,
		minY: points[0].Y,
		maxX: points[0].X,
		maxY: points[0].Y,
	}
	var d delaunay.Point
	for i, p := range points {
		mesh.minX = math.Min(mesh.minX, p.X)
		mesh.minY = math.Min(mesh.minY, p.Y)
		mesh.maxX = math.Max(mesh.maxX, p.X)
		mesh.maxY = math.Max(mesh.maxY, p.Y)

		d.X = p.X
		d.Y = p.Y
		m[d] = p
		points2d[i] = d
	}
	mesh.minX -= coord.Epsilon
	mesh.minY -= coord.Epsilon
	mesh.maxX += coord.Epsilon
	mesh.maxY += coord.Epsilon

	tri, err := delaunay.Triangulate(points2d)
	if err != nil {
		return nil, err
	}

	mesh.triangles = make([]coord.Triangle, 0, len(tri.Triangles)/3)
	for i := 0; i < len(tri.Triangles); i += 3 {
		mesh.triangles = append(mesh.triangles, coord.Triangle{
			A: m[tri.Points[tri.Triangles[i]]],
			B: m[tri.Points[tri.Triangles[i+1]]],
			C: m[tri.Points[tri.Triangles[i+2]]],
		})
	}

	return mesh, nil
}

// Triangles returns the mesh faces for rendering.
func (m *Mesh) Triangles() []coord.Triangle { return m.triangles }

// Height interpolates the surface Z at (x, y). ok is false outside the
// triangulated region.
func (m *Mesh) Height(x, y float64) (z float64, ok bool) {
	if x < m.minX || m.maxX < x || y < m.minY || m.maxY < y {
		return 0, false
	}
	for _, t := range m.triangles {
		if !t.ContainsXY(x, y) {
			continue
		}
		return t.Z(x, y), true
	}
	return 0, false
}
