package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Add(t *testing.T) {
	a := Point{X: 1, Y: 2, Z: 3}
	b := Point{X: 4, Y: 5, Z: 6}

	assert.Equal(t, Point{X: 5, Y: 7, Z: 9}, a.Add(b))
}

func TestPoint_Mid(t *testing.T) {
	a := Point{X: 0, Y: 0, Z: 0}
	b := Point{X: 10, Y: 4, Z: 2}

	assert.Equal(t, Point{X: 5, Y: 2, Z: 1}, a.Mid(b))
}

func TestPoint_Distance(t *testing.T) {
	a := Point{X: 1, Y: 2, Z: 2}

	assert.Equal(t, 3.0, Point{}.Distance(a))
}

func TestPoint_DistanceXY(t *testing.T) {
	dist := Point{X: 1, Y: 2, Z: 3}.DistanceXY(4, 5)
	assert.InEpsilon(t, 4.24264, dist, .01)
}
