package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxisFromLetter(t *testing.T) {
	for i, letter := range []byte("XYZABCUVW") {
		a, ok := AxisFromLetter(letter)
		assert.True(t, ok)
		assert.Equal(t, Axis(i), a)
		assert.Equal(t, letter, a.Letter())
	}

	_, ok := AxisFromLetter('Q')
	assert.False(t, ok)
}

func TestVec(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{4, 5, 6}

	assert.Equal(t, Vec{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vec{3, 3, 3}, b.Sub(a))
	assert.Equal(t, Vec{2, 4, 6}, a.Mul(2))
	assert.Equal(t, Point{X: 1, Y: 2, Z: 3}, a.Point())
}
