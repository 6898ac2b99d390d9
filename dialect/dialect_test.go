package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeFromFloat(t *testing.T) {
	assert.Equal(t, Code{Major: 0}, CodeFromFloat(0))
	assert.Equal(t, Code{Major: 59, Minor: 1}, CodeFromFloat(59.1))
	assert.Equal(t, Code{Major: 92, Minor: 3}, CodeFromFloat(92.3))
	assert.Equal(t, Code{Major: 17}, CodeFromFloat(17.0))

	assert.Equal(t, "59.1", Code{Major: 59, Minor: 1}.String())
	assert.Equal(t, "17", Code{Major: 17}.String())
	assert.Equal(t, 59.1, Code{Major: 59, Minor: 1}.Float())
}

func TestLinuxCNC(t *testing.T) {
	tab := LinuxCNC()
	assert.Equal(t, "linuxcnc", tab.Name())

	e, ok := tab.GCode(Code{Major: 1})
	assert.True(t, ok)
	assert.Equal(t, HandlerLinearFeed, e.Handler)
	assert.Equal(t, GroupMotion, e.Group)

	e, ok = tab.GCode(Code{Major: 59, Minor: 3})
	assert.True(t, ok)
	assert.Equal(t, GroupCoordinateSystem, e.Group)

	_, ok = tab.GCode(Code{Major: 33})
	assert.False(t, ok)

	e, ok = tab.MCode(Code{Major: 30})
	assert.True(t, ok)
	assert.Equal(t, HandlerProgramEnd, e.Handler)
	assert.Equal(t, GroupStopping, e.Group)

	// The whole custom range routes through one handler.
	for _, m := range []int{100, 150, 199} {
		e, ok = tab.MCode(Code{Major: m})
		assert.True(t, ok)
		assert.Equal(t, HandlerCustomM, e.Handler)
	}
}

// The NUM table stores fractional codes as decimal-scaled integers
// natively; loading must translate them into canonical pairs.
func TestNUM_ScaledEncoding(t *testing.T) {
	tab := NUM()
	assert.Equal(t, "num1060", tab.Name())

	assert.Equal(t, Code{Major: 17}, fromScaled(170))
	assert.Equal(t, Code{Major: 59, Minor: 1}, fromScaled(591))

	e, ok := tab.GCode(Code{Major: 17})
	assert.True(t, ok)
	assert.Equal(t, HandlerPlane, e.Handler)

	e, ok = tab.GCode(Code{Major: 77})
	assert.True(t, ok)
	assert.Equal(t, "subroutine_call", e.Handler)

	e, ok = tab.GCode(Code{Major: 23})
	assert.True(t, ok)
	assert.Equal(t, "arc_three_points", e.Handler)

	e, ok = tab.MCode(Code{Major: 3})
	assert.True(t, ok)
	assert.Equal(t, HandlerSpindleCW, e.Handler)
}

func TestModalGroup_String(t *testing.T) {
	assert.Equal(t, "motion", GroupMotion.String())
	assert.Equal(t, "distance", GroupDistance.String())
	assert.Equal(t, "none", GroupNone.String())
}
