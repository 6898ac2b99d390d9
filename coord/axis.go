package coord

// Axis identifies one of the nine controlled axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisA
	AxisB
	AxisC
	AxisU
	AxisV
	AxisW

	NumAxes = 9
)

const axisLetters = "XYZABCUVW"

func (a Axis) String() string {
	if a < 0 || a >= NumAxes {
		return "?"
	}
	return axisLetters[a : a+1]
}

// Letter returns the G-code word letter for the axis.
func (a Axis) Letter() byte { return axisLetters[a] }

// AxisFromLetter maps a word letter to its axis.
func AxisFromLetter(b byte) (Axis, bool) {
	switch b {
	case 'X':
		return AxisX, true
	case 'Y':
		return AxisY, true
	case 'Z':
		return AxisZ, true
	case 'A':
		return AxisA, true
	case 'B':
		return AxisB, true
	case 'C':
		return AxisC, true
	case 'U':
		return AxisU, true
	case 'V':
		return AxisV, true
	case 'W':
		return AxisW, true
	}
	return 0, false
}

// Vec is a fixed-size coordinate vector covering all nine axes,
// indexed by Axis.
type Vec [NumAxes]float64

func (v Vec) Add(o Vec) Vec {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

func (v Vec) Sub(o Vec) Vec {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

func (v Vec) Mul(val float64) Vec {
	for i := range v {
		v[i] *= val
	}
	return v
}

func (v Vec) Equal(o Vec) bool { return v == o }

// Point projects the linear axes into 3D space.
func (v Vec) Point() Point { return Point{X: v[AxisX], Y: v[AxisY], Z: v[AxisZ]} }
