package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapResolver struct {
	numbered map[int]float64
	named    map[string]float64
}

func (r mapResolver) Numbered(n int) (float64, bool) {
	v, ok := r.numbered[n]
	return v, ok
}

func (r mapResolver) Named(name string) (float64, bool) {
	v, ok := r.named[name]
	return v, ok
}

func eval(t *testing.T, text string) float64 {
	t.Helper()
	v, err := Eval(text, mapResolver{})
	require.NoError(t, err)
	return v
}

func TestEval_Arithmetic(t *testing.T) {
	assert.Equal(t, 7.0, eval(t, "1 + 2 * 3"))
	assert.Equal(t, 9.0, eval(t, "[1 + 2] * 3"))
	assert.Equal(t, 8.0, eval(t, "2 ^ 3"))
	assert.Equal(t, 512.0, eval(t, "2 ^ 3 ^ 2"))
	assert.Equal(t, 1.0, eval(t, "10 MOD 3"))
	assert.Equal(t, 2.0, eval(t, "-3 + 5"))
	assert.Equal(t, 0.5, eval(t, "1 / 2"))
	assert.Equal(t, 2.5, eval(t, "1.5e1 / 6"))
}

func TestEval_Comparisons(t *testing.T) {
	assert.Equal(t, 1.0, eval(t, "1 EQ 1"))
	assert.Equal(t, 0.0, eval(t, "1 NE 1"))
	assert.Equal(t, 1.0, eval(t, "3 GT 2"))
	assert.Equal(t, 1.0, eval(t, "2 GE 2"))
	assert.Equal(t, 0.0, eval(t, "3 LT 2"))
	assert.Equal(t, 1.0, eval(t, "2 LE 2"))
}

func TestEval_Logical(t *testing.T) {
	assert.Equal(t, 1.0, eval(t, "1 AND 1"))
	assert.Equal(t, 0.0, eval(t, "1 AND 0"))
	assert.Equal(t, 1.0, eval(t, "0 OR 1"))
	assert.Equal(t, 1.0, eval(t, "1 XOR 0"))
	assert.Equal(t, 0.0, eval(t, "1 XOR 1"))
	// Comparisons bind tighter than logical operators.
	assert.Equal(t, 1.0, eval(t, "1 LT 2 AND 3 GT 2"))
}

func TestEval_Functions(t *testing.T) {
	assert.Equal(t, 4.0, eval(t, "SQRT[16]"))
	assert.Equal(t, 5.0, eval(t, "ABS[-5]"))
	assert.Equal(t, 2.0, eval(t, "FIX[2.8]"))
	assert.Equal(t, 3.0, eval(t, "FUP[2.2]"))
	assert.Equal(t, 3.0, eval(t, "ROUND[2.6]"))
	assert.InDelta(t, 1.0, eval(t, "EXP[0]"), 1e-12)
	assert.InDelta(t, 0.0, eval(t, "SIN[0]"), 1e-12)
	assert.InDelta(t, 1.0, eval(t, "COS[0]"), 1e-12)
	assert.InDelta(t, 0.0, eval(t, "LN[1]"), 1e-12)
	assert.InDelta(t, math.Pi/4, eval(t, "ATAN[1]"), 1e-12)
	assert.Equal(t, 6.0, eval(t, "sqrt[36]"))
}

// ATAN[y]/[x] is the two-argument arctangent.
func TestEval_Atan2(t *testing.T) {
	assert.InDelta(t, math.Pi/4, eval(t, "ATAN[1]/[1]"), 1e-12)
	assert.InDelta(t, math.Pi/2, eval(t, "ATAN[1]/[0]"), 1e-12)
	assert.InDelta(t, -3*math.Pi/4, eval(t, "ATAN[-1]/[-1]"), 1e-12)
}

func TestEval_Parameters(t *testing.T) {
	r := mapResolver{
		numbered: map[int]float64{1: 5, 100: 2.5},
		named:    map[string]float64{"depth": -3},
	}

	v, err := Eval("#1 + 1", r)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	v, err = Eval("#100 * #1", r)
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = Eval("#<depth>", r)
	require.NoError(t, err)
	assert.Equal(t, -3.0, v)

	_, err = Eval("#99", r)
	assert.Error(t, err)
	_, err = Eval("#<missing>", r)
	assert.Error(t, err)
}

func TestEval_Errors(t *testing.T) {
	for _, text := range []string{
		"1 / 0",
		"1 MOD 0",
		"SQRT[-1]",
		"LN[0]",
		"ASIN[2]",
		"NOSUCH[1]",
		"1 +",
		"[1 + 2",
		"1 2",
	} {
		_, err := Eval(text, mapResolver{})
		assert.Error(t, err, "expression %q", text)
	}
}
