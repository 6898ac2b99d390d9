package gcode

import (
	"strconv"

	"github.com/maro7tigre/gcode-interpreter/coord"
	"github.com/maro7tigre/gcode-interpreter/dialect"
)

// Value is a word's value as written: a literal number, a #variable or
// a bracketed expression. Variables and expressions are resolved at
// execution time so loop bodies see current parameter values.
type Value struct {
	Token Token
	num   float64
	lit   bool
}

// Literal returns the numeric value when the word was written as a
// plain number.
func (v *Value) Literal() (float64, bool) {
	if v == nil {
		return 0, false
	}
	return v.num, v.lit
}

// Raw returns the source text of the value.
func (v *Value) Raw() string {
	return v.Token.Text
}

func newValue(tok Token) *Value {
	v := &Value{Token: tok}
	if n, err := strconv.ParseFloat(tok.Text, 64); err == nil {
		v.num, v.lit = n, true
	}
	return v
}

// CodeWord is one G or M word with its canonical code.
type CodeWord struct {
	Code  dialect.Code
	Token Token
}

// Assign is a parameter assignment within a block (#100=..., #<n>=...).
type Assign struct {
	Target Token  // the variable token
	Value  *Value // number, variable or expression
}

// Block is one source line's parsed words. It is built by the parser
// and read-only afterwards.
type Block struct {
	Line int

	G []CodeWord
	M []CodeWord

	// OWord is the raw control-flow directive text following the O,
	// e.g. "100 while [#1 LT 5]". Empty when the line has none.
	OWord    string
	OWordTok Token

	Axes   [coord.NumAxes]*Value
	Params map[byte]*Value // I J K L P Q R H

	Feed    *Value // F
	Speed   *Value // S
	Tool    *Value // T
	LineNum *Value // N

	Comment string
	Msg     string
	Debug   string
	Py      string
	HasMsg  bool

	// Assignments execute before the block's codes.
	Assigns []Assign

	// Valid is cleared when the block fails semantic validation. An
	// invalid block is kept for diagnostics but never executed.
	Valid bool
}

// Param returns the value of a parameter word letter, if present.
func (b *Block) Param(letter byte) *Value {
	if b.Params == nil {
		return nil
	}
	return b.Params[letter]
}

// HasAxisWords reports whether any axis word is present.
func (b *Block) HasAxisWords() bool {
	for _, v := range b.Axes {
		if v != nil {
			return true
		}
	}
	return false
}

// Empty reports whether the block carries nothing executable.
func (b *Block) Empty() bool {
	return len(b.G) == 0 && len(b.M) == 0 && b.OWord == "" &&
		len(b.Assigns) == 0 && !b.HasAxisWords() &&
		b.Feed == nil && b.Speed == nil && b.Tool == nil &&
		b.Msg == "" && b.Debug == ""
}

// HasGCode reports whether the block contains the given G code.
func (b *Block) HasGCode(c dialect.Code) bool {
	for _, g := range b.G {
		if g.Code == c {
			return true
		}
	}
	return false
}
