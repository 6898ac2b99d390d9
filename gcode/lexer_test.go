package gcode

import (
	"testing"

	"github.com/maro7tigre/gcode-interpreter/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, text string) ([]Token, *diag.Collector) {
	t.Helper()
	var diags diag.Collector
	lx := &Lexer{Diags: &diags}
	return lx.Tokenize(text), &diags
}

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLexer_Words(t *testing.T) {
	tokens, diags := lex(t, "G1 X10 Y-5.5 F100")
	assert.Zero(t, diags.Len())

	require.Len(t, tokens, 6)
	assert.Equal(t, []Kind{KindCommand, KindAxis, KindAxis, KindSetting, KindNewline, KindEOF}, kinds(tokens))

	assert.Equal(t, byte('G'), tokens[0].Letter)
	assert.Equal(t, "1", tokens[0].Text)
	assert.Equal(t, byte('X'), tokens[1].Letter)
	assert.Equal(t, "10", tokens[1].Text)
	assert.Equal(t, "-5.5", tokens[2].Text)
	assert.Equal(t, byte('F'), tokens[3].Letter)
}

func TestLexer_CaseInsensitive(t *testing.T) {
	tokens, diags := lex(t, "g1 x10")
	assert.Zero(t, diags.Len())
	assert.Equal(t, byte('G'), tokens[0].Letter)
	assert.Equal(t, byte('X'), tokens[1].Letter)
}

func TestLexer_Positions(t *testing.T) {
	tokens, _ := lex(t, "G1 X10")
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 2, tokens[0].End)
	assert.Equal(t, 3, tokens[1].Start)
	assert.Equal(t, 6, tokens[1].End)
	assert.Equal(t, 1, tokens[0].Line)
}

func TestLexer_Newlines(t *testing.T) {
	tokens, _ := lex(t, "G0\nG1")
	assert.Equal(t, []Kind{KindCommand, KindNewline, KindCommand, KindNewline, KindEOF}, kinds(tokens))
	assert.Equal(t, 2, tokens[2].Line)
}

func TestLexer_Comments(t *testing.T) {
	tokens, diags := lex(t, "G0 (rapid move) X1 ; trailing")
	assert.Zero(t, diags.Len())
	assert.Equal(t, []Kind{KindCommand, KindComment, KindAxis, KindComment, KindNewline, KindEOF}, kinds(tokens))
	assert.Equal(t, "rapid move", tokens[1].Text)
	assert.Equal(t, " trailing", tokens[3].Text)
}

func TestLexer_SpecialComments(t *testing.T) {
	tokens, _ := lex(t, "(MSG, tool change soon)")
	assert.Equal(t, KindMsgComment, tokens[0].Kind)
	assert.Equal(t, "tool change soon", tokens[0].Text)

	tokens, _ = lex(t, "(debug, x is #1)")
	assert.Equal(t, KindDebugComment, tokens[0].Kind)
	assert.Equal(t, "x is #1", tokens[0].Text)

	tokens, _ = lex(t, "(PY, print())")
	assert.Equal(t, KindPyComment, tokens[0].Kind)
}

func TestLexer_Variables(t *testing.T) {
	tokens, diags := lex(t, "#100 = 5")
	assert.Zero(t, diags.Len())
	assert.Equal(t, []Kind{KindVariable, KindAssign, KindNumber, KindNewline, KindEOF}, kinds(tokens))
	assert.Equal(t, "#100", tokens[0].Text)

	tokens, _ = lex(t, "#<my_var> = [1+2]")
	assert.Equal(t, "#<my_var>", tokens[0].Text)
	assert.Equal(t, KindExpression, tokens[2].Kind)
	assert.Equal(t, "1+2", tokens[2].Text)
}

func TestLexer_WordValues(t *testing.T) {
	tokens, diags := lex(t, "X#100 Y[#1+2] Z[SIN[30]]")
	assert.Zero(t, diags.Len())
	assert.Equal(t, "#100", tokens[0].Text)
	assert.Equal(t, "[#1+2]", tokens[1].Text)
	// Nested brackets pass through verbatim.
	assert.Equal(t, "[SIN[30]]", tokens[2].Text)
}

func TestLexer_OWord(t *testing.T) {
	tokens, diags := lex(t, "o100 while [#1 LT 5] (count up)")
	assert.Zero(t, diags.Len())
	assert.Equal(t, KindOWord, tokens[0].Kind)
	assert.Equal(t, "100 while [#1 LT 5]", tokens[0].Text)
}

func TestLexer_Errors(t *testing.T) {
	_, diags := lex(t, "G1 !X5")
	assert.Equal(t, 1, diags.Len())
	e := diags.All()[0]
	assert.Equal(t, diag.Syntax, e.Type)
	assert.Equal(t, 3, e.Start)
	assert.Equal(t, 4, e.End)

	_, diags = lex(t, "(never closed")
	assert.Equal(t, 1, diags.Len())

	_, diags = lex(t, "X[1+2")
	assert.Equal(t, 1, diags.Len())

	_, diags = lex(t, "X")
	assert.Equal(t, 1, diags.Len())
}

// A bad character must not stop the rest of the line from lexing.
func TestLexer_ErrorRecovery(t *testing.T) {
	tokens, diags := lex(t, "G1 ! X5")
	assert.Equal(t, 1, diags.Len())
	assert.Equal(t, []Kind{KindCommand, KindAxis, KindNewline, KindEOF}, kinds(tokens))
}
