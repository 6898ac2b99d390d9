// Package gcode turns raw G-code text into tokens and validated
// blocks. The lexer and parser only look at one program; execution
// semantics live in the interp package.
package gcode

import "fmt"

type Kind int

const (
	KindEOF Kind = iota
	KindNewline

	// KindCommand is a G or M word; KindOWord is a control-flow
	// directive and carries the whole directive text after the O.
	KindCommand
	KindOWord

	KindAxis    // X Y Z A B C U V W
	KindParam   // I J K L P Q R H
	KindSetting // F S T N

	KindNumber
	KindVariable   // #123 or #<name>
	KindExpression // [...] with the brackets stripped
	KindAssign     // = between a variable and its value

	KindComment
	KindMsgComment
	KindDebugComment
	KindPyComment
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindNewline:
		return "NEWLINE"
	case KindCommand:
		return "COMMAND"
	case KindOWord:
		return "OWORD"
	case KindAxis:
		return "AXIS"
	case KindParam:
		return "PARAM"
	case KindSetting:
		return "SETTING"
	case KindNumber:
		return "NUMBER"
	case KindVariable:
		return "VARIABLE"
	case KindExpression:
		return "EXPRESSION"
	case KindAssign:
		return "ASSIGN"
	case KindComment:
		return "COMMENT"
	case KindMsgComment:
		return "MSG"
	case KindDebugComment:
		return "DEBUG"
	case KindPyComment:
		return "PY"
	}
	return "UNKNOWN"
}

// Token is one lexed item. Line counts from 1; Start and End are byte
// offsets within the source line. Letter is set for word tokens
// (command, axis, param, setting) and Text holds the word's value text,
// which may be a number, a #variable or a bracketed expression.
type Token struct {
	Kind   Kind
	Letter byte
	Text   string
	Line   int
	Start  int
	End    int
}

func (t Token) String() string {
	if t.Letter != 0 {
		return fmt.Sprintf("%c%s", t.Letter, t.Text)
	}
	return fmt.Sprintf("%s:%s", t.Kind, t.Text)
}

func kindForLetter(b byte) (Kind, bool) {
	switch b {
	case 'G', 'M':
		return KindCommand, true
	case 'O':
		return KindOWord, true
	case 'X', 'Y', 'Z', 'A', 'B', 'C', 'U', 'V', 'W':
		return KindAxis, true
	case 'I', 'J', 'K', 'L', 'P', 'Q', 'R', 'H':
		return KindParam, true
	case 'F', 'S', 'T', 'N':
		return KindSetting, true
	}
	return 0, false
}
