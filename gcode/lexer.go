package gcode

import (
	"strings"

	"github.com/maro7tigre/gcode-interpreter/diag"
)

// Lexer tokenizes G-code text one line at a time. It keeps no state
// between lines; the same input always yields the same tokens.
// Malformed input produces SYNTAX diagnostics with exact character
// ranges and lexing continues with the rest of the line.
type Lexer struct {
	Diags *diag.Collector
}

// Tokenize splits text into tokens. One NEWLINE token is emitted per
// source line and a single EOF token terminates the stream.
func (lx *Lexer) Tokenize(text string) []Token {
	var tokens []Token
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		tokens = lx.line(tokens, line, i+1)
		tokens = append(tokens, Token{Kind: KindNewline, Line: i + 1, Start: len(line), End: len(line)})
	}
	tokens = append(tokens, Token{Kind: KindEOF, Line: len(lines)})
	return tokens
}

func (lx *Lexer) line(tokens []Token, line string, ln int) []Token {
	pos := 0
	for pos < len(line) {
		c := line[pos]
		switch {
		case c == ' ' || c == '\t':
			pos++
		case c == '(':
			tok, next := lx.parenComment(line, pos, ln)
			tokens = append(tokens, tok)
			pos = next
		case c == ';':
			tokens = append(tokens, Token{
				Kind: KindComment, Text: line[pos+1:],
				Line: ln, Start: pos, End: len(line),
			})
			return tokens
		case c == '#':
			tok, next, ok := lx.variable(line, pos, ln)
			if ok {
				tokens = append(tokens, tok)
			}
			pos = next
		case c == '=':
			tokens = append(tokens, Token{Kind: KindAssign, Text: "=", Line: ln, Start: pos, End: pos + 1})
			pos++
		case c == '[':
			tok, next, ok := lx.expression(line, pos, ln)
			if ok {
				tokens = append(tokens, tok)
			}
			pos = next
		case isDigit(c) || c == '-' || c == '+' || c == '.':
			start := pos
			text, next := scanNumber(line, pos)
			if text == "" {
				lx.Diags.Addf(diag.Syntax, diag.SeverityError, ln, start, start+1,
					"unrecognized character %q", string(c))
				pos++
				continue
			}
			tokens = append(tokens, Token{Kind: KindNumber, Text: text, Line: ln, Start: start, End: next})
			pos = next
		default:
			upper := upcase(c)
			kind, ok := kindForLetter(upper)
			if !ok {
				lx.Diags.Addf(diag.Syntax, diag.SeverityError, ln, pos, pos+1,
					"unknown G-code letter %q", string(c))
				pos++
				continue
			}
			if kind == KindOWord {
				tokens = append(tokens, lx.oword(line, pos, ln))
				return tokens
			}
			tok, next, ok := lx.word(line, pos, ln, upper, kind)
			if ok {
				tokens = append(tokens, tok)
			}
			pos = next
		}
	}
	return tokens
}

// word lexes a letter followed immediately by its value: a number, a
// #variable or a bracketed expression.
func (lx *Lexer) word(line string, pos, ln int, letter byte, kind Kind) (Token, int, bool) {
	start := pos
	pos++
	if pos >= len(line) {
		lx.Diags.Addf(diag.Syntax, diag.SeverityError, ln, start, pos,
			"missing value after %q", string(letter))
		return Token{}, pos, false
	}

	switch {
	case line[pos] == '#':
		tok, next, ok := lx.variable(line, pos, ln)
		if !ok {
			return Token{}, next, false
		}
		return Token{Kind: kind, Letter: letter, Text: tok.Text, Line: ln, Start: start, End: next}, next, true
	case line[pos] == '[':
		tok, next, ok := lx.expression(line, pos, ln)
		if !ok {
			return Token{}, next, false
		}
		return Token{Kind: kind, Letter: letter, Text: "[" + tok.Text + "]", Line: ln, Start: start, End: next}, next, true
	default:
		text, next := scanNumber(line, pos)
		if text == "" {
			lx.Diags.Addf(diag.Syntax, diag.SeverityError, ln, start, pos+1,
				"missing value after %q", string(letter))
			return Token{}, pos, false
		}
		return Token{Kind: kind, Letter: letter, Text: text, Line: ln, Start: start, End: next}, next, true
	}
}

// oword captures the rest of the line (up to any comment) as an O-word
// directive: the label plus keywords and arguments.
func (lx *Lexer) oword(line string, pos, ln int) Token {
	start := pos
	end := len(line)
	depth := 0
	for i := pos; i < len(line); i++ {
		switch line[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '(', ';':
			if depth == 0 {
				end = i
				i = len(line)
			}
		}
	}
	text := strings.TrimSpace(line[start+1 : end])
	return Token{Kind: KindOWord, Letter: 'O', Text: text, Line: ln, Start: start, End: end}
}

func (lx *Lexer) variable(line string, pos, ln int) (Token, int, bool) {
	start := pos
	pos++ // past '#'
	if pos < len(line) && line[pos] == '<' {
		end := strings.IndexByte(line[pos:], '>')
		if end < 0 {
			lx.Diags.Addf(diag.Syntax, diag.SeverityError, ln, start, len(line),
				"missing > at end of named parameter")
			return Token{}, len(line), false
		}
		end += pos + 1
		return Token{Kind: KindVariable, Text: line[start:end], Line: ln, Start: start, End: end}, end, true
	}
	end := pos
	for end < len(line) && isDigit(line[end]) {
		end++
	}
	if end == pos {
		lx.Diags.Addf(diag.Syntax, diag.SeverityError, ln, start, pos,
			"expected parameter number or <name> after #")
		return Token{}, pos, false
	}
	return Token{Kind: KindVariable, Text: line[start:end], Line: ln, Start: start, End: end}, end, true
}

// expression captures a bracketed expression. Bracket matching counts
// depth so nested brackets pass through verbatim; the expression
// evaluator deals with the content.
func (lx *Lexer) expression(line string, pos, ln int) (Token, int, bool) {
	start := pos
	depth := 0
	for i := pos; i < len(line); i++ {
		switch line[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return Token{
					Kind: KindExpression, Text: line[start+1 : i],
					Line: ln, Start: start, End: i + 1,
				}, i + 1, true
			}
		}
	}
	lx.Diags.Addf(diag.Syntax, diag.SeverityError, ln, start, len(line),
		"unterminated expression bracket")
	return Token{}, len(line), false
}

func (lx *Lexer) parenComment(line string, pos, ln int) (Token, int) {
	start := pos
	end := strings.IndexByte(line[pos:], ')')
	if end < 0 {
		lx.Diags.Addf(diag.Syntax, diag.SeverityError, ln, start, len(line),
			"unclosed parenthesis in comment")
		return Token{
			Kind: KindComment, Text: strings.TrimSpace(line[pos+1:]),
			Line: ln, Start: start, End: len(line),
		}, len(line)
	}
	end += pos
	text := strings.TrimSpace(line[pos+1 : end])

	kind := KindComment
	switch {
	case len(text) >= 4 && strings.EqualFold(text[:4], "MSG,"):
		kind, text = KindMsgComment, strings.TrimSpace(text[4:])
	case len(text) >= 6 && strings.EqualFold(text[:6], "DEBUG,"):
		kind, text = KindDebugComment, strings.TrimSpace(text[6:])
	case len(text) >= 3 && strings.EqualFold(text[:3], "PY,"):
		kind, text = KindPyComment, strings.TrimSpace(text[3:])
	}
	return Token{Kind: kind, Text: text, Line: ln, Start: start, End: end + 1}, end + 1
}

// scanNumber consumes an optionally signed decimal with optional
// exponent. Returns "" when no digits are present.
func scanNumber(line string, pos int) (string, int) {
	start := pos
	if pos < len(line) && (line[pos] == '-' || line[pos] == '+') {
		pos++
	}
	digits := 0
	for pos < len(line) && isDigit(line[pos]) {
		pos++
		digits++
	}
	if pos < len(line) && line[pos] == '.' {
		pos++
		for pos < len(line) && isDigit(line[pos]) {
			pos++
			digits++
		}
	}
	if digits == 0 {
		return "", start
	}
	if pos < len(line) && (line[pos] == 'e' || line[pos] == 'E') {
		mark := pos
		pos++
		if pos < len(line) && (line[pos] == '-' || line[pos] == '+') {
			pos++
		}
		expDigits := 0
		for pos < len(line) && isDigit(line[pos]) {
			pos++
			expDigits++
		}
		if expDigits == 0 {
			pos = mark
		}
	}
	return line[start:pos], pos
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func upcase(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
