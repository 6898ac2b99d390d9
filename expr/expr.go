// Package expr evaluates LinuxCNC-style bracketed arithmetic over a
// closed grammar. Operators: + - * / ^ MOD, comparisons EQ NE GT GE LT
// LE, logical AND OR XOR, unary minus and the standard function set.
// ATAN takes the two-argument form ATAN[y]/[x]; every other function
// takes a single bracketed argument. Parameter references (#5, #<name>)
// resolve through the injected Resolver. User text is never handed to a
// general-purpose interpreter.
package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Resolver supplies parameter values during evaluation.
type Resolver interface {
	Numbered(n int) (float64, bool)
	Named(name string) (float64, bool)
}

// Eval evaluates one expression (without surrounding brackets).
func Eval(text string, r Resolver) (float64, error) {
	p := &parser{src: text, res: r}
	v, err := p.parseBinary(0)
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return 0, fmt.Errorf("unexpected %q in expression", p.src[p.pos:])
	}
	return v, nil
}

type parser struct {
	src string
	pos int
	res Resolver
}

type binOp struct {
	prec  int
	right bool
	apply func(a, b float64) (float64, error)
}

func logical(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

var binOps = map[string]binOp{
	"OR":  {1, false, func(a, b float64) (float64, error) { return logical(a != 0 || b != 0), nil }},
	"XOR": {1, false, func(a, b float64) (float64, error) { return logical((a != 0) != (b != 0)), nil }},
	"AND": {2, false, func(a, b float64) (float64, error) { return logical(a != 0 && b != 0), nil }},
	"EQ":  {3, false, func(a, b float64) (float64, error) { return logical(a == b), nil }},
	"NE":  {3, false, func(a, b float64) (float64, error) { return logical(a != b), nil }},
	"GT":  {3, false, func(a, b float64) (float64, error) { return logical(a > b), nil }},
	"GE":  {3, false, func(a, b float64) (float64, error) { return logical(a >= b), nil }},
	"LT":  {3, false, func(a, b float64) (float64, error) { return logical(a < b), nil }},
	"LE":  {3, false, func(a, b float64) (float64, error) { return logical(a <= b), nil }},
	"+":   {4, false, func(a, b float64) (float64, error) { return a + b, nil }},
	"-":   {4, false, func(a, b float64) (float64, error) { return a - b, nil }},
	"MOD": {5, false, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return math.Mod(a, b), nil
	}},
	"*": {5, false, func(a, b float64) (float64, error) { return a * b, nil }},
	"/": {5, false, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	}},
	"^": {6, true, func(a, b float64) (float64, error) { return math.Pow(a, b), nil }},
}

var functions = map[string]func(v float64) (float64, error){
	"ABS": func(v float64) (float64, error) { return math.Abs(v), nil },
	"ACOS": func(v float64) (float64, error) {
		if v < -1 || v > 1 {
			return 0, fmt.Errorf("ACOS argument %v out of range", v)
		}
		return math.Acos(v), nil
	},
	"ASIN": func(v float64) (float64, error) {
		if v < -1 || v > 1 {
			return 0, fmt.Errorf("ASIN argument %v out of range", v)
		}
		return math.Asin(v), nil
	},
	"ATAN": func(v float64) (float64, error) { return math.Atan(v), nil },
	"COS":  func(v float64) (float64, error) { return math.Cos(v), nil },
	"EXP":  func(v float64) (float64, error) { return math.Exp(v), nil },
	"FIX":  func(v float64) (float64, error) { return math.Floor(v), nil },
	"FUP":  func(v float64) (float64, error) { return math.Ceil(v), nil },
	"LN": func(v float64) (float64, error) {
		if v <= 0 {
			return 0, fmt.Errorf("LN argument %v out of range", v)
		}
		return math.Log(v), nil
	},
	"ROUND": func(v float64) (float64, error) { return math.Round(v), nil },
	"SIN":   func(v float64) (float64, error) { return math.Sin(v), nil },
	"SQRT": func(v float64) (float64, error) {
		if v < 0 {
			return 0, fmt.Errorf("SQRT of negative value %v", v)
		}
		return math.Sqrt(v), nil
	},
	"TAN": func(v float64) (float64, error) { return math.Tan(v), nil },
}

func (p *parser) parseBinary(minPrec int) (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		name, ok := p.peekOp()
		if !ok {
			return left, nil
		}
		op := binOps[name]
		if op.prec < minPrec {
			return left, nil
		}
		p.consumeOp(name)

		next := op.prec + 1
		if op.right {
			next = op.prec
		}
		right, err := p.parseBinary(next)
		if err != nil {
			return 0, err
		}
		left, err = op.apply(left, right)
		if err != nil {
			return 0, err
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '-' {
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	if p.pos < len(p.src) && p.src[p.pos] == '+' {
		p.pos++
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	c := p.src[p.pos]
	switch {
	case c == '[':
		v, err := p.parseBracket()
		if err != nil {
			return 0, err
		}
		return v, nil
	case c == '#':
		return p.parseParam()
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isAlpha(c):
		name := p.scanIdent()
		fn, ok := functions[name]
		if !ok {
			return 0, fmt.Errorf("unknown function %q", name)
		}
		arg, err := p.parseBracket()
		if err != nil {
			return 0, err
		}
		if name == "ATAN" {
			// ATAN[y]/[x] is the two-argument arctangent.
			p.skipSpace()
			if p.pos < len(p.src) && p.src[p.pos] == '/' {
				p.pos++
				x, err := p.parseBracket()
				if err != nil {
					return 0, err
				}
				return math.Atan2(arg, x), nil
			}
		}
		return fn(arg)
	}
	return 0, fmt.Errorf("unexpected %q in expression", string(c))
}

func (p *parser) parseBracket() (float64, error) {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '[' {
		return 0, fmt.Errorf("expected [")
	}
	p.pos++
	v, err := p.parseBinary(0)
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != ']' {
		return 0, fmt.Errorf("expected ]")
	}
	p.pos++
	return v, nil
}

func (p *parser) parseParam() (float64, error) {
	p.pos++ // '#'
	if p.pos < len(p.src) && p.src[p.pos] == '<' {
		end := strings.IndexByte(p.src[p.pos:], '>')
		if end < 0 {
			return 0, fmt.Errorf("missing > in named parameter")
		}
		name := p.src[p.pos+1 : p.pos+end]
		p.pos += end + 1
		v, ok := p.res.Named(strings.ToLower(name))
		if !ok {
			return 0, fmt.Errorf("undefined named parameter #<%s>", name)
		}
		return v, nil
	}
	start := p.pos
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("expected parameter number after #")
	}
	n, _ := strconv.Atoi(p.src[start:p.pos])
	v, ok := p.res.Numbered(n)
	if !ok {
		return 0, fmt.Errorf("undefined parameter #%d", n)
	}
	return v, nil
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		mark := p.pos
		p.pos++
		if p.pos < len(p.src) && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
			p.pos++
		}
		digits := false
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
			digits = true
		}
		if !digits {
			p.pos = mark
		}
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.src[start:p.pos])
	}
	return v, nil
}

// peekOp looks at the next binary operator without consuming it.
func (p *parser) peekOp() (string, bool) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return "", false
	}
	c := p.src[p.pos]
	switch c {
	case '+', '-', '*', '/', '^':
		return string(c), true
	}
	if isAlpha(c) {
		save := p.pos
		name := p.scanIdent()
		p.pos = save
		if _, ok := binOps[name]; ok {
			return name, true
		}
	}
	return "", false
}

func (p *parser) consumeOp(name string) {
	p.skipSpace()
	p.pos += len(name)
}

func (p *parser) scanIdent() string {
	start := p.pos
	for p.pos < len(p.src) && isAlpha(p.src[p.pos]) {
		p.pos++
	}
	return strings.ToUpper(p.src[start:p.pos])
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
