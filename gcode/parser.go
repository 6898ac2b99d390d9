package gcode

import (
	"strconv"

	"github.com/maro7tigre/gcode-interpreter/coord"
	"github.com/maro7tigre/gcode-interpreter/diag"
	"github.com/maro7tigre/gcode-interpreter/dialect"
)

// Parser groups tokens into one Block per source line and validates
// modal-group exclusivity against the dialect table. Violations mark
// the block invalid; it is still returned so diagnostics can point at
// it, but execution skips it.
type Parser struct {
	Table *dialect.Table
	Diags *diag.Collector
}

// Parse builds blocks from a token stream. Lines with no executable
// content still produce a block so line numbering stays dense.
func (p *Parser) Parse(tokens []Token) []*Block {
	var blocks []*Block
	cur := &Block{Line: 1, Valid: true}

	flush := func() {
		p.validate(cur)
		blocks = append(blocks, cur)
	}

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		switch tok.Kind {
		case KindEOF:
			i++
		case KindNewline:
			flush()
			cur = &Block{Line: tok.Line + 1, Valid: true}
			i++
		case KindCommand:
			p.command(cur, tok)
			i++
		case KindOWord:
			cur.OWord = tok.Text
			cur.OWordTok = tok
			i++
		case KindAxis:
			ax, _ := coord.AxisFromLetter(tok.Letter)
			if cur.Axes[ax] != nil {
				p.dup(tok)
			}
			cur.Axes[ax] = newValue(tok)
			i++
		case KindParam:
			if cur.Params == nil {
				cur.Params = make(map[byte]*Value, 4)
			}
			if cur.Params[tok.Letter] != nil {
				p.dup(tok)
			}
			cur.Params[tok.Letter] = newValue(tok)
			i++
		case KindSetting:
			p.setting(cur, tok)
			i++
		case KindVariable:
			// A bare variable opens an assignment: #n = value.
			i += p.assignment(cur, tokens, i)
		case KindComment:
			cur.Comment = tok.Text
			i++
		case KindMsgComment:
			cur.Msg, cur.HasMsg = tok.Text, true
			i++
		case KindDebugComment:
			cur.Debug = tok.Text
			i++
		case KindPyComment:
			cur.Py = tok.Text
			i++
		default:
			p.Diags.Addf(diag.Syntax, diag.SeverityError, tok.Line, tok.Start, tok.End,
				"unexpected %s token %q", tok.Kind, tok.Text)
			i++
		}
	}
	return blocks
}

func (p *Parser) dup(tok Token) {
	p.Diags.Addf(diag.Semantic, diag.SeverityError, tok.Line, tok.Start, tok.End,
		"word %q repeated in block", string(tok.Letter))
}

func (p *Parser) command(b *Block, tok Token) {
	n, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil || n < 0 {
		p.Diags.Addf(diag.Syntax, diag.SeverityError, tok.Line, tok.Start, tok.End,
			"invalid %c code value %q", tok.Letter, tok.Text)
		b.Valid = false
		return
	}
	cw := CodeWord{Code: dialect.CodeFromFloat(n), Token: tok}
	if tok.Letter == 'G' {
		b.G = append(b.G, cw)
	} else {
		b.M = append(b.M, cw)
	}
}

func (p *Parser) setting(b *Block, tok Token) {
	v := newValue(tok)
	var slot **Value
	switch tok.Letter {
	case 'F':
		slot = &b.Feed
	case 'S':
		slot = &b.Speed
	case 'T':
		slot = &b.Tool
	case 'N':
		slot = &b.LineNum
	}
	if *slot != nil {
		p.dup(tok)
	}
	*slot = v
}

// assignment consumes "#var = value" starting at tokens[i]. Returns how
// many tokens were used.
func (p *Parser) assignment(b *Block, tokens []Token, i int) int {
	target := tokens[i]
	if i+1 >= len(tokens) || tokens[i+1].Kind != KindAssign {
		p.Diags.Addf(diag.Syntax, diag.SeverityError, target.Line, target.Start, target.End,
			"expected = after %s", target.Text)
		return 1
	}
	if i+2 >= len(tokens) {
		p.Diags.Addf(diag.Syntax, diag.SeverityError, target.Line, target.Start, target.End,
			"missing value in assignment to %s", target.Text)
		return 2
	}
	val := tokens[i+2]
	switch val.Kind {
	case KindNumber, KindVariable, KindExpression:
	default:
		p.Diags.Addf(diag.Syntax, diag.SeverityError, val.Line, val.Start, val.End,
			"invalid assignment value %q", val.Text)
		return 3
	}
	b.Assigns = append(b.Assigns, Assign{Target: target, Value: newValue(val)})
	return 3
}

// validate enforces the modal-group rules: at most one code per group
// per block, and a non-modal code may not combine with a motion code
// when axis words are present. G53 with a motion code is the one
// allowed pairing.
func (p *Parser) validate(b *Block) {
	groups := make(map[dialect.ModalGroup]Token)
	var motion, nonModal []CodeWord

	check := func(cw CodeWord, g dialect.ModalGroup) {
		if g == dialect.GroupNone {
			return
		}
		if first, ok := groups[g]; ok {
			p.Diags.Addf(diag.Semantic, diag.SeverityError, cw.Token.Line, first.Start, cw.Token.End,
				"conflicting codes from %s modal group: %s and %c%s",
				g, first, cw.Token.Letter, cw.Code)
			b.Valid = false
			return
		}
		groups[g] = cw.Token
	}

	for _, cw := range b.G {
		g := p.Table.GGroup(cw.Code)
		check(cw, g)
		switch g {
		case dialect.GroupMotion:
			motion = append(motion, cw)
		case dialect.GroupNonModal:
			nonModal = append(nonModal, cw)
		}
	}
	for _, cw := range b.M {
		check(cw, p.Table.MGroup(cw.Code))
	}

	if len(motion) > 0 && len(nonModal) > 0 && b.HasAxisWords() {
		for _, nm := range nonModal {
			if nm.Code == (dialect.Code{Major: 53}) {
				continue
			}
			p.Diags.Addf(diag.Semantic, diag.SeverityError, nm.Token.Line, nm.Token.Start, nm.Token.End,
				"non-modal G%s cannot combine with motion G%s when axis words are present",
				nm.Code, motion[0].Code)
			b.Valid = false
		}
	}
}
