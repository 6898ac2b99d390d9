package interp

import (
	"fmt"
	"strings"

	"github.com/maro7tigre/gcode-interpreter/diag"
	"github.com/maro7tigre/gcode-interpreter/gcode"
)

type owKind int

const (
	owSub owKind = iota
	owEndsub
	owIf
	owElseif
	owElse
	owEndif
	owWhile
	owEndwhile
	owRepeat
	owEndrepeat
	owCall
	owReturn
	owBreak
	owContinue
)

var owKeywords = map[string]owKind{
	"sub":       owSub,
	"endsub":    owEndsub,
	"if":        owIf,
	"elseif":    owElseif,
	"else":      owElse,
	"endif":     owEndif,
	"while":     owWhile,
	"endwhile":  owEndwhile,
	"repeat":    owRepeat,
	"endrepeat": owEndrepeat,
	"call":      owCall,
	"return":    owReturn,
	"break":     owBreak,
	"continue":  owContinue,
}

var owNames = map[owKind]string{
	owSub: "sub", owEndsub: "endsub",
	owIf: "if", owElseif: "elseif", owElse: "else", owEndif: "endif",
	owWhile: "while", owEndwhile: "endwhile",
	owRepeat: "repeat", owEndrepeat: "endrepeat",
	owCall: "call", owReturn: "return",
	owBreak: "break", owContinue: "continue",
}

func (k owKind) String() string { return owNames[k] }

// directive is one parsed O-word line: a label, a keyword and its
// expression or argument list.
type directive struct {
	label string
	kind  owKind
	// expr is the guard or count expression (if/elseif/while/repeat)
	// or the optional return expression, with brackets.
	expr string
	// args are the bracketed call arguments.
	args []string
	line int
}

// parseDirective splits the raw text following the O into label,
// keyword and trailing expressions.
func parseDirective(tok gcode.Token) (*directive, error) {
	text := tok.Text
	d := &directive{line: tok.Line}

	// Label: digits or <name>.
	i := 0
	if i < len(text) && text[i] == '<' {
		end := strings.IndexByte(text, '>')
		if end < 0 {
			return nil, fmt.Errorf("missing > in O-word label")
		}
		d.label = strings.ToLower(text[1:end])
		i = end + 1
	} else {
		for i < len(text) && text[i] >= '0' && text[i] <= '9' {
			i++
		}
		if i == 0 {
			return nil, fmt.Errorf("missing O-word label")
		}
		// O010 and O10 name the same label.
		d.label = strings.TrimLeft(text[:i], "0")
		if d.label == "" {
			d.label = "0"
		}
	}

	rest := strings.TrimSpace(text[i:])
	word := rest
	if sp := strings.IndexAny(rest, " \t["); sp >= 0 {
		word, rest = rest[:sp], strings.TrimSpace(rest[sp:])
	} else {
		rest = ""
	}
	kind, ok := owKeywords[strings.ToLower(word)]
	if !ok {
		return nil, fmt.Errorf("unknown O-word keyword %q", word)
	}
	d.kind = kind

	switch kind {
	case owIf, owElseif, owWhile, owRepeat:
		if rest == "" {
			return nil, fmt.Errorf("%s requires an expression", kind)
		}
		d.expr = rest
	case owReturn:
		d.expr = rest
	case owCall:
		args, err := splitArgs(rest)
		if err != nil {
			return nil, err
		}
		d.args = args
	}
	return d, nil
}

// splitArgs extracts the top-level bracketed groups of a call line.
func splitArgs(text string) ([]string, error) {
	var args []string
	i := 0
	for i < len(text) {
		c := text[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		if c != '[' {
			return nil, fmt.Errorf("call arguments must be bracketed, got %q", string(c))
		}
		depth := 0
		start := i
		for ; i < len(text); i++ {
			switch text[i] {
			case '[':
				depth++
			case ']':
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if depth != 0 {
			return nil, fmt.Errorf("unterminated call argument")
		}
		i++
		args = append(args, text[start:i])
	}
	return args, nil
}

// subDef is a subroutine's body span as block indexes: (start, end)
// are the sub and endsub lines.
type subDef struct {
	start, end int
}

// program is the preprocessed control-flow layout. All jump targets
// are resolved here, before execution; the executor never scans for a
// matching closer.
type program struct {
	dirs   map[int]*directive
	closer map[int]int // opener or branch index -> matching end index
	back   map[int]int // endwhile/endrepeat/endsub index -> opener index
	next   map[int]int // if/elseif index -> next sibling branch
	subs   map[string]subDef
}

type owFrame struct {
	kind     owKind
	label    string
	idx      int
	branches []int
}

// preprocess scans every block for O-word directives and resolves the
// full jump layout. A nesting mismatch or malformed directive is fatal
// and execution must not proceed.
func preprocess(blocks []*gcode.Block, diags *diag.Collector) (*program, bool) {
	p := &program{
		dirs:   make(map[int]*directive),
		closer: make(map[int]int),
		back:   make(map[int]int),
		next:   make(map[int]int),
		subs:   make(map[string]subDef),
	}
	var stack []owFrame

	fail := func(tok gcode.Token, format string, args ...interface{}) (*program, bool) {
		diags.Addf(diag.Syntax, diag.SeverityFatal, tok.Line, tok.Start, tok.End, format, args...)
		return nil, false
	}

	for i, b := range blocks {
		if b.OWord == "" {
			continue
		}
		d, err := parseDirective(b.OWordTok)
		if err != nil {
			return fail(b.OWordTok, "%v", err)
		}
		p.dirs[i] = d

		pop := func(kind owKind) (owFrame, bool) {
			if len(stack) == 0 {
				return owFrame{}, false
			}
			f := stack[len(stack)-1]
			if f.kind != kind || f.label != d.label {
				return owFrame{}, false
			}
			stack = stack[:len(stack)-1]
			return f, true
		}

		switch d.kind {
		case owSub, owWhile, owRepeat:
			stack = append(stack, owFrame{kind: d.kind, label: d.label, idx: i})
		case owIf:
			stack = append(stack, owFrame{kind: owIf, label: d.label, idx: i, branches: []int{i}})

		case owElseif, owElse:
			if len(stack) == 0 || stack[len(stack)-1].kind != owIf || stack[len(stack)-1].label != d.label {
				return fail(b.OWordTok, "O%s %s without matching if", d.label, d.kind)
			}
			top := &stack[len(stack)-1]
			top.branches = append(top.branches, i)

		case owEndif:
			f, ok := pop(owIf)
			if !ok {
				return fail(b.OWordTok, "O%s endif without matching if", d.label)
			}
			branches := append(f.branches, i)
			for j := 0; j < len(branches)-1; j++ {
				p.next[branches[j]] = branches[j+1]
				p.closer[branches[j]] = i
			}

		case owEndsub:
			f, ok := pop(owSub)
			if !ok {
				return fail(b.OWordTok, "O%s endsub without matching sub", d.label)
			}
			p.closer[f.idx] = i
			p.back[i] = f.idx
			p.subs[d.label] = subDef{start: f.idx, end: i}

		case owEndwhile:
			f, ok := pop(owWhile)
			if !ok {
				return fail(b.OWordTok, "O%s endwhile without matching while", d.label)
			}
			p.closer[f.idx] = i
			p.back[i] = f.idx

		case owEndrepeat:
			f, ok := pop(owRepeat)
			if !ok {
				return fail(b.OWordTok, "O%s endrepeat without matching repeat", d.label)
			}
			p.closer[f.idx] = i
			p.back[i] = f.idx
		}
	}

	if len(stack) > 0 {
		f := stack[len(stack)-1]
		tok := blocks[f.idx].OWordTok
		return fail(tok, "O%s %s is never closed", f.label, f.kind)
	}
	return p, true
}

// callFrame is one active subroutine call.
type callFrame struct {
	label     string
	returnIdx int
	saved     []savedParam
}

// loopFrame is one active while or repeat loop.
type loopFrame struct {
	kind       owKind
	label      string
	start, end int
	iterations int
	count      float64
}

// controlFlow executes the directive at block index pc and returns the
// next program counter.
func (in *Interpreter) controlFlow(pc int, d *directive) int {
	runtimeErr := func(format string, args ...interface{}) {
		b := in.blocks[pc]
		in.diags.Addf(diag.Runtime, diag.SeverityError,
			d.line, b.OWordTok.Start, b.OWordTok.End, format, args...)
	}

	eval := func(text string) (float64, bool) {
		v, err := in.evalText(text)
		if err != nil {
			runtimeErr("O%s %s: %v", d.label, d.kind, err)
			return 0, false
		}
		return v, true
	}

	switch d.kind {
	case owSub:
		// Definitions are skipped in normal flow; only call enters.
		return in.prog.closer[pc] + 1

	case owEndsub:
		if len(in.calls) == 0 {
			return pc + 1
		}
		return in.popCall()

	case owCall:
		def, ok := in.prog.subs[d.label]
		if !ok {
			runtimeErr("call to undefined subroutine O%s", d.label)
			return pc + 1
		}
		args := make([]float64, len(d.args))
		for i, a := range d.args {
			v, ok := eval(a)
			if !ok {
				return pc + 1
			}
			args[i] = v
		}
		in.state.Params.pushScope()
		in.calls = append(in.calls, callFrame{
			label:     d.label,
			returnIdx: pc + 1,
			saved:     in.state.Params.bindArgs(args),
		})
		return def.start + 1

	case owReturn:
		if len(in.calls) == 0 {
			runtimeErr("return outside subroutine")
			return pc + 1
		}
		if d.expr != "" {
			if v, ok := eval(d.expr); ok {
				in.state.Params.global["_value"] = v
			}
		}
		return in.popCall()

	case owIf:
		v, ok := eval(d.expr)
		if !ok {
			return in.prog.closer[pc] + 1
		}
		if v != 0 {
			return pc + 1
		}
		// Walk the pre-resolved sibling chain for the first live
		// branch.
		idx := in.prog.next[pc]
		for {
			sd := in.prog.dirs[idx]
			switch sd.kind {
			case owElseif:
				v, ok := eval(sd.expr)
				if !ok {
					return in.prog.closer[idx] + 1
				}
				if v != 0 {
					return idx + 1
				}
				next, more := in.prog.next[idx]
				if !more {
					return in.prog.closer[idx] + 1
				}
				idx = next
			case owElse:
				return idx + 1
			default: // endif
				return idx + 1
			}
		}

	case owElseif, owElse:
		// Reached by falling out of a taken branch: skip to endif.
		return in.prog.closer[pc] + 1

	case owEndif:
		return pc + 1

	case owWhile:
		top := len(in.loops) - 1
		active := top >= 0 && in.loops[top].kind == owWhile && in.loops[top].start == pc
		v, ok := eval(d.expr)
		if !ok || v == 0 {
			if active {
				in.loops = in.loops[:top]
			}
			return in.prog.closer[pc] + 1
		}
		if !active {
			in.loops = append(in.loops, loopFrame{
				kind: owWhile, label: d.label,
				start: pc, end: in.prog.closer[pc],
			})
		}
		return pc + 1

	case owEndwhile:
		return in.prog.back[pc]

	case owRepeat:
		count, ok := eval(d.expr)
		if !ok || count <= 0 {
			return in.prog.closer[pc] + 1
		}
		in.loops = append(in.loops, loopFrame{
			kind: owRepeat, label: d.label,
			start: pc, end: in.prog.closer[pc],
			count: count,
		})
		return pc + 1

	case owEndrepeat:
		top := len(in.loops) - 1
		if top < 0 || in.loops[top].kind != owRepeat || in.loops[top].end != pc {
			runtimeErr("endrepeat without active repeat")
			return pc + 1
		}
		f := &in.loops[top]
		f.iterations++
		if float64(f.iterations) < f.count {
			return f.start + 1
		}
		in.loops = in.loops[:top]
		return pc + 1

	case owBreak:
		for j := len(in.loops) - 1; j >= 0; j-- {
			if in.loops[j].label == d.label {
				end := in.loops[j].end
				in.loops = in.loops[:j]
				return end + 1
			}
		}
		runtimeErr("break outside loop O%s", d.label)
		return pc + 1

	case owContinue:
		for j := len(in.loops) - 1; j >= 0; j-- {
			f := in.loops[j]
			if f.label != d.label {
				continue
			}
			in.loops = in.loops[:j+1]
			if f.kind == owWhile {
				// Back to the guard.
				return f.start
			}
			// Repeat: forward to the iteration check.
			return f.end
		}
		runtimeErr("continue outside loop O%s", d.label)
		return pc + 1
	}
	return pc + 1
}

func (in *Interpreter) popCall() int {
	f := in.calls[len(in.calls)-1]
	in.calls = in.calls[:len(in.calls)-1]
	in.state.Params.restore(f.saved)
	in.state.Params.popScope()
	return f.returnIdx
}
