// Package interp executes parsed G-code against a modal machine
// model, producing canonical commands, render geometry and
// diagnostics. One Interpreter owns all of its state exclusively for
// the duration of a Process call; callers wanting concurrency create
// one instance per document.
package interp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/maro7tigre/gcode-interpreter/canon"
	"github.com/maro7tigre/gcode-interpreter/diag"
	"github.com/maro7tigre/gcode-interpreter/dialect"
	"github.com/maro7tigre/gcode-interpreter/expr"
	"github.com/maro7tigre/gcode-interpreter/gcode"
	"github.com/maro7tigre/gcode-interpreter/geom"
)

// DefaultMaxSteps bounds the execution loop. Loop guards come from
// user expressions, so a runaway while must hit a ceiling rather than
// spin forever.
const DefaultMaxSteps = 1_000_000

// ErrFatal is returned by Process when a fatal diagnostic stopped the
// run; the collector holds the details.
var ErrFatal = errors.New("interpretation stopped by fatal error")

// Display event kinds.
const (
	EventMessage = "msg"
	EventDebug   = "debug"
	EventPause   = "pause"
)

// DisplayEvent is an operator-facing message produced during a run:
// (MSG,...) and (DEBUG,...) comments and pause codes.
type DisplayEvent struct {
	Line int    `json:"line"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Stats aggregates a finished run for status displays.
type Stats struct {
	geom.Stats
	Commands int               `json:"commands"`
	Modal    map[string]string `json:"modal"`
}

// MFunc is a user binding for a custom M-code (M100..M199). P and Q
// carry the block's parameter words, zero when absent.
type MFunc func(code int, p, q float64) error

// Interpreter runs G-code against one dialect table. Not safe for
// concurrent use; Process resets all state so an instance may be
// reused serially.
type Interpreter struct {
	table    *dialect.Table
	handlers map[string]handlerFunc
	customM  map[int]MFunc

	// MaxSteps caps executed blocks per run. Zero means
	// DefaultMaxSteps.
	MaxSteps int

	state    *State
	diags    diag.Collector
	commands []canon.Command
	geometry *geom.Recorder
	events   []DisplayEvent

	blocks []*gcode.Block
	prog   *program
	calls  []callFrame
	loops  []loopFrame

	machineCoords bool
	stopped       bool
}

func New(table *dialect.Table) *Interpreter {
	return &Interpreter{
		table:    table,
		handlers: defaultHandlers(),
		customM:  make(map[int]MFunc),
		state:    NewState(),
		geometry: geom.NewRecorder(),
	}
}

// RegisterMCode binds a user function to a custom M-code in the
// 100..199 range. Must not be called during Process.
func (in *Interpreter) RegisterMCode(code int, fn MFunc) error {
	if code < 100 || code > 199 {
		return fmt.Errorf("custom M-code %d outside 100..199", code)
	}
	in.customM[code] = fn
	return nil
}

// Process interprets a full program. All state from previous runs is
// discarded first. It returns ErrFatal when a fatal diagnostic aborted
// the run; every other problem is reported through Diagnostics while
// execution continues past the offending block.
func (in *Interpreter) Process(text string) error {
	in.reset()

	lx := &gcode.Lexer{Diags: &in.diags}
	tokens := lx.Tokenize(text)
	p := &gcode.Parser{Table: in.table, Diags: &in.diags}
	in.blocks = p.Parse(tokens)
	if in.diags.HasFatal() {
		return ErrFatal
	}

	prog, ok := preprocess(in.blocks, &in.diags)
	if !ok {
		return ErrFatal
	}
	in.prog = prog

	maxSteps := in.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	steps := 0
	pc := 0
	for pc >= 0 && pc < len(in.blocks) {
		steps++
		if steps > maxSteps {
			b := in.blocks[pc]
			in.diags.Addf(diag.Runtime, diag.SeverityFatal, b.Line, 0, 0,
				"maximum step count %d exceeded, stopping", maxSteps)
			return ErrFatal
		}

		b := in.blocks[pc]
		switch {
		case b.OWord != "":
			pc = in.controlFlow(pc, in.prog.dirs[pc])
		case !b.Valid || b.Empty():
			pc++
		default:
			stop := in.execBlock(b)
			if stop {
				pc = len(in.blocks)
				continue
			}
			pc++
		}
	}

	if len(in.calls) > 0 {
		f := in.calls[len(in.calls)-1]
		in.diags.Addf(diag.Warning, diag.SeverityWarning, in.lastLine(), 0, 0,
			"program ended inside subroutine O%s", f.label)
	}
	if len(in.loops) > 0 {
		f := in.loops[len(in.loops)-1]
		in.diags.Addf(diag.Warning, diag.SeverityWarning, in.lastLine(), 0, 0,
			"program ended inside O%s %s", f.label, f.kind)
	}
	return nil
}

// CheckSyntax runs the lex, parse and control-flow-structure passes
// with an isolated collector. Nothing executes and the main run's
// diagnostics are untouched.
func (in *Interpreter) CheckSyntax(text string) []diag.Error {
	var diags diag.Collector
	lx := &gcode.Lexer{Diags: &diags}
	tokens := lx.Tokenize(text)
	p := &gcode.Parser{Table: in.table, Diags: &diags}
	blocks := p.Parse(tokens)
	if !diags.HasFatal() {
		preprocess(blocks, &diags)
	}
	return diags.All()
}

func (in *Interpreter) reset() {
	in.state.Reset()
	in.diags.Clear()
	in.commands = nil
	in.geometry.Reset()
	in.events = nil
	in.blocks = nil
	in.prog = nil
	in.calls = nil
	in.loops = nil
	in.machineCoords = false
	in.stopped = false
}

func (in *Interpreter) lastLine() int {
	if len(in.blocks) == 0 {
		return 1
	}
	return in.blocks[len(in.blocks)-1].Line
}

// Commands returns the canonical command sequence of the last run.
func (in *Interpreter) Commands() []canon.Command { return in.commands }

// Diagnostics returns every diagnostic of the last run ordered by
// position.
func (in *Interpreter) Diagnostics() []diag.Error { return in.diags.All() }

// DiagnosticsForLine filters the last run's diagnostics by source
// line.
func (in *Interpreter) DiagnosticsForLine(line int) []diag.Error {
	return in.diags.ForLine(line)
}

// Geometry returns the recorded toolpath of the last run.
func (in *Interpreter) Geometry() *geom.Recorder { return in.geometry }

// Events returns the display events of the last run in order.
func (in *Interpreter) Events() []DisplayEvent { return in.events }

// State exposes the machine state, chiefly for inspection after a run.
func (in *Interpreter) State() *State { return in.state }

// Stats summarizes the last run.
func (in *Interpreter) Stats() Stats {
	return Stats{
		Stats:    in.geometry.Stats(),
		Commands: len(in.commands),
		Modal:    in.state.Snapshot(),
	}
}

func (in *Interpreter) emit(c canon.Command) {
	in.commands = append(in.commands, c)
}

// report records a diagnostic against a token with error severity.
func (in *Interpreter) report(typ diag.Type, tok gcode.Token, format string, args ...interface{}) {
	in.diags.Addf(typ, diag.SeverityError, tok.Line, tok.Start, tok.End, format, args...)
}

// evalValue resolves a word value: literals directly, variables and
// expressions through the evaluator so loop bodies see current
// parameter values.
func (in *Interpreter) evalValue(v *gcode.Value) (float64, error) {
	if f, ok := v.Literal(); ok {
		return f, nil
	}
	return expr.Eval(v.Raw(), in.state.Params)
}

func (in *Interpreter) evalText(text string) (float64, error) {
	return expr.Eval(text, in.state.Params)
}

// evalParam evaluates an optional parameter word, substituting def
// when absent. Evaluation failures are reported here.
func (in *Interpreter) evalParam(b *gcode.Block, letter byte, def float64) (float64, error) {
	v := b.Param(letter)
	if v == nil {
		return def, nil
	}
	f, err := in.evalValue(v)
	if err != nil {
		in.report(diag.Runtime, v.Token, "%s word: %v", string(letter), err)
		return 0, errReported
	}
	return f, nil
}

// expandDebug substitutes #n and #<name> references in a DEBUG
// comment with their current values.
func (in *Interpreter) expandDebug(b *gcode.Block) string {
	text := b.Debug
	var out strings.Builder
	i := 0
	for i < len(text) {
		if text[i] != '#' {
			out.WriteByte(text[i])
			i++
			continue
		}
		if v, next, ok := in.debugRef(text, i); ok {
			out.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
			i = next
			continue
		}
		out.WriteByte(text[i])
		i++
	}
	return out.String()
}

func (in *Interpreter) debugRef(text string, pos int) (float64, int, bool) {
	i := pos + 1
	if i < len(text) && text[i] == '<' {
		end := strings.IndexByte(text[i:], '>')
		if end < 0 {
			return 0, 0, false
		}
		name := text[i+1 : i+end]
		v, ok := in.state.Params.Named(strings.ToLower(name))
		return v, i + end + 1, ok
	}
	start := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start {
		return 0, 0, false
	}
	n, _ := strconv.Atoi(text[start:i])
	v, ok := in.state.Params.Numbered(n)
	return v, i, ok
}
