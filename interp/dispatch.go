package interp

import (
	"errors"
	"sort"

	"github.com/maro7tigre/gcode-interpreter/canon"
	"github.com/maro7tigre/gcode-interpreter/diag"
	"github.com/maro7tigre/gcode-interpreter/dialect"
	"github.com/maro7tigre/gcode-interpreter/gcode"
)

// handlerFunc executes one G/M code. Handlers that record their own
// diagnostic return errReported so the dispatcher does not add a
// second one; any other error becomes a RUNTIME diagnostic. Either way
// the rest of the block is abandoned.
type handlerFunc func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error

// errReported aborts the block after the handler has already recorded
// a diagnostic.
var errReported = errors.New("diagnostic reported")

func sortedCodes(words []gcode.CodeWord) []gcode.CodeWord {
	out := make([]gcode.CodeWord, len(words))
	copy(out, words)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Code.Float() < out[j].Code.Float()
	})
	return out
}

// execBlock runs one valid block in the mandated order: display
// comments, feed rate mode, F, S, T, M codes ascending, G codes
// ascending, then stopping codes. Returns true when the program must
// stop (M2/M30).
func (in *Interpreter) execBlock(b *gcode.Block) bool {
	for _, a := range b.Assigns {
		if !in.assign(b, a) {
			return false
		}
	}

	if b.HasMsg {
		in.events = append(in.events, DisplayEvent{Line: b.Line, Kind: EventMessage, Text: b.Msg})
	}
	if b.Debug != "" {
		in.events = append(in.events, DisplayEvent{Line: b.Line, Kind: EventDebug, Text: in.expandDebug(b)})
	}

	// Feed rate mode switches before the F word takes effect.
	for _, g := range b.G {
		if e, ok := in.table.GCode(g.Code); ok && e.Group == dialect.GroupFeedRateMode {
			in.state.Modal[dialect.GroupFeedRateMode] = g.Code
		}
	}

	if b.Feed != nil {
		v, err := in.evalValue(b.Feed)
		if err != nil {
			in.report(diag.Runtime, b.Feed.Token, "F word: %v", err)
			return false
		}
		if v < 0 {
			in.report(diag.Semantic, b.Feed.Token, "negative feed rate %v", v)
			return false
		}
		in.state.Feed = v * in.state.UnitScale()
	}

	if b.Speed != nil {
		v, err := in.evalValue(b.Speed)
		if err != nil {
			in.report(diag.Runtime, b.Speed.Token, "S word: %v", err)
			return false
		}
		if v < 0 {
			in.report(diag.Semantic, b.Speed.Token, "negative spindle speed %v", v)
			return false
		}
		in.state.Speed = v
		in.emit(&canon.SetSpindleSpeed{Source: canon.Source{Line: b.Line}, Speed: v})
	}

	if b.Tool != nil {
		v, err := in.evalValue(b.Tool)
		if err != nil {
			in.report(diag.Runtime, b.Tool.Token, "T word: %v", err)
			return false
		}
		if v < 0 {
			in.report(diag.Semantic, b.Tool.Token, "negative tool number %v", v)
			return false
		}
		in.state.SelectedTool = int(v)
	}

	// G53 modifies the whole block's motion rather than executing in
	// numeric order.
	in.machineCoords = b.HasGCode(dialect.Code{Major: 53})

	var stopping []gcode.CodeWord
	for _, w := range sortedCodes(b.M) {
		e, ok := in.table.MCode(w.Code)
		if !ok {
			in.report(diag.Semantic, w.Token, "unsupported M code M%s", w.Code)
			continue
		}
		if e.Group == dialect.GroupStopping {
			stopping = append(stopping, w)
			continue
		}
		if !in.dispatch(e, b, w) {
			return false
		}
	}

	for _, w := range sortedCodes(b.G) {
		e, ok := in.table.GCode(w.Code)
		if !ok {
			in.report(diag.Semantic, w.Token, "unsupported G code G%s", w.Code)
			continue
		}
		if e.Group == dialect.GroupFeedRateMode {
			continue // applied above
		}
		if !in.dispatch(e, b, w) {
			return false
		}
	}

	for _, w := range stopping {
		e, _ := in.table.MCode(w.Code)
		if !in.dispatch(e, b, w) {
			return false
		}
	}

	in.state.SyncParams()
	return in.stopped
}

// dispatch resolves a handler id and runs it. False means the block
// was aborted.
func (in *Interpreter) dispatch(e dialect.Entry, b *gcode.Block, w gcode.CodeWord) bool {
	fn, ok := in.handlers[e.Handler]
	if !ok {
		fn = unimplemented
	}
	err := fn(in, b, w)
	if err == nil {
		return true
	}
	if !errors.Is(err, errReported) {
		in.report(diag.Runtime, w.Token, "%s: %v", codeName(w), err)
	}
	return false
}

// unimplemented is the default entry for handler ids with no binding.
// It warns and has no state effect; codes never fall through silently.
func unimplemented(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	in.diags.Addf(diag.Warning, diag.SeverityWarning,
		w.Token.Line, w.Token.Start, w.Token.End,
		"%s is not implemented, ignored", codeName(w))
	return nil
}

func codeName(w gcode.CodeWord) string {
	return string(w.Token.Letter) + w.Code.String()
}

// assign evaluates one #param=value assignment. Returns false when the
// block must be abandoned.
func (in *Interpreter) assign(b *gcode.Block, a gcode.Assign) bool {
	v, err := in.evalValue(a.Value)
	if err != nil {
		in.report(diag.Runtime, a.Value.Token, "assignment: %v", err)
		return false
	}
	target := a.Target.Text
	if len(target) > 1 && target[1] == '<' {
		name := target[2 : len(target)-1]
		if err := in.state.Params.SetNamed(name, v); err != nil {
			in.report(diag.Semantic, a.Target, "%v", err)
			return false
		}
		return true
	}
	n := 0
	for _, c := range target[1:] {
		n = n*10 + int(c-'0')
	}
	if err := in.state.Params.SetNumbered(n, v); err != nil {
		in.report(diag.Semantic, a.Target, "%v", err)
		return false
	}
	return true
}
