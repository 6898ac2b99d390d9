package interp

import (
	"fmt"

	"github.com/maro7tigre/gcode-interpreter/canon"
	"github.com/maro7tigre/gcode-interpreter/coord"
	"github.com/maro7tigre/gcode-interpreter/diag"
	"github.com/maro7tigre/gcode-interpreter/dialect"
	"github.com/maro7tigre/gcode-interpreter/gcode"
	"github.com/maro7tigre/gcode-interpreter/geom"
)

func defaultHandlers() map[string]handlerFunc {
	modal := func(group dialect.ModalGroup) handlerFunc {
		return func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			in.state.Modal[group] = w.Code
			return nil
		}
	}

	return map[string]handlerFunc{
		dialect.HandlerRapidMove:  rapidMove,
		dialect.HandlerLinearFeed: linearFeed,
		dialect.HandlerArcCW: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			return arcMove(in, b, w, true)
		},
		dialect.HandlerArcCCW: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			return arcMove(in, b, w, false)
		},
		dialect.HandlerDwell:        dwell,
		dialect.HandlerSetOffsets:   setOffsets,
		dialect.HandlerReturnHome:   returnHome,
		dialect.HandlerReturnSecond: returnHome,

		dialect.HandlerPlane:           modal(dialect.GroupPlane),
		dialect.HandlerUnits:           modal(dialect.GroupUnits),
		dialect.HandlerCutterComp:      modal(dialect.GroupCutterComp),
		dialect.HandlerToolLength:      toolLength,
		dialect.HandlerPathControl:     modal(dialect.GroupPathControl),
		dialect.HandlerDistanceMode:    modal(dialect.GroupDistance),
		dialect.HandlerArcDistanceMode: modal(dialect.GroupArcDistance),
		dialect.HandlerFeedRateMode:    modal(dialect.GroupFeedRateMode),
		dialect.HandlerReturnMode:      modal(dialect.GroupReturnMode),
		dialect.HandlerCoordSystem:     coordSystem,

		// G53 is applied as a whole-block flag before the G loop runs.
		dialect.HandlerMachineCoords: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			return nil
		},

		dialect.HandlerOffsetPosition: offsetPosition,
		dialect.HandlerClearOffset: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			in.state.G92 = coord.Vec{}
			in.state.g92Saved = coord.Vec{}
			return nil
		},
		dialect.HandlerSuspendOffset: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			in.state.g92Saved = in.state.G92
			in.state.G92 = coord.Vec{}
			return nil
		},
		dialect.HandlerRestoreOffset: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			in.state.G92 = in.state.g92Saved
			return nil
		},

		dialect.HandlerPause:         pause,
		dialect.HandlerOptionalPause: pause,
		dialect.HandlerPalletChange:  pause,
		dialect.HandlerProgramEnd:    programEnd,

		dialect.HandlerSpindleCW: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			return spindle(in, b, canon.SpindleCW)
		},
		dialect.HandlerSpindleCCW: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			return spindle(in, b, canon.SpindleCCW)
		},
		dialect.HandlerSpindleOff: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			return spindle(in, b, canon.SpindleOff)
		},

		dialect.HandlerToolChange: toolChange,
		dialect.HandlerSetTool:    setTool,

		dialect.HandlerMistOn: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			in.state.Mist = true
			in.emit(&canon.CoolantControl{Source: canon.Source{Line: b.Line}, Type: canon.CoolantMist, On: true})
			return nil
		},
		dialect.HandlerFloodOn: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			in.state.Flood = true
			in.emit(&canon.CoolantControl{Source: canon.Source{Line: b.Line}, Type: canon.CoolantFlood, On: true})
			return nil
		},
		dialect.HandlerCoolantOff: func(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
			in.state.Mist, in.state.Flood = false, false
			in.emit(&canon.CoolantControl{Source: canon.Source{Line: b.Line}, Type: canon.CoolantMist, On: false})
			in.emit(&canon.CoolantControl{Source: canon.Source{Line: b.Line}, Type: canon.CoolantFlood, On: false})
			return nil
		},

		dialect.HandlerOverride: override,
		dialect.HandlerCustomM:  customM,
	}
}

// linearAxis reports whether input values on the axis scale with the
// units mode. Rotational axes are always degrees.
func linearAxis(a coord.Axis) bool {
	switch a {
	case coord.AxisA, coord.AxisB, coord.AxisC:
		return false
	}
	return true
}

// motionTarget resolves the block's axis words into an absolute end
// position. Absent axes keep their previous work coordinate; with the
// G53 flag set the values are machine coordinates directly.
func (in *Interpreter) motionTarget(b *gcode.Block) (coord.Vec, error) {
	st := in.state
	scale := st.UnitScale()
	rel := st.Relative(st.Position)
	end := st.Position

	for a := coord.Axis(0); a < coord.NumAxes; a++ {
		v := b.Axes[a]
		if v == nil {
			continue
		}
		val, err := in.evalValue(v)
		if err != nil {
			in.report(diag.Runtime, v.Token, "%s word: %v", a, err)
			return coord.Vec{}, errReported
		}
		if linearAxis(a) {
			val *= scale
		}
		switch {
		case in.machineCoords:
			end[a] = val
		case st.Incremental():
			rel[a] += val
			end[a] = st.AbsoluteAxis(a, rel[a])
		default:
			rel[a] = val
			end[a] = st.AbsoluteAxis(a, val)
		}
	}
	return end, nil
}

func rapidMove(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	if !b.HasAxisWords() {
		return nil
	}
	end, err := in.motionTarget(b)
	if err != nil {
		return err
	}
	start := in.state.Position
	in.emit(&canon.RapidMove{Source: canon.Source{Line: b.Line}, Start: start, End: end})
	in.geometry.Linear(b.Line, geom.MoveRapid, start.Point(), end.Point(), 0)
	in.state.Commit(end)
	return nil
}

func linearFeed(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	if !b.HasAxisWords() {
		return nil
	}
	if in.state.Feed <= 0 {
		in.report(diag.Semantic, w.Token, "G%s requires a positive feed rate", w.Code)
		return errReported
	}
	end, err := in.motionTarget(b)
	if err != nil {
		return err
	}
	start := in.state.Position
	in.emit(&canon.LinearFeed{
		Source: canon.Source{Line: b.Line},
		Start:  start, End: end, Feed: in.state.Feed,
	})
	in.geometry.Linear(b.Line, geom.MoveFeed, start.Point(), end.Point(), in.state.Feed)
	in.state.Commit(end)
	return nil
}

// offsetLetter maps a plane axis to its arc center offset word.
func offsetLetter(a coord.Axis) byte {
	switch a {
	case coord.AxisX, coord.AxisU:
		return 'I'
	case coord.AxisY, coord.AxisV:
		return 'J'
	}
	return 'K'
}

func arcMove(in *Interpreter, b *gcode.Block, w gcode.CodeWord, clockwise bool) error {
	st := in.state
	if st.Feed <= 0 {
		in.report(diag.Semantic, w.Token, "G%s requires a positive feed rate", w.Code)
		return errReported
	}
	end, err := in.motionTarget(b)
	if err != nil {
		return err
	}
	start := st.Position
	a1, a2 := st.PlaneAxes()
	sp := coord.Point{X: start[a1], Y: start[a2]}
	ep := coord.Point{X: end[a1], Y: end[a2]}

	var cp coord.Point
	switch {
	case b.Param('R') != nil:
		r, err := in.evalValue(b.Param('R'))
		if err != nil {
			in.report(diag.Runtime, b.Param('R').Token, "R word: %v", err)
			return errReported
		}
		r *= st.UnitScale()
		cp, err = geom.RCenter(sp, ep, r, clockwise)
		if err != nil {
			in.report(diag.Semantic, w.Token, "radius %v cannot reach the arc endpoint", r)
			return errReported
		}

	case b.Param(offsetLetter(a1)) != nil || b.Param(offsetLetter(a2)) != nil:
		o1, err := in.evalParam(b, offsetLetter(a1), 0)
		if err != nil {
			return err
		}
		o2, err := in.evalParam(b, offsetLetter(a2), 0)
		if err != nil {
			return err
		}
		o1 *= st.UnitScale()
		o2 *= st.UnitScale()
		if st.ArcIncremental() {
			cp = coord.Point{X: sp.X + o1, Y: sp.Y + o2}
		} else {
			cp = coord.Point{X: st.AbsoluteAxis(a1, o1), Y: st.AbsoluteAxis(a2, o2)}
		}

	default:
		in.report(diag.Semantic, w.Token, "G%s requires R or center offset words", w.Code)
		return errReported
	}

	dir := 1
	if clockwise {
		dir = -1
	}
	in.emit(&canon.ArcFeed{
		Source: canon.Source{Line: b.Line},
		Start:  start, End: end,
		Center:    planeCenter(a1, a2, cp, end),
		Direction: dir,
		Feed:      st.Feed,
	})
	in.geometry.Arc(b.Line, sp, ep, cp, clockwise, st.Feed)
	st.Commit(end)
	return nil
}

// planeCenter places plane coordinates of an arc center into 3D space
// alongside the move's other axes. For UVW planes the pair is reported
// as-is in X/Y.
func planeCenter(a1, a2 coord.Axis, cp coord.Point, at coord.Vec) coord.Point {
	p := at.Point()
	set := func(a coord.Axis, v float64) bool {
		switch a {
		case coord.AxisX:
			p.X = v
		case coord.AxisY:
			p.Y = v
		case coord.AxisZ:
			p.Z = v
		default:
			return false
		}
		return true
	}
	if !set(a1, cp.X) || !set(a2, cp.Y) {
		return coord.Point{X: cp.X, Y: cp.Y}
	}
	return p
}

func dwell(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	p := b.Param('P')
	if p == nil {
		in.report(diag.Semantic, w.Token, "G%s requires a P word", w.Code)
		return errReported
	}
	v, err := in.evalValue(p)
	if err != nil {
		in.report(diag.Runtime, p.Token, "P word: %v", err)
		return errReported
	}
	if v < 0 {
		in.report(diag.Semantic, p.Token, "negative dwell time %v", v)
		return errReported
	}
	in.emit(&canon.Dwell{Source: canon.Source{Line: b.Line}, Seconds: v})
	return nil
}

// setOffsets implements G10: L2 writes coordinate system origins
// directly, L20 makes the current position read as the given values.
func setOffsets(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	st := in.state
	l, err := in.evalParam(b, 'L', -1)
	if err != nil {
		return err
	}
	p, err := in.evalParam(b, 'P', -1)
	if err != nil {
		return err
	}
	idx := int(p) - 1
	if idx < 0 || idx >= len(st.CoordSystems) {
		in.report(diag.Semantic, w.Token, "G10 P must select coordinate system 1..9")
		return errReported
	}

	scale := st.UnitScale()
	for a := coord.Axis(0); a < coord.NumAxes; a++ {
		v := b.Axes[a]
		if v == nil {
			continue
		}
		val, err := in.evalValue(v)
		if err != nil {
			in.report(diag.Runtime, v.Token, "%s word: %v", a, err)
			return errReported
		}
		if linearAxis(a) {
			val *= scale
		}
		switch int(l) {
		case 2:
			st.CoordSystems[idx][a] = val
		case 20:
			off := st.Position[a] - st.G92[a] - val
			if a == coord.AxisZ {
				off -= st.ToolLength
			}
			st.CoordSystems[idx][a] = off
		default:
			in.report(diag.Semantic, w.Token, "G10 L%v is not supported", l)
			return errReported
		}
	}
	return nil
}

// returnHome rapids through the optional intermediate point given by
// axis words, then to machine home.
func returnHome(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	if b.HasAxisWords() {
		if err := rapidMove(in, b, w); err != nil {
			return err
		}
	}
	start := in.state.Position
	home := coord.Vec{}
	if start.Equal(home) {
		return nil
	}
	in.emit(&canon.RapidMove{Source: canon.Source{Line: b.Line}, Start: start, End: home})
	in.geometry.Linear(b.Line, geom.MoveRapid, start.Point(), home.Point(), 0)
	in.state.Commit(home)
	return nil
}

// toolLength tracks G43/G49. Without a tool table the H word carries
// the offset value itself.
func toolLength(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	in.state.Modal[dialect.GroupToolLength] = w.Code
	if w.Code.Major == 49 {
		in.state.ToolLength = 0
		return nil
	}
	if h := b.Param('H'); h != nil {
		v, err := in.evalValue(h)
		if err != nil {
			in.report(diag.Runtime, h.Token, "H word: %v", err)
			return errReported
		}
		in.state.ToolLength = v * in.state.UnitScale()
	}
	return nil
}

func coordSystem(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	idx := systemIndex(w.Code)
	if idx < 0 {
		return fmt.Errorf("G%s does not name a coordinate system", w.Code)
	}
	in.state.Modal[dialect.GroupCoordinateSystem] = w.Code
	in.state.ActiveSystem = idx
	return nil
}

// offsetPosition implements G92: choose the G92 offset so the current
// position reads as the specified values, without motion.
func offsetPosition(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	st := in.state
	if !b.HasAxisWords() {
		in.report(diag.Semantic, w.Token, "G%s requires at least one axis word", w.Code)
		return errReported
	}
	scale := st.UnitScale()
	for a := coord.Axis(0); a < coord.NumAxes; a++ {
		v := b.Axes[a]
		if v == nil {
			continue
		}
		val, err := in.evalValue(v)
		if err != nil {
			in.report(diag.Runtime, v.Token, "%s word: %v", a, err)
			return errReported
		}
		if linearAxis(a) {
			val *= scale
		}
		base := st.Position[a] - st.CoordSystems[st.ActiveSystem][a]
		if a == coord.AxisZ {
			base -= st.ToolLength
		}
		st.G92[a] = base - val
	}
	st.SyncParams()
	return nil
}

func pause(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	in.events = append(in.events, DisplayEvent{
		Line: b.Line, Kind: EventPause, Text: codeName(w),
	})
	return nil
}

func programEnd(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	in.emit(&canon.ProgramEnd{Source: canon.Source{Line: b.Line}})
	in.stopped = true
	return nil
}

func spindle(in *Interpreter, b *gcode.Block, state canon.SpindleState) error {
	in.state.Spindle = state
	in.emit(&canon.SpindleControl{Source: canon.Source{Line: b.Line}, State: state})
	return nil
}

func toolChange(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	in.state.Tool = in.state.SelectedTool
	in.emit(&canon.ToolChange{Source: canon.Source{Line: b.Line}, Tool: in.state.Tool})
	return nil
}

// setTool implements M61: set the current tool number without a
// change cycle.
func setTool(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	q, err := in.evalParam(b, 'Q', -1)
	if err != nil {
		return err
	}
	if q < 0 {
		in.report(diag.Semantic, w.Token, "M61 requires a non-negative Q word")
		return errReported
	}
	in.state.Tool = int(q)
	return nil
}

// override handles M48..M53. Only the on/off pair carries state; the
// finer-grained codes are accepted as modal bookkeeping.
func override(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	switch w.Code.Major {
	case 48:
		in.state.OverridesOn = true
	case 49:
		in.state.OverridesOn = false
	}
	return nil
}

// customM dispatches M100..M199 to a registered user handler; without
// one it warns and changes nothing.
func customM(in *Interpreter, b *gcode.Block, w gcode.CodeWord) error {
	fn, ok := in.customM[w.Code.Major]
	if !ok {
		return unimplemented(in, b, w)
	}
	p, err := in.evalParam(b, 'P', 0)
	if err != nil {
		return err
	}
	q, err := in.evalParam(b, 'Q', 0)
	if err != nil {
		return err
	}
	return fn(w.Code.Major, p, q)
}
