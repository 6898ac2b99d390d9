package dialect

// The NUM 1060 M programming manual stores fractional codes as
// decimal-scaled integers: G17 is 170, G59.1 would be 591. The native
// table below keeps that encoding; fromScaled translates each key into
// the canonical (major, minor) pair once, when the table is built.

func fromScaled(n int) Code {
	return Code{Major: n / 10, Minor: n % 10}
}

// NUM returns the dialect table for the NUM 1060 M controller.
func NUM() *Table {
	scaledG := map[int]Entry{
		// Motion
		0:   {HandlerRapidMove, GroupMotion},
		10:  {HandlerLinearFeed, GroupMotion},
		20:  {HandlerArcCW, GroupMotion},
		30:  {HandlerArcCCW, GroupMotion},
		230: {"arc_three_points", GroupMotion},

		// Non-modal
		40:  {HandlerDwell, GroupNonModal},
		90:  {"accurate_stop", GroupNonModal},
		100: {"interruptible_block", GroupNonModal},
		770: {"subroutine_call", GroupNonModal},
		790: {"jump", GroupNonModal},

		// Plane selection
		170: {HandlerPlane, GroupPlane},
		180: {HandlerPlane, GroupPlane},
		190: {HandlerPlane, GroupPlane},

		// Distance mode
		900: {HandlerDistanceMode, GroupDistance},
		910: {HandlerDistanceMode, GroupDistance},

		// Feed rate mode
		930: {HandlerFeedRateMode, GroupFeedRateMode},
		940: {HandlerFeedRateMode, GroupFeedRateMode},
		950: {HandlerFeedRateMode, GroupFeedRateMode},

		// Units
		700: {HandlerUnits, GroupUnits},
		710: {HandlerUnits, GroupUnits},

		// Cutter compensation
		400: {HandlerCutterComp, GroupCutterComp},
		410: {HandlerCutterComp, GroupCutterComp},
		420: {HandlerCutterComp, GroupCutterComp},

		// Origin selection
		520: {"absolute_coords", GroupCoordinateSystem},
		530: {"offset_cancel", GroupCoordinateSystem},
		540: {HandlerCoordSystem, GroupCoordinateSystem},
		590: {"origin_offset", GroupCoordinateSystem},
		920: {HandlerOffsetPosition, GroupNonModal},
	}

	scaledM := map[int]Entry{
		0:  {HandlerPause, GroupStopping},
		10: {HandlerOptionalPause, GroupStopping},
		20: {HandlerProgramEnd, GroupStopping},

		30:  {HandlerSpindleCW, GroupSpindle},
		40:  {HandlerSpindleCCW, GroupSpindle},
		50:  {HandlerSpindleOff, GroupSpindle},
		190: {"spindle_index", GroupSpindle},

		60: {HandlerToolChange, GroupToolChange},

		70: {HandlerMistOn, GroupCoolant},
		80: {HandlerFloodOn, GroupCoolant},
		90: {HandlerCoolantOff, GroupCoolant},
	}

	g := make(map[Code]Entry, len(scaledG))
	for n, e := range scaledG {
		g[fromScaled(n)] = e
	}
	m := make(map[Code]Entry, len(scaledM))
	for n, e := range scaledM {
		m[fromScaled(n)] = e
	}

	return &Table{name: "num1060", g: g, m: m}
}
