package dialect

// Handler ids shared by the dialect tables. The interpreter binds each
// id to a function; ids without a binding fall through to an explicit
// "unimplemented" handler that reports a warning.
const (
	HandlerRapidMove       = "rapid_move"
	HandlerLinearFeed      = "linear_feed"
	HandlerArcCW           = "arc_cw"
	HandlerArcCCW          = "arc_ccw"
	HandlerDwell           = "dwell"
	HandlerSetOffsets      = "set_offsets"
	HandlerPlane           = "select_plane"
	HandlerUnits           = "select_units"
	HandlerReturnHome      = "return_home"
	HandlerReturnSecond    = "return_secondary"
	HandlerCutterComp      = "cutter_comp"
	HandlerToolLength      = "tool_length"
	HandlerMachineCoords   = "machine_coords"
	HandlerCoordSystem     = "coordinate_system"
	HandlerPathControl     = "path_control"
	HandlerDistanceMode    = "distance_mode"
	HandlerArcDistanceMode = "arc_distance_mode"
	HandlerFeedRateMode    = "feed_rate_mode"
	HandlerReturnMode      = "return_mode"
	HandlerOffsetPosition  = "offset_position"
	HandlerClearOffset     = "clear_offset"
	HandlerSuspendOffset   = "suspend_offset"
	HandlerRestoreOffset   = "restore_offset"

	HandlerPause         = "pause"
	HandlerOptionalPause = "optional_pause"
	HandlerProgramEnd    = "program_end"
	HandlerPalletChange  = "pallet_change"
	HandlerSpindleCW     = "spindle_cw"
	HandlerSpindleCCW    = "spindle_ccw"
	HandlerSpindleOff    = "spindle_off"
	HandlerToolChange    = "tool_change"
	HandlerSetTool       = "set_tool"
	HandlerMistOn        = "mist_on"
	HandlerFloodOn       = "flood_on"
	HandlerCoolantOff    = "coolant_off"
	HandlerOverride      = "override"
	HandlerCustomM       = "custom_m"
)

// LinuxCNC returns the dialect table for the LinuxCNC controller
// family. Codes are stored in canonical form directly.
func LinuxCNC() *Table {
	g := map[Code]Entry{
		// Group 0 (non-modal)
		{4, 0}:  {HandlerDwell, GroupNonModal},
		{10, 0}: {HandlerSetOffsets, GroupNonModal},
		{28, 0}: {HandlerReturnHome, GroupNonModal},
		{30, 0}: {HandlerReturnSecond, GroupNonModal},
		{53, 0}: {HandlerMachineCoords, GroupNonModal},
		{92, 0}: {HandlerOffsetPosition, GroupNonModal},
		{92, 1}: {HandlerClearOffset, GroupNonModal},
		{92, 2}: {HandlerSuspendOffset, GroupNonModal},
		{92, 3}: {HandlerRestoreOffset, GroupNonModal},

		// Motion
		{0, 0}: {HandlerRapidMove, GroupMotion},
		{1, 0}: {HandlerLinearFeed, GroupMotion},
		{2, 0}: {HandlerArcCW, GroupMotion},
		{3, 0}: {HandlerArcCCW, GroupMotion},

		// Plane selection
		{17, 0}: {HandlerPlane, GroupPlane},
		{18, 0}: {HandlerPlane, GroupPlane},
		{19, 0}: {HandlerPlane, GroupPlane},
		{17, 1}: {HandlerPlane, GroupPlane},
		{18, 1}: {HandlerPlane, GroupPlane},
		{19, 1}: {HandlerPlane, GroupPlane},

		// Distance modes
		{90, 0}: {HandlerDistanceMode, GroupDistance},
		{91, 0}: {HandlerDistanceMode, GroupDistance},
		{90, 1}: {HandlerArcDistanceMode, GroupArcDistance},
		{91, 1}: {HandlerArcDistanceMode, GroupArcDistance},

		// Feed rate mode
		{93, 0}: {HandlerFeedRateMode, GroupFeedRateMode},
		{94, 0}: {HandlerFeedRateMode, GroupFeedRateMode},
		{95, 0}: {HandlerFeedRateMode, GroupFeedRateMode},

		// Units
		{20, 0}: {HandlerUnits, GroupUnits},
		{21, 0}: {HandlerUnits, GroupUnits},

		// Cutter compensation
		{40, 0}: {HandlerCutterComp, GroupCutterComp},
		{41, 0}: {HandlerCutterComp, GroupCutterComp},
		{42, 0}: {HandlerCutterComp, GroupCutterComp},

		// Tool length
		{43, 0}: {HandlerToolLength, GroupToolLength},
		{49, 0}: {HandlerToolLength, GroupToolLength},

		// Coordinate systems
		{54, 0}: {HandlerCoordSystem, GroupCoordinateSystem},
		{55, 0}: {HandlerCoordSystem, GroupCoordinateSystem},
		{56, 0}: {HandlerCoordSystem, GroupCoordinateSystem},
		{57, 0}: {HandlerCoordSystem, GroupCoordinateSystem},
		{58, 0}: {HandlerCoordSystem, GroupCoordinateSystem},
		{59, 0}: {HandlerCoordSystem, GroupCoordinateSystem},
		{59, 1}: {HandlerCoordSystem, GroupCoordinateSystem},
		{59, 2}: {HandlerCoordSystem, GroupCoordinateSystem},
		{59, 3}: {HandlerCoordSystem, GroupCoordinateSystem},

		// Path control
		{61, 0}: {HandlerPathControl, GroupPathControl},
		{61, 1}: {HandlerPathControl, GroupPathControl},
		{64, 0}: {HandlerPathControl, GroupPathControl},

		// Canned cycle return mode
		{98, 0}: {HandlerReturnMode, GroupReturnMode},
		{99, 0}: {HandlerReturnMode, GroupReturnMode},
	}

	m := map[Code]Entry{
		{0, 0}:  {HandlerPause, GroupStopping},
		{1, 0}:  {HandlerOptionalPause, GroupStopping},
		{2, 0}:  {HandlerProgramEnd, GroupStopping},
		{30, 0}: {HandlerProgramEnd, GroupStopping},
		{60, 0}: {HandlerPalletChange, GroupStopping},

		{3, 0}: {HandlerSpindleCW, GroupSpindle},
		{4, 0}: {HandlerSpindleCCW, GroupSpindle},
		{5, 0}: {HandlerSpindleOff, GroupSpindle},

		{6, 0}:  {HandlerToolChange, GroupToolChange},
		{61, 0}: {HandlerSetTool, GroupToolChange},

		{7, 0}: {HandlerMistOn, GroupCoolant},
		{8, 0}: {HandlerFloodOn, GroupCoolant},
		{9, 0}: {HandlerCoolantOff, GroupCoolant},

		{48, 0}: {HandlerOverride, GroupOverride},
		{49, 0}: {HandlerOverride, GroupOverride},
		{50, 0}: {HandlerOverride, GroupOverride},
		{51, 0}: {HandlerOverride, GroupOverride},
		{52, 0}: {HandlerOverride, GroupOverride},
		{53, 0}: {HandlerOverride, GroupOverride},
	}

	// User M-codes dispatch through one handler that warns when no
	// custom binding exists.
	for i := 100; i <= 199; i++ {
		m[Code{i, 0}] = Entry{HandlerCustomM, GroupNone}
	}

	return &Table{name: "linuxcnc", g: g, m: m}
}
