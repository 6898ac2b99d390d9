package interp

import (
	"fmt"

	"github.com/maro7tigre/gcode-interpreter/canon"
	"github.com/maro7tigre/gcode-interpreter/coord"
	"github.com/maro7tigre/gcode-interpreter/dialect"
)

// State is the modal machine model one interpreter run owns
// exclusively. Positions are absolute machine coordinates in
// millimeters; handlers convert through the active coordinate system
// and G92 offsets.
type State struct {
	Modal map[dialect.ModalGroup]dialect.Code

	Position coord.Vec
	Previous coord.Vec

	// CoordSystems holds the nine work offsets G54..G59.3.
	CoordSystems [9]coord.Vec
	ActiveSystem int
	G92          coord.Vec
	g92Saved     coord.Vec

	// ToolLength is the active Z tool length offset (G43/G49).
	ToolLength float64

	Feed         float64
	Speed        float64
	Tool         int
	SelectedTool int

	Spindle     canon.SpindleState
	Mist, Flood bool
	OverridesOn bool

	Params *Params
}

func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset restores every modal default and clears positions, offsets and
// parameters. Called at the start of each interpreter run.
func (s *State) Reset() {
	s.Modal = map[dialect.ModalGroup]dialect.Code{
		dialect.GroupMotion:           {Major: 1},
		dialect.GroupPlane:            {Major: 17},
		dialect.GroupDistance:         {Major: 90},
		dialect.GroupArcDistance:      {Major: 91, Minor: 1},
		dialect.GroupFeedRateMode:     {Major: 94},
		dialect.GroupUnits:            {Major: 21},
		dialect.GroupCutterComp:       {Major: 40},
		dialect.GroupToolLength:       {Major: 49},
		dialect.GroupCoordinateSystem: {Major: 54},
		dialect.GroupPathControl:      {Major: 64},
		dialect.GroupReturnMode:       {Major: 98},
	}
	s.Position = coord.Vec{}
	s.Previous = coord.Vec{}
	s.CoordSystems = [9]coord.Vec{}
	s.ActiveSystem = 0
	s.G92 = coord.Vec{}
	s.g92Saved = coord.Vec{}
	s.ToolLength = 0
	s.Feed = 0
	s.Speed = 0
	s.Tool = 0
	s.SelectedTool = 0
	s.Spindle = canon.SpindleOff
	s.Mist, s.Flood = false, false
	s.OverridesOn = true
	s.Params = newParams()
	s.SyncParams()
}

// Absolute converts work coordinates to machine coordinates: the
// active system offset and G92 offset are added per axis, plus the
// tool length offset on Z.
func (s *State) Absolute(rel coord.Vec) coord.Vec {
	abs := rel.Add(s.CoordSystems[s.ActiveSystem]).Add(s.G92)
	abs[coord.AxisZ] += s.ToolLength
	return abs
}

// Relative is the inverse of Absolute.
func (s *State) Relative(abs coord.Vec) coord.Vec {
	rel := abs.Sub(s.CoordSystems[s.ActiveSystem]).Sub(s.G92)
	rel[coord.AxisZ] -= s.ToolLength
	return rel
}

// AbsoluteAxis converts a single-axis work coordinate to machine
// coordinates.
func (s *State) AbsoluteAxis(a coord.Axis, rel float64) float64 {
	abs := rel + s.CoordSystems[s.ActiveSystem][a] + s.G92[a]
	if a == coord.AxisZ {
		abs += s.ToolLength
	}
	return abs
}

// PlaneAxes maps the active plane modal code to its axis pair.
func (s *State) PlaneAxes() (first, second coord.Axis) {
	switch s.Modal[dialect.GroupPlane] {
	case dialect.Code{Major: 18}:
		return coord.AxisX, coord.AxisZ
	case dialect.Code{Major: 19}:
		return coord.AxisY, coord.AxisZ
	case dialect.Code{Major: 17, Minor: 1}:
		return coord.AxisU, coord.AxisV
	case dialect.Code{Major: 18, Minor: 1}:
		return coord.AxisU, coord.AxisW
	case dialect.Code{Major: 19, Minor: 1}:
		return coord.AxisV, coord.AxisW
	}
	return coord.AxisX, coord.AxisY
}

// UnitScale is the multiplier from input units to millimeters.
func (s *State) UnitScale() float64 {
	if s.Modal[dialect.GroupUnits].Major == 20 {
		return 25.4
	}
	return 1
}

// Incremental reports whether G91 distance mode is active.
func (s *State) Incremental() bool {
	return s.Modal[dialect.GroupDistance].Major == 91
}

// ArcIncremental reports whether arc IJK offsets are incremental from
// the start point (G91.1) rather than absolute coordinates (G90.1).
func (s *State) ArcIncremental() bool {
	return s.Modal[dialect.GroupArcDistance].Major == 91
}

// systemIndex maps a G54..G59.3 code to its slot, or -1.
func systemIndex(c dialect.Code) int {
	if c.Major >= 54 && c.Major <= 58 && c.Minor == 0 {
		return c.Major - 54
	}
	if c.Major == 59 && c.Minor <= 3 {
		return 5 + c.Minor
	}
	return -1
}

// Commit moves the machine to a new absolute position and refreshes
// the system parameters. Only successful motion handlers call it.
func (s *State) Commit(pos coord.Vec) {
	s.Previous = s.Position
	s.Position = pos
	s.SyncParams()
}

// SyncParams mirrors machine state into the read-only system and
// predefined parameters.
func (s *State) SyncParams() {
	p := s.Params
	for a := coord.Axis(0); a < coord.NumAxes; a++ {
		p.setSystem(paramPositionX+int(a), s.Position[a])
		p.setPredef("_"+string(a.Letter()+'a'-'A'), s.Position[a])
	}
	p.setSystem(paramTool, float64(s.Tool))
	p.setSystem(paramFeed, s.Feed)
	p.setSystem(paramSpeed, s.Speed)

	p.setSystem(paramMotion, s.Modal[dialect.GroupMotion].Float())
	p.setSystem(paramPlane, s.Modal[dialect.GroupPlane].Float())
	p.setSystem(paramDistance, s.Modal[dialect.GroupDistance].Float())
	p.setSystem(paramArcDistance, s.Modal[dialect.GroupArcDistance].Float())
	p.setSystem(paramFeedRateMode, s.Modal[dialect.GroupFeedRateMode].Float())
	p.setSystem(paramUnits, s.Modal[dialect.GroupUnits].Float())
	p.setSystem(paramCutterComp, s.Modal[dialect.GroupCutterComp].Float())
	p.setSystem(paramToolLength, s.Modal[dialect.GroupToolLength].Float())
	p.setSystem(paramCoordSystem, s.Modal[dialect.GroupCoordinateSystem].Float())
	p.setSystem(paramPathControl, s.Modal[dialect.GroupPathControl].Float())

	p.setPredef("_motion", s.Modal[dialect.GroupMotion].Float())
	p.setPredef("_plane", s.Modal[dialect.GroupPlane].Float())
	p.setPredef("_distance", s.Modal[dialect.GroupDistance].Float())
	p.setPredef("_feed", s.Feed)
	p.setPredef("_speed", s.Speed)
	p.setPredef("_tool", float64(s.Tool))
}

// Snapshot returns the current modal codes keyed by group name.
func (s *State) Snapshot() map[string]string {
	out := make(map[string]string, len(s.Modal))
	for g, c := range s.Modal {
		out[g.String()] = "G" + c.String()
	}
	return out
}

func (s *State) String() string {
	return fmt.Sprintf("pos=%v feed=%v speed=%v tool=%d system=G%s",
		s.Position.Point(), s.Feed, s.Speed, s.Tool,
		s.Modal[dialect.GroupCoordinateSystem])
}
