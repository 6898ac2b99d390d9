// Package dialect holds the static G/M-code tables for supported
// controller variants. A table maps each numeric code to a handler id
// and a modal group; the interpreter binds handler ids to functions at
// construction and never mutates a table afterwards.
package dialect

import (
	"fmt"
	"math"
)

// Code is the canonical (major, minor) form of a numeric G/M code.
// Fractional codes carry their sub-number in Minor: G59.1 is {59, 1}.
// Every dialect translates its native encoding into this form at load
// time.
type Code struct {
	Major int
	Minor int
}

// CodeFromFloat converts a parsed word value like 59.1 into a Code.
func CodeFromFloat(f float64) Code {
	major := int(f)
	minor := int(math.Round((f - float64(major)) * 10))
	return Code{Major: major, Minor: minor}
}

// Float returns the value form of the code (59.1 for {59, 1}).
func (c Code) Float() float64 {
	return float64(c.Major) + float64(c.Minor)/10
}

func (c Code) String() string {
	if c.Minor == 0 {
		return fmt.Sprintf("%d", c.Major)
	}
	return fmt.Sprintf("%d.%d", c.Major, c.Minor)
}

// ModalGroup is a set of mutually exclusive codes. At most one code per
// group may appear in a block.
type ModalGroup byte

const (
	GroupNone ModalGroup = iota
	GroupNonModal
	GroupMotion
	GroupPlane
	GroupDistance
	GroupArcDistance
	GroupFeedRateMode
	GroupUnits
	GroupCutterComp
	GroupToolLength
	GroupCoordinateSystem
	GroupPathControl
	GroupReturnMode
	GroupStopping
	GroupToolChange
	GroupSpindle
	GroupCoolant
	GroupOverride
)

func (g ModalGroup) String() string {
	switch g {
	case GroupNonModal:
		return "non-modal"
	case GroupMotion:
		return "motion"
	case GroupPlane:
		return "plane"
	case GroupDistance:
		return "distance"
	case GroupArcDistance:
		return "arc distance"
	case GroupFeedRateMode:
		return "feed rate mode"
	case GroupUnits:
		return "units"
	case GroupCutterComp:
		return "cutter compensation"
	case GroupToolLength:
		return "tool length"
	case GroupCoordinateSystem:
		return "coordinate system"
	case GroupPathControl:
		return "path control"
	case GroupReturnMode:
		return "return mode"
	case GroupStopping:
		return "stopping"
	case GroupToolChange:
		return "tool change"
	case GroupSpindle:
		return "spindle"
	case GroupCoolant:
		return "coolant"
	case GroupOverride:
		return "override"
	}
	return "none"
}

// Entry binds a code to its handler id and modal group.
type Entry struct {
	Handler string
	Group   ModalGroup
}

// Table is the read-only dialect database supplied to an interpreter at
// construction.
type Table struct {
	name string
	g    map[Code]Entry
	m    map[Code]Entry
}

func (t *Table) Name() string { return t.name }

func (t *Table) GCode(c Code) (Entry, bool) {
	e, ok := t.g[c]
	return e, ok
}

func (t *Table) MCode(c Code) (Entry, bool) {
	e, ok := t.m[c]
	return e, ok
}

// GGroup returns the modal group of a G code, or GroupNone when the
// code is unknown to the dialect.
func (t *Table) GGroup(c Code) ModalGroup {
	return t.g[c].Group
}

func (t *Table) MGroup(c Code) ModalGroup {
	return t.m[c].Group
}
