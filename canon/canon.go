// Package canon defines the canonical machine commands produced by
// interpretation. They are the sole contract between the interpreter
// and downstream consumers (renderers, senders, analyzers): simple
// immutable records in execution order, each tagged with the source
// line that produced it.
package canon

import "github.com/maro7tigre/gcode-interpreter/coord"

// Command is implemented by every canonical command.
type Command interface {
	SourceLine() int
	command()
}

// Source tags a command with the line that produced it.
type Source struct {
	Line int `json:"line"`
}

func (s Source) SourceLine() int { return s.Line }
func (Source) command()          {}

type SpindleState string

const (
	SpindleCW  SpindleState = "cw"
	SpindleCCW SpindleState = "ccw"
	SpindleOff SpindleState = "off"
)

type CoolantType string

const (
	CoolantMist  CoolantType = "mist"
	CoolantFlood CoolantType = "flood"
)

type RapidMove struct {
	Source
	Start coord.Vec `json:"start"`
	End   coord.Vec `json:"end"`
}

type LinearFeed struct {
	Source
	Start coord.Vec `json:"start"`
	End   coord.Vec `json:"end"`
	Feed  float64   `json:"feed"`
}

// ArcFeed is a G2/G3 move. Direction is -1 for clockwise, 1 for
// counter-clockwise, matching the sign of the angular sweep.
type ArcFeed struct {
	Source
	Start     coord.Vec   `json:"start"`
	End       coord.Vec   `json:"end"`
	Center    coord.Point `json:"center"`
	Direction int         `json:"direction"`
	Feed      float64     `json:"feed"`
}

type Dwell struct {
	Source
	Seconds float64 `json:"seconds"`
}

type SetSpindleSpeed struct {
	Source
	Speed float64 `json:"speed"`
}

type SpindleControl struct {
	Source
	State SpindleState `json:"state"`
}

type ToolChange struct {
	Source
	Tool int `json:"tool"`
}

type CoolantControl struct {
	Source
	Type CoolantType `json:"type"`
	On   bool        `json:"on"`
}

type ProgramEnd struct {
	Source
}
