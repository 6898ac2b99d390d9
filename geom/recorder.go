package geom

import "github.com/maro7tigre/gcode-interpreter/coord"

// MoveType classifies a segment for rendering.
type MoveType string

const (
	MoveRapid  MoveType = "rapid"
	MoveFeed   MoveType = "feed"
	MoveArcCW  MoveType = "arc_cw"
	MoveArcCCW MoveType = "arc_ccw"
)

// Segment is one renderable piece of toolpath. Arc fields are zero for
// linear moves.
type Segment struct {
	ID         int         `json:"id"`
	Line       int         `json:"line"`
	Type       MoveType    `json:"type"`
	Start      coord.Point `json:"start"`
	End        coord.Point `json:"end"`
	Center     coord.Point `json:"center,omitempty"`
	Radius     float64     `json:"radius,omitempty"`
	StartAngle float64     `json:"start_angle,omitempty"`
	EndAngle   float64     `json:"end_angle,omitempty"`
	Feed       float64     `json:"feed,omitempty"`
	Length     float64     `json:"length"`
}

// Stats summarizes a recorded toolpath.
type Stats struct {
	Counts      map[MoveType]int `json:"counts"`
	RapidLength float64          `json:"rapid_length"`
	FeedLength  float64          `json:"feed_length"`
	Min         coord.Point      `json:"min"`
	Max         coord.Point      `json:"max"`
}

// Recorder accumulates segments in execution order and keeps the
// line-to-segment index up to date as they arrive.
type Recorder struct {
	segments []Segment
	byLine   map[int][]int

	min, max coord.Point
	seen     bool

	rapidLen float64
	feedLen  float64
}

func NewRecorder() *Recorder {
	return &Recorder{byLine: make(map[int][]int)}
}

// Linear records a rapid or feed segment between two points.
func (r *Recorder) Linear(line int, typ MoveType, start, end coord.Point, feed float64) {
	r.push(Segment{
		Line:   line,
		Type:   typ,
		Start:  start,
		End:    end,
		Feed:   feed,
		Length: start.Distance(end),
	})
}

// Arc records an arc segment around center. Angles are derived from
// the endpoints and normalized.
func (r *Recorder) Arc(line int, start, end, center coord.Point, clockwise bool, feed float64) {
	typ := MoveArcCCW
	if clockwise {
		typ = MoveArcCW
	}
	r.push(Segment{
		Line:       line,
		Type:       typ,
		Start:      start,
		End:        end,
		Center:     center,
		Radius:     ArcRadius(center, start, end),
		StartAngle: Angle(center, start),
		EndAngle:   Angle(center, end),
		Feed:       feed,
		Length:     ArcLength(start, end, center),
	})
}

func (r *Recorder) push(s Segment) {
	s.ID = len(r.segments)
	r.segments = append(r.segments, s)
	r.byLine[s.Line] = append(r.byLine[s.Line], s.ID)

	// Endpoint-approximate: an arc's bulge past its endpoints is not
	// tracked.
	r.grow(s.Start)
	r.grow(s.End)

	if s.Type == MoveRapid {
		r.rapidLen += s.Length
	} else {
		r.feedLen += s.Length
	}
}

func (r *Recorder) grow(p coord.Point) {
	if !r.seen {
		r.min, r.max = p, p
		r.seen = true
		return
	}
	if p.X < r.min.X {
		r.min.X = p.X
	}
	if p.Y < r.min.Y {
		r.min.Y = p.Y
	}
	if p.Z < r.min.Z {
		r.min.Z = p.Z
	}
	if p.X > r.max.X {
		r.max.X = p.X
	}
	if p.Y > r.max.Y {
		r.max.Y = p.Y
	}
	if p.Z > r.max.Z {
		r.max.Z = p.Z
	}
}

// Segments returns all recorded segments in execution order.
func (r *Recorder) Segments() []Segment { return r.segments }

// ForLine returns the segments produced by one source line.
func (r *Recorder) ForLine(line int) []Segment {
	ids := r.byLine[line]
	out := make([]Segment, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.segments[id])
	}
	return out
}

// LineFor maps a segment id back to its source line; -1 if unknown.
func (r *Recorder) LineFor(id int) int {
	if id < 0 || id >= len(r.segments) {
		return -1
	}
	return r.segments[id].Line
}

// Bounds reports the bounding box over every segment endpoint; arc
// bulge past the endpoints is not included. ok is false when nothing
// has been recorded.
func (r *Recorder) Bounds() (min, max coord.Point, ok bool) {
	return r.min, r.max, r.seen
}

// Stats computes totals over the recorded toolpath.
func (r *Recorder) Stats() Stats {
	counts := make(map[MoveType]int)
	for i := range r.segments {
		counts[r.segments[i].Type]++
	}
	return Stats{
		Counts:      counts,
		RapidLength: r.rapidLen,
		FeedLength:  r.feedLen,
		Min:         r.min,
		Max:         r.max,
	}
}

// Reset discards all recorded state.
func (r *Recorder) Reset() {
	r.segments = nil
	r.byLine = make(map[int][]int)
	r.seen = false
	r.min, r.max = coord.Point{}, coord.Point{}
	r.rapidLen, r.feedLen = 0, 0
}
