// Package diag collects structured diagnostics during G-code
// interpretation. All pipeline stages report through one Collector so a
// single pass over a program surfaces every problem with its source
// position.
package diag

import (
	"fmt"
	"sort"
)

type Type string

const (
	Syntax   Type = "syntax"
	Semantic Type = "semantic"
	Runtime  Type = "runtime"
	Warning  Type = "warning"
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	}
	return "unknown"
}

// Error is one diagnostic tied to a source position. Start and End are
// character offsets within the line.
type Error struct {
	Line     int      `json:"line"`
	Start    int      `json:"char_start"`
	End      int      `json:"char_end"`
	Message  string   `json:"message"`
	Type     Type     `json:"kind"`
	Severity Severity `json:"severity"`
}

func (e Error) String() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Type, e.Message)
}

// Collector accumulates diagnostics. The zero value is ready to use.
type Collector struct {
	errs []Error
}

func (c *Collector) Add(e Error) {
	if e.Type == Warning {
		e.Severity = SeverityWarning
	}
	c.errs = append(c.errs, e)
}

func (c *Collector) Addf(typ Type, sev Severity, line, start, end int, format string, args ...interface{}) {
	c.Add(Error{
		Line:     line,
		Start:    start,
		End:      end,
		Message:  fmt.Sprintf(format, args...),
		Type:     typ,
		Severity: sev,
	})
}

// All returns every diagnostic ordered by (line, start).
func (c *Collector) All() []Error {
	out := make([]Error, len(c.errs))
	copy(out, c.errs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// ForLine returns the diagnostics recorded against one source line.
func (c *Collector) ForLine(line int) []Error {
	var out []Error
	for _, e := range c.errs {
		if e.Line == line {
			out = append(out, e)
		}
	}
	return out
}

func (c *Collector) HasFatal() bool {
	for _, e := range c.errs {
		if e.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// HasErrors reports whether any error or fatal diagnostics were
// recorded; warnings do not count.
func (c *Collector) HasErrors() bool {
	for _, e := range c.errs {
		if e.Severity >= SeverityError {
			return true
		}
	}
	return false
}

func (c *Collector) Len() int { return len(c.errs) }

func (c *Collector) Clear() { c.errs = c.errs[:0] }

// MergeFrom appends every diagnostic from the other collector. The
// syntax-only path records into a throwaway Collector and merges at
// caller discretion.
func (c *Collector) MergeFrom(o *Collector) {
	c.errs = append(c.errs, o.errs...)
}
