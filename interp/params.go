package interp

import (
	"fmt"
	"strings"
)

// System parameter numbers mirrored from machine state after every
// committed block. All are read-only to user programs.
const (
	paramTool      = 5400
	paramFeed      = 5410
	paramSpeed     = 5411
	paramPositionX = 5420 // 5420..5428, one per axis
)

// Modal mirrors, one slot per modal group.
const (
	paramMotion       = 5070
	paramPlane        = 5080
	paramDistance     = 5090
	paramArcDistance  = 5100
	paramFeedRateMode = 5110
	paramUnits        = 5120
	paramCutterComp   = 5130
	paramToolLength   = 5140
	paramCoordSystem  = 5150
	paramPathControl  = 5160
)

// Params stores numbered and named parameters. Numbered 1..5399 are
// user-writable; 5400 and up plus the modal mirror slots are system
// values kept in sync by the interpreter. Named parameters starting
// with an underscore are global; all others live in the current scope
// (a subroutine call pushes a fresh scope). Predefined names are
// read-only.
type Params struct {
	numbered map[int]float64
	system   map[int]float64
	global   map[string]float64
	predef   map[string]float64
	scopes   []map[string]float64
}

func newParams() *Params {
	return &Params{
		numbered: make(map[int]float64),
		system:   make(map[int]float64),
		global:   make(map[string]float64),
		predef:   make(map[string]float64),
		scopes:   []map[string]float64{make(map[string]float64)},
	}
}

func systemNumber(n int) bool {
	if n >= 5400 {
		return true
	}
	return n >= paramMotion && n <= paramPathControl && n%10 == 0
}

// Numbered implements expr.Resolver.
func (p *Params) Numbered(n int) (float64, bool) {
	if systemNumber(n) {
		v, ok := p.system[n]
		return v, ok
	}
	v, ok := p.numbered[n]
	return v, ok
}

// Named implements expr.Resolver. Lookup order: predefined, then
// global for underscore names, then the innermost scope.
func (p *Params) Named(name string) (float64, bool) {
	name = strings.ToLower(name)
	if v, ok := p.predef[name]; ok {
		return v, true
	}
	if strings.HasPrefix(name, "_") {
		v, ok := p.global[name]
		return v, ok
	}
	v, ok := p.scopes[len(p.scopes)-1][name]
	return v, ok
}

func (p *Params) SetNumbered(n int, v float64) error {
	if systemNumber(n) {
		return fmt.Errorf("parameter #%d is read-only", n)
	}
	if n < 1 {
		return fmt.Errorf("parameter #%d out of range", n)
	}
	p.numbered[n] = v
	return nil
}

func (p *Params) SetNamed(name string, v float64) error {
	name = strings.ToLower(name)
	if _, ok := p.predef[name]; ok {
		return fmt.Errorf("parameter #<%s> is read-only", name)
	}
	if strings.HasPrefix(name, "_") {
		p.global[name] = v
		return nil
	}
	p.scopes[len(p.scopes)-1][name] = v
	return nil
}

func (p *Params) setSystem(n int, v float64) { p.system[n] = v }

func (p *Params) setPredef(name string, v float64) { p.predef[name] = v }

func (p *Params) pushScope() { p.scopes = append(p.scopes, make(map[string]float64)) }

func (p *Params) popScope() {
	if len(p.scopes) > 1 {
		p.scopes = p.scopes[:len(p.scopes)-1]
	}
}

// savedParam remembers one numbered parameter's value before a
// subroutine call rebinds it, so return can restore it.
type savedParam struct {
	n       int
	value   float64
	defined bool
}

// bindArgs assigns call arguments to #1..#N and returns what they
// replaced.
func (p *Params) bindArgs(args []float64) []savedParam {
	saved := make([]savedParam, len(args))
	for i, v := range args {
		n := i + 1
		old, ok := p.numbered[n]
		saved[i] = savedParam{n: n, value: old, defined: ok}
		p.numbered[n] = v
	}
	return saved
}

func (p *Params) restore(saved []savedParam) {
	for _, s := range saved {
		if s.defined {
			p.numbered[s.n] = s.value
		} else {
			delete(p.numbered, s.n)
		}
	}
}
