// Package animation holds the named parameters an animation state machine
// would read. It is the host-side target of the locomotion controller.
package animation

import (
	"log/slog"
	"sort"
	"sync"
)

// State labels derived from the locomotion parameters.
const (
	StateIdle     = "idle"
	StateWalk     = "walk"
	StateAirborne = "airborne"
)

const (
	paramSpeed      = "Speed"
	paramIsGrounded = "IsGrounded"
	paramIsWalking  = "IsWalking"
)

// Parameters is a float/bool parameter store. The zero value is not usable;
// call NewParameters. All methods accept a nil receiver.
type Parameters struct {
	mu     sync.RWMutex
	floats map[string]float64
	bools  map[string]bool
}

func NewParameters() *Parameters {
	return &Parameters{
		floats: make(map[string]float64),
		bools:  make(map[string]bool),
	}
}

func (p *Parameters) SetFloat(name string, v float64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.floats[name] = v
	p.mu.Unlock()
}

// SetBool stores v and logs at debug level when the value flips.
func (p *Parameters) SetBool(name string, v bool) {
	if p == nil {
		return
	}
	p.mu.Lock()
	old, seen := p.bools[name]
	p.bools[name] = v
	p.mu.Unlock()

	if seen && old != v {
		slog.Debug("Animation parameter changed", "param", name, "value", v)
	}
}

func (p *Parameters) Float(name string) float64 {
	if p == nil {
		return 0
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.floats[name]
}

func (p *Parameters) Bool(name string) bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bools[name]
}

// State collapses the parameters into a single label for HUDs and traces.
func (p *Parameters) State() string {
	switch {
	case p == nil:
		return StateIdle
	case !p.Bool(paramIsGrounded):
		return StateAirborne
	case p.Bool(paramIsWalking):
		return StateWalk
	default:
		return StateIdle
	}
}

// Speed is shorthand for the "Speed" float.
func (p *Parameters) Speed() float64 {
	return p.Float(paramSpeed)
}

// Names lists every parameter written so far, sorted.
func (p *Parameters) Names() []string {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	names := make([]string, 0, len(p.floats)+len(p.bools))
	for name := range p.floats {
		names = append(names, name)
	}
	for name := range p.bools {
		names = append(names, name)
	}
	p.mu.RUnlock()
	sort.Strings(names)
	return names
}
