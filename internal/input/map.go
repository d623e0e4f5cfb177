// Package input dispatches device-independent actions to subscribers on the
// caller's goroutine.
package input

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

type Action string

const (
	ActionMove Action = "move"
	ActionJump Action = "jump"
)

type Phase uint8

const (
	Performed Phase = iota
	Canceled
)

func (p Phase) String() string {
	switch p {
	case Performed:
		return "performed"
	case Canceled:
		return "canceled"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Context is one action event. Value is only meaningful for move.
type Context struct {
	Action Action
	Phase  Phase
	Value  mgl64.Vec2
}

type Handler func(ctx Context)

// Subscription identifies a registered handler; the zero value is never issued.
type Subscription uint64

// Source is what a consumer registers its callbacks with.
type Source interface {
	Subscribe(action Action, phase Phase, handler Handler) Subscription
	Unsubscribe(sub Subscription)
}

type binding struct {
	id      Subscription
	handler Handler
}

type key struct {
	action Action
	phase  Phase
}

// Map routes action events to handlers synchronously. A disabled map drops
// events without calling anyone.
type Map struct {
	mu       sync.RWMutex
	handlers map[key][]binding
	nextID   Subscription
	enabled  bool
}

func NewMap() *Map {
	return &Map{
		handlers: make(map[key][]binding),
	}
}

func (m *Map) Subscribe(action Action, phase Phase, handler Handler) Subscription {
	if handler == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	k := key{action: action, phase: phase}
	m.handlers[k] = append(m.handlers[k], binding{id: m.nextID, handler: handler})
	return m.nextID
}

func (m *Map) Unsubscribe(sub Subscription) {
	if sub == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, list := range m.handlers {
		for i, b := range list {
			if b.id != sub {
				continue
			}
			m.handlers[k] = append(list[:i:i], list[i+1:]...)
			if len(m.handlers[k]) == 0 {
				delete(m.handlers, k)
			}
			return
		}
	}
}

func (m *Map) Enable() {
	m.mu.Lock()
	m.enabled = true
	m.mu.Unlock()
}

func (m *Map) Disable() {
	m.mu.Lock()
	m.enabled = false
	m.mu.Unlock()
}

func (m *Map) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Subscribers returns the handler count for an action phase.
func (m *Map) Subscribers(action Action, phase Phase) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[key{action: action, phase: phase}])
}

// Dispatch delivers ctx to every handler bound to its action and phase.
// Move values are clamped to [-1,1] per axis.
func (m *Map) Dispatch(ctx Context) {
	m.mu.RLock()
	if !m.enabled {
		m.mu.RUnlock()
		return
	}
	list := m.handlers[key{action: ctx.Action, phase: ctx.Phase}]
	handlers := make([]binding, len(list))
	copy(handlers, list)
	m.mu.RUnlock()

	if ctx.Action == ActionMove {
		ctx.Value = clampAxes(ctx.Value)
	}
	for _, b := range handlers {
		call(b.handler, ctx)
	}
}

func (m *Map) Move(v mgl64.Vec2) {
	m.Dispatch(Context{Action: ActionMove, Phase: Performed, Value: v})
}

func (m *Map) CancelMove() {
	m.Dispatch(Context{Action: ActionMove, Phase: Canceled})
}

func (m *Map) Jump() {
	m.Dispatch(Context{Action: ActionJump, Phase: Performed})
}

func call(h Handler, ctx Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Input handler panicked", "action", ctx.Action, "phase", ctx.Phase, "panic", r)
		}
	}()
	h(ctx)
}

func clampAxes(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{mgl64.Clamp(v.X(), -1, 1), mgl64.Clamp(v.Y(), -1, 1)}
}
