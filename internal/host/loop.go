// Package host drives the two update cadences of a simulation: a fixed
// physics step and a variable visual frame.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

const (
	// stepTolerance absorbs float drift so that an accumulator holding
	// exactly N fixed deltas runs N steps.
	stepTolerance = 1e-9

	postQueueSize      = 64
	diagnosticInterval = 5 * time.Second
)

var ErrInvalidDelta = errors.New("invalid loop delta")

// Loop accumulates frame time and replays it as fixed steps. Callbacks run
// on the goroutine that calls Advance or Run; Post is the only method safe
// to call from elsewhere.
type Loop struct {
	FixedDelta float64
	MaxDelta   float64

	fixed []func(dt float64)
	frame []func(dt float64)
	pumps []func()

	posted chan func()

	accumulator float64
	steps       uint64
	frames      uint64
	elapsed     float64

	diag rate.Sometimes
}

func New(fixedDelta, maxDelta float64) (*Loop, error) {
	if !(fixedDelta > 0) {
		return nil, fmt.Errorf("%w: fixed delta %v must be positive", ErrInvalidDelta, fixedDelta)
	}
	if maxDelta < fixedDelta {
		return nil, fmt.Errorf("%w: max delta %v is below fixed delta %v", ErrInvalidDelta, maxDelta, fixedDelta)
	}
	return &Loop{
		FixedDelta: fixedDelta,
		MaxDelta:   maxDelta,
		posted:     make(chan func(), postQueueSize),
		diag:       rate.Sometimes{Interval: diagnosticInterval},
	}, nil
}

// OnFixedStep registers fn to run once per fixed step, in registration order.
func (l *Loop) OnFixedStep(fn func(dt float64)) {
	l.fixed = append(l.fixed, fn)
}

// OnFrame registers fn to run once per Advance after the fixed steps.
func (l *Loop) OnFrame(fn func(dt float64)) {
	l.frame = append(l.frame, fn)
}

// OnPump registers fn to run at the start of every Advance, before any step.
// Hosts use it to poll their input devices.
func (l *Loop) OnPump(fn func()) {
	l.pumps = append(l.pumps, fn)
}

// Post queues fn to run on the loop goroutine at the next Advance. It never
// blocks; when the queue is full fn is dropped and false is returned.
func (l *Loop) Post(fn func()) bool {
	select {
	case l.posted <- fn:
		return true
	default:
		slog.Warn("Loop queue full, dropping posted call")
		return false
	}
}

// Advance feeds dt seconds of frame time into the loop and returns the number
// of fixed steps it ran. dt is clamped to [0, MaxDelta].
func (l *Loop) Advance(dt float64) int {
	if !(dt > 0) {
		dt = 0
	}
	if dt > l.MaxDelta {
		dt = l.MaxDelta
	}

	l.drainPosted()
	for _, pump := range l.pumps {
		pump()
	}

	l.accumulator += dt
	n := 0
	for l.accumulator+stepTolerance >= l.FixedDelta {
		for _, fn := range l.fixed {
			fn(l.FixedDelta)
		}
		l.accumulator -= l.FixedDelta
		n++
	}
	if l.accumulator < 0 {
		l.accumulator = 0
	}
	l.steps += uint64(n)

	for _, fn := range l.frame {
		fn(dt)
	}
	l.frames++
	l.elapsed += dt
	return n
}

func (l *Loop) drainPosted() {
	for {
		select {
		case fn := <-l.posted:
			fn()
		default:
			return
		}
	}
}

// Run advances the loop on a wall-clock ticker until ctx is done.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: frame interval %v", ErrInvalidDelta, interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			l.Advance(now.Sub(last).Seconds())
			last = now
			l.diag.Do(func() {
				slog.Debug("Loop running", "steps", l.steps, "frames", l.frames, "sim_time", l.elapsed)
			})
		}
	}
}

// Alpha is how far the simulation sits between two fixed steps, in [0,1).
func (l *Loop) Alpha() float64 {
	return l.accumulator / l.FixedDelta
}

type Stats struct {
	Steps   uint64
	Frames  uint64
	SimTime float64
}

func (l *Loop) Stats() Stats {
	return Stats{Steps: l.steps, Frames: l.frames, SimTime: l.elapsed}
}
