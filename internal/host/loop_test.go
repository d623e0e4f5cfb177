package host

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNewValidatesDeltas(t *testing.T) {
	tests := []struct {
		name    string
		fixed   float64
		max     float64
		wantErr bool
	}{
		{"valid", 0.02, 0.1, false},
		{"equal", 0.02, 0.02, false},
		{"zero fixed", 0, 0.1, true},
		{"negative fixed", -0.02, 0.1, true},
		{"max below fixed", 0.02, 0.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fixed, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%v, %v) error = %v, wantErr %t", tt.fixed, tt.max, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDelta) {
				t.Fatalf("error %v should wrap ErrInvalidDelta", err)
			}
		})
	}
}

func TestAdvanceRunsFixedSteps(t *testing.T) {
	tests := []struct {
		name   string
		frames []float64
		want   []int
	}{
		{"exact step", []float64{0.02}, []int{1}},
		{"below step", []float64{0.01, 0.01}, []int{0, 1}},
		{"multiple steps", []float64{0.05}, []int{2}},
		{"carry remainder", []float64{0.05, 0.01}, []int{2, 1}},
		{"clamped spike", []float64{3}, []int{5}},
		{"negative dt", []float64{-1}, []int{0}},
		{"many small frames", []float64{0.004, 0.004, 0.004, 0.004, 0.004}, []int{0, 0, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(0.02, 0.1)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got := make([]int, 0, len(tt.frames))
			for _, dt := range tt.frames {
				got = append(got, l.Advance(dt))
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("steps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdvanceOrder(t *testing.T) {
	l, err := New(0.02, 0.1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var calls []string
	l.OnFrame(func(dt float64) { calls = append(calls, "frame") })
	l.OnFixedStep(func(dt float64) { calls = append(calls, "controller") })
	l.OnFixedStep(func(dt float64) { calls = append(calls, "world") })
	l.OnPump(func() { calls = append(calls, "pump") })
	l.Post(func() { calls = append(calls, "posted") })

	l.Advance(0.04)

	want := []string{"posted", "pump", "controller", "world", "controller", "world", "frame"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("call order = %v, want %v", calls, want)
	}
}

func TestAdvancePassesDeltas(t *testing.T) {
	l, err := New(0.02, 0.1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var fixed, frame []float64
	l.OnFixedStep(func(dt float64) { fixed = append(fixed, dt) })
	l.OnFrame(func(dt float64) { frame = append(frame, dt) })

	l.Advance(0.5)

	if len(fixed) != 5 {
		t.Fatalf("fixed steps = %d, want 5", len(fixed))
	}
	for _, dt := range fixed {
		if dt != 0.02 {
			t.Fatalf("fixed dt = %v, want 0.02", dt)
		}
	}
	if !reflect.DeepEqual(frame, []float64{0.1}) {
		t.Fatalf("frame dt = %v, want clamped [0.1]", frame)
	}

	stats := l.Stats()
	if stats.Steps != 5 || stats.Frames != 1 {
		t.Fatalf("Stats = %+v", stats)
	}
}

func TestAlpha(t *testing.T) {
	l, err := New(0.02, 0.1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Advance(0.03)
	if a := l.Alpha(); a < 0.49 || a > 0.51 {
		t.Fatalf("Alpha = %v, want 0.5", a)
	}
}

func TestPostDropsWhenFull(t *testing.T) {
	l, err := New(0.02, 0.1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ran := 0
	for i := 0; i < postQueueSize; i++ {
		if !l.Post(func() { ran++ }) {
			t.Fatalf("Post %d rejected before queue was full", i)
		}
	}
	if l.Post(func() { ran++ }) {
		t.Fatal("Post should reject when the queue is full")
	}
	l.Advance(0)
	if ran != postQueueSize {
		t.Fatalf("ran %d posted calls, want %d", ran, postQueueSize)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	l, err := New(0.001, 0.1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frames := make(chan struct{}, 1)
	l.OnFrame(func(float64) {
		select {
		case frames <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, time.Millisecond) }()

	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("Run produced no frames")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunRejectsBadInterval(t *testing.T) {
	l, err := New(0.02, 0.1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.Run(context.Background(), 0); !errors.Is(err, ErrInvalidDelta) {
		t.Fatalf("Run(0) error = %v, want ErrInvalidDelta", err)
	}
}
