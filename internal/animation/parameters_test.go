package animation

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func TestParametersStore(t *testing.T) {
	p := NewParameters()
	p.SetFloat("Speed", 3.5)
	p.SetBool("IsGrounded", true)

	if got := p.Float("Speed"); got != 3.5 {
		t.Fatalf("Float(Speed) = %v, want 3.5", got)
	}
	if got := p.Speed(); got != 3.5 {
		t.Fatalf("Speed() = %v, want 3.5", got)
	}
	if !p.Bool("IsGrounded") {
		t.Fatal("Bool(IsGrounded) should be true")
	}
	if p.Bool("missing") || p.Float("missing") != 0 {
		t.Fatal("unset parameters should read as zero")
	}
	if got, want := p.Names(), []string{"IsGrounded", "Speed"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestParametersState(t *testing.T) {
	tests := []struct {
		name     string
		grounded bool
		walking  bool
		want     string
	}{
		{"idle", true, false, StateIdle},
		{"walk", true, true, StateWalk},
		{"falling", false, false, StateAirborne},
		{"air strafe", false, true, StateAirborne},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParameters()
			p.SetBool("IsGrounded", tt.grounded)
			p.SetBool("IsWalking", tt.walking)
			if got := p.State(); got != tt.want {
				t.Fatalf("State() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNilParameters(t *testing.T) {
	var p *Parameters
	p.SetFloat("Speed", 1)
	p.SetBool("IsGrounded", true)

	if p.Float("Speed") != 0 || p.Bool("IsGrounded") {
		t.Fatal("nil parameters should read as zero")
	}
	if p.State() != StateIdle {
		t.Fatalf("nil State() = %q", p.State())
	}
	if p.Names() != nil {
		t.Fatal("nil Names() should be nil")
	}
}

func TestSetBoolLogsTransitions(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	p := NewParameters()
	p.SetBool("IsGrounded", false)
	p.SetBool("IsGrounded", false)
	if buf.Len() != 0 {
		t.Fatalf("first write and repeats should not log, got %q", buf.String())
	}

	p.SetBool("IsGrounded", true)
	if !strings.Contains(buf.String(), "param=IsGrounded") {
		t.Fatalf("transition not logged: %q", buf.String())
	}
}
