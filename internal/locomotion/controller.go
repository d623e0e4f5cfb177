// Package locomotion drives one character's planar movement, facing, jumps
// and slope sliding from player input. It runs on two host cadences: Frame
// once per rendered frame and FixedStep once per physics step.
package locomotion

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/physics"
)

// Body is the character's rigid body as owned by the physics host.
type Body interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
	AddForce(f mgl64.Vec3, mode physics.ForceMode)
}

// World answers the spatial queries the controller needs.
type World interface {
	Gravity() mgl64.Vec3
	CheckSphere(center mgl64.Vec3, radius float64, mask physics.LayerMask) bool
	Raycast(origin, dir mgl64.Vec3, maxDist float64) (physics.RaycastHit, bool)
}

// Anchor is the ground-check point, normally parented near the feet.
type Anchor interface {
	Position() mgl64.Vec3
}

// Animator receives named animation parameters.
type Animator interface {
	SetFloat(name string, v float64)
	SetBool(name string, v bool)
}

type Controller struct {
	body     Body
	world    World
	anchor   Anchor
	animator Animator
	tuning   Tuning

	jumpForce float64

	moveInput      mgl64.Vec2
	planarVelocity mgl64.Vec3
	smoothVelX     float64
	smoothVelZ     float64

	grounded      bool
	jumpRequested bool
	sliding       bool
	jumps         uint64

	source input.Source
	subs   []input.Subscription
}

type Option func(*Controller)

// WithAnimator binds an animation target. Without one the animation
// parameters are simply not pushed.
func WithAnimator(a Animator) Option {
	return func(c *Controller) {
		c.animator = a
	}
}

// New validates the collaborators and tuning and computes the jump launch
// speed from the world's gravity.
func New(body Body, world World, anchor Anchor, tuning Tuning, opts ...Option) (*Controller, error) {
	var errs []error
	if body == nil {
		errs = append(errs, ErrNilBody)
	}
	if world == nil {
		errs = append(errs, ErrNilWorld)
	}
	if anchor == nil {
		errs = append(errs, ErrNilAnchor)
	}
	if err := tuning.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("locomotion setup: %w", errors.Join(errs...))
	}

	c := &Controller{
		body:   body,
		world:  world,
		anchor: anchor,
		tuning: tuning,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.jumpForce = math.Sqrt(2 * math.Abs(world.Gravity().Y()) * tuning.JumpHeight)
	return c, nil
}

// Enable registers the input callbacks with src. A previously bound source
// is released first.
func (c *Controller) Enable(src input.Source) error {
	if src == nil {
		return ErrNilSource
	}
	c.Disable()

	c.source = src
	c.subs = []input.Subscription{
		src.Subscribe(input.ActionMove, input.Performed, func(ctx input.Context) {
			c.OnMoveInputChanged(ctx.Value)
		}),
		src.Subscribe(input.ActionMove, input.Canceled, func(input.Context) {
			c.OnMoveInputCanceled()
		}),
		src.Subscribe(input.ActionJump, input.Performed, func(input.Context) {
			c.OnJumpPressed()
		}),
	}
	return nil
}

// Disable removes every callback registered by Enable.
func (c *Controller) Disable() {
	if c.source == nil {
		return
	}
	for _, sub := range c.subs {
		c.source.Unsubscribe(sub)
	}
	c.source = nil
	c.subs = nil
}

// Halt drops the smoothed planar velocity, its spring state and any pending
// jump, so the next Frame starts from rest. Held move input is kept.
func (c *Controller) Halt() {
	c.planarVelocity = mgl64.Vec3{}
	c.smoothVelX = 0
	c.smoothVelZ = 0
	c.jumpRequested = false
	c.sliding = false
}

func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// State is a read-only snapshot for hosts and diagnostics.
type State struct {
	MoveInput      mgl64.Vec2
	PlanarVelocity mgl64.Vec3
	Grounded       bool
	JumpRequested  bool
	Sliding        bool
	JumpForce      float64

	// Jumps counts launches applied since construction.
	Jumps uint64
}

func (c *Controller) State() State {
	return State{
		MoveInput:      c.moveInput,
		PlanarVelocity: c.planarVelocity,
		Grounded:       c.grounded,
		JumpRequested:  c.jumpRequested,
		Sliding:        c.sliding,
		JumpForce:      c.jumpForce,
		Jumps:          c.jumps,
	}
}

// GroundProbe returns the sphere used by the ground test.
func (c *Controller) GroundProbe() (mgl64.Vec3, float64) {
	return c.anchor.Position(), c.tuning.GroundCheckRadius
}
