// Package sim assembles a playable session from configuration: a reference
// physics world, one character body, its controller and the host loop.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/animation"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/host"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/physics"
)

var ErrNilConfig = errors.New("config is nil")

type Session struct {
	Config     *config.Config
	World      *physics.World
	Body       *physics.Rigidbody
	Anchor     *physics.Anchor
	Animator   *animation.Parameters
	Input      *input.Map
	Keys       *input.Composite
	Controller *locomotion.Controller
	Loop       *host.Loop

	stats stats
}

type stats struct {
	airborneSteps uint64
	slideSteps    uint64
	maxFeetY      float64
	distance      float64
	lastPos       mgl64.Vec3
}

// Build wires a session in dependency order. The controller's fixed step is
// registered ahead of the world step so its velocity writes are integrated
// in the same step.
func Build(cfg *config.Config) (*Session, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tuning, err := tuningFrom(cfg.Locomotion)
	if err != nil {
		return nil, err
	}
	world, err := buildWorld(cfg.World)
	if err != nil {
		return nil, err
	}

	ch := cfg.Character
	body, err := physics.NewRigidbody(vec(ch.Spawn), ch.Mass, ch.HalfHeight)
	if err != nil {
		return nil, fmt.Errorf("build character: %w", err)
	}
	world.AddBody(body)
	anchor, err := physics.NewAnchor(body, vec(ch.AnchorOffset))
	if err != nil {
		return nil, fmt.Errorf("build character: %w", err)
	}

	animator := animation.NewParameters()
	ctrl, err := locomotion.New(body, world, anchor, tuning, locomotion.WithAnimator(animator))
	if err != nil {
		return nil, err
	}

	inputs := input.NewMap()
	if err := ctrl.Enable(inputs); err != nil {
		return nil, err
	}
	inputs.Enable()

	loop, err := host.New(cfg.Loop.FixedDelta, cfg.Loop.MaxDelta)
	if err != nil {
		ctrl.Disable()
		return nil, err
	}

	s := &Session{
		Config:     cfg,
		World:      world,
		Body:       body,
		Anchor:     anchor,
		Animator:   animator,
		Input:      inputs,
		Keys:       input.NewComposite(inputs),
		Controller: ctrl,
		Loop:       loop,
	}
	s.resetStats()

	loop.OnFixedStep(ctrl.FixedStep)
	loop.OnFixedStep(world.Step)
	loop.OnFixedStep(s.observeStep)
	loop.OnFrame(ctrl.Frame)

	slog.Info("Session ready",
		"surfaces", len(world.Surfaces()),
		"spawn", body.Position(),
		"jump_force", ctrl.State().JumpForce,
		"ground_layers", cfg.Locomotion.GroundLayers,
	)
	return s, nil
}

// Close detaches the controller from input.
func (s *Session) Close() {
	s.Input.Disable()
	s.Controller.Disable()
}

// Teleport moves the character and stops it.
func (s *Session) Teleport(p mgl64.Vec3) {
	s.Body.SetPosition(p)
	s.Body.SetVelocity(mgl64.Vec3{})
	s.Controller.Halt()
	s.stats.lastPos = p
	slog.Info("Teleported", "pos", p)
}

func (s *Session) observeStep(float64) {
	st := s.Controller.State()
	if !st.Grounded {
		s.stats.airborneSteps++
	}
	if st.Sliding {
		s.stats.slideSteps++
	}

	pos := s.Body.Position()
	s.stats.maxFeetY = math.Max(s.stats.maxFeetY, s.Body.Feet().Y())
	s.stats.distance += mgl64.Vec2{pos.X() - s.stats.lastPos.X(), pos.Z() - s.stats.lastPos.Z()}.Len()
	s.stats.lastPos = pos
}

func (s *Session) resetStats() {
	s.stats = stats{
		maxFeetY: s.Body.Feet().Y(),
		lastPos:  s.Body.Position(),
	}
}

// Snapshot is what hosts display.
type Snapshot struct {
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
	Facing     mgl64.Vec3
	Controller locomotion.State
	Anim       string
	Speed      float64
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Position:   s.Body.Position(),
		Velocity:   s.Body.Velocity(),
		Facing:     locomotion.Facing(s.Body.Rotation()),
		Controller: s.Controller.State(),
		Anim:       s.Animator.State(),
		Speed:      s.Animator.Speed(),
	}
}

func tuningFrom(lc config.LocomotionConfig) (locomotion.Tuning, error) {
	mask, err := physics.MaskOf(lc.GroundLayers...)
	if err != nil {
		return locomotion.Tuning{}, fmt.Errorf("locomotion.ground_layers: %w", err)
	}
	return locomotion.Tuning{
		MoveSpeed:         lc.MoveSpeed,
		RotationSpeed:     lc.RotationSpeed,
		AccelerationTime:  lc.AccelerationTime,
		DecelerationTime:  lc.DecelerationTime,
		JumpHeight:        lc.JumpHeight,
		GroundCheckRadius: lc.GroundCheckRadius,
		GroundLayers:      mask,
		SlideThreshold:    lc.SlideThreshold,
		SlideForce:        lc.SlideForce,
		MaxSlideSpeed:     lc.MaxSlideSpeed,
	}, nil
}

func buildWorld(wc config.WorldConfig) (*physics.World, error) {
	world := physics.NewWorld(mgl64.Vec3{0, wc.Gravity, 0})
	var errs []error
	for _, sc := range wc.Surfaces {
		surface, err := buildSurface(sc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		world.AddSurface(surface)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("build world: %w", errors.Join(errs...))
	}
	return world, nil
}

func buildSurface(sc config.SurfaceConfig) (physics.Surface, error) {
	layer, err := physics.LayerByName(sc.Layer)
	if err != nil {
		return nil, fmt.Errorf("surface %q: %w", sc.Name, err)
	}
	switch sc.Kind {
	case config.SurfaceBox:
		box, err := physics.NewBox(sc.Name, layer, vec(sc.Min), vec(sc.Max))
		if err != nil {
			return nil, err
		}
		return box, nil
	case config.SurfaceRamp:
		ramp, err := physics.NewRamp(physics.RampSpec{
			Name:           sc.Name,
			Layer:          layer,
			Center:         vec(sc.Center),
			HalfX:          sc.HalfX,
			HalfZ:          sc.HalfZ,
			AngleDeg:       sc.Angle,
			DownhillYawDeg: sc.DownhillYaw,
		})
		if err != nil {
			return nil, err
		}
		return ramp, nil
	default:
		return nil, fmt.Errorf("%w: surface %q kind %q", physics.ErrInvalidSurface, sc.Name, sc.Kind)
	}
}

func vec(v config.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
