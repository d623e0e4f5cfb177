package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	ModeScript  = "script"
	ModeConsole = "console"
	ModeViewer  = "viewer"

	SurfaceBox  = "box"
	SurfaceRamp = "ramp"

	EventMove    = "move"
	EventRelease = "release"
	EventJump    = "jump"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Mode       string           `yaml:"mode"`
	Logging    LoggingConfig    `yaml:"logging"`
	Locomotion LocomotionConfig `yaml:"locomotion"`
	Character  CharacterConfig  `yaml:"character"`
	World      WorldConfig      `yaml:"world"`
	Loop       LoopConfig       `yaml:"loop"`
	Script     ScriptConfig     `yaml:"script"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type LocomotionConfig struct {
	MoveSpeed         float64  `yaml:"move_speed"`
	RotationSpeed     float64  `yaml:"rotation_speed"`
	AccelerationTime  float64  `yaml:"acceleration_time"`
	DecelerationTime  float64  `yaml:"deceleration_time"`
	JumpHeight        float64  `yaml:"jump_height"`
	GroundCheckRadius float64  `yaml:"ground_check_radius"`
	GroundLayers      []string `yaml:"ground_layers"`
	SlideThreshold    float64  `yaml:"slide_threshold"`
	SlideForce        float64  `yaml:"slide_force"`
	MaxSlideSpeed     float64  `yaml:"max_slide_speed"`
}

type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type CharacterConfig struct {
	Spawn        Vec3    `yaml:"spawn"`
	HalfHeight   float64 `yaml:"half_height"`
	Mass         float64 `yaml:"mass"`
	AnchorOffset Vec3    `yaml:"anchor_offset"`
}

type WorldConfig struct {
	Gravity  float64         `yaml:"gravity"`
	Surfaces []SurfaceConfig `yaml:"surfaces"`
}

// SurfaceConfig describes one static surface. Boxes use Min and Max, ramps
// use Center, HalfX, HalfZ, Angle and DownhillYaw (degrees).
type SurfaceConfig struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Layer string `yaml:"layer"`

	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`

	Center      Vec3    `yaml:"center"`
	HalfX       float64 `yaml:"half_x"`
	HalfZ       float64 `yaml:"half_z"`
	Angle       float64 `yaml:"angle"`
	DownhillYaw float64 `yaml:"downhill_yaw"`
}

type LoopConfig struct {
	FixedDelta float64 `yaml:"fixed_delta"`
	MaxDelta   float64 `yaml:"max_delta"`
	FrameRate  int     `yaml:"frame_rate"`
	// FrameJitter is the relative spread of scripted frame times, in [0,1).
	FrameJitter float64 `yaml:"frame_jitter"`
	Seed        int64   `yaml:"seed"`
}

type ScriptConfig struct {
	Duration      float64       `yaml:"duration"`
	TraceInterval float64       `yaml:"trace_interval"`
	Events        []ScriptEvent `yaml:"events"`
}

// ScriptEvent fires an input action at a simulated time. X and Y are the
// move vector for "move" events.
type ScriptEvent struct {
	At     float64 `yaml:"at"`
	Action string  `yaml:"action"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

// Load reads path over the defaults and validates the result. Fields absent
// from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default is a playable scene: a floor, a walkable 30 degree ramp and a
// 60 degree ramp steep enough to slide on.
func Default() *Config {
	return &Config{
		Mode: ModeScript,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Locomotion: LocomotionConfig{
			MoveSpeed:         5,
			RotationSpeed:     12,
			AccelerationTime:  0.2,
			DecelerationTime:  0.3,
			JumpHeight:        1,
			GroundCheckRadius: 0.3,
			GroundLayers:      []string{"ground"},
			SlideThreshold:    0.6,
			SlideForce:        5,
			MaxSlideSpeed:     10,
		},
		Character: CharacterConfig{
			Spawn:        Vec3{0, 1, 0},
			HalfHeight:   1,
			Mass:         1,
			AnchorOffset: Vec3{0, -0.9, 0},
		},
		World: WorldConfig{
			Gravity: -9.81,
			Surfaces: []SurfaceConfig{
				{Name: "floor", Kind: SurfaceBox, Layer: "ground", Min: Vec3{-20, -1, -20}, Max: Vec3{20, 0, 20}},
				{Name: "gentle_ramp", Kind: SurfaceRamp, Layer: "ground", Center: Vec3{-8, 1.5, 8}, HalfX: 2, HalfZ: 3, Angle: 30, DownhillYaw: 180},
				{Name: "steep_ramp", Kind: SurfaceRamp, Layer: "ground", Center: Vec3{8, 2, -8}, HalfX: 2, HalfZ: 1.5, Angle: 60, DownhillYaw: 270},
			},
		},
		Loop: LoopConfig{
			FixedDelta:  0.02,
			MaxDelta:    0.1,
			FrameRate:   60,
			FrameJitter: 0.2,
			Seed:        1,
		},
		Script: ScriptConfig{
			Duration:      6,
			TraceInterval: 0.5,
			Events: []ScriptEvent{
				{At: 0.5, Action: EventMove, X: 0, Y: 1},
				{At: 2, Action: EventJump},
				{At: 3, Action: EventMove, X: 1, Y: 0},
				{At: 4, Action: EventRelease},
				{At: 5, Action: EventJump},
			},
		},
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(slices.Contains([]string{ModeScript, ModeConsole, ModeViewer}, c.Mode), "mode %q must be script, console or viewer", c.Mode)
	check(slices.Contains([]string{"", "debug", "info", "warn", "error"}, c.Logging.Level), "logging.level %q unknown", c.Logging.Level)
	check(slices.Contains([]string{"", "console", "text", "json"}, c.Logging.Format), "logging.format %q unknown", c.Logging.Format)

	l := c.Locomotion
	check(nonNegative(l.MoveSpeed), "locomotion.move_speed %v must be >= 0", l.MoveSpeed)
	check(nonNegative(l.RotationSpeed), "locomotion.rotation_speed %v must be >= 0", l.RotationSpeed)
	check(nonNegative(l.AccelerationTime), "locomotion.acceleration_time %v must be >= 0", l.AccelerationTime)
	check(nonNegative(l.DecelerationTime), "locomotion.deceleration_time %v must be >= 0", l.DecelerationTime)
	check(nonNegative(l.JumpHeight), "locomotion.jump_height %v must be >= 0", l.JumpHeight)
	check(positive(l.GroundCheckRadius), "locomotion.ground_check_radius %v must be > 0", l.GroundCheckRadius)
	check(len(l.GroundLayers) > 0, "locomotion.ground_layers is empty")
	check(nonNegative(l.SlideThreshold) && l.SlideThreshold <= 1, "locomotion.slide_threshold %v outside [0,1]", l.SlideThreshold)
	check(nonNegative(l.SlideForce), "locomotion.slide_force %v must be >= 0", l.SlideForce)
	check(nonNegative(l.MaxSlideSpeed), "locomotion.max_slide_speed %v must be >= 0", l.MaxSlideSpeed)

	check(positive(c.Character.HalfHeight), "character.half_height %v must be > 0", c.Character.HalfHeight)
	check(positive(c.Character.Mass), "character.mass %v must be > 0", c.Character.Mass)

	check(finite(c.World.Gravity) && c.World.Gravity < 0, "world.gravity %v must point down", c.World.Gravity)
	for i, s := range c.World.Surfaces {
		check(s.Name != "", "world.surfaces[%d] has no name", i)
		switch s.Kind {
		case SurfaceBox:
			check(s.Min.X < s.Max.X && s.Min.Y < s.Max.Y && s.Min.Z < s.Max.Z, "world.surfaces[%d] %q min not below max", i, s.Name)
		case SurfaceRamp:
			check(positive(s.HalfX) && positive(s.HalfZ), "world.surfaces[%d] %q needs positive half_x and half_z", i, s.Name)
			check(nonNegative(s.Angle) && s.Angle < 90, "world.surfaces[%d] %q angle %v outside [0,90)", i, s.Name, s.Angle)
		default:
			check(false, "world.surfaces[%d] %q kind %q must be box or ramp", i, s.Name, s.Kind)
		}
	}

	check(positive(c.Loop.FixedDelta), "loop.fixed_delta %v must be > 0", c.Loop.FixedDelta)
	check(c.Loop.MaxDelta >= c.Loop.FixedDelta, "loop.max_delta %v is below fixed_delta %v", c.Loop.MaxDelta, c.Loop.FixedDelta)
	check(c.Loop.FrameRate > 0, "loop.frame_rate %d must be > 0", c.Loop.FrameRate)
	check(nonNegative(c.Loop.FrameJitter) && c.Loop.FrameJitter < 1, "loop.frame_jitter %v outside [0,1)", c.Loop.FrameJitter)

	check(nonNegative(c.Script.Duration), "script.duration %v must be >= 0", c.Script.Duration)
	check(nonNegative(c.Script.TraceInterval), "script.trace_interval %v must be >= 0", c.Script.TraceInterval)
	for i, e := range c.Script.Events {
		check(nonNegative(e.At), "script.events[%d] at %v must be >= 0", i, e.At)
		check(slices.Contains([]string{EventMove, EventRelease, EventJump}, e.Action), "script.events[%d] action %q unknown", i, e.Action)
	}

	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return finite(v) && v >= 0
}

func positive(v float64) bool {
	return finite(v) && v > 0
}
