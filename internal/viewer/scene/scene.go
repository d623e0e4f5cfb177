// Package scene holds the display math of the viewer: camera projection,
// surface outlines and HUD text. It has no graphics dependency.
package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/sim"
)

// Camera looks straight down, turned 45 degrees so that "up" on the input
// device points up on screen.
type Camera struct {
	Center mgl64.Vec3
	// Scale is pixels per world unit.
	Scale  float64
	Width  int
	Height int
}

// Project maps a world point to screen pixels. Height lifts the point
// toward the top of the screen by half its elevation.
func (c Camera) Project(p mgl64.Vec3) (float32, float32) {
	d := p.Sub(c.Center)
	u := (d.X() - d.Z()) / math.Sqrt2
	v := (d.X() + d.Z()) / math.Sqrt2
	x := float64(c.Width)/2 + u*c.Scale
	y := float64(c.Height)/2 - (v+d.Y()*0.5)*c.Scale
	return float32(x), float32(y)
}

// Kind classifies a surface for colouring.
type Kind int

const (
	KindWalkable Kind = iota
	KindSteep
	KindNotGround
)

func (k Kind) String() string {
	switch k {
	case KindWalkable:
		return "walkable"
	case KindSteep:
		return "steep"
	default:
		return "not_ground"
	}
}

// Classify says how the controller will treat s under tuning.
func Classify(s physics.Surface, tuning locomotion.Tuning) Kind {
	if !tuning.GroundLayers.Contains(s.Layer()) {
		return KindNotGround
	}
	if s.NormalAt(0, 0).Y() < tuning.SlideThreshold {
		return KindSteep
	}
	return KindWalkable
}

// Outline returns the four top corners of a surface, in order around the
// edge. ok is false for surface types the viewer cannot draw.
func Outline(s physics.Surface) ([4]mgl64.Vec3, bool) {
	switch v := s.(type) {
	case *physics.Box:
		lo, hi := v.Min, v.Max
		y := hi.Y()
		return [4]mgl64.Vec3{
			{lo.X(), y, lo.Z()},
			{hi.X(), y, lo.Z()},
			{hi.X(), y, hi.Z()},
			{lo.X(), y, hi.Z()},
		}, true
	case *physics.Ramp:
		spec := v.Spec()
		c := spec.Center
		corners := [4][2]float64{
			{-spec.HalfX, -spec.HalfZ},
			{spec.HalfX, -spec.HalfZ},
			{spec.HalfX, spec.HalfZ},
			{-spec.HalfX, spec.HalfZ},
		}
		var out [4]mgl64.Vec3
		for i, k := range corners {
			x, z := c.X()+k[0], c.Z()+k[1]
			h, _ := v.HeightAt(x, z)
			out[i] = mgl64.Vec3{x, h, z}
		}
		return out, true
	default:
		return [4]mgl64.Vec3{}, false
	}
}

// StickVector converts raw stick axes (y down) into a move vector with a
// radial dead zone. The live range is rescaled to start at zero.
func StickVector(x, y, deadzone float64) mgl64.Vec2 {
	v := mgl64.Vec2{x, -y}
	l := v.Len()
	if l <= deadzone || deadzone >= 1 {
		return mgl64.Vec2{}
	}
	scaled := math.Min((l-deadzone)/(1-deadzone), 1)
	return v.Mul(scaled / l)
}

// HUDLines is the text block drawn in the corner of the viewer.
func HUDLines(snap sim.Snapshot, tps float64) []string {
	st := snap.Controller
	return []string{
		fmt.Sprintf("pos   %6.2f %6.2f %6.2f", snap.Position.X(), snap.Position.Y(), snap.Position.Z()),
		fmt.Sprintf("vel   %6.2f %6.2f %6.2f", snap.Velocity.X(), snap.Velocity.Y(), snap.Velocity.Z()),
		fmt.Sprintf("speed %5.2f  anim %s", snap.Speed, snap.Anim),
		fmt.Sprintf("ground %-5t slide %-5t jumps %d", st.Grounded, st.Sliding, st.Jumps),
		fmt.Sprintf("input %5.2f %5.2f  tps %.0f", st.MoveInput.X(), st.MoveInput.Y(), tps),
		"WASD/arrows/stick move  Space/A jump  R respawn  Esc quit",
	}
}
