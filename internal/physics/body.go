package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ForceMode selects how AddForce changes velocity, mirroring the usual
// engine conventions.
type ForceMode uint8

const (
	// ForceForce is a continuous force scaled by mass and step time.
	ForceForce ForceMode = iota
	// ForceAcceleration is a continuous acceleration that ignores mass.
	ForceAcceleration
	// ForceImpulse is an instant change scaled by mass.
	ForceImpulse
	// ForceVelocityChange is an instant change that ignores mass.
	ForceVelocityChange
)

func (m ForceMode) String() string {
	switch m {
	case ForceForce:
		return "force"
	case ForceAcceleration:
		return "acceleration"
	case ForceImpulse:
		return "impulse"
	case ForceVelocityChange:
		return "velocity_change"
	default:
		return fmt.Sprintf("force_mode(%d)", uint8(m))
	}
}

// Rigidbody is a vertical capsule reduced to its centre point. Rotation is
// never integrated, only set by its owner.
type Rigidbody struct {
	position   mgl64.Vec3
	velocity   mgl64.Vec3
	rotation   mgl64.Quat
	mass       float64
	halfHeight float64

	pendingAccel mgl64.Vec3
	pendingDelta mgl64.Vec3
	onGround     bool
	groundNormal mgl64.Vec3
}

func NewRigidbody(position mgl64.Vec3, mass, halfHeight float64) (*Rigidbody, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("%w: mass %.3f must be positive", ErrInvalidBody, mass)
	}
	if halfHeight <= 0 {
		return nil, fmt.Errorf("%w: half height %.3f must be positive", ErrInvalidBody, halfHeight)
	}
	return &Rigidbody{
		position:   position,
		rotation:   mgl64.QuatIdent(),
		mass:       mass,
		halfHeight: halfHeight,
	}, nil
}

func (b *Rigidbody) Position() mgl64.Vec3 { return b.position }

func (b *Rigidbody) SetPosition(p mgl64.Vec3) {
	b.position = p
}

func (b *Rigidbody) Velocity() mgl64.Vec3 { return b.velocity }

func (b *Rigidbody) SetVelocity(v mgl64.Vec3) {
	b.velocity = v
}

func (b *Rigidbody) Rotation() mgl64.Quat { return b.rotation }

func (b *Rigidbody) SetRotation(q mgl64.Quat) {
	b.rotation = q.Normalize()
}

func (b *Rigidbody) Mass() float64 { return b.mass }

func (b *Rigidbody) HalfHeight() float64 { return b.halfHeight }

// Feet returns the bottom of the capsule.
func (b *Rigidbody) Feet() mgl64.Vec3 {
	return b.position.Sub(mgl64.Vec3{0, b.halfHeight, 0})
}

// OnGround reports whether the last Step rested the body on a surface.
func (b *Rigidbody) OnGround() bool { return b.onGround }

// GroundNormal is the normal of the surface the body last rested on.
func (b *Rigidbody) GroundNormal() mgl64.Vec3 { return b.groundNormal }

func (b *Rigidbody) AddForce(f mgl64.Vec3, mode ForceMode) {
	switch mode {
	case ForceForce:
		b.pendingAccel = b.pendingAccel.Add(f.Mul(1 / b.mass))
	case ForceAcceleration:
		b.pendingAccel = b.pendingAccel.Add(f)
	case ForceImpulse:
		b.pendingDelta = b.pendingDelta.Add(f.Mul(1 / b.mass))
	case ForceVelocityChange:
		b.pendingDelta = b.pendingDelta.Add(f)
	}
}

// Anchor is a point attached to a body at a fixed offset, like a child
// transform parented to the character.
type Anchor struct {
	body   *Rigidbody
	offset mgl64.Vec3
}

func NewAnchor(body *Rigidbody, offset mgl64.Vec3) (*Anchor, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: anchor needs a body", ErrInvalidBody)
	}
	return &Anchor{body: body, offset: offset}, nil
}

func (a *Anchor) Offset() mgl64.Vec3 { return a.offset }

func (a *Anchor) Position() mgl64.Vec3 {
	return a.body.Position().Add(a.offset)
}
