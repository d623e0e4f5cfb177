package locomotion

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/stride/internal/physics"
)

// slideProbeDistance is how far below the body the slope ray reaches.
const slideProbeDistance = 1.5

var worldDown = mgl64.Vec3{0, -1, 0}

// FixedStep runs the physics-step half of the controller: ground test, then
// slope sliding, then jump consumption, in that order.
func (c *Controller) FixedStep(_ float64) {
	wasGrounded := c.grounded
	c.grounded = c.world.CheckSphere(c.anchor.Position(), c.tuning.GroundCheckRadius, c.tuning.GroundLayers)
	if c.grounded != wasGrounded {
		slog.Debug("Ground contact changed", "grounded", c.grounded)
	}

	c.sliding = false
	if c.grounded {
		c.checkForSliding()
	}

	if !c.jumpRequested {
		return
	}
	// The request belongs to this step only; if the ground vanished since the
	// press it is dropped rather than carried into the next landing.
	c.jumpRequested = false
	if !c.grounded {
		slog.Debug("Jump request dropped, left ground before launch")
		return
	}
	v := c.body.Velocity()
	c.body.SetVelocity(mgl64.Vec3{v.X(), c.jumpForce, v.Z()})
	c.grounded = false
	c.jumps++
	slog.Debug("Jump applied", "force", c.jumpForce)
}

func (c *Controller) checkForSliding() {
	hit, ok := c.world.Raycast(c.body.Position(), worldDown, slideProbeDistance)
	if !ok {
		return
	}
	slopeCos, ok := slopeCosine(hit.Normal)
	if !ok || slopeCos >= c.tuning.SlideThreshold {
		return
	}

	slideDir := normalizeOrZero(mgl64.Vec3{hit.Normal.X(), 0, hit.Normal.Z()})
	v := c.body.Velocity()
	planarSpeed := mgl64.Vec2{v.X(), v.Z()}.Len()
	if planarSpeed >= c.tuning.MaxSlideSpeed {
		return
	}
	c.body.AddForce(slideDir.Mul(c.tuning.SlideForce), physics.ForceAcceleration)
	c.sliding = true
}

// slopeCosine is the cosine of the angle between a surface normal and world
// up. A zero normal has no defined slope.
func slopeCosine(normal mgl64.Vec3) (float64, bool) {
	n := normalizeOrZero(normal)
	if n == (mgl64.Vec3{}) {
		return 0, false
	}
	angle := math.Acos(mgl64.Clamp(n.Dot(worldUp), -1, 1))
	return math.Cos(angle), true
}
