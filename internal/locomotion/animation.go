package locomotion

import "github.com/go-gl/mathgl/mgl64"

const (
	ParamSpeed      = "Speed"
	ParamIsGrounded = "IsGrounded"
	ParamIsJumping  = "IsJumping"
	ParamIsWalking  = "IsWalking"

	walkSpeedThreshold = 0.1
)

// updateAnimations pushes the locomotion parameters. IsJumping mirrors
// "not grounded", so falling off a ledge also reads as jumping.
func (c *Controller) updateAnimations(velocity mgl64.Vec3) {
	if c.animator == nil {
		return
	}
	speed := mgl64.Vec2{velocity.X(), velocity.Z()}.Len()

	c.animator.SetFloat(ParamSpeed, speed)
	c.animator.SetBool(ParamIsGrounded, c.grounded)
	c.animator.SetBool(ParamIsJumping, !c.grounded)
	c.animator.SetBool(ParamIsWalking, speed > walkSpeedThreshold)
}
