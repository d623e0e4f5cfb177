package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// inputDeadzone separates "commanding motion" from "coming to rest".
	inputDeadzone = 0.01

	// isometricYaw turns screen-relative input into world space for a camera
	// looking down the diagonal.
	isometricYaw = -math.Pi / 4

	minSmoothTime = 1e-4
)

var (
	isoCos = math.Cos(isometricYaw)
	isoSin = math.Sin(isometricYaw)

	worldUp      = mgl64.Vec3{0, 1, 0}
	worldForward = mgl64.Vec3{0, 0, 1}
)

// Frame advances the visual-frame half of the controller by dt seconds:
// smooths planar velocity toward the commanded one, writes it into the body,
// turns the body toward the move direction and pushes animation parameters.
func (c *Controller) Frame(dt float64) {
	dir := worldDirection(c.moveInput)
	magnitude := dir.Len()

	if magnitude > inputDeadzone {
		target := normalizeOrZero(dir).Mul(c.tuning.MoveSpeed * mgl64.Clamp(magnitude, 0, 1))
		c.planarVelocity[0] = SmoothDamp(c.planarVelocity.X(), target.X(), &c.smoothVelX, c.tuning.AccelerationTime, dt)
		c.planarVelocity[2] = SmoothDamp(c.planarVelocity.Z(), target.Z(), &c.smoothVelZ, c.tuning.AccelerationTime, dt)
	} else {
		c.planarVelocity[0] = SmoothDamp(c.planarVelocity.X(), 0, &c.smoothVelX, c.tuning.DecelerationTime, dt)
		c.planarVelocity[2] = SmoothDamp(c.planarVelocity.Z(), 0, &c.smoothVelZ, c.tuning.DecelerationTime, dt)
	}

	v := c.body.Velocity()
	c.body.SetVelocity(mgl64.Vec3{c.planarVelocity.X(), v.Y(), c.planarVelocity.Z()})

	if dir != (mgl64.Vec3{}) {
		target := LookRotation(dir)
		step := mgl64.Clamp(c.tuning.RotationSpeed*dt, 0, 1)
		c.body.SetRotation(Slerp(c.body.Rotation(), target, step))
	}

	c.updateAnimations(c.body.Velocity())
}

// worldDirection lifts a 2D input into the XZ plane and applies the fixed
// isometric yaw.
func worldDirection(in mgl64.Vec2) mgl64.Vec3 {
	x, z := in.X(), in.Y()
	return mgl64.Vec3{
		x*isoCos - z*isoSin,
		0,
		x*isoSin + z*isoCos,
	}
}

// SmoothDamp moves current toward target like a critically damped spring
// with the given smoothing time. velocity carries the spring state between
// calls. The result never overshoots target.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(minSmoothTime, smoothTime)
	omega := 2 / smoothTime

	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (target-current > 0) == (out > target) {
		out = target
		*velocity = (out - target) / dt
	}
	return out
}

// LookRotation is the yaw-only rotation that turns +Z toward dir.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	if dir.X() == 0 && dir.Z() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(math.Atan2(dir.X(), dir.Z()), worldUp)
}

// Slerp interpolates along the shorter arc with t clamped to [0,1].
func Slerp(from, to mgl64.Quat, t float64) mgl64.Quat {
	t = mgl64.Clamp(t, 0, 1)
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl64.QuatSlerp(from, to, t)
}

// Facing returns the horizontal direction a rotation looks toward.
func Facing(q mgl64.Quat) mgl64.Vec3 {
	f := q.Rotate(worldForward)
	return normalizeOrZero(mgl64.Vec3{f.X(), 0, f.Z()})
}

func normalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
