package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World owns static surfaces and the bodies it integrates.
type World struct {
	gravity  mgl64.Vec3
	surfaces []Surface
	bodies   []*Rigidbody
}

func NewWorld(gravity mgl64.Vec3) *World {
	return &World{gravity: gravity}
}

func (w *World) Gravity() mgl64.Vec3 { return w.gravity }

func (w *World) AddSurface(s Surface) {
	if s == nil {
		return
	}
	w.surfaces = append(w.surfaces, s)
}

func (w *World) Surfaces() []Surface {
	return append([]Surface(nil), w.surfaces...)
}

func (w *World) AddBody(b *Rigidbody) {
	if b == nil {
		return
	}
	w.bodies = append(w.bodies, b)
}

// CheckSphere reports whether any surface on a layer in mask overlaps the sphere.
func (w *World) CheckSphere(center mgl64.Vec3, radius float64, mask LayerMask) bool {
	for _, s := range w.surfaces {
		if !mask.Contains(s.Layer()) {
			continue
		}
		if s.OverlapsSphere(center, radius) {
			return true
		}
	}
	return false
}

// Raycast returns the nearest hit on the default raycast layers.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64) (RaycastHit, bool) {
	return w.RaycastMask(origin, dir, maxDist, DefaultRaycastLayers)
}

func (w *World) RaycastMask(origin, dir mgl64.Vec3, maxDist float64, mask LayerMask) (RaycastHit, bool) {
	length := dir.Len()
	if length < CollisionAxisTolerance || maxDist <= 0 {
		return RaycastHit{}, false
	}
	dir = dir.Mul(1 / length)

	var best RaycastHit
	found := false
	for _, s := range w.surfaces {
		if !mask.Contains(s.Layer()) {
			continue
		}
		hit, ok := s.Raycast(origin, dir, maxDist)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// Step integrates every body by dt: pending forces and gravity first, then
// position, then support resolution against the surfaces below the feet.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		w.stepBody(b, dt)
	}
}

func (w *World) stepBody(b *Rigidbody, dt float64) {
	prevFeetY := b.Feet().Y()

	// Support cancels gravity for a resting body; it resumes once the body
	// loses contact.
	gravity := w.gravity
	if b.onGround {
		gravity = mgl64.Vec3{}
	}

	b.velocity = b.velocity.Add(b.pendingDelta)
	b.velocity = b.velocity.Add(gravity.Add(b.pendingAccel).Mul(dt))
	b.pendingAccel = mgl64.Vec3{}
	b.pendingDelta = mgl64.Vec3{}

	b.position = b.position.Add(b.velocity.Mul(dt))
	b.onGround = false

	feet := b.Feet()
	support, normal, ok := w.supportBelow(feet.X(), feet.Z(), math.Max(prevFeetY, feet.Y())+StepHeight)
	if ok && feet.Y() <= support+CollisionAxisTolerance {
		b.position[1] = support + b.halfHeight
		if b.velocity.Y() < 0 {
			b.velocity[1] = 0
		}
		b.onGround = true
		b.groundNormal = normal
	}
	zeroResidualVelocity(&b.velocity)
}

// supportBelow finds the highest walkable surface under (x, z) not above ceiling.
func (w *World) supportBelow(x, z, ceiling float64) (float64, mgl64.Vec3, bool) {
	best := math.Inf(-1)
	var normal mgl64.Vec3
	found := false
	for _, s := range w.surfaces {
		h, ok := s.HeightAt(x, z)
		if !ok || h > ceiling {
			continue
		}
		if h > best {
			best = h
			normal = s.NormalAt(x, z)
			found = true
		}
	}
	return best, normal, found
}

func zeroResidualVelocity(v *mgl64.Vec3) {
	for i := range v {
		if math.Abs(v[i]) < MinimumResidualSpeed {
			v[i] = 0
		}
	}
}
