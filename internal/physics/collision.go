package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var up = mgl64.Vec3{0, 1, 0}

type RaycastHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Surface  string
}

// Surface is static level geometry. Only its walkable top side takes part in
// support resolution.
type Surface interface {
	Name() string
	Layer() Layer
	HeightAt(x, z float64) (float64, bool)
	NormalAt(x, z float64) mgl64.Vec3
	OverlapsSphere(center mgl64.Vec3, radius float64) bool
	Raycast(origin, dir mgl64.Vec3, maxDist float64) (RaycastHit, bool)
}

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func (a AABB) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(p.X(), a.Min.X(), a.Max.X()),
		mgl64.Clamp(p.Y(), a.Min.Y(), a.Max.Y()),
		mgl64.Clamp(p.Z(), a.Min.Z(), a.Max.Z()),
	}
}

// Box is an axis-aligned solid such as a floor slab or platform.
type Box struct {
	name  string
	layer Layer
	AABB
}

func NewBox(name string, layer Layer, lo, hi mgl64.Vec3) (*Box, error) {
	for i := 0; i < 3; i++ {
		if lo[i] >= hi[i] {
			return nil, fmt.Errorf("%w: box %q min %v not below max %v", ErrInvalidSurface, name, lo, hi)
		}
	}
	return &Box{name: name, layer: layer, AABB: AABB{Min: lo, Max: hi}}, nil
}

func (b *Box) Name() string { return b.name }
func (b *Box) Layer() Layer { return b.layer }

func (b *Box) HeightAt(x, z float64) (float64, bool) {
	if x < b.Min.X() || x > b.Max.X() || z < b.Min.Z() || z > b.Max.Z() {
		return 0, false
	}
	return b.Max.Y(), true
}

func (b *Box) NormalAt(_, _ float64) mgl64.Vec3 {
	return up
}

func (b *Box) OverlapsSphere(center mgl64.Vec3, radius float64) bool {
	d := b.ClosestPoint(center).Sub(center)
	return d.Dot(d) <= radius*radius
}

func (b *Box) Raycast(origin, dir mgl64.Vec3, maxDist float64) (RaycastHit, bool) {
	tMin, tMax := 0.0, maxDist
	var normal mgl64.Vec3

	for axis := 0; axis < 3; axis++ {
		o, d := origin[axis], dir[axis]
		lo, hi := b.Min[axis], b.Max[axis]
		if math.Abs(d) < CollisionAxisTolerance {
			if o < lo || o > hi {
				return RaycastHit{}, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tMin {
			tMin = t1
			normal = mgl64.Vec3{}
			normal[axis] = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return RaycastHit{}, false
		}
	}

	// Rays starting inside the box report nothing.
	if normal == (mgl64.Vec3{}) {
		return RaycastHit{}, false
	}
	return RaycastHit{
		Point:    origin.Add(dir.Mul(tMin)),
		Normal:   normal,
		Distance: tMin,
		Surface:  b.name,
	}, true
}

type RampSpec struct {
	Name  string
	Layer Layer
	// Center is the XZ middle of the ramp; Y is the surface height there.
	Center mgl64.Vec3
	HalfX  float64
	HalfZ  float64
	// AngleDeg is the incline against the horizontal.
	AngleDeg float64
	// DownhillYawDeg is the heading the surface descends toward, 0 = +Z, 90 = +X.
	DownhillYawDeg float64
}

// Ramp is a thin inclined plane bounded by an axis-aligned XZ rectangle.
type Ramp struct {
	spec     RampSpec
	downhill mgl64.Vec3
	normal   mgl64.Vec3
	tan      float64
}

func NewRamp(spec RampSpec) (*Ramp, error) {
	if spec.HalfX <= 0 || spec.HalfZ <= 0 {
		return nil, fmt.Errorf("%w: ramp %q needs positive extents", ErrInvalidSurface, spec.Name)
	}
	if spec.AngleDeg < 0 || spec.AngleDeg >= 90 {
		return nil, fmt.Errorf("%w: ramp %q angle %.2f outside [0,90)", ErrInvalidSurface, spec.Name, spec.AngleDeg)
	}

	theta := mgl64.DegToRad(spec.AngleDeg)
	yaw := mgl64.DegToRad(spec.DownhillYawDeg)
	downhill := mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
	normal := mgl64.Vec3{
		downhill.X() * math.Sin(theta),
		math.Cos(theta),
		downhill.Z() * math.Sin(theta),
	}

	return &Ramp{
		spec:     spec,
		downhill: downhill,
		normal:   normal,
		tan:      math.Tan(theta),
	}, nil
}

func (r *Ramp) Name() string   { return r.spec.Name }
func (r *Ramp) Layer() Layer   { return r.spec.Layer }
func (r *Ramp) Spec() RampSpec { return r.spec }

// Downhill is the horizontal direction the surface descends toward.
func (r *Ramp) Downhill() mgl64.Vec3 { return r.downhill }

func (r *Ramp) contains(x, z float64) bool {
	return math.Abs(x-r.spec.Center.X()) <= r.spec.HalfX+CollisionAxisTolerance &&
		math.Abs(z-r.spec.Center.Z()) <= r.spec.HalfZ+CollisionAxisTolerance
}

func (r *Ramp) height(x, z float64) float64 {
	dx := x - r.spec.Center.X()
	dz := z - r.spec.Center.Z()
	return r.spec.Center.Y() - r.tan*(dx*r.downhill.X()+dz*r.downhill.Z())
}

func (r *Ramp) HeightAt(x, z float64) (float64, bool) {
	if !r.contains(x, z) {
		return 0, false
	}
	return r.height(x, z), true
}

func (r *Ramp) NormalAt(_, _ float64) mgl64.Vec3 {
	return r.normal
}

func (r *Ramp) OverlapsSphere(center mgl64.Vec3, radius float64) bool {
	dist := r.normal.Dot(center.Sub(r.spec.Center))
	if math.Abs(dist) > radius {
		return false
	}
	foot := center.Sub(r.normal.Mul(dist))
	if r.contains(foot.X(), foot.Z()) {
		return true
	}

	// Sphere straddles the border: test the nearest point on the bounded plane.
	x := mgl64.Clamp(center.X(), r.spec.Center.X()-r.spec.HalfX, r.spec.Center.X()+r.spec.HalfX)
	z := mgl64.Clamp(center.Z(), r.spec.Center.Z()-r.spec.HalfZ, r.spec.Center.Z()+r.spec.HalfZ)
	edge := mgl64.Vec3{x, r.height(x, z), z}
	d := edge.Sub(center)
	return d.Dot(d) <= radius*radius
}

func (r *Ramp) Raycast(origin, dir mgl64.Vec3, maxDist float64) (RaycastHit, bool) {
	denom := r.normal.Dot(dir)
	if denom > -CollisionAxisTolerance {
		return RaycastHit{}, false
	}
	t := r.normal.Dot(r.spec.Center.Sub(origin)) / denom
	if t < 0 || t > maxDist {
		return RaycastHit{}, false
	}
	point := origin.Add(dir.Mul(t))
	if !r.contains(point.X(), point.Z()) {
		return RaycastHit{}, false
	}
	return RaycastHit{
		Point:    point,
		Normal:   r.normal,
		Distance: t,
		Surface:  r.spec.Name,
	}, true
}
