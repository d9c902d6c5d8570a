package mesh

import (
	gomath "math"

	"github.com/Faultbox/floorplan/pkg/math"
)

// Ray is a half-line with origin and normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box Bounds) (t float64, hit bool) {
	tmin := -gomath.MaxFloat64
	tmax := gomath.MaxFloat64

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] != 0 {
			t1 := (lo[axis] - origin[axis]) / dir[axis]
			t2 := (hi[axis] - origin[axis]) / dir[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			tmin = gomath.Max(tmin, t1)
			tmax = gomath.Min(tmax, t2)
		} else if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle runs the Möller–Trumbore test against triangle abc.
// Returns the distance along the ray for hits in front of the origin.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float64, hit bool) {
	const eps = 1e-12

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if gomath.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(q) * inv
	if t <= eps {
		return 0, false
	}
	return t, true
}

// parityDirection is off-axis so parity rays miss the shared edges of
// axis-aligned geometry.
var parityDirection = math.Vec3{X: 0.5772156649, Y: 0.1414213562, Z: 0.8040997158}

// ContainsPoint reports whether p lies inside the closed mesh placed with t,
// by counting crossings of a ray cast from p.
func (m *Mesh) ContainsPoint(p math.Vec3, t math.Mat4) bool {
	if !m.HasGeometry() {
		return false
	}
	if !m.WorldBounds(t).Contains(p) {
		return false
	}

	ray := NewRay(p, parityDirection)
	crossings := 0
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		a := t.TransformVec3(tri[0])
		b := t.TransformVec3(tri[1])
		c := t.TransformVec3(tri[2])
		if _, hit := ray.IntersectTriangle(a, b, c); hit {
			crossings++
		}
	}
	return crossings%2 == 1
}

// Raycast returns the distance to the nearest triangle of the mesh placed
// with t that r hits. The world bounds are tested first.
func (m *Mesh) Raycast(r Ray, t math.Mat4) (float64, bool) {
	if !m.HasGeometry() {
		return 0, false
	}
	if _, hit := r.IntersectAABB(m.WorldBounds(t)); !hit {
		return 0, false
	}

	nearest := gomath.Inf(1)
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		d, hit := r.IntersectTriangle(t.TransformVec3(tri[0]), t.TransformVec3(tri[1]), t.TransformVec3(tri[2]))
		if hit && d < nearest {
			nearest = d
		}
	}
	if gomath.IsInf(nearest, 1) {
		return 0, false
	}
	return nearest, true
}
