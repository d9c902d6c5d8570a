package math

// Plane is the set of points p with Normal·p + Constant == 0.
type Plane struct {
	Normal   Vec3
	Constant float64
}

// PlaneFromNormalAndPoint builds a plane with the given normal passing through point.
// The normal is normalised.
func PlaneFromNormalAndPoint(normal, point Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Constant: -n.Dot(point)}
}

// DistanceToPoint returns the signed distance of p from the plane.
// Positive values lie on the side the normal points to.
func (p Plane) DistanceToPoint(point Vec3) float64 {
	return p.Normal.Dot(point) + p.Constant
}

// Flip returns the plane facing the opposite way.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Negate(), Constant: -p.Constant}
}
