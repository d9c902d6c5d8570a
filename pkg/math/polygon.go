package math

import "math"

// CrossXZ returns the Y component of (a-o) x (b-o).
// It is positive when o, a, b turn counter-clockwise seen from above (+Y).
func CrossXZ(o, a, b Vec3) float64 {
	return (a.Z-o.Z)*(b.X-o.X) - (a.X-o.X)*(b.Z-o.Z)
}

// SignedAreaXZ returns the shoelace area of the polygon projected onto the plan.
// The result is positive for counter-clockwise loops seen from above.
// A closing point equal to the first one is optional.
func SignedAreaXZ(points []Vec3) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		sum += a.Z*b.X - a.X*b.Z
	}
	return sum / 2
}

// AreaXZ returns the unsigned plan area of the polygon (shoelace formula).
func AreaXZ(points []Vec3) float64 {
	return math.Abs(SignedAreaXZ(points))
}

// PerimeterXZ returns the length of the closed loop through points.
func PerimeterXZ(points []Vec3) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += points[i].XZ().Distance(points[(i+1)%n].XZ())
	}
	return sum
}

// Centroid returns the average of the points.
func Centroid(points []Vec3) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var c Vec3
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(points)))
}

// InTriangleXZ reports whether p lies strictly inside the counter-clockwise
// plan triangle a, b, c. Points closer than eps to an edge count as outside.
func InTriangleXZ(p, a, b, c Vec3, eps float64) bool {
	d1 := CrossXZ(a, b, p)
	d2 := CrossXZ(b, c, p)
	d3 := CrossXZ(c, a, p)
	return d1 > eps && d2 > eps && d3 > eps
}
