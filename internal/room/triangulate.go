package room

import (
	"github.com/Faultbox/floorplan/pkg/math"
)

// DefaultEpsilon is the tolerance of the convexity and containment tests.
const DefaultEpsilon = 1e-9

// TriangulateOption configures Triangulate.
type TriangulateOption func(*triangulateSettings)

type triangulateSettings struct {
	eps float64
}

// WithEpsilon overrides DefaultEpsilon.
func WithEpsilon(eps float64) TriangulateOption {
	return func(s *triangulateSettings) { s.eps = eps }
}

// Triangulate splits a simple plan polygon into triangles by ear clipping.
// The loop may repeat its first point at the end. Returned indices refer to
// loop, three per triangle, and every triangle is counter-clockwise seen from
// above so it faces +Y. Collinear vertices are dropped without a triangle.
// The result is empty when the loop has fewer than three points or no ear
// can be found.
func Triangulate(loop []math.Vec3, opts ...TriangulateOption) []int {
	s := triangulateSettings{eps: DefaultEpsilon}
	for _, opt := range opts {
		opt(&s)
	}
	eps := s.eps

	n := len(loop)
	if n >= 2 && loop[0].ApproxEqual(loop[n-1], eps) {
		n--
	}
	if n < 3 {
		return []int{}
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	if math.SignedAreaXZ(loop[:n]) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		}
	}

	indices := make([]int, 0, 3*(n-2))
	for len(remaining) > 3 {
		if i := findEar(loop, remaining, eps); i >= 0 {
			m := len(remaining)
			prev := remaining[(i-1+m)%m]
			next := remaining[(i+1)%m]
			indices = append(indices, prev, remaining[i], next)
			remaining = append(remaining[:i], remaining[i+1:]...)
			continue
		}
		if i := findCollinear(loop, remaining, eps); i >= 0 {
			remaining = append(remaining[:i], remaining[i+1:]...)
			continue
		}
		return []int{}
	}

	a, b, c := remaining[0], remaining[1], remaining[2]
	if math.CrossXZ(loop[a], loop[b], loop[c]) > eps {
		indices = append(indices, a, b, c)
	}
	return indices
}

// findEar returns the position in remaining of the first ear, or -1.
func findEar(loop []math.Vec3, remaining []int, eps float64) int {
	m := len(remaining)
	for i := 0; i < m; i++ {
		prev := remaining[(i-1+m)%m]
		cur := remaining[i]
		next := remaining[(i+1)%m]

		a, b, c := loop[prev], loop[cur], loop[next]
		if math.CrossXZ(a, b, c) <= eps {
			continue
		}

		ear := true
		for _, k := range remaining {
			if k == prev || k == cur || k == next {
				continue
			}
			if math.InTriangleXZ(loop[k], a, b, c, eps) {
				ear = false
				break
			}
		}
		if ear {
			return i
		}
	}
	return -1
}

// findCollinear returns the position of the first zero-area vertex, or -1.
func findCollinear(loop []math.Vec3, remaining []int, eps float64) int {
	m := len(remaining)
	for i := 0; i < m; i++ {
		a := loop[remaining[(i-1+m)%m]]
		b := loop[remaining[i]]
		c := loop[remaining[(i+1)%m]]
		cross := math.CrossXZ(a, b, c)
		if cross <= eps && cross >= -eps {
			return i
		}
	}
	return -1
}
