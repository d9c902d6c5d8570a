package csg

import (
	"github.com/Faultbox/floorplan/pkg/math"
)

// splitEpsilon is the tolerance used to decide which side of a plane a point is on.
const splitEpsilon = 1e-5

// degenerateArea is the doubled triangle area below which polygons are dropped.
const degenerateArea = 1e-12

type vertex struct {
	pos    math.Vec3
	normal math.Vec3
}

func (v vertex) flip() vertex {
	return vertex{pos: v.pos, normal: v.normal.Negate()}
}

func (v vertex) interpolate(other vertex, t float64) vertex {
	return vertex{
		pos:    v.pos.Lerp(other.pos, t),
		normal: v.normal.Lerp(other.normal, t),
	}
}

// polygon is a convex planar polygon. Vertices are counter-clockwise when
// viewed from the side the plane normal points to.
type polygon struct {
	vertices []vertex
	plane    math.Plane
}

func newPolygon(vertices []vertex) (polygon, bool) {
	a, b, c := vertices[0].pos, vertices[1].pos, vertices[2].pos
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() < degenerateArea {
		return polygon{}, false
	}
	return polygon{vertices: vertices, plane: math.PlaneFromNormalAndPoint(n, a)}, true
}

func (p polygon) clone() polygon {
	return polygon{vertices: append([]vertex(nil), p.vertices...), plane: p.plane}
}

// flip reverses the winding and the plane in place.
func (p *polygon) flip() {
	n := len(p.vertices)
	for i := 0; i < n/2; i++ {
		p.vertices[i], p.vertices[n-1-i] = p.vertices[n-1-i], p.vertices[i]
	}
	for i := range p.vertices {
		p.vertices[i] = p.vertices[i].flip()
	}
	p.plane = p.plane.Flip()
}

// Side of a point or polygon relative to a splitting plane.
const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = front | back
)

// splitPolygon distributes p into the four lists by its position relative to
// plane. Coplanar polygons go to coFront or coBack depending on orientation.
func splitPolygon(plane math.Plane, p polygon, coFront, coBack, frontList, backList *[]polygon) {
	polyType := coplanar
	types := make([]int, len(p.vertices))
	for i, v := range p.vertices {
		d := plane.DistanceToPoint(v.pos)
		t := coplanar
		if d < -splitEpsilon {
			t = back
		} else if d > splitEpsilon {
			t = front
		}
		polyType |= t
		types[i] = t
	}

	switch polyType {
	case coplanar:
		if plane.Normal.Dot(p.plane.Normal) > 0 {
			*coFront = append(*coFront, p)
		} else {
			*coBack = append(*coBack, p)
		}
	case front:
		*frontList = append(*frontList, p)
	case back:
		*backList = append(*backList, p)
	case spanning:
		var f, b []vertex
		n := len(p.vertices)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := p.vertices[i], p.vertices[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if ti|tj == spanning {
				denom := plane.Normal.Dot(vj.pos.Sub(vi.pos))
				t := -plane.DistanceToPoint(vi.pos) / denom
				v := vi.interpolate(vj, t)
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*frontList = append(*frontList, polygon{vertices: f, plane: p.plane})
		}
		if len(b) >= 3 {
			*backList = append(*backList, polygon{vertices: b, plane: p.plane})
		}
	}
}
