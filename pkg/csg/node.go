package csg

import "github.com/Faultbox/floorplan/pkg/math"

// node is a BSP tree node. The polygons stored at a node are coplanar with
// its plane; front and back hold the half-spaces.
type node struct {
	plane    *math.Plane
	front    *node
	back     *node
	polygons []polygon
}

func newNode(polygons []polygon) *node {
	n := &node{}
	n.build(polygons)
	return n
}

// invert swaps solid and empty space.
func (n *node) invert() {
	for i := range n.polygons {
		n.polygons[i].flip()
	}
	if n.plane != nil {
		flipped := n.plane.Flip()
		n.plane = &flipped
	}
	if n.front != nil {
		n.front.invert()
	}
	if n.back != nil {
		n.back.invert()
	}
	n.front, n.back = n.back, n.front
}

// clipPolygons removes the parts of polygons that lie inside this tree.
func (n *node) clipPolygons(polygons []polygon) []polygon {
	if n.plane == nil {
		return append([]polygon(nil), polygons...)
	}

	var f, b []polygon
	for _, p := range polygons {
		splitPolygon(*n.plane, p, &f, &b, &f, &b)
	}
	if n.front != nil {
		f = n.front.clipPolygons(f)
	}
	if n.back != nil {
		b = n.back.clipPolygons(b)
	} else {
		b = nil
	}
	return append(f, b...)
}

// clipTo removes every polygon of this tree that lies inside other.
func (n *node) clipTo(other *node) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.front != nil {
		n.front.clipTo(other)
	}
	if n.back != nil {
		n.back.clipTo(other)
	}
}

func (n *node) allPolygons() []polygon {
	out := append([]polygon(nil), n.polygons...)
	if n.front != nil {
		out = append(out, n.front.allPolygons()...)
	}
	if n.back != nil {
		out = append(out, n.back.allPolygons()...)
	}
	return out
}

// build inserts polygons into the tree. The first polygon's plane becomes the
// splitting plane of an empty node.
func (n *node) build(polygons []polygon) {
	if len(polygons) == 0 {
		return
	}
	if n.plane == nil {
		p := polygons[0].plane
		n.plane = &p
	}

	var f, b []polygon
	for _, p := range polygons {
		splitPolygon(*n.plane, p, &n.polygons, &n.polygons, &f, &b)
	}
	if len(f) > 0 {
		if n.front == nil {
			n.front = &node{}
		}
		n.front.build(f)
	}
	if len(b) > 0 {
		if n.back == nil {
			n.back = &node{}
		}
		n.back.build(b)
	}
}
