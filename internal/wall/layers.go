package wall

import "github.com/Faultbox/floorplan/pkg/math"

// VertexKind tells which mesh a VertexRef points into.
type VertexKind int

const (
	// BodyVertex refers to the carving mesh.
	BodyVertex VertexKind = iota
	// MarkerVertex refers to one of the two corner markers.
	MarkerVertex
)

// VertexRef addresses one vertex of a wall's carving mesh or corner markers.
// Marker is only meaningful for MarkerVertex refs.
type VertexRef struct {
	Kind   VertexKind
	Marker int
	Index  int
}

// Layers holds the disjoint inside and outside vertex sets of a wall.
type Layers struct {
	Inside  []VertexRef
	Outside []VertexRef
}

// Len returns the total number of classified vertices.
func (l Layers) Len() int {
	return len(l.Inside) + len(l.Outside)
}

// Region returns the refs for a paint region, or nil for unknown regions.
func (l Layers) Region(r Region) []VertexRef {
	switch r {
	case Inside:
		return l.Inside
	case Outside:
		return l.Outside
	}
	return nil
}

// Classify splits every carving and marker vertex of w by its world-space
// side of the wall's splitting plane. Vertices on the plane count as inside.
func Classify(w *Wall) Layers {
	var l Layers
	plane := w.plane

	classify := func(ref VertexRef, p math.Vec3) {
		if plane.DistanceToPoint(p) >= 0 {
			l.Inside = append(l.Inside, ref)
		} else {
			l.Outside = append(l.Outside, ref)
		}
	}

	if w.carving != nil {
		world := w.Transform()
		for i, p := range w.carving.Positions {
			classify(VertexRef{Kind: BodyVertex, Index: i}, world.TransformVec3(p))
		}
	}

	for m, marker := range w.markers {
		if marker.Mesh == nil {
			continue
		}
		for i, p := range marker.Mesh.Positions {
			classify(VertexRef{Kind: MarkerVertex, Marker: m, Index: i}, marker.Transform.TransformVec3(p))
		}
	}
	return l
}
