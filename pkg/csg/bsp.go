package csg

import (
	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// BSP is the default Engine. It holds no state and is safe to share.
type BSP struct{}

// NewBSP returns the BSP-tree boolean engine.
func NewBSP() *BSP {
	return &BSP{}
}

// polySolid is the Solid representation used by BSP.
type polySolid struct {
	polygons []polygon
}

func (s *polySolid) Empty() bool {
	return s == nil || len(s.polygons) == 0
}

func (s *polySolid) Bounds() mesh.Bounds {
	b := mesh.EmptyBounds()
	if s == nil {
		return b
	}
	for _, p := range s.polygons {
		for _, v := range p.vertices {
			b.Extend(v.pos)
		}
	}
	return b
}

func (s *polySolid) clonePolygons() []polygon {
	out := make([]polygon, len(s.polygons))
	for i, p := range s.polygons {
		out[i] = p.clone()
	}
	return out
}

// FromMesh bakes every non-degenerate triangle of m with world.
func (e *BSP) FromMesh(m *mesh.Mesh, world math.Mat4) (Solid, error) {
	if !m.HasGeometry() {
		return nil, ErrNoGeometry
	}

	s := &polySolid{}
	hasNormals := len(m.Normals) == len(m.Positions)
	for i := 0; i < m.TriangleCount(); i++ {
		ia, ib, ic := m.TriangleIndices(i)
		if ia >= len(m.Positions) || ib >= len(m.Positions) || ic >= len(m.Positions) {
			continue
		}
		verts := make([]vertex, 3)
		for k, idx := range []int{ia, ib, ic} {
			verts[k].pos = world.TransformVec3(m.Positions[idx])
			if hasNormals {
				verts[k].normal = world.TransformDirection(m.Normals[idx]).Normalize()
			}
		}

		p, ok := newPolygon(verts)
		if !ok {
			continue
		}
		if !hasNormals {
			for k := range p.vertices {
				p.vertices[k].normal = p.plane.Normal
			}
		}
		s.polygons = append(s.polygons, p)
	}
	return s, nil
}

// Subtract computes a minus b. A non-BSP solid on either side returns a
// unchanged.
func (e *BSP) Subtract(a, b Solid) Solid {
	sa, ok := a.(*polySolid)
	if !ok {
		return a
	}
	sb, ok := b.(*polySolid)
	if !ok || sb.Empty() || sa.Empty() {
		return &polySolid{polygons: sa.clonePolygons()}
	}

	na := newNode(sa.clonePolygons())
	nb := newNode(sb.clonePolygons())

	na.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	na.invert()

	return &polySolid{polygons: na.allPolygons()}
}

// ToMesh fan-triangulates every polygon and maps it back into the local space
// of world. The returned mesh has no owner; callers assign it.
func (e *BSP) ToMesh(s Solid, world math.Mat4) *mesh.Mesh {
	out := mesh.New(uuid.Nil)
	ps, ok := s.(*polySolid)
	if !ok || ps == nil {
		return out
	}

	inv := world.Inverse()
	for _, p := range ps.polygons {
		base := uint32(len(out.Positions))
		for _, v := range p.vertices {
			out.Positions = append(out.Positions, inv.TransformVec3(v.pos))
			out.Normals = append(out.Normals, inv.TransformDirection(v.normal).Normalize())
		}
		for i := 2; i < len(p.vertices); i++ {
			out.Indices = append(out.Indices, base, base+uint32(i-1), base+uint32(i))
		}
	}
	return out
}
