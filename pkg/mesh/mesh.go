// Package mesh provides indexed triangle meshes and the primitives the plan
// kernel builds walls, corner markers, openings and floors from.
package mesh

import (
	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/pkg/math"
)

// Mesh is an indexed triangle mesh. Positions, Normals and Colors are parallel
// per-vertex buffers; Indices holds three entries per triangle. A mesh without
// indices is read as a plain triangle list.
//
// Buffers are an explicitly owned resource: whoever replaces a mesh disposes
// the old one in the same step.
type Mesh struct {
	ID    uuid.UUID
	Owner uuid.UUID // entity owning this mesh (wall, opening, room)

	Positions []math.Vec3
	Normals   []math.Vec3
	Colors    []Color
	Indices   []uint32

	// ColorRevision increases on every colour buffer write.
	ColorRevision uint64

	disposed bool
}

// New creates an empty mesh owned by owner.
func New(owner uuid.UUID) *Mesh {
	return &Mesh{ID: uuid.New(), Owner: owner}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	if len(m.Indices) == 0 {
		return len(m.Positions) / 3
	}
	return len(m.Indices) / 3
}

// HasGeometry reports whether the mesh carries position data.
func (m *Mesh) HasGeometry() bool {
	return m != nil && !m.disposed && len(m.Positions) > 0
}

// Triangle returns the corner positions of triangle i.
func (m *Mesh) Triangle(i int) [3]math.Vec3 {
	a, b, c := m.TriangleIndices(i)
	return [3]math.Vec3{m.Positions[a], m.Positions[b], m.Positions[c]}
}

// TriangleIndices returns the vertex indices of triangle i.
func (m *Mesh) TriangleIndices(i int) (a, b, c int) {
	if len(m.Indices) == 0 {
		return i * 3, i*3 + 1, i*3 + 2
	}
	return int(m.Indices[i*3]), int(m.Indices[i*3+1]), int(m.Indices[i*3+2])
}

// Clone returns a deep copy with a fresh ID and the same owner.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	c := &Mesh{
		ID:        uuid.New(),
		Owner:     m.Owner,
		Positions: append([]math.Vec3(nil), m.Positions...),
		Normals:   append([]math.Vec3(nil), m.Normals...),
		Colors:    append([]Color(nil), m.Colors...),
		Indices:   append([]uint32(nil), m.Indices...),
		disposed:  m.disposed,
	}
	return c
}

// Transformed returns a copy with positions and normals mapped through t.
func (m *Mesh) Transformed(t math.Mat4) *Mesh {
	c := m.Clone()
	for i, p := range c.Positions {
		c.Positions[i] = t.TransformVec3(p)
	}
	for i, n := range c.Normals {
		c.Normals[i] = t.TransformDirection(n).Normalize()
	}
	return c
}

// Dispose releases the buffers. A disposed mesh has no geometry.
func (m *Mesh) Dispose() {
	if m == nil {
		return
	}
	m.Positions = nil
	m.Normals = nil
	m.Colors = nil
	m.Indices = nil
	m.disposed = true
}

// Disposed reports whether Dispose has been called.
func (m *Mesh) Disposed() bool {
	return m != nil && m.disposed
}

// Bounds returns the axis-aligned bounding box of the mesh in its own space.
func (m *Mesh) Bounds() Bounds {
	b := EmptyBounds()
	for _, p := range m.Positions {
		b.Extend(p)
	}
	return b
}

// WorldBounds returns the bounding box of the mesh placed with t.
func (m *Mesh) WorldBounds(t math.Mat4) Bounds {
	b := EmptyBounds()
	for _, p := range m.Positions {
		b.Extend(t.TransformVec3(p))
	}
	return b
}

// Volume returns the signed volume enclosed by a closed, outward-wound mesh.
func (m *Mesh) Volume() float64 {
	var v float64
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		v += tri[0].Dot(tri[1].Cross(tri[2]))
	}
	return v / 6
}
