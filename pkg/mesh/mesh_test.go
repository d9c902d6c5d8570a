package mesh

import (
	gomath "math"
	"testing"

	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/pkg/math"
)

func TestBoxCounts(t *testing.T) {
	m := Box(uuid.New(), 2, 3, 4)

	if m.VertexCount() != 24 {
		t.Errorf("expected 24 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}

	size := m.Bounds().Size()
	if !size.ApproxEqual(math.Vec3{X: 2, Y: 3, Z: 4}, 1e-12) {
		t.Errorf("expected size (2,3,4), got %v", size)
	}
}

func TestBoxWindingOutward(t *testing.T) {
	m := Box(uuid.New(), 1, 1, 1)
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		center := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
		if n.Dot(center) <= 0 {
			t.Errorf("triangle %d faces inward: normal %v at %v", i, n, center)
		}
	}
}

func TestCylinderWindingOutward(t *testing.T) {
	m := Cylinder(uuid.New(), 0.5, 2, 0)
	if m.TriangleCount() != DefaultCylinderSegments*4 {
		t.Errorf("expected %d triangles, got %d", DefaultCylinderSegments*4, m.TriangleCount())
	}
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		center := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
		if n.Dot(center) <= 0 {
			t.Errorf("triangle %d faces inward", i)
		}
	}
}

func TestExtrudeFacesOutward(t *testing.T) {
	// Clockwise seen from above; Extrude must still orient the sides outward.
	loop := []math.Vec3{{X: 0, Z: 0}, {X: 2, Z: 0}, {X: 2, Z: 2}, {X: 0, Z: 2}}
	var tris []int
	if math.SignedAreaXZ(loop) > 0 {
		tris = []int{0, 1, 2, 0, 2, 3}
	} else {
		tris = []int{0, 2, 1, 0, 3, 2}
	}

	m := Extrude(uuid.New(), loop, tris, 0, 1)
	if m.TriangleCount() != 4+8 {
		t.Fatalf("expected 12 triangles, got %d", m.TriangleCount())
	}

	center := math.Vec3{X: 1, Y: 0.5, Z: 1}
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		c := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
		if n.Dot(c.Sub(center)) <= 0 {
			t.Errorf("triangle %d faces inward", i)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := Box(uuid.New(), 1, 1, 1)
	c := m.Clone()

	if c.ID == m.ID {
		t.Error("expected clone to get a new ID")
	}
	if c.Owner != m.Owner {
		t.Error("expected clone to keep the owner")
	}

	c.Positions[0] = math.Vec3{X: 99}
	if m.Positions[0].X == 99 {
		t.Error("clone shares position storage with original")
	}
}

func TestDispose(t *testing.T) {
	m := Box(uuid.New(), 1, 1, 1)
	m.Dispose()

	if !m.Disposed() {
		t.Error("expected mesh to be disposed")
	}
	if m.HasGeometry() {
		t.Error("disposed mesh should have no geometry")
	}

	var nilMesh *Mesh
	nilMesh.Dispose()
	if nilMesh.HasGeometry() {
		t.Error("nil mesh should have no geometry")
	}
}

func TestTransformed(t *testing.T) {
	m := Box(uuid.New(), 2, 2, 2)
	moved := m.Transformed(math.Translate(10, 0, 0))

	b := moved.Bounds()
	if gomath.Abs(b.Min.X-9) > 1e-12 || gomath.Abs(b.Max.X-11) > 1e-12 {
		t.Errorf("expected x range [9,11], got [%v,%v]", b.Min.X, b.Max.X)
	}
	if m.Bounds().Min.X != -1 {
		t.Error("Transformed modified the source mesh")
	}
}

func TestColors(t *testing.T) {
	m := Box(uuid.New(), 1, 1, 1)
	if m.ColorAt(0) != White {
		t.Errorf("expected White before any fill, got %v", m.ColorAt(0))
	}

	m.FillColor(White)
	rev := m.ColorRevision

	red := ColorFromHex(0xFF0000)
	m.SetColors([]int{0, 1, 1000}, red)
	if m.ColorRevision != rev+1 {
		t.Errorf("expected revision %d, got %d", rev+1, m.ColorRevision)
	}
	if m.ColorAt(0) != red || m.ColorAt(1) != red {
		t.Error("expected vertices 0 and 1 to be red")
	}
	if m.ColorAt(2) != White {
		t.Error("expected vertex 2 to stay white")
	}
	if red.Hex() != 0xFF0000 {
		t.Errorf("expected 0xFF0000, got %#x", red.Hex())
	}
}

func TestBoundsIntersects(t *testing.T) {
	a := Bounds{Min: math.Vec3{}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	b := Bounds{Min: math.Vec3{X: 0.5}, Max: math.Vec3{X: 2, Y: 1, Z: 1}}
	c := Bounds{Min: math.Vec3{X: 1}, Max: math.Vec3{X: 2, Y: 1, Z: 1}}

	if !a.Intersects(b, 1e-9) {
		t.Error("expected overlapping boxes to intersect")
	}
	if a.Intersects(c, 1e-9) {
		t.Error("touching boxes should not intersect")
	}
	if a.Intersects(EmptyBounds(), 0) {
		t.Error("empty box should not intersect")
	}
}

func TestVolume(t *testing.T) {
	box := Box(uuid.New(), 2, 3, 4)
	if v := box.Volume(); gomath.Abs(v-24) > 1e-9 {
		t.Errorf("expected volume 24, got %v", v)
	}

	moved := box.Transformed(math.Translate(3, -2, 7))
	if v := moved.Volume(); gomath.Abs(v-24) > 1e-9 {
		t.Errorf("expected translated volume 24, got %v", v)
	}
}
