package csg

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

func mustSolid(t *testing.T, e Engine, m *mesh.Mesh, world math.Mat4) Solid {
	t.Helper()
	s, err := e.FromMesh(m, world)
	if err != nil {
		t.Fatalf("FromMesh failed: %v", err)
	}
	return s
}

func TestFromMeshNoGeometry(t *testing.T) {
	e := NewBSP()

	if _, err := e.FromMesh(nil, math.Identity()); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("expected ErrNoGeometry for nil mesh, got %v", err)
	}

	m := mesh.Box(uuid.New(), 1, 1, 1)
	m.Dispose()
	if _, err := e.FromMesh(m, math.Identity()); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("expected ErrNoGeometry for disposed mesh, got %v", err)
	}
}

func TestFromMeshSkipsDegenerate(t *testing.T) {
	m := mesh.New(uuid.New())
	m.Positions = []math.Vec3{{}, {X: 1}, {X: 2}, {}, {X: 1}, {Z: 1}}

	s := mustSolid(t, NewBSP(), m, math.Identity())
	if got := len(s.(*polySolid).polygons); got != 1 {
		t.Errorf("expected 1 polygon, got %d", got)
	}
}

func TestRoundTripRestoresLocalSpace(t *testing.T) {
	e := NewBSP()
	box := mesh.Box(uuid.New(), 2, 1, 0.5)
	world := math.Translate(5, 0, 3).Mul(math.RotateY(0.7))

	s := mustSolid(t, e, box, world)
	out := e.ToMesh(s, world)

	got := out.Bounds()
	want := box.Bounds()
	if !got.Min.ApproxEqual(want.Min, 1e-9) || !got.Max.ApproxEqual(want.Max, 1e-9) {
		t.Errorf("expected bounds %v, got %v", want, got)
	}
	if gomath.Abs(out.Volume()-1) > 1e-9 {
		t.Errorf("expected volume 1, got %v", out.Volume())
	}
}

func TestSubtractCarvesHole(t *testing.T) {
	e := NewBSP()
	wall := mesh.Box(uuid.New(), 4, 2, 0.2)
	cutter := mesh.Box(uuid.New(), 1, 1, 0.3)

	out, err := SubtractMesh(e, wall, math.Identity(), cutter, math.Identity())
	if err != nil {
		t.Fatalf("SubtractMesh failed: %v", err)
	}

	if out.Owner != wall.Owner {
		t.Error("expected result to keep the wall owner")
	}
	expected := 4*2*0.2 - 1*1*0.2
	if gomath.Abs(out.Volume()-expected) > 1e-6 {
		t.Errorf("expected volume %v, got %v", expected, out.Volume())
	}
	if out.ContainsPoint(math.Vec3{}, math.Identity()) {
		t.Error("expected the hole centre to be outside the result")
	}
	if !out.ContainsPoint(math.Vec3{X: 1.5, Y: 0.1}, math.Identity()) {
		t.Error("expected solid wall material away from the hole")
	}
}

func TestSubtractNotCommutative(t *testing.T) {
	e := NewBSP()
	a := mesh.Box(uuid.New(), 2, 2, 2)
	b := mesh.Box(uuid.New(), 2, 2, 2)
	bWorld := math.Translate(1, 0, 0)

	sa := mustSolid(t, e, a, math.Identity())
	sb := mustSolid(t, e, b, bWorld)

	ab := e.ToMesh(e.Subtract(sa, sb), math.Identity())
	ba := e.ToMesh(e.Subtract(sb, sa), math.Identity())

	left := math.Vec3{X: -0.5, Y: 0.1, Z: 0.2}
	right := math.Vec3{X: 1.5, Y: 0.1, Z: 0.2}
	middle := math.Vec3{X: 0.5, Y: 0.1, Z: 0.2}

	if !ab.ContainsPoint(left, math.Identity()) || ab.ContainsPoint(right, math.Identity()) {
		t.Error("a-b should keep only the left part of a")
	}
	if !ba.ContainsPoint(right, math.Identity()) || ba.ContainsPoint(left, math.Identity()) {
		t.Error("b-a should keep only the right part of b")
	}
	if ab.ContainsPoint(middle, math.Identity()) || ba.ContainsPoint(middle, math.Identity()) {
		t.Error("the overlap should be removed from both results")
	}

	if gomath.Abs(ab.Volume()-4) > 1e-6 || gomath.Abs(ba.Volume()-4) > 1e-6 {
		t.Errorf("expected both volumes to be 4, got %v and %v", ab.Volume(), ba.Volume())
	}
}

func TestSubtractDoesNotMutateOperands(t *testing.T) {
	e := NewBSP()
	sa := mustSolid(t, e, mesh.Box(uuid.New(), 2, 2, 2), math.Identity())
	sb := mustSolid(t, e, mesh.Box(uuid.New(), 1, 1, 1), math.Translate(1, 1, 1))

	before := sa.(*polySolid).clonePolygons()
	e.Subtract(sa, sb)
	after := sa.(*polySolid).polygons

	if len(before) != len(after) {
		t.Fatalf("expected %d polygons, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i].plane != after[i].plane {
			t.Fatalf("polygon %d plane changed", i)
		}
		for k := range before[i].vertices {
			if before[i].vertices[k] != after[i].vertices[k] {
				t.Fatalf("polygon %d vertex %d changed", i, k)
			}
		}
	}
}

func TestSubtractDisjoint(t *testing.T) {
	e := NewBSP()
	sa := mustSolid(t, e, mesh.Box(uuid.New(), 1, 1, 1), math.Identity())
	sb := mustSolid(t, e, mesh.Box(uuid.New(), 1, 1, 1), math.Translate(10, 0, 0))

	out := e.ToMesh(e.Subtract(sa, sb), math.Identity())
	if gomath.Abs(out.Volume()-1) > 1e-9 {
		t.Errorf("expected volume 1, got %v", out.Volume())
	}
}

func TestNewEngine(t *testing.T) {
	for _, name := range []string{"", EngineBSP} {
		e, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): unexpected error %v", name, err)
		}
		if _, ok := e.(*BSP); !ok {
			t.Errorf("New(%q): expected *BSP, got %T", name, e)
		}
	}
	if _, err := New("manifold"); err == nil {
		t.Error("expected error for unknown engine")
	}
}
