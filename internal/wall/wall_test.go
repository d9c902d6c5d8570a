package wall

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/pkg/math"
)

const volumeTolerance = 1e-6

func straightWall() *Wall {
	return Build(math.Vec3{}, math.Vec3{X: 4}, DefaultWidth, DefaultHeight)
}

func TestWallLength(t *testing.T) {
	tests := []struct {
		p1, p2 math.Vec3
		length float64
	}{
		{math.Vec3{}, math.Vec3{X: 3, Z: 4}, 5},
		{math.Vec3{X: -1, Z: 2}, math.Vec3{X: -1, Z: -3}, 5},
		{math.Vec3{X: 1.5, Y: 0.3, Z: 0}, math.Vec3{X: 2.5, Y: 0.3, Z: 1}, gomath.Sqrt2},
	}

	for _, tt := range tests {
		w := Build(tt.p1, tt.p2, DefaultWidth, DefaultHeight)
		if gomath.Abs(w.Length-tt.length) > 1e-6 {
			t.Errorf("expected length %v, got %v", tt.length, w.Length)
		}
		if gomath.Abs(w.Length-tt.p1.Distance(tt.p2)) > 1e-6 {
			t.Errorf("length %v does not match endpoint distance", w.Length)
		}
		size := w.CarvingMesh().Bounds().Size()
		if gomath.Abs(size.X-tt.length) > 1e-9 {
			t.Errorf("expected box length %v, got %v", tt.length, size.X)
		}
	}
}

func TestWallWorldPlacement(t *testing.T) {
	w := Build(math.Vec3{X: 1, Z: 1}, math.Vec3{X: 4, Z: 5}, 0.2, 2)
	b := w.WorldBounds()

	if b.Min.Y > 1e-9 || gomath.Abs(b.Max.Y-2) > 1e-9 {
		t.Errorf("expected wall from y=0 to y=2, got %v..%v", b.Min.Y, b.Max.Y)
	}

	start := w.Transform().TransformVec3(math.Vec3{X: -w.Length / 2})
	if !start.ApproxEqual(w.P1, 1e-9) {
		t.Errorf("expected local start to map to %v, got %v", w.P1, start)
	}
	end := w.Transform().TransformVec3(math.Vec3{X: w.Length / 2})
	if !end.ApproxEqual(w.P2, 1e-9) {
		t.Errorf("expected local end to map to %v, got %v", w.P2, end)
	}

	for i, m := range w.Markers() {
		pos := m.Transform.Position()
		if gomath.Abs(pos.Y-1) > 1e-9 {
			t.Errorf("marker %d: expected centre height 1, got %v", i, pos.Y)
		}
	}
}

func checkPartition(t *testing.T, w *Wall) {
	t.Helper()
	l := w.Layers()
	markers := w.Markers()
	total := w.CarvingMesh().VertexCount() + markers[0].Mesh.VertexCount() + markers[1].Mesh.VertexCount()
	if l.Len() != total {
		t.Fatalf("expected %d classified vertices, got %d", total, l.Len())
	}

	seen := make(map[VertexRef]bool, total)
	for _, ref := range append(append([]VertexRef{}, l.Inside...), l.Outside...) {
		if seen[ref] {
			t.Fatalf("vertex %+v classified twice", ref)
		}
		seen[ref] = true
	}
	if len(l.Inside) == 0 || len(l.Outside) == 0 {
		t.Error("expected both sides of a box wall to have vertices")
	}
}

func TestClassificationPartition(t *testing.T) {
	w := straightWall()
	checkPartition(t, w)

	o, err := w.AddOpening(KindCross)
	if err != nil {
		t.Fatalf("AddOpening failed: %v", err)
	}
	checkPartition(t, w)

	cross := Build(math.Vec3{X: 1, Z: -1}, math.Vec3{X: 1, Z: 1}, DefaultWidth, DefaultHeight)
	w.SubtractVolume(cross)
	if len(w.CutSources()) != 1 {
		t.Fatalf("expected one recorded cut, got %d", len(w.CutSources()))
	}
	checkPartition(t, w)

	if err := w.RemoveOpening(o); err != nil {
		t.Fatalf("RemoveOpening failed: %v", err)
	}
	checkPartition(t, w)

	w.DropVolume(cross.ID)
	checkPartition(t, w)
}

func TestClassificationSide(t *testing.T) {
	// Wall along +X: the plane normal (dz, 0, -dx) points to -Z.
	w := straightWall()
	world := w.Transform()

	for _, ref := range w.Layers().Inside {
		if ref.Kind != BodyVertex {
			continue
		}
		p := world.TransformVec3(w.CarvingMesh().Positions[ref.Index])
		if p.Z > 1e-9 {
			t.Errorf("inside vertex %d at z=%v", ref.Index, p.Z)
		}
	}
	for _, ref := range w.Layers().Outside {
		if ref.Kind != BodyVertex {
			continue
		}
		p := world.TransformVec3(w.CarvingMesh().Positions[ref.Index])
		if p.Z <= 0 {
			t.Errorf("outside vertex %d at z=%v", ref.Index, p.Z)
		}
	}
}

func TestAddOpeningCarvesHole(t *testing.T) {
	tests := []struct {
		kind  Kind
		holeW float64
		holeH float64
	}{
		// Window: 1.1 x 1.1 box centred at 1.0 stays within the wall.
		{KindPlain, 1.1, 1.1},
		// Door: 1.0 x 1.9 box centred at 0.9 pokes below the floor.
		{KindDoor, 1.0, 1.85},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w := straightWall()
			full := w.CarvingMesh().Volume()

			o, err := w.AddOpening(tt.kind)
			if err != nil {
				t.Fatalf("AddOpening failed: %v", err)
			}

			expected := full - tt.holeW*tt.holeH*DefaultWidth
			if got := w.CarvingMesh().Volume(); gomath.Abs(got-expected) > volumeTolerance {
				t.Errorf("expected volume %v, got %v", expected, got)
			}

			centre := o.WorldTransform().Position()
			if w.CarvingMesh().ContainsPoint(centre, w.Transform()) {
				t.Error("expected opening centre to be carved out")
			}
			if !w.CarvingMesh().ContainsPoint(math.Vec3{X: 0.3, Y: 1.9}, w.Transform()) {
				t.Error("expected solid wall away from the opening")
			}
		})
	}
}

func TestOpeningDefaults(t *testing.T) {
	w := straightWall()

	door, _ := w.AddOpening(KindDoor)
	if door.Frame != (FrameSize{Width: 0.9, Height: 1.8}) {
		t.Errorf("expected door frame 0.9x1.8, got %+v", door.Frame)
	}
	if gomath.Abs(door.Elevation()-0.9) > 1e-12 {
		t.Errorf("expected door elevation 0.9, got %v", door.Elevation())
	}

	win, _ := w.AddOpening(KindVertical, WithOffset(1.2))
	if win.Elevation() != DefaultWindowElevation {
		t.Errorf("expected window elevation %v, got %v", DefaultWindowElevation, win.Elevation())
	}
	pos := win.WorldTransform().Position()
	if !pos.ApproxEqual(math.Vec3{X: 3.2, Y: 1}, 1e-9) {
		t.Errorf("expected window centre (3.2,1,0), got %v", pos)
	}

	parts := map[Kind]int{KindPlain: 5, KindVertical: 6, KindCross: 7, KindDoor: 5}
	for kind, n := range parts {
		o, _ := w.AddOpening(kind)
		if len(o.Parts()) != n {
			t.Errorf("%s: expected %d parts, got %d", kind, n, len(o.Parts()))
		}
	}

	size := win.Bounds().Size()
	if gomath.Abs(size.X-1.1) > 1e-9 || gomath.Abs(size.Y-1.1) > 1e-9 {
		t.Errorf("expected window footprint 1.1x1.1, got %v", size)
	}
}

func TestRemoveOpeningRestoresBaseline(t *testing.T) {
	w := straightWall()
	full := w.CarvingMesh().Volume()

	a, _ := w.AddOpening(KindPlain, WithOffset(-1))
	b, _ := w.AddOpening(KindPlain, WithOffset(1))

	if err := w.RemoveOpening(a); err != nil {
		t.Fatalf("RemoveOpening failed: %v", err)
	}
	if len(w.Openings()) != 1 || w.Openings()[0] != b {
		t.Fatal("expected only the second opening to remain")
	}
	if !a.CarvingMesh().Disposed() {
		t.Error("expected removed opening meshes to be disposed")
	}

	expected := full - 1.1*1.1*DefaultWidth
	if got := w.CarvingMesh().Volume(); gomath.Abs(got-expected) > volumeTolerance {
		t.Errorf("expected volume %v, got %v", expected, got)
	}

	other := straightWall()
	foreign, _ := other.AddOpening(KindDoor)
	if err := w.RemoveOpening(foreign); !errors.Is(err, ErrForeignOpening) {
		t.Errorf("expected ErrForeignOpening, got %v", err)
	}
}

func TestRecarveDisposesPreviousMesh(t *testing.T) {
	w := straightWall()
	before := w.CarvingMesh()

	w.AddOpening(KindPlain)
	if !before.Disposed() {
		t.Error("expected superseded carving mesh to be disposed")
	}
	if w.CarvingMesh().Owner != w.ID {
		t.Error("expected carving mesh to be owned by the wall")
	}
}

func TestSubtractVolumeReplayed(t *testing.T) {
	a := straightWall()
	b := Build(math.Vec3{X: 2, Z: -1}, math.Vec3{X: 2, Z: 1}, DefaultWidth, DefaultHeight)

	full := a.CarvingMesh().Volume()
	overlap := DefaultWidth * DefaultWidth * DefaultHeight

	a.SubtractVolume(b)
	if got := a.CarvingMesh().Volume(); gomath.Abs(got-(full-overlap)) > volumeTolerance {
		t.Fatalf("expected volume %v after joint cut, got %v", full-overlap, got)
	}
	if got := b.CarvingMesh().Volume(); gomath.Abs(got-full/2) > volumeTolerance {
		t.Errorf("expected the other wall untouched, got volume %v", got)
	}

	a.AddOpening(KindPlain, WithOffset(-1))
	hole := 1.1 * 1.1 * DefaultWidth
	if got := a.CarvingMesh().Volume(); gomath.Abs(got-(full-overlap-hole)) > volumeTolerance {
		t.Errorf("expected joint cut to survive recarve, got volume %v", got)
	}

	if !a.DropVolume(b.ID) {
		t.Fatal("expected DropVolume to report a change")
	}
	if got := a.CarvingMesh().Volume(); gomath.Abs(got-(full-hole)) > volumeTolerance {
		t.Errorf("expected volume %v after dropping the cut, got %v", full-hole, got)
	}
	if a.DropVolume(uuid.New()) {
		t.Error("expected no change for an unknown source")
	}
}

func TestSubtractVolumeNoGeometryIsNoop(t *testing.T) {
	a := straightWall()
	b := straightWall()
	b.baseline.Dispose()

	before := a.CarvingMesh()
	a.SubtractVolume(b)

	if a.CarvingMesh() != before || before.Disposed() {
		t.Error("expected carving mesh to stay intact")
	}
	if len(a.CutSources()) != 0 {
		t.Error("expected no recorded cut")
	}
}

func TestTranslateKeepsGeometry(t *testing.T) {
	w := straightWall()
	o, _ := w.AddOpening(KindPlain)
	carving := w.CarvingMesh()

	delta := math.Vec3{X: 1, Z: 2}
	w.Translate(delta)

	if w.CarvingMesh() != carving {
		t.Error("Translate should not recarve")
	}
	if !w.P1.ApproxEqual(delta, 1e-12) {
		t.Errorf("expected P1 %v, got %v", delta, w.P1)
	}
	pos := o.WorldTransform().Position()
	if !pos.ApproxEqual(math.Vec3{X: 3, Y: 1, Z: 2}, 1e-9) {
		t.Errorf("expected opening to follow the wall, got %v", pos)
	}
	if w.Layers().Len() != carving.VertexCount()+2*w.Markers()[0].Mesh.VertexCount() {
		t.Error("expected layers to be recomputed")
	}
}

func TestDeleteReleasesMeshes(t *testing.T) {
	w := straightWall()
	o, _ := w.AddOpening(KindDoor)
	carving := w.CarvingMesh()
	markers := w.Markers()

	w.Delete()

	if !carving.Disposed() || !o.CarvingMesh().Disposed() {
		t.Error("expected carving meshes to be disposed")
	}
	for i, m := range markers {
		if !m.Mesh.Disposed() {
			t.Errorf("expected marker %d to be disposed", i)
		}
	}
	if len(w.Openings()) != 0 {
		t.Error("expected openings to be removed")
	}
	if _, err := w.AddOpening(KindPlain); !errors.Is(err, ErrDeleted) {
		t.Errorf("expected ErrDeleted, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("expected %s, got %s (%v)", k, got, err)
		}
	}
	if _, err := ParseKind("skylight"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestAddOpeningUnknownKind(t *testing.T) {
	w := straightWall()
	before := w.CarvingMesh()

	if _, err := w.AddOpening(Kind("skylight")); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if len(w.Openings()) != 0 {
		t.Error("expected no opening to be added")
	}
	if w.CarvingMesh() != before {
		t.Error("expected the wall not to be recarved")
	}
}

func TestCatalogFallback(t *testing.T) {
	c := Catalog{KindDoor: {Width: 1.2, Height: 2.0}}
	if c.Frame(KindDoor).Width != 1.2 {
		t.Error("expected catalog override")
	}
	if c.Frame(KindCross) != (FrameSize{Width: 1, Height: 1}) {
		t.Errorf("expected stock window size, got %+v", c.Frame(KindCross))
	}

	w := Build(math.Vec3{}, math.Vec3{X: 4}, 0.2, 2.5, WithCatalog(c))
	o, _ := w.AddOpening(KindDoor)
	if o.Frame.Height != 2.0 {
		t.Errorf("expected door height 2.0, got %v", o.Frame.Height)
	}
}
