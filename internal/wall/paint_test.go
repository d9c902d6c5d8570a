package wall

import (
	"testing"

	"github.com/Faultbox/floorplan/pkg/mesh"
)

var red = mesh.Color{R: 0.8, G: 0.1, B: 0.1}

func regionHas(t *testing.T, w *Wall, region Region, c mesh.Color) {
	t.Helper()
	for _, ref := range w.Layers().Region(region) {
		if got := w.colorAt(ref); !got.ApproxEqual(c, colorTolerance) {
			t.Fatalf("%s: vertex %+v has colour %v, expected %v", region, ref, got, c)
		}
	}
}

func TestApplyColorRegions(t *testing.T) {
	w := straightWall()
	w.ApplyColor(red, Inside)

	regionHas(t, w, Inside, red)
	regionHas(t, w, Outside, mesh.White)

	c, ok := w.Color(Inside)
	if !ok || c != red {
		t.Errorf("expected recorded inside colour %v, got %v", red, c)
	}
}

func TestApplyColorIdempotent(t *testing.T) {
	w := straightWall()
	w.ApplyColor(red, Outside)

	rev := w.CarvingMesh().ColorRevision
	markerRev := w.Markers()[0].Mesh.ColorRevision
	snapshot := append([]mesh.Color(nil), w.CarvingMesh().Colors...)

	w.ApplyColor(red, Outside)

	if w.CarvingMesh().ColorRevision != rev {
		t.Errorf("expected no write on repeated paint, revision %d -> %d", rev, w.CarvingMesh().ColorRevision)
	}
	if w.Markers()[0].Mesh.ColorRevision != markerRev {
		t.Error("expected no marker write on repeated paint")
	}
	for i, c := range w.CarvingMesh().Colors {
		if c != snapshot[i] {
			t.Fatalf("vertex %d changed colour", i)
		}
	}
}

func TestPaintSurvivesRecarve(t *testing.T) {
	w := straightWall()
	w.ApplyColor(red, Inside)

	if _, err := w.AddOpening(KindCross); err != nil {
		t.Fatalf("AddOpening failed: %v", err)
	}
	regionHas(t, w, Inside, red)
	regionHas(t, w, Outside, mesh.White)

	w.RemoveOpening(w.Openings()[0])
	regionHas(t, w, Inside, red)
}

func TestApplyColorUnknownRegion(t *testing.T) {
	w := straightWall()
	rev := w.CarvingMesh().ColorRevision

	w.ApplyColor(red, Region("ceiling"))

	if w.CarvingMesh().ColorRevision != rev {
		t.Error("expected unknown region to be a no-op")
	}
	if len(w.Paint()) != 0 {
		t.Error("expected nothing recorded for an unknown region")
	}
}

func TestMarkersPainted(t *testing.T) {
	w := straightWall()
	w.ApplyColor(red, Outside)

	painted := 0
	for _, ref := range w.Layers().Outside {
		if ref.Kind == MarkerVertex {
			if w.colorAt(ref) != red {
				t.Fatalf("marker vertex %+v not painted", ref)
			}
			painted++
		}
	}
	if painted == 0 {
		t.Error("expected outside marker vertices")
	}
}
