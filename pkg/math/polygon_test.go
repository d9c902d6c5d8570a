package math

import (
	"math"
	"testing"
)

func rectangle() []Vec3 {
	return []Vec3{{0, 0, 0}, {3, 0, 0}, {3, 0, 4}, {0, 0, 4}}
}

func TestAreaXZRectangle(t *testing.T) {
	got := AreaXZ(rectangle())
	if math.Abs(got-12) > 1e-9 {
		t.Errorf("expected area 12, got %v", got)
	}
}

func TestAreaXZClosedLoop(t *testing.T) {
	loop := append(rectangle(), Vec3{0, 0, 0})
	if got := AreaXZ(loop); math.Abs(got-12) > 1e-9 {
		t.Errorf("closing point should not change the area, got %v", got)
	}
}

func TestSignedAreaXZOrientation(t *testing.T) {
	ccw := []Vec3{{0, 0, 0}, {0, 0, 1}, {1, 0, 1}, {1, 0, 0}}
	if SignedAreaXZ(ccw) <= 0 {
		t.Errorf("expected positive area for counter-clockwise loop, got %v", SignedAreaXZ(ccw))
	}
	if SignedAreaXZ(rectangle()) >= 0 {
		t.Errorf("expected negative area for clockwise loop, got %v", SignedAreaXZ(rectangle()))
	}
}

func TestSignedAreaXZDegenerate(t *testing.T) {
	if got := SignedAreaXZ([]Vec3{{0, 0, 0}, {1, 0, 0}}); got != 0 {
		t.Errorf("expected 0 for two points, got %v", got)
	}
}

func TestPerimeterXZ(t *testing.T) {
	if got := PerimeterXZ(rectangle()); math.Abs(got-14) > 1e-9 {
		t.Errorf("expected perimeter 14, got %v", got)
	}
}

func TestCentroid(t *testing.T) {
	got := Centroid(rectangle())
	if !got.ApproxEqual(Vec3{1.5, 0, 2}, 1e-12) {
		t.Errorf("expected (1.5, 0, 2), got %v", got)
	}
}

func TestInTriangleXZ(t *testing.T) {
	a, b, c := Vec3{0, 0, 0}, Vec3{0, 0, 2}, Vec3{2, 0, 0}
	if CrossXZ(a, b, c) <= 0 {
		t.Fatal("fixture triangle must be counter-clockwise")
	}
	if !InTriangleXZ(Vec3{0.5, 0, 0.5}, a, b, c, 1e-9) {
		t.Error("expected interior point to be inside")
	}
	if InTriangleXZ(Vec3{1, 0, 0}, a, b, c, 1e-9) {
		t.Error("point on an edge must not count as strictly inside")
	}
	if InTriangleXZ(Vec3{3, 0, 3}, a, b, c, 1e-9) {
		t.Error("expected exterior point to be outside")
	}
}

func TestPlaneDistance(t *testing.T) {
	p := PlaneFromNormalAndPoint(Vec3{0, 0, 2}, Vec3{5, 1, 3})
	if got := p.DistanceToPoint(Vec3{0, 0, 4}); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected distance 1, got %v", got)
	}
	if got := p.Flip().DistanceToPoint(Vec3{0, 0, 4}); math.Abs(got+1) > 1e-12 {
		t.Errorf("expected flipped distance -1, got %v", got)
	}
}
