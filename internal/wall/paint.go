package wall

import (
	"go.uber.org/zap"

	"github.com/Faultbox/floorplan/pkg/mesh"
)

// Region names a paintable side of a wall.
type Region string

// Paint regions.
const (
	Inside  Region = "insideLayer"
	Outside Region = "outsideLayer"
)

// colorTolerance is the per-channel difference under which colours match.
const colorTolerance = 1e-4

// ParseRegion converts a region key, reporting whether it is known.
func ParseRegion(s string) (Region, bool) {
	switch Region(s) {
	case Inside, Outside:
		return Region(s), true
	}
	return "", false
}

// ApplyColor paints every vertex of region. The colour is recorded so it
// survives geometry rebuilds. The write is skipped when the region already
// carries the colour; unknown regions are ignored.
func (w *Wall) ApplyColor(c mesh.Color, region Region) {
	if w.deleted {
		return
	}
	if _, ok := ParseRegion(string(region)); !ok {
		w.log().Debug("unknown paint region", zap.String("region", string(region)))
		return
	}
	w.paint[region] = c

	refs := w.layers.Region(region)
	if len(refs) == 0 {
		return
	}
	if w.colorAt(refs[0]).ApproxEqual(c, colorTolerance) {
		return
	}

	var body []int
	markers := make([][]int, len(w.markers))
	for _, ref := range refs {
		switch ref.Kind {
		case BodyVertex:
			body = append(body, ref.Index)
		case MarkerVertex:
			markers[ref.Marker] = append(markers[ref.Marker], ref.Index)
		}
	}

	if len(body) > 0 {
		w.carving.SetColors(body, c)
	}
	for i, idx := range markers {
		if len(idx) > 0 {
			w.markers[i].Mesh.SetColors(idx, c)
		}
	}
}

// RestoreColors reapplies every recorded region colour.
func (w *Wall) RestoreColors() {
	for _, region := range []Region{Inside, Outside} {
		if c, ok := w.paint[region]; ok {
			w.ApplyColor(c, region)
		}
	}
}

// Color returns the recorded colour of a region.
func (w *Wall) Color(region Region) (mesh.Color, bool) {
	c, ok := w.paint[region]
	return c, ok
}

// Paint returns a copy of the recorded region colours.
func (w *Wall) Paint() map[Region]mesh.Color {
	out := make(map[Region]mesh.Color, len(w.paint))
	for k, v := range w.paint {
		out[k] = v
	}
	return out
}

func (w *Wall) colorAt(ref VertexRef) mesh.Color {
	if ref.Kind == MarkerVertex {
		return w.markers[ref.Marker].Mesh.ColorAt(ref.Index)
	}
	return w.carving.ColorAt(ref.Index)
}
