package editor

import (
	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/internal/wall"
	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// Mesh kinds reported by Meshes.
const (
	MeshWall    = "wall"
	MeshMarker  = "marker"
	MeshOpening = "opening"
	MeshFloor   = "floor"
)

// WallSummary describes one live wall.
type WallSummary struct {
	ID       uuid.UUID         `json:"id" yaml:"id"`
	Index    int               `json:"index" yaml:"index"`
	P1       Point             `json:"p1" yaml:"p1"`
	P2       Point             `json:"p2" yaml:"p2"`
	Length   float64           `json:"length" yaml:"length"`
	Width    float64           `json:"width" yaml:"width"`
	Height   float64           `json:"height" yaml:"height"`
	Openings []OpeningSummary  `json:"openings,omitempty" yaml:"openings,omitempty"`
	Paint    map[string]string `json:"paint,omitempty" yaml:"paint,omitempty"`
	Rooms    []uuid.UUID       `json:"rooms,omitempty" yaml:"rooms,omitempty"`
	Pending  bool              `json:"pending,omitempty" yaml:"pending,omitempty"`
}

// OpeningSummary describes one opening.
type OpeningSummary struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Kind      wall.Kind `json:"kind" yaml:"kind"`
	Offset    float64   `json:"offset" yaml:"offset"`
	Elevation float64   `json:"elevation" yaml:"elevation"`
	Width     float64   `json:"width" yaml:"width"`
	Height    float64   `json:"height" yaml:"height"`
}

// RoomSummary describes one room.
type RoomSummary struct {
	ID               uuid.UUID   `json:"id" yaml:"id"`
	Walls            []uuid.UUID `json:"walls" yaml:"walls"`
	Corners          []Point     `json:"corners" yaml:"corners"`
	Area             float64     `json:"area" yaml:"area"`
	Circumference    float64     `json:"circumference" yaml:"circumference"`
	PaintSurfaceArea float64     `json:"paintSurfaceArea" yaml:"paint_surface_area"`
	Center           Point       `json:"center" yaml:"center"`
}

// Summary is a plain-data report of the session.
type Summary struct {
	Walls []WallSummary `json:"walls" yaml:"walls"`
	Rooms []RoomSummary `json:"rooms" yaml:"rooms"`
	Chain []Point       `json:"chain,omitempty" yaml:"chain,omitempty"`
}

// MeshData is a flat world-space buffer set ready for a renderer.
type MeshData struct {
	ID       uuid.UUID `json:"id"`
	Owner    uuid.UUID `json:"owner"`
	Kind     string    `json:"kind"`
	PartName string    `json:"partName,omitempty"`
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Colors   []float32 `json:"colors"`
	Indices  []uint32  `json:"indices"`
}

// Summary reports walls, rooms and the open chain.
func (e *Editor) Summary() Summary {
	s := Summary{
		Walls: []WallSummary{},
		Rooms: []RoomSummary{},
		Chain: pointsFrom(e.corners),
	}

	for _, w := range e.Walls() {
		ws := WallSummary{
			ID:      w.ID,
			Index:   e.index(w),
			P1:      PointOf(w.P1),
			P2:      PointOf(w.P2),
			Length:  w.Length,
			Width:   w.Width,
			Height:  w.Height,
			Pending: e.isPending(w),
		}
		for _, o := range w.Openings() {
			ws.Openings = append(ws.Openings, OpeningSummary{
				ID:        o.ID,
				Kind:      o.Kind,
				Offset:    o.Offset(),
				Elevation: o.Elevation(),
				Width:     o.Frame.Width,
				Height:    o.Frame.Height,
			})
		}
		if paint := w.Paint(); len(paint) > 0 {
			ws.Paint = make(map[string]string, len(paint))
			for region, c := range paint {
				ws.Paint[string(region)] = FormatColor(c)
			}
		}
		for _, r := range e.roomsOf(w) {
			ws.Rooms = append(ws.Rooms, r.ID)
		}
		s.Walls = append(s.Walls, ws)
	}

	for _, r := range e.rooms {
		rs := RoomSummary{
			ID:               r.ID,
			Corners:          pointsFrom(r.Corners()),
			Area:             r.Area(),
			Circumference:    r.Circumference(),
			PaintSurfaceArea: r.PaintSurfaceArea(),
			Center:           PointOf(r.Center()),
		}
		for _, w := range r.Walls() {
			rs.Walls = append(rs.Walls, w.ID)
		}
		s.Rooms = append(s.Rooms, rs)
	}
	return s
}

// Meshes bakes every visible mesh of the session into world space.
func (e *Editor) Meshes() []MeshData {
	var out []MeshData
	for _, w := range e.Walls() {
		if d, ok := meshData(w.CarvingMesh(), w.Transform(), MeshWall, ""); ok {
			out = append(out, d)
		}
		for _, m := range w.Markers() {
			if d, ok := meshData(m.Mesh, m.Transform, MeshMarker, ""); ok {
				out = append(out, d)
			}
		}
		for _, o := range w.Openings() {
			world := o.WorldTransform()
			for _, p := range o.Parts() {
				if d, ok := meshData(p.Mesh, world.Mul(p.Transform), MeshOpening, p.Name); ok {
					out = append(out, d)
				}
			}
		}
	}
	for _, r := range e.rooms {
		if d, ok := meshData(r.Floor(), math.Identity(), MeshFloor, ""); ok {
			out = append(out, d)
		}
	}
	return out
}

func (e *Editor) isPending(w *wall.Wall) bool {
	for _, p := range e.pending {
		if p == w {
			return true
		}
	}
	return false
}

func meshData(m *mesh.Mesh, world math.Mat4, kind, part string) (MeshData, bool) {
	if !m.HasGeometry() {
		return MeshData{}, false
	}
	baked := m.Transformed(world)
	defer baked.Dispose()

	d := MeshData{
		ID:       m.ID,
		Owner:    m.Owner,
		Kind:     kind,
		PartName: part,
		Vertices: make([]float32, 0, len(baked.Positions)*3),
		Normals:  make([]float32, 0, len(baked.Normals)*3),
		Colors:   make([]float32, 0, len(baked.Positions)*3),
		Indices:  append([]uint32(nil), baked.Indices...),
	}
	for i, p := range baked.Positions {
		d.Vertices = append(d.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		c := baked.ColorAt(i)
		d.Colors = append(d.Colors, float32(c.R), float32(c.G), float32(c.B))
	}
	for _, n := range baked.Normals {
		d.Normals = append(d.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	if len(d.Indices) == 0 {
		for i := range baked.Positions {
			d.Indices = append(d.Indices, uint32(i))
		}
	}
	return d, true
}
