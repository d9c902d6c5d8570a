package wall

import (
	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// Opening part dimensions.
const (
	carveMargin    = 0.1
	barThickness   = 0.1
	panelDepth     = 0.02
	glazingBarSize = 0.05
	glazingDepth   = 0.03

	// DefaultWindowElevation is the height of a window centre above the floor.
	DefaultWindowElevation = 1.0
)

// Part is a presentational piece of an opening placed in opening-local space.
type Part struct {
	Name      string
	Mesh      *mesh.Mesh
	Transform math.Mat4
}

// Opening is a window or door hosted by exactly one wall. Its position is
// relative to the host: Offset runs along the wall from its midpoint and
// Elevation is the height of the opening centre above the wall base.
type Opening struct {
	ID    uuid.UUID
	Kind  Kind
	Frame FrameSize

	offset    float64
	elevation float64

	host    *Wall
	carving *mesh.Mesh
	parts   []Part
}

// OpeningOption configures a new opening.
type OpeningOption func(*openingSettings)

type openingSettings struct {
	offset       float64
	elevation    float64
	hasElevation bool
	frame        *FrameSize
}

// WithOffset places the opening along the wall relative to its midpoint.
func WithOffset(offset float64) OpeningOption {
	return func(s *openingSettings) { s.offset = offset }
}

// WithElevation sets the height of the opening centre above the floor.
func WithElevation(elevation float64) OpeningOption {
	return func(s *openingSettings) {
		s.elevation = elevation
		s.hasElevation = true
	}
}

// WithFrame overrides the catalog frame size.
func WithFrame(f FrameSize) OpeningOption {
	return func(s *openingSettings) { s.frame = &f }
}

func newOpening(host *Wall, kind Kind, opts ...OpeningOption) *Opening {
	var s openingSettings
	for _, opt := range opts {
		opt(&s)
	}

	frame := host.catalog.Frame(kind)
	if s.frame != nil {
		frame = *s.frame
	}

	o := &Opening{
		ID:     uuid.New(),
		Kind:   kind,
		Frame:  frame,
		offset: s.offset,
		host:   host,
	}

	switch {
	case s.hasElevation:
		o.elevation = s.elevation
	case kind == KindDoor:
		o.elevation = frame.Height / 2
	default:
		o.elevation = DefaultWindowElevation
	}

	o.carving = mesh.Box(o.ID, frame.Width+carveMargin, frame.Height+carveMargin, host.Width+carveMargin)
	o.parts = buildParts(o.ID, kind, frame)
	return o
}

func buildParts(owner uuid.UUID, kind Kind, f FrameSize) []Part {
	fw, fh := f.Width, f.Height
	parts := []Part{
		{"frame-left", mesh.Box(owner, barThickness, fh+carveMargin, barThickness), math.Translate(-fw/2, 0, 0)},
		{"frame-right", mesh.Box(owner, barThickness, fh+carveMargin, barThickness), math.Translate(fw/2, 0, 0)},
		{"frame-top", mesh.Box(owner, fw+carveMargin, barThickness, barThickness), math.Translate(0, fh/2, 0)},
		{"frame-bottom", mesh.Box(owner, fw+carveMargin, barThickness, barThickness), math.Translate(0, -fh/2, 0)},
	}

	panel := "glass"
	if kind == KindDoor {
		panel = "door"
	}
	parts = append(parts, Part{panel, mesh.Box(owner, fw, fh, panelDepth), math.Identity()})

	if kind == KindCross || kind == KindVertical {
		parts = append(parts, Part{"glazing-vertical", mesh.Box(owner, glazingBarSize, fh, glazingDepth), math.Identity()})
	}
	if kind == KindCross {
		parts = append(parts, Part{"glazing-horizontal", mesh.Box(owner, fw, glazingBarSize, glazingDepth), math.Identity()})
	}
	return parts
}

// Host returns the wall the opening belongs to.
func (o *Opening) Host() *Wall {
	return o.host
}

// Offset returns the position along the wall relative to its midpoint.
func (o *Opening) Offset() float64 {
	return o.offset
}

// Elevation returns the height of the opening centre above the floor.
func (o *Opening) Elevation() float64 {
	return o.elevation
}

// SetOffset moves the opening along its wall. The host is not recarved.
func (o *Opening) SetOffset(offset float64) {
	o.offset = offset
}

// SetElevation moves the opening vertically. The host is not recarved.
func (o *Opening) SetElevation(elevation float64) {
	o.elevation = elevation
}

// LocalTransform places the opening in wall-local space.
func (o *Opening) LocalTransform() math.Mat4 {
	return math.Translate(o.offset, o.elevation, 0)
}

// WorldTransform places the opening in the world through its host.
func (o *Opening) WorldTransform() math.Mat4 {
	return o.host.Transform().Mul(o.LocalTransform())
}

// CarvingMesh returns the invisible box subtracted from the host.
func (o *Opening) CarvingMesh() *mesh.Mesh {
	return o.carving
}

// Parts returns the frame, panel and glazing pieces.
func (o *Opening) Parts() []Part {
	return o.parts
}

// Bounds returns the footprint of all parts in opening-local space.
func (o *Opening) Bounds() mesh.Bounds {
	b := mesh.EmptyBounds()
	for _, p := range o.parts {
		b = b.Union(p.Mesh.WorldBounds(p.Transform))
	}
	return b
}

func (o *Opening) dispose() {
	o.carving.Dispose()
	for _, p := range o.parts {
		p.Mesh.Dispose()
	}
	o.parts = nil
	o.host = nil
}
