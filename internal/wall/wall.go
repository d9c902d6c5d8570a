// Package wall models straight wall segments, the openings carved into them
// and their paintable inside/outside surface regions.
package wall

import (
	"errors"
	gomath "math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/floorplan/internal/logger"
	"github.com/Faultbox/floorplan/pkg/csg"
	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// Default wall dimensions.
const (
	DefaultWidth  = 0.2
	DefaultHeight = 2.1
)

var (
	// ErrDeleted is returned by operations on a deleted wall.
	ErrDeleted = errors.New("wall deleted")
	// ErrForeignOpening is returned when an opening belongs to another wall.
	ErrForeignOpening = errors.New("opening belongs to another wall")
)

// Marker is a corner cylinder placed at one wall endpoint.
type Marker struct {
	Mesh      *mesh.Mesh
	Transform math.Mat4
}

// jointCut is a neighbour volume subtracted at a joint, kept in wall-local
// space so it moves with the wall.
type jointCut struct {
	source uuid.UUID
	volume *mesh.Mesh
}

// Wall is a straight box-shaped wall between two endpoints.
//
// The carving mesh lives in wall-local space: x runs along the wall from its
// midpoint, y rises from the wall base and z spans the thickness.
type Wall struct {
	ID     uuid.UUID
	P1, P2 math.Vec3
	Length float64
	Width  float64
	Height float64

	engine  csg.Engine
	catalog Catalog

	carving  *mesh.Mesh
	baseline *mesh.Mesh
	markers  [2]Marker
	openings []*Opening
	cuts     []jointCut

	plane  math.Plane
	layers Layers
	paint  map[Region]mesh.Color

	deleted bool
}

// Option configures a wall.
type Option func(*Wall)

// WithEngine sets the boolean engine used for carving.
func WithEngine(e csg.Engine) Option {
	return func(w *Wall) { w.engine = e }
}

// WithCatalog sets the opening frame sizes.
func WithCatalog(c Catalog) Option {
	return func(w *Wall) { w.catalog = c }
}

// WithID sets the wall identifier.
func WithID(id uuid.UUID) Option {
	return func(w *Wall) { w.ID = id }
}

// New creates a wall from a carving mesh given in wall-local space.
// The mesh is kept as the wall's carving mesh and cloned as its baseline.
func New(carving *mesh.Mesh, p1, p2 math.Vec3, width, height float64, opts ...Option) *Wall {
	w := &Wall{
		ID:     uuid.New(),
		P1:     p1,
		P2:     math.Vec3{X: p2.X, Y: p1.Y, Z: p2.Z},
		Width:  width,
		Height: height,
		paint:  make(map[Region]mesh.Color),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.engine == nil {
		w.engine = csg.NewBSP()
	}
	if w.catalog == nil {
		w.catalog = DefaultCatalog()
	}

	w.Length = w.P1.Distance(w.P2)

	w.carving = carving
	w.carving.Owner = w.ID
	w.carving.FillColor(mesh.White)
	w.baseline = carving.Clone()

	for i := range w.markers {
		m := mesh.Cylinder(w.ID, width/2, height, mesh.DefaultCylinderSegments)
		m.FillColor(mesh.White)
		w.markers[i].Mesh = m
	}
	w.placeMarkers()
	w.updatePlane()
	w.layers = Classify(w)

	return w
}

// Build creates a standard box wall of the given dimensions between p1 and p2.
func Build(p1, p2 math.Vec3, width, height float64, opts ...Option) *Wall {
	length := p1.Distance(math.Vec3{X: p2.X, Y: p1.Y, Z: p2.Z})
	box := mesh.Box(uuid.Nil, length, height, width).Transformed(math.Translate(0, height/2, 0))
	return New(box, p1, p2, width, height, opts...)
}

// Angle returns the plan angle of the wall direction, atan2(dz, dx).
func (w *Wall) Angle() float64 {
	d := w.P2.Sub(w.P1)
	return gomath.Atan2(d.Z, d.X)
}

// Center returns the midpoint between the endpoints.
func (w *Wall) Center() math.Vec3 {
	return w.P1.Midpoint(w.P2)
}

// Transform places wall-local space in the world.
func (w *Wall) Transform() math.Mat4 {
	c := w.Center()
	return math.Translate(c.X, w.P1.Y, c.Z).Mul(math.RotateY(-w.Angle()))
}

// Plane returns the vertical splitting plane through the centreline.
func (w *Wall) Plane() math.Plane {
	return w.plane
}

// CarvingMesh returns the current wall volume in wall-local space.
func (w *Wall) CarvingMesh() *mesh.Mesh {
	return w.carving
}

// Markers returns the two corner markers.
func (w *Wall) Markers() [2]Marker {
	return w.markers
}

// Openings returns the hosted openings in carving order.
func (w *Wall) Openings() []*Opening {
	return w.openings
}

// Layers returns the current surface classification.
func (w *Wall) Layers() Layers {
	return w.layers
}

// Deleted reports whether Delete has been called.
func (w *Wall) Deleted() bool {
	return w.deleted
}

// WorldBounds returns the world-space bounding box of the wall volume.
func (w *Wall) WorldBounds() mesh.Bounds {
	return w.carving.WorldBounds(w.Transform())
}

// Volume returns the wall volume placed in the world. The caller owns the
// returned mesh.
func (w *Wall) Volume() *mesh.Mesh {
	return w.carving.Transformed(w.Transform())
}

func (w *Wall) log() *zap.Logger {
	return logger.Named("wall").With(logger.ID("wall", w.ID))
}

func (w *Wall) placeMarkers() {
	for i, p := range []math.Vec3{w.P1, w.P2} {
		w.markers[i].Transform = math.Translate(p.X, p.Y+w.Height/2, p.Z)
	}
}

func (w *Wall) updatePlane() {
	d := w.P2.Sub(w.P1)
	normal := math.Vec3{X: d.Z, Z: -d.X}
	w.plane = math.PlaneFromNormalAndPoint(normal, w.Center())
}

// AddOpening creates an opening of the given kind at the wall midpoint and
// recarves the wall.
func (w *Wall) AddOpening(kind Kind, opts ...OpeningOption) (*Opening, error) {
	if w.deleted {
		return nil, ErrDeleted
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	o := newOpening(w, kind, opts...)
	w.openings = append(w.openings, o)
	w.Recarve()

	w.log().Debug("opening added",
		logger.ID("opening", o.ID),
		zap.String("kind", string(kind)),
		zap.Float64("offset", o.offset),
		zap.Float64("elevation", o.elevation))
	return o, nil
}

// RemoveOpening deletes an opening and recarves the wall from its baseline.
func (w *Wall) RemoveOpening(o *Opening) error {
	if w.deleted {
		return ErrDeleted
	}
	for i, existing := range w.openings {
		if existing == o {
			w.openings = append(w.openings[:i], w.openings[i+1:]...)
			o.dispose()
			w.Recarve()
			return nil
		}
	}
	return ErrForeignOpening
}

// Recarve rebuilds the carving mesh from the baseline: recorded joint cuts are
// replayed, then every opening is subtracted in order. Paint is restored.
func (w *Wall) Recarve() {
	if w.deleted {
		return
	}
	world := w.Transform()

	current, err := w.engine.FromMesh(w.baseline, world)
	if err != nil {
		w.log().Warn("recarve skipped", zap.Error(err))
		return
	}

	for _, cut := range w.cuts {
		operand, err := w.engine.FromMesh(cut.volume, world)
		if err != nil {
			w.log().Warn("joint cut skipped", logger.ID("source", cut.source), zap.Error(err))
			continue
		}
		current = w.engine.Subtract(current, operand)
	}

	for _, o := range w.openings {
		operand, err := w.engine.FromMesh(o.carving, o.WorldTransform())
		if err != nil {
			w.log().Warn("opening skipped", logger.ID("opening", o.ID), zap.Error(err))
			continue
		}
		current = w.engine.Subtract(current, operand)
	}

	w.replaceCarving(w.engine.ToMesh(current, world))
}

// SubtractVolume removes other's volume from this wall. The cut is recorded
// so later recarves replay it.
//
// The operand is other's baseline box, not its carving: openings in other do
// not reopen this wall at the joint, and the recorded cut stays valid when
// other is recarved later.
func (w *Wall) SubtractVolume(other *Wall) {
	if w.deleted || other == nil || other.deleted || other == w {
		return
	}
	world := w.Transform()

	current, err := w.engine.FromMesh(w.carving, world)
	if err != nil {
		w.log().Warn("subtract skipped", zap.Error(err))
		return
	}
	operand, err := w.engine.FromMesh(other.baseline, other.Transform())
	if err != nil {
		w.log().Warn("subtract skipped", logger.ID("other", other.ID), zap.Error(err))
		return
	}

	// Store the neighbour volume relative to this wall.
	local := other.baseline.Transformed(world.Inverse().Mul(other.Transform()))
	local.Owner = w.ID
	w.cuts = append(w.cuts, jointCut{source: other.ID, volume: local})

	w.replaceCarving(w.engine.ToMesh(w.engine.Subtract(current, operand), world))
	w.log().Debug("joint resolved", logger.ID("other", other.ID))
}

// DropVolume forgets every joint cut taken from the given wall and recarves.
// Returns whether anything changed.
func (w *Wall) DropVolume(source uuid.UUID) bool {
	kept := w.cuts[:0]
	dropped := false
	for _, cut := range w.cuts {
		if cut.source == source {
			cut.volume.Dispose()
			dropped = true
			continue
		}
		kept = append(kept, cut)
	}
	w.cuts = kept
	if dropped {
		w.Recarve()
	}
	return dropped
}

// CutSources returns the walls whose volumes were subtracted from this one.
func (w *Wall) CutSources() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(w.cuts))
	for _, cut := range w.cuts {
		out = append(out, cut.source)
	}
	return out
}

// replaceCarving swaps in a new carving mesh, disposing the old one, then
// reclassifies and restores paint.
func (w *Wall) replaceCarving(next *mesh.Mesh) {
	next.Owner = w.ID
	next.FillColor(mesh.White)

	w.carving.Dispose()
	w.carving = next

	w.layers = Classify(w)
	w.RestoreColors()
}

// Translate moves the wall rigidly. Openings and joint cuts follow through
// their wall-relative placement; the carving mesh is not rebuilt.
func (w *Wall) Translate(delta math.Vec3) {
	if w.deleted {
		return
	}
	w.P1 = w.P1.Add(delta)
	w.P2 = w.P2.Add(delta)
	w.placeMarkers()
	w.updatePlane()
	w.layers = Classify(w)
}

// Delete releases every mesh owned by the wall and its openings.
func (w *Wall) Delete() {
	if w.deleted {
		return
	}
	for _, o := range w.openings {
		o.dispose()
	}
	w.openings = nil
	for _, cut := range w.cuts {
		cut.volume.Dispose()
	}
	w.cuts = nil
	for i := range w.markers {
		w.markers[i].Mesh.Dispose()
	}
	w.carving.Dispose()
	w.baseline.Dispose()
	w.layers = Layers{}
	w.deleted = true
}
