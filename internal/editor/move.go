package editor

import (
	"fmt"
	gomath "math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/floorplan/internal/logger"
	"github.com/Faultbox/floorplan/internal/wall"
	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// MoveWall slides a placed wall across the plan by delta. The Y component of
// delta is ignored. Openings keep their place on the wall. Rooms bounded by
// the wall lose their closed loop and are disposed, and joints with other
// placed walls are resolved again at the new position.
func (e *Editor) MoveWall(id uuid.UUID, delta math.Vec3) error {
	if e.closed {
		return ErrClosed
	}
	w, err := e.placedWall(id)
	if err != nil {
		return err
	}
	delta.Y = 0
	if delta.Length() == 0 {
		return nil
	}

	kept := e.rooms[:0]
	for _, r := range e.rooms {
		if r.HasWall(w) {
			e.log.Info("room opened by wall move", logger.ID("room", r.ID), logger.ID("wall", id))
			r.Dispose()
			continue
		}
		kept = append(kept, r)
	}
	e.rooms = kept

	for _, source := range w.CutSources() {
		w.DropVolume(source)
	}
	for _, other := range e.placed {
		if other != w {
			other.DropVolume(w.ID)
		}
	}

	w.Translate(delta)

	idx := e.index(w)
	bounds := w.WorldBounds()
	for _, other := range e.placed {
		if other == w || !other.WorldBounds().Intersects(bounds, jointEpsilon) {
			continue
		}
		// The older wall of a joint yields.
		if e.index(other) < idx {
			other.SubtractVolume(w)
		} else {
			w.SubtractVolume(other)
		}
	}

	e.moves = append(e.moves, MoveSpec{Wall: idx, Delta: PointOf(delta), Chain: len(e.chains)})
	e.log.Debug("wall moved",
		logger.ID("wall", id),
		zap.Float64("dx", delta.X),
		zap.Float64("dz", delta.Z),
		zap.Int("rooms", len(e.rooms)))
	return nil
}

// placedWall looks up a wall outside the open chain.
func (e *Editor) placedWall(id uuid.UUID) (*wall.Wall, error) {
	for _, w := range e.pending {
		if w.ID == id {
			return nil, fmt.Errorf("wall %s: %w", id, ErrChainWall)
		}
	}
	for _, w := range e.placed {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, fmt.Errorf("wall %s: %w", id, ErrNotFound)
}

// Hit is the nearest object under a pick ray.
type Hit struct {
	ID       uuid.UUID `json:"id"`
	Kind     string    `json:"kind"`
	Distance float64   `json:"distance"`
}

// Pick casts a ray through the plan and reports the nearest wall, opening or
// floor it hits. Openings report their own ID; everything else reports the
// owning wall or room.
func (e *Editor) Pick(origin, direction math.Vec3) (Hit, bool) {
	if e.closed || direction.Length() == 0 {
		return Hit{}, false
	}
	ray := mesh.NewRay(origin, direction)
	best := Hit{Distance: gomath.Inf(1)}

	try := func(m *mesh.Mesh, world math.Mat4, id uuid.UUID, kind string) {
		if d, ok := m.Raycast(ray, world); ok && d < best.Distance {
			best = Hit{ID: id, Kind: kind, Distance: d}
		}
	}
	for _, w := range e.Walls() {
		try(w.CarvingMesh(), w.Transform(), w.ID, MeshWall)
		for _, o := range w.Openings() {
			world := o.WorldTransform()
			for _, p := range o.Parts() {
				try(p.Mesh, world.Mul(p.Transform), o.ID, MeshOpening)
			}
		}
	}
	for _, r := range e.rooms {
		try(r.Floor(), math.Identity(), r.ID, MeshFloor)
	}

	if gomath.IsInf(best.Distance, 1) {
		return Hit{}, false
	}
	return best, true
}
