package room

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/floorplan/internal/logger"
	"github.com/Faultbox/floorplan/internal/wall"
	"github.com/Faultbox/floorplan/pkg/csg"
	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// MinWalls is the number of walls below which a room is destroyed.
const MinWalls = 3

var (
	// ErrUnclosable is returned when a chain cannot be closed over placed walls.
	ErrUnclosable = errors.New("room loop cannot be closed")
	// ErrDegenerateFloor is returned when the loop yields no triangles.
	ErrDegenerateFloor = errors.New("room floor is degenerate")
)

// Room is a closed loop of walls with a floor slab.
type Room struct {
	ID uuid.UUID

	walls   []*wall.Wall
	corners []math.Vec3
	floor   *mesh.Mesh
	engine  csg.Engine

	disposed bool
}

// Option configures a room.
type Option func(*Room)

// WithEngine sets the boolean engine used to trim the floor.
func WithEngine(e csg.Engine) Option {
	return func(r *Room) { r.engine = e }
}

// WithID sets the room identifier.
func WithID(id uuid.UUID) Option {
	return func(r *Room) { r.ID = id }
}

// New creates a room. The room takes ownership of floor, which lives in
// world space.
func New(walls []*wall.Wall, corners []math.Vec3, floor *mesh.Mesh, opts ...Option) *Room {
	r := &Room{
		ID:      uuid.New(),
		walls:   append([]*wall.Wall(nil), walls...),
		corners: append([]math.Vec3(nil), corners...),
		floor:   floor,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		r.engine = csg.NewBSP()
	}
	if r.floor != nil {
		r.floor.Owner = r.ID
	}
	return r
}

// Walls returns the boundary walls.
func (r *Room) Walls() []*wall.Wall {
	return r.walls
}

// Corners returns the boundary loop.
func (r *Room) Corners() []math.Vec3 {
	return r.corners
}

// Floor returns the floor slab, or nil once disposed.
func (r *Room) Floor() *mesh.Mesh {
	return r.floor
}

// Area returns the plan area of the corner loop.
func (r *Room) Area() float64 {
	return math.AreaXZ(r.corners)
}

// Circumference returns the length of the corner loop.
func (r *Room) Circumference() float64 {
	return math.PerimeterXZ(r.corners)
}

// PaintSurfaceArea returns the circumference times the first wall's height.
func (r *Room) PaintSurfaceArea() float64 {
	if len(r.walls) == 0 {
		return 0
	}
	return r.Circumference() * r.walls[0].Height
}

// Center returns the average corner position, used to place labels.
func (r *Room) Center() math.Vec3 {
	return math.Centroid(r.corners)
}

// HasWall reports whether w bounds the room.
func (r *Room) HasWall(w *wall.Wall) bool {
	for _, existing := range r.walls {
		if existing == w {
			return true
		}
	}
	return false
}

// SubtractFloor removes a world-space cutter volume from the floor. Nothing
// checks for overlap first; a disjoint cutter leaves the floor as it was.
func (r *Room) SubtractFloor(cutter *mesh.Mesh) {
	if r.disposed || r.floor == nil {
		return
	}
	log := logger.Named("room").With(logger.ID("room", r.ID))

	next, err := csg.SubtractMesh(r.engine, r.floor, math.Identity(), cutter, math.Identity())
	if err != nil {
		log.Warn("floor subtraction skipped", zap.Error(err))
		return
	}

	next.Owner = r.ID
	next.FillColor(mesh.White)

	r.floor.Dispose()
	r.floor = next
}

// RemoveWall drops w from the boundary. It returns true when the room is
// left with fewer than MinWalls walls and should be disposed.
func (r *Room) RemoveWall(w *wall.Wall) bool {
	kept := r.walls[:0]
	for _, existing := range r.walls {
		if existing != w {
			kept = append(kept, existing)
		}
	}
	r.walls = kept
	return len(r.walls) < MinWalls
}

// Dispose releases the floor.
func (r *Room) Dispose() {
	if r.disposed {
		return
	}
	if r.floor != nil {
		r.floor.Dispose()
		r.floor = nil
	}
	r.walls = nil
	r.disposed = true
}

// Disposed reports whether Dispose has been called.
func (r *Room) Disposed() bool {
	return r.disposed
}
