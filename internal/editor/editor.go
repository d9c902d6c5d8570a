// Package editor drives a floor-plan editing session.
//
// Corners are placed one at a time; every corner after the first builds a
// wall from the previous one. Finalizing the chain resolves wall joints,
// closes the loop over walls placed earlier and turns it into a room with a
// floor slab. Openings and paint are applied to placed walls.
package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/floorplan/internal/config"
	"github.com/Faultbox/floorplan/internal/logger"
	"github.com/Faultbox/floorplan/internal/room"
	"github.com/Faultbox/floorplan/internal/wall"
	"github.com/Faultbox/floorplan/pkg/csg"
	"github.com/Faultbox/floorplan/pkg/math"
)

// jointEpsilon is the minimum bounds overlap treated as a wall joint.
const jointEpsilon = 1e-6

var (
	// ErrNotFound is returned for unknown wall or opening IDs.
	ErrNotFound = errors.New("not found")
	// ErrClosed is returned by operations on a closed editor.
	ErrClosed = errors.New("editor closed")
	// ErrShortChain is returned when a chain has fewer than two corners.
	ErrShortChain = errors.New("chain needs at least two corners")
	// ErrZeroLength is returned when a corner repeats the previous one.
	ErrZeroLength = errors.New("wall has zero length")
	// ErrChainWall is returned when deleting a wall of the open chain.
	ErrChainWall = errors.New("wall belongs to the open chain")
	// ErrInvalidSize is returned for non-positive wall dimensions.
	ErrInvalidSize = errors.New("wall size must be positive")
)

// Settings holds the construction defaults of a session.
type Settings struct {
	WallWidth    float64
	WallHeight   float64
	Catalog      wall.Catalog
	Floor        room.FloorOptions
	CutterMargin float64
	Engine       csg.Engine
}

// DefaultSettings returns the stock session settings.
func DefaultSettings() Settings {
	return Settings{
		WallWidth:    wall.DefaultWidth,
		WallHeight:   wall.DefaultHeight,
		Catalog:      wall.DefaultCatalog(),
		Floor:        room.DefaultFloorOptions(),
		CutterMargin: room.DefaultCutterMargin,
		Engine:       csg.NewBSP(),
	}
}

// SettingsFromConfig maps loaded configuration onto session settings.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	engine, err := csg.New(cfg.CSG.Engine)
	if err != nil {
		return Settings{}, fmt.Errorf("selecting csg engine: %w", err)
	}
	if cfg.Walls.Width <= 0 || cfg.Walls.Height <= 0 {
		return Settings{}, fmt.Errorf("wall defaults %gx%g: %w", cfg.Walls.Width, cfg.Walls.Height, ErrInvalidSize)
	}

	catalog := wall.DefaultCatalog()
	for kind, f := range map[wall.Kind]config.FrameConfig{
		wall.KindPlain:    cfg.Catalog.Plain,
		wall.KindCross:    cfg.Catalog.Cross,
		wall.KindVertical: cfg.Catalog.Vertical,
		wall.KindDoor:     cfg.Catalog.Door,
	} {
		if f.Width > 0 && f.Height > 0 {
			catalog[kind] = wall.FrameSize{Width: f.Width, Height: f.Height}
		}
	}

	return Settings{
		WallWidth:  cfg.Walls.Width,
		WallHeight: cfg.Walls.Height,
		Catalog:    catalog,
		Floor: room.FloorOptions{
			Lift:      cfg.Floor.Lift,
			Thickness: cfg.Floor.Thickness,
			Epsilon:   cfg.Floor.Epsilon,
		},
		CutterMargin: cfg.Floor.CutterMargin,
		Engine:       engine,
	}, nil
}

// Editor is a single editing session. It is not safe for concurrent use.
type Editor struct {
	settings Settings

	// every wall built by a chain, in creation order, deleted ones included
	history []*wall.Wall
	placed  []*wall.Wall
	rooms   []*room.Room

	corners []math.Vec3
	pending []*wall.Wall
	sizes   []WallSize

	chains  []Chain
	moves   []MoveSpec
	deleted []int

	closed bool
	log    *zap.Logger
}

// New creates an empty editing session.
func New(settings Settings) *Editor {
	def := DefaultSettings()
	if settings.WallWidth <= 0 {
		settings.WallWidth = def.WallWidth
	}
	if settings.WallHeight <= 0 {
		settings.WallHeight = def.WallHeight
	}
	if settings.Catalog == nil {
		settings.Catalog = def.Catalog
	}
	if settings.Engine == nil {
		settings.Engine = def.Engine
	}
	return &Editor{
		settings: settings,
		log:      logger.Named("editor"),
	}
}

// Settings returns the current session settings.
func (e *Editor) Settings() Settings {
	return e.settings
}

// SetWallSize changes the dimensions used for walls placed from now on.
func (e *Editor) SetWallSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidSize
	}
	e.settings.WallWidth = width
	e.settings.WallHeight = height
	return nil
}

// Walls returns the live placed walls followed by the open chain's walls.
func (e *Editor) Walls() []*wall.Wall {
	out := make([]*wall.Wall, 0, len(e.placed)+len(e.pending))
	out = append(out, e.placed...)
	return append(out, e.pending...)
}

// Rooms returns the live rooms.
func (e *Editor) Rooms() []*room.Room {
	return e.rooms
}

// Chain returns the corners of the open chain.
func (e *Editor) Chain() []math.Vec3 {
	return e.corners
}

// Wall looks up a live wall by ID.
func (e *Editor) Wall(id uuid.UUID) (*wall.Wall, error) {
	for _, w := range e.Walls() {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, fmt.Errorf("wall %s: %w", id, ErrNotFound)
}

// AddCorner places the next corner of the open chain. The first corner only
// starts the chain; every later one returns the wall built from the previous
// corner.
func (e *Editor) AddCorner(p math.Vec3) (*wall.Wall, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if len(e.corners) == 0 {
		e.corners = append(e.corners, p)
		e.log.Debug("chain started", zap.Float64("x", p.X), zap.Float64("z", p.Z))
		return nil, nil
	}

	prev := e.corners[len(e.corners)-1]
	if prev.XZ().Distance(p.XZ()) < room.SnapTolerance {
		return nil, ErrZeroLength
	}

	w := wall.Build(prev, p, e.settings.WallWidth, e.settings.WallHeight,
		wall.WithEngine(e.settings.Engine),
		wall.WithCatalog(e.settings.Catalog))

	e.corners = append(e.corners, p)
	e.pending = append(e.pending, w)
	e.sizes = append(e.sizes, WallSize{Width: w.Width, Height: w.Height})
	e.history = append(e.history, w)

	e.log.Debug("wall placed",
		logger.ID("wall", w.ID),
		zap.Float64("length", w.Length))
	return w, nil
}

// UndoLastPoint removes the last corner of the open chain together with the
// wall it created. Returns false when there is no chain.
func (e *Editor) UndoLastPoint() bool {
	if e.closed || len(e.corners) == 0 {
		return false
	}
	e.corners = e.corners[:len(e.corners)-1]

	if n := len(e.pending); n > 0 {
		w := e.pending[n-1]
		e.pending = e.pending[:n-1]
		e.sizes = e.sizes[:n-1]
		e.history = e.history[:len(e.history)-1]
		w.Delete()
		e.log.Debug("wall undone", logger.ID("wall", w.ID))
	}
	return true
}

// FinalizeChain ends the open chain. Joints with older walls are resolved
// and the chain's walls join the placed set. When the chain does not return
// to its start the loop is closed over previously placed walls; the closed
// loop becomes a new room whose footprint is cut out of every existing floor.
//
// An unclosable or degenerate loop still keeps the walls, and the error wraps
// room.ErrUnclosable or room.ErrDegenerateFloor.
func (e *Editor) FinalizeChain() (*room.Room, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if len(e.corners) < 2 {
		e.corners = nil
		return nil, ErrShortChain
	}

	corners := e.corners
	chainWalls := e.pending
	loop, routeWalls, closeErr := e.closeLoop(corners)

	e.resolveJoints(chainWalls)
	e.placed = append(e.placed, chainWalls...)
	e.chains = append(e.chains, Chain{
		Points: pointsFrom(corners),
		Walls:  e.sizes,
	})
	e.corners = nil
	e.pending = nil
	e.sizes = nil

	if closeErr != nil {
		e.log.Info("chain kept without room", zap.Int("walls", len(chainWalls)), zap.Error(closeErr))
		return nil, fmt.Errorf("finalizing chain: %w", closeErr)
	}

	floor := room.BuildFloor(loop, e.settings.Floor)
	if floor == nil {
		e.log.Info("chain kept without room", zap.Int("corners", len(loop)), zap.Error(room.ErrDegenerateFloor))
		return nil, fmt.Errorf("finalizing chain: %w", room.ErrDegenerateFloor)
	}

	if cutter := room.BuildCutter(loop, e.settings.Floor, e.settings.CutterMargin); cutter != nil {
		for _, r := range e.rooms {
			r.SubtractFloor(cutter)
		}
		cutter.Dispose()
	}

	walls := append(append([]*wall.Wall(nil), chainWalls...), routeWalls...)
	r := room.New(walls, loop, floor, room.WithEngine(e.settings.Engine))
	e.rooms = append(e.rooms, r)

	e.log.Info("room created",
		logger.ID("room", r.ID),
		zap.Int("walls", len(walls)),
		zap.Float64("area", r.Area()))
	return r, nil
}

// closeLoop returns the room boundary for a finished chain and the placed
// walls the closing route runs along.
func (e *Editor) closeLoop(corners []math.Vec3) ([]math.Vec3, []*wall.Wall, error) {
	first, last := corners[0], corners[len(corners)-1]
	if first.XZ().Distance(last.XZ()) < room.SnapTolerance {
		loop := append([]math.Vec3(nil), corners[:len(corners)-1]...)
		if len(loop) < 3 {
			return nil, nil, room.ErrDegenerateFloor
		}
		return loop, nil, nil
	}

	segments := make([]room.Segment, 0, len(e.placed))
	byID := make(map[uuid.UUID]*wall.Wall, len(e.placed))
	for _, w := range e.placed {
		segments = append(segments, room.Segment{ID: w.ID, A: w.P1, B: w.P2})
		byID[w.ID] = w
	}

	route := room.NewPathFinder(segments).Route(first, last)
	if route.Empty() {
		return nil, nil, room.ErrUnclosable
	}

	loop := append([]math.Vec3(nil), corners...)
	for i := len(route.Points) - 2; i >= 1; i-- {
		loop = append(loop, route.Points[i])
	}
	if len(loop) < 3 {
		return nil, nil, room.ErrDegenerateFloor
	}

	var walls []*wall.Wall
	for _, id := range route.Segments {
		if w, ok := byID[id]; ok {
			walls = append(walls, w)
		}
	}
	return loop, walls, nil
}

// resolveJoints subtracts each new wall from every older wall it overlaps:
// placed walls and the earlier walls of the same chain.
func (e *Editor) resolveJoints(chain []*wall.Wall) {
	for i, w := range chain {
		bounds := w.WorldBounds()
		older := append(append([]*wall.Wall(nil), e.placed...), chain[:i]...)
		for _, o := range older {
			if o.WorldBounds().Intersects(bounds, jointEpsilon) {
				o.SubtractVolume(w)
			}
		}
	}
}

// Close releases every mesh held by the session.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	for _, r := range e.rooms {
		r.Dispose()
	}
	for _, w := range e.history {
		w.Delete()
	}
	e.rooms = nil
	e.placed = nil
	e.pending = nil
	e.corners = nil
	e.closed = true
}
