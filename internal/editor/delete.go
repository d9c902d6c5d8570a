package editor

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/floorplan/internal/logger"
	"github.com/Faultbox/floorplan/internal/room"
	"github.com/Faultbox/floorplan/internal/wall"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// DeleteWall removes a placed wall. Its openings go with it, rooms drop it
// from their boundary and are disposed once fewer than room.MinWalls remain,
// and neighbours that were cut by it are recarved without the cut.
func (e *Editor) DeleteWall(id uuid.UUID) error {
	if e.closed {
		return ErrClosed
	}
	for _, w := range e.pending {
		if w.ID == id {
			return fmt.Errorf("deleting wall %s: %w", id, ErrChainWall)
		}
	}

	idx := -1
	for i, w := range e.placed {
		if w.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("wall %s: %w", id, ErrNotFound)
	}
	w := e.placed[idx]
	e.placed = append(e.placed[:idx], e.placed[idx+1:]...)

	kept := e.rooms[:0]
	for _, r := range e.rooms {
		if r.HasWall(w) && r.RemoveWall(w) {
			e.log.Info("room removed", logger.ID("room", r.ID), logger.ID("wall", id))
			r.Dispose()
			continue
		}
		kept = append(kept, r)
	}
	e.rooms = kept

	for _, other := range e.placed {
		other.DropVolume(w.ID)
	}

	w.Delete()
	e.deleted = append(e.deleted, e.index(w))
	e.log.Debug("wall deleted", logger.ID("wall", id), zap.Int("rooms", len(e.rooms)))
	return nil
}

// Paint colours one surface region of a wall. Unknown regions are ignored.
func (e *Editor) Paint(wallID uuid.UUID, region wall.Region, c mesh.Color) error {
	if e.closed {
		return ErrClosed
	}
	w, err := e.Wall(wallID)
	if err != nil {
		return err
	}
	w.ApplyColor(c, region)
	return nil
}

// index returns the creation sequence number of w, or -1.
func (e *Editor) index(w *wall.Wall) int {
	for i, h := range e.history {
		if h == w {
			return i
		}
	}
	return -1
}

// roomsOf returns the live rooms bounded by w.
func (e *Editor) roomsOf(w *wall.Wall) []*room.Room {
	var out []*room.Room
	for _, r := range e.rooms {
		if r.HasWall(w) {
			out = append(out, r)
		}
	}
	return out
}
