package editor

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/floorplan/internal/logger"
	"github.com/Faultbox/floorplan/internal/wall"
)

// AddOpening inserts a window or door into a wall and recarves it.
func (e *Editor) AddOpening(wallID uuid.UUID, kind wall.Kind, opts ...wall.OpeningOption) (*wall.Opening, error) {
	if e.closed {
		return nil, ErrClosed
	}
	w, err := e.Wall(wallID)
	if err != nil {
		return nil, err
	}
	o, err := w.AddOpening(kind, opts...)
	if err != nil {
		return nil, fmt.Errorf("adding %s opening: %w", kind, err)
	}
	return o, nil
}

// Opening looks up a live opening by ID.
func (e *Editor) Opening(id uuid.UUID) (*wall.Opening, error) {
	for _, w := range e.Walls() {
		for _, o := range w.Openings() {
			if o.ID == id {
				return o, nil
			}
		}
	}
	return nil, fmt.Errorf("opening %s: %w", id, ErrNotFound)
}

// MoveOpening places an opening at a new offset and elevation on its host and
// recarves the host. The offset is clamped so the frame stays within the
// wall length.
func (e *Editor) MoveOpening(id uuid.UUID, offset, elevation float64) error {
	if e.closed {
		return ErrClosed
	}
	o, err := e.Opening(id)
	if err != nil {
		return err
	}
	offset = clampOffset(o, offset)
	o.SetOffset(offset)
	o.SetElevation(elevation)
	o.Host().Recarve()

	e.log.Debug("opening moved",
		logger.ID("opening", id),
		zap.Float64("offset", offset),
		zap.Float64("elevation", elevation))
	return nil
}

// DeleteOpening removes an opening and recarves its host.
func (e *Editor) DeleteOpening(id uuid.UUID) error {
	if e.closed {
		return ErrClosed
	}
	o, err := e.Opening(id)
	if err != nil {
		return err
	}
	if err := o.Host().RemoveOpening(o); err != nil {
		return fmt.Errorf("deleting opening %s: %w", id, err)
	}
	return nil
}

// clampOffset limits offset to ±(length-frame)/2 of the host wall.
func clampOffset(o *wall.Opening, offset float64) float64 {
	limit := (o.Host().Length - o.Frame.Width) / 2
	if limit < 0 {
		limit = 0
	}
	return math.Max(-limit, math.Min(limit, offset))
}
