package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/internal/editor"
	"github.com/Faultbox/floorplan/internal/room"
	"github.com/Faultbox/floorplan/internal/wall"
)

var errBadRequest = errors.New("bad request")

type cornerRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type wallSizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type openingRequest struct {
	Kind      wall.Kind `json:"kind"`
	Offset    float64   `json:"offset"`
	Elevation *float64  `json:"elevation,omitempty"`
}

type moveRequest struct {
	Offset    float64 `json:"offset"`
	Elevation float64 `json:"elevation"`
}

type wallMoveRequest struct {
	DX float64 `json:"dx"`
	DZ float64 `json:"dz"`
}

type pickRequest struct {
	Origin    editor.Point `json:"origin"`
	Direction editor.Point `json:"direction"`
}

type pickResponse struct {
	Hit *editor.Hit `json:"hit"`
}

type paintRequest struct {
	Region wall.Region `json:"region"`
	Color  string      `json:"color"`
}

type finalizeResponse struct {
	Room    *editor.RoomSummary `json:"room"`
	Reason  string              `json:"reason,omitempty"`
	Summary editor.Summary      `json:"summary"`
}

func decodeBody(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return fmt.Errorf("empty body: %w", errBadRequest)
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return fmt.Errorf("invalid json: %w", errBadRequest)
	}
	return nil
}

func paramID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", name, c.Params(name), errBadRequest)
	}
	return id, nil
}

// listPlans returns stored plans without their documents.
func (s *Server) listPlans(c fiber.Ctx) error {
	plans, err := s.store.List(context.Background())
	if err != nil {
		return err
	}
	return c.JSON(plans)
}

// createPlan stores a new plan from an optional document body.
func (s *Server) createPlan(c fiber.Ctx) error {
	var doc *editor.Document
	if len(c.Body()) > 0 {
		doc = &editor.Document{}
		if err := decodeBody(c, doc); err != nil {
			return err
		}
	}
	id, summary, err := s.sessions.Create(context.Background(), doc)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": id, "summary": summary})
}

func (s *Server) getPlan(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var doc *editor.Document
	err = s.sessions.View(context.Background(), id, func(ed *editor.Editor) error {
		doc = ed.Document()
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

func (s *Server) replacePlan(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	doc := &editor.Document{}
	if err := decodeBody(c, doc); err != nil {
		return err
	}
	summary, err := s.sessions.Replace(context.Background(), id, doc)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (s *Server) deletePlan(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(context.Background(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) getSummary(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var summary editor.Summary
	err = s.sessions.View(context.Background(), id, func(ed *editor.Editor) error {
		summary = ed.Summary()
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (s *Server) getMeshes(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var meshes []editor.MeshData
	err = s.sessions.View(context.Background(), id, func(ed *editor.Editor) error {
		meshes = ed.Meshes()
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(meshes)
}

// update runs fn on the plan named by the id parameter and answers with
// the plan summary.
func (s *Server) update(c fiber.Ctx, fn func(*editor.Editor) error) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var summary editor.Summary
	err = s.sessions.Update(context.Background(), id, func(ed *editor.Editor) error {
		if err := fn(ed); err != nil {
			return err
		}
		summary = ed.Summary()
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (s *Server) addCorner(c fiber.Ctx) error {
	var req cornerRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	return s.update(c, func(ed *editor.Editor) error {
		_, err := ed.AddCorner(editor.Point{X: req.X, Y: req.Y, Z: req.Z}.Vec3())
		return err
	})
}

func (s *Server) undo(c fiber.Ctx) error {
	return s.update(c, func(ed *editor.Editor) error {
		ed.UndoLastPoint()
		return nil
	})
}

func (s *Server) setWallSize(c fiber.Ctx) error {
	var req wallSizeRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	return s.update(c, func(ed *editor.Editor) error {
		return ed.SetWallSize(req.Width, req.Height)
	})
}

// finalize closes the open chain. A chain that cannot form a room still
// commits its walls, so those outcomes answer 200 with the reason.
func (s *Server) finalize(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var resp finalizeResponse
	err = s.sessions.Update(context.Background(), id, func(ed *editor.Editor) error {
		r, err := ed.FinalizeChain()
		switch {
		case errors.Is(err, room.ErrUnclosable), errors.Is(err, room.ErrDegenerateFloor):
			resp.Reason = err.Error()
		case err != nil:
			return err
		}
		resp.Summary = ed.Summary()
		if r != nil {
			for i := range resp.Summary.Rooms {
				if resp.Summary.Rooms[i].ID == r.ID {
					resp.Room = &resp.Summary.Rooms[i]
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// pick reports the nearest object under a ray; a miss answers a null hit.
func (s *Server) pick(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req pickRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if req.Direction.Vec3().Length() == 0 {
		return fmt.Errorf("zero pick direction: %w", errBadRequest)
	}
	var resp pickResponse
	err = s.sessions.View(context.Background(), id, func(ed *editor.Editor) error {
		if hit, ok := ed.Pick(req.Origin.Vec3(), req.Direction.Vec3()); ok {
			resp.Hit = &hit
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) moveWall(c fiber.Ctx) error {
	wallID, err := paramID(c, "wall")
	if err != nil {
		return err
	}
	var req wallMoveRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	return s.update(c, func(ed *editor.Editor) error {
		return ed.MoveWall(wallID, editor.Point{X: req.DX, Z: req.DZ}.Vec3())
	})
}

func (s *Server) deleteWall(c fiber.Ctx) error {
	wallID, err := paramID(c, "wall")
	if err != nil {
		return err
	}
	return s.update(c, func(ed *editor.Editor) error {
		return ed.DeleteWall(wallID)
	})
}

func (s *Server) paint(c fiber.Ctx) error {
	wallID, err := paramID(c, "wall")
	if err != nil {
		return err
	}
	var req paintRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	region, ok := wall.ParseRegion(string(req.Region))
	if !ok {
		return fmt.Errorf("paint region %q: %w", req.Region, errBadRequest)
	}
	color, err := editor.ParseColor(req.Color)
	if err != nil {
		return fmt.Errorf("%v: %w", err, errBadRequest)
	}
	return s.update(c, func(ed *editor.Editor) error {
		return ed.Paint(wallID, region, color)
	})
}

func (s *Server) addOpening(c fiber.Ctx) error {
	wallID, err := paramID(c, "wall")
	if err != nil {
		return err
	}
	var req openingRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	kind, err := wall.ParseKind(string(req.Kind))
	if err != nil {
		return fmt.Errorf("%v: %w", err, errBadRequest)
	}
	opts := []wall.OpeningOption{wall.WithOffset(req.Offset)}
	if req.Elevation != nil {
		opts = append(opts, wall.WithElevation(*req.Elevation))
	}
	return s.update(c, func(ed *editor.Editor) error {
		_, err := ed.AddOpening(wallID, kind, opts...)
		return err
	})
}

func (s *Server) moveOpening(c fiber.Ctx) error {
	openingID, err := paramID(c, "opening")
	if err != nil {
		return err
	}
	var req moveRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	return s.update(c, func(ed *editor.Editor) error {
		return ed.MoveOpening(openingID, req.Offset, req.Elevation)
	})
}

func (s *Server) deleteOpening(c fiber.Ctx) error {
	openingID, err := paramID(c, "opening")
	if err != nil {
		return err
	}
	return s.update(c, func(ed *editor.Editor) error {
		return ed.DeleteOpening(openingID)
	})
}
