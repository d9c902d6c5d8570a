// Package server exposes plan editing sessions over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"github.com/Faultbox/floorplan/internal/config"
	"github.com/Faultbox/floorplan/internal/editor"
	"github.com/Faultbox/floorplan/internal/logger"
	"github.com/Faultbox/floorplan/internal/room"
	"github.com/Faultbox/floorplan/internal/store"
	"github.com/Faultbox/floorplan/internal/wall"
)

// Server is the plan HTTP service.
type Server struct {
	app      *fiber.App
	store    *store.Store
	sessions *Sessions
	log      *zap.Logger
}

// New builds the service and its routes.
func New(cfg config.ServerConfig, st *store.Store, settings editor.Settings) *Server {
	s := &Server{
		store:    st,
		sessions: NewSessions(st, settings),
		log:      logger.Named("server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "Floorplan",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: s.handleError,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	s.app.Use(recover.New())
	s.app.Use(RequestLogger(s.log))

	// ============================================================
	// Health Check Routes
	// ============================================================

	s.app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	s.app.Get("/health/ready", s.ready)

	// ============================================================
	// Plan Routes
	// ============================================================

	s.app.Get("/plans", s.listPlans)
	s.app.Post("/plans", s.createPlan)
	s.app.Get("/plans/:id", s.getPlan)
	s.app.Put("/plans/:id", s.replacePlan)
	s.app.Delete("/plans/:id", s.deletePlan)
	s.app.Get("/plans/:id/summary", s.getSummary)
	s.app.Get("/plans/:id/meshes", s.getMeshes)

	s.app.Post("/plans/:id/corners", s.addCorner)
	s.app.Post("/plans/:id/undo", s.undo)
	s.app.Post("/plans/:id/finalize", s.finalize)
	s.app.Put("/plans/:id/wall-size", s.setWallSize)

	s.app.Post("/plans/:id/pick", s.pick)

	s.app.Patch("/plans/:id/walls/:wall", s.moveWall)
	s.app.Delete("/plans/:id/walls/:wall", s.deleteWall)
	s.app.Put("/plans/:id/walls/:wall/paint", s.paint)
	s.app.Post("/plans/:id/walls/:wall/openings", s.addOpening)
	s.app.Patch("/plans/:id/openings/:opening", s.moveOpening)
	s.app.Delete("/plans/:id/openings/:opening", s.deleteOpening)

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the listener and releases every open session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	s.sessions.CloseAll()
	return err
}

func (s *Server) ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := s.store.List(ctx); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// handleError maps kernel and store errors onto HTTP statuses.
func (s *Server) handleError(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case errors.Is(err, editor.ErrNotFound), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, editor.ErrClosed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, room.ErrUnclosable), errors.Is(err, room.ErrDegenerateFloor):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest),
		errors.Is(err, editor.ErrInvalidDocument),
		errors.Is(err, editor.ErrZeroLength),
		errors.Is(err, editor.ErrShortChain),
		errors.Is(err, editor.ErrInvalidSize),
		errors.Is(err, editor.ErrChainWall),
		errors.Is(err, wall.ErrUnknownKind):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
