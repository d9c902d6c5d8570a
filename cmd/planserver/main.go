// Package main is the entry point for the floor-plan HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/floorplan/internal/config"
	"github.com/Faultbox/floorplan/internal/editor"
	"github.com/Faultbox/floorplan/internal/logger"
	"github.com/Faultbox/floorplan/internal/server"
	"github.com/Faultbox/floorplan/internal/store"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Floorplan Server ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	settings, err := editor.SettingsFromConfig(cfg)
	if err != nil {
		logger.Error("invalid editor settings", zap.Error(err))
		os.Exit(1)
	}

	st, err := store.Open(context.Background(), cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open plan store", zap.String("path", cfg.Store.Path), zap.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	srv := server.New(cfg.Server, st, settings)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Server.Addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
