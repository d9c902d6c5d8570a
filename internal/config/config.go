// Package config handles planner configuration loading and management.
package config

import "time"

// Config holds all planner settings.
type Config struct {
	Walls   WallsConfig   `yaml:"walls"`
	Floor   FloorConfig   `yaml:"floor"`
	Catalog CatalogConfig `yaml:"catalog"`
	CSG     CSGConfig     `yaml:"csg"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// WallsConfig holds the dimensions of newly drawn walls.
type WallsConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FloorConfig holds floor slab settings.
type FloorConfig struct {
	Lift         float64 `yaml:"lift"`          // Gap between wall base and slab
	Thickness    float64 `yaml:"thickness"`     // Slab thickness
	CutterMargin float64 `yaml:"cutter_margin"` // Vertical overshoot of footprint cutters
	Epsilon      float64 `yaml:"epsilon"`       // Triangulation tolerance
}

// FrameConfig is the inner frame size of an opening kind.
type FrameConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// CatalogConfig holds opening frame sizes per kind.
type CatalogConfig struct {
	Plain    FrameConfig `yaml:"plain"`
	Cross    FrameConfig `yaml:"cross"`
	Vertical FrameConfig `yaml:"vertical"`
	Door     FrameConfig `yaml:"door"`
}

// CSGConfig selects the boolean engine.
type CSGConfig struct {
	Engine string `yaml:"engine"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BodyLimit    int           `yaml:"body_limit"` // Bytes
}

// StoreConfig holds plan persistence settings.
type StoreConfig struct {
	Path string `yaml:"path"` // SQLite database file
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	window := FrameConfig{Width: 1.0, Height: 1.0}
	return &Config{
		Walls: WallsConfig{
			Width:  0.2,
			Height: 2.1,
		},
		Floor: FloorConfig{
			Lift:         0.01,
			Thickness:    0.1,
			CutterMargin: 0.05,
			Epsilon:      1e-9,
		},
		Catalog: CatalogConfig{
			Plain:    window,
			Cross:    window,
			Vertical: window,
			Door:     FrameConfig{Width: 0.9, Height: 1.8},
		},
		CSG: CSGConfig{
			Engine: "bsp",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			BodyLimit:    4 * 1024 * 1024,
		},
		Store: StoreConfig{
			Path: "planner.db",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
