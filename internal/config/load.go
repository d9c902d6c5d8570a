package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search locations.
const FileName = "planner.yaml"

// EnvConfig names the environment variable holding an explicit config path.
const EnvConfig = "FLOORPLAN_CONFIG"

// Load loads configuration with priority: defaults < file < flags, then
// validates the result.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads defaults merged with a single YAML file, without flags.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing candidate: $FLOORPLAN_CONFIG,
// then planner.yaml in the working directory, then in ConfigDir.
func findConfigFile() string {
	var candidates []string
	if env := os.Getenv(EnvConfig); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, FileName, filepath.Join(ConfigDir(), FileName))

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Floorplan")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Floorplan")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "floorplan")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "floorplan")
	}
}

// loadFromFile merges a YAML file into cfg. Unknown keys are rejected and an
// empty file leaves cfg untouched.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks values the planner cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.Walls.Width <= 0 || c.Walls.Height <= 0:
		return fmt.Errorf("walls: width and height must be positive, got %gx%g", c.Walls.Width, c.Walls.Height)
	case c.Floor.Thickness <= 0:
		return fmt.Errorf("floor: thickness must be positive, got %g", c.Floor.Thickness)
	case c.Floor.Lift < 0 || c.Floor.CutterMargin < 0 || c.Floor.Epsilon < 0:
		return errors.New("floor: lift, cutter_margin and epsilon must not be negative")
	case c.Server.BodyLimit < 0:
		return fmt.Errorf("server: body_limit must not be negative, got %d", c.Server.BodyLimit)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	return nil
}
