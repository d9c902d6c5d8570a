package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagAddr       = flag.String("addr", "", "HTTP listen address")
	flagDB         = flag.String("db", "", "Plan database file")
	flagWallWidth  = flag.Float64("wall-width", 0, "Default wall thickness")
	flagWallHeight = flag.Float64("wall-height", 0, "Default wall height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagDB != "" {
		cfg.Store.Path = *flagDB
	}
	if *flagWallWidth > 0 {
		cfg.Walls.Width = *flagWallWidth
	}
	if *flagWallHeight > 0 {
		cfg.Walls.Height = *flagWallHeight
	}
}
