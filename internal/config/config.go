// Package config loads handframe settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/ayusman/handframe/internal/capture"
	"github.com/ayusman/handframe/internal/detector"
	"github.com/ayusman/handframe/internal/tracking"
)

// FileName is the config file looked up inside the data directory.
const FileName = "config.toml"

// Server holds HTTP server settings.
type Server struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
}

// Config is the full application configuration.
type Config struct {
	// DataDir holds the database, config file and detector helper.
	DataDir  string `toml:"data_dir"`
	LogLevel string `toml:"log_level"`
	Tray     bool   `toml:"tray"`

	Server   Server          `toml:"server"`
	Camera   capture.Config  `toml:"camera"`
	Detector detector.Config `toml:"detector"`
	Tracking tracking.Config `toml:"tracking"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
		Server:   Server{Addr: ":8080"},
		Camera:   capture.DefaultConfig(),
		Detector: detector.DefaultConfig(),
		Tracking: tracking.DefaultConfig(),
	}
}

// DefaultDataDir returns ~/.handframe, or .handframe when there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".handframe"
	}
	return filepath.Join(home, ".handframe")
}

// DefaultPath returns the config file inside the default data directory.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), FileName)
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Tracking.FPS <= 0 {
		return fmt.Errorf("tracking.fps must be positive, got %d", c.Tracking.FPS)
	}
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		return fmt.Errorf("detector.min_confidence must be in [0,1], got %g", c.Detector.MinConfidence)
	}
	return nil
}

// DBPath is the SQLite database inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "handframe.db")
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
