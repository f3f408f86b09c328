// Package config loads engine settings. Values come from built-in
// defaults, then an optional TOML file, then the environment; flags are
// applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/naoina/toml"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/clock"
	"github.com/litescript/antikythera/internal/logging"
)

// Environment variables.
const (
	EnvResources = "ANTIKYTHERA_RESOURCES"
	EnvConfig    = "ANTIKYTHERA_CONFIG"
)

// File names looked up in the resource directory.
const (
	ConfigFile = "antikythera.toml"
	ThemeFile  = "theme.toml"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the engine settings. Angles are in degrees.
type Config struct {
	Latitude    float64 `toml:"latitude"`
	Longitude   float64 `toml:"longitude"`
	Rate        float64 `toml:"rate"`
	Projection  string  `toml:"projection"`
	ResourceDir string  `toml:"resource_dir"`
	MetricsAddr string  `toml:"metrics_addr"`
	LogLevel    string  `toml:"log_level"`
	LogFile     string  `toml:"log_file"`
	MaxEvents   int     `toml:"max_events"`

	// Path is the file the settings were read from, empty if none.
	Path string `toml:"-"`
}

// DefaultConfig returns the built-in settings: Greenwich, real time.
func DefaultConfig() Config {
	return Config{
		Latitude:   51.4769,
		Longitude:  0,
		Rate:       1,
		Projection: "equidistant",
		LogLevel:   "info",
		MaxEvents:  50,
	}
}

// Load resolves the config file and applies it and the environment over
// the defaults. An explicit path must exist; the ANTIKYTHERA_CONFIG path
// must exist; the resource directory file is optional.
func Load(path string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	if dir := getenv(EnvResources); dir != "" {
		cfg.ResourceDir = dir
	}

	required := true
	switch {
	case path != "":
	case getenv(EnvConfig) != "":
		path = getenv(EnvConfig)
	case cfg.ResourceDir != "":
		path = filepath.Join(cfg.ResourceDir, ConfigFile)
		required = false
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
			cfg.Path = path
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	// The environment outranks the file for the resource directory.
	if dir := getenv(EnvResources); dir != "" {
		cfg.ResourceDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalid, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalid, c.Longitude)
	}
	if math.IsNaN(c.Rate) || math.Abs(c.Rate) > clock.MaxRate {
		return fmt.Errorf("%w: rate %v outside ±%g", ErrInvalid, c.Rate, clock.MaxRate)
	}
	switch c.Projection {
	case "equidistant", "stereographic", "stereo":
	default:
		return fmt.Errorf("%w: projection %q", ErrInvalid, c.Projection)
	}
	if !validLevel(c.LogLevel) {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	if c.MaxEvents < 1 {
		return fmt.Errorf("%w: max events %d", ErrInvalid, c.MaxEvents)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() logging.Level {
	return logging.ParseLevel(strings.ToLower(c.LogLevel))
}

// ProjectionKind returns the parsed dome projection.
func (c Config) ProjectionKind() astro.Projection {
	return astro.ParseProjection(c.Projection)
}

// ResourcePath joins a name onto the resource directory. It returns ""
// when no directory is configured.
func (c Config) ResourcePath(name string) string {
	if c.ResourceDir == "" {
		return ""
	}
	return filepath.Join(c.ResourceDir, name)
}

func validLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
