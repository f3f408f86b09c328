package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/logging"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", env(nil))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := DefaultConfig()
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sky.toml", `
latitude = -33.9
longitude = 18.4
rate = 60.0
projection = "stereographic"
metrics_addr = ":9090"
max_events = 10
`)

	cfg, err := Load(path, env(nil))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Latitude != -33.9 || cfg.Longitude != 18.4 || cfg.Rate != 60 {
		t.Errorf("observer/rate = %v/%v/%v", cfg.Latitude, cfg.Longitude, cfg.Rate)
	}
	if cfg.ProjectionKind() != astro.ProjectStereographic {
		t.Errorf("ProjectionKind() = %v", cfg.ProjectionKind())
	}
	if cfg.MetricsAddr != ":9090" || cfg.MaxEvents != 10 || cfg.Path != path {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unset LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestLoadPrecedence(t *testing.T) {
	resources := t.TempDir()
	writeFile(t, resources, ConfigFile, `latitude = 10.0`)

	other := t.TempDir()
	envPath := writeFile(t, other, "env.toml", `
latitude = 20.0
resource_dir = "/from/file"
`)

	tests := []struct {
		name    string
		path    string
		vars    map[string]string
		wantLat float64
		wantDir string
	}{
		{"resource dir file", "", map[string]string{EnvResources: resources}, 10, resources},
		{"env config beats resource dir", "", map[string]string{EnvResources: resources, EnvConfig: envPath}, 20, resources},
		{"env config alone", "", map[string]string{EnvConfig: envPath}, 20, "/from/file"},
		{"explicit path beats env", filepath.Join(resources, ConfigFile), map[string]string{EnvConfig: envPath}, 10, ""},
		{"missing resource file is fine", "", map[string]string{EnvResources: other}, DefaultConfig().Latitude, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.path, env(tt.vars))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.Latitude != tt.wantLat || cfg.ResourceDir != tt.wantDir {
				t.Errorf("lat %v dir %q, want %v %q", cfg.Latitude, cfg.ResourceDir, tt.wantLat, tt.wantDir)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.toml", `latitude = "north"`)
	unknown := writeFile(t, dir, "unknown.toml", `colour = "red"`)
	outOfRange := writeFile(t, dir, "range.toml", `latitude = 95.0`)

	tests := []struct {
		name        string
		path        string
		vars        map[string]string
		wantInvalid bool
	}{
		{"missing explicit", filepath.Join(dir, "nope.toml"), nil, false},
		{"missing env path", "", map[string]string{EnvConfig: filepath.Join(dir, "nope.toml")}, false},
		{"type mismatch", bad, nil, false},
		{"unknown key", unknown, nil, false},
		{"latitude out of range", outOfRange, nil, true},
	}
	for _, tt := range tests {
		_, err := Load(tt.path, env(tt.vars))
		if err == nil {
			t.Errorf("%s: Load() should fail", tt.name)
			continue
		}
		if got := errors.Is(err, ErrInvalid); got != tt.wantInvalid {
			t.Errorf("%s: errors.Is(ErrInvalid) = %v, error %v", tt.name, got, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"latitude", func(c *Config) { c.Latitude = -91 }},
		{"longitude", func(c *Config) { c.Longitude = 181 }},
		{"rate", func(c *Config) { c.Rate = 1e9 }},
		{"projection", func(c *Config) { c.Projection = "mercator" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"max events", func(c *Config) { c.MaxEvents = 0 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: Validate() = %v, want ErrInvalid", tt.name, err)
		}
	}

	edge := DefaultConfig()
	edge.Latitude, edge.Longitude, edge.Rate = 90, -180, -1e7
	if err := edge.Validate(); err != nil {
		t.Errorf("boundary values rejected: %v", err)
	}
}

func TestLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "Debug"
	if cfg.Level() != logging.LevelDebug {
		t.Errorf("Level() = %v", cfg.Level())
	}
}

func TestResourcePath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ResourcePath(ThemeFile); got != "" {
		t.Errorf("ResourcePath() without dir = %q", got)
	}
	cfg.ResourceDir = "/opt/sky"
	if got := cfg.ResourcePath(ThemeFile); got != filepath.Join("/opt/sky", "theme.toml") {
		t.Errorf("ResourcePath() = %q", got)
	}
}
