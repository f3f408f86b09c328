package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/naoina/toml"
)

// Theme holds the render colors, as lipgloss color strings (ANSI numbers
// or #rrggbb). Bodies maps a body name to its glyph color.
type Theme struct {
	Grid    string            `toml:"grid"`
	Horizon string            `toml:"horizon"`
	Label   string            `toml:"label"`
	Title   string            `toml:"title"`
	Bodies  map[string]string `toml:"bodies"`
}

// DefaultTheme returns the built-in colors.
func DefaultTheme() Theme {
	return Theme{
		Grid:    "238",
		Horizon: "34",
		Label:   "245",
		Title:   "39",
		Bodies: map[string]string{
			"Sun":     "220",
			"Moon":    "255",
			"Earth":   "33",
			"Mercury": "247",
			"Venus":   "229",
			"Mars":    "203",
			"Jupiter": "180",
			"Saturn":  "186",
		},
	}
}

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|#[0-9a-fA-F]{3}|[0-9]{1,3})$`)

// LoadTheme reads theme.toml from the resource directory over the default
// theme. A missing directory or file yields the defaults.
func LoadTheme(c Config) (Theme, error) {
	theme := DefaultTheme()
	path := c.ResourcePath(ThemeFile)
	if path == "" {
		return theme, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return theme, nil
	}
	if err != nil {
		return theme, fmt.Errorf("read theme: %w", err)
	}

	var file Theme
	if err := toml.Unmarshal(data, &file); err != nil {
		return theme, fmt.Errorf("parse %s: %w", path, err)
	}
	theme.merge(file)
	return theme, theme.Validate()
}

func (t *Theme) merge(o Theme) {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&t.Grid, o.Grid},
		{&t.Horizon, o.Horizon},
		{&t.Label, o.Label},
		{&t.Title, o.Title},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	for name, color := range o.Bodies {
		t.Bodies[name] = color
	}
}

// Validate checks that every color parses.
func (t Theme) Validate() error {
	check := func(name, color string) error {
		if !colorPattern.MatchString(color) {
			return fmt.Errorf("%w: theme color %s = %q", ErrInvalid, name, color)
		}
		return nil
	}
	for name, color := range map[string]string{
		"grid": t.Grid, "horizon": t.Horizon, "label": t.Label, "title": t.Title,
	} {
		if err := check(name, color); err != nil {
			return err
		}
	}
	for name, color := range t.Bodies {
		if err := check(name, color); err != nil {
			return err
		}
	}
	return nil
}

// BodyColor returns the color for a body, falling back to the label color.
func (t Theme) BodyColor(name string) string {
	if c, ok := t.Bodies[name]; ok {
		return c
	}
	return t.Label
}
