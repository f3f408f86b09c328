package sky

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/litescript/antikythera/internal/astro"
)

// MiniSkyConfig controls the ASCII dome.
type MiniSkyConfig struct {
	Width      int // columns inside the border
	Height     int // rows inside the border
	Projection astro.Projection
}

// DefaultMiniSkyConfig returns a dome sized for an 80-column terminal.
func DefaultMiniSkyConfig() MiniSkyConfig {
	return MiniSkyConfig{
		Width:      41,
		Height:     21,
		Projection: astro.ProjectEquidistant,
	}
}

// Glyph returns the symbol drawn for a body.
func Glyph(name string) rune {
	switch name {
	case "Sun":
		return '☉'
	case "Moon":
		return '☾'
	case "Mercury":
		return '☿'
	case "Venus":
		return '♀'
	case "Mars":
		return '♂'
	case "Jupiter":
		return '♃'
	case "Saturn":
		return '♄'
	default:
		return '*'
	}
}

// DomeCell maps a projected point to a cell of a width×height grid with
// north up and east to the left, as seen looking up. The second result is
// false when the point falls outside the grid.
func DomeCell(p astro.ProjectedPoint, width, height int) (col, row int, ok bool) {
	cx := float64(width-1) / 2
	cy := float64(height-1) / 2
	col = int(math.Round(cx - p.X*cx))
	row = int(math.Round(cy - p.Y*cy))
	if col < 0 || col >= width || row < 0 || row >= height {
		return 0, 0, false
	}
	return col, row, true
}

// WriteMiniSky draws the frame as an ASCII dome with a legend.
func WriteMiniSky(w io.Writer, f Frame, cfg MiniSkyConfig) {
	if cfg.Width < 9 || cfg.Height < 5 {
		cfg = DefaultMiniSkyConfig()
	}

	grid := make([][]rune, cfg.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cfg.Width))
	}

	// Horizon circle
	for i := 0; i < 360; i += 3 {
		az := astro.DegToRad(float64(i))
		p, _ := astro.ProjectDome(astro.Horizontal{Alt: 0, Az: az}, cfg.Projection)
		if col, row, ok := DomeCell(p, cfg.Width, cfg.Height); ok {
			grid[row][col] = '·'
		}
	}

	cx, cy := (cfg.Width-1)/2, (cfg.Height-1)/2
	grid[0][cx] = 'N'
	grid[cfg.Height-1][cx] = 'S'
	grid[cy][0] = 'E'
	grid[cy][cfg.Width-1] = 'W'
	grid[cy][cx] = '+'

	for _, b := range f.Bodies {
		if !b.Visible {
			continue
		}
		p, ok := astro.ProjectDome(b.Horizontal, cfg.Projection)
		if !ok {
			continue
		}
		if col, row, ok := DomeCell(p, cfg.Width, cfg.Height); ok {
			grid[row][col] = Glyph(b.Name)
		}
	}

	fmt.Fprintf(w, "┌%s┐\n", strings.Repeat("─", cfg.Width))
	for _, line := range grid {
		fmt.Fprintf(w, "│%s│\n", string(line))
	}
	fmt.Fprintf(w, "└%s┘\n", strings.Repeat("─", cfg.Width))

	if len(f.Bodies) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	for _, b := range f.Bodies {
		where := "below horizon"
		if b.Visible {
			where = fmt.Sprintf("alt %5.1f° az %5.1f°",
				astro.RadToDeg(b.Horizontal.Alt), astro.RadToDeg(b.Horizontal.Az))
		}
		fmt.Fprintf(w, "  %c %-8s %s\n", Glyph(b.Name), b.Name, where)
	}
}
