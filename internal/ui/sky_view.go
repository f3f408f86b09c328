package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/config"
	"github.com/litescript/antikythera/internal/sky"
)

const (
	// Grid spacing, degrees
	gridMeridianStep = 30 // 12 meridians
	gridAltitudeStep = 20

	glyphGrid    = '·'
	glyphHorizon = '∙'
	glyphZenith  = '+'

	colorBackground = "236"
)

// LabelMode controls how body labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only focused body
	LabelAll                      // All bodies
)

// String returns the mode name shown in the header.
func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelFocused:
		return "focus"
	default:
		return "all"
	}
}

// SkyViewModel renders the dome: the visible hemisphere seen from below,
// zenith at the center, north up and east to the left.
type SkyViewModel struct {
	width  int
	height int

	projection astro.Projection
	labelMode  LabelMode
	showGrid   bool
	focusIdx   int
	theme      config.Theme

	frame sky.Frame
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel(theme config.Theme, projection astro.Projection) SkyViewModel {
	return SkyViewModel{
		projection: projection,
		labelMode:  LabelAll,
		showGrid:   true,
		theme:      theme,
	}
}

// SetSize updates the canvas size in cells.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateFrame replaces the frame being drawn.
func (m SkyViewModel) UpdateFrame(f sky.Frame) SkyViewModel {
	m.frame = f
	if m.focusIdx >= len(f.Bodies) {
		m.focusIdx = 0
	}
	return m
}

// Focused returns the focused body, if any.
func (m SkyViewModel) Focused() (sky.BodyPosition, bool) {
	if m.focusIdx < 0 || m.focusIdx >= len(m.frame.Bodies) {
		return sky.BodyPosition{}, false
	}
	return m.frame.Bodies[m.focusIdx], true
}

func (m SkyViewModel) focusNext() SkyViewModel {
	if n := len(m.frame.Bodies); n > 0 {
		m.focusIdx = (m.focusIdx + 1) % n
	}
	return m
}

func (m SkyViewModel) focusPrev() SkyViewModel {
	if n := len(m.frame.Bodies); n > 0 {
		m.focusIdx = (m.focusIdx - 1 + n) % n
	}
	return m
}

func (m SkyViewModel) cycleLabelMode() SkyViewModel {
	m.labelMode = (m.labelMode + 1) % 3
	return m
}

func (m SkyViewModel) toggleProjection() SkyViewModel {
	if m.projection == astro.ProjectEquidistant {
		m.projection = astro.ProjectStereographic
	} else {
		m.projection = astro.ProjectEquidistant
	}
	return m
}

func (m SkyViewModel) toggleGrid() SkyViewModel {
	m.showGrid = !m.showGrid
	return m
}

// domeSize fits a circle into the available cells. Terminal cells are
// about twice as tall as wide, so the dome is twice as many columns as rows.
func domeSize(width, height int) (int, int) {
	h := height
	if 2*h+1 > width {
		h = (width - 1) / 2
	}
	if h%2 == 0 {
		h--
	}
	return 2*h + 1, h
}

// View renders the dome.
func (m SkyViewModel) View() string {
	w, h := domeSize(m.width, m.height)
	if w < 15 || h < 7 {
		return "Sky view requires larger terminal"
	}
	return m.buildCanvas(w, h).render()
}

// canvas is a grid of glyphs and their colors.
type canvas struct {
	cells  [][]rune
	colors [][]string
}

func newCanvas(width, height int) canvas {
	c := canvas{
		cells:  make([][]rune, height),
		colors: make([][]string, height),
	}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", width))
		c.colors[y] = make([]string, width)
		for x := range c.colors[y] {
			c.colors[y][x] = colorBackground
		}
	}
	return c
}

func (c canvas) width() int  { return len(c.cells[0]) }
func (c canvas) height() int { return len(c.cells) }

func (c canvas) set(col, row int, r rune, color string) {
	if row < 0 || row >= c.height() || col < 0 || col >= c.width() {
		return
	}
	c.cells[row][col] = r
	c.colors[row][col] = color
}

// plot projects a horizontal coordinate and sets the cell it lands on.
func (c canvas) plot(h astro.Horizontal, p astro.Projection, r rune, color string) (int, int, bool) {
	pt, ok := astro.ProjectDome(h, p)
	if !ok {
		return 0, 0, false
	}
	col, row, ok := sky.DomeCell(pt, c.width(), c.height())
	if !ok {
		return 0, 0, false
	}
	c.set(col, row, r, color)
	return col, row, true
}

func (c canvas) render() string {
	styles := make(map[string]lipgloss.Style)
	var b strings.Builder
	for y := range c.cells {
		for x, r := range c.cells[y] {
			color := c.colors[y][x]
			style, ok := styles[color]
			if !ok {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
				styles[color] = style
			}
			b.WriteString(style.Render(string(r)))
		}
		if y < len(c.cells)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// bodyPos tracks a drawn body for label rendering
type bodyPos struct {
	x, y       int
	name       string
	color      string
	isFocused  bool
	labelStart int
	labelEnd   int
}

func (m SkyViewModel) buildCanvas(width, height int) canvas {
	c := newCanvas(width, height)

	if m.showGrid {
		m.drawGrid(c)
	}

	// Horizon, sampled densely enough to close the circle
	for i := 0; i < 720; i++ {
		az := astro.DegToRad(float64(i) / 2)
		c.plot(astro.Horizontal{Alt: 0, Az: az}, m.projection, glyphHorizon, m.theme.Horizon)
	}

	cx, cy := (width-1)/2, (height-1)/2
	c.set(cx, 0, 'N', m.theme.Label)
	c.set(cx, height-1, 'S', m.theme.Label)
	c.set(0, cy, 'E', m.theme.Label)
	c.set(width-1, cy, 'W', m.theme.Label)
	c.set(cx, cy, glyphZenith, m.theme.Grid)

	var positions []bodyPos
	for i, b := range m.frame.Bodies {
		if !b.Visible {
			continue
		}
		color := m.theme.BodyColor(b.Name)
		x, y, ok := c.plot(b.Horizontal, m.projection, sky.Glyph(b.Name), color)
		if !ok {
			continue
		}
		positions = append(positions, bodyPos{
			x:         x,
			y:         y,
			name:      b.Name,
			color:     color,
			isFocused: i == m.focusIdx,
		})
	}

	m.renderLabels(c, positions)
	return c
}

// drawGrid draws altitude circles and meridians from the horizon up to
// the highest circle.
func (m SkyViewModel) drawGrid(c canvas) {
	for alt := gridAltitudeStep; alt < 90; alt += gridAltitudeStep {
		for i := 0; i < 360; i += 2 {
			h := astro.Horizontal{Alt: astro.DegToRad(float64(alt)), Az: astro.DegToRad(float64(i))}
			c.plot(h, m.projection, glyphGrid, m.theme.Grid)
		}
	}
	top := 90 - gridAltitudeStep/2
	for az := 0; az < 360; az += gridMeridianStep {
		for alt := 1; alt <= top; alt++ {
			h := astro.Horizontal{Alt: astro.DegToRad(float64(alt)), Az: astro.DegToRad(float64(az))}
			c.plot(h, m.projection, glyphGrid, m.theme.Grid)
		}
	}
}

// renderLabels draws body labels on the canvas based on label mode.
// The focused body's label takes priority in overlapping regions.
func (m SkyViewModel) renderLabels(c canvas, positions []bodyPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	for i := range positions {
		pos := &positions[i]
		pos.labelStart = pos.x + 2
		labelLen := len([]rune(pos.name))
		if pos.isFocused {
			labelLen += 2
		}
		pos.labelEnd = pos.labelStart + labelLen
	}

	focusedClaims := make(map[int]map[int]bool) // y -> x -> claimed
	for _, pos := range positions {
		if !pos.isFocused {
			continue
		}
		if focusedClaims[pos.y] == nil {
			focusedClaims[pos.y] = make(map[int]bool)
		}
		for x := pos.labelStart; x < pos.labelEnd; x++ {
			focusedClaims[pos.y][x] = true
		}
	}

	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}

		text := pos.name
		color := m.theme.Label
		if pos.isFocused {
			text = "◄ " + pos.name
			color = pos.color
		}

		for i, r := range []rune(text) {
			x := pos.labelStart + i
			if x >= c.width() {
				break
			}
			if !pos.isFocused && focusedClaims[pos.y][x] {
				continue
			}
			// Never overwrite another body's glyph
			if isBodyGlyph(c.cells[pos.y][x]) {
				continue
			}
			c.set(x, pos.y, r, color)
		}
	}
}

func isBodyGlyph(r rune) bool {
	switch r {
	case '☉', '☾', '☿', '♀', '♂', '♃', '♄', '*', glyphEarth:
		return true
	}
	return false
}

// normalizeDegrees wraps an angle to -180..+180.
func normalizeDegrees(a float64) float64 {
	return astro.RadToDeg(astro.NormalizeSigned(astro.DegToRad(a)))
}

// compassPoint names the 16-wind direction of an azimuth in degrees.
func compassPoint(az float64) string {
	points := [...]string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}
	idx := int(math.Round(normalizeDegrees(az)/22.5)+16) % 16
	return points[idx]
}
