package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/config"
	"github.com/litescript/antikythera/internal/orbit"
	"github.com/litescript/antikythera/internal/sky"
)

// Discrete zoom levels for the orrery
var zoomLevels = []float64{1, 2, 4, 8}

// logKnee is the radius, AU, where the log scale bends; inside it the
// scale is close to linear.
const logKnee = 0.3

const glyphEarth = '⊕'

// OrreryModel renders a top-down view of the ecliptic plane with the Sun
// at the center, ecliptic longitude 0 to the right, counter-clockwise.
type OrreryModel struct {
	width  int
	height int

	table *orbit.Table
	theme config.Theme
	epoch float64

	zoomLevel int
	focus     string // sky label of the highlighted body
	labelMode LabelMode
}

// NewOrreryModel creates an orrery over the given table.
func NewOrreryModel(table *orbit.Table, theme config.Theme) OrreryModel {
	return OrreryModel{table: table, theme: theme, labelMode: LabelAll}
}

// SetSize updates the viewport size.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	return m
}

// Update sets the epoch, highlighted body and label mode to draw with.
func (m OrreryModel) Update(epoch float64, focus string, labels LabelMode) OrreryModel {
	m.epoch = epoch
	m.focus = focus
	m.labelMode = labels
	return m
}

func (m OrreryModel) zoomIn() OrreryModel {
	if m.zoomLevel < len(zoomLevels)-1 {
		m.zoomLevel++
	}
	return m
}

func (m OrreryModel) zoomOut() OrreryModel {
	if m.zoomLevel > 0 {
		m.zoomLevel--
	}
	return m
}

func (m OrreryModel) scale() float64 {
	return zoomLevels[m.zoomLevel]
}

// outerRadius is the largest orbit in the table.
func (m OrreryModel) outerRadius() float64 {
	r := 1.0
	for _, b := range m.table.Bodies() {
		if b.Kind != orbit.KindMoon && b.Radius > r {
			r = b.Radius
		}
	}
	return r
}

// displayRadius maps a solar distance to [0, 1] at zoom 1 on a log scale,
// so inner and outer planets share the view.
func displayRadius(au, outer float64) float64 {
	return math.Log1p(au/logKnee) / math.Log1p(outer/logKnee)
}

// cell converts an ecliptic position to a canvas cell. Rows are squashed
// by half for the terminal aspect ratio.
func (m OrreryModel) cell(p astro.Vec3, c canvas, outer float64) (int, int, bool) {
	r := math.Hypot(p.X, p.Y)
	cx, cy := c.width()/2, c.height()/2
	if r == 0 {
		return cx, cy, true
	}
	half := math.Min(float64(cx), float64(2*cy)) * 0.95
	v := p.Scale(displayRadius(r, outer) * m.scale() * half / r)
	col := cx + int(math.Round(v.X))
	row := cy - int(math.Round(v.Y/2))
	if col < 0 || col >= c.width() || row < 0 || row >= c.height() {
		return 0, 0, false
	}
	return col, row, true
}

// View renders the orrery.
func (m OrreryModel) View() string {
	if m.width < 30 || m.height < 10 || m.table == nil {
		return "Orrery requires larger terminal"
	}
	return m.buildCanvas(m.width, m.height-1).render() + "\n" + m.renderHUD()
}

func (m OrreryModel) buildCanvas(width, height int) canvas {
	c := newCanvas(width, height)
	outer := m.outerRadius()
	bodies := m.table.Bodies()

	for _, b := range bodies {
		if b.Kind == orbit.KindMoon {
			continue
		}
		for i := 0; i < 360; i++ {
			sin, cos := math.Sincos(astro.DegToRad(float64(i)))
			ring := astro.Vec3{X: cos, Y: sin}.Scale(b.Radius)
			if col, row, ok := m.cell(ring, c, outer); ok {
				c.set(col, row, glyphGrid, m.theme.Grid)
			}
		}
	}

	// Ecliptic longitude 0
	if col, row, ok := m.cell(astro.Vec3{X: outer}, c, outer); ok {
		c.set(col, row, '♈', m.theme.Label)
	}

	focus, focused := m.focusedBody()
	var positions []bodyPos
	for _, b := range bodies {
		if b.Kind == orbit.KindMoon {
			continue
		}
		label := b.Name
		glyph := glyphEarth
		color := m.theme.BodyColor("Earth")
		if b.Kind != orbit.KindEarth {
			glyph = sky.Glyph(b.Name)
			color = m.theme.BodyColor(b.Name)
		}
		col, row, ok := m.cell(m.table.Heliocentric(b, m.epoch), c, outer)
		if !ok {
			continue
		}
		c.set(col, row, glyph, color)
		positions = append(positions, bodyPos{
			x:         col,
			y:         row,
			name:      label,
			color:     color,
			isFocused: focused && b.Name == focus.Name,
		})
	}

	cx, cy := width/2, height/2
	c.set(cx, cy, sky.Glyph("Sun"), m.theme.BodyColor("Sun"))

	sv := SkyViewModel{labelMode: m.labelMode, theme: m.theme}
	sv.renderLabels(c, positions)
	return c
}

// focusedBody resolves the sky focus to a drawn body. The Moon is not drawn
// apart from Earth, so focusing it highlights Earth.
func (m OrreryModel) focusedBody() (orbit.Body, bool) {
	b, ok := m.table.Lookup(m.focus)
	if !ok {
		return orbit.Body{}, false
	}
	if b.Kind == orbit.KindMoon {
		return m.table.Earth(), true
	}
	return b, true
}

func (m OrreryModel) renderHUD() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	parts := []string{fmt.Sprintf("zoom %gx", m.scale()), "log radius"}
	if b, ok := m.focusedBody(); ok {
		p := m.table.Heliocentric(b, m.epoch)
		parts = append(parts, fmt.Sprintf("%s %.3f AU from the Sun, ecl lon %.1f°",
			b.Name, p.Norm(), astro.RadToDeg(astro.EclipticLongitude(p))))
	}
	return dimStyle.Render(strings.Join(parts, " · "))
}
