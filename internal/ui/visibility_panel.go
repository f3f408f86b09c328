package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/sky"
)

// Altitude tier colors
const (
	colorAltHigh   = "#7CFC00" // Lawn green - above 45°
	colorAltMedium = "#FFD700" // Gold - 15° to 45°
	colorAltLow    = "#FF6347" // Tomato - below 15°
	colorAltNone   = "#444444" // Dark gray - below horizon
)

// RenderBodyPanel renders one line per body with its place in the sky.
// Format:
//
//	☉ Sun       alt  32.4° SSW  az 201.7°  RA 13h42m  Dec -10°12'
//	☾ Moon      below horizon              RA 02h10m  Dec +14°03'  61% lit
func RenderBodyPanel(f sky.Frame, focusIdx int) string {
	if len(f.Bodies) == 0 {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)

	var lines []string
	for i, b := range f.Bodies {
		name := fmt.Sprintf("%c %-8s", sky.Glyph(b.Name), b.Name)
		if i == focusIdx {
			name = focusStyle.Render(name)
		}

		var where string
		if b.Visible {
			alt := astro.RadToDeg(b.Horizontal.Alt)
			az := astro.RadToDeg(b.Horizontal.Az)
			where = colorByAltitude(alt, fmt.Sprintf("alt %5.1f° %-3s az %5.1f°", alt, compassPoint(az), az))
		} else {
			where = dimStyle.Render(fmt.Sprintf("%-25s", "below horizon"))
		}

		eq := dimStyle.Render(fmt.Sprintf("RA %s  Dec %s",
			sky.FormatHours(b.Equatorial.RA), sky.FormatDegrees(b.Equatorial.Dec)))

		line := name + "  " + where + "  " + eq
		if !math.IsNaN(b.Illumination) {
			line += dimStyle.Render(fmt.Sprintf("  %.0f%% lit", b.Illumination*100))
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// colorByAltitude colors text by how high the body stands.
func colorByAltitude(alt float64, text string) string {
	var color string
	switch {
	case alt >= 45:
		color = colorAltHigh
	case alt >= 15:
		color = colorAltMedium
	case alt >= 0:
		color = colorAltLow
	default:
		color = colorAltNone
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}
