package astro

import (
	"math"
)

// ProjectedPoint represents a 2D position on the sky dome.
// X grows toward the east and Y toward the north; the horizon maps to
// radius 1 and the zenith to the origin.
type ProjectedPoint struct {
	X float64
	Y float64
	R float64 // radial distance from the zenith
}

// Inside reports whether the point lies on or within the horizon circle.
func (p ProjectedPoint) Inside() bool {
	return p.R <= 1
}

// Projection selects how altitude maps to radial distance on the dome.
type Projection int

const (
	// ProjectEquidistant maps altitude linearly: r = 1 - 2·alt/π.
	ProjectEquidistant Projection = iota

	// ProjectStereographic preserves angles: r = tan((π/2 - alt)/2).
	ProjectStereographic
)

// String returns the projection name.
func (p Projection) String() string {
	switch p {
	case ProjectEquidistant:
		return "equidistant"
	case ProjectStereographic:
		return "stereographic"
	default:
		return "unknown"
	}
}

// ParseProjection parses a projection name, defaulting to equidistant.
func ParseProjection(s string) Projection {
	switch s {
	case "stereographic", "stereo":
		return ProjectStereographic
	default:
		return ProjectEquidistant
	}
}

// ProjectDome projects a horizontal coordinate onto the dome plane.
// The second result is false for undefined (NaN) coordinates.
func ProjectDome(h Horizontal, p Projection) (ProjectedPoint, bool) {
	if !h.Defined() {
		return ProjectedPoint{}, false
	}

	var r float64
	switch p {
	case ProjectStereographic:
		r = math.Tan((math.Pi/2 - h.Alt) / 2)
	default:
		r = 1 - h.Alt*2/math.Pi
	}

	sinAz, cosAz := math.Sincos(h.Az)
	return ProjectedPoint{
		X: r * sinAz,
		Y: r * cosAz,
		R: r,
	}, true
}
