package orbit

import (
	"fmt"

	"github.com/litescript/antikythera/internal/astro"
)

const day = 86400.0

// Moon orbit: sidereal month, phase is the mean longitude at epoch 0.
const (
	moonPeriod = 27.321661547 * day
	moonPhase  = 3.4549155124387347
)

// moonRadius is the Moon's mean distance.
var moonRadius = astro.KmToAU(384400)

// planets holds mean orbital radius (AU), period (days) and mean longitude at epoch 0.
var planets = []Body{
	{Name: "Mercury", Kind: KindPlanet, Radius: 0.38709927, Period: 87.96925644 * day, Phase: 0.8804852714060565},
	{Name: "Venus", Kind: KindPlanet, Radius: 0.72333566, Period: 224.70080117 * day, Phase: 4.65364963316577},
	{Name: "Mars", Kind: KindPlanet, Radius: 1.52371034, Period: 686.97973153 * day, Phase: 0.2331020289190747},
	{Name: "Jupiter", Kind: KindPlanet, Radius: 5.20288700, Period: 4332.81712752 * day, Phase: 3.5599934919888305},
	{Name: "Saturn", Kind: KindPlanet, Radius: 9.53667594, Period: 10755.88433613 * day, Phase: 0.7540897077268107},
}

// DefaultBodies returns the modeled bodies for a calibration: Earth (seen as
// the Sun), the Moon and the five naked-eye planets.
func DefaultBodies(cal Calibration) []Body {
	bodies := []Body{
		{Name: "Earth", Kind: KindEarth, Radius: 1, Period: cal.SiderealYear, Phase: cal.EarthPhase()},
		{Name: "Moon", Kind: KindMoon, Radius: moonRadius, Period: moonPeriod, Phase: moonPhase},
	}
	return append(bodies, planets...)
}

// Table is an immutable, validated set of bodies with exactly one Earth.
type Table struct {
	bodies []Body
	earth  Body
}

// NewTable validates the bodies and builds a table. Phases are wrapped to
// [0, 2π). An error here means the engine must not start.
func NewTable(bodies []Body) (*Table, error) {
	t := &Table{bodies: make([]Body, 0, len(bodies))}
	seen := make(map[string]bool, len(bodies))
	earths := 0

	for _, b := range bodies {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("%w: duplicate body %q", ErrInvalidBody, b.Name)
		}
		seen[b.Name] = true

		b.Phase = astro.NormalizeAngle(b.Phase)
		if b.Kind == KindEarth {
			earths++
			t.earth = b
		}
		t.bodies = append(t.bodies, b)
	}

	if earths != 1 {
		return nil, fmt.Errorf("%w: table needs exactly one earth body, got %d", ErrInvalidBody, earths)
	}
	return t, nil
}

// DefaultTable builds the table from the frozen calibration.
func DefaultTable() (*Table, error) {
	cal := Calibrated()
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return NewTable(DefaultBodies(cal))
}

// Bodies returns a copy of the bodies in table order.
func (t *Table) Bodies() []Body {
	out := make([]Body, len(t.bodies))
	copy(out, t.bodies)
	return out
}

// Len returns the number of bodies.
func (t *Table) Len() int {
	return len(t.bodies)
}

// Earth returns the Earth body.
func (t *Table) Earth() Body {
	return t.earth
}

// Lookup finds a body by name or sky label.
func (t *Table) Lookup(name string) (Body, bool) {
	for _, b := range t.bodies {
		if b.Name == name || b.Label() == name {
			return b, true
		}
	}
	return Body{}, false
}

// Geocentric returns the body's position relative to Earth's center in
// ecliptic coordinates (AU). For the Earth body this is the Sun's apparent
// position, the negation of Earth's heliocentric vector.
func (t *Table) Geocentric(b Body, epoch float64) astro.Vec3 {
	switch b.Kind {
	case KindEarth:
		return OrbitalPosition(b, epoch).Neg()
	case KindMoon:
		return OrbitalPosition(b, epoch)
	default:
		return OrbitalPosition(b, epoch).Sub(OrbitalPosition(t.earth, epoch))
	}
}

// Heliocentric returns the body's position relative to the Sun in ecliptic
// coordinates (AU). The Moon rides on Earth.
func (t *Table) Heliocentric(b Body, epoch float64) astro.Vec3 {
	switch b.Kind {
	case KindMoon:
		return OrbitalPosition(t.earth, epoch).Add(OrbitalPosition(b, epoch))
	default:
		return OrbitalPosition(b, epoch)
	}
}
