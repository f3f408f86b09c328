// Package orbit models the Sun, Moon and planets as circular orbits.
//
// The model makes three deliberate approximations, all compensated for
// within its accuracy target by the fitted calibration constants:
//
//   - Orbits are circles in the ecliptic plane (no eccentricity,
//     inclination or secular drift).
//   - Earth's heliocentric orbit stands in for the Sun's apparent motion.
//   - The Moon orbits Earth's center, not the Earth–Moon barycenter.
package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/antikythera/internal/astro"
)

// Errors returned when building a body table.
var (
	ErrInvalidBody        = errors.New("invalid orbital body")
	ErrInvalidCalibration = errors.New("invalid calibration")
)

// Kind identifies what a body orbits and how its geocentric position is derived.
type Kind int

const (
	// KindEarth is Earth's heliocentric orbit; seen from Earth it is the Sun.
	KindEarth Kind = iota
	// KindMoon orbits Earth's center directly.
	KindMoon
	// KindPlanet orbits the Sun.
	KindPlanet
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEarth:
		return "earth"
	case KindMoon:
		return "moon"
	case KindPlanet:
		return "planet"
	default:
		return "unknown"
	}
}

// Body is a circular-orbit descriptor.
type Body struct {
	Name   string
	Kind   Kind
	Radius float64 // orbital radius in AU
	Period float64 // orbital period in seconds
	Phase  float64 // orbital angle at epoch 0, radians [0, 2π)
}

// Label returns the name the body appears under in the sky.
func (b Body) Label() string {
	if b.Kind == KindEarth {
		return "Sun"
	}
	return b.Name
}

// Validate checks that radius and period are positive and finite.
func (b Body) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidBody)
	}
	if !(b.Period > 0) || math.IsInf(b.Period, 0) {
		return fmt.Errorf("%w: %s: period %v", ErrInvalidBody, b.Name, b.Period)
	}
	if !(b.Radius > 0) || math.IsInf(b.Radius, 0) {
		return fmt.Errorf("%w: %s: radius %v", ErrInvalidBody, b.Name, b.Radius)
	}
	if math.IsNaN(b.Phase) || math.IsInf(b.Phase, 0) {
		return fmt.Errorf("%w: %s: phase %v", ErrInvalidBody, b.Name, b.Phase)
	}
	return nil
}

// Angle returns the body's orbital-plane angle at the given epoch:
// phase + 2π·(epoch/period), wrapped to [0, 2π).
func Angle(b Body, epoch float64) float64 {
	return astro.NormalizeAngle(b.Phase + astro.TwoPi*math.Mod(epoch/b.Period, 1))
}

// OrbitalPosition returns the body's position in its own orbital plane,
// centered on what it orbits, in AU.
func OrbitalPosition(b Body, epoch float64) astro.Vec3 {
	sin, cos := math.Sincos(Angle(b, epoch))
	return astro.Vec3{X: b.Radius * cos, Y: b.Radius * sin}
}
