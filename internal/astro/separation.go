package astro

import (
	"math"
)

// AngularSeparation calculates the angular separation between two points on
// the celestial sphere. All angles in radians.
func AngularSeparation(a, b Equatorial) float64 {
	// Haversine formula for angular separation
	dRA := b.RA - a.RA
	dDec := b.Dec - a.Dec

	h := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(a.Dec)*math.Cos(b.Dec)*math.Sin(dRA/2)*math.Sin(dRA/2)

	// Clamp to avoid numerical errors with asin
	if h > 1 {
		h = 1
	}

	return 2 * math.Asin(math.Sqrt(h))
}

// VectorSeparation returns the angle in radians between two direction
// vectors, NaN when either is zero.
func VectorSeparation(a, b Vec3) float64 {
	if a.Norm() == 0 || b.Norm() == 0 {
		return math.NaN()
	}
	c := a.Normalized().Dot(b.Normalized())
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// IlluminatedFraction returns the lit fraction of a body's disk seen from
// Earth given its elongation from the Sun in radians. Uses the far-Sun
// approximation (phase angle = π - elongation), adequate for the Moon.
func IlluminatedFraction(elongation float64) float64 {
	return (1 - math.Cos(elongation)) / 2
}
