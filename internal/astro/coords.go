package astro

import (
	"math"
)

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// Obliquity is the fixed angle between Earth's equator and the ecliptic, in radians.
const Obliquity = 23.44 * math.Pi / 180

// Equatorial holds right ascension (0 to 2π) and declination (-π/2 to π/2) in radians.
type Equatorial struct {
	RA  float64
	Dec float64
}

// Horizontal holds altitude (-π/2 to π/2) and azimuth (0 to 2π) in radians.
// Azimuth is measured from north through east. Negative altitude means the
// point is below the horizon.
type Horizontal struct {
	Alt float64
	Az  float64
}

// Defined reports whether both components are numbers. Degenerate geometry
// yields NaN and such points must not be drawn.
func (h Horizontal) Defined() bool {
	return !math.IsNaN(h.Alt) && !math.IsNaN(h.Az)
}

// AboveHorizon reports whether the point is defined and not below the horizon.
func (h Horizontal) AboveHorizon() bool {
	return h.Defined() && h.Alt >= 0
}

// Observer is a ground-based observer location in radians
// (latitude north positive, longitude east positive).
type Observer struct {
	Lat float64
	Lon float64
}

// Tilt describes the orientation of Earth's rotation axis relative to the
// ecliptic: the obliquity and the ecliptic direction the north pole leans
// toward (the axial phase).
type Tilt struct {
	Obliquity  float64
	AxialPhase float64
}

// EclipticToEquatorial rotates an ecliptic vector into the equatorial frame.
// The rotation is by the obliquity about the equinox node, which lies a
// quarter turn behind the axial phase. With an axial phase of π/2 this is
// the plain rotation about the ecliptic X axis.
func (t Tilt) EclipticToEquatorial(ecl Vec3) Vec3 {
	node := t.AxialPhase - math.Pi/2
	return ecl.RotateZ(-node).RotateX(t.Obliquity).RotateZ(node)
}

// EquatorialToEcliptic is the inverse of EclipticToEquatorial.
func (t Tilt) EquatorialToEcliptic(eq Vec3) Vec3 {
	node := t.AxialPhase - math.Pi/2
	return eq.RotateZ(-node).RotateX(-t.Obliquity).RotateZ(node)
}

// VectorToEquatorial derives right ascension and declination from an
// equatorial vector. A zero-length or non-finite vector yields NaN for both.
func VectorToEquatorial(v Vec3) Equatorial {
	r := v.Norm()
	if r == 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return Equatorial{RA: math.NaN(), Dec: math.NaN()}
	}
	return Equatorial{
		RA:  NormalizeAngle(math.Atan2(v.Y, v.X)),
		Dec: math.Asin(clampUnit(v.Z / r)),
	}
}

// SiderealClock maps an epoch (seconds) to Greenwich sidereal time.
// Sidereal time advances linearly at one turn per sidereal day.
type SiderealClock struct {
	Day          float64 // sidereal day in seconds
	PhaseAtEpoch float64 // Greenwich sidereal angle at epoch 0, radians
}

// Greenwich returns the Greenwich sidereal angle in radians (0 to 2π).
func (s SiderealClock) Greenwich(epoch float64) float64 {
	return NormalizeAngle(s.PhaseAtEpoch + TwoPi*math.Mod(epoch/s.Day, 1))
}

// Local returns the local sidereal angle for an east-positive longitude.
func (s SiderealClock) Local(epoch, lon float64) float64 {
	return NormalizeAngle(s.Greenwich(epoch) + lon)
}

// EquatorialToHorizontal converts equatorial coordinates to horizontal
// coordinates for an observer at the given local sidereal time (radians).
//
// Uses the standard identities with hour angle H = LST - RA:
//
//	sin(alt) = sin(dec)·sin(lat) + cos(dec)·cos(lat)·cos(H)
//	az = atan2(-sin(H)·cos(dec), cos(lat)·sin(dec) - sin(lat)·cos(dec)·cos(H))
//
// NaN inputs propagate to NaN outputs.
func EquatorialToHorizontal(eq Equatorial, obs Observer, lst float64) Horizontal {
	if math.IsNaN(eq.RA) || math.IsNaN(eq.Dec) {
		return Horizontal{Alt: math.NaN(), Az: math.NaN()}
	}

	ha := lst - eq.RA
	sinH, cosH := math.Sincos(ha)
	sinDec, cosDec := math.Sincos(eq.Dec)
	sinLat, cosLat := math.Sincos(obs.Lat)

	sinAlt := sinDec*sinLat + cosDec*cosLat*cosH
	alt := math.Asin(clampUnit(sinAlt))

	az := math.Atan2(-sinH*cosDec, cosLat*sinDec-sinLat*cosDec*cosH)

	return Horizontal{Alt: alt, Az: NormalizeAngle(az)}
}

// HorizontalToEquatorial inverts EquatorialToHorizontal for the same
// observer and local sidereal time.
func HorizontalToEquatorial(h Horizontal, obs Observer, lst float64) Equatorial {
	if !h.Defined() {
		return Equatorial{RA: math.NaN(), Dec: math.NaN()}
	}

	sinAz, cosAz := math.Sincos(h.Az)
	sinAlt, cosAlt := math.Sincos(h.Alt)
	sinLat, cosLat := math.Sincos(obs.Lat)

	sinDec := sinAlt*sinLat + cosAlt*cosLat*cosAz
	dec := math.Asin(clampUnit(sinDec))

	ha := math.Atan2(-sinAz*cosAlt, cosLat*sinAlt-sinLat*cosAlt*cosAz)

	return Equatorial{RA: NormalizeAngle(lst - ha), Dec: dec}
}

// Transformer chains ecliptic → equatorial → horizontal for one set of
// Earth orientation parameters.
type Transformer struct {
	Tilt     Tilt
	Sidereal SiderealClock
}

// ToEquatorial converts a geocentric ecliptic vector to RA/Dec.
func (t Transformer) ToEquatorial(ecl Vec3) Equatorial {
	return VectorToEquatorial(t.Tilt.EclipticToEquatorial(ecl))
}

// ToHorizontal converts a geocentric ecliptic vector to altitude/azimuth for
// an observer at the given epoch. The intermediate equatorial coordinate is
// returned as well.
func (t Transformer) ToHorizontal(ecl Vec3, obs Observer, epoch float64) (Equatorial, Horizontal) {
	eq := t.ToEquatorial(ecl)
	lst := t.Sidereal.Local(epoch, obs.Lon)
	return eq, EquatorialToHorizontal(eq, obs, lst)
}

// NormalizeAngle wraps an angle in radians to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// a tiny negative remainder rounds up to exactly 2π
	if a >= TwoPi {
		a = 0
	}
	return a
}

// NormalizeSigned wraps an angle in radians to [-π, π).
func NormalizeSigned(a float64) float64 {
	a = NormalizeAngle(a + math.Pi)
	return a - math.Pi
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// clampUnit clamps to [-1, 1] to absorb floating point overshoot before asin.
// NaN passes through unchanged.
func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
