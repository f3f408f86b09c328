package orbit

import (
	"fmt"
	"math"

	"github.com/litescript/antikythera/internal/astro"
)

// Calibration holds the phase constants of the Earth model. The values are
// fitted offline by antikythera-calibrate against JPL Horizons vectors and
// are frozen here; the running engine never refits them.
type Calibration struct {
	// SiderealYear is the fitted period of Earth's orbit, in seconds.
	SiderealYear float64
	// OriginEpoch is the epoch at which Earth's ecliptic angle is zero
	// (September equinox crossing of the fitted line).
	OriginEpoch float64
	// AxialPhase is the ecliptic direction the north pole leans toward, in radians.
	AxialPhase float64
	// SiderealDay is the length of one rotation relative to the stars, in seconds.
	SiderealDay float64
	// DailyPhase is the angle of the Greenwich meridian at epoch 0, measured
	// from the ecliptic x-axis of the model rather than the equinox, in radians.
	DailyPhase float64
}

// Reference constants. antikythera-calibrate verify refits them against an
// ephemeris and fails when a fitted value drifts past its tolerance.
const (
	calibratedSiderealYear = 31558144.36363983
	calibratedOriginEpoch  = 22895383.63636017
	calibratedAxialPhase   = 1.54075846982669
	calibratedSiderealDay  = 86164.0905
	calibratedDailyPhase   = 1.7192993195878277
)

// Calibrated returns the frozen calibration constants.
func Calibrated() Calibration {
	return Calibration{
		SiderealYear: calibratedSiderealYear,
		OriginEpoch:  calibratedOriginEpoch,
		AxialPhase:   calibratedAxialPhase,
		SiderealDay:  calibratedSiderealDay,
		DailyPhase:   calibratedDailyPhase,
	}
}

// Validate checks that every period is positive and every value finite.
func (c Calibration) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"sidereal year", c.SiderealYear},
		{"origin epoch", c.OriginEpoch},
		{"axial phase", c.AxialPhase},
		{"sidereal day", c.SiderealDay},
		{"daily phase", c.DailyPhase},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidCalibration, f.name)
		}
	}
	if c.SiderealYear <= 0 {
		return fmt.Errorf("%w: sidereal year %v", ErrInvalidCalibration, c.SiderealYear)
	}
	if c.SiderealDay <= 0 {
		return fmt.Errorf("%w: sidereal day %v", ErrInvalidCalibration, c.SiderealDay)
	}
	return nil
}

// EarthPhase returns Earth's orbital angle at epoch 0 implied by the origin epoch.
func (c Calibration) EarthPhase() float64 {
	return astro.NormalizeAngle(-astro.TwoPi * math.Mod(c.OriginEpoch/c.SiderealYear, 1))
}

// Transformer returns the coordinate transformer parameterized by these constants.
func (c Calibration) Transformer() astro.Transformer {
	return astro.Transformer{
		Tilt: astro.Tilt{
			Obliquity:  astro.Obliquity,
			AxialPhase: c.AxialPhase,
		},
		Sidereal: astro.SiderealClock{
			Day:          c.SiderealDay,
			PhaseAtEpoch: c.DailyPhase,
		},
	}
}
