package ephem

import (
	"context"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/litescript/antikythera/internal/astro"
)

// J2000 mean obliquity of the ecliptic.
var obliquityJ2000 = unit.NewAngle(' ', 23, 26, 21.448)

// General precession in longitude, arcseconds per Julian century.
const precessionRate = 5028.796195

// MeeusSource derives Earth's heliocentric vector from the low-precision
// solar theory in Meeus, Astronomical Algorithms ch. 25. It needs no
// network and is accurate to about 0.01°, enough to reproduce the
// calibration offline. Longitudes are carried back to the J2000 equinox so
// the samples share the frame of the Horizons vectors.
type MeeusSource struct{}

// NewMeeusSource creates the offline source.
func NewMeeusSource() *MeeusSource {
	return &MeeusSource{}
}

// Name implements Source.
func (m *MeeusSource) Name() string {
	return "meeus"
}

// EarthVectors implements Source.
func (m *MeeusSource) EarthVectors(ctx context.Context, start, stop time.Time, step time.Duration) ([]VectorRecord, error) {
	instants, err := steps(start, stop, step)
	if err != nil {
		return nil, err
	}

	records := make([]VectorRecord, 0, len(instants))
	for i, t := range instants {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		jd := julian.TimeToJD(t)
		records = append(records, VectorRecord{
			JD:    jd,
			Time:  t.UTC(),
			Scale: "UT",
			Pos:   EarthPosition(jd),
		})
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	return records, nil
}

// EarthPosition returns Earth's heliocentric position at a Julian date in
// the J2000 equatorial frame, AU.
func EarthPosition(jd float64) astro.Vec3 {
	T := base.J2000Century(jd)
	lon, _ := solar.True(T)
	r := solar.Radius(T)

	// Sun's geometric longitude of date, precessed back to J2000, then
	// turned around to put Earth opposite the Sun.
	l := lon.Rad() - unit.AngleFromSec(precessionRate*T).Rad() + math.Pi
	sin, cos := math.Sincos(l)
	ecl := astro.Vec3{X: r * cos, Y: r * sin}
	return ecl.RotateX(obliquityJ2000.Rad())
}
