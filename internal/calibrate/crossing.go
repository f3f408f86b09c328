// Package calibrate fits the frozen orbit constants against sampled
// ephemeris data. It runs offline in antikythera-calibrate only.
package calibrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/ephem"
)

// Errors returned by the calibration procedure.
var (
	ErrNoCrossing    = errors.New("no crossing in range")
	ErrDegenerateFit = errors.New("degenerate line fit")
)

// Search resolutions: a coarse scan brackets the crossing, a fine scan
// inside the bracket refines it.
const (
	CoarseStep = 24 * time.Hour
	FineStep   = time.Minute
)

// Condition selects the component of Earth's heliocentric equatorial
// vector that is watched and the direction of its sign change.
type Condition int

const (
	// ZRising is Earth climbing through the equatorial plane: the
	// September equinox, where Earth's ecliptic angle is zero.
	ZRising Condition = iota
	// XFalling is Earth passing ecliptic angle π/2: the December solstice.
	XFalling
)

// String returns the condition name.
func (c Condition) String() string {
	switch c {
	case ZRising:
		return "z-rising"
	case XFalling:
		return "x-falling"
	default:
		return "unknown"
	}
}

func (c Condition) component(v astro.Vec3) float64 {
	if c == XFalling {
		return v.X
	}
	return v.Z
}

func (c Condition) crosses(a, b float64) bool {
	if c == XFalling {
		return a > 0 && b <= 0
	}
	return a < 0 && b >= 0
}

// FindCrossing locates the first crossing in [from, to]: a 1-day scan
// brackets it, a 1-minute scan refines the bracket, and the result is
// linearly interpolated between the last two samples.
func FindCrossing(ctx context.Context, src ephem.Source, c Condition, from, to time.Time) (time.Time, error) {
	a, b, err := bracket(ctx, src, c, from, to, CoarseStep)
	if err != nil {
		return time.Time{}, err
	}
	a, b, err = bracket(ctx, src, c, a.Time, b.Time, FineStep)
	if err != nil {
		return time.Time{}, err
	}
	return interpolate(c, a, b), nil
}

// FindYearCrossing scans one calendar year (UTC) for the crossing.
func FindYearCrossing(ctx context.Context, src ephem.Source, c Condition, year int) (time.Time, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	t, err := FindCrossing(ctx, src, c, from, from.AddDate(1, 0, 0))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s crossing in %d: %w", c, year, err)
	}
	return t, nil
}

func bracket(ctx context.Context, src ephem.Source, c Condition, from, to time.Time, step time.Duration) (ephem.VectorRecord, ephem.VectorRecord, error) {
	records, err := src.EarthVectors(ctx, from, to, step)
	if err != nil {
		return ephem.VectorRecord{}, ephem.VectorRecord{}, err
	}
	for i := 1; i < len(records); i++ {
		if c.crosses(c.component(records[i-1].Pos), c.component(records[i].Pos)) {
			return records[i-1], records[i], nil
		}
	}
	return ephem.VectorRecord{}, ephem.VectorRecord{}, fmt.Errorf("%w: %s between %s and %s",
		ErrNoCrossing, c, from.Format(time.RFC3339), to.Format(time.RFC3339))
}

// interpolate finds where the watched component reaches zero on the
// straight line between two samples.
func interpolate(c Condition, a, b ephem.VectorRecord) time.Time {
	va, vb := c.component(a.Pos), c.component(b.Pos)
	frac := va / (va - vb)
	return a.Time.Add(time.Duration(frac * float64(b.Time.Sub(a.Time))))
}
