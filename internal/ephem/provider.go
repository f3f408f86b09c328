// Package ephem samples Earth's heliocentric position from external
// ephemerides. It feeds the offline calibration tool only; the sky engine
// never imports it.
package ephem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/litescript/antikythera/internal/astro"
)

// ErrNoData is returned when a source yields no vectors for a request.
var ErrNoData = errors.New("no ephemeris data")

// VectorRecord is one sample of Earth's heliocentric position in the
// ICRF equatorial frame, in AU.
type VectorRecord struct {
	JD    float64   // Julian date in the source's time scale
	Time  time.Time // calendar instant, UTC
	Scale string    // time scale label, e.g. "TDB"
	Pos   astro.Vec3
}

// Source supplies Earth position samples.
type Source interface {
	// Name returns the source name for display/logging.
	Name() string

	// EarthVectors returns samples from start to stop inclusive, step apart.
	EarthVectors(ctx context.Context, start, stop time.Time, step time.Duration) ([]VectorRecord, error)
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeHorizons Mode = iota // JPL Horizons API (default)
	ModeMeeus                // offline meeus solar theory
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeHorizons:
		return "horizons"
	case ModeMeeus:
		return "meeus"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "horizons", "":
		return ModeHorizons, nil
	case "meeus":
		return ModeMeeus, nil
	default:
		return 0, fmt.Errorf("unknown ephemeris source %q", s)
	}
}

// steps returns the sample instants from start to stop inclusive.
func steps(start, stop time.Time, step time.Duration) ([]time.Time, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %v", step)
	}
	if stop.Before(start) {
		return nil, fmt.Errorf("stop %v before start %v", stop, start)
	}
	var out []time.Time
	for t := start; !t.After(stop); t = t.Add(step) {
		out = append(out, t)
	}
	return out, nil
}
