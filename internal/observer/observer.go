// Package observer holds the observer's location and the keyboard entry
// state machine that edits it.
package observer

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/antikythera/internal/astro"
)

// Validation errors. Both leave the location unchanged.
var (
	ErrOutOfRange = errors.New("coordinate out of range")
	ErrMalformed  = errors.New("malformed coordinate")
)

// State is the observer's mutable location. Latitude is in [-π/2, π/2],
// longitude in [-π, π).
type State struct {
	loc astro.Observer
}

// New validates an initial location.
func New(lat, lon float64) (*State, error) {
	s := &State{}
	if err := s.SetLatitude(lat); err != nil {
		return nil, err
	}
	if err := s.SetLongitude(lon); err != nil {
		return nil, err
	}
	return s, nil
}

// Location returns the current location.
func (s *State) Location() astro.Observer {
	return s.loc
}

// SetLatitude sets the latitude in radians. Out-of-range or non-numeric
// values are rejected and the previous latitude is kept.
func (s *State) SetLatitude(lat float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return fmt.Errorf("latitude: %w", ErrMalformed)
	}
	if lat < -math.Pi/2 || lat > math.Pi/2 {
		return fmt.Errorf("latitude %.4f°: %w", astro.RadToDeg(lat), ErrOutOfRange)
	}
	s.loc.Lat = lat
	return nil
}

// SetLongitude sets the longitude in radians. Values in [-π, π] are
// accepted; +π is stored as -π. Anything else is rejected and the previous
// longitude is kept.
func (s *State) SetLongitude(lon float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("longitude: %w", ErrMalformed)
	}
	if lon < -math.Pi || lon > math.Pi {
		return fmt.Errorf("longitude %.4f°: %w", astro.RadToDeg(lon), ErrOutOfRange)
	}
	if lon == math.Pi {
		lon = -math.Pi
	}
	s.loc.Lon = lon
	return nil
}

// SetLatitudeDegrees is SetLatitude for a value in degrees.
func (s *State) SetLatitudeDegrees(deg float64) error {
	if deg == 90 || deg == -90 {
		return s.SetLatitude(math.Copysign(math.Pi/2, deg))
	}
	return s.SetLatitude(astro.DegToRad(deg))
}

// SetLongitudeDegrees is SetLongitude for a value in degrees.
func (s *State) SetLongitudeDegrees(deg float64) error {
	if deg == 180 || deg == -180 {
		return s.SetLongitude(math.Copysign(math.Pi, deg))
	}
	return s.SetLongitude(astro.DegToRad(deg))
}
