// Package sky computes per-frame positions of every modeled body for one
// observer and epoch.
package sky

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/clock"
	"github.com/litescript/antikythera/internal/metrics"
	"github.com/litescript/antikythera/internal/orbit"
)

// BodyPosition is one body's place in the sky for a frame. Coordinates may
// be NaN when the geometry is degenerate; such bodies are never Visible.
type BodyPosition struct {
	Name       string
	Kind       orbit.Kind
	Ecliptic   astro.Vec3 // geocentric, AU
	Distance   float64    // AU
	Equatorial astro.Equatorial
	Horizontal astro.Horizontal
	Visible    bool
	Elongation float64 // angle from the Sun, radians; NaN for the Sun

	// Illumination is the lit fraction of the disk (Moon only, NaN otherwise).
	Illumination float64
}

// Frame holds every body position computed against one epoch and one
// observer location.
type Frame struct {
	Epoch    float64
	Observer astro.Observer
	LST      float64 // local sidereal time, radians
	Bodies   []BodyPosition
}

// Time returns the frame epoch as a UTC time.
func (f Frame) Time() time.Time {
	return clock.ToTime(f.Epoch)
}

// Body returns the position of the named body.
func (f Frame) Body(name string) (BodyPosition, bool) {
	for _, b := range f.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyPosition{}, false
}

// VisibleCount returns the number of bodies above the horizon.
func (f Frame) VisibleCount() int {
	n := 0
	for _, b := range f.Bodies {
		if b.Visible {
			n++
		}
	}
	return n
}

// Engine computes frames from a body table and frozen calibration.
// It holds no per-frame state.
type Engine struct {
	table       *orbit.Table
	transformer astro.Transformer
}

// NewEngine validates the calibration and builds an engine.
func NewEngine(table *orbit.Table, cal orbit.Calibration) (*Engine, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", orbit.ErrInvalidBody)
	}
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &Engine{table: table, transformer: cal.Transformer()}, nil
}

// NewDefaultEngine builds an engine from the default table and calibration.
func NewDefaultEngine() (*Engine, error) {
	table, err := orbit.DefaultTable()
	if err != nil {
		return nil, err
	}
	return NewEngine(table, orbit.Calibrated())
}

// Table returns the body table.
func (e *Engine) Table() *orbit.Table {
	return e.table
}

// Transformer returns the coordinate transformer.
func (e *Engine) Transformer() astro.Transformer {
	return e.transformer
}

// Compute positions every body against the given epoch and observer.
func (e *Engine) Compute(epoch float64, obs astro.Observer) Frame {
	start := time.Now()
	frame := e.frameAt(epoch, obs)
	metrics.RecordFrame(time.Since(start), epoch, frame.VisibleCount())
	return frame
}

func (e *Engine) frameAt(epoch float64, obs astro.Observer) Frame {
	frame := Frame{
		Epoch:    epoch,
		Observer: obs,
		LST:      e.transformer.Sidereal.Local(epoch, obs.Lon),
		Bodies:   make([]BodyPosition, 0, e.table.Len()),
	}

	var sun astro.Equatorial
	var sunEcl astro.Vec3
	moonIdx := -1

	for _, b := range e.table.Bodies() {
		ecl := e.table.Geocentric(b, epoch)
		eq := e.transformer.ToEquatorial(ecl)
		hz := astro.EquatorialToHorizontal(eq, obs, frame.LST)

		pos := BodyPosition{
			Name:         b.Label(),
			Kind:         b.Kind,
			Ecliptic:     ecl,
			Distance:     ecl.Norm(),
			Equatorial:   eq,
			Horizontal:   hz,
			Visible:      hz.AboveHorizon(),
			Illumination: math.NaN(),
		}

		switch b.Kind {
		case orbit.KindEarth:
			sun = eq
			sunEcl = ecl
		case orbit.KindMoon:
			moonIdx = len(frame.Bodies)
		}
		frame.Bodies = append(frame.Bodies, pos)
	}

	for i := range frame.Bodies {
		b := &frame.Bodies[i]
		b.Elongation = math.NaN()
		if b.Kind != orbit.KindEarth {
			b.Elongation = astro.VectorSeparation(sunEcl, b.Ecliptic)
		}
	}

	if moonIdx >= 0 {
		moon := &frame.Bodies[moonIdx]
		moon.Illumination = astro.IlluminatedFraction(astro.AngularSeparation(sun, moon.Equatorial))
	}
	return frame
}
