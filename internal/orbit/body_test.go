package orbit

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/antikythera/internal/astro"
)

func TestAngleQuarterPeriod(t *testing.T) {
	b := Body{Name: "Test", Kind: KindPlanet, Radius: 2, Period: 1000, Phase: 0}

	pos := OrbitalPosition(b, 250)
	if math.Abs(pos.X) > 1e-12 || math.Abs(pos.Y-2) > 1e-12 || pos.Z != 0 {
		t.Errorf("OrbitalPosition at P/4 = %+v, want (0, 2, 0)", pos)
	}

	pos = OrbitalPosition(b, 0)
	if math.Abs(pos.X-2) > 1e-12 || math.Abs(pos.Y) > 1e-12 {
		t.Errorf("OrbitalPosition at 0 = %+v, want (2, 0, 0)", pos)
	}
}

func TestAnglePeriodicity(t *testing.T) {
	bodies := DefaultBodies(Calibrated())
	epochs := []float64{0, 1.7e9, -3.2e8, 22895383.63636017}

	for _, b := range bodies {
		for _, epoch := range epochs {
			a := Angle(b, epoch)
			later := Angle(b, epoch+b.Period)
			diff := math.Abs(astro.NormalizeSigned(later - a))
			if diff > 1e-9 {
				t.Errorf("%s: Angle(%v+P) differs by %v rad", b.Name, epoch, diff)
			}
		}
	}
}

func TestAngleRange(t *testing.T) {
	b := Body{Name: "Test", Kind: KindPlanet, Radius: 1, Period: 3600, Phase: 6}
	for _, epoch := range []float64{-1e9, -1, 0, 1799, 1e9} {
		a := Angle(b, epoch)
		if a < 0 || a >= astro.TwoPi {
			t.Errorf("Angle(%v) = %v, want [0, 2π)", epoch, a)
		}
	}
}

func TestOrbitalPositionRadius(t *testing.T) {
	for _, b := range DefaultBodies(Calibrated()) {
		pos := OrbitalPosition(b, 1.5e9)
		if math.Abs(pos.Norm()-b.Radius) > 1e-12*b.Radius {
			t.Errorf("%s: |pos| = %v, want %v", b.Name, pos.Norm(), b.Radius)
		}
		if pos.Z != 0 {
			t.Errorf("%s: Z = %v, want 0", b.Name, pos.Z)
		}
	}
}

func TestBodyValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    Body
		wantErr bool
	}{
		{"valid", Body{Name: "A", Radius: 1, Period: 1}, false},
		{"missing name", Body{Radius: 1, Period: 1}, true},
		{"zero period", Body{Name: "A", Radius: 1, Period: 0}, true},
		{"negative period", Body{Name: "A", Radius: 1, Period: -5}, true},
		{"nan period", Body{Name: "A", Radius: 1, Period: math.NaN()}, true},
		{"infinite period", Body{Name: "A", Radius: 1, Period: math.Inf(1)}, true},
		{"zero radius", Body{Name: "A", Radius: 0, Period: 1}, true},
		{"nan phase", Body{Name: "A", Radius: 1, Period: 1, Phase: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.body.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidBody) {
				t.Errorf("error %v is not ErrInvalidBody", err)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := (Body{Name: "Earth", Kind: KindEarth}).Label(); got != "Sun" {
		t.Errorf("Earth label = %q, want Sun", got)
	}
	if got := (Body{Name: "Mars", Kind: KindPlanet}).Label(); got != "Mars" {
		t.Errorf("Mars label = %q, want Mars", got)
	}
}
