package orbit

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/litescript/antikythera/internal/astro"
)

func mustDefaultTable(t *testing.T) *Table {
	t.Helper()
	table, err := DefaultTable()
	if err != nil {
		t.Fatalf("DefaultTable() error: %v", err)
	}
	return table
}

func TestDefaultTable(t *testing.T) {
	table := mustDefaultTable(t)

	if table.Len() != 7 {
		t.Errorf("Len() = %d, want 7", table.Len())
	}
	if table.Earth().Kind != KindEarth {
		t.Errorf("Earth().Kind = %v", table.Earth().Kind)
	}
	for _, name := range []string{"Sun", "Earth", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn"} {
		if _, ok := table.Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found", name)
		}
	}
	if _, ok := table.Lookup("Pluto"); ok {
		t.Error("Lookup(Pluto) should fail")
	}
}

func TestNewTableRejects(t *testing.T) {
	earth := Body{Name: "Earth", Kind: KindEarth, Radius: 1, Period: 100}
	moon := Body{Name: "Moon", Kind: KindMoon, Radius: 0.002, Period: 10}

	tests := []struct {
		name   string
		bodies []Body
	}{
		{"no earth", []Body{moon}},
		{"two earths", []Body{earth, {Name: "Earth2", Kind: KindEarth, Radius: 1, Period: 100}}},
		{"duplicate name", []Body{earth, moon, moon}},
		{"zero period", []Body{earth, {Name: "Bad", Kind: KindPlanet, Radius: 1, Period: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.bodies)
			if !errors.Is(err, ErrInvalidBody) {
				t.Errorf("NewTable() error = %v, want ErrInvalidBody", err)
			}
		})
	}
}

func TestNewTableWrapsPhase(t *testing.T) {
	table, err := NewTable([]Body{
		{Name: "Earth", Kind: KindEarth, Radius: 1, Period: 100, Phase: -math.Pi / 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Earth().Phase; math.Abs(got-3*math.Pi/2) > 1e-12 {
		t.Errorf("phase = %v, want 3π/2", got)
	}
}

func TestBodiesIsCopy(t *testing.T) {
	table := mustDefaultTable(t)
	bodies := table.Bodies()
	bodies[0].Name = "Changed"
	if table.Bodies()[0].Name == "Changed" {
		t.Error("Bodies() exposes internal slice")
	}
}

func TestEarthAngleAtOrigin(t *testing.T) {
	cal := Calibrated()
	table := mustDefaultTable(t)
	earth := table.Earth()

	if a := astro.NormalizeSigned(Angle(earth, cal.OriginEpoch)); math.Abs(a) > 1e-9 {
		t.Errorf("Earth angle at origin = %v, want 0", a)
	}
	if a := astro.NormalizeSigned(Angle(earth, cal.OriginEpoch+cal.SiderealYear)); math.Abs(a) > 1e-9 {
		t.Errorf("Earth angle one year after origin = %v, want 0", a)
	}

	// Earth at longitude 0 puts the Sun at longitude π.
	sun := table.Geocentric(earth, cal.OriginEpoch)
	if lon := astro.EclipticLongitude(sun); math.Abs(lon-math.Pi) > 1e-9 {
		t.Errorf("Sun longitude at origin = %v, want π", lon)
	}
}

func TestGeocentric(t *testing.T) {
	table := mustDefaultTable(t)
	earth := table.Earth()
	epoch := 1.7e9
	earthPos := OrbitalPosition(earth, epoch)

	sun := table.Geocentric(earth, epoch)
	if !vecNear(sun, earthPos.Neg(), 1e-12) {
		t.Errorf("Sun = %+v, want %+v", sun, earthPos.Neg())
	}

	moon, _ := table.Lookup("Moon")
	moonPos := table.Geocentric(moon, epoch)
	if math.Abs(moonPos.Norm()-moon.Radius) > 1e-15 {
		t.Errorf("|Moon| = %v, want %v", moonPos.Norm(), moon.Radius)
	}
	if km := astro.AUToKm(moon.Radius); math.Abs(km-384400) > 1e-6 {
		t.Errorf("Moon distance = %v km, want 384400", km)
	}

	mars, _ := table.Lookup("Mars")
	want := OrbitalPosition(mars, epoch).Sub(earthPos)
	if got := table.Geocentric(mars, epoch); !vecNear(got, want, 1e-12) {
		t.Errorf("Mars = %+v, want %+v", got, want)
	}
}

func TestHeliocentricRoundTrip(t *testing.T) {
	table := mustDefaultTable(t)
	earth := table.Earth()

	for _, epoch := range []float64{-1e9, 0, 1.7e9} {
		earthPos := table.Heliocentric(earth, epoch)
		if math.Abs(earthPos.Norm()-1) > 1e-12 {
			t.Errorf("|Earth| = %v at %v, want 1", earthPos.Norm(), epoch)
		}
		for _, b := range table.Bodies() {
			// Geocentric = heliocentric minus Earth for every kind.
			got := table.Heliocentric(b, epoch).Sub(earthPos)
			if want := table.Geocentric(b, epoch); b.Kind != KindEarth && !vecNear(got, want, 1e-9) {
				t.Errorf("%s at %v: helio-earth = %+v, geocentric = %+v", b.Name, epoch, got, want)
			}
		}
	}
}

func TestSunLongitudeAgainstMeeus(t *testing.T) {
	table := mustDefaultTable(t)
	earth := table.Earth()

	dates := []time.Time{
		time.Date(1970, 9, 23, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC),
		time.Date(2031, 3, 15, 6, 0, 0, 0, time.UTC),
	}

	// The circle is pinned at the September equinox, so the equation of
	// center swings the error to about 4° in early spring.
	const tolerance = 4.5

	for _, d := range dates {
		epoch := float64(d.Unix())
		model := astro.RadToDeg(astro.EclipticLongitude(table.Geocentric(earth, epoch)))

		T := base.J2000Century(julian.TimeToJD(d))
		lon, _ := solar.True(T)
		ref := lon.Deg()

		diff := math.Abs(astro.RadToDeg(astro.NormalizeSigned(astro.DegToRad(model - ref))))
		if diff > tolerance {
			t.Errorf("%s: model %.2f°, meeus %.2f°, diff %.2f°", d.Format("2006-01-02"), model, ref, diff)
		}
	}
}

func TestCalibrationValidate(t *testing.T) {
	if err := Calibrated().Validate(); err != nil {
		t.Fatalf("Calibrated().Validate() = %v", err)
	}

	bad := Calibrated()
	bad.SiderealYear = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidCalibration) {
		t.Errorf("zero year: error = %v", err)
	}

	bad = Calibrated()
	bad.DailyPhase = math.Inf(1)
	if err := bad.Validate(); !errors.Is(err, ErrInvalidCalibration) {
		t.Errorf("infinite phase: error = %v", err)
	}
}

func TestCalibrationTransformer(t *testing.T) {
	cal := Calibrated()
	tr := cal.Transformer()
	if tr.Tilt.AxialPhase != cal.AxialPhase || tr.Sidereal.Day != cal.SiderealDay {
		t.Errorf("Transformer() = %+v", tr)
	}
	if tr.Tilt.Obliquity != astro.Obliquity {
		t.Errorf("obliquity = %v", tr.Tilt.Obliquity)
	}
}

func vecNear(a, b astro.Vec3, tol float64) bool {
	return a.Sub(b).Norm() <= tol
}
