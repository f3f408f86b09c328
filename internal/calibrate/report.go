package calibrate

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/orbit"
)

// Tolerance bounds how far a fresh calibration may drift from the frozen
// constants before verify fails. Times in seconds, phases in radians.
type Tolerance struct {
	SiderealYear float64
	OriginEpoch  float64
	AxialPhase   float64
	DailyPhase   float64
}

// DefaultTolerance accepts the offline meeus source, whose equinox lands
// about an hour off the Horizons fit.
func DefaultTolerance() Tolerance {
	return Tolerance{
		SiderealYear: 60,
		OriginEpoch:  2 * 3600,
		AxialPhase:   0.01,
		DailyPhase:   0.01,
	}
}

// Diff is the comparison of one constant.
type Diff struct {
	Name  string  `json:"name"`
	Got   float64 `json:"got"`
	Want  float64 `json:"want"`
	Delta float64 `json:"delta"`
	Limit float64 `json:"limit"`
}

// OK reports whether the delta is within the limit.
func (d Diff) OK() bool {
	return math.Abs(d.Delta) <= d.Limit
}

// Compare checks a calibration against a reference one.
func Compare(got, want orbit.Calibration, tol Tolerance) []Diff {
	return []Diff{
		{"sidereal_year", got.SiderealYear, want.SiderealYear, got.SiderealYear - want.SiderealYear, tol.SiderealYear},
		{"origin_epoch", got.OriginEpoch, want.OriginEpoch, got.OriginEpoch - want.OriginEpoch, tol.OriginEpoch},
		{"axial_phase", got.AxialPhase, want.AxialPhase, astro.NormalizeSigned(got.AxialPhase - want.AxialPhase), tol.AxialPhase},
		{"sidereal_day", got.SiderealDay, want.SiderealDay, got.SiderealDay - want.SiderealDay, 0},
		{"daily_phase", got.DailyPhase, want.DailyPhase, astro.NormalizeSigned(got.DailyPhase - want.DailyPhase), tol.DailyPhase},
	}
}

// Failures counts the diffs outside their limit.
func Failures(diffs []Diff) int {
	n := 0
	for _, d := range diffs {
		if !d.OK() {
			n++
		}
	}
	return n
}

// WriteDiffs prints one line per compared constant.
func WriteDiffs(w io.Writer, diffs []Diff) {
	for _, d := range diffs {
		status := "ok"
		if !d.OK() {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%-14s got %-22.10g want %-22.10g delta %-12.4g limit %-8.4g %s\n",
			d.Name, d.Got, d.Want, d.Delta, d.Limit, status)
	}
}

// WriteReport prints the samples, fits and derived constants.
func WriteReport(w io.Writer, r *Result) {
	fmt.Fprintf(w, "Source: %s\n\n", r.Source)

	fmt.Fprintln(w, "September equinox crossings (Z rising)")
	writeSamples(w, r.Equinoxes)
	fmt.Fprintf(w, "  rms residual %.3fs over %d samples\n\n", r.OriginFit.RMS, r.OriginFit.N)

	fmt.Fprintln(w, "December solstice crossings (X falling)")
	writeSamples(w, r.Solstices)
	fmt.Fprintf(w, "  rms residual %.3fs over %d samples\n\n", r.SolsticeFit.RMS, r.SolsticeFit.N)

	c := r.Calibration
	origin := time.Unix(0, 0).UTC().Add(time.Duration(c.OriginEpoch * float64(time.Second)))
	fmt.Fprintln(w, "Constants")
	fmt.Fprintf(w, "  sidereal year  %.6fs (%.6f days)\n", c.SiderealYear, c.SiderealYear/86400)
	fmt.Fprintf(w, "  origin epoch   %.6f (%s)\n", c.OriginEpoch, origin.Format(time.RFC3339))
	fmt.Fprintf(w, "  axial phase    %.12f rad (%.4f°)\n", c.AxialPhase, astro.RadToDeg(c.AxialPhase))
	fmt.Fprintf(w, "  sidereal day   %.4fs\n", c.SiderealDay)
	fmt.Fprintf(w, "  daily phase    %.12f rad (%.4f°)\n", c.DailyPhase, astro.RadToDeg(c.DailyPhase))
}

func writeSamples(w io.Writer, samples []Sample) {
	for _, s := range samples {
		fmt.Fprintf(w, "  %d  %s  %16.3f  %+9.3fs\n",
			s.Year, s.Time.Format("2006-01-02 15:04:05"), s.Epoch, s.Residual)
	}
}

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// FormatGo renders the constants as the const block compiled into the
// orbit package.
func FormatGo(c orbit.Calibration) string {
	return fmt.Sprintf(`const (
	calibratedSiderealYear = %s
	calibratedOriginEpoch  = %s
	calibratedAxialPhase   = %s
	calibratedSiderealDay  = %s
	calibratedDailyPhase   = %s
)
`, goFloat(c.SiderealYear), goFloat(c.OriginEpoch), goFloat(c.AxialPhase),
		goFloat(c.SiderealDay), goFloat(c.DailyPhase))
}

func goFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
