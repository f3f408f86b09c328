package calibrate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/clock"
	"github.com/litescript/antikythera/internal/ephem"
	"github.com/litescript/antikythera/internal/logging"
	"github.com/litescript/antikythera/internal/metrics"
	"github.com/litescript/antikythera/internal/orbit"
)

// SiderealDay is the length of one rotation relative to the stars, in
// seconds. It is a published constant, not fitted.
const SiderealDay = 86164.0905

// Plan selects which years are sampled.
type Plan struct {
	FirstYear         int // first year sampled for the equinox fit
	Cycles            int // number of equinox samples
	Spacing           int // years between equinox samples
	ReferenceYear     int // year the fitted origin is read at
	SolsticeFirstYear int // first year sampled for the solstice fit
	SolsticeYears     int // consecutive solstice samples
}

// DefaultPlan returns the plan the frozen constants were produced with.
func DefaultPlan() Plan {
	return Plan{
		FirstYear:         1946,
		Cycles:            25,
		Spacing:           2,
		ReferenceYear:     1970,
		SolsticeFirstYear: 1966,
		SolsticeYears:     10,
	}
}

// Validate checks that both fits get at least two distinct years.
func (p Plan) Validate() error {
	if p.Cycles < 2 {
		return fmt.Errorf("need at least 2 equinox cycles, got %d", p.Cycles)
	}
	if p.Spacing < 1 {
		return fmt.Errorf("spacing must be at least 1 year, got %d", p.Spacing)
	}
	if p.SolsticeYears < 2 {
		return fmt.Errorf("need at least 2 solstice years, got %d", p.SolsticeYears)
	}
	return nil
}

// OriginYears lists the years sampled for the equinox fit.
func (p Plan) OriginYears() []int {
	years := make([]int, p.Cycles)
	for i := range years {
		years[i] = p.FirstYear + i*p.Spacing
	}
	return years
}

// SolsticeYearList lists the years sampled for the solstice fit.
func (p Plan) SolsticeYearList() []int {
	years := make([]int, p.SolsticeYears)
	for i := range years {
		years[i] = p.SolsticeFirstYear + i
	}
	return years
}

// Sample is one located crossing.
type Sample struct {
	Year     int       `json:"year"`
	Time     time.Time `json:"time"`
	Epoch    float64   `json:"epoch"`
	Residual float64   `json:"residual_seconds"`
}

// Result is the outcome of a calibration run.
type Result struct {
	Source      string            `json:"source"`
	Plan        Plan              `json:"plan"`
	Equinoxes   []Sample          `json:"equinoxes"`
	Solstices   []Sample          `json:"solstices"`
	OriginFit   Line              `json:"origin_fit"`
	SolsticeFit Line              `json:"solstice_fit"`
	Calibration orbit.Calibration `json:"calibration"`
}

// Run locates every crossing in the plan, fits both lines and derives the
// calibration constants.
func Run(ctx context.Context, src ephem.Source, plan Plan, log *logging.Logger) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	log = log.Component("calibrate")
	log.Info("calibrating against %s: %d equinoxes from %d, %d solstices from %d",
		src.Name(), plan.Cycles, plan.FirstYear, plan.SolsticeYears, plan.SolsticeFirstYear)

	equinoxes, err := collect(ctx, src, ZRising, plan.OriginYears(), log)
	if err != nil {
		return nil, err
	}
	originFit, err := fitSamples(equinoxes)
	if err != nil {
		return nil, fmt.Errorf("equinox fit: %w", err)
	}

	solstices, err := collect(ctx, src, XFalling, plan.SolsticeYearList(), log)
	if err != nil {
		return nil, err
	}
	solsticeFit, err := fitSamples(solstices)
	if err != nil {
		return nil, fmt.Errorf("solstice fit: %w", err)
	}

	metrics.SetCalibrationResidual("equinox", originFit.RMS)
	metrics.SetCalibrationResidual("solstice", solsticeFit.RMS)

	year := originFit.Slope
	origin := originFit.At(float64(plan.ReferenceYear))
	axial := AxialPhase(solsticeFit.At(float64(plan.ReferenceYear)), origin, year)

	cal := orbit.Calibration{
		SiderealYear: year,
		OriginEpoch:  origin,
		AxialPhase:   axial,
		SiderealDay:  SiderealDay,
		DailyPhase:   DailyPhase(axial),
	}
	if err := cal.Validate(); err != nil {
		return nil, err
	}

	log.Info("sidereal year %.3fs, equinox rms %.2fs, solstice rms %.2fs",
		year, originFit.RMS, solsticeFit.RMS)
	if log.Enabled(logging.LevelDebug) {
		logWorstResidual(log, ZRising, equinoxes)
		logWorstResidual(log, XFalling, solstices)
	}

	return &Result{
		Source:      src.Name(),
		Plan:        plan,
		Equinoxes:   equinoxes,
		Solstices:   solstices,
		OriginFit:   originFit,
		SolsticeFit: solsticeFit,
		Calibration: cal,
	}, nil
}

func collect(ctx context.Context, src ephem.Source, c Condition, years []int, log *logging.Logger) ([]Sample, error) {
	samples := make([]Sample, 0, len(years))
	for _, y := range years {
		t, err := FindYearCrossing(ctx, src, c, y)
		if err != nil {
			return nil, err
		}
		log.Debug("%s %d at %s", c, y, t.Format(time.RFC3339))
		samples = append(samples, Sample{Year: y, Time: t, Epoch: clock.FromTime(t)})
	}
	return samples, nil
}

func logWorstResidual(log *logging.Logger, c Condition, samples []Sample) {
	worst := samples[0]
	for _, s := range samples[1:] {
		if math.Abs(s.Residual) > math.Abs(worst.Residual) {
			worst = s
		}
	}
	log.Debug("%s worst residual %+.2fs in %d", c, worst.Residual, worst.Year)
}

// fitSamples fits epoch against year and fills in the residuals.
func fitSamples(samples []Sample) (Line, error) {
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s.Year)
		ys[i] = s.Epoch
	}
	line, residuals, err := FitLine(xs, ys)
	if err != nil {
		return Line{}, err
	}
	for i := range samples {
		samples[i].Residual = residuals[i]
	}
	return line, nil
}

// AxialPhase converts the lag of the solstice behind the equinox into the
// ecliptic angle of the pole's lean.
func AxialPhase(solstice, origin, year float64) float64 {
	lag := math.Mod(solstice-origin, year)
	if lag < 0 {
		lag += year
	}
	return astro.TwoPi * lag / year
}

// DailyPhase returns the Greenwich meridian angle at epoch 0 in the
// model's equatorial frame: mean sidereal time from the equinox plus the
// node offset that frame carries for the given axial phase.
func DailyPhase(axial float64) float64 {
	gmst := sidereal.Mean(julian.TimeToJD(time.Unix(0, 0).UTC())).Rad()
	return astro.NormalizeAngle(gmst + axial - math.Pi/2)
}
