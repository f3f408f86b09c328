package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litescript/antikythera/internal/calibrate"
	"github.com/litescript/antikythera/internal/orbit"
)

var tolerance = calibrate.DefaultTolerance()

// errDrift is returned when a constant is outside its tolerance.
var errDrift = errors.New("calibration drifted from the frozen constants")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Refit and compare against the frozen constants",
	Long: `
Reruns the calibration and reports how far each fitted constant lies from
the value compiled into the engine. Exits non-zero when any constant is
outside its tolerance.
`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	addPlanFlags(verifyCmd)
	f := verifyCmd.Flags()
	f.Float64Var(&tolerance.SiderealYear, "tol-year", tolerance.SiderealYear, "sidereal year tolerance, seconds")
	f.Float64Var(&tolerance.OriginEpoch, "tol-origin", tolerance.OriginEpoch, "origin epoch tolerance, seconds")
	f.Float64Var(&tolerance.AxialPhase, "tol-axial", tolerance.AxialPhase, "axial phase tolerance, radians")
	f.Float64Var(&tolerance.DailyPhase, "tol-daily", tolerance.DailyPhase, "daily phase tolerance, radians")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	log := newLogger()
	src, err := newSource(log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := calibrate.Run(ctx, src, planSettings, log)
	if err != nil {
		return fmt.Errorf("calibration failed: %w", err)
	}

	diffs := calibrate.Compare(result.Calibration, orbit.Calibrated(), tolerance)
	calibrate.WriteDiffs(cmd.OutOrStdout(), diffs)

	if n := calibrate.Failures(diffs); n > 0 {
		return fmt.Errorf("%w: %d of %d constants", errDrift, n, len(diffs))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "all constants within tolerance (%s)\n", result.Source)
	return nil
}
