package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/antikythera/internal/calibrate"
)

var outputFormat string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the calibration and print the fitted constants",
	Long: `
Samples every crossing in the plan, fits both lines and prints the
constants with per-sample residuals.

Formats:
  text  human-readable report (default)
  json  full result including samples
  go    const block for the orbit package

Examples:
  # Reproduce the frozen constants offline
  antikythera-calibrate run --source meeus

  # Refit against Horizons and emit Go source
  antikythera-calibrate run --format go
`,
	Args: cobra.NoArgs,
	RunE: runCalibration,
}

func init() {
	addPlanFlags(runCmd)
	runCmd.Flags().StringVar(&outputFormat, "format", "text", "output format (text, json, go)")
	rootCmd.AddCommand(runCmd)
}

func runCalibration(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case "text", "json", "go":
	default:
		return fmt.Errorf("unknown format %q", outputFormat)
	}

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

	out := cmd.OutOrStdout()
	switch outputFormat {
	case "json":
		return calibrate.WriteJSON(out, result)
	case "go":
		fmt.Fprintf(out, "// Frozen output of antikythera-calibrate run --source %s.\n", result.Source)
		fmt.Fprint(out, calibrate.FormatGo(result.Calibration))
	default:
		calibrate.WriteReport(out, result)
	}
	if outputFormat != "text" {
		fmt.Fprintf(os.Stderr, "equinox rms %.3fs, solstice rms %.3fs\n", result.OriginFit.RMS, result.SolsticeFit.RMS)
	}
	return nil
}
