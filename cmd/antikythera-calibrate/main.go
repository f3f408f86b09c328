// Command antikythera-calibrate fits the orbit constants compiled into the
// sky engine against JPL Horizons or the offline meeus theory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/antikythera/internal/calibrate"
	"github.com/litescript/antikythera/internal/ephem"
	"github.com/litescript/antikythera/internal/logging"
	"github.com/litescript/antikythera/internal/version"
)

// Global flags
var (
	sourceName   string
	horizonsURL  string
	requestRate  float64
	timeout      time.Duration
	logLevel     string
	planSettings = calibrate.DefaultPlan()
)

var rootCmd = &cobra.Command{
	Use:   "antikythera-calibrate",
	Short: "Fit the sky engine's orbit constants against an ephemeris",
	Long: `
Locates September equinox and December solstice crossings of Earth's
heliocentric equatorial vector, fits them with straight lines and derives
the sidereal year, origin epoch, axial phase and daily phase.

Sources:
  horizons  JPL Horizons VECTORS API (network)
  meeus     Meeus low-precision solar theory (offline)
`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&sourceName, "source", "horizons", "ephemeris source (horizons, meeus)")
	pf.StringVar(&horizonsURL, "horizons-url", ephem.HorizonsAPIURL, "Horizons API endpoint")
	pf.Float64Var(&requestRate, "rate-limit", ephem.DefaultRequestsPerSecond, "Horizons requests per second (0 = unlimited)")
	pf.DurationVar(&timeout, "timeout", ephem.RequestTimeout, "Horizons request timeout")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// addPlanFlags binds the sampling plan to a command's flags.
func addPlanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&planSettings.FirstYear, "first-year", planSettings.FirstYear, "first equinox year")
	f.IntVar(&planSettings.Cycles, "cycles", planSettings.Cycles, "number of equinox samples")
	f.IntVar(&planSettings.Spacing, "spacing", planSettings.Spacing, "years between equinox samples")
	f.IntVar(&planSettings.ReferenceYear, "reference-year", planSettings.ReferenceYear, "year the origin epoch is read at")
	f.IntVar(&planSettings.SolsticeFirstYear, "solstice-first-year", planSettings.SolsticeFirstYear, "first solstice year")
	f.IntVar(&planSettings.SolsticeYears, "solstice-years", planSettings.SolsticeYears, "number of consecutive solstice samples")
}

func newLogger() *logging.Logger {
	return logging.New(logging.ParseLevel(logLevel))
}

// newSource builds the ephemeris source named by --source.
func newSource(log *logging.Logger) (ephem.Source, error) {
	mode, err := ephem.ParseMode(sourceName)
	if err != nil {
		return nil, err
	}
	switch mode {
	case ephem.ModeMeeus:
		return ephem.NewMeeusSource(), nil
	default:
		return ephem.NewHorizonsSource(ephem.HorizonsConfig{
			BaseURL:           horizonsURL,
			Timeout:           timeout,
			RequestsPerSecond: requestRate,
			Logger:            log,
		}), nil
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
