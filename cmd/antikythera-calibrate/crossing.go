package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/antikythera/internal/calibrate"
	"github.com/litescript/antikythera/internal/clock"
)

var crossingYear int

var crossingCmd = &cobra.Command{
	Use:   "crossing",
	Short: "Print one year's equinox and solstice crossings",
	Args:  cobra.NoArgs,
	RunE:  runCrossing,
}

func init() {
	crossingCmd.Flags().IntVar(&crossingYear, "year", time.Now().UTC().Year(), "calendar year to search")
	rootCmd.AddCommand(crossingCmd)
}

func runCrossing(cmd *cobra.Command, args []string) error {
	log := newLogger()
	src, err := newSource(log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	for _, c := range []struct {
		cond  calibrate.Condition
		label string
	}{
		{calibrate.ZRising, "September equinox"},
		{calibrate.XFalling, "December solstice"},
	} {
		t, err := calibrate.FindYearCrossing(ctx, src, c.cond, crossingYear)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-18s %-10s %s  epoch %.3f\n",
			c.label, c.cond, t.Format("2006-01-02 15:04:05 UTC"), clock.FromTime(t))
	}
	return nil
}
