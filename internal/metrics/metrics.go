// Package metrics exposes Prometheus collectors for the sky engine and the
// calibration tool.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	framesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "antikythera_frames_total",
			Help: "Total number of sky frames computed.",
		},
	)

	frameDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "antikythera_frame_duration_seconds",
			Help:    "Time to compute one sky frame.",
			Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3},
		},
	)

	bodiesVisible = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "antikythera_bodies_visible",
			Help: "Bodies above the horizon in the last frame.",
		},
	)

	simulationEpoch = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "antikythera_simulation_epoch_seconds",
			Help: "Simulation epoch of the last frame, seconds since 1970-01-01 UTC.",
		},
	)

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antikythera_commands_total",
			Help: "Commands applied to the session, by command and result.",
		},
		[]string{"command", "result"},
	)

	horizonsRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antikythera_horizons_requests_total",
			Help: "Requests made to the JPL Horizons API, by outcome.",
		},
		[]string{"outcome"},
	)

	horizonsDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "antikythera_horizons_request_duration_seconds",
			Help:    "JPL Horizons request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	calibrationResidualSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "antikythera_calibration_residual_rms_seconds",
			Help: "RMS residual of the last calibration line fit.",
		},
		[]string{"fit"},
	)
)

func init() {
	prometheus.MustRegister(framesTotal)
	prometheus.MustRegister(frameDurationSeconds)
	prometheus.MustRegister(bodiesVisible)
	prometheus.MustRegister(simulationEpoch)
	prometheus.MustRegister(commandsTotal)
	prometheus.MustRegister(horizonsRequestsTotal)
	prometheus.MustRegister(horizonsDurationSeconds)
	prometheus.MustRegister(calibrationResidualSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFrame records one computed frame.
func RecordFrame(d time.Duration, epoch float64, visible int) {
	framesTotal.Inc()
	frameDurationSeconds.Observe(d.Seconds())
	simulationEpoch.Set(epoch)
	bodiesVisible.Set(float64(visible))
}

// RecordCommand counts a session command. Rejected commands are those whose
// input was discarded.
func RecordCommand(command string, accepted bool) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	commandsTotal.WithLabelValues(command, result).Inc()
}

// RecordHorizonsRequest records one Horizons API call.
func RecordHorizonsRequest(d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	horizonsRequestsTotal.WithLabelValues(outcome).Inc()
	horizonsDurationSeconds.Observe(d.Seconds())
}

// SetCalibrationResidual publishes the RMS residual of a named fit.
func SetCalibrationResidual(fit string, rms float64) {
	calibrationResidualSeconds.WithLabelValues(fit).Set(rms)
}
