package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordFrame(t *testing.T) {
	before := testutil.ToFloat64(framesTotal)

	RecordFrame(50*time.Microsecond, 1.7e9, 3)

	if got := testutil.ToFloat64(framesTotal) - before; got != 1 {
		t.Errorf("frames delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(bodiesVisible); got != 3 {
		t.Errorf("bodies visible = %v, want 3", got)
	}
	if got := testutil.ToFloat64(simulationEpoch); got != 1.7e9 {
		t.Errorf("epoch = %v", got)
	}
}

func TestRecordCommand(t *testing.T) {
	accepted := commandsTotal.WithLabelValues("commit_entry", "accepted")
	rejected := commandsTotal.WithLabelValues("commit_entry", "rejected")
	a0, r0 := testutil.ToFloat64(accepted), testutil.ToFloat64(rejected)

	RecordCommand("commit_entry", true)
	RecordCommand("commit_entry", false)
	RecordCommand("commit_entry", false)

	if got := testutil.ToFloat64(accepted) - a0; got != 1 {
		t.Errorf("accepted delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rejected) - r0; got != 2 {
		t.Errorf("rejected delta = %v, want 2", got)
	}
}

func TestRecordHorizonsRequest(t *testing.T) {
	failed := horizonsRequestsTotal.WithLabelValues("error")
	before := testutil.ToFloat64(failed)

	RecordHorizonsRequest(time.Second, errors.New("timeout"))

	if got := testutil.ToFloat64(failed) - before; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	SetCalibrationResidual("origin", 12.5)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{
		"antikythera_frames_total",
		"antikythera_calibration_residual_rms_seconds{fit=\"origin\"} 12.5",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %q", name)
		}
	}
}
