package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObserveRun(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun(OutcomeSuccess, 1500*time.Millisecond)
	r.ObserveRun(OutcomeSuccess, 500*time.Millisecond)
	r.ObserveRun(OutcomeFetchError, time.Second)

	if got := testutil.ToFloat64(r.runs.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Errorf("success runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.runs.WithLabelValues(OutcomeFetchError)); got != 1 {
		t.Errorf("fetch_error runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.duration); got != 1 {
		t.Errorf("duration = %v, want last run 1s", got)
	}
}

func TestRecorder_ObserveSummary(t *testing.T) {
	r := NewRecorder()
	r.ObserveSummary(24, 3, true)
	if testutil.ToFloat64(r.samples) != 24 || testutil.ToFloat64(r.lines) != 3 || testutil.ToFloat64(r.willRain) != 1 {
		t.Fatal("summary gauges not set")
	}
	r.ObserveSummary(0, 0, false)
	if testutil.ToFloat64(r.willRain) != 0 {
		t.Error("will_rain should reset to 0")
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun(OutcomeDegraded, time.Second)
	r.MarkSuccess(time.Unix(1714543200, 0))

	path := filepath.Join(t.TempDir(), "clothing.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(b)
	for _, want := range []string{
		`clothing_runs_total{outcome="degraded"} 1`,
		`clothing_last_success_timestamp_seconds 1.7145432e+09`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun(OutcomeSuccess, time.Second)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `clothing_runs_total{outcome="success"} 1`) {
		t.Errorf("body missing runs counter:\n%s", rec.Body.String())
	}
}
