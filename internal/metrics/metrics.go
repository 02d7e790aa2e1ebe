// Package metrics records pipeline run metrics in a private Prometheus
// registry. One-shot runs write it to a node_exporter textfile; the serve
// command exposes it over HTTP.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clothing"

// Run outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeFetchError = "fetch_error"
	OutcomeDegraded   = "degraded"
)

type Recorder struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	duration    prometheus.Gauge
	samples     prometheus.Gauge
	lines       prometheus.Gauge
	willRain    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last pipeline run.",
		}),
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_samples",
			Help:      "Forecast samples in the last fetched forecast.",
		}),
		lines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "advice_lines",
			Help:      "Advice lines in the last recommendation.",
		}),
		willRain: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "will_rain",
			Help:      "1 if the last recommendation expected rain in the window.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that persisted and notified without error.",
		}),
	}
	r.registry.MustRegister(r.runs, r.duration, r.samples, r.lines, r.willRain, r.lastSuccess)
	return r
}

func (r *Recorder) ObserveRun(outcome string, d time.Duration) {
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.Set(d.Seconds())
}

func (r *Recorder) ObserveSummary(samples, lines int, willRain bool) {
	r.samples.Set(float64(samples))
	r.lines.Set(float64(lines))
	if willRain {
		r.willRain.Set(1)
	} else {
		r.willRain.Set(0)
	}
}

func (r *Recorder) MarkSuccess(t time.Time) {
	r.lastSuccess.Set(float64(t.Unix()))
}

// WriteTextfile atomically writes the registry in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
