package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/plipplupp/forecast-to-clothing/internal/config"
	"github.com/plipplupp/forecast-to-clothing/internal/forecast"
	"github.com/plipplupp/forecast-to-clothing/internal/metrics"
	"github.com/plipplupp/forecast-to-clothing/internal/notify"
	"github.com/plipplupp/forecast-to-clothing/internal/recommendation/types"
	"github.com/plipplupp/forecast-to-clothing/internal/summary"
)

type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (*forecast.Forecast, error)
}

type Store interface {
	Save(ctx context.Context, date string, text string) error
}

// Deps are the collaborators of one pipeline run. Metrics may be nil.
type Deps struct {
	Fetcher    Fetcher
	Summarizer *summary.Summarizer
	Store      Store
	Notifier   notify.Notifier
	Metrics    *metrics.Recorder
	Logger     *slog.Logger
	Now        func() time.Time
}

// Result describes a run that got past the fetch step. PersistErr and
// NotifyErr are reported, not returned, so one failing step never hides
// the outcome of the other.
type Result struct {
	RunID      string
	Date       string
	Report     summary.Report
	NoData     bool
	PersistErr error
	NotifyErr  error
}

func (r Result) Degraded() bool {
	return r.NoData || r.PersistErr != nil || r.NotifyErr != nil
}

// Run fetches the forecast, summarizes it, stores the text for today and
// sends it. Only a failed fetch is returned as an error; in that case
// nothing is stored or sent.
func Run(ctx context.Context, cfg config.Config, deps Deps) (Result, error) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := now()
	res := Result{RunID: uuid.NewString()}
	logger = logger.With("run_id", res.RunID)
	logger.Info("run started", "lat", cfg.Latitude, "lon", cfg.Longitude, "window", cfg.Window.String())

	fc, err := deps.Fetcher.Fetch(ctx, cfg.Latitude, cfg.Longitude)
	switch {
	case errors.Is(err, forecast.ErrMissingTimeseries):
		logger.Warn("forecast has no timeseries", "error", err)
		fc = nil
	case err != nil:
		logger.Error("could not fetch forecast", "error", err)
		finish(cfg, deps.Metrics, logger, metrics.OutcomeFetchError, now().Sub(start))
		return res, fmt.Errorf("fetch forecast: %w", err)
	}

	report, err := deps.Summarizer.Report(fc, cfg.Window)
	if errors.Is(err, summary.ErrNoForecast) {
		res.NoData = true
	} else if err != nil {
		return res, fmt.Errorf("summarize: %w", err)
	}
	res.Report = report
	if deps.Metrics != nil {
		samples := 0
		if fc != nil {
			samples = len(fc.Samples)
		}
		deps.Metrics.ObserveSummary(samples, len(report.Lines), report.Aggregate.WillRain)
	}

	res.Date = types.DateOf(now())
	if err := deps.Store.Save(ctx, res.Date, report.Text); err != nil {
		res.PersistErr = err
		logger.Error("could not save recommendation", "date", res.Date, "error", err)
	} else {
		logger.Info("recommendation saved", "date", res.Date)
	}

	if err := deps.Notifier.Notify(notify.WithDate(ctx, res.Date), cfg.NotificationTitle, report.Text); err != nil {
		res.NotifyErr = err
		logger.Error("could not send notification", "error", err)
	}

	outcome := metrics.OutcomeSuccess
	if res.Degraded() {
		outcome = metrics.OutcomeDegraded
	} else if deps.Metrics != nil {
		deps.Metrics.MarkSuccess(now())
	}
	finish(cfg, deps.Metrics, logger, outcome, now().Sub(start))
	return res, nil
}

func finish(cfg config.Config, rec *metrics.Recorder, logger *slog.Logger, outcome string, d time.Duration) {
	logger.Info("run finished", "outcome", outcome, "duration", d)
	if rec == nil {
		return
	}
	rec.ObserveRun(outcome, d)
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := rec.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error("could not write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
	}
}
