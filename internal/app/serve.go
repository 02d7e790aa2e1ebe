package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/plipplupp/forecast-to-clothing/internal/config"
	"github.com/plipplupp/forecast-to-clothing/internal/httpapi"
)

// Serve runs the history API until ctx is cancelled. POST /api/v1/run
// executes the pipeline with deps.
func Serve(ctx context.Context, cfg config.Config, dbConn *sql.DB, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var metricsHandler http.Handler
	if deps.Metrics != nil {
		metricsHandler = deps.Metrics.Handler()
	}
	mux := httpapi.NewMux(dbConn, runFunc(cfg, deps), metricsHandler)
	srv := httpapi.NewServer(cfg, mux, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func runFunc(cfg config.Config, deps Deps) httpapi.RunFunc {
	return func(ctx context.Context) (httpapi.RunResult, error) {
		res, err := Run(ctx, cfg, deps)
		if err != nil {
			return httpapi.RunResult{}, err
		}
		return toRunResult(res), nil
	}
}

func toRunResult(res Result) httpapi.RunResult {
	out := httpapi.RunResult{
		RunID:          res.RunID,
		Date:           res.Date,
		Recommendation: res.Report.Text,
	}
	if res.NoData {
		out.Warnings = append(out.Warnings, "forecast had no timeseries")
	}
	if res.PersistErr != nil {
		out.Warnings = append(out.Warnings, "persist: "+res.PersistErr.Error())
	}
	if res.NotifyErr != nil {
		out.Warnings = append(out.Warnings, "notify: "+res.NotifyErr.Error())
	}
	return out
}
