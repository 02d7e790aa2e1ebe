package app

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/plipplupp/forecast-to-clothing/internal/config"
	"github.com/plipplupp/forecast-to-clothing/internal/forecast"
	"github.com/plipplupp/forecast-to-clothing/internal/metrics"
	"github.com/plipplupp/forecast-to-clothing/internal/notify"
	"github.com/plipplupp/forecast-to-clothing/internal/notify/mqttpub"
	"github.com/plipplupp/forecast-to-clothing/internal/notify/pushover"
	"github.com/plipplupp/forecast-to-clothing/internal/recommendation/repository"
	"github.com/plipplupp/forecast-to-clothing/internal/summary"
)

// NewDeps builds the production collaborators. The returned func releases
// the MQTT connection, if one was configured.
func NewDeps(cfg config.Config, dbConn *sql.DB, logger *slog.Logger) (Deps, func()) {
	notifiers := notify.Multi{{
		Name:     "pushover",
		Notifier: pushover.NewClient(cfg.PushoverAppToken, cfg.PushoverUserKey, cfg.PushoverURL, cfg.HTTPTimeout, logger),
	}}

	cleanup := func() {}
	if cfg.MQTTBroker != "" {
		pub := mqttpub.NewPublisher(cfg, logger)
		notifiers = append(notifiers, notify.Named{Name: "mqtt", Notifier: pub})
		cleanup = pub.Disconnect
	}

	return Deps{
		Fetcher:    forecast.NewClient(cfg.ForecastURL, cfg.ForecastUserAgent, cfg.HTTPTimeout, logger),
		Summarizer: summary.NewSummarizer(logger),
		Store:      repository.NewRepository(dbConn),
		Notifier:   notifiers,
		Metrics:    metrics.NewRecorder(),
		Logger:     logger,
		Now:        time.Now,
	}, cleanup
}
