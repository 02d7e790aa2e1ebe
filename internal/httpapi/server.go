package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/plipplupp/forecast-to-clothing/internal/config"
)

func NewServer(cfg config.Config, mux *http.ServeMux, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           requestLogger(logger.With("component", "http"), mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
