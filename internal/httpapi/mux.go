package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/plipplupp/forecast-to-clothing/internal/recommendation"
)

// NewMux wires the health check, recommendation history, run trigger and,
// when metrics is non-nil, the /metrics endpoint.
func NewMux(db *sql.DB, run RunFunc, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	recommendation.RegisterFeature(mux, db)
	if run != nil {
		registerRunTrigger(mux, run)
	}
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	return mux
}
