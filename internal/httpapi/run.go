package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/plipplupp/forecast-to-clothing/internal/utils"
)

// RunResult is the response body of POST /api/v1/run.
type RunResult struct {
	RunID          string   `json:"runId"`
	Date           string   `json:"date"`
	Recommendation string   `json:"recommendation"`
	Warnings       []string `json:"warnings,omitempty"`
}

// RunFunc performs one pipeline run. An error means nothing was stored.
type RunFunc func(ctx context.Context) (RunResult, error)

type runTrigger struct {
	mu  sync.Mutex
	run RunFunc
}

func (t *runTrigger) handleRun(w http.ResponseWriter, r *http.Request) {
	if !t.mu.TryLock() {
		utils.WriteError(w, http.StatusConflict, "a run is already in progress")
		return
	}
	defer t.mu.Unlock()

	res, err := t.run(r.Context())
	if err != nil {
		slog.Error("triggered run failed", "error", err)
		utils.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func registerRunTrigger(mux *http.ServeMux, run RunFunc) {
	t := &runTrigger{run: run}
	mux.HandleFunc("POST /api/v1/run", t.handleRun)
}
