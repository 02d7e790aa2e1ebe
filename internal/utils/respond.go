package utils

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ErrorBody is the JSON shape of every API error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{
		Error:   http.StatusText(status),
		Message: msg,
	})
}

// QueryLimit reads the "limit" query parameter, falling back to def when
// absent and rejecting values outside 1..max.
func QueryLimit(r *http.Request, def, max int) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid 'limit' (expected integer)")
	}
	if n <= 0 {
		return 0, fmt.Errorf("'limit' must be > 0")
	}
	if n > max {
		return 0, fmt.Errorf("'limit' must be <= %d", max)
	}
	return n, nil
}
