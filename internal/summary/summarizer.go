// Package summary turns an hourly forecast into the day's clothing
// recommendation text.
package summary

import (
	"errors"
	"log/slog"

	"github.com/plipplupp/forecast-to-clothing/internal/forecast"
)

// NoDataMessage is returned in place of a recommendation when there is no
// usable forecast. It is still persisted and sent like any other text.
const NoDataMessage = "Kunde inte hämta väderdata."

var ErrNoForecast = errors.New("summary: no forecast data")

// Report is a rendered recommendation together with the values it was
// derived from.
type Report struct {
	Text      string
	Lines     []string
	Aggregate Aggregate
}

type Summarizer struct {
	logger *slog.Logger
}

func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger.With("component", "summary")}
}

// Summarize builds the recommendation text for the samples of fc inside w.
// A nil forecast yields NoDataMessage together with ErrNoForecast.
func (s *Summarizer) Summarize(fc *forecast.Forecast, w forecast.Window) (string, error) {
	r, err := s.Report(fc, w)
	return r.Text, err
}

func (s *Summarizer) Report(fc *forecast.Forecast, w forecast.Window) (Report, error) {
	if fc == nil {
		s.logger.Warn("no forecast data to process or invalid format")
		return Report{Text: NoDataMessage}, ErrNoForecast
	}

	s.logger.Info("processing forecast",
		"window", w.String(),
		"samples", len(fc.Samples),
	)

	agg := Fold(fc, w)
	lines := Advise(agg)
	text := Render(lines, agg)

	s.logger.Info("generated recommendation",
		"window_samples", agg.Samples,
		"lines", len(lines),
		"text", text,
	)
	return Report{Text: text, Lines: lines, Aggregate: agg}, nil
}
