package summary

import "github.com/plipplupp/forecast-to-clothing/internal/forecast"

// dewMargin is how close (°C) the air temperature may come to the dew point
// before we expect wet grass at dawn.
const dewMargin = 1.5

// Aggregate is the fold of one forecast over a window. MaxTemp and MinTemp
// stay nil when no in-window sample carried a temperature.
type Aggregate struct {
	MaxTemp *float64
	MinTemp *float64

	WillRain        bool
	TotalPrecip     float64
	TotalPrecipMin  float64
	TotalPrecipMax  float64
	MaxUVIndex      float64
	DewPointWarning bool

	// Samples is the number of samples that fell inside the window.
	Samples int
}

// Fold aggregates the samples of fc that fall inside w, plus the dew-point
// check over the fixed dawn window.
func Fold(fc *forecast.Forecast, w forecast.Window) Aggregate {
	var agg Aggregate
	if fc == nil {
		return agg
	}

	for _, s := range fc.Samples {
		if forecast.DawnWindow.Contains(s.Time) && s.AirTemperature != nil && s.DewPointTemperature != nil {
			if *s.AirTemperature <= *s.DewPointTemperature+dewMargin {
				agg.DewPointWarning = true
			}
		}

		if !w.Contains(s.Time) {
			continue
		}
		agg.Samples++

		if t := s.AirTemperature; t != nil {
			if agg.MaxTemp == nil || *t > *agg.MaxTemp {
				agg.MaxTemp = float64Ptr(*t)
			}
			if agg.MinTemp == nil || *t < *agg.MinTemp {
				agg.MinTemp = float64Ptr(*t)
			}
		}

		agg.TotalPrecip += s.PrecipAmount
		agg.TotalPrecipMin += s.PrecipAmountMin
		agg.TotalPrecipMax += s.PrecipAmountMax
		if s.PrecipAmount > 0 {
			agg.WillRain = true
		}

		if uv := s.UVIndexClearSky; uv != nil && *uv > agg.MaxUVIndex {
			agg.MaxUVIndex = *uv
		}
	}

	// A sample can signal possible rain through its lower bound alone.
	if agg.TotalPrecipMin > 0 {
		agg.WillRain = true
	}
	return agg
}

func float64Ptr(v float64) *float64 {
	return &v
}
