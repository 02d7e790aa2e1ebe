package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrMissingTimeseries is returned when the document has no
// properties.timeseries field.
var ErrMissingTimeseries = errors.New("forecast: missing properties.timeseries")

// Locationforecast 2.0 "complete" document; only the fields we read.
type document struct {
	Properties *struct {
		Meta struct {
			UpdatedAt time.Time `json:"updated_at"`
		} `json:"meta"`
		Timeseries *[]timeseries `json:"timeseries"`
	} `json:"properties"`
}

type timeseries struct {
	Time string `json:"time"`
	Data struct {
		Instant struct {
			Details instantDetails `json:"details"`
		} `json:"instant"`
		Next1Hours *struct {
			Details periodDetails `json:"details"`
		} `json:"next_1_hours,omitempty"`
	} `json:"data"`
}

type instantDetails struct {
	AirTemperature           *float64 `json:"air_temperature,omitempty"`
	UltravioletIndexClearSky *float64 `json:"ultraviolet_index_clear_sky,omitempty"`
	DewPointTemperature      *float64 `json:"dew_point_temperature,omitempty"`
}

type periodDetails struct {
	PrecipitationAmount    *float64 `json:"precipitation_amount,omitempty"`
	PrecipitationAmountMin *float64 `json:"precipitation_amount_min,omitempty"`
	PrecipitationAmountMax *float64 `json:"precipitation_amount_max,omitempty"`
}

// Decode reads a met.no Locationforecast document. A null document or one
// without properties.timeseries yields ErrMissingTimeseries.
func Decode(r io.Reader) (*Forecast, error) {
	var doc *document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	if doc == nil || doc.Properties == nil || doc.Properties.Timeseries == nil {
		return nil, ErrMissingTimeseries
	}

	series := *doc.Properties.Timeseries
	fc := &Forecast{
		UpdatedAt: doc.Properties.Meta.UpdatedAt,
		Samples:   make([]Sample, 0, len(series)),
	}
	for i, ts := range series {
		t, err := time.Parse(time.RFC3339, ts.Time)
		if err != nil {
			return nil, fmt.Errorf("timeseries[%d]: parse time %q: %w", i, ts.Time, err)
		}
		s := Sample{
			Time:                t.UTC(),
			AirTemperature:      ts.Data.Instant.Details.AirTemperature,
			UVIndexClearSky:     ts.Data.Instant.Details.UltravioletIndexClearSky,
			DewPointTemperature: ts.Data.Instant.Details.DewPointTemperature,
		}
		if next := ts.Data.Next1Hours; next != nil {
			s.PrecipAmount = valueOrZero(next.Details.PrecipitationAmount)
			s.PrecipAmountMin = valueOrZero(next.Details.PrecipitationAmountMin)
			s.PrecipAmountMax = valueOrZero(next.Details.PrecipitationAmountMax)
		}
		fc.Samples = append(fc.Samples, s)
	}
	return fc, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
