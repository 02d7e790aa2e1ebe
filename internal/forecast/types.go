package forecast

import (
	"fmt"
	"time"
)

// Sample is one hourly forecast record: instantaneous readings plus the
// precipitation estimate for the following hour.
type Sample struct {
	Time                time.Time
	AirTemperature      *float64
	UVIndexClearSky     *float64
	DewPointTemperature *float64

	// Precipitation for the next hour in mm; 0 when the forecast omits it.
	PrecipAmount    float64
	PrecipAmountMin float64
	PrecipAmountMax float64
}

type Forecast struct {
	UpdatedAt time.Time
	Samples   []Sample
}

// Window is a half-open range of UTC hours [Start, End).
type Window struct {
	Start int
	End   int
}

var (
	DefaultWindow = Window{Start: 8, End: 17}
	DawnWindow    = Window{Start: 6, End: 9}
)

func (w Window) Validate() error {
	if w.Start < 0 || w.Start > 23 {
		return fmt.Errorf("start hour %d out of range (0-23)", w.Start)
	}
	if w.End < 1 || w.End > 24 {
		return fmt.Errorf("end hour %d out of range (1-24)", w.End)
	}
	if w.Start >= w.End {
		return fmt.Errorf("start hour %d must be before end hour %d", w.Start, w.End)
	}
	return nil
}

// Contains reports whether t falls inside the window, judged by its UTC hour.
func (w Window) Contains(t time.Time) bool {
	h := t.UTC().Hour()
	return h >= w.Start && h < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", w.Start, w.End)
}
