package types

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date key of a stored recommendation.
const DateLayout = "2006-01-02"

type Recommendation struct {
	Date      string    `json:"date"`
	Text      string    `json:"recommendation"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// DateOf returns the local calendar date of t in DateLayout.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate checks that s is a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}
