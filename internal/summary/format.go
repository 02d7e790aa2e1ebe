package summary

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Render joins the advisory lines and appends the numeric summary block.
func Render(lines []string, agg Aggregate) string {
	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nDagens väderprognos:\n")
	fmt.Fprintf(&b, "Max: %s°C\n", formatOptional(agg.MaxTemp, math.Inf(-1)))
	fmt.Fprintf(&b, "Min: %s°C\n", formatOptional(agg.MinTemp, math.Inf(1)))
	fmt.Fprintf(&b, "UV-index: %s\n", formatReading(agg.MaxUVIndex))
	fmt.Fprintf(&b, "Nederbörd: %s mm (%s till %s mm)",
		formatPrecip(agg.TotalPrecip),
		formatPrecip(agg.TotalPrecipMin),
		formatPrecip(agg.TotalPrecipMax),
	)
	return b.String()
}

// formatOptional prints v, or the unbounded sentinel when no sample
// contributed a value.
// TODO: decide whether a window without temperatures should drop the
// Max/Min lines instead of printing inf.
func formatOptional(v *float64, sentinel float64) string {
	if v == nil {
		return formatReading(sentinel)
	}
	return formatReading(*v)
}

// formatReading prints a forecast value the way met.no reports it: the
// shortest exact decimal, always with at least one fractional digit.
func formatReading(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatPrecip rounds to one decimal on the exact binary value, so ties
// go to even (0.25 prints as 0.2).
func formatPrecip(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}
