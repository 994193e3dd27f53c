package chartview

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * 60 * 60

// FormatValue formats a value compactly for axis labels and readouts.
func FormatValue(value float64) string {
	if value == 0 {
		return "0"
	}
	if value < 0 {
		return "-" + FormatValue(-value)
	}

	switch {
	case value >= 1e9:
		return formatFloat(value/1e9, 1) + "G"
	case value >= 1e6:
		return formatFloat(value/1e6, 1) + "M"
	case value >= 1e3:
		return formatFloat(value/1e3, 1) + "k"
	case value < 0.01:
		return formatFloat(value*1000, 1) + "m"
	case value < 1:
		return formatFloat(value, 2)
	case value < 10:
		return formatFloat(value, 1)
	default:
		return formatFloat(value, 0)
	}
}

// FormatDate formats a unix timestamp in seconds as a UTC date.
func FormatDate(ts float64) string {
	return toTime(ts).Format("2006-01-02")
}

// dateLabelLayout picks a layout coarse enough for the visible span.
func dateLabelLayout(span float64) string {
	switch {
	case span > 3*365*day:
		return "2006"
	case span > 90*day:
		return "Jan 06"
	case span > 2*day:
		return "Jan 02"
	default:
		return "01-02 15:04"
	}
}

// formatChange formats a signed relative change as a percentage.
func formatChange(ratio float64) string {
	s := formatFloat(ratio*100, 2) + "%"
	if ratio > 0 {
		s = "+" + s
	}
	return s
}

// formatDelta formats a signed value difference.
func formatDelta(d float64) string {
	s := FormatValue(d)
	if d > 0 {
		s = "+" + s
	}
	return s
}

func toTime(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// formatFloat formats a float with specified decimal places.
func formatFloat(value float64, decimals int) string {
	formatted := strconv.FormatFloat(value, 'f', decimals, 64)

	// Only trim zeros after decimal point, not before it.
	if decimals > 0 && strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}

	if formatted == "" || formatted == "-0" {
		formatted = "0"
	}

	return formatted
}
