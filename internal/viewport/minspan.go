package viewport

import "time"

// Week is one week in seconds, the unit of X values (unix timestamps).
const Week = float64(7 * 24 * time.Hour / time.Second)

// MinSpanPolicy decides the smallest span zoom-in may produce on an axis.
type MinSpanPolicy interface {
	MinSpan(extent Range) float64
}

// AbsoluteMinSpan is a fixed floor in data units.
type AbsoluteMinSpan float64

func (s AbsoluteMinSpan) MinSpan(Range) float64 { return float64(s) }

// ExtentRatioMinSpan is a floor proportional to the full extent span.
type ExtentRatioMinSpan float64

func (r ExtentRatioMinSpan) MinSpan(extent Range) float64 {
	return float64(r) * extent.Span()
}
