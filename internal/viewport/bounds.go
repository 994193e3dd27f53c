// Package viewport keeps the visible window of a chart inside the extent of
// its data and implements zoom and pan over that window.
package viewport

import (
	"fmt"
	"math"
)

// Axis identifies a chart axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

var axes = [...]Axis{AxisX, AxisY}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// ParseAxis converts "x" or "y" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	default:
		return AxisX, fmt.Errorf("viewport: unknown axis %q", s)
	}
}

// Range is a closed interval of data values on one axis.
type Range struct {
	Min, Max float64
}

func (r Range) Span() float64 { return r.Max - r.Min }

func (r Range) Mid() float64 { return r.Min + r.Span()/2 }

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool {
	return r.Min <= o.Min && o.Max <= r.Max
}

// IsValid reports whether both ends are finite and Min <= Max.
func (r Range) IsValid() bool {
	return isFinite(r.Min) && isFinite(r.Max) && r.Min <= r.Max
}

// Include grows r to cover v.
func (r Range) Include(v float64) Range {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Bounds pairs an X and a Y range.
//
// It is used both for the full data extent and for the visible window.
type Bounds struct {
	X, Y Range
}

// Axis returns the range of the given axis.
func (b Bounds) Axis(a Axis) Range {
	if a == AxisY {
		return b.Y
	}
	return b.X
}

func (b *Bounds) set(a Axis, r Range) {
	if a == AxisY {
		b.Y = r
	} else {
		b.X = r
	}
}

// Contains reports whether o lies within b on both axes.
func (b Bounds) Contains(o Bounds) bool {
	return b.X.Contains(o.X) && b.Y.Contains(o.Y)
}

func (b Bounds) IsValid() bool {
	return b.X.IsValid() && b.Y.IsValid()
}

// EmptyBounds returns bounds that any Include call will replace.
func EmptyBounds() Bounds {
	empty := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	return Bounds{X: empty, Y: empty}
}

// Include grows b to cover the point (x, y).
func (b Bounds) Include(x, y float64) Bounds {
	return Bounds{X: b.X.Include(x), Y: b.Y.Include(y)}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
