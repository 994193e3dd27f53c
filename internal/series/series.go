// Package series holds the chart data: named time series, marker lines and
// the set of series a chart displays.
package series

import (
	"fmt"
	"math"
	"sort"

	"github.com/wandb/tschart/internal/viewport"
)

// Kind selects how a series is rendered.
type Kind int

const (
	KindLine Kind = iota
	KindArea
)

func (k Kind) String() string {
	switch k {
	case KindArea:
		return "area"
	default:
		return "line"
	}
}

// ParseKind converts "line" or "area" to a Kind. The empty string is a line.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "line":
		return KindLine, nil
	case "area":
		return KindArea, nil
	default:
		return KindLine, fmt.Errorf("series: unknown kind %q", s)
	}
}

// Point is one observation; X is a unix timestamp in seconds.
type Point struct {
	X, Y float64
}

// Series is an ordered sequence of points.
type Series struct {
	Name string
	Kind Kind

	// Color is a lipgloss color; empty picks one from the palette.
	Color string

	// Points are sorted by X.
	Points []Point

	// Disabled series are neither drawn nor part of the extent.
	Disabled bool
}

// Sort orders the points by X and drops non-finite ones.
func (s *Series) Sort() {
	pts := s.Points[:0]
	for _, p := range s.Points {
		if isFinite(p.X) && isFinite(p.Y) {
			pts = append(pts, p)
		}
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	s.Points = pts
}

// Bounds returns the extent of the series' points.
func (s *Series) Bounds() (viewport.Bounds, bool) {
	if len(s.Points) == 0 {
		return viewport.Bounds{}, false
	}
	b := viewport.EmptyBounds()
	for _, p := range s.Points {
		b = b.Include(p.X, p.Y)
	}
	return b, true
}

// Nearest returns the point whose X is closest to x.
func (s *Series) Nearest(x float64) (Point, bool) {
	n := len(s.Points)
	if n == 0 {
		return Point{}, false
	}
	i := sort.Search(n, func(i int) bool { return s.Points[i].X >= x })
	switch {
	case i == 0:
		return s.Points[0], true
	case i == n:
		return s.Points[n-1], true
	}
	before, after := s.Points[i-1], s.Points[i]
	if x-before.X <= after.X-x {
		return before, true
	}
	return after, true
}

// Marker is a vertical line at a point in time.
type Marker struct {
	X     float64
	Label string

	// Value, if set, is drawn as a tick on the marker line.
	Value *float64

	Color string
}

// NonTradingDay is a calendar day without trading, shaded on the time axis.
type NonTradingDay struct {
	// Day is the unix timestamp, in seconds, of the day's UTC midnight.
	Day float64

	Color string
}

// DayStart truncates a unix timestamp in seconds to its UTC midnight.
func DayStart(ts float64) float64 {
	return math.Floor(ts/secondsPerDay) * secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
