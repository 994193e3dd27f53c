package series

import (
	"sort"

	"github.com/samber/lo"

	"github.com/wandb/tschart/internal/viewport"
)

// Set is the ordered collection of series shown by one chart.
//
// Subscribers are notified synchronously whenever the set of active series
// or their data change.
type Set struct {
	series         []*Series
	markers        []Marker
	nonTradingDays []NonTradingDay
	subscribers    []func()
}

func NewSet(series ...*Series) *Set {
	s := &Set{}
	for _, sr := range series {
		sr.Sort()
		s.series = append(s.series, sr)
	}
	return s
}

// Subscribe registers f to run after every change.
func (s *Set) Subscribe(f func()) {
	s.subscribers = append(s.subscribers, f)
}

func (s *Set) notify() {
	for _, f := range s.subscribers {
		f()
	}
}

func (s *Set) Len() int { return len(s.series) }

// At returns the i-th series, or nil if out of range.
func (s *Set) At(i int) *Series {
	if i < 0 || i >= len(s.series) {
		return nil
	}
	return s.series[i]
}

// All returns every series, enabled or not.
func (s *Set) All() []*Series { return s.series }

// Enabled returns the series that are drawn.
func (s *Set) Enabled() []*Series {
	return lo.Filter(s.series, func(sr *Series, _ int) bool {
		return !sr.Disabled
	})
}

func (s *Set) Markers() []Marker { return s.markers }

// NonTradingDays returns the shaded days, sorted and without duplicates.
func (s *Set) NonTradingDays() []NonTradingDay { return s.nonTradingDays }

// SetNonTradingDays replaces the shaded days. Days are truncated to UTC
// midnight; for duplicates the first entry wins.
func (s *Set) SetNonTradingDays(days []NonTradingDay) {
	normalized := lo.Map(days, func(d NonTradingDay, _ int) NonTradingDay {
		d.Day = DayStart(d.Day)
		return d
	})
	normalized = lo.UniqBy(normalized, func(d NonTradingDay) float64 { return d.Day })
	sort.SliceStable(normalized, func(i, j int) bool { return normalized[i].Day < normalized[j].Day })

	s.nonTradingDays = normalized
	s.notify()
}

// Add appends a series.
func (s *Set) Add(sr *Series) {
	sr.Sort()
	s.series = append(s.series, sr)
	s.notify()
}

// Replace swaps in new data.
//
// The Disabled flag of series that keep their name is carried over.
func (s *Set) Replace(series []*Series, markers []Marker) {
	disabled := make(map[string]bool, len(s.series))
	for _, sr := range s.series {
		disabled[sr.Name] = sr.Disabled
	}
	for _, sr := range series {
		sr.Sort()
		if d, ok := disabled[sr.Name]; ok {
			sr.Disabled = d
		}
	}
	s.series = series
	s.markers = markers
	s.notify()
}

// Toggle flips the Disabled flag of the i-th series and reports whether
// the index was valid.
func (s *Set) Toggle(i int) bool {
	sr := s.At(i)
	if sr == nil {
		return false
	}
	sr.Disabled = !sr.Disabled
	s.notify()
	return true
}

// SetDisabled sets the Disabled flag of the i-th series.
func (s *Set) SetDisabled(i int, disabled bool) {
	sr := s.At(i)
	if sr == nil || sr.Disabled == disabled {
		return
	}
	sr.Disabled = disabled
	s.notify()
}

// Extent returns the bounds of all enabled, non-empty series.
func (s *Set) Extent() (viewport.Bounds, bool) {
	extent := viewport.EmptyBounds()
	found := false
	for _, sr := range s.Enabled() {
		b, ok := sr.Bounds()
		if !ok {
			continue
		}
		extent = extent.Include(b.X.Min, b.Y.Min).Include(b.X.Max, b.Y.Max)
		found = true
	}
	return extent, found
}
