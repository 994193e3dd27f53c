package series_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/tschart/internal/series"
	"github.com/wandb/tschart/internal/viewport"
)

func newSet() *series.Set {
	return series.NewSet(
		&series.Series{Name: "a", Points: []series.Point{{X: 10, Y: 1}, {X: 0, Y: 5}}},
		&series.Series{Name: "b", Points: []series.Point{{X: 5, Y: -2}, {X: 20, Y: 3}}},
		&series.Series{Name: "empty"},
	)
}

func TestExtentCoversEnabledSeries(t *testing.T) {
	s := newSet()

	extent, ok := s.Extent()

	require.True(t, ok)
	assert.Equal(t, viewport.Bounds{
		X: viewport.Range{Min: 0, Max: 20},
		Y: viewport.Range{Min: -2, Max: 5},
	}, extent)
}

func TestExtentSkipsDisabledSeries(t *testing.T) {
	s := newSet()
	s.SetDisabled(1, true)

	extent, ok := s.Extent()

	require.True(t, ok)
	assert.Equal(t, viewport.Range{Min: 0, Max: 10}, extent.X)
	assert.Equal(t, viewport.Range{Min: 1, Max: 5}, extent.Y)
}

func TestExtentWithoutDataIsUnset(t *testing.T) {
	s := series.NewSet(&series.Series{Name: "empty"})

	_, ok := s.Extent()
	assert.False(t, ok)

	s = newSet()
	s.Toggle(0)
	s.Toggle(1)
	_, ok = s.Extent()
	assert.False(t, ok)
}

func TestSubscribersSeeChanges(t *testing.T) {
	s := newSet()
	var extents []viewport.Bounds
	s.Subscribe(func() {
		e, _ := s.Extent()
		extents = append(extents, e)
	})

	require.True(t, s.Toggle(1))
	s.SetDisabled(1, true) // unchanged, no notification
	s.SetDisabled(1, false)
	assert.False(t, s.Toggle(7))

	require.Len(t, extents, 2)
	assert.Equal(t, viewport.Range{Min: 0, Max: 10}, extents[0].X)
	assert.Equal(t, viewport.Range{Min: 0, Max: 20}, extents[1].X)
}

func TestEnabled(t *testing.T) {
	s := newSet()
	s.Toggle(0)

	names := []string{}
	for _, sr := range s.Enabled() {
		names = append(names, sr.Name)
	}
	assert.Equal(t, []string{"b", "empty"}, names)
}

func TestReplaceKeepsDisabledByName(t *testing.T) {
	s := newSet()
	s.Toggle(1)
	notified := 0
	s.Subscribe(func() { notified++ })

	s.Replace([]*series.Series{
		{Name: "b", Points: []series.Point{{X: 1, Y: 1}}},
		{Name: "c", Points: []series.Point{{X: 2, Y: 2}}},
	}, []series.Marker{{X: 1, Label: "m"}})

	assert.Equal(t, 1, notified)
	assert.True(t, s.At(0).Disabled)
	assert.False(t, s.At(1).Disabled)
	assert.Len(t, s.Markers(), 1)
	assert.Nil(t, s.At(2))
}

func TestSetNonTradingDays(t *testing.T) {
	const d = 24 * 60 * 60
	s := newSet()
	notified := 0
	s.Subscribe(func() { notified++ })

	s.SetNonTradingDays([]series.NonTradingDay{
		{Day: 3*d + 600, Color: "#111111"},
		{Day: d},
		{Day: 3 * d, Color: "#222222"},
	})

	assert.Equal(t, 1, notified)
	assert.Equal(t, []series.NonTradingDay{
		{Day: d},
		{Day: 3 * d, Color: "#111111"},
	}, s.NonTradingDays())
}

func TestSortDropsNonFinitePoints(t *testing.T) {
	sr := &series.Series{Points: []series.Point{
		{X: 3, Y: 1},
		{X: math.NaN(), Y: 1},
		{X: 1, Y: math.Inf(1)},
		{X: 2, Y: 2},
	}}

	sr.Sort()

	assert.Equal(t, []series.Point{{X: 2, Y: 2}, {X: 3, Y: 1}}, sr.Points)
}

func TestNearest(t *testing.T) {
	sr := &series.Series{Points: []series.Point{{X: 0, Y: 0}, {X: 10, Y: 1}, {X: 20, Y: 2}}}

	tests := []struct {
		x    float64
		want float64
	}{
		{-5, 0},
		{4, 0},
		{5, 0},
		{6, 1},
		{14, 1},
		{16, 2},
		{100, 2},
	}
	for _, tc := range tests {
		p, ok := sr.Nearest(tc.x)
		require.True(t, ok)
		assert.Equal(t, tc.want, p.Y, "x=%v", tc.x)
	}

	_, ok := (&series.Series{}).Nearest(1)
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	k, err := series.ParseKind("area")
	require.NoError(t, err)
	assert.Equal(t, series.KindArea, k)

	k, err = series.ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, series.KindLine, k)

	_, err = series.ParseKind("bar")
	assert.Error(t, err)
}
