package tschart_test

import (
	"errors"
	"regexp"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/tschart/internal/chartview"
	"github.com/wandb/tschart/internal/observabilitytest"
	"github.com/wandb/tschart/internal/series"
	"github.com/wandb/tschart/internal/settings"
	"github.com/wandb/tschart/internal/tschart"
	"github.com/wandb/tschart/internal/viewport"
	"github.com/wandb/tschart/internal/watch"
)

const day = 86400

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func testFile() *series.File {
	a := &series.Series{Name: "Fund A"}
	b := &series.Series{Name: "Fund B", Kind: series.KindArea}
	for i := range 120 {
		x := float64(1704067200 + i*day)
		a.Points = append(a.Points, series.Point{X: x, Y: 100 + float64(i)})
		b.Points = append(b.Points, series.Point{X: x, Y: 50 + float64(i%10)})
	}
	return &series.File{Series: []*series.Series{a, b}}
}

func newModel(t *testing.T, params tschart.Params) *tschart.Model {
	t.Helper()

	if params.Settings.ZoomRatio == 0 {
		params.Settings = settings.Default()
	}
	params.Logger = observabilitytest.NewTestLogger(t)

	m := tschart.NewModel(params)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestView_Layout(t *testing.T) {
	m := newModel(t, tschart.Params{Paths: []string{"prices.csv"}, File: testFile()})

	view := stripANSI(m.View())
	assert.Contains(t, view, "tschart prices.csv")
	assert.Contains(t, view, "1 ● Fund A")
	assert.Contains(t, view, "2 ● Fund B")
	assert.Contains(t, view, "2024-01-01 to")
	assert.Contains(t, view, "x: auto | y: auto")
	assert.Contains(t, view, "h: help")
}

func TestView_BeforeWindowSize(t *testing.T) {
	m := tschart.NewModel(tschart.Params{File: testFile()})
	assert.Equal(t, "Loading...", m.View())
}

func TestLegendToggle(t *testing.T) {
	m := newModel(t, tschart.Params{File: testFile()})
	set := m.Chart().Series()

	m.Update(altKey('2'))
	assert.True(t, set.At(1).Disabled)
	status, isErr := m.Status()
	assert.Equal(t, "Fund B hidden", status)
	assert.False(t, isErr)

	m.Update(altKey('2'))
	assert.False(t, set.At(1).Disabled)

	// No third series: nothing happens.
	m.Update(altKey('3'))
	assert.False(t, set.At(0).Disabled)
	assert.False(t, set.At(1).Disabled)
}

func TestLegendToggle_RecomputesExtent(t *testing.T) {
	m := newModel(t, tschart.Params{File: testFile()})
	vp := m.Chart().Viewport()

	m.Update(altKey('1'))
	extent, ok := vp.Extent()
	require.True(t, ok)
	assert.Equal(t, 50.0, extent.Y.Min)
	assert.Equal(t, 59.0, extent.Y.Max)

	m.Update(altKey('2'))
	_, ok = vp.Extent()
	assert.False(t, ok)
	assert.Contains(t, stripANSI(m.View()), "no data")
}

func TestDigitsWithoutAltPan(t *testing.T) {
	m := newModel(t, tschart.Params{File: testFile()})
	vp := m.Chart().Viewport()

	m.Update(keyRunes("+"))
	require.True(t, vp.IsPinned(viewport.AxisX))
	before := vp.VisibleRange(viewport.AxisX)

	m.Update(keyRunes("4"))
	after := vp.VisibleRange(viewport.AxisX)
	assert.Less(t, after.Min, before.Min)
	assert.False(t, m.Chart().Series().At(0).Disabled)
}

func TestViewportKeysReachChart(t *testing.T) {
	m := newModel(t, tschart.Params{File: testFile()})
	vp := m.Chart().Viewport()

	m.Update(keyRunes("+"))
	assert.True(t, vp.IsPinned(viewport.AxisX))
	assert.Contains(t, stripANSI(m.View()), "x: zoomed")

	m.Update(keyRunes("0"))
	assert.False(t, vp.IsPinned(viewport.AxisX))
}

func TestCycleTool(t *testing.T) {
	m := newModel(t, tschart.Params{File: testFile()})

	m.Update(keyRunes("t"))
	assert.Equal(t, chartview.ToolCrosshair, m.Chart().Tool())
	assert.Contains(t, stripANSI(m.View()), "tool: crosshair")

	m.Update(keyRunes("t"))
	assert.Equal(t, chartview.ToolMeasure, m.Chart().Tool())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, chartview.ToolNone, m.Chart().Tool())
}

func TestHelpScreen(t *testing.T) {
	m := newModel(t, tschart.Params{File: testFile()})

	m.Update(keyRunes("?"))
	require.True(t, m.HelpActive())

	view := stripANSI(m.View())
	assert.Contains(t, view, "General")
	assert.Contains(t, view, "Pan")
	assert.Contains(t, view, "Zoom")

	// Viewport keys are swallowed while help is shown.
	m.Update(keyRunes("+"))
	assert.False(t, m.Chart().Viewport().IsPinned(viewport.AxisX))

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.HelpActive())
}

func TestQuit(t *testing.T) {
	m := newModel(t, tschart.Params{File: testFile()})

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestSeriesLoaded(t *testing.T) {
	m := newModel(t, tschart.Params{File: testFile()})
	m.Update(altKey('1'))

	replacement := testFile()
	replacement.Series = replacement.Series[:1]
	m.Update(tschart.SeriesLoadedMsg{File: replacement})

	set := m.Chart().Series()
	require.Equal(t, 1, set.Len())
	assert.True(t, set.At(0).Disabled, "disabled flag survives reload")

	status, isErr := m.Status()
	assert.Equal(t, "loaded 1 series", status)
	assert.False(t, isErr)
}

func TestSeriesLoaded_Error(t *testing.T) {
	m := newModel(t, tschart.Params{File: testFile()})

	m.Update(tschart.SeriesLoadedMsg{Err: errors.New("boom")})

	status, isErr := m.Status()
	assert.Equal(t, "load failed: boom", status)
	assert.True(t, isErr)
	assert.Equal(t, 2, m.Chart().Series().Len())
}

func TestReloadKeepsZoom(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/prices.csv", []byte(
		"date,Fund A\n2024-01-01,1\n2024-03-01,2\n2024-06-01,3\n"), 0o644))

	m := newModel(t, tschart.Params{Paths: []string{"/prices.csv"}, Fs: fs})

	_, cmd := m.Update(keyRunes("r"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Equal(t, 1, m.Chart().Series().Len())

	vp := m.Chart().Viewport()
	m.Update(keyRunes("+"))
	zoomed := vp.VisibleRange(viewport.AxisX)

	require.NoError(t, afero.WriteFile(fs, "/prices.csv", []byte(
		"date,Fund A\n2024-01-01,1\n2024-03-01,2\n2024-06-01,3\n2024-07-01,4\n"), 0o644))
	_, cmd = m.Update(keyRunes("r"))
	m.Update(cmd())

	assert.True(t, vp.IsPinned(viewport.AxisX))
	assert.Equal(t, zoomed, vp.VisibleRange(viewport.AxisX))
}

func TestFileChangedReloads(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/prices.csv", []byte(
		"date,Fund A\n2024-01-01,1\n2024-02-01,2\n"), 0o644))

	ch := make(chan tea.Msg, 1)
	m := newModel(t, tschart.Params{
		Paths:   []string{"/prices.csv"},
		Fs:      fs,
		Watcher: watch.NewFileWatcher(ch, 0, nil),
	})

	_, cmd := m.Update(watch.SeriesFileChangedMsg{Paths: []string{"/prices.csv"}})
	require.NotNil(t, cmd)

	status, _ := m.Status()
	assert.Equal(t, "reloading...", status)
}

func TestLoadFailureFromDisk(t *testing.T) {
	m := newModel(t, tschart.Params{
		Paths: []string{"/missing.csv"},
		Fs:    afero.NewMemMapFs(),
	})
	assert.Contains(t, stripANSI(m.View()), "loading...")

	_, cmd := m.Update(keyRunes("r"))
	msg := cmd()
	loaded, ok := msg.(tschart.SeriesLoadedMsg)
	require.True(t, ok)
	assert.Error(t, loaded.Err)

	m.Update(msg)
	_, isErr := m.Status()
	assert.True(t, isErr)
}
