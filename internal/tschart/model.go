// Package tschart is the terminal application around a TimelineChart.
package tschart

import (
	"fmt"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/wandb/tschart/internal/chartview"
	"github.com/wandb/tschart/internal/keymap"
	"github.com/wandb/tschart/internal/observability"
	"github.com/wandb/tschart/internal/series"
	"github.com/wandb/tschart/internal/settings"
	"github.com/wandb/tschart/internal/viewport"
	"github.com/wandb/tschart/internal/watch"
)

type Params struct {
	// Paths are the series files shown by the chart.
	Paths []string

	// Fs is the filesystem the files are read from. Defaults to the OS.
	Fs afero.Fs

	Settings settings.Settings

	// File is the already loaded content of Paths. When nil the files are
	// loaded by Init.
	File *series.File

	// Watcher, if set, triggers a reload whenever a file changes.
	Watcher *watch.FileWatcher

	Logger *observability.CoreLogger
}

// Model describes the application state.
//
// Implements tea.Model.
type Model struct {
	keyMap keymap.Map[Model]

	width, height int

	paths []string
	fs    afero.Fs

	chart   *chartview.TimelineChart
	help    *HelpModel
	watcher *watch.FileWatcher

	tooltip bool

	status      string
	statusError bool
	loading     bool

	logger *observability.CoreLogger
}

func NewModel(params Params) *Model {
	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	fs := params.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	logger.Info(fmt.Sprintf("model: creating model for %d files", len(params.Paths)))

	set := series.NewSet()
	if params.File != nil {
		set.SetNonTradingDays(params.File.NonTradingDays)
		set.Replace(params.File.Series, params.File.Markers)
	}

	s := params.Settings
	chart := chartview.New(chartview.Params{
		Width:    80,
		Height:   20,
		Set:      set,
		Viewport: s.ViewportParams(),
		Gesture:  s.GestureConfig(),
		Palette:  s.Colors,
		Tooltip:  s.Tooltip,
		Logger:   logger,
	})
	chart.SetPosition(0, TitleHeight)

	return &Model{
		keyMap:  keymap.Build(AppKeyBindings()),
		paths:   params.Paths,
		fs:      fs,
		chart:   chart,
		help:    NewHelp(),
		watcher: params.Watcher,
		tooltip: s.Tooltip,
		loading: params.File == nil && len(params.Paths) > 0,
		logger:  logger,
	}
}

// Chart returns the chart component.
func (m *Model) Chart() *chartview.TimelineChart { return m.chart }

// Status returns the status bar message and whether it reports an error.
func (m *Model) Status() (string, bool) { return m.status, m.statusError }

// HelpActive reports whether the help screen is shown.
func (m *Model) HelpActive() bool { return m.help.IsActive() }

// Init returns the initial commands.
//
// Implements tea.Model.Init.
func (m *Model) Init() tea.Cmd {
	m.logger.Debug("model: Init called")

	cmds := []tea.Cmd{windowTitleCmd()}
	if m.loading {
		cmds = append(cmds, loadSeriesCmd(m.fs, m.paths, m.logger))
	}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForWatcherMsg())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming events and updates the model accordingly.
//
// Implements tea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.logPanic("Update")

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m, m.handleMouseMsg(msg)

	case watch.SeriesFileChangedMsg:
		m.logger.Debug(fmt.Sprintf("model: files changed: %v", msg.Paths))
		return m, tea.Batch(m.reload(), m.waitForWatcherMsg())

	case SeriesLoadedMsg:
		m.handleSeriesLoaded(msg)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	m.help.SetSize(msg.Width, msg.Height)

	chartHeight := max(
		msg.Height-TitleHeight-InfoHeight-LegendHeight-StatusBarHeight,
		MinChartHeight,
	)
	m.chart.Resize(msg.Width, chartHeight)
	m.chart.SetPosition(0, TitleHeight)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.help.IsActive() {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}

	if handler, ok := m.keyMap.Lookup(msg); ok {
		return handler(m, msg)
	}

	m.chart.HandleKey(msg)
	return nil
}

func (m *Model) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if m.help.IsActive() {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}

	m.chart.HandleMouse(msg)
	return nil
}

func (m *Model) handleSeriesLoaded(msg SeriesLoadedMsg) {
	m.loading = false

	if msg.Err != nil {
		m.setStatus(fmt.Sprintf("load failed: %v", msg.Err), true)
		return
	}

	defer timeit(m.logger, "replaceSeries")()
	m.chart.Series().SetNonTradingDays(msg.File.NonTradingDays)
	m.chart.Series().Replace(msg.File.Series, msg.File.Markers)
	m.setStatus(fmt.Sprintf("loaded %d series", len(msg.File.Series)), false)
}

// reload re-reads all series files; viewport windows survive the reload.
func (m *Model) reload() tea.Cmd {
	if len(m.paths) == 0 {
		return nil
	}
	m.setStatus("reloading...", false)
	return loadSeriesCmd(m.fs, m.paths, m.logger)
}

func (m *Model) waitForWatcherMsg() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		return m.watcher.WaitForMsg()
	}
}

func (m *Model) setStatus(text string, isError bool) {
	m.status, m.statusError = text, isError
}

// View renders the UI.
//
// Implements tea.Model.View.
func (m *Model) View() string {
	defer m.logPanic("View")

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.help.IsActive() {
		return lipgloss.JoinVertical(lipgloss.Left, m.help.View(), m.renderStatusBar())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitle(),
		m.chart.View(),
		m.renderInfo(),
		m.renderLegend(),
		m.renderStatusBar(),
	)
}

func (m *Model) renderTitle() string {
	title := titleStyle.Render("tschart")
	if len(m.paths) > 0 {
		title += " " + titlePathStyle.Render(strings.Join(m.paths, ", "))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(title)
}

// renderInfo shows the tool readout, or the tooltip when no tool is active.
func (m *Model) renderInfo() string {
	text := m.chart.ToolText()
	if m.chart.Tool() == chartview.ToolNone {
		text = m.chart.TooltipText()
	}
	return infoStyle.MaxWidth(m.width).Render(text)
}

func (m *Model) renderStatusBar() string {
	left := " " + m.windowText()
	if m.chart.Tool() != chartview.ToolNone {
		left += " | tool: " + m.chart.Tool().String()
	}

	status := m.status
	if m.loading {
		status = "loading..."
	}
	right := "h: help "

	style := statusBarStyle
	if m.statusError {
		style = statusErrorStyle
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - lipgloss.Width(right) - 2
	var line string
	if gap >= 0 {
		line = left + "  " + status + strings.Repeat(" ", gap) + right
	} else {
		line = left + "  " + status
	}

	return style.Width(m.width).MaxWidth(m.width).Render(line)
}

// windowText describes the visible window and which axes are pinned.
func (m *Model) windowText() string {
	vp := m.chart.Viewport()
	if _, ok := vp.Extent(); !ok {
		return "no data"
	}

	x := vp.VisibleRange(viewport.AxisX)
	return fmt.Sprintf("%s to %s | x: %s | y: %s",
		chartview.FormatDate(x.Min),
		chartview.FormatDate(x.Max),
		axisMode(vp, viewport.AxisX),
		axisMode(vp, viewport.AxisY),
	)
}

func axisMode(vp *viewport.Controller, a viewport.Axis) string {
	if vp.IsPinned(a) {
		return "zoomed"
	}
	return "auto"
}

// logPanic logs panics to the log file before exiting.
func (m *Model) logPanic(context string) {
	if r := recover(); r != nil {
		stackTrace := string(debug.Stack())
		m.logger.CaptureError(fmt.Errorf("PANIC in %s: %v\nStack trace:\n%s", context, r, stackTrace))

		panic(r)
	}
}
