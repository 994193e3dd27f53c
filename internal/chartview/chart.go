// Package chartview draws interactive time-series charts on a terminal
// canvas.
package chartview

import (
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wandb/tschart/internal/gesture"
	"github.com/wandb/tschart/internal/observability"
	"github.com/wandb/tschart/internal/series"
	"github.com/wandb/tschart/internal/viewport"
)

const (
	xSteps = 12
	ySteps = 2
)

type Params struct {
	Width, Height int

	Set *series.Set

	// Viewport configures zoom; its OnRedraw and Logger are ignored.
	Viewport viewport.Params

	Gesture gesture.Config

	// Palette colors series and markers without their own color.
	Palette []string

	// Tooltip enables the hover readout.
	Tooltip bool

	Logger *observability.CoreLogger
}

type hoverState struct {
	x, y int
	ok   bool
}

// TimelineChart is a line chart over time with zoom and pan. It also draws
// a yearly grid, non-trading-day shading, marker lines, a hover tooltip
// and measurement tools.
type TimelineChart struct {
	linechart.Model

	set      *series.Set
	vp       *viewport.Controller
	gestures *gesture.Dispatcher
	palette  []string
	logger   *observability.CoreLogger

	// Screen position of the chart's top-left cell.
	offsetX, offsetY int

	// view is the data range drawn by the last Draw.
	view    viewport.Bounds
	hasData bool

	tooltip bool
	hover   hoverState

	tool  Tool
	tools toolState
}

func New(params Params) *TimelineChart {
	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	palette := params.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	set := params.Set
	if set == nil {
		set = series.NewSet()
	}

	c := &TimelineChart{
		set:     set,
		palette: palette,
		logger:  logger,
		tooltip: params.Tooltip,
	}
	c.Model = linechart.New(params.Width, params.Height, 0, 1, 0, 1,
		linechart.WithXYSteps(xSteps, ySteps),
		linechart.WithXLabelFormatter(c.formatXLabel),
		linechart.WithYLabelFormatter(formatYLabel),
	)
	c.AxisStyle = axisStyle
	c.LabelStyle = labelStyle

	vpParams := params.Viewport
	vpParams.OnRedraw = c.Draw
	vpParams.Logger = logger
	c.vp = viewport.New(vpParams)
	c.gestures = gesture.NewDispatcher(c.vp, params.Gesture, logger)

	set.Subscribe(c.syncExtent)
	c.syncExtent()
	return c
}

// Viewport returns the controller owning the visible window.
func (c *TimelineChart) Viewport() *viewport.Controller { return c.vp }

// Gestures returns the input dispatcher.
func (c *TimelineChart) Gestures() *gesture.Dispatcher { return c.gestures }

// Series returns the displayed series.
func (c *TimelineChart) Series() *series.Set { return c.set }

// SeriesColor returns the color used for the i-th series.
func (c *TimelineChart) SeriesColor(i int) string {
	if sr := c.set.At(i); sr != nil && sr.Color != "" {
		return sr.Color
	}
	return c.palette[((i%len(c.palette))+len(c.palette))%len(c.palette)]
}

// SetTooltip enables or disables the hover readout.
func (c *TimelineChart) SetTooltip(enabled bool) {
	c.tooltip = enabled
	if !enabled {
		c.hover = hoverState{}
	}
}

// SetPosition sets the screen position of the chart's top-left cell.
func (c *TimelineChart) SetPosition(x, y int) {
	c.offsetX, c.offsetY = x, y
	c.gestures.SetRect(c.PlotRect())
}

// Resize updates the chart dimensions and redraws.
func (c *TimelineChart) Resize(width, height int) {
	if c.Width() == width && c.Height() == height {
		return
	}
	c.Model.Resize(width, height)
	c.Draw()
}

// PlotRect returns the graph area in screen cells.
func (c *TimelineChart) PlotRect() gesture.Rect {
	return gesture.Rect{
		X: c.offsetX + c.graphStartX(),
		Y: c.offsetY,
		W: c.GraphWidth(),
		H: c.GraphHeight(),
	}
}

// syncExtent feeds the extent of the enabled series to the viewport.
func (c *TimelineChart) syncExtent() {
	extent, ok := c.set.Extent()
	if !ok {
		c.vp.ClearExtent()
		return
	}
	c.vp.SetExtent(extent)
}

// Draw renders axes, series, markers and tools for the current view.
func (c *TimelineChart) Draw() {
	c.view, c.hasData = c.displayBounds()
	c.SetXRange(c.view.X.Min, c.view.X.Max)
	c.SetViewXRange(c.view.X.Min, c.view.X.Max)
	c.SetYRange(c.view.Y.Min, c.view.Y.Max)
	c.SetViewYRange(c.view.Y.Min, c.view.Y.Max)

	c.vp.SetSize(c.GraphWidth(), c.GraphHeight())
	c.gestures.SetRect(c.PlotRect())

	c.Clear()
	c.DrawXYAxisAndLabel()

	gw, gh := c.GraphWidth(), c.GraphHeight()
	if gw <= 0 || gh <= 0 {
		return
	}
	startX := c.graphStartX()

	if !c.hasData {
		msg := "no data"
		c.Canvas.SetStringWithStyle(
			canvas.Point{X: startX + max((gw-len(msg))/2, 0), Y: gh / 2},
			msg, emptyStyle)
		return
	}

	for i, sr := range c.set.All() {
		if sr.Disabled || len(sr.Points) == 0 {
			continue
		}
		plot := newPlot(gw, gh, c.view)
		RendererFor(sr.Kind).Render(plot, sr.Points)
		graph.DrawBraillePatterns(&c.Canvas,
			canvas.Point{X: startX, Y: 0},
			plot.Grid.BraillePatterns(),
			colorStyle(c.SeriesColor(i)))
	}

	c.drawNonTradingDays(startX)
	c.drawTimeGrid(startX)
	c.drawMarkers(startX)
	c.drawTools(startX)
}

// displayBounds returns the range to draw. Degenerate spans are widened
// so the line chart can still place the data.
func (c *TimelineChart) displayBounds() (viewport.Bounds, bool) {
	if _, ok := c.vp.Extent(); !ok {
		return viewport.Bounds{
			X: viewport.Range{Min: 0, Max: 1},
			Y: viewport.Range{Min: 0, Max: 1},
		}, false
	}
	v := c.vp.Visible()
	return viewport.Bounds{X: widen(v.X, day), Y: widen(v.Y, 1)}, true
}

func widen(r viewport.Range, pad float64) viewport.Range {
	if r.Span() > 0 {
		return r
	}
	if p := math.Abs(r.Min) * 0.1; p > 0 {
		pad = p
	}
	return viewport.Range{Min: r.Min - pad, Max: r.Max + pad}
}

func (c *TimelineChart) graphStartX() int {
	if c.YStep() > 0 {
		return c.Origin().X + 1
	}
	return 0
}

// column returns the graph column of data X in the last drawn view.
func (c *TimelineChart) column(x float64) (int, bool) {
	span := c.view.X.Span()
	gw := c.GraphWidth()
	if span <= 0 || gw <= 0 || x < c.view.X.Min || x > c.view.X.Max {
		return 0, false
	}
	return min(int((x-c.view.X.Min)/span*float64(gw)), gw-1), true
}

// row returns the graph row of data Y in the last drawn view.
func (c *TimelineChart) row(y float64) (int, bool) {
	span := c.view.Y.Span()
	gh := c.GraphHeight()
	if span <= 0 || gh <= 0 || y < c.view.Y.Min || y > c.view.Y.Max {
		return 0, false
	}
	return min(int((c.view.Y.Max-y)/span*float64(gh)), gh-1), true
}

// dataAt maps the center of a plot-local cell to data coordinates.
func (c *TimelineChart) dataAt(lx, ly int) Spot {
	gw, gh := float64(c.GraphWidth()), float64(c.GraphHeight())
	s := Spot{X: c.view.X.Min, Y: c.view.Y.Max}
	if gw > 0 {
		s.X += (float64(lx) + 0.5) / gw * c.view.X.Span()
	}
	if gh > 0 {
		s.Y -= (float64(ly) + 0.5) / gh * c.view.Y.Span()
	}
	return s
}

// HandleMouse applies a mouse event and reports whether it was consumed.
//
// While a tool is active the primary button goes to the tool; the wheel
// always zooms.
func (c *TimelineChart) HandleMouse(msg tea.MouseMsg) bool {
	ev := tea.MouseEvent(msg)
	rect := c.PlotRect()
	inside := rect.Contains(ev.X, ev.Y)

	c.updateHover(ev, rect, inside)

	if c.tool != ToolNone && !ev.IsWheel() && c.handleToolMouse(ev, rect) {
		return true
	}
	if c.tool != ToolNone && !ev.IsWheel() {
		return inside
	}
	return c.gestures.HandleMouse(msg) || inside
}

// HandleKey applies a viewport key binding and reports whether it was bound.
func (c *TimelineChart) HandleKey(msg tea.KeyMsg) bool {
	return c.gestures.HandleKey(msg)
}

func (c *TimelineChart) updateHover(ev tea.MouseEvent, rect gesture.Rect, inside bool) {
	if !c.tooltip || c.tool != ToolNone || !inside {
		c.hover = hoverState{}
		return
	}
	lx, ly := rect.Local(ev.X, ev.Y)
	c.hover = hoverState{x: lx, y: ly, ok: true}
}

// TooltipText describes the data under the pointer: the date and the
// nearest value of each enabled series.
func (c *TimelineChart) TooltipText() string {
	if !c.hover.ok || !c.hasData || c.tool != ToolNone {
		return ""
	}
	spot := c.dataAt(c.hover.x, c.hover.y)

	parts := []string{FormatDate(spot.X)}
	for i, sr := range c.set.All() {
		if sr.Disabled {
			continue
		}
		p, ok := sr.Nearest(spot.X)
		if !ok {
			continue
		}
		value := lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.SeriesColor(i))).
			Render(FormatValue(p.Y))
		parts = append(parts, fmt.Sprintf("%s: %s", sr.Name, value))
	}
	return strings.Join(parts, "  ")
}

func (c *TimelineChart) formatXLabel(_ int, v float64) string {
	return toTime(v).Format(dateLabelLayout(c.view.X.Span()))
}

func formatYLabel(_ int, v float64) string {
	return FormatValue(v)
}
