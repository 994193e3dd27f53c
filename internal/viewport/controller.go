package viewport

import (
	"fmt"
	"math"

	"github.com/wandb/tschart/internal/observability"
)

// DefaultZoomRatio is the fraction of the visible span removed by one
// zoom-in step.
const DefaultZoomRatio = 0.075

// Params configures a Controller.
type Params struct {
	// ZoomRatio is the zoom step; values outside (0, 1) use DefaultZoomRatio.
	ZoomRatio float64

	// MinSpanX is the zoom-in floor on X. Defaults to one Week.
	MinSpanX MinSpanPolicy

	// MinSpanY is the zoom-in floor on Y. Defaults to ZoomRatio times the
	// Y extent.
	MinSpanY MinSpanPolicy

	// OnRedraw is invoked synchronously after every change of the
	// visible window.
	OnRedraw func()

	Logger *observability.CoreLogger
}

type operation int

const (
	opPan operation = iota
	opZoom
	opReset
	opExtent
	numOperations
)

func (o operation) String() string {
	return [...]string{"pan", "zoom", "reset", "extent"}[o]
}

// Controller owns the visible window of one chart.
//
// Each axis is either auto-following, in which case the visible range is
// the live extent, or pinned to an explicit range after a pan or zoom.
// Pinned ranges always lie within the extent.
//
// Controller is not safe for concurrent use; all calls are expected on the
// UI event goroutine.
type Controller struct {
	zoomRatio float64
	minSpan   [2]MinSpanPolicy
	onRedraw  func()
	logger    *observability.CoreLogger

	extent    Bounds
	hasExtent bool

	view   Bounds
	pinned [2]bool

	width, height int

	inProgress [numOperations]bool
}

// New returns a Controller with no extent; call SetExtent before zooming
// or panning.
func New(params Params) *Controller {
	ratio := params.ZoomRatio
	if !(ratio > 0 && ratio < 1) {
		ratio = DefaultZoomRatio
	}

	minX := params.MinSpanX
	if minX == nil {
		minX = AbsoluteMinSpan(Week)
	}
	minY := params.MinSpanY
	if minY == nil {
		minY = ExtentRatioMinSpan(ratio)
	}

	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}

	return &Controller{
		zoomRatio: ratio,
		minSpan:   [2]MinSpanPolicy{minX, minY},
		onRedraw:  params.OnRedraw,
		logger:    logger,
	}
}

// SetRedrawFunc replaces the redraw callback.
func (c *Controller) SetRedrawFunc(f func()) {
	c.onRedraw = f
}

// ZoomRatio returns the configured zoom step.
func (c *Controller) ZoomRatio() float64 { return c.zoomRatio }

// SetSize sets the plot area dimensions used to map pixels to data.
func (c *Controller) SetSize(width, height int) {
	c.width, c.height = width, height
}

// Size returns the plot area dimensions.
func (c *Controller) Size() (width, height int) {
	return c.width, c.height
}

// SetExtent installs the full data extent.
//
// Pinned axes are moved into the new extent, and shrunk to it if wider.
// Invalid bounds are ignored.
func (c *Controller) SetExtent(extent Bounds) {
	if !extent.IsValid() {
		c.logger.Debug(fmt.Sprintf("viewport: ignoring invalid extent x=%v y=%v", extent.X, extent.Y))
		return
	}
	if !c.enter(opExtent) {
		return
	}
	defer c.leave(opExtent)

	c.extent = extent
	c.hasExtent = true
	for _, a := range axes {
		if c.pinned[a] {
			c.view.set(a, clampInto(c.view.Axis(a), extent.Axis(a)))
		}
	}
	c.redraw()
}

// ClearExtent forgets the extent, e.g. when no enabled series has data.
//
// All operations are no-ops until a new extent is set.
func (c *Controller) ClearExtent() {
	if !c.enter(opExtent) {
		return
	}
	defer c.leave(opExtent)

	c.hasExtent = false
	c.pinned = [2]bool{}
	c.redraw()
}

// Extent returns the full data extent and whether one is set.
func (c *Controller) Extent() (Bounds, bool) {
	return c.extent, c.hasExtent
}

// IsPinned reports whether the axis holds an explicit range.
func (c *Controller) IsPinned(a Axis) bool {
	return c.pinned[a]
}

// VisibleRange returns the visible range of the axis.
//
// Auto-following axes resolve to the live extent. Without an extent the
// zero Range is returned.
func (c *Controller) VisibleRange(a Axis) Range {
	if !c.hasExtent {
		return Range{}
	}
	if c.pinned[a] {
		return c.view.Axis(a)
	}
	return c.extent.Axis(a)
}

// Visible returns the visible window on both axes.
func (c *Controller) Visible() Bounds {
	return Bounds{X: c.VisibleRange(AxisX), Y: c.VisibleRange(AxisY)}
}

// PixelToData maps plot coordinates to data coordinates.
//
// The pixel origin is the top-left corner of the plot; data Y grows upward.
func (c *Controller) PixelToData(px, py float64) (x, y float64) {
	vx, vy := c.VisibleRange(AxisX), c.VisibleRange(AxisY)
	x, y = vx.Min, vy.Max
	if c.width > 0 {
		x += px / float64(c.width) * vx.Span()
	}
	if c.height > 0 {
		y -= py / float64(c.height) * vy.Span()
	}
	return x, y
}

// DataToPixel maps data coordinates to plot coordinates.
func (c *Controller) DataToPixel(x, y float64) (px, py float64) {
	vx, vy := c.VisibleRange(AxisX), c.VisibleRange(AxisY)
	if span := vx.Span(); span > 0 {
		px = (x - vx.Min) / span * float64(c.width)
	}
	if span := vy.Span(); span > 0 {
		py = (vy.Max - y) / span * float64(c.height)
	}
	return px, py
}

// Pan translates the visible window by a delta in plot pixels.
//
// A positive dxPx moves the window toward larger X; a positive dyPx moves
// it down the screen, toward smaller Y. Returns whether the window moved.
func (c *Controller) Pan(dxPx, dyPx float64) bool {
	if !c.hasExtent || c.width <= 0 || c.height <= 0 {
		return false
	}
	dx := dxPx / float64(c.width) * c.VisibleRange(AxisX).Span()
	dy := -dyPx / float64(c.height) * c.VisibleRange(AxisY).Span()
	return c.PanData(dx, dy)
}

// PanData translates the visible window by a delta in data units.
//
// The delta is clamped per axis so the window stays within the extent;
// the span never changes. Returns whether the window moved.
func (c *Controller) PanData(dx, dy float64) bool {
	if !c.hasExtent || !isFinite(dx) || !isFinite(dy) {
		return false
	}
	if !c.enter(opPan) {
		return false
	}
	defer c.leave(opPan)

	moved := false
	for _, a := range axes {
		d := dx
		if a == AxisY {
			d = dy
		}
		if d == 0 {
			continue
		}

		cur := c.VisibleRange(a)
		d = clampDelta(cur, c.extent.Axis(a), d)
		if d == 0 {
			continue
		}

		ext := c.extent.Axis(a)
		c.pin(a, Range{
			Min: math.Max(cur.Min+d, ext.Min),
			Max: math.Min(cur.Max+d, ext.Max),
		})
		moved = true
	}

	if moved {
		c.redraw()
	}
	return moved
}

// ZoomIn shrinks the axis around the middle of the visible range.
func (c *Controller) ZoomIn(a Axis) bool {
	return c.zoom(a, math.NaN(), true)
}

// ZoomInAt shrinks the axis keeping pivot at the same relative position.
func (c *Controller) ZoomInAt(a Axis, pivot float64) bool {
	if !isFinite(pivot) {
		return false
	}
	return c.zoom(a, pivot, true)
}

// ZoomOut grows the axis around the middle of the visible range.
func (c *Controller) ZoomOut(a Axis) bool {
	return c.zoom(a, math.NaN(), false)
}

// ZoomOutAt grows the axis keeping pivot at the same relative position,
// unless the extent boundary forces the window to shift.
func (c *Controller) ZoomOutAt(a Axis, pivot float64) bool {
	if !isFinite(pivot) {
		return false
	}
	return c.zoom(a, pivot, false)
}

// zoom rescales one axis around pivot; a NaN pivot means the midpoint.
//
// Zoom-in removes span*ratio, split around the pivot by its relative
// position, and is rejected below the axis floor. Zoom-out is the exact
// inverse step, then clamped to the extent.
func (c *Controller) zoom(a Axis, pivot float64, in bool) bool {
	if !c.hasExtent {
		return false
	}
	if !c.enter(opZoom) {
		return false
	}
	defer c.leave(opZoom)

	cur := c.VisibleRange(a)
	span := cur.Span()
	if !(span > 0) || !isFinite(span) {
		return false
	}
	if math.IsNaN(pivot) {
		pivot = cur.Mid()
	}
	rel := math.Max(0, math.Min(1, (pivot-cur.Min)/span))
	ext := c.extent.Axis(a)

	var next Range
	if in {
		delta := span * c.zoomRatio
		next = Range{Min: cur.Min + delta*rel, Max: cur.Max - delta*(1-rel)}
		if floor := c.minSpan[a].MinSpan(ext); next.Span() < floor {
			c.logger.Debug(fmt.Sprintf(
				"viewport: zoom in on %v rejected, span %g below floor %g", a, next.Span(), floor))
			return false
		}
	} else {
		delta := span * c.zoomRatio / (1 - c.zoomRatio)
		next = Range{Min: cur.Min - delta*rel, Max: cur.Max + delta*(1-rel)}
		if next.Min < ext.Min {
			next.Max += ext.Min - next.Min
			next.Min = ext.Min
		}
		if next.Max > ext.Max {
			next.Min -= next.Max - ext.Max
			next.Max = ext.Max
		}
		next.Min = math.Max(next.Min, ext.Min)
		next.Max = math.Min(next.Max, ext.Max)
		if next == cur {
			return false
		}
	}

	c.pin(a, next)
	c.redraw()
	return true
}

// Reset makes both axes follow the full extent again.
func (c *Controller) Reset() {
	if !c.hasExtent || !c.enter(opReset) {
		return
	}
	defer c.leave(opReset)

	c.pinned = [2]bool{}
	c.redraw()
}

// ResetAxis makes one axis follow the full extent again.
func (c *Controller) ResetAxis(a Axis) {
	if !c.hasExtent || !c.enter(opReset) {
		return
	}
	defer c.leave(opReset)

	c.pinned[a] = false
	c.redraw()
}

func (c *Controller) pin(a Axis, r Range) {
	c.view.set(a, r)
	c.pinned[a] = true
}

func (c *Controller) redraw() {
	if c.onRedraw != nil {
		c.onRedraw()
	}
}

// enter marks op as running; re-entrant calls of the same operation are
// dropped.
func (c *Controller) enter(op operation) bool {
	if c.inProgress[op] {
		c.logger.Debug(fmt.Sprintf("viewport: ignoring re-entrant %v", op))
		return false
	}
	c.inProgress[op] = true
	return true
}

func (c *Controller) leave(op operation) {
	c.inProgress[op] = false
}

// clampDelta limits d so that cur shifted by d stays within ext.
func clampDelta(cur, ext Range, d float64) float64 {
	switch {
	case d > 0:
		room := ext.Max - cur.Max
		if room <= 0 {
			return 0
		}
		return math.Min(d, room)
	case d < 0:
		room := ext.Min - cur.Min
		if room >= 0 {
			return 0
		}
		return math.Max(d, room)
	default:
		return 0
	}
}

// clampInto fits r into ext, shifting first and shrinking if necessary.
func clampInto(r, ext Range) Range {
	span := r.Span()
	if span >= ext.Span() {
		return ext
	}
	if r.Min < ext.Min {
		r = Range{Min: ext.Min, Max: ext.Min + span}
	}
	if r.Max > ext.Max {
		r = Range{Min: ext.Max - span, Max: ext.Max}
	}
	return r
}
