// Package gesture turns terminal mouse and keyboard events into viewport
// operations.
package gesture

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wandb/tschart/internal/keymap"
	"github.com/wandb/tschart/internal/observability"
	"github.com/wandb/tschart/internal/viewport"
)

// Target is the set of viewport operations gestures drive.
//
// It is satisfied by *viewport.Controller.
type Target interface {
	Pan(dxPx, dyPx float64) bool
	ZoomIn(a viewport.Axis) bool
	ZoomOut(a viewport.Axis) bool
	ZoomInAt(a viewport.Axis, pivot float64) bool
	ZoomOutAt(a viewport.Axis, pivot float64) bool
	Reset()
	ResetAxis(a viewport.Axis)
	PixelToData(px, py float64) (x, y float64)
	Size() (width, height int)
}

// PointerState tracks a primary-button drag.
//
// The anchor is in plot-local cells and moves to the pointer each time a
// pan is issued.
type PointerState struct {
	Pressed          bool
	AnchorX, AnchorY int
}

// click is the last button press, for double-click detection.
type click struct {
	button tea.MouseButton
	x, y   int
	at     time.Time
	ok     bool
}

type gestureKind int

const (
	gestureMouse gestureKind = iota
	gestureWheel
	gestureKey
	numGestures
)

func (g gestureKind) String() string {
	return [...]string{"mouse", "wheel", "key"}[g]
}

// Dispatcher maps input events onto a Target.
type Dispatcher struct {
	target Target
	config Config
	logger *observability.CoreLogger

	rect      Rect
	pointer   PointerState
	lastClick click
	now       func() time.Time

	keyMap keymap.Map[Dispatcher]

	inProgress [numGestures]bool
}

func NewDispatcher(
	target Target,
	config Config,
	logger *observability.CoreLogger,
) *Dispatcher {
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	return &Dispatcher{
		target: target,
		config: config.normalized(),
		logger: logger,
		keyMap: keymap.Build(KeyBindings()),
		now:    time.Now,
	}
}

// SetClock replaces the time source used for double-click detection.
func (d *Dispatcher) SetClock(now func() time.Time) { d.now = now }

// SetRect sets the plot area in screen cells.
func (d *Dispatcher) SetRect(r Rect) { d.rect = r }

func (d *Dispatcher) Rect() Rect { return d.rect }

func (d *Dispatcher) Config() Config { return d.config }

func (d *Dispatcher) SetConfig(c Config) { d.config = c.normalized() }

// Pointer returns the current drag state.
func (d *Dispatcher) Pointer() PointerState { return d.pointer }

// CancelDrag ends any drag in progress.
func (d *Dispatcher) CancelDrag() { d.pointer = PointerState{} }

// HandleMouse applies a mouse event and reports whether it was consumed.
func (d *Dispatcher) HandleMouse(msg tea.MouseMsg) bool {
	ev := tea.MouseEvent(msg)
	if ev.IsWheel() {
		return d.handleWheel(ev)
	}

	switch ev.Action {
	case tea.MouseActionPress:
		if !d.rect.Contains(ev.X, ev.Y) {
			return false
		}
		if d.isDoubleClick(ev) {
			return d.handleDoubleClick(ev)
		}
		if ev.Button != tea.MouseButtonLeft {
			return false
		}
		lx, ly := d.rect.Local(ev.X, ev.Y)
		d.pointer = PointerState{Pressed: true, AnchorX: lx, AnchorY: ly}
		return true
	case tea.MouseActionMotion:
		if !d.pointer.Pressed {
			return false
		}
		return d.handleDrag(ev)
	case tea.MouseActionRelease:
		if !d.pointer.Pressed {
			return false
		}
		d.CancelDrag()
		return true
	}
	return false
}

// handleDrag issues a single pan once the pointer has moved past the
// threshold, so that content follows the pointer.
func (d *Dispatcher) handleDrag(ev tea.MouseEvent) bool {
	if !d.enter(gestureMouse) {
		return true
	}
	defer d.leave(gestureMouse)

	if !d.rect.Contains(ev.X, ev.Y) {
		d.logger.Debug("gesture: pointer left plot, ending drag")
		d.CancelDrag()
		return true
	}

	lx, ly := d.rect.Local(ev.X, ev.Y)
	dx, dy := lx-d.pointer.AnchorX, ly-d.pointer.AnchorY
	if abs(dx) <= d.config.DragThreshold && abs(dy) <= d.config.DragThreshold {
		return true
	}

	d.target.Pan(float64(-dx), float64(-dy))
	d.pointer.AnchorX, d.pointer.AnchorY = lx, ly
	return true
}

// isDoubleClick records a press and reports whether it completes a double
// click.
func (d *Dispatcher) isDoubleClick(ev tea.MouseEvent) bool {
	switch ev.Button {
	case tea.MouseButtonLeft, tea.MouseButtonMiddle, tea.MouseButtonRight:
	default:
		return false
	}

	now := d.now()
	prev := d.lastClick
	d.lastClick = click{button: ev.Button, x: ev.X, y: ev.Y, at: now, ok: true}

	if !prev.ok ||
		prev.button != ev.Button ||
		abs(prev.x-ev.X) > 1 ||
		abs(prev.y-ev.Y) > 1 ||
		now.Sub(prev.at) > d.config.DoubleClickInterval {
		return false
	}
	d.lastClick = click{}
	return true
}

// handleDoubleClick zooms both axes around the pointer: in for the primary
// button, out for any other.
func (d *Dispatcher) handleDoubleClick(ev tea.MouseEvent) bool {
	d.CancelDrag()
	if !d.enter(gestureMouse) {
		return true
	}
	defer d.leave(gestureMouse)

	lx, ly := d.rect.Local(ev.X, ev.Y)
	x, y := d.target.PixelToData(float64(lx)+0.5, float64(ly)+0.5)

	if ev.Button == tea.MouseButtonLeft {
		d.target.ZoomInAt(viewport.AxisX, x)
		d.target.ZoomInAt(viewport.AxisY, y)
	} else {
		d.target.ZoomOutAt(viewport.AxisX, x)
		d.target.ZoomOutAt(viewport.AxisY, y)
	}
	return true
}

func (d *Dispatcher) handleWheel(ev tea.MouseEvent) bool {
	if !d.rect.Contains(ev.X, ev.Y) {
		return false
	}
	if !d.enter(gestureWheel) {
		return true
	}
	defer d.leave(gestureWheel)

	axis, in := d.wheelAction(ev)

	lx, ly := d.rect.Local(ev.X, ev.Y)
	x, y := d.target.PixelToData(float64(lx)+0.5, float64(ly)+0.5)
	pivot := x
	if axis == viewport.AxisY {
		pivot = y
	}

	if in {
		d.target.ZoomInAt(axis, pivot)
	} else {
		d.target.ZoomOutAt(axis, pivot)
	}
	return true
}

// wheelAction returns the axis a wheel event zooms and whether it zooms in.
func (d *Dispatcher) wheelAction(ev tea.MouseEvent) (viewport.Axis, bool) {
	vertical := ev.Button == tea.MouseButtonWheelUp ||
		ev.Button == tea.MouseButtonWheelDown

	axis := d.config.VerticalAxis
	if !vertical {
		axis = axis.Other()
	}
	if ev.Shift {
		axis = axis.Other()
	}

	in := ev.Button == tea.MouseButtonWheelUp ||
		ev.Button == tea.MouseButtonWheelRight
	if d.config.InvertWheel {
		in = !in
	}
	return axis, in
}

// HandleKey applies a key press and reports whether it was bound.
func (d *Dispatcher) HandleKey(msg tea.KeyMsg) bool {
	handler, ok := d.keyMap.Lookup(msg)
	if !ok {
		return false
	}
	if !d.enter(gestureKey) {
		return true
	}
	defer d.leave(gestureKey)

	handler(d, msg)
	return true
}

// panStep pans by PanStepRatio of the plot size in the given screen
// direction.
func (d *Dispatcher) panStep(sx, sy float64) {
	w, h := d.target.Size()
	d.target.Pan(
		sx*d.config.PanStepRatio*float64(w),
		sy*d.config.PanStepRatio*float64(h),
	)
}

func (d *Dispatcher) enter(g gestureKind) bool {
	if d.inProgress[g] {
		d.logger.Debug(fmt.Sprintf("gesture: ignoring re-entrant %v event", g))
		return false
	}
	d.inProgress[g] = true
	return true
}

func (d *Dispatcher) leave(g gestureKind) {
	d.inProgress[g] = false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
