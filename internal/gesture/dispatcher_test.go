package gesture_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/tschart/internal/gesture"
	"github.com/wandb/tschart/internal/observabilitytest"
	"github.com/wandb/tschart/internal/viewport"
)

var _ gesture.Target = (*viewport.Controller)(nil)

// fakeTarget records operations. Pixels map 1:1 to data with no Y flip.
type fakeTarget struct {
	calls  []string
	onCall func()
}

func (f *fakeTarget) record(format string, args ...any) bool {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	if f.onCall != nil {
		f.onCall()
	}
	return true
}

func (f *fakeTarget) Pan(dx, dy float64) bool { return f.record("pan %g %g", dx, dy) }
func (f *fakeTarget) ZoomIn(a viewport.Axis) bool {
	return f.record("zoomin %v", a)
}
func (f *fakeTarget) ZoomOut(a viewport.Axis) bool {
	return f.record("zoomout %v", a)
}
func (f *fakeTarget) ZoomInAt(a viewport.Axis, p float64) bool {
	return f.record("zoomin %v %g", a, p)
}
func (f *fakeTarget) ZoomOutAt(a viewport.Axis, p float64) bool {
	return f.record("zoomout %v %g", a, p)
}
func (f *fakeTarget) Reset()                    { f.record("reset") }
func (f *fakeTarget) ResetAxis(a viewport.Axis) { f.record("reset %v", a) }
func (f *fakeTarget) PixelToData(px, py float64) (float64, float64) {
	return px, py
}
func (f *fakeTarget) Size() (int, int) { return 200, 50 }

func newDispatcher(t *testing.T, cfg gesture.Config) (*gesture.Dispatcher, *fakeTarget) {
	t.Helper()
	target := &fakeTarget{}
	d := gesture.NewDispatcher(target, cfg, observabilitytest.NewTestLogger(t))
	d.SetRect(gesture.Rect{X: 0, Y: 0, W: 200, H: 200})
	return d, target
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease}
}

func wheel(x, y int, button tea.MouseButton, shift bool) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: button, Action: tea.MouseActionPress, Shift: shift}
}

func TestDragAboveThresholdPansOnce(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())

	require.True(t, d.HandleMouse(press(100, 100)))
	require.True(t, d.HandleMouse(motion(105, 100)))
	require.True(t, d.HandleMouse(release(105, 100)))

	assert.Equal(t, []string{"pan -5 0"}, target.calls)
	assert.False(t, d.Pointer().Pressed)
}

func TestDragBelowThresholdAccumulates(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())

	d.HandleMouse(press(100, 100))
	d.HandleMouse(motion(101, 100))
	d.HandleMouse(motion(102, 101))
	assert.Empty(t, target.calls)

	d.HandleMouse(motion(103, 101))
	assert.Equal(t, []string{"pan -3 -1"}, target.calls)

	// The anchor moved to the pointer.
	assert.Equal(t, gesture.PointerState{Pressed: true, AnchorX: 103, AnchorY: 101}, d.Pointer())
	d.HandleMouse(motion(104, 101))
	assert.Len(t, target.calls, 1)
}

func TestDragVerticalFollowsPointer(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())

	d.HandleMouse(press(50, 50))
	d.HandleMouse(motion(50, 40))

	assert.Equal(t, []string{"pan 0 10"}, target.calls)
}

func TestMotionWithoutPressIsIgnored(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())

	assert.False(t, d.HandleMouse(motion(150, 100)))
	assert.Empty(t, target.calls)
}

func TestLeavingPlotEndsDrag(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())
	d.SetRect(gesture.Rect{X: 10, Y: 10, W: 50, H: 20})

	d.HandleMouse(press(20, 20))
	require.True(t, d.Pointer().Pressed)

	d.HandleMouse(motion(100, 20))
	assert.False(t, d.Pointer().Pressed)
	assert.Empty(t, target.calls)

	// Coming back without a new press does nothing.
	d.HandleMouse(motion(30, 20))
	assert.Empty(t, target.calls)
}

func TestNewPressResetsAnchor(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())

	d.HandleMouse(press(10, 10))
	d.HandleMouse(motion(12, 10))
	d.HandleMouse(press(50, 50))
	d.HandleMouse(motion(52, 50))

	assert.Empty(t, target.calls)
	assert.Equal(t, 50, d.Pointer().AnchorX)
}

func TestPressOutsidePlotIsNotConsumed(t *testing.T) {
	d, _ := newDispatcher(t, gesture.DefaultConfig())
	d.SetRect(gesture.Rect{X: 10, Y: 10, W: 50, H: 20})

	assert.False(t, d.HandleMouse(press(5, 5)))
	assert.False(t, d.Pointer().Pressed)
}

func TestWheelMapping(t *testing.T) {
	tests := []struct {
		name   string
		config func(*gesture.Config)
		button tea.MouseButton
		shift  bool
		want   string
	}{
		{"up zooms in on y", nil, tea.MouseButtonWheelUp, false, "zoomin y 20.5"},
		{"down zooms out on y", nil, tea.MouseButtonWheelDown, false, "zoomout y 20.5"},
		{"right zooms in on x", nil, tea.MouseButtonWheelRight, false, "zoomin x 10.5"},
		{"left zooms out on x", nil, tea.MouseButtonWheelLeft, false, "zoomout x 10.5"},
		{"shift swaps axes", nil, tea.MouseButtonWheelUp, true, "zoomin x 10.5"},
		{
			"inverted",
			func(c *gesture.Config) { c.InvertWheel = true },
			tea.MouseButtonWheelUp, false, "zoomout y 20.5",
		},
		{
			"vertical wheel on x",
			func(c *gesture.Config) { c.VerticalAxis = viewport.AxisX },
			tea.MouseButtonWheelDown, false, "zoomout x 10.5",
		},
		{
			"vertical wheel on x with shift",
			func(c *gesture.Config) { c.VerticalAxis = viewport.AxisX },
			tea.MouseButtonWheelDown, true, "zoomout y 20.5",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := gesture.DefaultConfig()
			if tc.config != nil {
				tc.config(&cfg)
			}
			d, target := newDispatcher(t, cfg)

			require.True(t, d.HandleMouse(wheel(10, 20, tc.button, tc.shift)))
			assert.Equal(t, []string{tc.want}, target.calls)
		})
	}
}

func TestWheelOutsidePlotIsIgnored(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())
	d.SetRect(gesture.Rect{X: 10, Y: 10, W: 50, H: 20})

	assert.False(t, d.HandleMouse(wheel(0, 0, tea.MouseButtonWheelUp, false)))
	assert.Empty(t, target.calls)
}

func TestKeys(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, "pan -20 0"},
		{tea.KeyMsg{Type: tea.KeyRight}, "pan 20 0"},
		{tea.KeyMsg{Type: tea.KeyUp}, "pan 0 -5"},
		{tea.KeyMsg{Type: tea.KeyDown}, "pan 0 5"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}}, "pan -20 0"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'6'}}, "pan 20 0"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'8'}}, "pan 0 -5"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}}, "pan 0 5"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}}, "zoomin x"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'='}}, "zoomin x"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}}, "zoomout x"},
		{tea.KeyMsg{Type: tea.KeyShiftUp}, "zoomin y"},
		{tea.KeyMsg{Type: tea.KeyShiftDown}, "zoomout y"},
		{tea.KeyMsg{Type: tea.KeyCtrlUp}, "zoomin x|zoomin y"},
		{tea.KeyMsg{Type: tea.KeyCtrlDown}, "zoomout x|zoomout y"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}}, "reset"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, "reset x"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, "reset y"},
	}

	for _, tc := range tests {
		t.Run(tc.key.String(), func(t *testing.T) {
			d, target := newDispatcher(t, gesture.DefaultConfig())

			require.True(t, d.HandleKey(tc.key))
			assert.Equal(t, strings.Split(tc.want, "|"), target.calls)
		})
	}
}

func TestUnboundKeyIsNotConsumed(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())

	assert.False(t, d.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}))
	assert.Empty(t, target.calls)
}

func TestReentrantKeyIsIgnored(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())
	target.onCall = func() {
		// A redraw that feeds another key event back in.
		assert.True(t, d.HandleKey(tea.KeyMsg{Type: tea.KeyRight}))
	}

	require.True(t, d.HandleKey(tea.KeyMsg{Type: tea.KeyLeft}))

	assert.Equal(t, []string{"pan -20 0"}, target.calls)
}

func TestReentrantWheelIsIgnored(t *testing.T) {
	d, target := newDispatcher(t, gesture.DefaultConfig())
	target.onCall = func() {
		d.HandleMouse(wheel(10, 20, tea.MouseButtonWheelDown, false))
	}

	d.HandleMouse(wheel(10, 20, tea.MouseButtonWheelUp, false))

	assert.Equal(t, []string{"zoomin y 20.5"}, target.calls)
}

func TestDragDrivesController(t *testing.T) {
	c := viewport.New(viewport.Params{MinSpanX: viewport.AbsoluteMinSpan(1)})
	c.SetSize(100, 10)
	c.SetExtent(viewport.Bounds{
		X: viewport.Range{Min: 0, Max: 100},
		Y: viewport.Range{Min: 0, Max: 10},
	})
	c.ZoomInAt(viewport.AxisX, 50)
	d := gesture.NewDispatcher(c, gesture.DefaultConfig(), nil)
	d.SetRect(gesture.Rect{W: 100, H: 10})

	// Dragging left by 3 cells reveals later data.
	d.HandleMouse(press(50, 5))
	d.HandleMouse(motion(47, 5))

	r := c.VisibleRange(viewport.AxisX)
	assert.InDelta(t, 3.75+3*0.925, r.Min, 1e-9)
}

// fakeClock advances only when told to.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClockedDispatcher(t *testing.T) (*gesture.Dispatcher, *fakeTarget, *fakeClock) {
	t.Helper()
	d, target := newDispatcher(t, gesture.DefaultConfig())
	clock := &fakeClock{now: time.Unix(0, 0)}
	d.SetClock(clock.Now)
	return d, target, clock
}

func rightPress(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonRight, Action: tea.MouseActionPress}
}

func TestDoubleClickZoomsInOnBothAxes(t *testing.T) {
	d, target, clock := newClockedDispatcher(t)

	d.HandleMouse(press(30, 40))
	d.HandleMouse(release(30, 40))
	clock.Advance(100 * time.Millisecond)
	require.True(t, d.HandleMouse(press(30, 40)))

	assert.Equal(t, []string{"zoomin x 30.5", "zoomin y 40.5"}, target.calls)
	assert.False(t, d.Pointer().Pressed)
}

func TestRightDoubleClickZoomsOut(t *testing.T) {
	d, target, clock := newClockedDispatcher(t)

	assert.False(t, d.HandleMouse(rightPress(30, 40)))
	clock.Advance(100 * time.Millisecond)
	require.True(t, d.HandleMouse(rightPress(31, 40)))

	assert.Equal(t, []string{"zoomout x 31.5", "zoomout y 40.5"}, target.calls)
}

func TestSlowOrDistantClicksDoNotZoom(t *testing.T) {
	t.Run("too slow", func(t *testing.T) {
		d, target, clock := newClockedDispatcher(t)

		d.HandleMouse(press(30, 40))
		d.HandleMouse(release(30, 40))
		clock.Advance(gesture.DefaultDoubleClickInterval + time.Millisecond)
		d.HandleMouse(press(30, 40))

		assert.Empty(t, target.calls)
		assert.True(t, d.Pointer().Pressed)
	})

	t.Run("too far", func(t *testing.T) {
		d, target, _ := newClockedDispatcher(t)

		d.HandleMouse(press(30, 40))
		d.HandleMouse(release(30, 40))
		d.HandleMouse(press(35, 40))

		assert.Empty(t, target.calls)
	})

	t.Run("different buttons", func(t *testing.T) {
		d, target, _ := newClockedDispatcher(t)

		d.HandleMouse(press(30, 40))
		d.HandleMouse(release(30, 40))
		d.HandleMouse(rightPress(30, 40))

		assert.Empty(t, target.calls)
	})
}

func TestTripleClickZoomsOnce(t *testing.T) {
	d, target, _ := newClockedDispatcher(t)

	for range 3 {
		d.HandleMouse(press(30, 40))
		d.HandleMouse(release(30, 40))
	}

	assert.Equal(t, []string{"zoomin x 30.5", "zoomin y 40.5"}, target.calls)
}

func TestDoubleClickDrivesController(t *testing.T) {
	c := viewport.New(viewport.Params{MinSpanX: viewport.AbsoluteMinSpan(1)})
	c.SetSize(100, 10)
	c.SetExtent(viewport.Bounds{
		X: viewport.Range{Min: 0, Max: 100},
		Y: viewport.Range{Min: 0, Max: 10},
	})
	d := gesture.NewDispatcher(c, gesture.DefaultConfig(), nil)
	d.SetRect(gesture.Rect{W: 100, H: 10})
	clock := &fakeClock{now: time.Unix(0, 0)}
	d.SetClock(clock.Now)

	d.HandleMouse(press(49, 4))
	d.HandleMouse(release(49, 4))
	d.HandleMouse(press(49, 4))

	assert.True(t, c.IsPinned(viewport.AxisX))
	assert.True(t, c.IsPinned(viewport.AxisY))
	assert.Less(t, c.VisibleRange(viewport.AxisX).Span(), 100.0)
	assert.Less(t, c.VisibleRange(viewport.AxisY).Span(), 10.0)
}
