package gesture

import (
	"time"

	"github.com/wandb/tschart/internal/viewport"
)

const (
	DefaultDragThreshold       = 2
	DefaultPanStepRatio        = 0.1
	DefaultDoubleClickInterval = 400 * time.Millisecond
)

// Config controls how pointer and keyboard input map to viewport operations.
//
// Drags grab the content: dragging right by n cells pans by -n, so the
// content follows the pointer. Arrow keys move the window itself, so the
// right arrow pans by a positive amount.
type Config struct {
	// DragThreshold is the motion, in cells, a drag must exceed on either
	// axis before a pan is issued.
	DragThreshold int

	// DoubleClickInterval is the longest time between two presses of the
	// same button on the same cell that still counts as a double click.
	DoubleClickInterval time.Duration

	// InvertWheel makes wheel-up and wheel-right zoom out instead of in.
	InvertWheel bool

	// VerticalAxis is the axis zoomed by the vertical wheel. The
	// horizontal wheel zooms the other one; shift swaps them.
	VerticalAxis viewport.Axis

	// PanStepRatio is the fraction of the plot size moved by one key press.
	PanStepRatio float64
}

func DefaultConfig() Config {
	return Config{
		DragThreshold:       DefaultDragThreshold,
		DoubleClickInterval: DefaultDoubleClickInterval,
		VerticalAxis:        viewport.AxisY,
		PanStepRatio:        DefaultPanStepRatio,
	}
}

func (c Config) normalized() Config {
	if c.DragThreshold < 0 {
		c.DragThreshold = DefaultDragThreshold
	}
	if c.DoubleClickInterval <= 0 {
		c.DoubleClickInterval = DefaultDoubleClickInterval
	}
	if !(c.PanStepRatio > 0 && c.PanStepRatio <= 1) {
		c.PanStepRatio = DefaultPanStepRatio
	}
	if c.VerticalAxis != viewport.AxisX {
		c.VerticalAxis = viewport.AxisY
	}
	return c
}
