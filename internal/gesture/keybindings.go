package gesture

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wandb/tschart/internal/keymap"
	"github.com/wandb/tschart/internal/viewport"
)

// KeyBindings returns the viewport key bindings.
func KeyBindings() []keymap.BindingCategory[Dispatcher] {
	return []keymap.BindingCategory[Dispatcher]{
		{
			Name: "Pan",
			Bindings: []keymap.KeyBinding[Dispatcher]{
				{
					Keys:        []string{"left", "4"},
					Description: "Pan left",
					Handler:     (*Dispatcher).handlePanLeft,
				},
				{
					Keys:        []string{"right", "6"},
					Description: "Pan right",
					Handler:     (*Dispatcher).handlePanRight,
				},
				{
					Keys:        []string{"up", "8"},
					Description: "Pan up",
					Handler:     (*Dispatcher).handlePanUp,
				},
				{
					Keys:        []string{"down", "2"},
					Description: "Pan down",
					Handler:     (*Dispatcher).handlePanDown,
				},
			},
		},
		{
			Name: "Zoom",
			Bindings: []keymap.KeyBinding[Dispatcher]{
				{
					Keys:        []string{"+", "="},
					Description: "Zoom in on time axis",
					Handler:     (*Dispatcher).handleZoomInX,
				},
				{
					Keys:        []string{"-"},
					Description: "Zoom out on time axis",
					Handler:     (*Dispatcher).handleZoomOutX,
				},
				{
					Keys:        []string{"shift+up"},
					Description: "Zoom in on value axis",
					Handler:     (*Dispatcher).handleZoomInY,
				},
				{
					Keys:        []string{"shift+down"},
					Description: "Zoom out on value axis",
					Handler:     (*Dispatcher).handleZoomOutY,
				},
				{
					Keys:        []string{"ctrl+up"},
					Description: "Zoom in on both axes",
					Handler:     (*Dispatcher).handleZoomInBoth,
				},
				{
					Keys:        []string{"ctrl+down"},
					Description: "Zoom out on both axes",
					Handler:     (*Dispatcher).handleZoomOutBoth,
				},
				{
					Keys:        []string{"0"},
					Description: "Reset zoom and pan",
					Handler:     (*Dispatcher).handleReset,
				},
				{
					Keys:        []string{"x"},
					Description: "Reset time axis",
					Handler:     (*Dispatcher).handleResetX,
				},
				{
					Keys:        []string{"y"},
					Description: "Reset value axis",
					Handler:     (*Dispatcher).handleResetY,
				},
			},
		},
		{
			Name: "Mouse",
			Bindings: []keymap.KeyBinding[Dispatcher]{
				{
					Keys:        []string{"drag"},
					Description: "Pan the chart",
				},
				{
					Keys:        []string{"wheel"},
					Description: "Zoom around the pointer",
				},
				{
					Keys:        []string{"shift+wheel"},
					Description: "Zoom the other axis",
				},
				{
					Keys:        []string{"double-click"},
					Description: "Zoom in around the pointer (right button zooms out)",
				},
			},
		},
	}
}

func (d *Dispatcher) handlePanLeft(tea.KeyMsg) tea.Cmd {
	d.panStep(-1, 0)
	return nil
}

func (d *Dispatcher) handlePanRight(tea.KeyMsg) tea.Cmd {
	d.panStep(1, 0)
	return nil
}

func (d *Dispatcher) handlePanUp(tea.KeyMsg) tea.Cmd {
	d.panStep(0, -1)
	return nil
}

func (d *Dispatcher) handlePanDown(tea.KeyMsg) tea.Cmd {
	d.panStep(0, 1)
	return nil
}

func (d *Dispatcher) handleZoomInX(tea.KeyMsg) tea.Cmd {
	d.target.ZoomIn(viewport.AxisX)
	return nil
}

func (d *Dispatcher) handleZoomOutX(tea.KeyMsg) tea.Cmd {
	d.target.ZoomOut(viewport.AxisX)
	return nil
}

func (d *Dispatcher) handleZoomInY(tea.KeyMsg) tea.Cmd {
	d.target.ZoomIn(viewport.AxisY)
	return nil
}

func (d *Dispatcher) handleZoomOutY(tea.KeyMsg) tea.Cmd {
	d.target.ZoomOut(viewport.AxisY)
	return nil
}

func (d *Dispatcher) handleZoomInBoth(tea.KeyMsg) tea.Cmd {
	d.target.ZoomIn(viewport.AxisX)
	d.target.ZoomIn(viewport.AxisY)
	return nil
}

func (d *Dispatcher) handleZoomOutBoth(tea.KeyMsg) tea.Cmd {
	d.target.ZoomOut(viewport.AxisX)
	d.target.ZoomOut(viewport.AxisY)
	return nil
}

func (d *Dispatcher) handleReset(tea.KeyMsg) tea.Cmd {
	d.target.Reset()
	return nil
}

func (d *Dispatcher) handleResetX(tea.KeyMsg) tea.Cmd {
	d.target.ResetAxis(viewport.AxisX)
	return nil
}

func (d *Dispatcher) handleResetY(tea.KeyMsg) tea.Cmd {
	d.target.ResetAxis(viewport.AxisY)
	return nil
}
