package tschart

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wandb/tschart/internal/chartview"
	"github.com/wandb/tschart/internal/keymap"
)

// maxLegendToggles is the number of series reachable by alt+digit.
const maxLegendToggles = 9

// AppKeyBindings returns the application-level key bindings.
//
// Keys not bound here fall through to the chart's viewport bindings.
func AppKeyBindings() []keymap.BindingCategory[Model] {
	return []keymap.BindingCategory[Model]{
		{
			Name: "General",
			Bindings: []keymap.KeyBinding[Model]{
				{
					Keys:        []string{"h", "?"},
					Description: "Toggle this help screen",
					Handler:     (*Model).handleToggleHelp,
				},
				{
					Keys:        []string{"q", "ctrl+c"},
					Description: "Quit",
					Handler:     (*Model).handleQuit,
				},
				{
					Keys:        []string{"r"},
					Description: "Reload series files",
					Handler:     (*Model).handleReload,
				},
			},
		},
		{
			Name: "Tools",
			Bindings: []keymap.KeyBinding[Model]{
				{
					Keys:        []string{"t"},
					Description: "Cycle tool (none, crosshair, measure)",
					Handler:     (*Model).handleCycleTool,
				},
				{
					Keys:        []string{"esc"},
					Description: "Leave the active tool",
					Handler:     (*Model).handleClearTool,
				},
				{
					Keys:        []string{"i"},
					Description: "Toggle hover tooltip",
					Handler:     (*Model).handleToggleTooltip,
				},
			},
		},
		{
			Name: "Legend",
			Bindings: []keymap.KeyBinding[Model]{
				{
					Keys:        legendToggleKeys(),
					Description: "Show/hide series 1-9",
					Handler:     (*Model).handleToggleSeries,
				},
			},
		},
	}
}

func legendToggleKeys() []string {
	keys := make([]string, 0, maxLegendToggles)
	for i := 1; i <= maxLegendToggles; i++ {
		keys = append(keys, fmt.Sprintf("alt+%d", i))
	}
	return keys
}

func (m *Model) handleToggleHelp(msg tea.KeyMsg) tea.Cmd {
	m.help.Toggle()
	return nil
}

func (m *Model) handleQuit(msg tea.KeyMsg) tea.Cmd {
	m.logger.Debug("model: quit requested")
	return tea.Quit
}

func (m *Model) handleReload(msg tea.KeyMsg) tea.Cmd {
	return m.reload()
}

func (m *Model) handleCycleTool(msg tea.KeyMsg) tea.Cmd {
	tool := m.chart.CycleTool()
	m.setStatus("tool: "+tool.String(), false)
	return nil
}

func (m *Model) handleClearTool(msg tea.KeyMsg) tea.Cmd {
	if m.chart.Tool() != chartview.ToolNone {
		m.chart.SetTool(chartview.ToolNone)
		m.setStatus("tool: none", false)
	}
	return nil
}

func (m *Model) handleToggleTooltip(msg tea.KeyMsg) tea.Cmd {
	m.tooltip = !m.tooltip
	m.chart.SetTooltip(m.tooltip)
	if m.tooltip {
		m.setStatus("tooltip on", false)
	} else {
		m.setStatus("tooltip off", false)
	}
	return nil
}

func (m *Model) handleToggleSeries(msg tea.KeyMsg) tea.Cmd {
	digit, err := strconv.Atoi(strings.TrimPrefix(msg.String(), "alt+"))
	if err != nil || digit < 1 || digit > maxLegendToggles {
		return nil
	}

	set := m.chart.Series()
	i := digit - 1
	if !set.Toggle(i) {
		return nil
	}

	state := "shown"
	if set.At(i).Disabled {
		state = "hidden"
	}
	m.setStatus(fmt.Sprintf("%s %s", set.At(i).Name, state), false)
	return nil
}
