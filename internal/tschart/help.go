package tschart

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wandb/tschart/internal/gesture"
	"github.com/wandb/tschart/internal/keymap"
	"github.com/wandb/tschart/internal/version"
)

// HelpModel is the scrollable key binding reference.
type HelpModel struct {
	viewport viewport.Model
	active   bool
	width    int
	height   int
}

func NewHelp() *HelpModel {
	return &HelpModel{viewport: viewport.New(80, 20)}
}

// helpCategories lists app bindings first, then the chart bindings.
func helpCategories() []keymap.HelpCategory {
	categories := keymap.Help(AppKeyBindings())
	categories = append(categories, keymap.Help(gesture.KeyBindings())...)
	return categories
}

func (h *HelpModel) generateHelpContent() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tschart"))
	b.WriteString(" ")
	b.WriteString(helpDescStyle.Render(version.Version))
	b.WriteString("\n")

	for _, category := range helpCategories() {
		b.WriteString(helpSectionStyle.Render(category.Name))
		b.WriteString("\n")
		for _, entry := range category.Entries {
			key := helpKeyStyle.Render(compactKeys(entry.Keys))
			desc := helpDescStyle.Render(entry.Description)
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// compactKeys joins keys, folding the alt+digit run into one range.
func compactKeys(keys []string) string {
	if len(keys) == maxLegendToggles && keys[0] == "alt+1" {
		return "alt+1 … alt+9"
	}
	return strings.Join(keys, ", ")
}

// SetSize updates the size of the help screen.
func (h *HelpModel) SetSize(width, height int) {
	h.width = width
	h.height = max(height-StatusBarHeight, 1)
	h.viewport.Width = width
	h.viewport.Height = h.height

	if h.active {
		h.viewport.SetContent(h.generateHelpContent())
	}
}

// Toggle toggles the help screen visibility.
func (h *HelpModel) Toggle() {
	h.active = !h.active
	if h.active {
		h.viewport.GotoTop()
		h.viewport.SetContent(h.generateHelpContent())
	}
}

// IsActive returns whether the help screen is active.
func (h *HelpModel) IsActive() bool {
	return h.active
}

// Update handles messages while the help screen is shown.
func (h *HelpModel) Update(msg tea.Msg) (*HelpModel, tea.Cmd) {
	if !h.active {
		return h, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "h", "?", "esc":
			h.Toggle()
			return h, nil
		case "q", "ctrl+c":
			return h, tea.Quit
		default:
			h.viewport, cmd = h.viewport.Update(msg)
		}
	case tea.MouseMsg:
		h.viewport, cmd = h.viewport.Update(msg)
	}

	return h, cmd
}

// View renders the help screen.
func (h *HelpModel) View() string {
	if !h.active {
		return ""
	}

	content := helpContentStyle.Render(h.viewport.View())

	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Left,
		lipgloss.Top,
		content,
	)
}
