package tschart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const maxLegendNameWidth = 24

// renderLegend lists the series with their toggle digit and color.
//
// Hidden series are struck through.
func (m *Model) renderLegend() string {
	set := m.chart.Series()
	if set.Len() == 0 {
		return ""
	}

	items := make([]string, 0, set.Len())
	for i, sr := range set.All() {
		var key string
		if i < maxLegendToggles {
			key = legendKeyStyle.Render(fmt.Sprintf("%d", i+1)) + " "
		}

		name := runewidth.Truncate(sr.Name, maxLegendNameWidth, "…")
		if sr.Disabled {
			items = append(items, key+legendDisabledStyle.Render("● "+name))
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.chart.SeriesColor(i)))
		items = append(items, key+style.Render("● "+name))
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(items, "  "))
}
