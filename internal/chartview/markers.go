package chartview

import (
	"sort"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"

	"github.com/wandb/tschart/internal/series"
)

// drawMarkers draws vertical marker lines with their labels along the
// bottom of the graph.
//
// A label that would overflow the right edge is drawn left of its line.
// Labels that would overlap the previous one are stacked a row higher.
func (c *TimelineChart) drawMarkers(startX int) {
	markers := append([]series.Marker(nil), c.set.Markers()...)
	sort.SliceStable(markers, func(i, j int) bool { return markers[i].X < markers[j].X })

	gw, gh := c.GraphWidth(), c.GraphHeight()
	right := startX + gw
	labelExtentX := 0
	stack := 0

	for i, m := range markers {
		col, ok := c.column(m.X)
		if !ok {
			continue
		}
		x := startX + col

		color := m.Color
		if color == "" {
			color = c.palette[i%len(c.palette)]
		}
		style := colorStyle(color)

		for y := 0; y < gh; y++ {
			c.Canvas.SetCell(canvas.Point{X: x, Y: y}, canvas.NewCellWithStyle('│', style))
		}
		if m.Value != nil {
			if row, ok := c.row(*m.Value); ok {
				c.Canvas.SetCell(canvas.Point{X: x, Y: row}, canvas.NewCellWithStyle('┼', style))
			}
		}

		if m.Label == "" {
			continue
		}
		width := lipgloss.Width(m.Label)
		textX := x + 1
		if textX+width > right {
			textX = max(x-width, startX)
		}
		if labelExtentX > textX {
			stack++
		} else {
			stack = 0
		}
		labelExtentX = x + 1 + width

		row := gh - 1 - stack
		if row < 0 {
			continue
		}
		c.Canvas.SetStringWithStyle(canvas.Point{X: textX, Y: row}, m.Label, markerLabelStyle)
	}
}
