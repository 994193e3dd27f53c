package chartview

import (
	"fmt"
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wandb/tschart/internal/gesture"
	"github.com/wandb/tschart/internal/series"
)

// Tool is an interactive chart tool that takes over the primary button.
type Tool int

const (
	ToolNone Tool = iota
	ToolCrosshair
	ToolMeasure
	numTools
)

func (t Tool) String() string {
	switch t {
	case ToolCrosshair:
		return "crosshair"
	case ToolMeasure:
		return "measure"
	default:
		return "none"
	}
}

// Spot is a position in data coordinates.
type Spot struct {
	X, Y float64
}

type toolState struct {
	crosshair *Spot

	measureStart, measureEnd *Spot
	measuring                bool
}

// Tool returns the active tool.
func (c *TimelineChart) Tool() Tool { return c.tool }

// SetTool activates a tool and clears the state of the previous one.
func (c *TimelineChart) SetTool(t Tool) {
	if t < 0 || t >= numTools {
		t = ToolNone
	}
	c.tool = t
	c.tools = toolState{}
	c.hover = hoverState{}
	c.gestures.CancelDrag()
	c.Draw()
}

// CycleTool activates the next tool.
func (c *TimelineChart) CycleTool() Tool {
	c.SetTool((c.tool + 1) % numTools)
	return c.tool
}

// handleToolMouse routes primary-button events to the active tool.
func (c *TimelineChart) handleToolMouse(ev tea.MouseEvent, rect gesture.Rect) bool {
	inside := rect.Contains(ev.X, ev.Y)
	lx, ly := rect.Local(ev.X, ev.Y)

	switch c.tool {
	case ToolCrosshair:
		if ev.Action != tea.MouseActionPress || ev.Button != tea.MouseButtonLeft || !inside {
			return false
		}
		spot := c.dataAt(lx, ly)
		c.tools.crosshair = &spot
		c.Draw()
		return true

	case ToolMeasure:
		switch {
		case ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft && inside:
			spot := c.dataAt(lx, ly)
			c.tools.measureStart, c.tools.measureEnd = &spot, &spot
			c.tools.measuring = true
		case ev.Action == tea.MouseActionMotion && c.tools.measuring:
			if inside {
				spot := c.dataAt(lx, ly)
				c.tools.measureEnd = &spot
			}
		case ev.Action == tea.MouseActionRelease && c.tools.measuring:
			if inside {
				spot := c.dataAt(lx, ly)
				c.tools.measureEnd = &spot
			}
			c.tools.measuring = false
		default:
			return false
		}
		c.Draw()
		return true
	}
	return false
}

// ToolText returns the readout of the active tool, or "".
func (c *TimelineChart) ToolText() string {
	switch c.tool {
	case ToolCrosshair:
		if s := c.tools.crosshair; s != nil {
			return fmt.Sprintf("%s | %s", FormatDate(s.X), FormatValue(s.Y))
		}
	case ToolMeasure:
		if c.tools.measureStart != nil && c.tools.measureEnd != nil {
			return measureText(*c.tools.measureStart, *c.tools.measureEnd)
		}
	}
	return ""
}

// measureText renders the distance between two spots as
// "days | value change | relative change".
func measureText(start, end Spot) string {
	days := int(math.Round((end.X - start.X) / day))
	text := fmt.Sprintf("%dd | %s", days, formatDelta(end.Y-start.Y))
	if start.Y != 0 {
		text += " | " + formatChange(end.Y/start.Y-1)
	}
	return text
}

func (c *TimelineChart) drawTools(startX int) {
	switch c.tool {
	case ToolCrosshair:
		if s := c.tools.crosshair; s != nil {
			c.drawCrosshair(startX, *s)
		}
	case ToolMeasure:
		if c.tools.measureStart != nil && c.tools.measureEnd != nil {
			c.drawMeasure(startX, *c.tools.measureStart, *c.tools.measureEnd)
		}
	}
}

func (c *TimelineChart) drawCrosshair(startX int, s Spot) {
	col, colOK := c.column(s.X)
	row, rowOK := c.row(s.Y)
	gw, gh := c.GraphWidth(), c.GraphHeight()

	if rowOK {
		for x := 0; x < gw; x++ {
			c.Canvas.SetCell(canvas.Point{X: startX + x, Y: row}, canvas.NewCellWithStyle('─', toolStyle))
		}
	}
	if colOK {
		for y := 0; y < gh; y++ {
			c.Canvas.SetCell(canvas.Point{X: startX + col, Y: y}, canvas.NewCellWithStyle('│', toolStyle))
		}
	}
	if rowOK && colOK {
		c.Canvas.SetCell(canvas.Point{X: startX + col, Y: row}, canvas.NewCellWithStyle('┼', toolStyle))
	}
}

func (c *TimelineChart) drawMeasure(startX int, start, end Spot) {
	plot := newPlot(c.GraphWidth(), c.GraphHeight(), c.view)
	a, b, ok := clip(
		plot.Project(series.Point{X: start.X, Y: start.Y}),
		plot.Project(series.Point{X: end.X, Y: end.Y}),
		float64(plot.Width), float64(plot.Height), true,
	)
	if ok {
		drawLine(plot.Grid.GridPoint(a), plot.Grid.GridPoint(b), plot.set)
		graph.DrawBraillePatterns(&c.Canvas,
			canvas.Point{X: startX, Y: 0},
			plot.Grid.BraillePatterns(),
			toolStyle)
	}

	for _, s := range []Spot{start, end} {
		col, colOK := c.column(s.X)
		row, rowOK := c.row(s.Y)
		if colOK && rowOK {
			c.Canvas.SetCell(canvas.Point{X: startX + col, Y: row}, canvas.NewCellWithStyle('●', toolStyle))
		}
	}
}
