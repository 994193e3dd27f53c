package chartview

import (
	"math"
	"strconv"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"
)

// DefaultNonTradingDayColor shades non-trading days without their own color.
const DefaultNonTradingDayColor = "236"

// columnSpan returns the first and last graph columns touched by the data
// interval [from, to) in the last drawn view.
func (c *TimelineChart) columnSpan(from, to float64) (int, int, bool) {
	span := c.view.X.Span()
	gw := c.GraphWidth()
	if span <= 0 || gw <= 0 || to <= c.view.X.Min || from >= c.view.X.Max {
		return 0, 0, false
	}
	scale := float64(gw) / span
	first := int((max(from, c.view.X.Min) - c.view.X.Min) * scale)
	last := int(math.Ceil((min(to, c.view.X.Max)-c.view.X.Min)*scale)) - 1

	first = min(max(first, 0), gw-1)
	last = min(max(last, first), gw-1)
	return first, last, true
}

// drawNonTradingDays shades the columns of non-trading days behind the
// series.
func (c *TimelineChart) drawNonTradingDays(startX int) {
	gh := c.GraphHeight()
	for _, d := range c.set.NonTradingDays() {
		first, last, ok := c.columnSpan(d.Day, d.Day+day)
		if !ok {
			continue
		}
		color := d.Color
		if color == "" {
			color = DefaultNonTradingDayColor
		}
		shade := lipgloss.Color(color)

		for col := first; col <= last; col++ {
			for y := 0; y < gh; y++ {
				p := canvas.Point{X: startX + col, Y: y}
				cell := c.Canvas.Cell(p)
				if cell.Rune == 0 {
					c.Canvas.SetCell(p, canvas.NewCellWithStyle(' ', lipgloss.NewStyle().Background(shade)))
					continue
				}
				c.Canvas.SetCellStyle(p, cell.Style.Background(shade))
			}
		}
	}
}

// yearStarts returns the timestamps of every January 1st (UTC) strictly
// inside the last drawn view.
func (c *TimelineChart) yearStarts() []float64 {
	var starts []float64
	year := toTime(c.view.X.Min).Year() + 1
	for {
		ts := float64(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Unix())
		if ts >= c.view.X.Max {
			return starts
		}
		if ts > c.view.X.Min {
			starts = append(starts, ts)
		}
		year++
	}
}

// drawTimeGrid draws a dotted line at the start of each year, labelled
// with the year at the top of the graph.
//
// Lines fill only empty cells so the series stay visible. A label that
// would overlap the previous one is skipped.
func (c *TimelineChart) drawTimeGrid(startX int) {
	gw, gh := c.GraphWidth(), c.GraphHeight()
	labelExtentX := -1

	for _, ts := range c.yearStarts() {
		col, ok := c.column(ts)
		if !ok {
			continue
		}
		x := startX + col

		for y := 0; y < gh; y++ {
			p := canvas.Point{X: x, Y: y}
			cell := c.Canvas.Cell(p)
			if cell.Rune != 0 && cell.Rune != ' ' {
				continue
			}
			style := gridStyle
			if bg := cell.Style.GetBackground(); bg != (lipgloss.NoColor{}) {
				style = style.Background(bg)
			}
			c.Canvas.SetCell(p, canvas.NewCellWithStyle('┊', style))
		}

		label := strconv.Itoa(toTime(ts).Year())
		textX := x + 1
		if textX <= labelExtentX || textX+len(label) > startX+gw {
			continue
		}
		c.Canvas.SetStringWithStyle(canvas.Point{X: textX, Y: 0}, label, gridLabelStyle)
		labelExtentX = textX + len(label)
	}
}
