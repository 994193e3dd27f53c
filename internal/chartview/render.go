package chartview

import (
	"sort"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"

	"github.com/wandb/tschart/internal/series"
	"github.com/wandb/tschart/internal/viewport"
)

// Plot is the drawing surface handed to renderers: a braille grid covering
// the graph area and the data range it shows.
type Plot struct {
	Grid *graph.BrailleGrid

	// Width and Height are the graph area size in cells.
	Width, Height int

	View viewport.Bounds
}

func newPlot(width, height int, view viewport.Bounds) *Plot {
	return &Plot{
		Grid: graph.NewBrailleGrid(
			width,
			height,
			0, float64(width),
			0, float64(height),
		),
		Width:  width,
		Height: height,
		View:   view,
	}
}

// Project maps a data point onto graph coordinates, where (0, 0) is the
// bottom-left corner and (Width, Height) the top-right one.
func (p *Plot) Project(pt series.Point) canvas.Float64Point {
	var r canvas.Float64Point
	if span := p.View.X.Span(); span > 0 {
		r.X = (pt.X - p.View.X.Min) / span * float64(p.Width)
	}
	if span := p.View.Y.Span(); span > 0 {
		r.Y = (pt.Y - p.View.Y.Min) / span * float64(p.Height)
	}
	return r
}

// set sets one braille dot, ignoring dots outside the grid.
func (p *Plot) set(pt canvas.Point) {
	if pt.X < 0 || pt.Y < 0 || pt.X >= p.Width*2 || pt.Y >= p.Height*4 {
		return
	}
	p.Grid.Set(pt)
}

// bottom is the lowest dot row of the grid.
func (p *Plot) bottom() int {
	return p.Height*4 - 1
}

// visible returns the points within the X view plus one neighbor on each
// side, so lines continue to the plot edges.
func (p *Plot) visible(points []series.Point) []series.Point {
	lb := sort.Search(len(points), func(i int) bool { return points[i].X >= p.View.X.Min })
	ub := sort.Search(len(points), func(i int) bool { return points[i].X > p.View.X.Max })
	if lb > 0 {
		lb--
	}
	if ub < len(points) {
		ub++
	}
	return points[lb:ub]
}

// Renderer draws one series onto a plot.
type Renderer interface {
	Render(p *Plot, points []series.Point)
}

// RendererFor returns the renderer for a series kind.
func RendererFor(kind series.Kind) Renderer {
	if kind == series.KindArea {
		return AreaRenderer{}
	}
	return LineRenderer{}
}

// LineRenderer connects consecutive points with braille lines.
type LineRenderer struct{}

func (LineRenderer) Render(p *Plot, points []series.Point) {
	pts := p.visible(points)
	w, h := float64(p.Width), float64(p.Height)

	if len(pts) == 1 {
		f := p.Project(pts[0])
		if f.X >= 0 && f.X <= w && f.Y >= 0 && f.Y <= h {
			p.set(p.Grid.GridPoint(f))
		}
		return
	}

	for i := 0; i+1 < len(pts); i++ {
		a, b, ok := clip(p.Project(pts[i]), p.Project(pts[i+1]), w, h, true)
		if !ok {
			continue
		}
		drawLine(p.Grid.GridPoint(a), p.Grid.GridPoint(b), p.set)
	}
}

// AreaRenderer fills the region between the series and the bottom of the
// view.
type AreaRenderer struct{}

func (AreaRenderer) Render(p *Plot, points []series.Point) {
	pts := p.visible(points)
	w, h := float64(p.Width), float64(p.Height)

	fill := func(pt canvas.Point) {
		for y := max(pt.Y, 0); y <= p.bottom(); y++ {
			p.set(canvas.Point{X: pt.X, Y: y})
		}
	}
	clampY := func(f canvas.Float64Point) canvas.Float64Point {
		f.Y = min(max(f.Y, 0), h)
		return f
	}

	if len(pts) == 1 {
		f := p.Project(pts[0])
		if f.X >= 0 && f.X <= w && f.Y >= 0 {
			fill(p.Grid.GridPoint(clampY(f)))
		}
		return
	}

	for i := 0; i+1 < len(pts); i++ {
		a, b, ok := clip(p.Project(pts[i]), p.Project(pts[i+1]), w, h, false)
		if !ok {
			continue
		}
		// Below the view nothing is filled; above it the column is full.
		if a.Y < 0 && b.Y < 0 {
			continue
		}
		drawLine(p.Grid.GridPoint(clampY(a)), p.Grid.GridPoint(clampY(b)), fill)
	}
}

// clip clips the segment a-b to [0, xmax] on X and, if clipY, to [0, ymax]
// on Y (Liang-Barsky).
func clip(a, b canvas.Float64Point, xmax, ymax float64, clipY bool) (canvas.Float64Point, canvas.Float64Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	edges := [][2]float64{
		{-dx, a.X},
		{dx, xmax - a.X},
	}
	if clipY {
		edges = append(edges, [2]float64{-dy, a.Y}, [2]float64{dy, ymax - a.Y})
	}

	t0, t1 := 0.0, 1.0
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = min(t1, r)
		}
	}

	return canvas.Float64Point{X: a.X + t0*dx, Y: a.Y + t0*dy},
		canvas.Float64Point{X: a.X + t1*dx, Y: a.Y + t1*dy},
		true
}

// drawLine draws a line using Bresenham's algorithm.
//
// See https://en.wikipedia.org/wiki/Bresenham%27s_line_algorithm.
func drawLine(p1, p2 canvas.Point, set func(canvas.Point)) {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)

	sx := 1
	if p1.X > p2.X {
		sx = -1
	}

	sy := 1
	if p1.Y > p2.Y {
		sy = -1
	}

	err := dx - dy
	x, y := p1.X, p1.Y

	for {
		set(canvas.Point{X: x, Y: y})

		if x == p2.X && y == p2.Y {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
