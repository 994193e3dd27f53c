package gesture

// Rect is the plot area in screen cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Local converts screen cell coordinates to plot-local coordinates.
func (r Rect) Local(x, y int) (lx, ly int) {
	return x - r.X, y - r.Y
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}
