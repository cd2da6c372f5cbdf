package tui

import (
	"math"

	"github.com/vovakirdan/tilebox/internal/core"
)

// Camera projects world coordinates onto screen cells. World Y grows down,
// like screen rows. Center is the world point shown in the middle of the view.
type Camera struct {
	ColsPerUnit float64
	RowsPerUnit float64
	Center      core.Vec2
	Width       int // view size in cells
	Height      int
}

// NewCamera creates a camera with the given scale. Non-positive scales fall back to 1.
func NewCamera(colsPerUnit, rowsPerUnit float64, width, height int) Camera {
	if colsPerUnit <= 0 {
		colsPerUnit = 1
	}
	if rowsPerUnit <= 0 {
		rowsPerUnit = 1
	}
	return Camera{
		ColsPerUnit: colsPerUnit,
		RowsPerUnit: rowsPerUnit,
		Width:       max(width, 0),
		Height:      max(height, 0),
	}
}

// Resize changes the view size.
func (c *Camera) Resize(width, height int) {
	c.Width = max(width, 0)
	c.Height = max(height, 0)
}

// Follow centers the view on a rectangle.
func (c *Camera) Follow(r core.Rect) {
	c.Center = r.Center()
}

// ToScreen returns the cell containing world point p. The result may lie
// outside the view.
func (c Camera) ToScreen(p core.Vec2) (int, int) {
	col := int(math.Floor((p.X-c.Center.X)*c.ColsPerUnit)) + c.Width/2
	row := int(math.Floor((p.Y-c.Center.Y)*c.RowsPerUnit)) + c.Height/2
	return col, row
}

// ToWorld returns the world position of the top-left corner of a cell.
func (c Camera) ToWorld(col, row int) core.Vec2 {
	return core.V(
		float64(col-c.Width/2)/c.ColsPerUnit+c.Center.X,
		float64(row-c.Height/2)/c.RowsPerUnit+c.Center.Y,
	)
}

// Visible returns the world area covered by the view.
func (c Camera) Visible() core.Rect {
	tl := c.ToWorld(0, 0)
	return core.NewRect(tl.X, tl.Y, float64(c.Width)/c.ColsPerUnit, float64(c.Height)/c.RowsPerUnit)
}

// Project returns the cell span [x, x+w) × [y, y+h) covered by r.
// Anything with an area covers at least one cell.
func (c Camera) Project(r core.Rect) (x, y, w, h int) {
	x0 := (r.X-c.Center.X)*c.ColsPerUnit + float64(c.Width/2)
	y0 := (r.Y-c.Center.Y)*c.RowsPerUnit + float64(c.Height/2)
	x1 := x0 + r.W*c.ColsPerUnit
	y1 := y0 + r.H*c.RowsPerUnit

	x = int(math.Floor(x0))
	y = int(math.Floor(y0))
	w = max(int(math.Ceil(x1))-x, 1)
	h = max(int(math.Ceil(y1))-y, 1)
	return x, y, w, h
}
