package physics

import (
	"errors"
	"math"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/tilemap"
)

// ErrNotAttached is returned by a collider queried before its geometry was attached.
var ErrNotAttached = errors.New("physics: collider geometry not attached")

// StaticCollider is an obstacle that dynamic bodies resolve against.
// CollisionFix follows the same contract as the package-level CollisionFix
// applied to the collider's own geometry.
type StaticCollider interface {
	CollisionFix(start, end core.Rect, axis core.Axis) (float64, error)
}

// RectCollider is a static obstacle backed by one rectangle owned elsewhere.
type RectCollider struct {
	rect *core.Rect
}

// NewRectCollider creates a collider attached to r. r may be nil and attached later.
func NewRectCollider(r *core.Rect) *RectCollider {
	return &RectCollider{rect: r}
}

// Attach points the collider at its rectangle.
func (c *RectCollider) Attach(r *core.Rect) {
	c.rect = r
}

// Rect returns the attached rectangle, or nil.
func (c *RectCollider) Rect() *core.Rect {
	return c.rect
}

// CollisionFix implements StaticCollider.
func (c *RectCollider) CollisionFix(start, end core.Rect, axis core.Axis) (float64, error) {
	if c.rect == nil {
		return 0, ErrNotAttached
	}
	return CollisionFix(start, end, *c.rect, axis), nil
}

// TilemapCollider treats every occupied cell of a grid as a solid obstacle.
type TilemapCollider struct {
	grid     *tilemap.Grid
	TieBreak TieBreak
}

// NewTilemapCollider creates a collider attached to g. g may be nil and attached later.
func NewTilemapCollider(g *tilemap.Grid) *TilemapCollider {
	return &TilemapCollider{grid: g}
}

// Attach points the collider at its grid.
func (c *TilemapCollider) Attach(g *tilemap.Grid) {
	c.grid = g
}

// Grid returns the attached grid, or nil.
func (c *TilemapCollider) Grid() *tilemap.Grid {
	return c.grid
}

// CollisionFix implements StaticCollider. Only cells inside the swept area
// start ∪ end, padded by one cell on every side, are tested, so the cost is
// bounded by the distance moved and not by the size of the world.
func (c *TilemapCollider) CollisionFix(start, end core.Rect, axis core.Axis) (float64, error) {
	if c.grid == nil {
		return 0, ErrNotAttached
	}
	if c.grid.Len() == 0 {
		return 0, nil
	}

	lo, hi := c.sweptCells(start.Union(end))

	var fix float64
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			p := core.C(x, y)
			if c.grid.GetTile(p) == nil {
				continue
			}
			fix = c.TieBreak.Pick(fix, CollisionFix(start, end, c.grid.CellRect(p), axis))
		}
	}
	return fix, nil
}

// sweptCells returns the inclusive cell range covering area plus one cell of padding.
func (c *TilemapCollider) sweptCells(area core.Rect) (lo, hi core.Coord) {
	origin := c.grid.Origin()
	cell := c.grid.CellSize()

	lo = core.Coord{
		X: int(math.Floor((area.X-origin.X)/cell.X)) - 1,
		Y: int(math.Floor((area.Y-origin.Y)/cell.Y)) - 1,
	}
	hi = core.Coord{
		X: int(math.Ceil((area.X+area.W-origin.X)/cell.X)) + 1,
		Y: int(math.Ceil((area.Y+area.H-origin.Y)/cell.Y)) + 1,
	}
	return lo, hi
}
