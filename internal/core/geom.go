// Package core provides the geometry primitives shared by the physics core,
// the tile grid and the renderers. It has no external dependencies.
package core

import "fmt"

// Axis selects one of the two world axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// String returns "X" or "Y".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	default:
		return "Axis(?)"
	}
}

// Vec2 is a 2D vector in world units. Y grows downward.
type Vec2 struct {
	X, Y float64
}

// V is a convenience constructor for Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by f.
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// Along returns the component on the given axis.
func (v Vec2) Along(a Axis) float64 {
	if a == AxisX {
		return v.X
	}
	return v.Y
}

// With returns a copy of v with the component on axis a replaced.
func (v Vec2) With(a Axis, val float64) Vec2 {
	if a == AxisX {
		v.X = val
	} else {
		v.Y = val
	}
	return v
}

// Only returns v with every component except the one on axis a zeroed.
func (v Vec2) Only(a Axis) Vec2 {
	return Vec2{}.With(a, v.Along(a))
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.3f,%.3f)", v.X, v.Y)
}

// Rect is an axis-aligned rectangle: top-left corner plus size.
// Width and height are never negative once built through the constructors.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRect creates a rectangle from four scalars. Negative sizes clamp to zero.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: nonNegative(w), H: nonNegative(h)}
}

// RectFrom creates a rectangle from a position and a size.
func RectFrom(pos, size Vec2) Rect {
	return NewRect(pos.X, pos.Y, size.X, size.Y)
}

// Position returns the top-left corner.
func (r Rect) Position() Vec2 {
	return Vec2{X: r.X, Y: r.Y}
}

// Size returns (W, H).
func (r Rect) Size() Vec2 {
	return Vec2{X: r.W, Y: r.H}
}

// Min is the top-left corner.
func (r Rect) Min() Vec2 {
	return r.Position()
}

// Max is the bottom-right corner.
func (r Rect) Max() Vec2 {
	return Vec2{X: r.X + r.W, Y: r.Y + r.H}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Lo returns the low edge on the given axis.
func (r Rect) Lo(a Axis) float64 {
	return r.Min().Along(a)
}

// Hi returns the high edge on the given axis.
func (r Rect) Hi(a Axis) float64 {
	return r.Max().Along(a)
}

// Mid returns the center coordinate on the given axis.
func (r Rect) Mid(a Axis) float64 {
	return r.Center().Along(a)
}

// Extent returns the size on the given axis.
func (r Rect) Extent(a Axis) float64 {
	return r.Size().Along(a)
}

// IsColliding reports whether the rectangles overlap on both axes.
// Edges that only touch do not count as a collision.
func (r Rect) IsColliding(other Rect) bool {
	return r.X < other.X+other.W && r.X+r.W > other.X &&
		r.Y < other.Y+other.H && r.Y+r.H > other.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.W, other.X+other.W)
	maxY := max(r.Y+r.H, other.Y+other.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Translated returns a copy moved by d.
func (r Rect) Translated(d Vec2) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// SetPosition moves the rectangle so its top-left corner is at p.
func (r *Rect) SetPosition(p Vec2) {
	r.X, r.Y = p.X, p.Y
}

// SetSize resizes the rectangle. Negative sizes clamp to zero.
func (r *Rect) SetSize(s Vec2) {
	r.W, r.H = nonNegative(s.X), nonNegative(s.Y)
}

// Translate moves the rectangle in place by d.
func (r *Rect) Translate(d Vec2) {
	r.X += d.X
	r.Y += d.Y
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(x:%.3f, y:%.3f, w:%.3f, h:%.3f)", r.X, r.Y, r.W, r.H)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
