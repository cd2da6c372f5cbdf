package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/tilemap"
)

func floorGrid(y, fromX, toX int) *tilemap.Grid {
	g := tilemap.NewGrid(16)
	for x := fromX; x <= toX; x++ {
		g.SetTile(core.C(x, y), tilemap.NewTile("ground"))
	}
	return g
}

func TestRectColliderNotAttached(t *testing.T) {
	c := NewRectCollider(nil)
	_, err := c.CollisionFix(core.NewRect(0, 0, 1, 1), core.NewRect(1, 0, 1, 1), core.AxisX)
	if !errors.Is(err, ErrNotAttached) {
		t.Errorf("CollisionFix() error = %v, expected ErrNotAttached", err)
	}

	r := core.NewRect(1.5, 0, 1, 1)
	c.Attach(&r)
	fix, err := c.CollisionFix(core.NewRect(0, 0, 1, 1), core.NewRect(1, 0, 1, 1), core.AxisX)
	if err != nil {
		t.Fatalf("CollisionFix() after Attach: %v", err)
	}
	if !approx(fix, 0.5) {
		t.Errorf("CollisionFix() = %v, expected 0.5", fix)
	}
}

func TestRectColliderFollowsRect(t *testing.T) {
	r := core.NewRect(10, 0, 1, 1)
	c := NewRectCollider(&r)

	start, end := core.NewRect(0, 0, 1, 1), core.NewRect(1, 0, 1, 1)
	if fix, _ := c.CollisionFix(start, end, core.AxisX); fix != 0 {
		t.Fatalf("far obstacle produced fix %v", fix)
	}

	r.SetPosition(core.V(1.75, 0))
	if fix, _ := c.CollisionFix(start, end, core.AxisX); !approx(fix, 0.25) {
		t.Errorf("moved obstacle fix = %v, expected 0.25", fix)
	}
}

func TestTilemapColliderNotAttached(t *testing.T) {
	c := NewTilemapCollider(nil)
	_, err := c.CollisionFix(core.NewRect(0, 0, 1, 1), core.NewRect(0, 1, 1, 1), core.AxisY)
	if !errors.Is(err, ErrNotAttached) {
		t.Errorf("CollisionFix() error = %v, expected ErrNotAttached", err)
	}
}

func TestTilemapColliderFix(t *testing.T) {
	tests := []struct {
		name       string
		grid       func() *tilemap.Grid
		start, end core.Rect
		axis       core.Axis
		expected   float64
	}{
		{
			name:     "landing on tile floor",
			grid:     func() *tilemap.Grid { return floorGrid(5, -10, 10) },
			start:    core.NewRect(0.25, 3.5, 0.5, 1),
			end:      core.NewRect(0.25, 4.5, 0.5, 1),
			axis:     core.AxisY,
			expected: 0.5,
		},
		{
			name:     "landing across a tile seam",
			grid:     func() *tilemap.Grid { return floorGrid(5, -10, 10) },
			start:    core.NewRect(-0.5, 3.5, 1, 1),
			end:      core.NewRect(-0.5, 4.25, 1, 1),
			axis:     core.AxisY,
			expected: 0.25,
		},
		{
			name:     "sliding along tile floor crosses seams freely",
			grid:     func() *tilemap.Grid { return floorGrid(1, 0, 9) },
			start:    core.NewRect(0.5, 0, 1, 1),
			end:      core.NewRect(3.5, 0, 1, 1),
			axis:     core.AxisX,
			expected: 0,
		},
		{
			name: "fast body stopped by thin wall",
			grid: func() *tilemap.Grid {
				g := tilemap.NewGrid(16)
				g.SetTile(core.C(5, 0), tilemap.NewTile("wall"))
				g.SetTile(core.C(6, 0), tilemap.NewTile("wall"))
				return g
			},
			start:    core.NewRect(0.25, 0.25, 0.5, 0.5),
			end:      core.NewRect(8.25, 0.25, 0.5, 0.5),
			axis:     core.AxisX,
			expected: 3.75,
		},
		{
			name: "scaled cells",
			grid: func() *tilemap.Grid {
				g := tilemap.NewGrid(16)
				g.SetCellSize(core.V(2, 2))
				g.SetTile(core.C(1, 0), tilemap.NewTile("wall"))
				return g
			},
			start:    core.NewRect(0, 0, 1, 1),
			end:      core.NewRect(1.5, 0, 1, 1),
			axis:     core.AxisX,
			expected: 0.5,
		},
		{
			name: "offset origin",
			grid: func() *tilemap.Grid {
				g := tilemap.NewGrid(16)
				g.SetOrigin(core.V(-100, 0))
				g.SetTile(core.C(102, 0), tilemap.NewTile("wall"))
				return g
			},
			start:    core.NewRect(0, 0, 1, 1),
			end:      core.NewRect(1.5, 0, 1, 1),
			axis:     core.AxisX,
			expected: 0.5,
		},
		{
			name: "tiles outside swept area ignored",
			grid: func() *tilemap.Grid {
				g := tilemap.NewGrid(16)
				g.SetTile(core.C(50, 0), tilemap.NewTile("wall"))
				return g
			},
			start:    core.NewRect(0, 0, 1, 1),
			end:      core.NewRect(1.5, 0, 1, 1),
			axis:     core.AxisX,
			expected: 0,
		},
		{
			name:     "empty grid",
			grid:     func() *tilemap.Grid { return tilemap.NewGrid(16) },
			start:    core.NewRect(0, 0, 1, 1),
			end:      core.NewRect(0, 1, 1, 1),
			axis:     core.AxisY,
			expected: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewTilemapCollider(tc.grid())
			got, err := c.CollisionFix(tc.start, tc.end, tc.axis)
			if err != nil {
				t.Fatalf("CollisionFix() error: %v", err)
			}
			if !approx(got, tc.expected) {
				t.Errorf("CollisionFix() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestTilemapColliderTieBreak(t *testing.T) {
	g := tilemap.NewGrid(16)
	g.SetTile(core.C(5, 0), tilemap.NewTile("wall"))
	g.SetTile(core.C(6, 0), tilemap.NewTile("wall"))
	start := core.NewRect(0.25, 0.25, 0.5, 0.5)
	end := core.NewRect(6.25, 0.25, 0.5, 0.5)

	// Cell 5 asks for 1.75, cell 6 for 0.75.
	largest := NewTilemapCollider(g)
	smallest := NewTilemapCollider(g)
	smallest.TieBreak = SmallestFix

	if fix, _ := largest.CollisionFix(start, end, core.AxisX); !approx(fix, 1.75) {
		t.Errorf("largest fix = %v, expected 1.75", fix)
	}
	if fix, _ := smallest.CollisionFix(start, end, core.AxisX); !approx(fix, 0.75) {
		t.Errorf("smallest fix = %v, expected 0.75", fix)
	}
}

func TestTilemapColliderSlideFarFromOrigin(t *testing.T) {
	const (
		frames = 200
		dt     = 1.0 / 60
		speed  = 10.0
	)
	tests := []struct {
		name string
		base float64
	}{
		{name: "origin", base: 0},
		{name: "base 1e4", base: 1e4},
		{name: "base 1e7", base: 1e7},
		{name: "base 1e8", base: 1e8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := floorGrid(5, -10, 60)
			g.SetOrigin(core.V(tc.base, tc.base))
			colliders := []StaticCollider{NewTilemapCollider(g)}

			b, rect := attached(core.NewRect(tc.base+0.25, tc.base+4, 0.5, 1), NewDynamicBody(core.V(0, 50), core.Vec2{}))
			b.Velocity = core.V(speed, 0)

			for i := range frames {
				if err := b.Update(dt, colliders); err != nil {
					t.Fatalf("frame %d: Update() failed: %v", i, err)
				}
				if b.Contact().Has(ContactLeft) || b.Contact().Has(ContactRight) {
					t.Fatalf("frame %d: snagged on floor seam, contact=%v rect=%+v", i, b.Contact(), *rect)
				}
			}

			if b.Velocity.X != speed {
				t.Errorf("Velocity.X = %v, expected %v", b.Velocity.X, speed)
			}
			traveled := rect.X - (tc.base + 0.25)
			if want := frames * speed * dt; math.Abs(traveled-want) > 1e-3 {
				t.Errorf("traveled %v, expected %v", traveled, want)
			}
			if got := rect.Y - tc.base; math.Abs(got-4) > 1e-6 {
				t.Errorf("rest height %v above origin, expected 4", got)
			}
		})
	}
}

func TestSkinAtGrowsWithMagnitude(t *testing.T) {
	if got := SkinAt(0); got != ContactSkin {
		t.Errorf("SkinAt(0) = %v, expected %v", got, ContactSkin)
	}
	if got := SkinAt(-3); got != ContactSkin {
		t.Errorf("SkinAt(-3) = %v, expected %v", got, ContactSkin)
	}
	// 1e8 has a float step of 2^-26.
	if got, want := SkinAt(1e8), skinUlps*math.Ldexp(1, -26); got != want {
		t.Errorf("SkinAt(1e8) = %v, expected %v", got, want)
	}
}
