package physics

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tilebox/internal/core"
)

func attached(r core.Rect, b *DynamicBody) (*DynamicBody, *core.Rect) {
	rect := r
	b.Attach(&rect)
	return b, &rect
}

func staticRects(rects ...core.Rect) []StaticCollider {
	out := make([]StaticCollider, 0, len(rects))
	for i := range rects {
		out = append(out, NewRectCollider(&rects[i]))
	}
	return out
}

func TestBodyUpdateWithoutRect(t *testing.T) {
	b := NewDynamicBody(core.V(0, 10), core.Vec2{})
	if err := b.Update(0.1, nil); !errors.Is(err, ErrNoRect) {
		t.Errorf("Update() error = %v, expected ErrNoRect", err)
	}
	if _, err := b.Rect(); !errors.Is(err, ErrNoRect) {
		t.Errorf("Rect() error = %v, expected ErrNoRect", err)
	}
}

func TestBodyUpdateUnattachedCollider(t *testing.T) {
	b, _ := attached(core.NewRect(0, 0, 1, 1), &DynamicBody{Velocity: core.V(1, 0)})
	err := b.Update(0.1, []StaticCollider{NewRectCollider(nil)})
	if !errors.Is(err, ErrNotAttached) {
		t.Errorf("Update() error = %v, expected ErrNotAttached", err)
	}
}

func TestBodyMovesRightIntoRect(t *testing.T) {
	b, rect := attached(core.NewRect(0, 0, 1, 1), &DynamicBody{Velocity: core.V(4, 0)})
	wall := core.NewRect(2.5, 0, 1, 1)

	if err := b.Update(0.5, staticRects(wall)); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	if rect.Max().X != wall.Min().X {
		t.Errorf("max.x = %v, expected %v", rect.Max().X, wall.Min().X)
	}
	if b.Velocity.X != 0 {
		t.Errorf("velocity.x = %v, expected 0", b.Velocity.X)
	}
	if !b.Contact().Has(ContactRight) {
		t.Errorf("Contact() = %v, expected right", b.Contact())
	}
	if b.Phase() != PhaseGravityApplied {
		t.Errorf("Phase() = %v, expected %v", b.Phase(), PhaseGravityApplied)
	}
}

func TestBodyFreeFallWithoutColliders(t *testing.T) {
	b, rect := attached(core.NewRect(0, 0, 1, 1), NewDynamicBody(core.V(0, 10), core.Vec2{}))

	// Gravity is applied after the move, so the first frame does not move the body.
	if err := b.Update(0.5, nil); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if rect.Y != 0 || b.Velocity.Y != 5 {
		t.Errorf("after frame 1: y=%v vy=%v, expected y=0 vy=5", rect.Y, b.Velocity.Y)
	}

	if err := b.Update(0.5, nil); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if rect.Y != 2.5 || b.Velocity.Y != 10 {
		t.Errorf("after frame 2: y=%v vy=%v, expected y=2.5 vy=10", rect.Y, b.Velocity.Y)
	}
	if b.Grounded() {
		t.Error("free-falling body should not be grounded")
	}
}

func TestBodyFriction(t *testing.T) {
	tests := []struct {
		name     string
		velocity float64
		friction float64
		frames   int
		expected float64
	}{
		{"decelerates", 3, 10, 1, 2},
		{"stops at zero", 3, 10, 3, 0},
		{"does not reverse", 0.5, 10, 1, 0},
		{"stays stopped", 0.5, 10, 5, 0},
		{"negative velocity", -3, 10, 1, -2},
		{"no friction", 3, 0, 4, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := attached(core.NewRect(0, 0, 1, 1), &DynamicBody{
				Velocity: core.V(tc.velocity, 0),
				Friction: core.V(tc.friction, 0),
			})
			for i := 0; i < tc.frames; i++ {
				if err := b.Update(0.1, nil); err != nil {
					t.Fatalf("Update() error: %v", err)
				}
			}
			if !approx(b.Velocity.X, tc.expected) {
				t.Errorf("velocity.x = %v, expected %v", b.Velocity.X, tc.expected)
			}
		})
	}
}

func TestBodyFallsOntoFloorWithin1e9(t *testing.T) {
	// Body bottom starts 10 units above the floor top. Rest height and
	// penetration are checked within 1e-9, not exactly.
	floor := core.NewRect(-5, 10, 10, 1)
	b, rect := attached(core.NewRect(0, -1, 1, 1), NewDynamicBody(core.V(0, 50), core.Vec2{}))
	colliders := staticRects(floor)
	rest := floor.Min().Y - rect.H

	landed := -1
	for frame := 0; frame < 40; frame++ {
		if err := b.Update(0.1, colliders); err != nil {
			t.Fatalf("frame %d: Update() error: %v", frame, err)
		}
		if rect.Max().Y > floor.Min().Y+1e-9 {
			t.Fatalf("frame %d: body penetrates floor, bottom=%v", frame, rect.Max().Y)
		}
		if landed < 0 && b.Grounded() {
			landed = frame
		}
		if landed >= 0 {
			if !approx(rect.Y, rest) {
				t.Fatalf("frame %d: y=%v after landing, expected %v", frame, rect.Y, rest)
			}
			if !b.Grounded() {
				t.Fatalf("frame %d: body left the floor after landing", frame)
			}
			// Zeroed on contact, then one frame of gravity.
			if !approx(b.Velocity.Y, 5) {
				t.Fatalf("frame %d: vy=%v, expected 5", frame, b.Velocity.Y)
			}
		}
	}
	if landed < 0 {
		t.Fatal("body never landed")
	}
}

func TestBodyWalksOffLedge(t *testing.T) {
	ledge := core.NewRect(0, 1, 4, 1)
	b, rect := attached(core.NewRect(2, 0, 1, 1), &DynamicBody{
		Velocity: core.V(2, 0),
		Gravity:  core.V(0, 10),
	})
	colliders := staticRects(ledge)

	prevX := rect.X
	for frame := 1; frame <= 20; frame++ {
		if err := b.Update(0.1, colliders); err != nil {
			t.Fatalf("frame %d: Update() error: %v", frame, err)
		}
		if rect.X < prevX {
			t.Fatalf("frame %d: snapped back from x=%v to x=%v", frame, prevX, rect.X)
		}
		if !approx(rect.X, 2+0.2*float64(frame)) {
			t.Fatalf("frame %d: x=%v, expected %v", frame, rect.X, 2+0.2*float64(frame))
		}
		prevX = rect.X
	}

	if rect.Y <= 0 {
		t.Errorf("body should have fallen past the ledge, y=%v", rect.Y)
	}
	if b.Velocity.X != 2 {
		t.Errorf("velocity.x = %v, expected 2", b.Velocity.X)
	}
}

func TestBodyJumpHitsCeiling(t *testing.T) {
	ceiling := core.NewRect(-2, -3, 4, 1)
	b, rect := attached(core.NewRect(0, 0, 1, 1), &DynamicBody{Velocity: core.V(0, -8)})

	if err := b.Update(0.5, staticRects(ceiling)); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if rect.Y != ceiling.Max().Y {
		t.Errorf("y = %v, expected %v", rect.Y, ceiling.Max().Y)
	}
	if !b.Contact().Has(ContactUp) || b.Velocity.Y != 0 {
		t.Errorf("contact=%v vy=%v, expected up and 0", b.Contact(), b.Velocity.Y)
	}
}

func TestContactString(t *testing.T) {
	if got := (ContactLeft | ContactDown).String(); got != "left|down" {
		t.Errorf("String() = %q", got)
	}
	if Contact(0).String() != "none" {
		t.Error("zero contact should print none")
	}
	if Contact(0).Has(0) {
		t.Error("Has(0) should be false")
	}
}
