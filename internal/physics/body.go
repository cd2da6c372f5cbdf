package physics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tilebox/internal/core"
)

// ErrNoRect is returned when a body is updated before a rectangle was attached.
var ErrNoRect = errors.New("physics: dynamic body has no rect")

// Phase is the position of a body inside its per-frame update.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMovedX
	PhaseResolvedX
	PhaseMovedY
	PhaseResolvedY
	PhaseFrictionApplied
	PhaseGravityApplied
)

var phaseNames = [...]string{
	PhaseIdle:            "idle",
	PhaseMovedX:          "moved-x",
	PhaseResolvedX:       "resolved-x",
	PhaseMovedY:          "moved-y",
	PhaseResolvedY:       "resolved-y",
	PhaseFrictionApplied: "friction-applied",
	PhaseGravityApplied:  "gravity-applied",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Contact is a set of sides on which the body was corrected during the last frame.
type Contact uint8

const (
	ContactLeft Contact = 1 << iota
	ContactRight
	ContactUp
	ContactDown
)

// Has reports whether every side in s is set.
func (c Contact) Has(s Contact) bool {
	return c&s == s && s != 0
}

func (c Contact) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, side := range []struct {
		bit  Contact
		name string
	}{
		{ContactLeft, "left"},
		{ContactRight, "right"},
		{ContactUp, "up"},
		{ContactDown, "down"},
	} {
		if c&side.bit != 0 {
			parts = append(parts, side.name)
		}
	}
	return strings.Join(parts, "|")
}

// contactFor maps a correction to the side of the body that was hit.
// Y grows downward, so a positive Y correction means the body landed.
func contactFor(axis core.Axis, fix float64) Contact {
	switch {
	case fix == 0:
		return 0
	case axis == core.AxisX && fix > 0:
		return ContactRight
	case axis == core.AxisX:
		return ContactLeft
	case fix > 0:
		return ContactDown
	default:
		return ContactUp
	}
}

// DynamicBody moves under velocity, gravity and friction and is pushed out of
// static colliders. Its rectangle belongs to the owning entity and is read and
// written in place.
type DynamicBody struct {
	Velocity core.Vec2 // world units per second
	Gravity  core.Vec2 // acceleration, units per second²
	Friction core.Vec2 // per-axis deceleration magnitude, units per second²

	// IsTrigger marks the body as a sensor: other bodies overlapping it are
	// reported by Integrator.Step.
	IsTrigger bool

	rect    *core.Rect
	phase   Phase
	contact Contact
}

// NewDynamicBody creates a body with the given gravity and friction, at rest.
func NewDynamicBody(gravity, friction core.Vec2) *DynamicBody {
	return &DynamicBody{Gravity: gravity, Friction: friction}
}

// Attach sets the rectangle the body drives.
func (b *DynamicBody) Attach(r *core.Rect) {
	b.rect = r
}

// Rect returns the attached rectangle.
func (b *DynamicBody) Rect() (*core.Rect, error) {
	if b.rect == nil {
		return nil, ErrNoRect
	}
	return b.rect, nil
}

// Phase returns how far the last update got.
func (b *DynamicBody) Phase() Phase {
	return b.phase
}

// Contact returns the sides corrected during the last update.
func (b *DynamicBody) Contact() Contact {
	return b.contact
}

// Grounded reports whether the body landed on something during the last update.
func (b *DynamicBody) Grounded() bool {
	return b.contact.Has(ContactDown)
}

// Update advances the body by dt seconds against colliders, keeping the
// largest correction per axis.
func (b *DynamicBody) Update(dt float64, colliders []StaticCollider) error {
	return b.update(dt, colliders, LargestFix)
}

func (b *DynamicBody) update(dt float64, colliders []StaticCollider, tb TieBreak) error {
	if b.rect == nil {
		return ErrNoRect
	}

	b.phase = PhaseIdle
	b.contact = 0

	if err := b.moveAndResolve(core.AxisX, dt, colliders, tb); err != nil {
		return err
	}
	if err := b.moveAndResolve(core.AxisY, dt, colliders, tb); err != nil {
		return err
	}

	b.Velocity = core.Vec2{
		X: applyFriction(b.Velocity.X, b.Friction.X, dt),
		Y: applyFriction(b.Velocity.Y, b.Friction.Y, dt),
	}
	b.phase = PhaseFrictionApplied

	b.Velocity = b.Velocity.Add(b.Gravity.Scale(dt))
	b.phase = PhaseGravityApplied
	return nil
}

func (b *DynamicBody) moveAndResolve(axis core.Axis, dt float64, colliders []StaticCollider, tb TieBreak) error {
	start := *b.rect
	end := start.Translated(b.Velocity.Only(axis).Scale(dt))
	*b.rect = end
	if axis == core.AxisX {
		b.phase = PhaseMovedX
	} else {
		b.phase = PhaseMovedY
	}

	var fix float64
	for _, c := range colliders {
		f, err := c.CollisionFix(start, end, axis)
		if err != nil {
			return fmt.Errorf("physics: resolve %s: %w", axis, err)
		}
		fix = tb.Pick(fix, f)
	}

	if fix != 0 {
		b.rect.Translate(core.Vec2{}.With(axis, -fix))
		b.Velocity = b.Velocity.With(axis, 0)
		b.contact |= contactFor(axis, fix)
	}

	if axis == core.AxisX {
		b.phase = PhaseResolvedX
	} else {
		b.phase = PhaseResolvedY
	}
	return nil
}

// applyFriction decelerates v toward zero by f*dt without changing its sign.
func applyFriction(v, f, dt float64) float64 {
	if v == 0 || f <= 0 {
		return v
	}
	next := v - core.Sign(v)*f*dt
	if core.Sign(next) != core.Sign(v) {
		return 0
	}
	return next
}
