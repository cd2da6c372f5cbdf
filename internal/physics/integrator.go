package physics

import "fmt"

// Overlap reports that body Body overlaps the trigger body Trigger after a step.
// Both are indexes into the slice passed to Integrator.Step.
type Overlap struct {
	Body    int
	Trigger int
}

// Integrator runs one frame for a set of dynamic bodies.
type Integrator struct {
	TieBreak TieBreak
}

// Step updates every body in order against colliders and returns the trigger
// overlaps found afterwards.
//
// Every body must have a rect. If any does not, Step returns an error before
// anything moves. An empty collider set is valid.
func (in Integrator) Step(dt float64, bodies []*DynamicBody, colliders []StaticCollider) ([]Overlap, error) {
	for i, b := range bodies {
		if b.rect == nil {
			return nil, fmt.Errorf("physics: body %d: %w", i, ErrNoRect)
		}
	}

	for i, b := range bodies {
		if err := b.update(dt, colliders, in.TieBreak); err != nil {
			return nil, fmt.Errorf("physics: body %d: %w", i, err)
		}
	}

	return Overlaps(bodies), nil
}

// Overlaps lists every (body, trigger) pair whose rects strictly overlap.
// Bodies without a rect are skipped.
func Overlaps(bodies []*DynamicBody) []Overlap {
	var out []Overlap
	for j, trig := range bodies {
		if !trig.IsTrigger || trig.rect == nil {
			continue
		}
		for i, b := range bodies {
			if i == j || b.rect == nil {
				continue
			}
			if b.rect.IsColliding(*trig.rect) {
				out = append(out, Overlap{Body: i, Trigger: j})
			}
		}
	}
	return out
}
