package scene

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/physics"
	"github.com/vovakirdan/tilebox/internal/tilemap"
)

// Options configures a Scene.
type Options struct {
	TieBreak    physics.TieBreak
	FixedStep   float64 // seconds; 0 steps once per frame with the frame delta
	MaxSubSteps int     // cap on fixed steps per frame; 0 means unbounded
	Logger      *log.Logger
}

// Trigger is an overlap between a body and a trigger body.
type Trigger struct {
	Body        donburi.Entity
	BodyName    string
	Trigger     donburi.Entity
	TriggerName string
}

// StepResult summarises one call to Step.
type StepResult struct {
	Frame    int       // frame number after the step, starting at 1
	Steps    int       // integrator passes run; 0 while a fixed clock accumulates
	Moved    bool      // whether any body changed position
	Triggers []Trigger // overlaps seen in any pass, deduplicated
}

// BodyState is a read-only snapshot of a dynamic body.
type BodyState struct {
	Entity    donburi.Entity
	Name      string
	Rect      core.Rect
	Velocity  core.Vec2
	Contact   physics.Contact
	Grounded  bool
	IsTrigger bool
}

// Scene is a world of entities plus the state of its physics clock.
type Scene struct {
	world      donburi.World
	integrator physics.Integrator
	clock      physics.Clock
	logger     *log.Logger
	frame      int

	bodies    *donburi.Query
	colliders *donburi.Query
	tilemaps  *donburi.Query
	labels    *donburi.Query

	reported map[donburi.Entity]bool
}

// New creates an empty scene.
func New(opts Options) *Scene {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Scene{
		world:      donburi.NewWorld(),
		integrator: physics.Integrator{TieBreak: opts.TieBreak},
		clock:      physics.Clock{Step: opts.FixedStep, MaxSteps: opts.MaxSubSteps},
		logger:     logger,
		bodies:     donburi.NewQuery(filter.Contains(Body)),
		colliders:  donburi.NewQuery(filter.Contains(Collider)),
		tilemaps:   donburi.NewQuery(filter.Contains(Tilemap)),
		labels:     donburi.NewQuery(filter.Contains(Label)),
		reported:   make(map[donburi.Entity]bool),
	}
}

// World exposes the underlying component store.
func (s *Scene) World() donburi.World {
	return s.world
}

// TieBreak returns the aggregation policy used for every collider.
func (s *Scene) TieBreak() physics.TieBreak {
	return s.integrator.TieBreak
}

// AddEntity creates an entity with a label and the given capabilities, all
// zero-valued. Most callers want one of the typed builders instead.
func (s *Scene) AddEntity(name string, comps ...donburi.IComponentType) donburi.Entity {
	all := append([]donburi.IComponentType{Label}, comps...)
	e := s.world.Create(all...)
	Label.SetValue(s.world.Entry(e), LabelData{Name: name})
	return e
}

// AddDynamic adds a moving body occupying rect.
func (s *Scene) AddDynamic(name string, rect core.Rect, body physics.DynamicBody) donburi.Entity {
	e := s.AddEntity(name, Rect, Body)
	entry := s.world.Entry(e)
	Rect.SetValue(entry, rect)
	Body.SetValue(entry, body)
	return e
}

// AddStaticRect adds an immovable rectangular obstacle.
func (s *Scene) AddStaticRect(name string, rect core.Rect) donburi.Entity {
	e := s.AddEntity(name, Rect, Collider)
	entry := s.world.Entry(e)
	Rect.SetValue(entry, rect)
	Collider.SetValue(entry, ColliderData{Static: physics.NewRectCollider(nil)})
	return e
}

// AddTilemap adds a tile layer whose occupied cells are solid.
func (s *Scene) AddTilemap(name string, grid *tilemap.Grid) donburi.Entity {
	e := s.AddEntity(name, Tilemap, Collider)
	entry := s.world.Entry(e)
	Tilemap.SetValue(entry, TilemapData{Grid: grid})
	Collider.SetValue(entry, ColliderData{Static: physics.NewTilemapCollider(nil)})
	return e
}

// Remove deletes an entity. It reports false if the entity was already gone.
func (s *Scene) Remove(e donburi.Entity) bool {
	if !s.world.Valid(e) {
		return false
	}
	s.world.Remove(e)
	delete(s.reported, e)
	return true
}

// Step advances the simulation by one frame of frameDelta seconds.
//
// Every body and collider is validated first. If any entity lacks a
// capability its role needs, Step returns a *ConfigError and nothing moves.
func (s *Scene) Step(frameDelta float64) (StepResult, error) {
	bodies, bodyEntities, err := s.gatherBodies()
	if err != nil {
		return StepResult{Frame: s.frame}, err
	}
	colliders, err := s.gatherColliders()
	if err != nil {
		return StepResult{Frame: s.frame}, err
	}

	steps, dt := 1, frameDelta
	if s.clock.Enabled() {
		steps, dt = s.clock.Advance(frameDelta), s.clock.Step
	}

	before := make([]core.Rect, len(bodies))
	for i, b := range bodies {
		r, _ := b.Rect()
		before[i] = *r
	}

	var triggers []Trigger
	seen := make(map[physics.Overlap]bool)
	for range steps {
		overlaps, err := s.integrator.Step(dt, bodies, colliders)
		if err != nil {
			return StepResult{Frame: s.frame}, fmt.Errorf("scene: frame %d: %w", s.frame+1, err)
		}
		for _, o := range overlaps {
			if seen[o] {
				continue
			}
			seen[o] = true
			tr := Trigger{
				Body:        bodyEntities[o.Body],
				BodyName:    s.name(bodyEntities[o.Body]),
				Trigger:     bodyEntities[o.Trigger],
				TriggerName: s.name(bodyEntities[o.Trigger]),
			}
			s.logger.Debug("trigger overlap", "body", tr.BodyName, "trigger", tr.TriggerName)
			triggers = append(triggers, tr)
		}
	}

	moved := false
	for i, b := range bodies {
		r, _ := b.Rect()
		skin := physics.SkinAt(max(math.Abs(r.X), math.Abs(r.Y), math.Abs(before[i].X), math.Abs(before[i].Y)))
		if math.Abs(r.X-before[i].X) > skin || math.Abs(r.Y-before[i].Y) > skin {
			moved = true
			break
		}
	}

	s.frame++
	return StepResult{Frame: s.frame, Steps: steps, Moved: moved, Triggers: triggers}, nil
}

func (s *Scene) gatherBodies() ([]*physics.DynamicBody, []donburi.Entity, error) {
	var (
		bodies   []*physics.DynamicBody
		entities []donburi.Entity
		cfgErr   error
	)
	s.bodies.Each(s.world, func(entry *donburi.Entry) {
		if cfgErr != nil {
			return
		}
		if !entry.HasComponent(Rect) {
			cfgErr = s.configError(entry, "body", "rect")
			return
		}
		b := Body.Get(entry)
		b.Attach(Rect.Get(entry))
		bodies = append(bodies, b)
		entities = append(entities, entry.Entity())
	})
	return bodies, entities, cfgErr
}

func (s *Scene) gatherColliders() ([]physics.StaticCollider, error) {
	var (
		colliders []physics.StaticCollider
		cfgErr    error
	)
	s.colliders.Each(s.world, func(entry *donburi.Entry) {
		if cfgErr != nil {
			return
		}
		data := Collider.Get(entry)
		switch c := data.Static.(type) {
		case nil:
			cfgErr = s.configError(entry, "collider", "static collider")
			return
		case *physics.RectCollider:
			if !entry.HasComponent(Rect) {
				cfgErr = s.configError(entry, "rect collider", "rect")
				return
			}
			c.Attach(Rect.Get(entry))
		case *physics.TilemapCollider:
			if !entry.HasComponent(Tilemap) || Tilemap.Get(entry).Grid == nil {
				cfgErr = s.configError(entry, "tilemap collider", "tilemap")
				return
			}
			c.Attach(Tilemap.Get(entry).Grid)
			c.TieBreak = s.integrator.TieBreak
		}
		colliders = append(colliders, data.Static)
	})
	return colliders, cfgErr
}

func (s *Scene) configError(entry *donburi.Entry, role, missing string) error {
	err := &ConfigError{
		Entity:  entry.Entity(),
		Name:    s.name(entry.Entity()),
		Role:    role,
		Missing: missing,
	}
	if !s.reported[err.Entity] {
		s.reported[err.Entity] = true
		s.logger.Error("misconfigured entity", "name", err.Name, "role", role, "missing", missing)
	}
	return err
}

func (s *Scene) name(e donburi.Entity) string {
	if !s.world.Valid(e) {
		return ""
	}
	entry := s.world.Entry(e)
	if !entry.HasComponent(Label) {
		return ""
	}
	return Label.Get(entry).Name
}

// Frame returns the number of completed frames.
func (s *Scene) Frame() int {
	return s.frame
}

// ResetClock drops time the fixed-step clock has carried over, so the next
// Step starts from an empty accumulator.
func (s *Scene) ResetClock() {
	s.clock.Reset()
}

// PendingTime returns the time the fixed-step clock carries into the next Step.
func (s *Scene) PendingTime() float64 {
	return s.clock.Pending()
}

// Len returns the number of entities.
func (s *Scene) Len() int {
	return s.world.Len()
}

// Find returns the first entity labelled name.
func (s *Scene) Find(name string) (donburi.Entity, bool) {
	var (
		found donburi.Entity
		ok    bool
	)
	s.labels.Each(s.world, func(entry *donburi.Entry) {
		if !ok && Label.Get(entry).Name == name {
			found, ok = entry.Entity(), true
		}
	})
	return found, ok
}

// Body returns the live body of e for callers that steer it between frames.
func (s *Scene) Body(e donburi.Entity) (*physics.DynamicBody, bool) {
	if !s.world.Valid(e) {
		return nil, false
	}
	entry := s.world.Entry(e)
	if !entry.HasComponent(Body) {
		return nil, false
	}
	return Body.Get(entry), true
}

// RectOf returns a copy of the rect of e.
func (s *Scene) RectOf(e donburi.Entity) (core.Rect, bool) {
	if !s.world.Valid(e) {
		return core.Rect{}, false
	}
	entry := s.world.Entry(e)
	if !entry.HasComponent(Rect) {
		return core.Rect{}, false
	}
	return *Rect.Get(entry), true
}

// Bodies returns a snapshot of every body that has a rect, ordered by name.
func (s *Scene) Bodies() []BodyState {
	var out []BodyState
	s.bodies.Each(s.world, func(entry *donburi.Entry) {
		if !entry.HasComponent(Rect) {
			return
		}
		b := Body.Get(entry)
		out = append(out, BodyState{
			Entity:    entry.Entity(),
			Name:      s.name(entry.Entity()),
			Rect:      *Rect.Get(entry),
			Velocity:  b.Velocity,
			Contact:   b.Contact(),
			Grounded:  b.Grounded(),
			IsTrigger: b.IsTrigger,
		})
	})
	slices.SortStableFunc(out, func(a, b BodyState) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// StaticRects returns the rects of every rect collider.
func (s *Scene) StaticRects() []core.Rect {
	var out []core.Rect
	s.colliders.Each(s.world, func(entry *donburi.Entry) {
		if _, ok := Collider.Get(entry).Static.(*physics.RectCollider); !ok {
			return
		}
		if entry.HasComponent(Rect) {
			out = append(out, *Rect.Get(entry))
		}
	})
	return out
}

// Grids returns every tile layer in the scene.
func (s *Scene) Grids() []*tilemap.Grid {
	var out []*tilemap.Grid
	s.tilemaps.Each(s.world, func(entry *donburi.Entry) {
		if g := Tilemap.Get(entry).Grid; g != nil {
			out = append(out, g)
		}
	})
	return out
}
