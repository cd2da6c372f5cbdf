package scene

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/physics"
	"github.com/vovakirdan/tilebox/internal/tilemap"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func quietScene(opts Options) *Scene {
	opts.Logger = log.New(io.Discard)
	return New(opts)
}

func TestSceneFallOntoStaticRect(t *testing.T) {
	s := quietScene(Options{})
	s.AddStaticRect("floor", core.NewRect(-5, 10, 10, 1))
	player := s.AddDynamic("player", core.NewRect(0, -1, 1, 1), physics.DynamicBody{Gravity: core.V(0, 50)})

	for i := 0; i < 40; i++ {
		res, err := s.Step(0.1)
		if err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		if res.Frame != i+1 || res.Steps != 1 {
			t.Fatalf("Step() = %+v, expected frame %d with 1 step", res, i+1)
		}
	}

	r, ok := s.RectOf(player)
	if !ok {
		t.Fatal("RectOf(player) not found")
	}
	if !approx(r.Y, 9) {
		t.Errorf("player y = %v, expected 9", r.Y)
	}
	b, _ := s.Body(player)
	if !b.Grounded() {
		t.Error("player should be grounded")
	}
	if s.Frame() != 40 {
		t.Errorf("Frame() = %d, expected 40", s.Frame())
	}
}

func TestSceneTilemapFloor(t *testing.T) {
	grid := tilemap.NewGrid(16)
	for x := -4; x <= 4; x++ {
		grid.SetTile(core.C(x, 3), tilemap.NewTile("ground"))
	}

	s := quietScene(Options{})
	s.AddTilemap("world", grid)
	player := s.AddDynamic("player", core.NewRect(0.25, 0, 0.5, 1), physics.DynamicBody{Gravity: core.V(0, 20)})

	for i := 0; i < 30; i++ {
		if _, err := s.Step(0.05); err != nil {
			t.Fatalf("Step() error: %v", err)
		}
	}

	r, _ := s.RectOf(player)
	if !approx(r.Max().Y, 3) {
		t.Errorf("player bottom = %v, expected 3", r.Max().Y)
	}
	if len(s.Grids()) != 1 || s.Grids()[0] != grid {
		t.Error("Grids() should return the tile layer")
	}
}

func TestSceneConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Scene)
		role  string
	}{
		{
			name:  "body without rect",
			setup: func(s *Scene) { s.AddEntity("ghost", Body) },
			role:  "body",
		},
		{
			name: "rect collider without rect",
			setup: func(s *Scene) {
				e := s.AddEntity("ghost", Collider)
				Collider.SetValue(s.World().Entry(e), ColliderData{Static: physics.NewRectCollider(nil)})
			},
			role: "rect collider",
		},
		{
			name: "tilemap collider without tilemap",
			setup: func(s *Scene) {
				e := s.AddEntity("ghost", Collider)
				Collider.SetValue(s.World().Entry(e), ColliderData{Static: physics.NewTilemapCollider(nil)})
			},
			role: "tilemap collider",
		},
		{
			name:  "collider without implementation",
			setup: func(s *Scene) { s.AddEntity("ghost", Collider, Rect) },
			role:  "collider",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := quietScene(Options{})
			player := s.AddDynamic("player", core.NewRect(0, 0, 1, 1), physics.DynamicBody{Velocity: core.V(1, 1)})
			tc.setup(s)

			_, err := s.Step(1)
			if !errors.Is(err, ErrMissingCapability) {
				t.Fatalf("Step() error = %v, expected ErrMissingCapability", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Step() error %T is not a *ConfigError", err)
			}
			if cfgErr.Role != tc.role || cfgErr.Name != "ghost" {
				t.Errorf("ConfigError = %+v, expected role %q on ghost", cfgErr, tc.role)
			}

			if r, _ := s.RectOf(player); r.X != 0 || r.Y != 0 {
				t.Errorf("player moved to %v despite configuration error", r)
			}
			if s.Frame() != 0 {
				t.Errorf("Frame() = %d, expected 0", s.Frame())
			}
		})
	}
}

func TestSceneConfigErrorLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	s := New(Options{Logger: log.New(&buf)})
	s.AddEntity("ghost", Body)

	for i := 0; i < 3; i++ {
		if _, err := s.Step(0.1); err == nil {
			t.Fatal("Step() should fail")
		}
	}
	if n := strings.Count(buf.String(), "misconfigured entity"); n != 1 {
		t.Errorf("logged %d times, expected once:\n%s", n, buf.String())
	}
}

func TestSceneNoColliders(t *testing.T) {
	s := quietScene(Options{})
	e := s.AddDynamic("rock", core.NewRect(0, 0, 1, 1), physics.DynamicBody{Velocity: core.V(2, 0)})

	res, err := s.Step(0.5)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if !res.Moved {
		t.Error("Moved should be true")
	}
	if r, _ := s.RectOf(e); r.X != 1 {
		t.Errorf("x = %v, expected 1", r.X)
	}
}

func TestSceneFixedStep(t *testing.T) {
	s := quietScene(Options{FixedStep: 0.25, MaxSubSteps: 4})
	e := s.AddDynamic("rock", core.NewRect(0, 0, 1, 1), physics.DynamicBody{Velocity: core.V(1, 0)})

	res, err := s.Step(0.5)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if res.Steps != 2 {
		t.Errorf("Steps = %d, expected 2", res.Steps)
	}
	if r, _ := s.RectOf(e); r.X != 0.5 {
		t.Errorf("x = %v, expected 0.5", r.X)
	}

	res, err = s.Step(0.125)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if res.Steps != 0 || res.Moved {
		t.Errorf("partial frame = %+v, expected no steps and no movement", res)
	}

	res, _ = s.Step(0.125)
	if res.Steps != 1 {
		t.Errorf("Steps = %d, expected 1", res.Steps)
	}
}

func TestSceneResetClock(t *testing.T) {
	s := quietScene(Options{FixedStep: 0.25})
	s.AddDynamic("rock", core.NewRect(0, 0, 1, 1), physics.DynamicBody{Velocity: core.V(1, 0)})

	if _, err := s.Step(0.125); err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if s.PendingTime() != 0.125 {
		t.Fatalf("PendingTime() = %v, expected 0.125", s.PendingTime())
	}

	s.ResetClock()
	if s.PendingTime() != 0 {
		t.Errorf("PendingTime() after ResetClock = %v", s.PendingTime())
	}
	res, _ := s.Step(0.125)
	if res.Steps != 0 {
		t.Errorf("Steps = %d after reset, expected 0", res.Steps)
	}
}

func TestSceneTieBreakOption(t *testing.T) {
	tests := []struct {
		tb        physics.TieBreak
		expectedX float64
	}{
		{physics.LargestFix, 1.25},
		{physics.SmallestFix, 1.5},
	}

	for _, tc := range tests {
		t.Run(tc.tb.String(), func(t *testing.T) {
			s := quietScene(Options{TieBreak: tc.tb})
			s.AddStaticRect("far", core.NewRect(2.5, 0, 1, 1))
			s.AddStaticRect("near", core.NewRect(2.25, 0, 1, 1))
			e := s.AddDynamic("rock", core.NewRect(0, 0, 1, 1), physics.DynamicBody{Velocity: core.V(4, 0)})

			if _, err := s.Step(0.5); err != nil {
				t.Fatalf("Step() error: %v", err)
			}
			if r, _ := s.RectOf(e); r.X != tc.expectedX {
				t.Errorf("x = %v, expected %v", r.X, tc.expectedX)
			}
		})
	}
}

func TestSceneTriggers(t *testing.T) {
	s := quietScene(Options{})
	s.AddDynamic("player", core.NewRect(0, 0, 1, 1), physics.DynamicBody{Velocity: core.V(2, 0)})
	s.AddDynamic("coin", core.NewRect(1.5, 0, 1, 1), physics.DynamicBody{IsTrigger: true})

	res, err := s.Step(0.5)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if len(res.Triggers) != 1 {
		t.Fatalf("Triggers = %+v, expected one", res.Triggers)
	}
	if res.Triggers[0].BodyName != "player" || res.Triggers[0].TriggerName != "coin" {
		t.Errorf("Trigger = %+v", res.Triggers[0])
	}
}

func TestSceneLookup(t *testing.T) {
	s := quietScene(Options{})
	floor := s.AddStaticRect("floor", core.NewRect(0, 5, 10, 1))
	b := s.AddDynamic("b", core.NewRect(0, 0, 1, 1), physics.DynamicBody{})
	s.AddDynamic("a", core.NewRect(2, 0, 1, 1), physics.DynamicBody{IsTrigger: true})

	if s.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", s.Len())
	}
	if e, ok := s.Find("b"); !ok || e != b {
		t.Errorf("Find(b) = %v, %v", e, ok)
	}
	if _, ok := s.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
	if _, ok := s.Body(floor); ok {
		t.Error("Body(floor) should fail for a static entity")
	}

	bodies := s.Bodies()
	if len(bodies) != 2 || bodies[0].Name != "a" || bodies[1].Name != "b" {
		t.Fatalf("Bodies() = %+v, expected a then b", bodies)
	}
	if !bodies[0].IsTrigger {
		t.Error("a should be a trigger")
	}

	rects := s.StaticRects()
	if len(rects) != 1 || rects[0] != core.NewRect(0, 5, 10, 1) {
		t.Errorf("StaticRects() = %v", rects)
	}

	if !s.Remove(b) {
		t.Error("Remove(b) should succeed")
	}
	if s.Remove(b) {
		t.Error("second Remove(b) should report false")
	}
	if _, ok := s.RectOf(b); ok {
		t.Error("RectOf(removed) should fail")
	}
	if s.Len() != 2 {
		t.Errorf("Len() after Remove = %d, expected 2", s.Len())
	}
}

func TestSceneSteeringBetweenFrames(t *testing.T) {
	s := quietScene(Options{})
	e := s.AddDynamic("player", core.NewRect(0, 0, 1, 1), physics.DynamicBody{})

	b, ok := s.Body(e)
	if !ok {
		t.Fatal("Body(player) not found")
	}
	b.Velocity.X = 4

	if _, err := s.Step(0.25); err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if r, _ := s.RectOf(e); r.X != 1 {
		t.Errorf("x = %v, expected 1", r.X)
	}
}
