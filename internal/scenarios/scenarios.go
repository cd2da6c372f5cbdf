// Package scenarios registers the built-in scenarios: small hand-made worlds
// that exercise one behavior each, plus one scenario per embedded level.
package scenarios

import (
	"fmt"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/levels"
	"github.com/vovakirdan/tilebox/internal/physics"
	"github.com/vovakirdan/tilebox/internal/registry"
	"github.com/vovakirdan/tilebox/internal/scene"
	"github.com/vovakirdan/tilebox/internal/tilemap"
)

// PlayerName labels the focus body of every hand-made scenario.
const PlayerName = levels.PlayerName

func init() {
	registry.Register("freefall", func() registry.Scenario { return Freefall{} })
	registry.Register("ledge", func() registry.Scenario { return Ledge{} })
	registry.Register("wall", func() registry.Scenario { return Wall{} })

	builtin, err := levels.Builtin()
	if err != nil {
		panic(fmt.Sprintf("scenarios: %v", err))
	}
	for _, lvl := range builtin {
		registry.Register(LevelID(lvl.ID), func() registry.Scenario { return FromLevel(lvl) })
	}
}

// RegisterDir registers every level under dir as level/<id> and returns the
// scenario IDs it added. IDs already registered, built-in levels included,
// keep their first registration.
func RegisterDir(dir string) ([]string, error) {
	lvls, err := levels.NewLoader(dir).LoadAll()
	if err != nil {
		return nil, err
	}
	var added []string
	for _, lvl := range lvls {
		id := LevelID(lvl.ID)
		if registry.Exists(id) {
			continue
		}
		registry.Register(id, func() registry.Scenario { return FromLevel(lvl) })
		added = append(added, id)
	}
	return added, nil
}

// Freefall drops a body from 10 units onto a floor with gravity (0, 50).
// The body must come to rest on the floor without bouncing.
type Freefall struct{}

func (Freefall) ID() string    { return "freefall" }
func (Freefall) Title() string { return "Free Fall" }
func (Freefall) Focus() string { return PlayerName }

// FloorTop is the Y of the floor surface.
const FloorTop = 10.0

func (Freefall) Build(env registry.Env) (*scene.Scene, error) {
	s := scene.New(env.SceneOptions())
	s.AddStaticRect("floor", core.NewRect(-10, FloorTop, 20, 1))

	w, h := env.Config.Player.Width, env.Config.Player.Height
	s.AddDynamic(PlayerName, core.NewRect(-w/2, FloorTop-10-h, w, h), physics.DynamicBody{
		Gravity: core.V(0, 50),
	})
	return s, nil
}

// Ledge slides a body off the end of a platform onto the ground below.
type Ledge struct{}

func (Ledge) ID() string    { return "ledge" }
func (Ledge) Title() string { return "Ledge" }
func (Ledge) Focus() string { return PlayerName }

// Ledge geometry.
const (
	LedgeEnd    = 8.0
	LedgeTop    = 6.0
	LedgeGround = 14.0
)

func (Ledge) Build(env registry.Env) (*scene.Scene, error) {
	s := scene.New(env.SceneOptions())
	s.AddStaticRect("platform", core.NewRect(0, LedgeTop, LedgeEnd, 1))
	s.AddStaticRect("ground", core.NewRect(-10, LedgeGround, 40, 1))

	w, h := env.Config.Player.Width, env.Config.Player.Height
	s.AddDynamic(PlayerName, core.NewRect(LedgeEnd-2*w, LedgeTop-h, w, h), physics.DynamicBody{
		Velocity: core.V(env.Config.Player.MoveSpeed/2, 0),
		Gravity:  env.Config.Physics.Gravity.Vec2(),
	})
	return s, nil
}

// Wall pushes a body into two overlapping walls on a tile floor. Where it
// stops depends on the tie-break policy.
type Wall struct{}

func (Wall) ID() string    { return "wall" }
func (Wall) Title() string { return "Wall (tie-break)" }
func (Wall) Focus() string { return PlayerName }

// Wall geometry: the near wall face is at WallNear, the far one at WallFar.
const (
	WallNear  = 6.0
	WallFar   = 6.25
	WallFloor = 9
)

func (Wall) Build(env registry.Env) (*scene.Scene, error) {
	s := scene.New(env.SceneOptions())

	grid := tilemap.NewGrid(env.Config.World.ChunkSize)
	for x := -10; x <= 10; x++ {
		grid.SetTile(core.C(x, WallFloor), tilemap.NewTile("ground"))
	}
	s.AddTilemap("floor", grid)
	s.AddStaticRect("wall-near", core.NewRect(WallNear, 0, 1, WallFloor))
	s.AddStaticRect("wall-far", core.NewRect(WallFar, 0, 1, WallFloor))

	w, h := env.Config.Player.Width, env.Config.Player.Height
	s.AddDynamic(PlayerName, core.NewRect(0, WallFloor-h, w, h), physics.DynamicBody{
		Velocity: core.V(30, 0),
		Gravity:  env.Config.Physics.Gravity.Vec2(),
	})
	return s, nil
}

// LevelID returns the scenario ID for a level.
func LevelID(levelID string) string {
	return "level/" + levelID
}

// Level is a scenario backed by a level definition.
type Level struct {
	lvl levels.Level
}

// FromLevel wraps a level as a scenario.
func FromLevel(lvl levels.Level) Level {
	return Level{lvl: lvl}
}

func (l Level) ID() string    { return LevelID(l.lvl.ID) }
func (l Level) Title() string { return l.lvl.Name }
func (l Level) Focus() string { return l.lvl.Focus() }

func (l Level) Build(env registry.Env) (*scene.Scene, error) {
	return l.lvl.Build(env.Config, env.SceneOptions())
}
