// Package levels loads YAML level files and builds scenes from them.
package levels

import (
	"fmt"

	"github.com/vovakirdan/tilebox/internal/config"
	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/physics"
	"github.com/vovakirdan/tilebox/internal/scene"
	"github.com/vovakirdan/tilebox/internal/tilemap"
)

// PlayerName is the label of the body spawned for the "P" map marker.
const PlayerName = "player"

// Level is a parsed level definition.
type Level struct {
	ID        string
	Name      string
	ChunkSize int       // 0 uses the configured chunk size
	Cell      core.Vec2 // zero uses the configured cell size
	Origin    core.Vec2
	Gravity   *core.Vec2 // nil uses the configured gravity
	Tiles     map[core.Coord]string
	Spawns    []Spawn
	Rects     []StaticRect
	FilePath  string
}

// Spawn is a dynamic body to create when the level is built.
type Spawn struct {
	Name string
	// Cell places the body inside a map cell: players stand on the cell's
	// bottom edge, triggers are centered. When nil, Rect is used as is.
	Cell     *core.Coord
	Rect     core.Rect // zero size uses the configured player size
	Velocity core.Vec2
	Trigger  bool
}

// StaticRect is a named rect collider.
type StaticRect struct {
	Name string
	Rect core.Rect
}

// Focus returns the name of the body a viewer should follow: the player if
// there is one, otherwise the first non-trigger spawn.
func (l Level) Focus() string {
	for _, s := range l.Spawns {
		if s.Name == PlayerName {
			return s.Name
		}
	}
	for _, s := range l.Spawns {
		if !s.Trigger {
			return s.Name
		}
	}
	return ""
}

// Grid creates the tile layer described by the level.
func (l Level) Grid(cfg config.Config) *tilemap.Grid {
	chunk := l.ChunkSize
	if chunk <= 0 {
		chunk = cfg.World.ChunkSize
	}
	grid := tilemap.NewGrid(chunk)
	grid.SetCellSize(cfg.World.Cell.Vec2())
	if l.Cell.X > 0 || l.Cell.Y > 0 {
		grid.SetCellSize(l.Cell)
	}
	grid.SetOrigin(l.Origin)

	for p, res := range l.Tiles {
		grid.SetTile(p, tilemap.NewTile(res))
	}
	return grid
}

// Build creates a scene containing the level's tiles, rect colliders and bodies.
func (l Level) Build(cfg config.Config, opts scene.Options) (*scene.Scene, error) {
	s := scene.New(opts)
	grid := l.Grid(cfg)
	s.AddTilemap(l.ID, grid)

	for _, r := range l.Rects {
		s.AddStaticRect(r.Name, r.Rect)
	}

	gravity := cfg.Physics.Gravity.Vec2()
	if l.Gravity != nil {
		gravity = *l.Gravity
	}
	friction := cfg.Physics.Friction.Vec2()
	playerSize := core.V(cfg.Player.Width, cfg.Player.Height)

	for _, sp := range l.Spawns {
		rect, err := spawnRect(sp, grid, playerSize)
		if err != nil {
			return nil, fmt.Errorf("levels: %s: %w", l.ID, err)
		}
		body := physics.DynamicBody{Velocity: sp.Velocity, IsTrigger: sp.Trigger}
		if !sp.Trigger {
			body.Gravity = gravity
			body.Friction = friction
		}
		s.AddDynamic(sp.Name, rect, body)
	}
	return s, nil
}

func spawnRect(sp Spawn, grid *tilemap.Grid, playerSize core.Vec2) (core.Rect, error) {
	if sp.Cell == nil {
		rect := sp.Rect
		if rect.W == 0 && rect.H == 0 {
			rect.SetSize(playerSize)
		}
		if rect.W == 0 || rect.H == 0 {
			return core.Rect{}, fmt.Errorf("spawn %s has zero size", sp.Name)
		}
		return rect, nil
	}

	cell := grid.CellRect(*sp.Cell)
	if sp.Trigger {
		size := cell.Size().Scale(0.5)
		return core.RectFrom(cell.Center().Sub(size.Scale(0.5)), size), nil
	}
	pos := core.V(cell.Center().X-playerSize.X/2, cell.Max().Y-playerSize.Y)
	return core.RectFrom(pos, playerSize), nil
}
