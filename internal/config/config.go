// Package config provides YAML-based configuration for the simulation, the
// world layout, the controllable player and the terminal viewer.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/physics"
)

// Config is the full tilebox configuration.
type Config struct {
	Physics PhysicsConfig `yaml:"physics"`
	World   WorldConfig   `yaml:"world"`
	Player  PlayerConfig  `yaml:"player"`
	Viewer  ViewerConfig  `yaml:"viewer"`
}

// Vec is a YAML-friendly 2D vector.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec2 converts to the geometry type.
func (v Vec) Vec2() core.Vec2 {
	return core.V(v.X, v.Y)
}

// Size is a YAML-friendly width/height pair.
type Size struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Vec2 converts to the geometry type.
func (s Size) Vec2() core.Vec2 {
	return core.V(s.W, s.H)
}

// PhysicsConfig defines integration parameters.
type PhysicsConfig struct {
	Gravity     Vec     `yaml:"gravity"`      // units/s², Y grows downward
	Friction    Vec     `yaml:"friction"`     // per-axis deceleration, units/s²
	TieBreak    string  `yaml:"tie_break"`    // "largest" or "smallest"
	DeltaTime   float64 `yaml:"delta_time"`   // headless frame delta in seconds
	FixedStep   float64 `yaml:"fixed_step"`   // 0 = one step per frame
	MaxSubSteps int     `yaml:"max_substeps"` // cap per frame when fixed_step > 0
}

// WorldConfig defines the tile layer.
type WorldConfig struct {
	ChunkSize int  `yaml:"chunk_size"`
	Cell      Size `yaml:"cell"`
}

// PlayerConfig defines the body spawned for "P" markers and steered by the viewer.
type PlayerConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	MoveSpeed float64 `yaml:"move_speed"` // horizontal speed while a direction is held
	JumpSpeed float64 `yaml:"jump_speed"` // upward speed applied on jump
}

// ViewerConfig defines the terminal viewer.
type ViewerConfig struct {
	TickRate    int     `yaml:"tick_rate"`     // frames per second
	ColsPerUnit float64 `yaml:"cols_per_unit"` // terminal columns per world unit
	RowsPerUnit float64 `yaml:"rows_per_unit"` // terminal rows per world unit
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Validate checks that every value is usable.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.World.ChunkSize > 0, "world.chunk_size must be positive, got %d", c.World.ChunkSize)
	check(c.World.Cell.W > 0 && c.World.Cell.H > 0, "world.cell must be positive, got %vx%v", c.World.Cell.W, c.World.Cell.H)
	check(c.Physics.Friction.X >= 0 && c.Physics.Friction.Y >= 0, "physics.friction must not be negative")
	check(c.Physics.DeltaTime > 0, "physics.delta_time must be positive, got %v", c.Physics.DeltaTime)
	check(c.Physics.FixedStep >= 0, "physics.fixed_step must not be negative, got %v", c.Physics.FixedStep)
	check(c.Physics.MaxSubSteps >= 0, "physics.max_substeps must not be negative, got %d", c.Physics.MaxSubSteps)
	check(c.Player.Width > 0 && c.Player.Height > 0, "player size must be positive")
	check(c.Viewer.TickRate > 0, "viewer.tick_rate must be positive, got %d", c.Viewer.TickRate)
	check(c.Viewer.ColsPerUnit > 0 && c.Viewer.RowsPerUnit > 0, "viewer scale must be positive")

	if _, err := physics.ParseTieBreak(c.Physics.TieBreak); err != nil {
		errs = append(errs, fmt.Errorf("%w: physics.tie_break: %v", ErrInvalid, err))
	}

	return errors.Join(errs...)
}

// TieBreak returns the parsed aggregation policy. Invalid names fall back to
// the default; Validate reports them.
func (c Config) TieBreak() physics.TieBreak {
	tb, _ := physics.ParseTieBreak(c.Physics.TieBreak)
	return tb
}
