package config

import (
	_ "embed"
)

//go:embed defaults/tilebox.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Physics: PhysicsConfig{
			Gravity:     Vec{X: 0, Y: 50},
			Friction:    Vec{X: 30, Y: 0},
			TieBreak:    "largest",
			DeltaTime:   1.0 / 60.0,
			FixedStep:   0,
			MaxSubSteps: 5,
		},
		World: WorldConfig{
			ChunkSize: 16,
			Cell:      Size{W: 1, H: 1},
		},
		Player: PlayerConfig{
			Width:     0.8,
			Height:    1.6,
			MoveSpeed: 10,
			JumpSpeed: 22,
		},
		Viewer: ViewerConfig{
			TickRate:    60,
			ColsPerUnit: 2,
			RowsPerUnit: 1,
		},
	}
}
