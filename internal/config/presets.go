package config

import (
	"fmt"
	"slices"
)

// Preset is a named set of physics overrides.
type Preset string

const (
	PresetDefault Preset = "default"
	PresetMoon    Preset = "moon"
	PresetHeavy   Preset = "heavy"
	PresetIce     Preset = "ice"
	PresetFixed   Preset = "fixed"
)

// Presets lists every known preset in display order.
func Presets() []Preset {
	return []Preset{PresetDefault, PresetMoon, PresetHeavy, PresetIce, PresetFixed}
}

// ParsePreset validates a preset name. Empty means PresetDefault.
func ParsePreset(s string) (Preset, error) {
	if s == "" {
		return PresetDefault, nil
	}
	p := Preset(s)
	if !slices.Contains(Presets(), p) {
		return PresetDefault, fmt.Errorf("config: unknown preset %q", s)
	}
	return p, nil
}

// ApplyPreset modifies cfg in place.
func ApplyPreset(cfg *Config, p Preset) {
	switch p {
	case PresetMoon:
		cfg.Physics.Gravity.Y /= 6
		cfg.Player.JumpSpeed *= 0.6
	case PresetHeavy:
		cfg.Physics.Gravity.Y *= 2
		cfg.Player.JumpSpeed *= 1.4
	case PresetIce:
		cfg.Physics.Friction.X /= 10
	case PresetFixed:
		// Fixed-rate integration independent of the frame clock.
		cfg.Physics.FixedStep = 1.0 / 120.0
		if cfg.Physics.MaxSubSteps == 0 {
			cfg.Physics.MaxSubSteps = 8
		}
	}
}
