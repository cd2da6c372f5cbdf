package scene

import (
	"errors"
	"fmt"

	"github.com/yohamta/donburi"
)

// ErrMissingCapability is wrapped by every ConfigError.
var ErrMissingCapability = errors.New("scene: missing capability")

// ConfigError reports an entity that cannot take part in the physics pass
// because a capability its role requires is absent.
type ConfigError struct {
	Entity  donburi.Entity
	Name    string
	Role    string // "body", "rect collider", "tilemap collider" or "collider"
	Missing string // capability that is absent
}

func (e *ConfigError) Error() string {
	name := e.Name
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("scene: %s %q has no %s", e.Role, name, e.Missing)
}

func (e *ConfigError) Unwrap() error {
	return ErrMissingCapability
}
