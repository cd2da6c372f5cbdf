// Package registry provides a global registry for scenario factories.
// Scenarios register themselves in init() functions, allowing the CLI and the
// viewer to discover and build them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilebox/internal/config"
	"github.com/vovakirdan/tilebox/internal/scene"
)

// Env is what a scenario needs to build its scene.
type Env struct {
	Config config.Config
	Logger *log.Logger
}

// SceneOptions derives scene options from the configuration.
func (e Env) SceneOptions() scene.Options {
	return scene.Options{
		TieBreak:    e.Config.TieBreak(),
		FixedStep:   e.Config.Physics.FixedStep,
		MaxSubSteps: e.Config.Physics.MaxSubSteps,
		Logger:      e.Logger,
	}
}

// Scenario is a named, reproducible world setup.
type Scenario interface {
	// ID returns a unique identifier (e.g., "freefall", "level/intro").
	// Used for CLI commands and run history.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Focus names the body a viewer should follow. Empty means none.
	Focus() string

	// Build creates a fresh scene. Every call returns an independent world.
	Build(env Env) (*scene.Scene, error)
}

// ScenarioInfo contains metadata about a registered scenario.
type ScenarioInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scenario.
type Factory func() Scenario

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from an init() function.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered scenarios, sorted by ID.
func List() []ScenarioInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ScenarioInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ScenarioInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a scenario by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown scenario %q", id)
	}

	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
