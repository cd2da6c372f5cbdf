// Package scene owns the entities of a simulation and runs the physics pass.
//
// Entities publish capabilities as donburi components. Each Step queries the
// world for every entity with a Body or a Collider, attaches the geometry
// those capabilities need, and hands the lists to the integrator.
package scene

import (
	"github.com/yohamta/donburi"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/physics"
	"github.com/vovakirdan/tilebox/internal/tilemap"
)

// ColliderData wraps a static collider so it can live in component storage.
type ColliderData struct {
	Static physics.StaticCollider
}

// TilemapData holds the grid a tilemap entity exposes.
type TilemapData struct {
	Grid *tilemap.Grid
}

// LabelData names an entity for lookup and display.
type LabelData struct {
	Name string
}

// Capabilities an entity can publish.
var (
	Rect     = donburi.NewComponentType[core.Rect]()
	Body     = donburi.NewComponentType[physics.DynamicBody]()
	Collider = donburi.NewComponentType[ColliderData]()
	Tilemap  = donburi.NewComponentType[TilemapData]()
	Label    = donburi.NewComponentType[LabelData]()
)
