// Package tilemap implements a sparse tile grid partitioned into square chunks.
//
// Only occupied cells are stored. A chunk exists only while it holds at least
// one tile, so memory follows the occupied area rather than the world extent.
package tilemap

import (
	"iter"

	"github.com/vovakirdan/tilebox/internal/core"
)

// DefaultChunkSize is the chunk side used when none is given.
const DefaultChunkSize = 16

// Tile is one occupied grid cell. Resource is an opaque key into a content
// cache owned by the renderer; the grid never interprets it.
type Tile struct {
	Resource string
}

// NewTile creates a tile referencing the given resource key.
func NewTile(resource string) *Tile {
	return &Tile{Resource: resource}
}

// Chunk is a size×size block of the grid. Tiles are keyed by local coordinates
// in [0, size).
type Chunk struct {
	origin core.Coord
	size   int
	tiles  map[core.Coord]*Tile
}

func newChunk(origin core.Coord, size int) *Chunk {
	return &Chunk{
		origin: origin,
		size:   size,
		tiles:  make(map[core.Coord]*Tile),
	}
}

// Origin returns the world coordinate of the chunk's local (0,0).
func (c *Chunk) Origin() core.Coord {
	return c.origin
}

// Size returns the side length of the chunk in cells.
func (c *Chunk) Size() int {
	return c.size
}

// Get returns the tile at a local coordinate, or nil.
func (c *Chunk) Get(local core.Coord) *Tile {
	return c.tiles[local]
}

// Len returns the number of occupied cells.
func (c *Chunk) Len() int {
	return len(c.tiles)
}

// All yields local coordinates and tiles in map order.
func (c *Chunk) All() iter.Seq2[core.Coord, *Tile] {
	return func(yield func(core.Coord, *Tile) bool) {
		for local, t := range c.tiles {
			if !yield(local, t) {
				return
			}
		}
	}
}

func (c *Chunk) set(local core.Coord, t *Tile) {
	if t == nil {
		delete(c.tiles, local)
		return
	}
	c.tiles[local] = t
}
