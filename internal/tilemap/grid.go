package tilemap

import (
	"iter"
	"math"

	"github.com/vovakirdan/tilebox/internal/core"
)

// Grid is an unbounded sparse tile grid. Chunks are keyed by their origin,
// floor(p/chunkSize)*chunkSize, and created lazily on first write.
//
// Grid also carries the world transform of the tile layer: cell (0,0) sits at
// Origin and every cell spans CellSize world units.
type Grid struct {
	chunkSize int
	chunks    map[core.Coord]*Chunk
	count     int

	cellSize core.Vec2
	origin   core.Vec2
}

// NewGrid creates an empty grid. A non-positive chunk size falls back to
// DefaultChunkSize.
func NewGrid(chunkSize int) *Grid {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Grid{
		chunkSize: chunkSize,
		chunks:    make(map[core.Coord]*Chunk),
		cellSize:  core.V(1, 1),
	}
}

// ChunkSize returns the chunk side length in cells.
func (g *Grid) ChunkSize() int {
	return g.chunkSize
}

// CellSize returns the world size of one cell.
func (g *Grid) CellSize() core.Vec2 {
	return g.cellSize
}

// SetCellSize sets the world size of one cell. Non-positive components are ignored.
func (g *Grid) SetCellSize(s core.Vec2) {
	if s.X > 0 {
		g.cellSize.X = s.X
	}
	if s.Y > 0 {
		g.cellSize.Y = s.Y
	}
}

// Origin returns the world position of cell (0,0).
func (g *Grid) Origin() core.Vec2 {
	return g.origin
}

// SetOrigin moves the tile layer in world space.
func (g *Grid) SetOrigin(o core.Vec2) {
	g.origin = o
}

// ChunkOrigin returns the origin of the chunk that owns world cell p.
func (g *Grid) ChunkOrigin(p core.Coord) core.Coord {
	return core.Coord{
		X: core.FloorDiv(p.X, g.chunkSize) * g.chunkSize,
		Y: core.FloorDiv(p.Y, g.chunkSize) * g.chunkSize,
	}
}

// ChunkAt returns the chunk owning p, or nil if that chunk holds no tiles.
func (g *Grid) ChunkAt(p core.Coord) *Chunk {
	return g.chunks[g.ChunkOrigin(p)]
}

// SetTile places t at p. A nil tile removes whatever is there; removing an
// empty cell is a no-op. Chunks left empty are dropped.
func (g *Grid) SetTile(p core.Coord, t *Tile) {
	origin := g.ChunkOrigin(p)
	local := p.Sub(origin)

	ch, ok := g.chunks[origin]
	if !ok {
		if t == nil {
			return
		}
		ch = newChunk(origin, g.chunkSize)
		g.chunks[origin] = ch
	}

	before := ch.Len()
	ch.set(local, t)
	g.count += ch.Len() - before

	if ch.Len() == 0 {
		delete(g.chunks, origin)
	}
}

// GetTile returns the tile at p, or nil when the cell is empty.
func (g *Grid) GetTile(p core.Coord) *Tile {
	origin := g.ChunkOrigin(p)
	ch, ok := g.chunks[origin]
	if !ok {
		return nil
	}
	return ch.Get(p.Sub(origin))
}

// AllTiles yields every occupied cell in world coordinates. Each call walks
// the chunks afresh; order follows map iteration.
func (g *Grid) AllTiles() iter.Seq2[core.Coord, *Tile] {
	return func(yield func(core.Coord, *Tile) bool) {
		for origin, ch := range g.chunks {
			for local, t := range ch.tiles {
				if !yield(origin.Add(local), t) {
					return
				}
			}
		}
	}
}

// Chunks yields every non-empty chunk.
func (g *Grid) Chunks() iter.Seq[*Chunk] {
	return func(yield func(*Chunk) bool) {
		for _, ch := range g.chunks {
			if !yield(ch) {
				return
			}
		}
	}
}

// ChunkCount returns the number of allocated chunks.
func (g *Grid) ChunkCount() int {
	return len(g.chunks)
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	return g.count
}

// Clear removes every tile.
func (g *Grid) Clear() {
	clear(g.chunks)
	g.count = 0
}

// WorldToCell returns the cell containing world point w.
func (g *Grid) WorldToCell(w core.Vec2) core.Coord {
	rel := w.Sub(g.origin)
	return core.Coord{
		X: int(math.Floor(rel.X / g.cellSize.X)),
		Y: int(math.Floor(rel.Y / g.cellSize.Y)),
	}
}

// CellToWorld returns the world position of the top-left corner of cell c.
func (g *Grid) CellToWorld(c core.Coord) core.Vec2 {
	return core.Vec2{
		X: g.origin.X + float64(c.X)*g.cellSize.X,
		Y: g.origin.Y + float64(c.Y)*g.cellSize.Y,
	}
}

// CellRect returns the world rectangle covered by cell c.
func (g *Grid) CellRect(c core.Coord) core.Rect {
	return core.RectFrom(g.CellToWorld(c), g.cellSize)
}

// Bounds returns the smallest cell range containing every tile as a world
// rectangle, and false when the grid is empty.
func (g *Grid) Bounds() (core.Rect, bool) {
	first := true
	var lo, hi core.Coord
	for p := range g.AllTiles() {
		if first {
			lo, hi = p, p
			first = false
			continue
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	if first {
		return core.Rect{}, false
	}
	return g.CellRect(lo).Union(g.CellRect(hi)), true
}
