package tui

import (
	"fmt"

	"github.com/vovakirdan/tilebox/internal/core"
)

// Glyph is how one kind of world element looks on screen.
type Glyph struct {
	Rune  rune
	Color core.Color
}

// Palette maps tile resources to glyphs. It is created by the caller and
// handed to DrawScene; nothing in the package keeps a shared copy.
type Palette struct {
	tiles   map[string]Glyph
	Unknown Glyph // tiles whose resource has no entry
	Rect    Glyph // static rect colliders
	Body    Glyph // dynamic bodies in the air
	Landed  Glyph // dynamic bodies resting on something
	Trigger Glyph // trigger bodies
}

// NewPalette returns an empty palette with the element glyphs set.
func NewPalette() *Palette {
	return &Palette{
		tiles:   make(map[string]Glyph),
		Unknown: Glyph{Rune: '?', Color: core.ColorMagenta},
		Rect:    Glyph{Rune: '=', Color: core.ColorCyan},
		Body:    Glyph{Rune: '@', Color: core.ColorBrightYellow},
		Landed:  Glyph{Rune: '@', Color: core.ColorBrightGreen},
		Trigger: Glyph{Rune: '*', Color: core.ColorYellow},
	}
}

// DefaultPalette returns a palette that knows the resources used by the
// built-in levels.
func DefaultPalette() *Palette {
	p := NewPalette()
	p.Set("ground", Glyph{Rune: '#', Color: core.ColorBrown})
	p.Set("stone", Glyph{Rune: '#', Color: core.ColorGray})
	p.Set("brick", Glyph{Rune: '%', Color: core.ColorRed})
	p.Set("crate", Glyph{Rune: 'x', Color: core.ColorYellow})
	p.Set("ice", Glyph{Rune: '~', Color: core.ColorBrightBlue})
	return p
}

// Set assigns the glyph for a tile resource.
func (p *Palette) Set(resource string, g Glyph) {
	p.tiles[resource] = g
}

// SetNamed assigns a glyph using a color name such as "bright_red".
func (p *Palette) SetNamed(resource string, r rune, colorName string) error {
	c, ok := core.ParseColor(colorName)
	if !ok {
		return fmt.Errorf("tui: unknown color %q for resource %q", colorName, resource)
	}
	p.Set(resource, Glyph{Rune: r, Color: c})
	return nil
}

// Tile returns the glyph for a tile resource, or Unknown.
func (p *Palette) Tile(resource string) Glyph {
	if g, ok := p.tiles[resource]; ok {
		return g
	}
	return p.Unknown
}

// Len returns the number of tile resources with a glyph.
func (p *Palette) Len() int {
	return len(p.tiles)
}
