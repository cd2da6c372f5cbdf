package tui

import (
	"fmt"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/scene"
	"github.com/vovakirdan/tilebox/internal/tilemap"
)

// DrawScene clears the screen and draws the scene as seen through the camera:
// tile layers first, then static rects, then bodies, then a status line on
// the bottom row.
func DrawScene(screen *core.Screen, s *scene.Scene, cam Camera, pal *Palette) {
	screen.Clear()
	if pal == nil {
		pal = DefaultPalette()
	}

	for _, g := range s.Grids() {
		drawGrid(screen, g, cam, pal)
	}

	for _, r := range s.StaticRects() {
		x, y, w, h := cam.Project(r)
		screen.FillRect(x, y, w, h, pal.Rect.Rune, pal.Rect.Color)
	}

	bodies := s.Bodies()
	for _, b := range bodies {
		g := pal.Body
		switch {
		case b.IsTrigger:
			g = pal.Trigger
		case b.Grounded:
			g = pal.Landed
		}
		x, y, w, h := cam.Project(b.Rect)
		screen.FillRect(x, y, w, h, g.Rune, g.Color)
	}

	status := fmt.Sprintf(" frame %d  bodies %d ", s.Frame(), len(bodies))
	screen.DrawText(0, screen.Height()-1, status, core.ColorGray)
}

// drawGrid draws the tiles of g that fall inside the camera view.
func drawGrid(screen *core.Screen, g *tilemap.Grid, cam Camera, pal *Palette) {
	view := cam.Visible()
	lo := g.WorldToCell(view.Min())
	hi := g.WorldToCell(view.Max())

	for cy := lo.Y; cy <= hi.Y; cy++ {
		for cx := lo.X; cx <= hi.X; cx++ {
			c := core.C(cx, cy)
			t := g.GetTile(c)
			if t == nil {
				continue
			}
			glyph := pal.Tile(t.Resource)
			x, y, w, h := cam.Project(g.CellRect(c))
			screen.FillRect(x, y, w, h, glyph.Rune, glyph.Color)
		}
	}
}

// DrawHUD writes lines of text from the top-left corner.
func DrawHUD(screen *core.Screen, lines ...string) {
	for i, line := range lines {
		screen.DrawText(1, i, line, core.ColorWhite)
	}
}
