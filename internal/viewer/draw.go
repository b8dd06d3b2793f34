package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Army-Command/internal/game"
)

var (
	colBackground = color.RGBA{R: 28, G: 28, B: 28, A: 255}
	colGrid       = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	colGridMajor  = color.RGBA{R: 58, G: 58, B: 58, A: 255}
	colTileFill   = color.RGBA{R: 18, G: 18, B: 18, A: 255}
	colHUD        = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	colHUDText    = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	colButton     = color.RGBA{R: 70, G: 70, B: 70, A: 255}
	colWinner     = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

var sideColors = [2]color.RGBA{
	game.SideBlue: {R: 60, G: 140, B: 255, A: 255},
	game.SideRed:  {R: 240, G: 70, B: 70, A: 255},
}

// echelonColors underline headquarters by tier.
var echelonColors = map[game.Echelon]color.RGBA{
	game.EchelonRegiment: {R: 180, G: 255, B: 120, A: 255},
	game.EchelonBrigade:  {R: 255, G: 200, B: 100, A: 255},
	game.EchelonDivision: {R: 255, G: 255, B: 120, A: 255},
	game.EchelonArmy:     {R: 255, G: 255, B: 0, A: 255},
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	v.drawGrid(screen)

	v.battle.Engine.ForEachUnit(func(u game.UnitSnapshot) {
		if u.Alive {
			v.drawUnit(screen, u)
		}
	})
	if v.overlay >= 0 {
		v.drawContacts(screen, game.Side(v.overlay))
	}
	if v.showHUD {
		v.drawHUD(screen)
	}
}

func (v *Viewer) drawGrid(screen *ebiten.Image) {
	n := v.cfg.GridSize
	size := float32(n * cellSize)
	for i := 0; i <= n; i++ {
		c := colGrid
		if i%10 == 0 {
			c = colGridMajor
		}
		p := float32(i * cellSize)
		vector.StrokeLine(screen, p, 0, p, size, 1, c, false)
		vector.StrokeLine(screen, 0, p, size, p, 1, c, false)
	}
}

// tileRect is the inner square of a cell, inset one pixel.
func tileRect(p game.Position) (x, y, w, h float32) {
	return float32(p.X*cellSize + 1), float32(p.Y*cellSize + 1), cellSize - 2, cellSize - 2
}

func (v *Viewer) drawUnit(screen *ebiten.Image, u game.UnitSnapshot) {
	x, y, w, h := tileRect(u.Pos)
	sc := sideColors[u.Side]
	vector.FillRect(screen, x, y, w, h, colTileFill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, sc, false)

	if u.Echelon.IsHQ() {
		// pennant: mast plus flag
		vector.StrokeLine(screen, x+1, y+h-1, x+1, y+1, 1, sc, false)
		vector.StrokeLine(screen, x+1, y+1, x+w-1, y+2, 1, sc, false)
		vector.StrokeLine(screen, x+w-1, y+2, x+1, y+4, 1, sc, false)
		vector.StrokeLine(screen, x+1, y+h-1, x+w-1, y+h-1, 1, echelonColors[u.Echelon], false)
		return
	}
	drawSymbol(screen, u.Type, x, y, w, h, sc)
}

// drawSymbol draws a small per-type glyph inside a tile.
func drawSymbol(screen *ebiten.Image, unitType string, x, y, w, h float32, c color.RGBA) {
	cx, cy := x+w/2, y+h/2
	switch unitType {
	case "infantry":
		vector.StrokeLine(screen, x+1, cy-1, x+w-1, cy-1, 1, c, false)
		vector.StrokeLine(screen, x+1, cy+1, x+w-1, cy+1, 1, c, false)
	case "mech_infantry":
		vector.StrokeRect(screen, x+1, y+1, w-2, h-2, 1, c, false)
		vector.StrokeLine(screen, x+1, cy, x+w-1, cy, 1, c, false)
	case "tank":
		vector.FillRect(screen, x+1, cy-1, w-2, 2, c, false)
	case "artillery":
		vector.StrokeLine(screen, x+1, y+h-1, x+w-1, y+1, 1, c, false)
	case "air_defense":
		vector.StrokeLine(screen, cx, y+1, x+w-1, y+h-1, 1, c, false)
		vector.StrokeLine(screen, x+w-1, y+h-1, x+1, y+h-1, 1, c, false)
		vector.StrokeLine(screen, x+1, y+h-1, cx, y+1, 1, c, false)
	case "drone":
		vector.StrokeLine(screen, x+1, cy, x+w-1, cy, 1, c, false)
		vector.StrokeLine(screen, cx, y+1, cx, y+h-1, 1, c, false)
	default:
		vector.StrokeCircle(screen, cx, cy, 2, 1, c, false)
	}
}

// drawContacts outlines every cell the given side believes holds an enemy.
func (v *Viewer) drawContacts(screen *ebiten.Image, s game.Side) {
	cl, ok := v.battle.Sensors[s].(contactLister)
	if !ok {
		return
	}
	c := sideColors[s]
	c.A = 160
	for _, ct := range cl.Contacts() {
		x, y, w, h := tileRect(ct.Pos)
		vector.StrokeRect(screen, x-1, y-1, w+2, h+2, 1, c, false)
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	top := float32(v.cfg.GridSize * cellSize)
	vector.FillRect(screen, 0, top, float32(v.width), hudHeight, colHUD, false)

	st := v.battle.Engine.Status()
	blue, red := st.Sides[game.SideBlue], st.Sides[game.SideRed]

	speed := fmt.Sprintf("%gx", v.simSpeed)
	switch {
	case v.result.Decided:
		speed = "OVER"
	case v.paused:
		speed = "PAUSED"
	case v.turnPaused:
		speed = "TURN END"
	}
	overlay := "off"
	if v.overlay >= 0 {
		overlay = game.Side(v.overlay).String()
	}

	lines := []string{
		fmt.Sprintf("T=%d  turn %d  %.1fs/%.0fs  [%s]  Space=pause ,/.=speed",
			st.Tick, st.Turn+1, v.battle.Engine.TurnTime(), v.cfg.TurnSeconds, speed),
		fmt.Sprintf("Blue bn %d/%d lost %d edge %d   Red bn %d/%d lost %d edge %d",
			blue.Living, blue.Total, blue.Losses, blue.Breakthroughs,
			red.Living, red.Total, red.Losses, red.Breakthroughs),
		fmt.Sprintf("V=recon overlay (%s)  C=copy report  H=hide HUD", overlay),
	}
	if v.flashLeft > 0 {
		lines = append(lines, v.flash)
	}
	for i, l := range lines {
		v.drawText(screen, l, 8, float64(top)+6+float64(i*15), colHUDText)
	}

	if w, ok := st.Winner(); ok {
		msg := fmt.Sprintf("Winner: %s (%s)", sideName(w), st.Reason)
		v.drawText(screen, msg, float64(v.width)/2-80, 10, colWinner)
	}

	if v.turnPaused {
		r := v.continueAt
		vector.FillRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), colButton, false)
		v.drawText(screen, "Continue", float64(r.Min.X)+30, float64(r.Min.Y)+8, colHUDText)
	}
}

func (v *Viewer) drawText(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, v.face, op)
}

func sideName(s game.Side) string {
	if s == game.SideRed {
		return "Red"
	}
	return "Blue"
}
