package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Army-Command/internal/game"
)

// statusRows is the space kept below the map for status text.
const statusRows = 3

var sideStyles = [2]tcell.Style{
	game.SideBlue: tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue),
	game.SideRed:  tcell.StyleDefault.Foreground(tcell.ColorRed),
}

var (
	styleMixed  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
)

// typeGlyphs marks battalions by type; HQs are drawn as '*'.
var typeGlyphs = map[string]rune{
	"infantry":      'i',
	"mech_infantry": 'm',
	"tank":          'T',
	"artillery":     'a',
	"air_defense":   'd',
	"drone":         'v',
}

type termView struct {
	battle *game.Battle
	cfg    game.Config
	screen tcell.Screen
	log    zerolog.Logger
	sound  *tonePlayer

	paused     bool
	turnPaused bool
	result     game.TickResult
}

func newTermView(b *game.Battle, screen tcell.Screen, log zerolog.Logger) *termView {
	return &termView{
		battle: b,
		cfg:    b.Engine.Config(),
		screen: screen,
		log:    log,
	}
}

// step advances one tick unless the view is holding.
func (tv *termView) step() {
	if tv.paused || tv.turnPaused || tv.result.Decided {
		return
	}
	tv.result = tv.battle.Advance()
	switch {
	case tv.result.Decided:
		logDecision(tv.log, tv.result)
		tv.sound.playDecision()
	case tv.result.TurnBoundary:
		tv.turnPaused = true
	}
}

// handleEvent returns false when the user quits.
func (tv *termView) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			if tv.turnPaused {
				tv.battle.Engine.EndTurn()
				tv.turnPaused = false
			}
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				tv.paused = !tv.paused
			}
		}
	case *tcell.EventResize:
		tv.screen.Sync()
	}
	return true
}

// cellGlyph is what one terminal cell shows.
type cellGlyph struct {
	r     rune
	style tcell.Style
	rank  int // higher echelons win the cell
	sides [2]bool
}

// rasterize down-samples the battlefield onto a cols x rows character grid.
func (tv *termView) rasterize(cols, rows int) [][]cellGlyph {
	out := make([][]cellGlyph, rows)
	for y := range out {
		out[y] = make([]cellGlyph, cols)
	}
	if cols <= 0 || rows <= 0 {
		return out
	}
	g := tv.cfg.GridSize
	tv.battle.Engine.ForEachUnit(func(u game.UnitSnapshot) {
		if !u.Alive {
			return
		}
		cx := u.Pos.X * cols / g
		cy := u.Pos.Y * rows / g
		c := &out[cy][cx]
		c.sides[u.Side] = true
		rank := int(u.Echelon) + 1
		if rank <= c.rank {
			return
		}
		c.rank = rank
		c.style = sideStyles[u.Side]
		c.r = '*'
		if !u.Echelon.IsHQ() {
			if r, ok := typeGlyphs[u.Type]; ok {
				c.r = r
			} else {
				c.r = '?'
			}
		}
	})
	for y := range out {
		for x := range out[y] {
			if c := &out[y][x]; c.sides[game.SideBlue] && c.sides[game.SideRed] {
				c.r, c.style = 'X', styleMixed
			}
		}
	}
	return out
}

func (tv *termView) draw() {
	w, h := tv.screen.Size()
	rows := min(h-statusRows, tv.cfg.GridSize)
	cols := min(w, tv.cfg.GridSize)
	tv.screen.Clear()

	for y, line := range tv.rasterize(cols, rows) {
		for x, c := range line {
			r := c.r
			if r == 0 {
				r = '.'
			}
			tv.screen.SetContent(x, y, r, nil, c.style)
		}
	}

	st := tv.battle.Engine.Status()
	blue, red := st.Sides[game.SideBlue], st.Sides[game.SideRed]
	state := "running"
	switch {
	case tv.result.Decided:
		state = "over"
	case tv.paused:
		state = "paused"
	case tv.turnPaused:
		state = "turn end: Enter to continue"
	}
	drawString(tv.screen, 0, rows, styleStatus, fmt.Sprintf("T=%d turn %d  %s  [Space pause, q quit]", st.Tick, st.Turn+1, state))
	drawString(tv.screen, 0, rows+1, styleStatus, fmt.Sprintf("Blue %d/%d edge %d   Red %d/%d edge %d",
		blue.Living, blue.Total, blue.Breakthroughs, red.Living, red.Total, red.Breakthroughs))
	if win, ok := st.Winner(); ok {
		drawString(tv.screen, 0, rows+2, styleBanner, fmt.Sprintf(" %s wins (%s) ", win, st.Reason))
	}
	tv.screen.Show()
}

func drawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
