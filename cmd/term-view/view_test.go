package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Army-Command/internal/game"
)

func newSimView(t *testing.T, opts ...game.SimOption) (*termView, *game.TestSim) {
	t.Helper()
	ts, err := game.BuildTestSim(opts...)
	if err != nil {
		t.Fatalf("BuildTestSim: %v", err)
	}
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(20, 20+statusRows)

	b := &game.Battle{Engine: ts.Engine, Planners: ts.Planners, Sensors: ts.Sensors, SimLog: ts.SimLog}
	return newTermView(b, screen, zerolog.Nop()), ts
}

func TestRasterize_PicksGlyphsAndMarksMixedCells(t *testing.T) {
	tv, _ := newSimView(t,
		game.WithGridSize(40),
		game.WithBlueBattalion("tank", 0, 0),
		game.WithUnit(game.SideBlue, "infantry", game.EchelonRegiment, 10, 0, 0),
		game.WithBlueBattalion("infantry", 11, 1),
		game.WithBlueBattalion("drone", 20, 20),
		game.WithRedBattalion("artillery", 21, 21),
	)
	cells := tv.rasterize(20, 20)

	if got := cells[0][0].r; got != 'T' {
		t.Fatalf("tank cell = %q, want T", got)
	}
	// regiment HQ and a battalion share cell (5,0); the HQ wins
	if got := cells[0][5].r; got != '*' {
		t.Fatalf("HQ cell = %q, want *", got)
	}
	if got := cells[10][10].r; got != 'X' {
		t.Fatalf("contested cell = %q, want X", got)
	}
	if got := cells[19][19].r; got != 0 {
		t.Fatalf("empty cell = %q, want blank", got)
	}
}

func TestHandleEvent_QuitAndPause(t *testing.T) {
	tv, _ := newSimView(t, game.WithGridSize(20), game.WithBlueBattalion("tank", 5, 5))

	if !tv.handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)) {
		t.Fatal("space should not quit")
	}
	if !tv.paused {
		t.Fatal("space did not pause")
	}
	tick := tv.battle.Engine.Tick()
	tv.step()
	if tv.battle.Engine.Tick() != tick {
		t.Fatal("paused view advanced the battle")
	}
	if tv.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatal("q should quit")
	}
	if tv.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("Esc should quit")
	}
}

func TestStep_HoldsAtTurnBoundaryUntilEnter(t *testing.T) {
	tv, ts := newSimView(t,
		game.WithGridSize(40),
		game.WithConfigEdit(func(c *game.Config) { c.TurnSeconds = 0.5 }),
		game.WithBlueBattalion("infantry", 5, 5),
		game.WithRedBattalion("infantry", 30, 35),
	)
	for i := 0; i < 10; i++ {
		tv.step()
	}
	if !tv.turnPaused {
		t.Fatal("expected a turn pause")
	}
	if got := ts.Engine.Tick(); got != 5 {
		t.Fatalf("held at tick %d, want 5", got)
	}
	tv.handleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if tv.turnPaused || ts.Engine.Turn() != 1 {
		t.Fatalf("Enter did not end the turn (paused=%t turn=%d)", tv.turnPaused, ts.Engine.Turn())
	}
	tv.step()
	if got := ts.Engine.Tick(); got != 6 {
		t.Fatalf("tick after continue = %d, want 6", got)
	}
}

func TestDraw_ShowsStatusLine(t *testing.T) {
	tv, _ := newSimView(t, game.WithGridSize(20), game.WithBlueBattalion("tank", 5, 5))
	tv.draw()

	sim := tv.screen.(tcell.SimulationScreen)
	cells, w, _ := sim.GetContents()
	row := 20 // first status row
	var got []rune
	for x := 0; x < 4; x++ {
		got = append(got, cells[row*w+x].Runes...)
	}
	if string(got) != "T=0 " {
		t.Fatalf("status row starts %q, want %q", string(got), "T=0 ")
	}
}
