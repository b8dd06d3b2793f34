// Package viewer renders a battle in an ebiten window and paces the engine
// at its configured tick rate.
package viewer

import (
	"fmt"
	"image"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Army-Command/internal/game"
)

const (
	// cellSize is the on-screen size of one grid cell in pixels.
	cellSize = 8
	// hudHeight is the status strip below the battlefield.
	hudHeight = 72
	// ebitenTPS is ebiten's fixed update rate.
	ebitenTPS = 60
	// flashFrames is how long a status message stays up (~2s).
	flashFrames = 120
)

// contactLister is implemented by sensors that expose their contacts.
type contactLister interface {
	Contacts() []game.Contact
}

// Viewer implements ebiten.Game.
type Viewer struct {
	battle *game.Battle
	cfg    game.Config
	log    zerolog.Logger

	width, height int
	face          text.Face

	paused     bool
	turnPaused bool
	result     game.TickResult
	simSpeed   float64 // multiplier on the configured tick rate
	tickAccum  float64

	overlay    int // -1 = none, otherwise the side whose contacts are drawn
	showHUD    bool
	reporter   *game.SimReporter
	flash      string
	flashLeft  int
	prevKeys   map[ebiten.Key]bool
	prevMouse  bool
	continueAt image.Rectangle

	// onDecided runs once when the battle is won.
	onDecided func(game.Side)
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the viewer's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Viewer) {
		v.log = l
	}
}

// WithDecisionHook runs fn once when a winner is declared.
func WithDecisionHook(fn func(game.Side)) Option {
	return func(v *Viewer) {
		v.onDecided = fn
	}
}

// New builds a viewer for b. The engine's forces must already be generated.
func New(b *game.Battle, opts ...Option) *Viewer {
	cfg := b.Engine.Config()
	w := cfg.GridSize * cellSize
	h := cfg.GridSize*cellSize + hudHeight
	v := &Viewer{
		battle:     b,
		cfg:        cfg,
		log:        zerolog.Nop(),
		width:      w,
		height:     h,
		face:       text.NewGoXFace(basicfont.Face7x13),
		simSpeed:   1,
		overlay:    -1,
		showHUD:    true,
		reporter:   game.NewSimReporter(cfg.TickRate * int(cfg.TurnSeconds)),
		prevKeys:   make(map[ebiten.Key]bool),
		continueAt: image.Rect(w-130, h-40, w-10, h-10),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// WindowSize is the natural window size for this battle.
func (v *Viewer) WindowSize() (int, int) {
	return v.width, v.height
}

func (v *Viewer) Update() error {
	v.handleInput()
	if v.flashLeft > 0 {
		v.flashLeft--
	}
	if v.paused || v.turnPaused || v.result.Decided {
		return nil
	}

	// ebiten ticks at 60 Hz; the battle ticks at cfg.TickRate.
	v.tickAccum += v.simSpeed * float64(v.cfg.TickRate) / ebitenTPS
	for v.tickAccum >= 1.0 {
		v.tickAccum -= 1.0
		v.step()
		if v.turnPaused || v.result.Decided {
			v.tickAccum = 0
			break
		}
	}
	return nil
}

// step advances the engine one tick.
func (v *Viewer) step() {
	b := v.battle
	v.result = b.Advance()
	if v.result.Tick%v.cfg.TickRate == 0 {
		v.reporter.Collect(b.Engine)
	}
	if v.result.Decided {
		v.reporter.Collect(b.Engine)
		v.log.Info().Str("winner", v.result.Winner.String()).Int("tick", v.result.Tick).Msg("battle over")
		if v.onDecided != nil {
			v.onDecided(v.result.Winner)
		}
		return
	}
	if v.result.TurnBoundary {
		v.turnPaused = true
	}
}

// continueTurn closes the turn boundary and resumes the clock.
func (v *Viewer) continueTurn() {
	if !v.turnPaused {
		return
	}
	v.battle.Engine.EndTurn()
	v.turnPaused = false
	v.result.TurnBoundary = false
}

// handleInput processes keypresses (edge-triggered).
func (v *Viewer) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !v.prevKeys[k]
	}

	// Space: pause/resume.
	if pressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	// Enter: continue at a turn boundary.
	if pressed(ebiten.KeyEnter) {
		v.continueTurn()
	}

	// ,/. step the speed multiplier.
	speeds := []float64{0.5, 1, 2, 4, 8}
	if pressed(ebiten.KeyComma) {
		for i := len(speeds) - 1; i >= 0; i-- {
			if speeds[i] < v.simSpeed {
				v.simSpeed = speeds[i]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for _, s := range speeds {
			if s > v.simSpeed {
				v.simSpeed = s
				break
			}
		}
	}

	// V: cycle the recon overlay none -> blue -> red.
	if pressed(ebiten.KeyV) {
		v.overlay++
		if v.overlay > int(game.SideRed) {
			v.overlay = -1
		}
	}

	// H: toggle HUD.
	if pressed(ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}

	// C: copy the battle report.
	if pressed(ebiten.KeyC) {
		v.copyReport()
	}

	mouse := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if mouse && !v.prevMouse && v.turnPaused {
		mx, my := ebiten.CursorPosition()
		if image.Pt(mx, my).In(v.continueAt) {
			v.continueTurn()
		}
	}
	v.prevMouse = mouse
	v.prevKeys = currentKeys
}

func (v *Viewer) copyReport() {
	rpt := v.battle.Report()
	body := rpt.Format() + "\n" + v.reporter.WindowSummary().Format()
	if err := clipboard.WriteAll(body); err != nil {
		v.log.Warn().Err(err).Msg("clipboard unavailable")
		v.setFlash("clipboard unavailable")
		return
	}
	v.setFlash(fmt.Sprintf("report copied (T=%d)", rpt.Tick))
}

func (v *Viewer) setFlash(msg string) {
	v.flash = msg
	v.flashLeft = flashFrames
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width, v.height
}
